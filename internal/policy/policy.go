package policy

import (
	"strings"

	"gin-accounts-api/internal/models"
)

// AdminRoleName is the role name that grants administrative access.
// Role names are compared case-insensitively.
const AdminRoleName = "admin"

// DefaultRoleName is the role assigned to self-registered users.
const DefaultRoleName = "user"

// Action identifies an operation an actor wants to perform.
type Action string

const (
	ViewProfile      Action = "view_profile"
	EditOwnProfile   Action = "edit_own_profile"
	DeleteOwnProfile Action = "delete_own_profile"
	ListUsers        Action = "list_users"
	CreateUser       Action = "create_user"
	ViewAnyUser      Action = "view_any_user"
	EditAnyUser      Action = "edit_any_user"
	DeleteUser       Action = "delete_user"
	ListRoles        Action = "list_roles"
	CreateRole       Action = "create_role"
	EditRole         Action = "edit_role"
	DeleteRole       Action = "delete_role"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide returns whether the actor may perform the action. targetID is the
// id of the user the action operates on; it is ignored for role and list
// actions. The function is pure: it never touches storage, and an unknown
// actor or action is denied.
func Decide(actor *models.User, action Action, targetID uint) Decision {
	if actor == nil || actor.ID == 0 {
		return deny("unauthenticated")
	}

	switch action {
	case ViewProfile, EditOwnProfile, DeleteOwnProfile:
		if targetID == actor.ID {
			return allow()
		}
		return deny("unauthorized")
	case ListUsers, CreateUser, ViewAnyUser, EditAnyUser, DeleteUser,
		ListRoles, CreateRole, EditRole, DeleteRole:
		if IsAdmin(actor) {
			return allow()
		}
		return deny("unauthorized")
	default:
		return deny("unknown action")
	}
}

// IsAdmin reports whether the actor carries the admin role.
func IsAdmin(actor *models.User) bool {
	if actor == nil {
		return false
	}
	return strings.EqualFold(actor.Role.Name, AdminRoleName)
}
