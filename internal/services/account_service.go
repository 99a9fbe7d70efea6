package services

import (
	"errors"

	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/policy"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

// CreateUserInput is the payload for admin user creation and for
// self-registration. The raw password is validated here and hashed by the
// user store; it is never logged.
type CreateUserInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	RoleID          uint   `json:"role_id" validate:"required"`
}

// UpdateUserInput is the payload for user updates. Nil fields are left
// unchanged. RoleID is stripped on self-service profile updates.
type UpdateUserInput struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	RoleID *uint   `json:"role_id"`
}

// AccountService orchestrates account mutations: it consults the
// authorization policy, validates the payload, and only then touches the
// stores. Errors are the typed errors of this package; a denied or invalid
// request never mutates state.
type AccountService interface {
	ListUsers(actor *models.User) ([]models.User, error)
	GetUser(actor *models.User, targetID uint) (models.User, error)
	CreateUser(actor *models.User, input CreateUserInput) (models.User, error)
	UpdateUser(actor *models.User, targetID uint, input UpdateUserInput) (models.User, error)
	DeleteUser(actor *models.User, targetID uint) error

	Profile(actor *models.User) (models.User, error)
	UpdateProfile(actor *models.User, input UpdateUserInput) (models.User, error)
	DeleteProfile(actor *models.User) error

	ListRoles(actor *models.User) ([]models.Role, error)
	GetRole(actor *models.User, roleID uint) (models.Role, error)
	CreateRole(actor *models.User, name string) (models.Role, error)
	UpdateRole(actor *models.User, roleID uint, name string) (models.Role, error)
	DeleteRole(actor *models.User, roleID uint) error

	// Register creates a self-registered user with the default role. It is
	// the only mutation without an actor: the caller is not authenticated
	// yet.
	Register(input RegisterInput) (models.User, error)
}

// RegisterInput is the self-registration payload. The role is never caller
// controlled: self-registered users always get the default role.
type RegisterInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type accountService struct {
	users UserService
	roles RoleService
}

// NewAccountService creates a new instance of AccountService
func NewAccountService(users UserService, roles RoleService) AccountService {
	return &accountService{users: users, roles: roles}
}

// authorize runs the policy decision and logs denials with enough context
// to audit. Raw payloads are never logged.
func (s *accountService) authorize(actor *models.User, action policy.Action, targetID uint) error {
	decision := policy.Decide(actor, action, targetID)
	if decision.Allowed {
		return nil
	}
	log.WithFields(log.Fields{
		"actor_id":  actorID(actor),
		"action":    string(action),
		"target_id": targetID,
		"reason":    decision.Reason,
	}).Warn("Authorization denied")
	return &UnauthorizedError{Action: string(action), Reason: decision.Reason}
}

func actorID(actor *models.User) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}

func (s *accountService) ListUsers(actor *models.User) ([]models.User, error) {
	if err := s.authorize(actor, policy.ListUsers, 0); err != nil {
		return nil, err
	}
	return s.users.GetAllUsers()
}

func (s *accountService) GetUser(actor *models.User, targetID uint) (models.User, error) {
	if err := s.authorize(actor, policy.ViewAnyUser, targetID); err != nil {
		return models.User{}, err
	}
	return s.users.GetUserByID(targetID)
}

func (s *accountService) CreateUser(actor *models.User, input CreateUserInput) (models.User, error) {
	if err := s.authorize(actor, policy.CreateUser, 0); err != nil {
		return models.User{}, err
	}
	if err := validateStruct(input); err != nil {
		return models.User{}, err
	}
	user, err := s.users.CreateUser(input.Name, input.Email, input.Password, input.RoleID)
	if err != nil {
		return models.User{}, err
	}
	log.WithFields(log.Fields{
		"actor_id":  actor.ID,
		"action":    string(policy.CreateUser),
		"target_id": user.ID,
	}).Info("User created")
	return user, nil
}

func (s *accountService) UpdateUser(actor *models.User, targetID uint, input UpdateUserInput) (models.User, error) {
	// Self-edits go through the profile policy and can never change the
	// role; edits of other users require the admin gate.
	if actor != nil && targetID == actor.ID {
		return s.updateWithAction(actor, policy.EditOwnProfile, targetID, stripRole(input))
	}
	return s.updateWithAction(actor, policy.EditAnyUser, targetID, input)
}

func (s *accountService) updateWithAction(actor *models.User, action policy.Action, targetID uint, input UpdateUserInput) (models.User, error) {
	if err := s.authorize(actor, action, targetID); err != nil {
		return models.User{}, err
	}
	if err := validateUpdate(input); err != nil {
		return models.User{}, err
	}
	user, err := s.users.UpdateUser(targetID, UserUpdate{
		Name:   input.Name,
		Email:  input.Email,
		RoleID: input.RoleID,
	})
	if err != nil {
		return models.User{}, err
	}
	log.WithFields(log.Fields{
		"actor_id":  actor.ID,
		"action":    string(action),
		"target_id": targetID,
	}).Info("User updated")
	return user, nil
}

func (s *accountService) DeleteUser(actor *models.User, targetID uint) error {
	if err := s.authorize(actor, policy.DeleteUser, targetID); err != nil {
		return err
	}
	if err := s.users.DeleteUser(targetID); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"actor_id":  actor.ID,
		"action":    string(policy.DeleteUser),
		"target_id": targetID,
	}).Info("User deleted")
	return nil
}

func (s *accountService) Profile(actor *models.User) (models.User, error) {
	if err := s.authorize(actor, policy.ViewProfile, actorID(actor)); err != nil {
		return models.User{}, err
	}
	return s.users.GetUserByID(actor.ID)
}

func (s *accountService) UpdateProfile(actor *models.User, input UpdateUserInput) (models.User, error) {
	return s.updateWithAction(actor, policy.EditOwnProfile, actorID(actor), stripRole(input))
}

func (s *accountService) DeleteProfile(actor *models.User) error {
	if err := s.authorize(actor, policy.DeleteOwnProfile, actorID(actor)); err != nil {
		return err
	}
	if err := s.users.DeleteUser(actor.ID); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"actor_id": actor.ID,
		"action":   string(policy.DeleteOwnProfile),
	}).Info("Profile deleted")
	return nil
}

func (s *accountService) ListRoles(actor *models.User) ([]models.Role, error) {
	if err := s.authorize(actor, policy.ListRoles, 0); err != nil {
		return nil, err
	}
	return s.roles.GetAllRoles()
}

func (s *accountService) GetRole(actor *models.User, roleID uint) (models.Role, error) {
	if err := s.authorize(actor, policy.ListRoles, 0); err != nil {
		return models.Role{}, err
	}
	return s.roles.GetRoleByID(roleID)
}

func (s *accountService) CreateRole(actor *models.User, name string) (models.Role, error) {
	if err := s.authorize(actor, policy.CreateRole, 0); err != nil {
		return models.Role{}, err
	}
	role, err := s.roles.CreateRole(name)
	if err != nil {
		return models.Role{}, err
	}
	log.WithFields(log.Fields{
		"actor_id":  actor.ID,
		"action":    string(policy.CreateRole),
		"target_id": role.ID,
	}).Info("Role created")
	return role, nil
}

func (s *accountService) UpdateRole(actor *models.User, roleID uint, name string) (models.Role, error) {
	if err := s.authorize(actor, policy.EditRole, 0); err != nil {
		return models.Role{}, err
	}
	role, err := s.roles.UpdateRole(roleID, name)
	if err != nil {
		return models.Role{}, err
	}
	log.WithFields(log.Fields{
		"actor_id":  actor.ID,
		"action":    string(policy.EditRole),
		"target_id": roleID,
	}).Info("Role updated")
	return role, nil
}

func (s *accountService) DeleteRole(actor *models.User, roleID uint) error {
	if err := s.authorize(actor, policy.DeleteRole, 0); err != nil {
		return err
	}
	if err := s.roles.DeleteRole(roleID); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"actor_id":  actor.ID,
		"action":    string(policy.DeleteRole),
		"target_id": roleID,
	}).Info("Role deleted")
	return nil
}

func (s *accountService) Register(input RegisterInput) (models.User, error) {
	if err := validateStruct(input); err != nil {
		return models.User{}, err
	}
	role, err := s.defaultRole()
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.CreateUser(input.Name, input.Email, input.Password, role.ID)
	if err != nil {
		return models.User{}, err
	}
	log.WithFields(log.Fields{
		"action":    "register",
		"target_id": user.ID,
	}).Info("User registered")
	return user, nil
}

func (s *accountService) defaultRole() (models.Role, error) {
	roles, err := s.roles.GetAllRoles()
	if err != nil {
		return models.Role{}, err
	}
	for _, r := range roles {
		if r.Name == policy.DefaultRoleName {
			return r, nil
		}
	}
	return models.Role{}, &ValidationError{Field: "role_id", Message: "default role does not exist"}
}

// stripRole drops the role field from a self-service update.
func stripRole(input UpdateUserInput) UpdateUserInput {
	input.RoleID = nil
	return input
}

// validateStruct maps the first validator failure to a field-level
// ValidationError.
func validateStruct(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
	}
	return err
}

func validateUpdate(input UpdateUserInput) error {
	if input.Name != nil {
		if err := validate.Var(*input.Name, "required"); err != nil {
			return &ValidationError{Field: "name", Message: "name is required"}
		}
	}
	if input.Email != nil {
		if err := validate.Var(*input.Email, "required,email"); err != nil {
			return &ValidationError{Field: "email", Message: "must be a valid email address"}
		}
	}
	if input.RoleID != nil && *input.RoleID == 0 {
		return &ValidationError{Field: "role_id", Message: "role_id is required"}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return "is invalid"
	}
}
