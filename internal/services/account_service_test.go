package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreateUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, userRole, admin := seedBaseline(t, db)

	created, err := accounts.CreateUser(&admin, CreateUserInput{
		Name:            "John",
		Email:           "john@x.com",
		Password:        "password1",
		PasswordConfirm: "password1",
		RoleID:          userRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "John", created.Name)
	assert.Equal(t, "user", created.Role.Name)
	assert.Equal(t, int64(2), userCount(t, db))
}

func TestAccountCreateUserValidation(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, userRole, admin := seedBaseline(t, db)

	testCases := []struct {
		name  string
		input CreateUserInput
		field string
	}{
		{
			name: "missing name",
			input: CreateUserInput{
				Email: "john@x.com", Password: "password1", PasswordConfirm: "password1", RoleID: userRole.ID,
			},
			field: "Name",
		},
		{
			name: "invalid email",
			input: CreateUserInput{
				Name: "John", Email: "not-an-email", Password: "password1", PasswordConfirm: "password1", RoleID: userRole.ID,
			},
			field: "Email",
		},
		{
			name: "password too short",
			input: CreateUserInput{
				Name: "John", Email: "john@x.com", Password: "pass1", PasswordConfirm: "pass1", RoleID: userRole.ID,
			},
			field: "Password",
		},
		{
			name: "confirmation mismatch",
			input: CreateUserInput{
				Name: "John", Email: "john@x.com", Password: "password1", PasswordConfirm: "password2", RoleID: userRole.ID,
			},
			field: "PasswordConfirm",
		},
		{
			name: "missing role",
			input: CreateUserInput{
				Name: "John", Email: "john@x.com", Password: "password1", PasswordConfirm: "password1",
			},
			field: "RoleID",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.CreateUser(&admin, tt.input)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, int64(1), userCount(t, db), "failed validation must not create rows")
		})
	}
}

func TestAccountNonAdminMutationsDenied(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, userRole, admin := seedBaseline(t, db)

	john, err := users.CreateUser("John", "john@x.com", "password1", userRole.ID)
	require.NoError(t, err)

	usersBefore := userCount(t, db)
	rolesBefore := roleCount(t, db)

	var unauthorized *UnauthorizedError

	_, err = accounts.CreateRole(&john, "editor")
	require.ErrorAs(t, err, &unauthorized)

	err = accounts.DeleteUser(&john, admin.ID)
	require.ErrorAs(t, err, &unauthorized)

	name := "Hacked"
	_, err = accounts.UpdateUser(&john, admin.ID, UpdateUserInput{Name: &name})
	require.ErrorAs(t, err, &unauthorized)

	_, err = accounts.ListUsers(&john)
	require.ErrorAs(t, err, &unauthorized)

	assert.Equal(t, usersBefore, userCount(t, db), "denied mutations must not change users")
	assert.Equal(t, rolesBefore, roleCount(t, db), "denied mutations must not change roles")

	got, err := users.GetUserByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin User", got.Name)
}

func TestAccountSelfUpdateCannotChangeRole(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	adminRole, userRole, _ := seedBaseline(t, db)

	john, err := users.CreateUser("John", "john@x.com", "password1", userRole.ID)
	require.NoError(t, err)

	name := "John Doe"
	updated, err := accounts.UpdateUser(&john, john.ID, UpdateUserInput{
		Name:   &name,
		RoleID: &adminRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", updated.Name)
	assert.Equal(t, userRole.ID, updated.RoleID, "self-service edit must not change the role")
}

func TestAccountUpdateProfileStripsRole(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	adminRole, userRole, _ := seedBaseline(t, db)

	john, err := users.CreateUser("John", "john@x.com", "password1", userRole.ID)
	require.NoError(t, err)

	email := "john.doe@x.com"
	updated, err := accounts.UpdateProfile(&john, UpdateUserInput{
		Email:  &email,
		RoleID: &adminRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "john.doe@x.com", updated.Email)
	assert.Equal(t, userRole.ID, updated.RoleID)
}

func TestAccountAdminCanChangeOtherUsersRole(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	adminRole, userRole, admin := seedBaseline(t, db)

	john, err := users.CreateUser("John", "john@x.com", "password1", userRole.ID)
	require.NoError(t, err)

	updated, err := accounts.UpdateUser(&admin, john.ID, UpdateUserInput{RoleID: &adminRole.ID})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role.Name)
}

func TestAccountDeleteLastAdminAlwaysConflicts(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, _, admin := seedBaseline(t, db)

	// Even the admin themselves cannot remove the last admin account
	err := accounts.DeleteUser(&admin, admin.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	err = accounts.DeleteProfile(&admin)
	require.ErrorAs(t, err, &conflict)

	assert.Equal(t, int64(1), userCount(t, db))
}

// Seed creates Role{admin}, Role{user} and the initial admin. The admin
// creates John with the user role, then John tries to delete the admin.
func TestAccountAdminCreatesUserThenUserCannotDeleteAdmin(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, userRole, admin := seedBaseline(t, db)

	john, err := accounts.CreateUser(&admin, CreateUserInput{
		Name:            "John",
		Email:           "john@x.com",
		Password:        "password1",
		PasswordConfirm: "password1",
		RoleID:          userRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), userCount(t, db))

	err = accounts.DeleteUser(&john, admin.ID)
	var unauthorized *UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, int64(2), userCount(t, db))
}

func TestAccountCreateUserDuplicateEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, userRole, admin := seedBaseline(t, db)

	input := CreateUserInput{
		Name:            "John",
		Email:           "john@x.com",
		Password:        "password1",
		PasswordConfirm: "password1",
		RoleID:          userRole.ID,
	}
	_, err := accounts.CreateUser(&admin, input)
	require.NoError(t, err)
	before := userCount(t, db)

	input.Name = "Johnny"
	_, err = accounts.CreateUser(&admin, input)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, before, userCount(t, db))
}

func TestAccountRoleLifecycle(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	_, _, admin := seedBaseline(t, db)

	role, err := accounts.CreateRole(&admin, "editor")
	require.NoError(t, err)

	renamed, err := accounts.UpdateRole(&admin, role.ID, "moderator")
	require.NoError(t, err)
	assert.Equal(t, "moderator", renamed.Name)

	listed, err := accounts.ListRoles(&admin)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	require.NoError(t, accounts.DeleteRole(&admin, role.ID))

	listed, err = accounts.ListRoles(&admin)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestAccountRegister(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	seedBaseline(t, db)

	user, err := accounts.Register(RegisterInput{
		Name:            "Jane",
		Email:           "jane@x.com",
		Password:        "password1",
		PasswordConfirm: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role.Name, "self-registration always gets the default role")
}

func TestAccountRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)
	roles := NewRoleService(db)
	accounts := NewAccountService(users, roles)
	seedBaseline(t, db)

	_, err := accounts.Register(RegisterInput{
		Name:            "Jane",
		Email:           "jane@x.com",
		Password:        "password1",
		PasswordConfirm: "different1",
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, int64(1), userCount(t, db))
}
