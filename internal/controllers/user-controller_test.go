package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"gin-accounts-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersAsAdmin(t *testing.T) {
	f := setupFixture(t)
	f.seedUser(t, "John", "john@x.com")
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "GET", "/api/v1/admin/users", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "john@x.com")
	assert.NotContains(t, w.Body.String(), "password", "hashes must never be serialized")
}

func TestListUsersAsNonAdmin(t *testing.T) {
	f := setupFixture(t)
	john := f.seedUser(t, "John", "john@x.com")
	r := f.routerAs(&john)

	w := doJSON(t, r, "GET", "/api/v1/admin/users", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateUserAsAdmin(t *testing.T) {
	f := setupFixture(t)
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "POST", "/api/v1/admin/users", map[string]interface{}{
		"name":             "John",
		"email":            "john@x.com",
		"password":         "password1",
		"password_confirm": "password1",
		"role_id":          f.userRole.ID,
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var count int64
	f.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := setupFixture(t)
	f.seedUser(t, "John", "john@x.com")
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "POST", "/api/v1/admin/users", map[string]interface{}{
		"name":             "Johnny",
		"email":            "john@x.com",
		"password":         "password1",
		"password_confirm": "password1",
		"role_id":          f.userRole.ID,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	var count int64
	f.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCreateUserShortPassword(t *testing.T) {
	f := setupFixture(t)
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "POST", "/api/v1/admin/users", map[string]interface{}{
		"name":             "John",
		"email":            "john@x.com",
		"password":         "short",
		"password_confirm": "short",
		"role_id":          f.userRole.ID,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserAsAdmin(t *testing.T) {
	f := setupFixture(t)
	john := f.seedUser(t, "John", "john@x.com")
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "PUT", fmt.Sprintf("/api/v1/admin/users/%d", john.ID), map[string]interface{}{
		"name":    "John Doe",
		"role_id": f.adminRole.ID,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "John Doe")
	assert.Contains(t, w.Body.String(), `"name":"admin"`)
}

func TestDeleteUserAsAdmin(t *testing.T) {
	f := setupFixture(t)
	john := f.seedUser(t, "John", "john@x.com")
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/admin/users/%d", john.ID), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteLastAdminConflicts(t *testing.T) {
	f := setupFixture(t)
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/admin/users/%d", f.admin.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteUserAsNonAdmin(t *testing.T) {
	f := setupFixture(t)
	john := f.seedUser(t, "John", "john@x.com")
	r := f.routerAs(&john)

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/admin/users/%d", f.admin.ID), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var count int64
	f.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGetUserInvalidID(t *testing.T) {
	f := setupFixture(t)
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "GET", "/api/v1/admin/users/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	f := setupFixture(t)
	r := f.routerAs(&f.admin)

	w := doJSON(t, r, "GET", "/api/v1/admin/users/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
