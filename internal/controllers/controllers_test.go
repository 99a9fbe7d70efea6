package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"gin-accounts-api/internal/middleware"
	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db        *gorm.DB
	accounts  services.AccountService
	users     services.UserService
	adminRole models.Role
	userRole  models.Role
	admin     models.User
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	adminRole := models.Role{Name: "admin"}
	userRole := models.Role{Name: "user"}
	require.NoError(t, db.Create(&adminRole).Error)
	require.NoError(t, db.Create(&userRole).Error)

	admin := models.User{Name: "Admin User", Email: "admin@example.com", RoleID: adminRole.ID}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(&admin).Error)
	admin.Role = adminRole

	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	return &fixture{
		db:        db,
		accounts:  services.NewAccountService(userService, roleService),
		users:     userService,
		adminRole: adminRole,
		userRole:  userRole,
		admin:     admin,
	}
}

// routerAs builds a router whose requests run as the given actor, without
// going through token auth; the auth middleware has its own tests.
func (f *fixture) routerAs(actor *models.User) *gin.Engine {
	r := gin.New()
	if actor != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ActorKey, actor)
			c.Next()
		})
	}

	userController := NewUserController(f.accounts)
	roleController := NewRoleController(f.accounts)
	profileController := NewProfileController(f.accounts)

	r.GET("/api/v1/admin/users", userController.GetAllUsers)
	r.POST("/api/v1/admin/users", userController.CreateUser)
	r.GET("/api/v1/admin/users/:id", userController.GetUserByID)
	r.PUT("/api/v1/admin/users/:id", userController.UpdateUser)
	r.DELETE("/api/v1/admin/users/:id", userController.DeleteUser)

	r.GET("/api/v1/admin/roles", roleController.GetAllRoles)
	r.POST("/api/v1/admin/roles", roleController.CreateRole)
	r.GET("/api/v1/admin/roles/:id", roleController.GetRoleByID)
	r.PUT("/api/v1/admin/roles/:id", roleController.UpdateRole)
	r.DELETE("/api/v1/admin/roles/:id", roleController.DeleteRole)

	r.GET("/api/v1/profile", profileController.Show)
	r.PUT("/api/v1/profile", profileController.Update)
	r.DELETE("/api/v1/profile", profileController.Delete)

	return r
}

func (f *fixture) seedUser(t *testing.T, name, email string) models.User {
	t.Helper()
	u, err := f.users.CreateUser(name, email, "password1", f.userRole.ID)
	require.NoError(t, err)
	return u
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}
