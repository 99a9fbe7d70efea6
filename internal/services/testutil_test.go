package services

import (
	"fmt"
	"testing"

	"gin-accounts-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database for one test. The
// shared-cache DSN keeps all pooled connections on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))
	return db
}

// seedBaseline creates the admin and user roles plus one admin account,
// mirroring the production seed bootstrap.
func seedBaseline(t *testing.T, db *gorm.DB) (adminRole, userRole models.Role, admin models.User) {
	t.Helper()

	adminRole = models.Role{Name: "admin"}
	userRole = models.Role{Name: "user"}
	require.NoError(t, db.Create(&adminRole).Error)
	require.NoError(t, db.Create(&userRole).Error)

	admin = models.User{Name: "Admin User", Email: "admin@example.com", RoleID: adminRole.ID}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(&admin).Error)
	admin.Role = adminRole
	return adminRole, userRole, admin
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	return count
}

func roleCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	return count
}
