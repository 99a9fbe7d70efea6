package database

import (
	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/policy"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedConfig holds the initial admin account created when no admin exists
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Seed ensures the canonical roles and the initial admin user exist. It is
// idempotent: re-running against a seeded database changes nothing.
func Seed(db *gorm.DB, cfg SeedConfig) error {
	for _, name := range []string{policy.AdminRoleName, policy.DefaultRoleName} {
		var role models.Role
		if err := db.Where("name = ?", name).FirstOrCreate(&role, models.Role{Name: name}).Error; err != nil {
			return err
		}
	}

	var adminRole models.Role
	if err := db.Where("name = ?", policy.AdminRoleName).First(&adminRole).Error; err != nil {
		return err
	}

	var admins int64
	if err := db.Model(&models.User{}).Where("role_id = ?", adminRole.ID).Count(&admins).Error; err != nil {
		return err
	}
	if admins > 0 {
		log.Debug("Admin user already present, skipping seed")
		return nil
	}

	admin := models.User{
		Name:   cfg.AdminName,
		Email:  cfg.AdminEmail,
		RoleID: adminRole.ID,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"admin_id":    admin.ID,
		"admin_email": admin.Email,
	}).Info("Seeded initial admin user")
	return nil
}
