package services

import (
	"errors"
	"strings"

	"gin-accounts-api/internal/models"
	"gorm.io/gorm"
)

// RoleService provides persistence for roles. Role names are unique
// case-insensitively, and a role cannot be deleted while users reference it.
type RoleService interface {
	// GetAllRoles retrieves all roles ordered by id
	GetAllRoles() ([]models.Role, error)
	// GetRoleByID retrieves a role by its ID
	GetRoleByID(id uint) (models.Role, error)
	// CreateRole creates a new role with a unique name
	CreateRole(name string) (models.Role, error)
	// UpdateRole renames an existing role
	UpdateRole(id uint, name string) (models.Role, error)
	// DeleteRole deletes a role that no user references
	DeleteRole(id uint) error
}

type roleService struct {
	db *gorm.DB
}

// NewRoleService creates a new instance of RoleService
func NewRoleService(db *gorm.DB) RoleService {
	return &roleService{db: db}
}

func (s *roleService) GetAllRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *roleService) GetRoleByID(id uint) (models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Role{}, &NotFoundError{Entity: "role", ID: id}
		}
		return models.Role{}, err
	}
	return role, nil
}

func (s *roleService) CreateRole(name string) (models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Role{}, &ValidationError{Field: "name", Message: "name is required"}
	}

	role := models.Role{Name: name}
	// Uniqueness check and insert run in one transaction so two concurrent
	// creates cannot both pass the check.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Role{}).
			Where("LOWER(name) = ?", strings.ToLower(name)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "name", Reason: "role name already taken"}
		}
		return tx.Create(&role).Error
	})
	if err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (s *roleService) UpdateRole(id uint, name string) (models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Role{}, &ValidationError{Field: "name", Message: "name is required"}
	}

	var role models.Role
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&role, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "role", ID: id}
			}
			return err
		}
		var count int64
		if err := tx.Model(&models.Role{}).
			Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "name", Reason: "role name already taken"}
		}
		role.Name = name
		return tx.Save(&role).Error
	})
	if err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (s *roleService) DeleteRole(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "role", ID: id}
			}
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).
			Where("role_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "role", Reason: "role is still assigned to users"}
		}
		return tx.Delete(&role).Error
	})
}
