package services

import (
	"errors"
	"strings"

	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/policy"
	"gorm.io/gorm"
)

// UserUpdate carries the optional fields of a user update. Nil fields are
// left unchanged.
type UserUpdate struct {
	Name   *string
	Email  *string
	RoleID *uint
}

// UserService provides persistence for users. Emails are unique, every user
// references an existing role, and the last admin-role user can be neither
// deleted nor reassigned to another role.
type UserService interface {
	// GetAllUsers retrieves all users with their role preloaded
	GetAllUsers() ([]models.User, error)
	// GetUserByID retrieves a user by its ID with its role preloaded
	GetUserByID(id uint) (models.User, error)
	// GetUserByEmail retrieves a user by email with its role preloaded
	GetUserByEmail(email string) (models.User, error)
	// CreateUser creates a new user; the raw password is hashed before storage
	CreateUser(name, email, rawPassword string, roleID uint) (models.User, error)
	// UpdateUser applies the non-nil fields of the update
	UpdateUser(id uint, update UserUpdate) (models.User, error)
	// DeleteUser deletes a user unless it is the last remaining admin
	DeleteUser(id uint) error
}

type userService struct {
	db *gorm.DB
}

// NewUserService creates a new instance of UserService
func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Preload("Role").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUserByID(id uint) (models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, &NotFoundError{Entity: "user", ID: id}
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, &NotFoundError{Entity: "user"}
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) CreateUser(name, email, rawPassword string, roleID uint) (models.User, error) {
	user := models.User{Name: name, Email: email, RoleID: roleID}
	if err := user.SetPassword(rawPassword); err != nil {
		return models.User{}, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := emailTaken(tx, email, 0); err != nil {
			return err
		}
		var role models.Role
		if err := tx.First(&role, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Field: "role_id", Message: "role does not exist"}
			}
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(user.ID)
}

func (s *userService) UpdateUser(id uint, update UserUpdate) (models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Role").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "user", ID: id}
			}
			return err
		}
		if update.Name != nil {
			user.Name = *update.Name
		}
		if update.Email != nil && *update.Email != user.Email {
			if err := emailTaken(tx, *update.Email, id); err != nil {
				return err
			}
			user.Email = *update.Email
		}
		if update.RoleID != nil && *update.RoleID != user.RoleID {
			var role models.Role
			if err := tx.First(&role, *update.RoleID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ValidationError{Field: "role_id", Message: "role does not exist"}
				}
				return err
			}
			// Reassigning the last admin away from the admin role would
			// leave the system without administrators.
			if policy.IsAdmin(&user) && !strings.EqualFold(role.Name, policy.AdminRoleName) {
				last, err := isLastAdmin(tx, user.ID)
				if err != nil {
					return err
				}
				if last {
					return &ConflictError{Field: "role_id", Reason: "cannot demote the last remaining admin"}
				}
			}
			user.RoleID = *update.RoleID
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

func (s *userService) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Preload("Role").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "user", ID: id}
			}
			return err
		}
		if policy.IsAdmin(&user) {
			last, err := isLastAdmin(tx, user.ID)
			if err != nil {
				return err
			}
			if last {
				return &ConflictError{Field: "user", Reason: "cannot delete the last remaining admin"}
			}
		}
		return tx.Delete(&user).Error
	})
}

// emailTaken fails with a ConflictError when another user than excludeID
// already uses the email. Must run inside the caller's transaction.
func emailTaken(tx *gorm.DB, email string, excludeID uint) error {
	var count int64
	q := tx.Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Field: "email", Reason: "email already taken"}
	}
	return nil
}

// isLastAdmin reports whether userID is the only user holding the admin
// role. Must run inside the caller's transaction so concurrent deletions
// cannot both observe a second admin.
func isLastAdmin(tx *gorm.DB, userID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("LOWER(roles.name) = ? AND users.id <> ?", policy.AdminRoleName, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
