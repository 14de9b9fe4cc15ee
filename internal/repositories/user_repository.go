package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/rules"
)

// UserRepository extends the generic relational repository with the
// credential operations the identity subsystem needs. Passwords on this
// backend go through bcrypt; the document backend keeps its own, weaker
// hashing scheme.
type UserRepository struct {
	*GormRepository[models.User]
}

// NewUserRepository creates the relational user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	validate := func(u *models.User) error {
		return rules.ValidateUser(u.Username, u.FullName)
	}
	return &UserRepository{GormRepository: NewGormRepository(db, validate)}
}

// GetByUsername returns the user with their roles, or nil when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return &user, nil
}

// GetByUserPass returns the user when the password verifies against the
// stored bcrypt hash, and nil otherwise.
func (r *UserRepository) GetByUserPass(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// Create hashes the password and inserts the user after a unique-username
// check.
func (r *UserRepository) Create(ctx context.Context, user *models.User, password string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if count > 0 {
		return apperr.BadRequestf(rules.MsgUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.SecurityStamp = uuid.NewString()
	user.ConcurrencyStamp = uuid.NewString()
	user.IsActive = true

	return r.Add(ctx, user)
}

// SetPassword replaces the stored hash after verifying the current password.
func (r *UserRepository) SetPassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return apperr.BadRequestf(rules.MsgWrongOldPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.SecurityStamp = uuid.NewString()
	return nil
}

// AddToRole attaches the named role, creating the role row when missing.
func (r *UserRepository) AddToRole(ctx context.Context, user *models.User, roleName string) error {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = models.Role{Name: roleName}
		if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to find role: %w", err)
	}

	if err := r.db.WithContext(ctx).Model(user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// HasRole reports whether the user carries the named role.
func (r *UserRepository) HasRole(user *models.User, roleName string) bool {
	for _, role := range user.Roles {
		if role.Name == roleName {
			return true
		}
	}
	return false
}
