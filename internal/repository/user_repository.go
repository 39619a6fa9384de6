package repository

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/identifier"
	"fintrack/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIdentifier(ctx context.Context, ident identifier.Identifier) (*model.User, error)
	UpdatePassword(ctx context.Context, ident identifier.Identifier, passwordHash string) error
	MarkVerified(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by the column matching the identifier kind.
func (r *userRepository) FindByIdentifier(ctx context.Context, ident identifier.Identifier) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(identifierColumn(ident)+" = ?", ident.Value).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the password hash of the user matching the identifier.
func (r *userRepository) UpdatePassword(ctx context.Context, ident identifier.Identifier, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where(identifierColumn(ident)+" = ?", ident.Value).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) MarkVerified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_verified", true).Error
}

func identifierColumn(ident identifier.Identifier) string {
	if ident.IsMobile() {
		return "mobile"
	}
	return "email"
}
