package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/model"
)

// PasswordResetRepository defines one-time passcode persistence operations.
type PasswordResetRepository interface {
	Upsert(ctx context.Context, reset *model.PasswordReset) error
	Find(ctx context.Context, ident string) (*model.PasswordReset, error)
	ConsumeCode(ctx context.Context, ident, code string, now time.Time) (bool, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset repository.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

// Upsert writes the row for the identifier, replacing any previous code and
// expiry in a single statement. The prior code becomes unusable.
func (r *passwordResetRepository) Upsert(ctx context.Context, reset *model.PasswordReset) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
	}).Create(reset).Error
}

// Find returns the row for the identifier, if any.
func (r *passwordResetRepository) Find(ctx context.Context, ident string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := r.db.WithContext(ctx).Where("identifier = ?", ident).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// ConsumeCode deletes the row only when identifier, code and expiry all match,
// in one conditional DELETE. The row's disappearance is the mutual exclusion:
// of two concurrent verifications at most one sees RowsAffected == 1.
func (r *passwordResetRepository) ConsumeCode(ctx context.Context, ident, code string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("identifier = ? AND code = ? AND expires_at > ?", ident, code, now).
		Delete(&model.PasswordReset{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
