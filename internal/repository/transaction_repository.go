package repository

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/model"
)

// TransactionRepository defines transaction persistence operations.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction record.
func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// ListByUser returns the user's transactions, newest first. Ties on date fall
// back to id so insertion order inside one day stays stable.
func (r *transactionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
