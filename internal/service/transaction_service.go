package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// TransactionService handles income and expense entries.
type TransactionService interface {
	Create(ctx context.Context, userID uint, txnType model.TransactionType, amount decimal.Decimal, purpose, category string, date time.Time) (*model.Transaction, error)
	List(ctx context.Context, userID uint) ([]model.Transaction, error)
}

type transactionService struct {
	txnRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo repository.TransactionRepository) TransactionService {
	return &transactionService{txnRepo: txnRepo}
}

// Create validates and stores a transaction for the user.
func (s *transactionService) Create(ctx context.Context, userID uint, txnType model.TransactionType, amount decimal.Decimal, purpose, category string, date time.Time) (*model.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}
	if date.IsZero() {
		date = time.Now()
	}

	txn := &model.Transaction{
		UserID:   userID,
		Type:     txnType,
		Amount:   amount,
		Purpose:  purpose,
		Category: category,
		Date:     date,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return txn, nil
}

// List returns the user's transactions, newest first.
func (s *transactionService) List(ctx context.Context, userID uint) ([]model.Transaction, error) {
	txns, err := s.txnRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
