package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense entry owned by a user.
type Transaction struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"not null;index"`
	Type      TransactionType `json:"type" gorm:"type:varchar(10);not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Purpose   string          `json:"purpose" gorm:"type:text;not null"`
	Category  string          `json:"category" gorm:"size:64;not null"`
	Date      time.Time       `json:"date" gorm:"not null;index"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}
