package model

import "time"

// PasswordReset holds the active one-time passcode for a contact identifier.
// The unique index on Identifier keeps at most one live code per address;
// a new request upserts over the previous one.
type PasswordReset struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	Identifier string    `json:"identifier" gorm:"uniqueIndex;size:255;not null"`
	Code       string    `json:"-" gorm:"size:6;not null"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
