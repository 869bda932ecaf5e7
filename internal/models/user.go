package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`       // Primary key
	Email        string    `json:"email" db:"email"`           // Unique email, identity key
	FirstName    string    `json:"first_name" db:"first_name"` // Display first name
	LastName     string    `json:"last_name" db:"last_name"`   // Display last name
	PasswordHash *string   `json:"-" db:"password_hash"`       // Bcrypt hash, NULL for legacy rows
	OTP          *string   `json:"-" db:"otp"`                 // Outstanding 6-digit code, NULL once verified
	Verified     bool      `json:"verified" db:"verified"`     // Email ownership confirmed
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // Last update timestamp
}
