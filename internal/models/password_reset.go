package models

import "time"

// PasswordResetDB represents a password reset request in the database.
// A user may have several outstanding requests; each is valid until it is
// consumed or expires.
type PasswordResetDB struct {
	ID        int64     `json:"id" db:"id"`                 // Primary key
	UserID    int64     `json:"user_id" db:"user_id"`       // Owning user
	Token     string    `json:"-" db:"token"`               // Opaque reset token
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"` // Hard expiry
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}
