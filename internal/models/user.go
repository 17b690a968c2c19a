package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	ID                      int64      `json:"id" db:"id"`                                             // Primary key
	Username                string     `json:"username" db:"username"`                                 // Unique username
	Email                   string     `json:"email" db:"email"`                                       // Unique email
	PasswordHash            string     `json:"-" db:"password_hash"`                                   // Hashed password, never serialized
	IsVerified              bool       `json:"is_verified" db:"is_verified"`                           // Email verification state
	VerificationToken       *string    `json:"-" db:"verification_token"`                              // Pending verification token, nil once verified
	VerificationTokenExpiry *time.Time `json:"-" db:"verification_token_expiry"`                       // Token expiry, nil once verified
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`                             // Creation timestamp
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`                             // Last update timestamp
}

// UserPublic is the user shape returned to clients.
type UserPublic struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the client-visible fields of the user.
func (u *UserDB) Public() UserPublic {
	return UserPublic{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
