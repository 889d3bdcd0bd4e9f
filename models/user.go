package models

import "github.com/google/uuid"

type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
}

// Profile is the public part of a user account.
type Profile struct {
	UserID   uuid.UUID `db:"id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
}
