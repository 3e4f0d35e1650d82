package model

import "time"

// Profile is the public face of an account, used for attribution
type Profile struct {
	ID        string
	UserID    UserID // unique
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account holds sign-in credentials for an identity.
// Stored separately from Profile so password hashes never travel with attribution data.
type Account struct {
	UserID       UserID
	Email        string // unique, stored lowercased
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// Identity is the acting user of an operation
type Identity struct {
	UserID   UserID
	Nickname string
}
