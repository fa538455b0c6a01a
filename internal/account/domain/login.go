package domain

import "time"

// LocalLoginProvider names the password login in login listings.
const LocalLoginProvider = "Local"

// LocalLogin is the password of a user. A user has at most one.
type LocalLogin struct {
	UserID       string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExternalLogin links a (provider, key) pair to a user. The pair is unique
// across all users.
type ExternalLogin struct {
	LoginProvider string
	ProviderKey   string
	UserID        string
	CreatedAt     time.Time
}

// UserLogin is one entry of a user's login listing.
type UserLogin struct {
	LoginProvider string
	ProviderKey   string
}
