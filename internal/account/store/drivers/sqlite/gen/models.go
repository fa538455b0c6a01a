package gen

import (
	"time"
)

type ExternalLogin struct {
	LoginProvider string
	ProviderKey   string
	UserID        string
	CreatedAt     time.Time
}

type LocalLogin struct {
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type User struct {
	ID        string
	UserName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
