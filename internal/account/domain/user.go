package domain

import "time"

// User is an account. UserName is unique ignoring case.
type User struct {
	ID        string
	UserName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
