package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/account/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose one sub-repository per table so a transaction can hand out the same
// repositories without allowing a transaction inside a transaction.
type Store interface {
	Users() Users
	LocalLogins() LocalLogins
	ExternalLogins() ExternalLogins

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUserName matches the name ignoring case.
	GetUserByUserName(ctx context.Context, userName string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the name is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to the user's logins.
	DeleteUser(ctx context.Context, id string) error
}

type LocalLogins interface {
	GetLocalLogin(ctx context.Context, userID string) (domain.LocalLogin, error)

	// CreateLocalLogin returns ErrAlreadyExists when the user has a password.
	CreateLocalLogin(ctx context.Context, l domain.LocalLogin) error

	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	DeleteLocalLogin(ctx context.Context, userID string) error
}

type ExternalLogins interface {
	GetExternalLogin(ctx context.Context, provider, key string) (domain.ExternalLogin, error)

	// ListExternalLogins returns the user's links, oldest first.
	ListExternalLogins(ctx context.Context, userID string) ([]domain.ExternalLogin, error)

	// CreateExternalLogin returns ErrAlreadyExists when the pair is linked
	// to any user.
	CreateExternalLogin(ctx context.Context, l domain.ExternalLogin) error

	// DeleteExternalLogin only removes the pair from the given user.
	DeleteExternalLogin(ctx context.Context, userID, provider, key string) error
}
