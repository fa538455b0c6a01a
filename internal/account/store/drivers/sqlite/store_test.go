package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/internal/account/store"
	"github.com/aussiebroadwan/account/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	// Second run is a no-op.
	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s store.Store, name string) domain.User {
	t.Helper()
	u := domain.User{ID: idx.New().String(), UserName: name}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice := createUser(t, s, "alice")

	got, err := s.Users().GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.UserName)
	require.False(t, got.CreatedAt.IsZero())

	t.Run("name lookup ignores case", func(t *testing.T) {
		got, err := s.Users().GetUserByUserName(ctx, "ALICE")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
	})

	t.Run("name is unique ignoring case", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, domain.User{ID: idx.New().String(), UserName: "Alice"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Users().GetUserByUserName(ctx, "bob")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().DeleteUser(ctx, "nope"), store.ErrNotFound)
	})
}

func TestLocalLogins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "alice")

	_, err := s.LocalLogins().GetLocalLogin(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.LocalLogins().CreateLocalLogin(ctx, domain.LocalLogin{UserID: u.ID, PasswordHash: "h1"}))
	err = s.LocalLogins().CreateLocalLogin(ctx, domain.LocalLogin{UserID: u.ID, PasswordHash: "h2"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.LocalLogins().UpdatePasswordHash(ctx, u.ID, "h3"))
	got, err := s.LocalLogins().GetLocalLogin(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "h3", got.PasswordHash)

	require.NoError(t, s.LocalLogins().DeleteLocalLogin(ctx, u.ID))
	require.ErrorIs(t, s.LocalLogins().DeleteLocalLogin(ctx, u.ID), store.ErrNotFound)
	require.ErrorIs(t, s.LocalLogins().UpdatePasswordHash(ctx, u.ID, "h4"), store.ErrNotFound)

	t.Run("requires an existing user", func(t *testing.T) {
		err := s.LocalLogins().CreateLocalLogin(ctx, domain.LocalLogin{UserID: "ghost", PasswordHash: "h"})
		require.Error(t, err)
	})
}

func TestExternalLogins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	link := domain.ExternalLogin{LoginProvider: "Google", ProviderKey: "g-1", UserID: alice.ID}
	require.NoError(t, s.ExternalLogins().CreateExternalLogin(ctx, link))
	require.NoError(t, s.ExternalLogins().CreateExternalLogin(ctx, domain.ExternalLogin{
		LoginProvider: "GitHub", ProviderKey: "42", UserID: alice.ID,
	}))

	t.Run("pair is unique across users", func(t *testing.T) {
		dup := link
		dup.UserID = bob.ID
		require.ErrorIs(t, s.ExternalLogins().CreateExternalLogin(ctx, dup), store.ErrAlreadyExists)
	})

	got, err := s.ExternalLogins().GetExternalLogin(ctx, "Google", "g-1")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.UserID)

	list, err := s.ExternalLogins().ListExternalLogins(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = s.ExternalLogins().ListExternalLogins(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, list)

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		err := s.ExternalLogins().DeleteExternalLogin(ctx, bob.ID, "Google", "g-1")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, s.ExternalLogins().DeleteExternalLogin(ctx, alice.ID, "Google", "g-1"))
		_, err = s.ExternalLogins().GetExternalLogin(ctx, "Google", "g-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("deleting the user cascades", func(t *testing.T) {
		require.NoError(t, s.Users().DeleteUser(ctx, alice.ID))
		_, err := s.ExternalLogins().GetExternalLogin(ctx, "GitHub", "42")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{ID: idx.New().String(), UserName: "carol"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByUserName(ctx, "carol")
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back")

	err = s.WithTx(ctx, func(tx store.Tx) error {
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), sql.ErrTxDone)
		return tx.Users().CreateUser(ctx, domain.User{ID: idx.New().String(), UserName: "carol"})
	})
	require.NoError(t, err)

	_, err = s.Users().GetUserByUserName(ctx, "carol")
	require.NoError(t, err)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
