package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/account/pkg/cryptox"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("service-test-pepper")
	os.Exit(m.Run())
}

func newCredentials(t *testing.T) *CredentialService {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return &CredentialService{Store: s}
}

func mustRegister(t *testing.T, c *CredentialService, name, password string) domain.User {
	t.Helper()
	u, res, err := c.CreateLocalUser(context.Background(), name, password)
	require.NoError(t, err)
	require.True(t, res.Succeeded, res.Errors)
	return u
}

func TestCreateLocalUser(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)

	alice := mustRegister(t, c, "alice", "secret1")
	require.NotEmpty(t, alice.ID)

	t.Run("name taken ignoring case", func(t *testing.T) {
		_, res, err := c.CreateLocalUser(ctx, "ALICE", "secret1")
		require.NoError(t, err)
		require.False(t, res.Succeeded)
		require.Equal(t, []string{"Name ALICE is already taken."}, res.Errors)
	})

	t.Run("short password", func(t *testing.T) {
		_, res, err := c.CreateLocalUser(ctx, "bob", "12345")
		require.NoError(t, err)
		require.Equal(t, []string{"Passwords must be at least 6 characters."}, res.Errors)
	})

	t.Run("user name must be letters or digits", func(t *testing.T) {
		for _, name := range []string{"", "bob smith", "bob!", "bøb"} {
			_, res, err := c.CreateLocalUser(ctx, name, "secret1")
			require.NoError(t, err)
			require.False(t, res.Succeeded, name)
		}
	})

	t.Run("configurable minimum length", func(t *testing.T) {
		short := &CredentialService{Store: c.Store, MinPasswordLength: 4}
		_, res, err := short.CreateLocalUser(ctx, "dave", "Pw1!")
		require.NoError(t, err)
		require.True(t, res.Succeeded)
	})
}

func TestValidateLocalLogin(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)
	alice := mustRegister(t, c, "alice", "secret1")

	id, ok, err := c.ValidateLocalLogin(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice.ID, id)

	id, ok, err = c.ValidateLocalLogin(ctx, "Alice", "secret1")
	require.NoError(t, err)
	require.True(t, ok, "user names ignore case")
	require.Equal(t, alice.ID, id)

	for _, tc := range []struct{ name, user, pw string }{
		{"wrong password", "alice", "secret2"},
		{"unknown user", "mallory", "secret1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			id, ok, err := c.ValidateLocalLogin(ctx, tc.user, tc.pw)
			require.NoError(t, err)
			require.False(t, ok)
			require.Empty(t, id)
		})
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)
	mustRegister(t, c, "alice", "secret1")

	res, err := c.ChangePassword(ctx, "alice", "wrong!!", "secret2")
	require.NoError(t, err)
	require.Equal(t, []string{"Incorrect password."}, res.Errors)

	res, err = c.ChangePassword(ctx, "alice", "secret1", "short")
	require.NoError(t, err)
	require.False(t, res.Succeeded)

	res, err = c.ChangePassword(ctx, "alice", "secret1", "secret2")
	require.NoError(t, err)
	require.True(t, res.Succeeded)

	_, ok, err := c.ValidateLocalLogin(ctx, "alice", "secret2")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestExternalUsers(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)

	bob, res, err := c.CreateExternalUser(ctx, "bob", "Google", "g-1")
	require.NoError(t, err)
	require.True(t, res.Succeeded)

	userID, err := c.GetUserIDForLogin(ctx, "Google", "g-1")
	require.NoError(t, err)
	require.Equal(t, bob.ID, userID)

	userID, err = c.GetUserIDForLogin(ctx, "Google", "never-linked")
	require.NoError(t, err)
	require.Empty(t, userID)

	t.Run("same login twice creates no second user", func(t *testing.T) {
		_, res, err := c.CreateExternalUser(ctx, "bob2", "Google", "g-1")
		require.NoError(t, err)
		require.Equal(t, []string{"A user with that external login already exists."}, res.Errors)

		_, err = c.Store.Users().GetUserByUserName(ctx, "bob2")
		require.Error(t, err, "transaction must roll the user back")
	})

	t.Run("set password once", func(t *testing.T) {
		res, err := c.CreateLocalLogin(ctx, bob.ID, "bob", "secret1")
		require.NoError(t, err)
		require.True(t, res.Succeeded)

		res, err = c.CreateLocalLogin(ctx, bob.ID, "bob", "secret2")
		require.NoError(t, err)
		require.Equal(t, []string{"User already has a password set."}, res.Errors)
	})

	t.Run("logins list local first", func(t *testing.T) {
		res, err := c.AddLogin(ctx, bob.ID, "GitHub", "42")
		require.NoError(t, err)
		require.True(t, res.Succeeded)

		logins, err := c.GetLogins(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, logins, 3)
		require.Equal(t, domain.UserLogin{LoginProvider: "Local", ProviderKey: "bob"}, logins[0])
	})

	t.Run("add login already linked elsewhere", func(t *testing.T) {
		alice := mustRegister(t, c, "alice", "secret1")
		res, err := c.AddLogin(ctx, alice.ID, "Google", "g-1")
		require.NoError(t, err)
		require.Equal(t, []string{"A user with that external login already exists."}, res.Errors)
	})
}

func TestRemoveLogin(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)
	alice := mustRegister(t, c, "alice", "secret1")

	res, err := c.RemoveLogin(ctx, alice.ID, "Local", "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"A user must keep at least one login."}, res.Errors)

	res, err = c.AddLogin(ctx, alice.ID, "Google", "g-1")
	require.NoError(t, err)
	require.True(t, res.Succeeded)

	res, err = c.RemoveLogin(ctx, alice.ID, "Google", "other")
	require.NoError(t, err)
	require.Equal(t, []string{"The login does not exist."}, res.Errors)

	res, err = c.RemoveLogin(ctx, alice.ID, "Local", "ALICE")
	require.NoError(t, err)
	require.True(t, res.Succeeded)

	_, ok, err := c.ValidateLocalLogin(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.False(t, ok, "password removed")
}

func newTokens(t *testing.T, c *CredentialService) *TokenService {
	t.Helper()
	codec, err := ticketx.NewJWECodec([]byte("service-test-secret-0123456789ab"), ticketx.PurposeBearer, 20*time.Minute)
	require.NoError(t, err)
	return &TokenService{Codec: codec, Credentials: c}
}

func TestGrantResourceOwnerCredentials(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)
	alice := mustRegister(t, c, "alice", "secret1")
	p := &AuthorizationProvider{Credentials: c, PublicClientID: "self"}

	ticket, err := p.GrantResourceOwnerCredentials(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, ticketx.AuthTypeBearer, ticket.Identity.AuthenticationType)
	require.Equal(t, alice.ID, ticket.Identity.UserID())
	require.Equal(t, "alice", ticket.Properties[ticketx.PropertyUserName])
	for _, claim := range ticket.Identity.Claims {
		require.True(t, claim.IsLocal(), claim.Type)
	}
	require.NoError(t, ticketx.LocalPolicy{}.Validate(ticket.Identity))

	_, err = p.GrantResourceOwnerCredentials(ctx, "alice", "nope")
	require.ErrorIs(t, err, ErrInvalidGrant)
	_, err = p.GrantResourceOwnerCredentials(ctx, "nobody", "secret1")
	require.ErrorIs(t, err, ErrInvalidGrant)

	t.Run("token endpoint copies properties", func(t *testing.T) {
		resp, err := newTokens(t, c).Issue(ticket)
		require.NoError(t, err)

		body := map[string]any{"access_token": resp.AccessToken}
		p.TokenEndpoint(ticket, body)
		require.Equal(t, "alice", body["userName"])
		require.Equal(t, resp.Issued, body[".issued"])
		require.Equal(t, resp.Expires, body[".expires"])
	})
}

func TestLookupClient(t *testing.T) {
	p := &AuthorizationProvider{PublicClientID: "self"}
	require.NoError(t, p.LookupClient(""))
	require.NoError(t, p.LookupClient("self"))
	require.ErrorIs(t, p.LookupClient("other"), ErrInvalidClient)
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	c := newCredentials(t)
	alice := mustRegister(t, c, "alice", "secret1")
	tokens := newTokens(t, c)

	resp, err := tokens.ForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, 1200, resp.ExpiresIn)
	require.Equal(t, "alice", resp.UserName)

	ticket := tokens.Codec.Unprotect(resp.AccessToken)
	require.NotNil(t, ticket)
	require.Equal(t, alice.ID, ticket.Identity.UserID())

	_, err = tokens.ForUser(ctx, "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)

	t.Run("external identity", func(t *testing.T) {
		id := ticketx.NewIdentity(ticketx.AuthTypeBearer,
			ticketx.NewIssuedClaim(ticketx.ClaimTypeNameIdentifier, "g-1", "Google"),
			ticketx.NewIssuedClaim(ticketx.ClaimTypeName, "bob", "Google"),
		)
		resp, err := tokens.ForIdentity(id)
		require.NoError(t, err)

		ticket := tokens.Codec.Unprotect(resp.AccessToken)
		require.NotNil(t, ticket)
		require.NoError(t, ticketx.ExternalPolicy{}.Validate(ticket.Identity))
		require.Error(t, ticketx.LocalPolicy{}.Validate(ticket.Identity))
	})
}
