package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/internal/account/store"
	"github.com/aussiebroadwan/account/pkg/cryptox"
	"github.com/aussiebroadwan/account/pkg/idx"
	"github.com/aussiebroadwan/account/pkg/slogx"
	"github.com/aussiebroadwan/account/pkg/ticketx"
)

// DefaultMinPasswordLength applies when CredentialService.MinPasswordLength is zero.
const DefaultMinPasswordLength = 6

// CredentialService is the credential store: users, their password and
// their external logins. Operations that can fail for user-facing reasons
// report it in a domain.Result; a non-nil error always means the store
// itself failed.
type CredentialService struct {
	Store store.Store

	MinPasswordLength int
}

func (s *CredentialService) minPasswordLength() int {
	if s.MinPasswordLength > 0 {
		return s.MinPasswordLength
	}
	return DefaultMinPasswordLength
}

// ValidateLocalLogin checks a user name and password. Unknown users and
// users without a password cost the same hashing work as a wrong password.
func (s *CredentialService) ValidateLocalLogin(ctx context.Context, userName, password string) (string, bool, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUserName(ctx, userName)
	if errors.Is(err, store.ErrNotFound) {
		cryptox.VerifyDummyPassword(password)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	login, err := s.Store.LocalLogins().GetLocalLogin(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		cryptox.VerifyDummyPassword(password)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if err := cryptox.VerifyPassword(password, login.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash is unreadable", slog.String("user_id", user.ID), slog.Any("err", err))
		}
		return "", false, nil
	}
	return user.ID, true, nil
}

// GetUserIdentityClaims returns the locally issued claims of a user.
func (s *CredentialService) GetUserIdentityClaims(ctx context.Context, userID string) ([]ticketx.Claim, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserNotFound(err)
	}
	return []ticketx.Claim{
		ticketx.NewClaim(ticketx.ClaimTypeNameIdentifier, user.ID),
		ticketx.NewClaim(ticketx.ClaimTypeName, user.UserName),
		ticketx.NewClaim(ticketx.ClaimTypeIdentityProvider, domain.LocalLoginProvider),
	}, nil
}

// CreateLocalUser creates a user together with its password.
func (s *CredentialService) CreateLocalUser(ctx context.Context, userName, password string) (domain.User, domain.Result, error) {
	if r := s.validateUserName(userName); !r.Succeeded {
		return domain.User{}, r, nil
	}
	if r := s.validatePassword(password); !r.Succeeded {
		return domain.User{}, r, nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.Result{}, err
	}

	user := domain.User{ID: idx.New().String(), UserName: userName}
	result := domain.Success
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				result = domain.Failed(fmt.Sprintf(msgUserNameTaken, userName))
			}
			return err
		}
		return tx.LocalLogins().CreateLocalLogin(ctx, domain.LocalLogin{UserID: user.ID, PasswordHash: hash})
	})
	if !result.Succeeded {
		return domain.User{}, result, nil
	}
	if err != nil {
		return domain.User{}, domain.Result{}, err
	}

	slogx.FromContext(ctx).Info("local user created", slog.String("user_id", user.ID))
	return user, domain.Success, nil
}

// CreateExternalUser creates a user linked to an external login. Both rows
// are written in one transaction so a taken login leaves no orphan user.
func (s *CredentialService) CreateExternalUser(ctx context.Context, userName, provider, key string) (domain.User, domain.Result, error) {
	if r := s.validateUserName(userName); !r.Succeeded {
		return domain.User{}, r, nil
	}
	if provider == "" || key == "" {
		return domain.User{}, domain.Failed(msgExternalLoginIncomplete), nil
	}

	user := domain.User{ID: idx.New().String(), UserName: userName}
	result := domain.Success
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				result = domain.Failed(fmt.Sprintf(msgUserNameTaken, userName))
			}
			return err
		}
		err := tx.ExternalLogins().CreateExternalLogin(ctx, domain.ExternalLogin{
			LoginProvider: provider,
			ProviderKey:   key,
			UserID:        user.ID,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			result = domain.Failed(msgExternalLoginTaken)
		}
		return err
	})
	if !result.Succeeded {
		return domain.User{}, result, nil
	}
	if err != nil {
		return domain.User{}, domain.Result{}, err
	}

	slogx.FromContext(ctx).Info("external user created",
		slog.String("user_id", user.ID),
		slog.String("login_provider", provider),
	)
	return user, domain.Success, nil
}

// ChangePassword replaces the password of the named user after checking the old one.
func (s *CredentialService) ChangePassword(ctx context.Context, userName, oldPassword, newPassword string) (domain.Result, error) {
	userID, ok, err := s.ValidateLocalLogin(ctx, userName, oldPassword)
	if err != nil {
		return domain.Result{}, err
	}
	if !ok {
		return domain.Failed(msgIncorrectPassword), nil
	}
	if r := s.validatePassword(newPassword); !r.Succeeded {
		return r, nil
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return domain.Result{}, err
	}
	if err := s.Store.LocalLogins().UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Failed(msgNoLocalLogin), nil
		}
		return domain.Result{}, err
	}
	return domain.Success, nil
}

// CreateLocalLogin gives a password to a user that does not have one yet.
// userName is the name the user signed in with; it must still match.
func (s *CredentialService) CreateLocalLogin(ctx context.Context, userID, userName, password string) (domain.Result, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.Result{}, mapUserNotFound(err)
	}
	if !strings.EqualFold(user.UserName, userName) {
		return domain.Failed(fmt.Sprintf(msgUserNameInvalid, userName)), nil
	}
	if r := s.validatePassword(password); !r.Succeeded {
		return r, nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Result{}, err
	}
	err = s.Store.LocalLogins().CreateLocalLogin(ctx, domain.LocalLogin{UserID: userID, PasswordHash: hash})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Failed(msgPasswordAlreadySet), nil
	}
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Success, nil
}

// AddLogin links an external login to an existing user.
func (s *CredentialService) AddLogin(ctx context.Context, userID, provider, key string) (domain.Result, error) {
	if provider == "" || key == "" {
		return domain.Failed(msgExternalLoginIncomplete), nil
	}
	err := s.Store.ExternalLogins().CreateExternalLogin(ctx, domain.ExternalLogin{
		LoginProvider: provider,
		ProviderKey:   key,
		UserID:        userID,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Failed(msgExternalLoginTaken), nil
	}
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Success, nil
}

// RemoveLogin unlinks a login from a user. The local login is addressed as
// provider "Local" keyed by the user name. The last remaining login cannot
// be removed.
func (s *CredentialService) RemoveLogin(ctx context.Context, userID, provider, key string) (domain.Result, error) {
	logins, err := s.GetLogins(ctx, userID)
	if err != nil {
		return domain.Result{}, err
	}

	found := false
	for _, l := range logins {
		if l.LoginProvider == provider && loginKeyMatches(l, key) {
			found = true
			break
		}
	}
	if !found {
		return domain.Failed(msgLoginNotFound), nil
	}
	if len(logins) == 1 {
		return domain.Failed(msgLastLogin), nil
	}

	if provider == domain.LocalLoginProvider {
		err = s.Store.LocalLogins().DeleteLocalLogin(ctx, userID)
	} else {
		err = s.Store.ExternalLogins().DeleteExternalLogin(ctx, userID, provider, key)
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.Failed(msgLoginNotFound), nil
	}
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Success, nil
}

func loginKeyMatches(l domain.UserLogin, key string) bool {
	if l.LoginProvider == domain.LocalLoginProvider {
		return strings.EqualFold(l.ProviderKey, key)
	}
	return l.ProviderKey == key
}

// GetLogins lists the local login first, when the user has a password,
// followed by the external logins.
func (s *CredentialService) GetLogins(ctx context.Context, userID string) ([]domain.UserLogin, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserNotFound(err)
	}

	var logins []domain.UserLogin
	if _, err := s.Store.LocalLogins().GetLocalLogin(ctx, userID); err == nil {
		logins = append(logins, domain.UserLogin{LoginProvider: domain.LocalLoginProvider, ProviderKey: user.UserName})
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	external, err := s.Store.ExternalLogins().ListExternalLogins(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range external {
		logins = append(logins, domain.UserLogin{LoginProvider: e.LoginProvider, ProviderKey: e.ProviderKey})
	}
	return logins, nil
}

// GetUserIDForLogin returns the user linked to an external login, or "" when
// the login is not linked.
func (s *CredentialService) GetUserIDForLogin(ctx context.Context, provider, key string) (string, error) {
	login, err := s.Store.ExternalLogins().GetExternalLogin(ctx, provider, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return login.UserID, nil
}

func (s *CredentialService) validateUserName(userName string) domain.Result {
	if userName == "" {
		return domain.Failed(msgUserNameRequired)
	}
	for _, r := range userName {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return domain.Failed(fmt.Sprintf(msgUserNameInvalid, userName))
		}
	}
	return domain.Success
}

func (s *CredentialService) validatePassword(password string) domain.Result {
	if n := s.minPasswordLength(); len(password) < n {
		return domain.Failed(fmt.Sprintf(msgPasswordTooShort, n))
	}
	return domain.Success
}

func mapUserNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
