package sqlite

import (
	"context"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/internal/account/store/drivers/sqlite/gen"
)

type localLoginsRepo struct {
	q *gen.Queries
}

func (r *localLoginsRepo) GetLocalLogin(ctx context.Context, userID string) (domain.LocalLogin, error) {
	row, err := r.q.GetLocalLogin(ctx, userID)
	if err != nil {
		return domain.LocalLogin{}, mapNotFound(err)
	}
	return mapLocalLogin(row), nil
}

func (r *localLoginsRepo) CreateLocalLogin(ctx context.Context, l domain.LocalLogin) error {
	return mapConstraint(r.q.CreateLocalLogin(ctx, gen.CreateLocalLoginParams{
		UserID:       l.UserID,
		PasswordHash: l.PasswordHash,
	}))
}

func (r *localLoginsRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return requireAffected(r.q.UpdateLocalLoginPasswordHash(ctx, gen.UpdateLocalLoginPasswordHashParams{
		PasswordHash: hash,
		UserID:       userID,
	}))
}

func (r *localLoginsRepo) DeleteLocalLogin(ctx context.Context, userID string) error {
	return requireAffected(r.q.DeleteLocalLogin(ctx, userID))
}

type externalLoginsRepo struct {
	q *gen.Queries
}

func (r *externalLoginsRepo) GetExternalLogin(ctx context.Context, provider, key string) (domain.ExternalLogin, error) {
	row, err := r.q.GetExternalLogin(ctx, gen.GetExternalLoginParams{
		LoginProvider: provider,
		ProviderKey:   key,
	})
	if err != nil {
		return domain.ExternalLogin{}, mapNotFound(err)
	}
	return mapExternalLogin(row), nil
}

func (r *externalLoginsRepo) ListExternalLogins(ctx context.Context, userID string) ([]domain.ExternalLogin, error) {
	rows, err := r.q.ListExternalLoginsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExternalLogin, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapExternalLogin(row))
	}
	return out, nil
}

func (r *externalLoginsRepo) CreateExternalLogin(ctx context.Context, l domain.ExternalLogin) error {
	return mapConstraint(r.q.CreateExternalLogin(ctx, gen.CreateExternalLoginParams{
		LoginProvider: l.LoginProvider,
		ProviderKey:   l.ProviderKey,
		UserID:        l.UserID,
	}))
}

func (r *externalLoginsRepo) DeleteExternalLogin(ctx context.Context, userID, provider, key string) error {
	return requireAffected(r.q.DeleteExternalLogin(ctx, gen.DeleteExternalLoginParams{
		UserID:        userID,
		LoginProvider: provider,
		ProviderKey:   key,
	}))
}
