package sqlite

import (
	"context"

	"github.com/aussiebroadwan/account/internal/account/domain"
	"github.com/aussiebroadwan/account/internal/account/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUserName(ctx context.Context, userName string) (domain.User, error) {
	row, err := r.q.GetUserByUserName(ctx, userName)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	return mapConstraint(r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:       u.ID,
		UserName: u.UserName,
	}))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return requireAffected(r.q.DeleteUser(ctx, id))
}
