package gen

import (
	"context"
)

const createExternalLogin = `-- name: CreateExternalLogin :exec
INSERT INTO external_logins (login_provider, provider_key, user_id)
VALUES (?, ?, ?)
`

type CreateExternalLoginParams struct {
	LoginProvider string
	ProviderKey   string
	UserID        string
}

func (q *Queries) CreateExternalLogin(ctx context.Context, arg CreateExternalLoginParams) error {
	_, err := q.db.ExecContext(ctx, createExternalLogin, arg.LoginProvider, arg.ProviderKey, arg.UserID)
	return err
}

const createLocalLogin = `-- name: CreateLocalLogin :exec
INSERT INTO local_logins (user_id, password_hash)
VALUES (?, ?)
`

type CreateLocalLoginParams struct {
	UserID       string
	PasswordHash string
}

func (q *Queries) CreateLocalLogin(ctx context.Context, arg CreateLocalLoginParams) error {
	_, err := q.db.ExecContext(ctx, createLocalLogin, arg.UserID, arg.PasswordHash)
	return err
}

const deleteExternalLogin = `-- name: DeleteExternalLogin :execrows
DELETE FROM external_logins
WHERE user_id = ? AND login_provider = ? AND provider_key = ?
`

type DeleteExternalLoginParams struct {
	UserID        string
	LoginProvider string
	ProviderKey   string
}

func (q *Queries) DeleteExternalLogin(ctx context.Context, arg DeleteExternalLoginParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExternalLogin, arg.UserID, arg.LoginProvider, arg.ProviderKey)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteLocalLogin = `-- name: DeleteLocalLogin :execrows
DELETE FROM local_logins WHERE user_id = ?
`

func (q *Queries) DeleteLocalLogin(ctx context.Context, userID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLocalLogin, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getExternalLogin = `-- name: GetExternalLogin :one
SELECT login_provider, provider_key, user_id, created_at FROM external_logins
WHERE login_provider = ? AND provider_key = ?
`

type GetExternalLoginParams struct {
	LoginProvider string
	ProviderKey   string
}

func (q *Queries) GetExternalLogin(ctx context.Context, arg GetExternalLoginParams) (ExternalLogin, error) {
	row := q.db.QueryRowContext(ctx, getExternalLogin, arg.LoginProvider, arg.ProviderKey)
	var i ExternalLogin
	err := row.Scan(
		&i.LoginProvider,
		&i.ProviderKey,
		&i.UserID,
		&i.CreatedAt,
	)
	return i, err
}

const getLocalLogin = `-- name: GetLocalLogin :one
SELECT user_id, password_hash, created_at, updated_at FROM local_logins WHERE user_id = ?
`

func (q *Queries) GetLocalLogin(ctx context.Context, userID string) (LocalLogin, error) {
	row := q.db.QueryRowContext(ctx, getLocalLogin, userID)
	var i LocalLogin
	err := row.Scan(
		&i.UserID,
		&i.PasswordHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listExternalLoginsByUser = `-- name: ListExternalLoginsByUser :many
SELECT login_provider, provider_key, user_id, created_at FROM external_logins
WHERE user_id = ?
ORDER BY created_at, login_provider, provider_key
`

func (q *Queries) ListExternalLoginsByUser(ctx context.Context, userID string) ([]ExternalLogin, error) {
	rows, err := q.db.QueryContext(ctx, listExternalLoginsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExternalLogin
	for rows.Next() {
		var i ExternalLogin
		if err := rows.Scan(
			&i.LoginProvider,
			&i.ProviderKey,
			&i.UserID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateLocalLoginPasswordHash = `-- name: UpdateLocalLoginPasswordHash :execrows
UPDATE local_logins
SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ?
`

type UpdateLocalLoginPasswordHashParams struct {
	PasswordHash string
	UserID       string
}

func (q *Queries) UpdateLocalLoginPasswordHash(ctx context.Context, arg UpdateLocalLoginPasswordHashParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateLocalLoginPasswordHash, arg.PasswordHash, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
