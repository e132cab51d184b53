package admin

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, a *Admin) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admin (username, email, password_hash)
		VALUES ($1, LOWER($2), $3)
		RETURNING id, created_at`,
		a.Username, a.Email, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.New(apperr.Conflict, "username or email already in use")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "create admin", err)
	}
	return nil
}

func (r *repoPG) GetBySubject(ctx context.Context, subject string) (*Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM admin
		WHERE username = $1 OR LOWER(email) = LOWER($1)`,
		subject,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "admin not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get admin", err)
	}
	return &a, nil
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM admin WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "admin exists", err)
	}
	return exists, nil
}
