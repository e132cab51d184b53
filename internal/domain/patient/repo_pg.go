package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patCols = `id, first_name, last_name, date_of_birth, gender, phone, email, address, password_hash, created_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (first_name, last_name, date_of_birth, gender, phone, email, address, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Phone, p.Email, p.Address, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.Conflict, "email or phone already registered")
		}
		return apperr.Wrap(apperr.Internal, "create patient", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return r.get(ctx, `SELECT `+patCols+` FROM patient WHERE id = $1`, id)
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return r.get(ctx, `SELECT `+patCols+` FROM patient WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *repoPG) get(ctx context.Context, sql string, arg interface{}) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx, sql, arg).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.PasswordHash, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "patient not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get patient", err)
	}
	return &p, nil
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM patient WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "patient exists", err)
	}
	return exists, nil
}

func (r *repoPG) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patient WHERE LOWER(email) = LOWER($1) OR phone = $2)`,
		email, phone).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "patient exists by email or phone", err)
	}
	return exists, nil
}
