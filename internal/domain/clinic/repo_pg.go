package clinic

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

const locCols = `id, name, address, phone, email, created_at`

func (r *repoPG) Create(ctx context.Context, loc *Location) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinic_location (name, address, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		loc.Name, loc.Address, loc.Phone, loc.Email,
	).Scan(&loc.ID, &loc.CreatedAt)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "create clinic location", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Location, error) {
	loc, err := scanLoc(r.conn(ctx).QueryRow(ctx, `SELECT `+locCols+` FROM clinic_location WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "clinic location not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get clinic location", err)
	}
	return loc, nil
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clinic_location WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "clinic location exists", err)
	}
	return exists, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Location, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM clinic_location`).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "count clinic locations", err)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+locCols+` FROM clinic_location ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "list clinic locations", err)
	}
	defer rows.Close()

	var locs []*Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.Email, &l.CreatedAt); err != nil {
			return nil, 0, apperr.Wrap(apperr.Internal, "scan clinic location", err)
		}
		locs = append(locs, &l)
	}
	return locs, total, nil
}

func scanLoc(row pgx.Row) (*Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.Email, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
