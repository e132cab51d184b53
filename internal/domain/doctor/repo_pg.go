package doctor

import (
	"context"
	"errors"
	"fmt"

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

const docCols = `id, first_name, last_name, specialty, phone, email, clinic_location_id, active, created_at`

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor (first_name, last_name, specialty, phone, email, clinic_location_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		d.FirstName, d.LastName, d.Specialty, d.Phone, d.Email, d.ClinicLocationID, d.Active,
	).Scan(&d.ID, &d.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.New(apperr.Conflict, "email or phone already in use")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "create doctor", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, err := scanDoc(r.conn(ctx).QueryRow(ctx, `SELECT `+docCols+` FROM doctor WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "doctor not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get doctor", err)
	}
	return d, nil
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "doctor exists", err)
	}
	return exists, nil
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor SET
			first_name=$2, last_name=$3, specialty=$4, phone=$5, email=$6,
			clinic_location_id=$7, active=$8
		WHERE id = $1`,
		d.ID, d.FirstName, d.LastName, d.Specialty, d.Phone, d.Email,
		d.ClinicLocationID, d.Active,
	)
	if isUniqueViolation(err) {
		return apperr.New(apperr.Conflict, "email or phone already in use")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update doctor", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "doctor not found")
	}
	return nil
}

func (r *repoPG) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Doctor, int, error) {
	where := "TRUE"
	args := []interface{}{}
	n := 0

	if filter.Name != "" {
		n++
		where += fmt.Sprintf(" AND (first_name ILIKE '%%' || $%d || '%%' OR last_name ILIKE '%%' || $%d || '%%')", n, n)
		args = append(args, filter.Name)
	}
	if filter.Specialty != "" {
		n++
		where += fmt.Sprintf(" AND LOWER(specialty) = LOWER($%d)", n)
		args = append(args, filter.Specialty)
	}
	if filter.ActiveOnly {
		where += " AND active"
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "count doctors", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM doctor WHERE %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
			docCols, where, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "search doctors", err)
	}
	defer rows.Close()

	var docs []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialty, &d.Phone, &d.Email,
			&d.ClinicLocationID, &d.Active, &d.CreatedAt); err != nil {
			return nil, 0, apperr.Wrap(apperr.Internal, "scan doctor", err)
		}
		docs = append(docs, &d)
	}
	return docs, total, nil
}

func scanDoc(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialty, &d.Phone, &d.Email,
		&d.ClinicLocationID, &d.Active, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
