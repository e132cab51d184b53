package appointment

import (
	"context"
	"errors"
	"strconv"
	"time"

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

const apptCols = `id, doctor_id, patient_id, clinic_location_id, scheduled_time, status, created_at`

// detailCols joins the referenced rows for display names.
const detailCols = `
	a.id, a.doctor_id, a.patient_id, a.clinic_location_id, a.scheduled_time, a.status, a.created_at,
	d.first_name || ' ' || d.last_name AS doctor_name,
	p.first_name || ' ' || p.last_name AS patient_name,
	c.name AS clinic_name`

const detailFrom = `
	FROM appointment a
	JOIN doctor d ON d.id = a.doctor_id
	JOIN patient p ON p.id = a.patient_id
	JOIN clinic_location c ON c.id = a.clinic_location_id`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (doctor_id, patient_id, clinic_location_id, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		a.DoctorID, a.PatientID, a.ClinicLocationID, a.ScheduledTime, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	return translateWriteErr(err, "create appointment")
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "appointment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get appointment", err)
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET
			doctor_id=$2, patient_id=$3, clinic_location_id=$4, scheduled_time=$5, status=$6
		WHERE id = $1`,
		a.ID, a.DoctorID, a.PatientID, a.ClinicLocationID, a.ScheduledTime, a.Status,
	)
	if err := translateWriteErr(err, "update appointment"); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	return nil
}

func (r *repoPG) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	det, err := scanDetail(r.conn(ctx).QueryRow(ctx, `SELECT `+detailCols+detailFrom+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "appointment not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get appointment detail", err)
	}
	return det, nil
}

func (r *repoPG) ExistsForDoctorAt(ctx context.Context, doctorID int64, at time.Time, excludeID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM appointment
			WHERE doctor_id = $1 AND scheduled_time = $2 AND id <> $3
		)`,
		doctorID, at, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "doctor slot check", err)
	}
	return exists, nil
}

func (r *repoPG) ListForDoctorBetween(ctx context.Context, doctorID int64, start, end time.Time, patientName string) ([]*Detail, error) {
	query := `SELECT ` + detailCols + detailFrom + `
		WHERE a.doctor_id = $1 AND a.scheduled_time >= $2 AND a.scheduled_time < $3`
	args := []interface{}{doctorID, start, end}

	if patientName != "" {
		query += ` AND (p.first_name ILIKE '%' || $4 || '%' OR p.last_name ILIKE '%' || $4 || '%')`
		args = append(args, patientName)
	}
	query += ` ORDER BY a.scheduled_time ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list doctor appointments", err)
	}
	defer rows.Close()
	return collectDetails(rows)
}

func (r *repoPG) ListForPatient(ctx context.Context, patientID int64, doctorName string, status *Status) ([]*Detail, error) {
	query := `SELECT ` + detailCols + detailFrom + ` WHERE a.patient_id = $1`
	args := []interface{}{patientID}
	n := 1

	if doctorName != "" {
		n++
		query += ` AND (d.first_name ILIKE '%' || $2 || '%' OR d.last_name ILIKE '%' || $2 || '%')`
		args = append(args, doctorName)
	}
	if status != nil {
		n++
		query += ` AND a.status = $` + strconv.Itoa(n)
		args = append(args, *status)
	}

	if doctorName != "" {
		query += ` ORDER BY a.scheduled_time DESC`
	} else {
		query += ` ORDER BY a.id ASC`
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list patient appointments", err)
	}
	defer rows.Close()
	return collectDetails(rows)
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.ClinicLocationID, &a.ScheduledTime, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.DoctorID, &d.PatientID, &d.ClinicLocationID, &d.ScheduledTime, &d.Status, &d.CreatedAt,
		&d.DoctorName, &d.PatientName, &d.ClinicName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDetails(rows pgx.Rows) ([]*Detail, error) {
	var dets []*Detail
	for rows.Next() {
		var d Detail
		err := rows.Scan(
			&d.ID, &d.DoctorID, &d.PatientID, &d.ClinicLocationID, &d.ScheduledTime, &d.Status, &d.CreatedAt,
			&d.DoctorName, &d.PatientName, &d.ClinicName,
		)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan appointment detail", err)
		}
		dets = append(dets, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "iterate appointment details", err)
	}
	return dets, nil
}

// translateWriteErr maps the uk_appointment_doctor_time unique violation to
// the same Conflict the booking pre-check raises, so the constraint closes
// the check-then-act race without changing the caller-visible failure.
func translateWriteErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.New(apperr.Conflict, "doctor already has an appointment at this time")
	}
	return apperr.Wrap(apperr.Internal, op, err)
}
