package appointment

import (
	"context"
	"time"
)

// Repository is the storage contract for appointments. Lookups return an
// apperr.NotFound error when no row matches; Create and Update translate the
// (doctor_id, scheduled_time) unique-constraint violation into an
// apperr.Conflict error so concurrent double-bookings surface the same way
// the pre-check does.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error

	// GetDetail materializes one appointment with resolved display names.
	GetDetail(ctx context.Context, id int64) (*Detail, error)

	// ExistsForDoctorAt reports whether the doctor already has an
	// appointment at exactly this time. excludeID, when non-zero, ignores
	// that appointment (used when rescheduling).
	ExistsForDoctorAt(ctx context.Context, doctorID int64, at time.Time, excludeID int64) (bool, error)

	// ListForDoctorBetween returns the doctor's appointments in
	// [start, end), ascending by time, optionally narrowed to patients
	// whose first or last name contains patientName (case-insensitive).
	ListForDoctorBetween(ctx context.Context, doctorID int64, start, end time.Time, patientName string) ([]*Detail, error)

	// ListForPatient returns the patient's appointments, optionally
	// narrowed by a doctor-name fragment and/or exact status. Results are
	// descending by time when doctorName is set, storage order otherwise.
	ListForPatient(ctx context.Context, patientID int64, doctorName string, status *Status) ([]*Detail, error)
}
