package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// Collaborator lookups. The service never touches other domains' storage
// directly; it sees them only through these narrow contracts.
type DoctorLookup interface {
	DoctorActive(ctx context.Context, id int64) (exists, active bool, err error)
}

type PatientLookup interface {
	PatientExists(ctx context.Context, id int64) (bool, error)
}

type ClinicLookup interface {
	ClinicExists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo     Repository
	doctors  DoctorLookup
	patients PatientLookup
	clinics  ClinicLookup
}

func NewService(repo Repository, doctors DoctorLookup, patients PatientLookup, clinics ClinicLookup) *Service {
	return &Service{repo: repo, doctors: doctors, patients: patients, clinics: clinics}
}

// BookRequest carries the inputs for a new appointment.
type BookRequest struct {
	DoctorID         int64     `json:"doctor_id"`
	PatientID        int64     `json:"patient_id"`
	ClinicLocationID int64     `json:"clinic_location_id"`
	ScheduledTime    time.Time `json:"scheduled_time"`
}

// Book validates and persists a new appointment. Checks run in a fixed
// order, each with its own failure kind, and all of them precede the single
// write, so no failure path leaves a partial record.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Detail, error) {
	if req.ScheduledTime.IsZero() || !req.ScheduledTime.After(time.Now()) {
		return nil, apperr.New(apperr.Validation, "scheduled time must be in the future")
	}

	docExists, docActive, err := s.doctors.DoctorActive(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !docExists {
		return nil, apperr.New(apperr.NotFound, "doctor not found")
	}

	patExists, err := s.patients.PatientExists(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !patExists {
		return nil, apperr.New(apperr.NotFound, "patient not found")
	}

	clinicExists, err := s.clinics.ClinicExists(ctx, req.ClinicLocationID)
	if err != nil {
		return nil, err
	}
	if !clinicExists {
		return nil, apperr.New(apperr.NotFound, "clinic location not found")
	}

	if !docActive {
		return nil, apperr.New(apperr.Conflict, "doctor is not accepting appointments")
	}

	booked, err := s.repo.ExistsForDoctorAt(ctx, req.DoctorID, req.ScheduledTime, 0)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, apperr.New(apperr.Conflict, "doctor already has an appointment at this time")
	}

	a := &Appointment{
		DoctorID:         req.DoctorID,
		PatientID:        req.PatientID,
		ClinicLocationID: req.ClinicLocationID,
		ScheduledTime:    req.ScheduledTime,
		Status:           StatusScheduled,
	}
	// The unique constraint on (doctor_id, scheduled_time) backstops the
	// pre-check under concurrent bookings; the repo translates its
	// violation into the same Conflict.
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return s.repo.GetDetail(ctx, a.ID)
}

// UpdateRequest carries the optional reschedule fields. Nil means "leave
// unchanged".
type UpdateRequest struct {
	NewTime             *time.Time `json:"scheduled_time,omitempty"`
	NewDoctorID         *int64     `json:"doctor_id,omitempty"`
	NewClinicLocationID *int64     `json:"clinic_location_id,omitempty"`
}

// Update reschedules an appointment on behalf of its owning patient. Only
// Scheduled appointments may be modified.
func (s *Service) Update(ctx context.Context, id, requestingPatientID int64, req UpdateRequest) (*Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.PatientID != requestingPatientID {
		return nil, apperr.New(apperr.Forbidden, "appointment belongs to another patient")
	}

	if a.Status != StatusScheduled {
		return nil, apperr.New(apperr.Conflict, "only scheduled appointments may be modified")
	}

	if req.NewTime != nil {
		if !req.NewTime.After(time.Now()) {
			return nil, apperr.New(apperr.Validation, "scheduled time must be in the future")
		}
		// Conflict check against the doctor the appointment will end up
		// with, ignoring the appointment's own current slot.
		checkDoctor := a.DoctorID
		if req.NewDoctorID != nil {
			checkDoctor = *req.NewDoctorID
		}
		booked, err := s.repo.ExistsForDoctorAt(ctx, checkDoctor, *req.NewTime, a.ID)
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, apperr.New(apperr.Conflict, "doctor already has an appointment at this time")
		}
		a.ScheduledTime = *req.NewTime
	}

	if req.NewDoctorID != nil && *req.NewDoctorID != a.DoctorID {
		exists, active, err := s.doctors.DoctorActive(ctx, *req.NewDoctorID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.New(apperr.NotFound, "doctor not found")
		}
		if !active {
			return nil, apperr.New(apperr.Conflict, "doctor is not accepting appointments")
		}
		a.DoctorID = *req.NewDoctorID
	}

	if req.NewClinicLocationID != nil && *req.NewClinicLocationID != a.ClinicLocationID {
		exists, err := s.clinics.ClinicExists(ctx, *req.NewClinicLocationID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.New(apperr.NotFound, "clinic location not found")
		}
		a.ClinicLocationID = *req.NewClinicLocationID
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetDetail(ctx, a.ID)
}

// Cancel soft-cancels an appointment: same ownership and Scheduled-only
// rules as Update, then a status flip to Cancelled. The record is retained.
func (s *Service) Cancel(ctx context.Context, id, requestingPatientID int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if a.PatientID != requestingPatientID {
		return apperr.New(apperr.Forbidden, "appointment belongs to another patient")
	}

	if a.Status != StatusScheduled {
		return apperr.New(apperr.Conflict, "only scheduled appointments may be cancelled")
	}

	a.Status = StatusCancelled
	return s.repo.Update(ctx, a)
}

// ChangeStatus performs an administrative status transition. Unlike the
// original admin flow this routes through the lifecycle rules: transitions
// out of a terminal state, and self-transitions, are rejected.
func (s *Service) ChangeStatus(ctx context.Context, id int64, next Status) error {
	if !next.Valid() {
		return apperr.Newf(apperr.Validation, "invalid status: %d", next)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !a.Status.CanTransitionTo(next) {
		return apperr.Newf(apperr.Conflict, "illegal transition from %s to %s", a.Status, next)
	}

	a.Status = next
	return s.repo.Update(ctx, a)
}

// Get returns one appointment with resolved display names.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.GetDetail(ctx, id)
}

// DoctorDay returns a doctor's appointments on the given calendar day,
// ascending by time, optionally narrowed by a patient-name fragment.
func (s *Service) DoctorDay(ctx context.Context, doctorID int64, day time.Time, patientName string) ([]*Detail, error) {
	exists, _, err := s.doctors.DoctorActive(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(apperr.NotFound, "doctor not found")
	}

	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	return s.repo.ListForDoctorBetween(ctx, doctorID, start, end, patientName)
}

// PatientAppointments returns a patient's appointments. Doctor-name and
// status filters are pushed to storage; the temporal condition is applied
// in memory against "now": "future"/"upcoming" keeps strictly-later times,
// "past" keeps the complement, anything else passes everything through.
func (s *Service) PatientAppointments(ctx context.Context, patientID int64, doctorName, condition string, status *Status) ([]*Detail, error) {
	dets, err := s.repo.ListForPatient(ctx, patientID, doctorName, status)
	if err != nil {
		return nil, err
	}
	return filterTemporal(dets, condition, time.Now()), nil
}

func filterTemporal(dets []*Detail, condition string, now time.Time) []*Detail {
	switch strings.ToLower(condition) {
	case "future", "upcoming":
		return keep(dets, func(d *Detail) bool { return d.ScheduledTime.After(now) })
	case "past":
		return keep(dets, func(d *Detail) bool { return !d.ScheduledTime.After(now) })
	default:
		return dets
	}
}

func keep(dets []*Detail, pred func(*Detail) bool) []*Detail {
	out := make([]*Detail, 0, len(dets))
	for _, d := range dets {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}
