package appointment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the appointment lifecycle state. The numeric values are part of
// the API contract and map directly to the status column.
type Status int16

const (
	StatusScheduled Status = 0
	StatusCompleted Status = 1
	StatusCancelled Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int16(s))
	}
}

func (s Status) Valid() bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo enforces the lifecycle: Scheduled may move to Completed or
// Cancelled; both of those are terminal; self-transitions are illegal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusScheduled && (next == StatusCompleted || next == StatusCancelled)
}

// ParseStatus accepts a numeric value or a status name, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		s := Status(n)
		if !s.Valid() {
			return 0, fmt.Errorf("invalid status: %d", n)
		}
		return s, nil
	}
	switch strings.ToLower(raw) {
	case "scheduled":
		return StatusScheduled, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return 0, fmt.Errorf("invalid status: %q", raw)
	}
}

// appointmentDuration is the fixed slot length; end time is derived, never
// stored.
const appointmentDuration = time.Hour

// Appointment maps to the appointment table.
type Appointment struct {
	ID               int64     `db:"id" json:"id"`
	DoctorID         int64     `db:"doctor_id" json:"doctor_id"`
	PatientID        int64     `db:"patient_id" json:"patient_id"`
	ClinicLocationID int64     `db:"clinic_location_id" json:"clinic_location_id"`
	ScheduledTime    time.Time `db:"scheduled_time" json:"scheduled_time"`
	Status           Status    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// EndTime derives the slot end from the fixed duration.
func (a *Appointment) EndTime() time.Time {
	return a.ScheduledTime.Add(appointmentDuration)
}

// Date returns the calendar day of the appointment, midnight-aligned in the
// scheduled time's location.
func (a *Appointment) Date() time.Time {
	y, m, d := a.ScheduledTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.ScheduledTime.Location())
}

// TimeOfDay returns the wall-clock start time as HH:MM.
func (a *Appointment) TimeOfDay() string {
	return a.ScheduledTime.Format("15:04")
}

// Detail is the read model returned by queries: the appointment plus the
// display names of its references, resolved by the storage layer.
type Detail struct {
	Appointment
	DoctorName  string `db:"doctor_name" json:"doctor_name"`
	PatientName string `db:"patient_name" json:"patient_name"`
	ClinicName  string `db:"clinic_name" json:"clinic_name"`
}

// MarshalJSON adds the derived end time and status name to responses.
func (d *Detail) MarshalJSON() ([]byte, error) {
	type alias Detail
	return json.Marshal(struct {
		*alias
		EndTime    time.Time `json:"end_time"`
		StatusName string    `json:"status_name"`
	}{
		alias:      (*alias)(d),
		EndTime:    d.EndTime(),
		StatusName: d.Status.String(),
	})
}
