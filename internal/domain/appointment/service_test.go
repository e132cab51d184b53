package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// -- Mocks --

type doctorRec struct {
	name   string
	active bool
}

type mockRepo struct {
	appts  map[int64]*Appointment
	nextID int64

	doctorNames  map[int64]string
	patientNames map[int64]string
	clinicNames  map[int64]string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		appts:        make(map[int64]*Appointment),
		doctorNames:  make(map[int64]string),
		patientNames: make(map[int64]string),
		clinicNames:  make(map[int64]string),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	// Mirrors the storage unique constraint on (doctor_id, scheduled_time).
	for _, other := range m.appts {
		if other.DoctorID == a.DoctorID && other.ScheduledTime.Equal(a.ScheduledTime) {
			return apperr.New(apperr.Conflict, "doctor already has an appointment at this time")
		}
	}
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "appointment not found")
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	for _, other := range m.appts {
		if other.ID != a.ID && other.DoctorID == a.DoctorID && other.ScheduledTime.Equal(a.ScheduledTime) {
			return apperr.New(apperr.Conflict, "doctor already has an appointment at this time")
		}
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockRepo) detail(a *Appointment) *Detail {
	return &Detail{
		Appointment: *a,
		DoctorName:  m.doctorNames[a.DoctorID],
		PatientName: m.patientNames[a.PatientID],
		ClinicName:  m.clinicNames[a.ClinicLocationID],
	}
}

func (m *mockRepo) GetDetail(_ context.Context, id int64) (*Detail, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "appointment not found")
	}
	return m.detail(a), nil
}

func (m *mockRepo) ExistsForDoctorAt(_ context.Context, doctorID int64, at time.Time, excludeID int64) (bool, error) {
	for _, a := range m.appts {
		if a.ID != excludeID && a.DoctorID == doctorID && a.ScheduledTime.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) ListForDoctorBetween(_ context.Context, doctorID int64, start, end time.Time, patientName string) ([]*Detail, error) {
	var dets []*Detail
	for id := int64(1); id <= m.nextID; id++ {
		a, ok := m.appts[id]
		if !ok || a.DoctorID != doctorID {
			continue
		}
		if a.ScheduledTime.Before(start) || !a.ScheduledTime.Before(end) {
			continue
		}
		if patientName != "" &&
			!strings.Contains(strings.ToLower(m.patientNames[a.PatientID]), strings.ToLower(patientName)) {
			continue
		}
		dets = append(dets, m.detail(a))
	}
	// ascending by time
	for i := 0; i < len(dets); i++ {
		for j := i + 1; j < len(dets); j++ {
			if dets[j].ScheduledTime.Before(dets[i].ScheduledTime) {
				dets[i], dets[j] = dets[j], dets[i]
			}
		}
	}
	return dets, nil
}

func (m *mockRepo) ListForPatient(_ context.Context, patientID int64, doctorName string, status *Status) ([]*Detail, error) {
	var dets []*Detail
	for id := int64(1); id <= m.nextID; id++ {
		a, ok := m.appts[id]
		if !ok || a.PatientID != patientID {
			continue
		}
		if doctorName != "" &&
			!strings.Contains(strings.ToLower(m.doctorNames[a.DoctorID]), strings.ToLower(doctorName)) {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		dets = append(dets, m.detail(a))
	}
	if doctorName != "" {
		for i := 0; i < len(dets); i++ {
			for j := i + 1; j < len(dets); j++ {
				if dets[j].ScheduledTime.After(dets[i].ScheduledTime) {
					dets[i], dets[j] = dets[j], dets[i]
				}
			}
		}
	}
	return dets, nil
}

type mockDoctors struct {
	doctors map[int64]doctorRec
}

func (m *mockDoctors) DoctorActive(_ context.Context, id int64) (bool, bool, error) {
	d, ok := m.doctors[id]
	if !ok {
		return false, false, nil
	}
	return true, d.active, nil
}

type mockPatients struct{ ids map[int64]bool }

func (m *mockPatients) PatientExists(_ context.Context, id int64) (bool, error) {
	return m.ids[id], nil
}

type mockClinics struct{ ids map[int64]bool }

func (m *mockClinics) ClinicExists(_ context.Context, id int64) (bool, error) {
	return m.ids[id], nil
}

// newTestService seeds doctor 1 (active), doctor 2 (active), doctor 9
// (deactivated), patients 7 and 8, clinic 3.
func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	repo.doctorNames[1] = "Jane Reyes"
	repo.doctorNames[2] = "Omar Haddad"
	repo.doctorNames[9] = "Inactive Doc"
	repo.patientNames[7] = "Alice Ngata"
	repo.patientNames[8] = "Bob Okafor"
	repo.clinicNames[3] = "Downtown Clinic"

	doctors := &mockDoctors{doctors: map[int64]doctorRec{
		1: {name: "Jane Reyes", active: true},
		2: {name: "Omar Haddad", active: true},
		9: {name: "Inactive Doc", active: false},
	}}
	patients := &mockPatients{ids: map[int64]bool{7: true, 8: true}}
	clinics := &mockClinics{ids: map[int64]bool{3: true}}

	return NewService(repo, doctors, patients, clinics), repo
}

func futureTime(h int) time.Time {
	return time.Now().Add(time.Duration(h) * time.Hour).Truncate(time.Second)
}

func mustBook(t *testing.T, svc *Service, doctorID, patientID int64, at time.Time) *Detail {
	t.Helper()
	det, err := svc.Book(context.Background(), BookRequest{
		DoctorID: doctorID, PatientID: patientID, ClinicLocationID: 3, ScheduledTime: at,
	})
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	return det
}

// -- Booking --

func TestBook(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))
	if det.ID == 0 {
		t.Error("expected an assigned id")
	}
	if det.Status != StatusScheduled {
		t.Errorf("expected Scheduled, got %s", det.Status)
	}
	if det.DoctorName != "Jane Reyes" || det.PatientName != "Alice Ngata" || det.ClinicName != "Downtown Clinic" {
		t.Errorf("expected resolved display names, got %+v", det)
	}
	if det.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestBook_PastTime(t *testing.T) {
	svc, _ := newTestService()

	for _, at := range []time.Time{time.Now().Add(-time.Hour), {}} {
		_, err := svc.Book(context.Background(), BookRequest{
			DoctorID: 1, PatientID: 7, ClinicLocationID: 3, ScheduledTime: at,
		})
		if !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("expected Validation for %v, got %v", at, err)
		}
	}
}

func TestBook_MissingReferences(t *testing.T) {
	svc, _ := newTestService()
	at := futureTime(24)

	cases := []BookRequest{
		{DoctorID: 99, PatientID: 7, ClinicLocationID: 3, ScheduledTime: at},
		{DoctorID: 1, PatientID: 99, ClinicLocationID: 3, ScheduledTime: at},
		{DoctorID: 1, PatientID: 7, ClinicLocationID: 99, ScheduledTime: at},
	}
	for _, req := range cases {
		_, err := svc.Book(context.Background(), req)
		if !apperr.IsKind(err, apperr.NotFound) {
			t.Errorf("expected NotFound for %+v, got %v", req, err)
		}
	}
}

func TestBook_InactiveDoctor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Book(context.Background(), BookRequest{
		DoctorID: 9, PatientID: 7, ClinicLocationID: 3, ScheduledTime: futureTime(24),
	})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict for deactivated doctor, got %v", err)
	}
}

func TestBook_DoubleBooking(t *testing.T) {
	svc, _ := newTestService()
	at := futureTime(24)

	mustBook(t, svc, 1, 7, at)

	_, err := svc.Book(context.Background(), BookRequest{
		DoctorID: 1, PatientID: 8, ClinicLocationID: 3, ScheduledTime: at,
	})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict for double booking, got %v", err)
	}

	// Same time with another doctor is fine.
	mustBook(t, svc, 2, 8, at)
}

func TestBook_NoPartialWriteOnFailure(t *testing.T) {
	svc, repo := newTestService()

	svc.Book(context.Background(), BookRequest{
		DoctorID: 99, PatientID: 7, ClinicLocationID: 3, ScheduledTime: futureTime(24),
	})
	if len(repo.appts) != 0 {
		t.Error("failed booking must not persist anything")
	}
}

// -- Update / Cancel --

func TestUpdate_Reschedule(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	newTime := futureTime(48)
	updated, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &newTime})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.ScheduledTime.Equal(newTime) {
		t.Errorf("expected time %v, got %v", newTime, updated.ScheduledTime)
	}
}

func TestUpdate_NotOwner(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	newTime := futureTime(48)
	_, err := svc.Update(context.Background(), det.ID, 8, UpdateRequest{NewTime: &newTime})
	if !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("expected Forbidden for non-owner, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), 404, 7, UpdateRequest{})
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestUpdate_PastTime(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	past := time.Now().Add(-time.Hour)
	_, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &past})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation, got %v", err)
	}
}

func TestUpdate_ConflictAtNewTime(t *testing.T) {
	svc, _ := newTestService()

	taken := futureTime(48)
	mustBook(t, svc, 1, 8, taken)
	det := mustBook(t, svc, 1, 7, futureTime(24))

	_, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &taken})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict at taken slot, got %v", err)
	}
}

func TestUpdate_ConflictChecksNewDoctor(t *testing.T) {
	svc, _ := newTestService()

	// Doctor 2 is busy at the target time; doctor 1 is free.
	target := futureTime(48)
	mustBook(t, svc, 2, 8, target)
	det := mustBook(t, svc, 1, 7, futureTime(24))

	newDoctor := int64(2)
	_, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &target, NewDoctorID: &newDoctor})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("conflict check must run against the new doctor, got %v", err)
	}
}

func TestUpdate_KeepTimeSameDoctor(t *testing.T) {
	svc, _ := newTestService()

	// Re-submitting the current time must not collide with the
	// appointment's own slot.
	at := futureTime(24)
	det := mustBook(t, svc, 1, 7, at)

	clinicID := int64(3)
	if _, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &at, NewClinicLocationID: &clinicID}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdate_ReassignDoctor(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	newDoctor := int64(2)
	updated, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewDoctorID: &newDoctor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DoctorID != 2 {
		t.Errorf("expected doctor 2, got %d", updated.DoctorID)
	}

	missing := int64(99)
	if _, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewDoctorID: &missing}); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound for unknown doctor, got %v", err)
	}

	inactive := int64(9)
	if _, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewDoctorID: &inactive}); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict for deactivated doctor, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, repo := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	if err := svc.Cancel(context.Background(), det.ID, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Soft-cancel: row retained with status Cancelled.
	a, err := repo.GetByID(context.Background(), det.ID)
	if err != nil {
		t.Fatalf("cancelled appointment must still exist: %v", err)
	}
	if a.Status != StatusCancelled {
		t.Errorf("expected Cancelled, got %s", a.Status)
	}
}

func TestCancel_NotOwner(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	err := svc.Cancel(context.Background(), det.ID, 8)
	if !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("expected Forbidden even though the appointment exists and is scheduled, got %v", err)
	}
}

func TestMutate_TerminalStates(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))
	if err := svc.Cancel(context.Background(), det.ID, 7); err != nil {
		t.Fatal(err)
	}

	newTime := futureTime(48)
	if _, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &newTime}); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("update of cancelled appointment: expected Conflict, got %v", err)
	}
	if err := svc.Cancel(context.Background(), det.ID, 7); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("cancel of cancelled appointment: expected Conflict, got %v", err)
	}

	det2 := mustBook(t, svc, 1, 7, futureTime(72))
	if err := svc.ChangeStatus(context.Background(), det2.ID, StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(context.Background(), det2.ID, 7, UpdateRequest{NewTime: &newTime}); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("update of completed appointment: expected Conflict, got %v", err)
	}
}

// -- Status lifecycle --

func TestChangeStatus(t *testing.T) {
	svc, repo := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))
	if err := svc.ChangeStatus(context.Background(), det.ID, StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := repo.GetByID(context.Background(), det.ID)
	if a.Status != StatusCompleted {
		t.Errorf("expected Completed, got %s", a.Status)
	}
}

func TestChangeStatus_IllegalTransitions(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))

	// Self-transition.
	if err := svc.ChangeStatus(context.Background(), det.ID, StatusScheduled); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict for self-transition, got %v", err)
	}

	svc.ChangeStatus(context.Background(), det.ID, StatusCancelled)

	// Out of terminal state.
	if err := svc.ChangeStatus(context.Background(), det.ID, StatusCompleted); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict out of terminal state, got %v", err)
	}
}

func TestChangeStatus_InvalidAndMissing(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))
	if err := svc.ChangeStatus(context.Background(), det.ID, Status(7)); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation for unknown status, got %v", err)
	}
	if err := svc.ChangeStatus(context.Background(), 404, StatusCompleted); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

// -- Query engine --

func TestDoctorDay(t *testing.T) {
	svc, _ := newTestService()

	day := time.Now().AddDate(0, 0, 7)
	morning := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.Local)
	noon := morning.Add(3 * time.Hour)

	// Booked out of order to verify ascending sort.
	mustBook(t, svc, 1, 8, noon)
	mustBook(t, svc, 1, 7, morning)
	mustBook(t, svc, 1, 7, morning.AddDate(0, 0, 1)) // next day, excluded
	mustBook(t, svc, 2, 7, morning.Add(time.Hour))   // other doctor, excluded

	dets, err := svc.DoctorDay(context.Background(), 1, day, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(dets))
	}
	if !dets[0].ScheduledTime.Equal(morning) || !dets[1].ScheduledTime.Equal(noon) {
		t.Error("expected ascending order by time")
	}
}

func TestDoctorDay_PatientNameFilter(t *testing.T) {
	svc, _ := newTestService()

	day := time.Now().AddDate(0, 0, 7)
	morning := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.Local)

	mustBook(t, svc, 1, 7, morning)                // Alice Ngata
	mustBook(t, svc, 1, 8, morning.Add(time.Hour)) // Bob Okafor

	dets, err := svc.DoctorDay(context.Background(), 1, day, "ngata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dets) != 1 || dets[0].PatientID != 7 {
		t.Errorf("expected only Alice's appointment, got %d results", len(dets))
	}
}

func TestDoctorDay_UnknownDoctor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.DoctorDay(context.Background(), 99, time.Now(), "")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestPatientAppointments_TemporalPartition(t *testing.T) {
	svc, repo := newTestService()

	// Two future bookings through the engine, two past rows seeded
	// directly (booking rejects past times).
	mustBook(t, svc, 1, 7, futureTime(24))
	mustBook(t, svc, 1, 7, futureTime(48))
	for i, at := range []time.Time{time.Now().Add(-24 * time.Hour), time.Now().Add(-48 * time.Hour)} {
		repo.nextID++
		repo.appts[repo.nextID] = &Appointment{
			ID: repo.nextID, DoctorID: 2, PatientID: 7, ClinicLocationID: 3,
			ScheduledTime: at, Status: Status(i % 2), CreatedAt: at,
		}
	}

	all, err := svc.PatientAppointments(context.Background(), 7, "", "all", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	future, _ := svc.PatientAppointments(context.Background(), 7, "", "future", nil)
	past, _ := svc.PatientAppointments(context.Background(), 7, "", "past", nil)

	if len(all) != 4 {
		t.Fatalf("expected 4 total, got %d", len(all))
	}
	if len(future) != 2 || len(past) != 2 {
		t.Fatalf("expected 2/2 partition, got %d future, %d past", len(future), len(past))
	}
	if len(future)+len(past) != len(all) {
		t.Error("past and future must partition the base set")
	}
	now := time.Now()
	for _, d := range future {
		if !d.ScheduledTime.After(now) {
			t.Error("future result not strictly after now")
		}
	}
	for _, d := range past {
		if d.ScheduledTime.After(now) {
			t.Error("past result after now")
		}
	}
}

func TestPatientAppointments_UnrecognizedConditionPassesAll(t *testing.T) {
	svc, _ := newTestService()

	mustBook(t, svc, 1, 7, futureTime(24))
	mustBook(t, svc, 1, 7, futureTime(48))

	for _, cond := range []string{"", "all", "bogus", "ALL"} {
		dets, err := svc.PatientAppointments(context.Background(), 7, "", cond, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(dets) != 2 {
			t.Errorf("condition %q: expected 2, got %d", cond, len(dets))
		}
	}
}

func TestPatientAppointments_DoctorNameFilterAndOrder(t *testing.T) {
	svc, _ := newTestService()

	early := futureTime(24)
	late := futureTime(48)
	mustBook(t, svc, 1, 7, early) // Jane Reyes
	mustBook(t, svc, 1, 7, late)
	mustBook(t, svc, 2, 7, futureTime(72)) // Omar Haddad

	dets, err := svc.PatientAppointments(context.Background(), 7, "reyes", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("expected 2 appointments with Reyes, got %d", len(dets))
	}
	// Descending when the doctor-name filter is active.
	if !dets[0].ScheduledTime.Equal(late) || !dets[1].ScheduledTime.Equal(early) {
		t.Error("expected descending order with doctor-name filter")
	}
}

func TestPatientAppointments_StatusFilter(t *testing.T) {
	svc, _ := newTestService()

	det := mustBook(t, svc, 1, 7, futureTime(24))
	mustBook(t, svc, 1, 7, futureTime(48))
	svc.Cancel(context.Background(), det.ID, 7)

	cancelled := StatusCancelled
	dets, err := svc.PatientAppointments(context.Background(), 7, "", "", &cancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dets) != 1 || dets[0].ID != det.ID {
		t.Errorf("expected only the cancelled appointment, got %d results", len(dets))
	}
}

// -- End to end --

func TestBookRescheduleCancelScenario(t *testing.T) {
	svc, _ := newTestService()
	at := futureTime(24)

	det := mustBook(t, svc, 1, 7, at)
	if det.Status != StatusScheduled {
		t.Fatalf("expected Scheduled, got %s", det.Status)
	}

	// Second booking, same doctor and time: conflict.
	_, err := svc.Book(context.Background(), BookRequest{
		DoctorID: 1, PatientID: 8, ClinicLocationID: 3, ScheduledTime: at,
	})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// Owner moves the appointment one hour later.
	later := at.Add(time.Hour)
	updated, err := svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &later})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if !updated.ScheduledTime.Equal(later) {
		t.Fatalf("expected %v, got %v", later, updated.ScheduledTime)
	}

	// Owner cancels.
	if err := svc.Cancel(context.Background(), det.ID, 7); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// Any further modification is refused.
	_, err = svc.Update(context.Background(), det.ID, 7, UpdateRequest{NewTime: &at})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict after cancellation, got %v", err)
	}
}
