package doctor

import (
	"context"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// ClinicLookup confirms a clinic location id resolves before a doctor is
// assigned to it.
type ClinicLookup interface {
	ClinicExists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo    Repository
	clinics ClinicLookup
}

func NewService(repo Repository, clinics ClinicLookup) *Service {
	return &Service{repo: repo, clinics: clinics}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" || d.LastName == "" {
		return apperr.New(apperr.Validation, "first and last name are required")
	}
	if d.Email == "" {
		return apperr.New(apperr.Validation, "email is required")
	}
	if d.ClinicLocationID != nil {
		exists, err := s.clinics.ClinicExists(ctx, *d.ClinicLocationID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.New(apperr.NotFound, "clinic location not found")
		}
	}
	d.Active = true
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.Search(ctx, filter, limit, offset)
}

// SetActive activates or deactivates a doctor. Deactivation does not touch
// existing appointments; it only blocks new bookings.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Active = active
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// AssignClinic moves a doctor to a different clinic location.
func (s *Service) AssignClinic(ctx context.Context, id, clinicLocationID int64) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.clinics.ClinicExists(ctx, clinicLocationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(apperr.NotFound, "clinic location not found")
	}
	d.ClinicLocationID = &clinicLocationID
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DoctorActive reports whether the doctor exists and, if so, whether they
// may receive new appointments. The booking engine uses this as its doctor
// lookup collaborator.
func (s *Service) DoctorActive(ctx context.Context, id int64) (exists, active bool, err error) {
	d, err := s.repo.GetByID(ctx, id)
	if apperr.IsKind(err, apperr.NotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, d.Active, nil
}

// DoctorExists is the account directory hook used by the identity resolver.
func (s *Service) DoctorExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
