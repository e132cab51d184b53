package clinic

import (
	"context"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, loc *Location) error {
	if loc.Name == "" {
		return apperr.New(apperr.Validation, "name is required")
	}
	if loc.Address == "" {
		return apperr.New(apperr.Validation, "address is required")
	}
	return s.repo.Create(ctx, loc)
}

func (s *Service) Get(ctx context.Context, id int64) (*Location, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Location, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ClinicExists reports whether a location id resolves to a stored row. The
// booking engine uses it as its clinic lookup collaborator.
func (s *Service) ClinicExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
