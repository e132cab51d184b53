package patient

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new patient account. The plaintext password is hashed
// with bcrypt before it reaches storage.
func (s *Service) Register(ctx context.Context, p *Patient, password string) error {
	if p.FirstName == "" || p.LastName == "" {
		return apperr.New(apperr.Validation, "first and last name are required")
	}
	if p.Email == "" || p.Phone == "" {
		return apperr.New(apperr.Validation, "email and phone are required")
	}
	if len(password) < 8 {
		return apperr.New(apperr.Validation, "password must be at least 8 characters")
	}

	taken, err := s.repo.ExistsByEmailOrPhone(ctx, p.Email, p.Phone)
	if err != nil {
		return err
	}
	if taken {
		return apperr.New(apperr.Conflict, "email or phone already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "hash password", err)
	}
	p.Email = strings.ToLower(p.Email)
	p.PasswordHash = string(hash)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return s.repo.GetByEmail(ctx, email)
}

// PatientExists serves both the identity resolver's account re-check and the
// booking engine's patient reference check.
func (s *Service) PatientExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
