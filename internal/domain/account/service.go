// Package account owns login: it turns a subject + password into a signed
// bearer token, and backs the identity resolver's live account directory.
package account

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/clinicore/internal/domain/admin"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

// Credentialed is the capability implemented by entities that support
// password authentication. Doctors do not carry credentials and therefore
// cannot log in directly; their tokens are not minted by this service.
type Credentialed interface {
	CredentialSubject() string
	CredentialHash() string
	AccountID() int64
	AccountRole() string
	DisplayName() string
}

// AdminStore and PatientStore are the narrow lookups Login needs.
type AdminStore interface {
	GetBySubject(ctx context.Context, subject string) (*admin.Admin, error)
}

type PatientStore interface {
	GetByEmail(ctx context.Context, email string) (*patient.Patient, error)
}

// Session is the result of a successful login.
type Session struct {
	Token       string `json:"token"`
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

type Service struct {
	admins   AdminStore
	patients PatientStore
	codec    *auth.Codec
}

func NewService(admins AdminStore, patients PatientStore, codec *auth.Codec) *Service {
	return &Service{admins: admins, patients: patients, codec: codec}
}

// Login authenticates subject/password under the requested role and issues
// a bearer token. Lookup misses and bad passwords are deliberately collapsed
// into the same Unauthenticated failure.
func (s *Service) Login(ctx context.Context, subject, password, role string) (*Session, error) {
	if subject == "" || password == "" {
		return nil, apperr.New(apperr.Validation, "subject and password are required")
	}

	cred, err := s.findAccount(ctx, subject, role)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Unauthenticated, "invalid credentials")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.CredentialHash()), []byte(password)) != nil {
		return nil, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}

	token, err := s.codec.Issue(cred.CredentialSubject(), cred.AccountRole(), cred.AccountID())
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:       token,
		UserID:      cred.AccountID(),
		Role:        cred.AccountRole(),
		DisplayName: cred.DisplayName(),
	}, nil
}

func (s *Service) findAccount(ctx context.Context, subject, role string) (Credentialed, error) {
	switch strings.ToLower(role) {
	case auth.RoleAdmin:
		return s.admins.GetBySubject(ctx, subject)
	case auth.RolePatient:
		return s.patients.GetByEmail(ctx, subject)
	default:
		return nil, apperr.Newf(apperr.Validation, "role %q does not support password login", role)
	}
}
