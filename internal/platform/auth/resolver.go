package auth

import (
	"context"
	"strings"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// Identity is the validated result of resolving a bearer credential. It
// lives for a single request and is never persisted or cached.
type Identity struct {
	Subject string
	Role    string
	UID     int64
}

func (i *Identity) Is(role string) bool {
	return i != nil && strings.EqualFold(i.Role, role)
}

// Directory answers whether an account id still exists in the role-specific
// store. The check runs on every resolve so a deleted account stops acting
// the moment its row is gone, even on a still-unexpired token.
type Directory interface {
	AdminExists(ctx context.Context, id int64) (bool, error)
	DoctorExists(ctx context.Context, id int64) (bool, error)
	PatientExists(ctx context.Context, id int64) (bool, error)
}

// Resolver turns raw bearer values into validated identities.
type Resolver struct {
	codec *Codec
	dir   Directory
}

func NewResolver(codec *Codec, dir Directory) *Resolver {
	return &Resolver{codec: codec, dir: dir}
}

// Resolve decodes raw and confirms the account behind it still exists.
// A blank raw value resolves to (nil, nil): not authenticated, not an error.
// Every other failure mode (malformed, expired, revoked account, role
// mismatch against expectedRole) returns an Unauthenticated error.
func (r *Resolver) Resolve(ctx context.Context, raw, expectedRole string) (*Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	claims, err := r.codec.Parse(raw)
	if err != nil {
		return nil, err
	}

	exists, err := r.accountExists(ctx, claims.Role, claims.UID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "account lookup", err)
	}
	if !exists {
		return nil, apperr.New(apperr.Unauthenticated, "account no longer exists")
	}

	if expectedRole != "" && !strings.EqualFold(expectedRole, claims.Role) {
		return nil, apperr.New(apperr.Unauthenticated, "credential does not hold the required role")
	}

	return &Identity{
		Subject: claims.Subject,
		Role:    strings.ToLower(claims.Role),
		UID:     claims.UID,
	}, nil
}

func (r *Resolver) accountExists(ctx context.Context, role string, id int64) (bool, error) {
	switch strings.ToLower(role) {
	case RoleAdmin:
		return r.dir.AdminExists(ctx, id)
	case RoleDoctor:
		return r.dir.DoctorExists(ctx, id)
	case RolePatient:
		return r.dir.PatientExists(ctx, id)
	default:
		return false, nil
	}
}
