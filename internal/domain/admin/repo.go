package admin

import "context"

// Repository is the storage contract for admin accounts. GetBySubject
// matches username or email and returns an apperr.NotFound error when no
// row matches.
type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetBySubject(ctx context.Context, subject string) (*Admin, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
