package patient

import "context"

// Repository is the storage contract for patients. GetByID and GetByEmail
// return an apperr.NotFound error when no row matches.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
}
