package doctor

import "context"

// SearchFilter narrows List queries. Zero values mean "no filter".
type SearchFilter struct {
	Name       string // case-insensitive substring on first or last name
	Specialty  string // case-insensitive exact match
	ActiveOnly bool
}

// Repository is the storage contract for doctors. GetByID returns an
// apperr.NotFound error when the doctor does not exist.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, d *Doctor) error
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Doctor, int, error)
}
