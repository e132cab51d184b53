package clinic

import "context"

// Repository is the storage contract for clinic locations. GetByID returns
// an apperr.NotFound error when the location does not exist.
type Repository interface {
	Create(ctx context.Context, loc *Location) error
	GetByID(ctx context.Context, id int64) (*Location, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Location, int, error)
}
