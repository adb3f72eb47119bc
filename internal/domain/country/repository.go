package country

import "context"

// Repository reads country master data. Inactive countries are returned with
// IsActive=false rather than hidden.
type Repository interface {
	GetByID(ctx context.Context, id string) (Country, error)
	GetByCode(ctx context.Context, code string) (Country, error)
}
