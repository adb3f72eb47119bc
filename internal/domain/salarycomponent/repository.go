package salarycomponent

import "context"

type SalaryComponentRepository interface {
	Create(ctx context.Context, c SalaryComponent) (SalaryComponent, error)
	GetByID(ctx context.Context, countryID, id string) (SalaryComponent, error)
	// ListByCountry orders by display_order, then code.
	ListByCountry(ctx context.Context, countryID string, activeOnly bool) ([]SalaryComponent, error)
	Update(ctx context.Context, c SalaryComponent) (SalaryComponent, error)
	Delete(ctx context.Context, countryID, id string) error
}
