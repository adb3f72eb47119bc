package salarycomponent

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/regionconfig"
	"github.com/shopspring/decimal"
)

type SalaryComponentService interface {
	Create(ctx context.Context, req CreateSalaryComponentRequest) (SalaryComponent, error)
	Update(ctx context.Context, req UpdateSalaryComponentRequest) (SalaryComponent, error)
	Get(ctx context.Context, countryID, id string) (SalaryComponent, error)
	ListByCountry(ctx context.Context, countryID string, activeOnly bool) ([]SalaryComponent, error)
	Delete(ctx context.Context, countryID, id string) error
}

// Resolver turns a definition into an unrounded amount. Implementations do no I/O.
type Resolver interface {
	Resolve(c SalaryComponent, rc ResolutionContext) (decimal.Decimal, error)
	// ResolveEmployer returns the employer share, with ok=false when the
	// component has none.
	ResolveEmployer(c SalaryComponent, rc ResolutionContext) (amount decimal.Decimal, ok bool, err error)
}

// CountryPolicy adds country-specific constraints on top of the universal
// definition rules.
type CountryPolicy interface {
	ValidateComponent(ctx context.Context, c SalaryComponent, cfg regionconfig.Reader) error
}

// PolicyRegistry maps country codes to their policy.
type PolicyRegistry map[string]CountryPolicy
