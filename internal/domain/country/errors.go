package country

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrCountryNotFound = errs.NotFound("country not found")
)
