package payroll

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrPeriodNotFound        = errs.NotFound("payroll period not found")
	ErrCompensationNotFound  = errs.NotFound("employee compensation not found")
	ErrCountryInactive       = errs.Policy("country is inactive")
	ErrPeriodCountryMismatch = errs.Validation("payroll period belongs to another country")
)
