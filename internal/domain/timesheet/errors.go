package timesheet

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrNegativeBasicSalary = errs.Validation("basic salary must not be negative")
	ErrNegativeHours       = errs.Validation("hours must not be negative")
)
