package contribution

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrNoContributions = errs.NotFound("no payslips with contributions in the requested range")
)
