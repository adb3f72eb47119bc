package regionconfig

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrConfigNotFound = errs.NotFound("region config not found")
)
