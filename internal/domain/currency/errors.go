package currency

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrCurrencyNotFound   = errs.NotFound("currency not found")
	ErrRateNotFound       = errs.NotFound("exchange rate not found")
	ErrCurrencyCodeExists = errs.Policy("currency code already exists")
	ErrCurrencyInUse      = errs.Policy("currency is referenced and cannot change precision")
)
