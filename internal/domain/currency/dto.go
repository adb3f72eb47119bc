package currency

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ========== CURRENCY DTOs ==========

type CreateCurrencyRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces *int32 `json:"decimal_places,omitempty"`
}

func (r *CreateCurrencyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = NormalizeCode(r.Code)
	if !validator.IsValidCurrencyCode(r.Code) {
		errs.Add("code", "must be a 3-letter currency code")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "is required")
	}
	if validator.IsEmpty(r.Symbol) {
		errs.Add("symbol", "is required")
	}
	if r.DecimalPlaces != nil && (*r.DecimalPlaces < 0 || *r.DecimalPlaces > 8) {
		errs.Add("decimal_places", "must be between 0 and 8")
	}

	return errs.Err()
}

type UpdateCurrencyRequest struct {
	Code          string  `json:"-"`
	Name          *string `json:"name,omitempty"`
	Symbol        *string `json:"symbol,omitempty"`
	DecimalPlaces *int32  `json:"decimal_places,omitempty"`
}

func (r *UpdateCurrencyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = NormalizeCode(r.Code)
	if !validator.IsValidCurrencyCode(r.Code) {
		errs.Add("code", "must be a 3-letter currency code")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "must not be empty")
	}
	if r.Symbol != nil && validator.IsEmpty(*r.Symbol) {
		errs.Add("symbol", "must not be empty")
	}
	if r.DecimalPlaces != nil && (*r.DecimalPlaces < 0 || *r.DecimalPlaces > 8) {
		errs.Add("decimal_places", "must be between 0 and 8")
	}

	return errs.Err()
}

type CurrencyResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int32  `json:"decimal_places"`
	IsActive      bool   `json:"is_active"`
}

func ToCurrencyResponse(c Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Symbol:        c.Symbol,
		DecimalPlaces: c.DecimalPlaces,
		IsActive:      c.IsActive,
	}
}

// ========== RATE DTOs ==========

type CreateRateRequest struct {
	FromCurrency  string          `json:"from_currency"`
	ToCurrency    string          `json:"to_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate string          `json:"effective_date"` // YYYY-MM-DD

	effectiveDate time.Time
}

func (r *CreateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FromCurrency = NormalizeCode(r.FromCurrency)
	r.ToCurrency = NormalizeCode(r.ToCurrency)

	if !validator.IsValidCurrencyCode(r.FromCurrency) {
		errs.Add("from_currency", "must be a 3-letter currency code")
	}
	if !validator.IsValidCurrencyCode(r.ToCurrency) {
		errs.Add("to_currency", "must be a 3-letter currency code")
	}
	if r.FromCurrency != "" && r.FromCurrency == r.ToCurrency {
		errs.Add("to_currency", "must differ from from_currency")
	}
	if !r.Rate.IsPositive() {
		errs.Add("rate", "must be greater than 0")
	}
	if date, ok := validator.IsValidDate(r.EffectiveDate); ok {
		r.effectiveDate = date
	} else {
		errs.Add("effective_date", "must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

// EffectiveDateValue is populated by Validate.
func (r *CreateRateRequest) EffectiveDateValue() time.Time {
	return r.effectiveDate
}

type RateFilter struct {
	FromCurrency string
	ToCurrency   string
	ActiveOnly   bool
}

type ExchangeRateResponse struct {
	ID            string          `json:"id"`
	FromCurrency  string          `json:"from_currency"`
	ToCurrency    string          `json:"to_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate string          `json:"effective_date"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

func ToExchangeRateResponse(r ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ID:            r.ID,
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate.Format("2006-01-02"),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
	}
}

// ========== CONVERSION DTOs ==========

type ConvertRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	AsOf         *string         `json:"as_of,omitempty"` // YYYY-MM-DD

	asOf *time.Time
}

func (r *ConvertRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FromCurrency = NormalizeCode(r.FromCurrency)
	r.ToCurrency = NormalizeCode(r.ToCurrency)

	if !validator.IsValidCurrencyCode(r.FromCurrency) {
		errs.Add("from_currency", "must be a 3-letter currency code")
	}
	if !validator.IsValidCurrencyCode(r.ToCurrency) {
		errs.Add("to_currency", "must be a 3-letter currency code")
	}
	if r.AsOf != nil {
		if date, ok := validator.IsValidDate(*r.AsOf); ok {
			r.asOf = &date
		} else {
			errs.Add("as_of", "must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// AsOfValue is populated by Validate.
func (r *ConvertRequest) AsOfValue() *time.Time {
	return r.asOf
}

type ConversionResponse struct {
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Amount         decimal.Decimal `json:"amount"`
	FromCurrency   string          `json:"from_currency"`
	ToCurrency     string          `json:"to_currency"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveDate  string          `json:"effective_date"`
}

func ToConversionResponse(r ConversionResult) ConversionResponse {
	return ConversionResponse{
		OriginalAmount: r.OriginalAmount,
		Amount:         r.Amount,
		FromCurrency:   r.FromCurrency,
		ToCurrency:     r.ToCurrency,
		Rate:           r.Rate,
		EffectiveDate:  r.EffectiveDate.Format("2006-01-02"),
	}
}

type RateGapResponse struct {
	FromCurrency      string `json:"from_currency"`
	ToCurrency        string `json:"to_currency"`
	NextEffectiveDate string `json:"next_effective_date"`
}
