package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency - currency master definition
type Currency struct {
	ID            string
	Code          string
	Name          string
	Symbol        string
	DecimalPlaces int32
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExchangeRate - directional, effective-dated conversion rate
type ExchangeRate struct {
	ID            string // UUIDv7, so ordering by ID follows insertion order
	FromCurrency  string
	ToCurrency    string
	Rate          decimal.Decimal
	EffectiveDate time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ConversionResult - outcome of a conversion, unrounded
type ConversionResult struct {
	OriginalAmount decimal.Decimal
	Amount         decimal.Decimal
	FromCurrency   string
	ToCurrency     string
	Rate           decimal.Decimal
	EffectiveDate  time.Time
}

// RateGap - a currency pair whose active rates all start in the future
type RateGap struct {
	FromCurrency      string
	ToCurrency        string
	NextEffectiveDate time.Time
}
