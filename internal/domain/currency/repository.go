package currency

import (
	"context"
	"time"
)

type CurrencyRepository interface {
	// Currencies
	CreateCurrency(ctx context.Context, c Currency) (Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (Currency, error)
	ListCurrencies(ctx context.Context, activeOnly bool) ([]Currency, error)
	UpdateCurrency(ctx context.Context, req UpdateCurrencyRequest) (Currency, error)
	SetCurrencyActive(ctx context.Context, code string, active bool) error
	IsCurrencyReferenced(ctx context.Context, code string) (bool, error)

	// Rates
	CreateRate(ctx context.Context, rate ExchangeRate) (ExchangeRate, error)
	ListRates(ctx context.Context, filter RateFilter) ([]ExchangeRate, error)
	// ListApplicableRates returns active rates for the pair effective on or
	// before asOf, newest effective date first.
	ListApplicableRates(ctx context.Context, from, to string, asOf time.Time) ([]ExchangeRate, error)
	SetRateActive(ctx context.Context, id string, active bool) error
}
