package currency

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CurrencyService interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf *time.Time) (ConversionResult, error)
	Format(amount decimal.Decimal, c Currency) string

	GetCurrency(ctx context.Context, code string) (Currency, error)
	ListCurrencies(ctx context.Context, activeOnly bool) ([]Currency, error)
	CreateCurrency(ctx context.Context, req CreateCurrencyRequest) (Currency, error)
	UpdateCurrency(ctx context.Context, req UpdateCurrencyRequest) (Currency, error)
	DeactivateCurrency(ctx context.Context, code string) error

	CreateRate(ctx context.Context, req CreateRateRequest) (ExchangeRate, error)
	ListRates(ctx context.Context, filter RateFilter) ([]ExchangeRate, error)
	DeactivateRate(ctx context.Context, id string) error
	AuditRates(ctx context.Context) ([]RateGap, error)
}
