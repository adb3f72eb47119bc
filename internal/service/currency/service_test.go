package currency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCurrencyRepository keeps rows in memory; the applicable-rate query
// mirrors the SQL filter (active, effective on or before asOf).
type fakeCurrencyRepository struct {
	currencies map[string]currency.Currency
	rates      []currency.ExchangeRate
	referenced map[string]bool

	listApplicableCalls int
}

func newFakeRepo() *fakeCurrencyRepository {
	return &fakeCurrencyRepository{
		currencies: map[string]currency.Currency{},
		referenced: map[string]bool{},
	}
}

func (f *fakeCurrencyRepository) CreateCurrency(ctx context.Context, c currency.Currency) (currency.Currency, error) {
	if _, ok := f.currencies[c.Code]; ok {
		return currency.Currency{}, currency.ErrCurrencyCodeExists
	}
	f.currencies[c.Code] = c
	return c, nil
}

func (f *fakeCurrencyRepository) GetCurrencyByCode(ctx context.Context, code string) (currency.Currency, error) {
	c, ok := f.currencies[code]
	if !ok {
		return currency.Currency{}, currency.ErrCurrencyNotFound
	}
	return c, nil
}

func (f *fakeCurrencyRepository) ListCurrencies(ctx context.Context, activeOnly bool) ([]currency.Currency, error) {
	var out []currency.Currency
	for _, c := range f.currencies {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCurrencyRepository) UpdateCurrency(ctx context.Context, req currency.UpdateCurrencyRequest) (currency.Currency, error) {
	c, ok := f.currencies[req.Code]
	if !ok {
		return currency.Currency{}, currency.ErrCurrencyNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Symbol != nil {
		c.Symbol = *req.Symbol
	}
	if req.DecimalPlaces != nil {
		c.DecimalPlaces = *req.DecimalPlaces
	}
	f.currencies[req.Code] = c
	return c, nil
}

func (f *fakeCurrencyRepository) SetCurrencyActive(ctx context.Context, code string, active bool) error {
	c, ok := f.currencies[code]
	if !ok {
		return currency.ErrCurrencyNotFound
	}
	c.IsActive = active
	f.currencies[code] = c
	return nil
}

func (f *fakeCurrencyRepository) IsCurrencyReferenced(ctx context.Context, code string) (bool, error) {
	return f.referenced[code], nil
}

func (f *fakeCurrencyRepository) CreateRate(ctx context.Context, rate currency.ExchangeRate) (currency.ExchangeRate, error) {
	f.rates = append(f.rates, rate)
	return rate, nil
}

func (f *fakeCurrencyRepository) ListRates(ctx context.Context, filter currency.RateFilter) ([]currency.ExchangeRate, error) {
	var out []currency.ExchangeRate
	for _, r := range f.rates {
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if filter.FromCurrency != "" && r.FromCurrency != filter.FromCurrency {
			continue
		}
		if filter.ToCurrency != "" && r.ToCurrency != filter.ToCurrency {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCurrencyRepository) ListApplicableRates(ctx context.Context, from, to string, asOf time.Time) ([]currency.ExchangeRate, error) {
	f.listApplicableCalls++
	var out []currency.ExchangeRate
	for _, r := range f.rates {
		if r.FromCurrency == from && r.ToCurrency == to && r.IsActive && !r.EffectiveDate.After(asOf) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCurrencyRepository) SetRateActive(ctx context.Context, id string, active bool) error {
	for i := range f.rates {
		if f.rates[i].ID == id {
			f.rates[i].IsActive = active
			return nil
		}
	}
	return currency.ErrRateNotFound
}

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*CurrencyServiceImpl, *fakeCurrencyRepository) {
	t.Helper()
	repo := newFakeRepo()
	repo.currencies["USD"] = currency.Currency{ID: "c-usd", Code: "USD", Symbol: "$", DecimalPlaces: 2, IsActive: true}
	repo.currencies["PHP"] = currency.Currency{ID: "c-php", Code: "PHP", Symbol: "₱", DecimalPlaces: 2, IsActive: true}
	repo.currencies["INR"] = currency.Currency{ID: "c-inr", Code: "INR", Symbol: "₹", DecimalPlaces: 2, IsActive: false}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCurrencyService(repo, clock.NewMockClock(fixedNow), logger).(*CurrencyServiceImpl)
	return svc, repo
}

func TestConvert_SameCurrencyNeverLooksUpRates(t *testing.T) {
	svc, repo := newTestService(t)
	amount := decimal.RequireFromString("1234.5678")

	for _, asOf := range []*time.Time{nil, ptrTime(date(1999, 1, 1)), ptrTime(date(2090, 12, 31))} {
		result, err := svc.Convert(context.Background(), amount, "xyz", "XYZ", asOf)
		require.NoError(t, err)
		assert.True(t, result.Amount.Equal(amount))
		assert.True(t, result.Rate.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, date(2024, 6, 15), result.EffectiveDate)
	}
	assert.Zero(t, repo.listApplicableCalls)
}

func TestConvert_PicksNewestEffectiveRate(t *testing.T) {
	svc, repo := newTestService(t)
	repo.rates = []currency.ExchangeRate{
		{ID: "r1", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("55.10"), EffectiveDate: date(2024, 1, 1), IsActive: true, CreatedAt: fixedNow},
		{ID: "r2", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("56.25"), EffectiveDate: date(2024, 5, 1), IsActive: true, CreatedAt: fixedNow},
		{ID: "r3", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("57.00"), EffectiveDate: date(2024, 7, 1), IsActive: true, CreatedAt: fixedNow},
		{ID: "r4", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("99.00"), EffectiveDate: date(2024, 6, 1), IsActive: false, CreatedAt: fixedNow},
	}

	result, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "usd", "php", nil)
	require.NoError(t, err)
	assert.True(t, result.Rate.Equal(decimal.RequireFromString("56.25")), result.Rate.String())
	assert.True(t, result.Amount.Equal(decimal.RequireFromString("5625")), result.Amount.String())
	assert.Equal(t, date(2024, 5, 1), result.EffectiveDate)

	asOf := date(2024, 2, 1)
	result, err = svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "PHP", &asOf)
	require.NoError(t, err)
	assert.True(t, result.Rate.Equal(decimal.RequireFromString("55.10")))
}

func TestConvert_SameDateLatestInsertionWins(t *testing.T) {
	svc, repo := newTestService(t)
	repo.rates = []currency.ExchangeRate{
		{ID: "018f0000-0000-7000-8000-000000000002", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("56.40"), EffectiveDate: date(2024, 6, 1), IsActive: true, CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "018f0000-0000-7000-8000-000000000001", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("56.10"), EffectiveDate: date(2024, 6, 1), IsActive: true, CreatedAt: fixedNow.Add(-2 * time.Hour)},
	}

	result, err := svc.Convert(context.Background(), decimal.NewFromInt(1), "USD", "PHP", nil)
	require.NoError(t, err)
	assert.True(t, result.Rate.Equal(decimal.RequireFromString("56.40")))

	// Identical timestamps fall back to the time-ordered ID.
	repo.rates[0].CreatedAt = fixedNow
	repo.rates[1].CreatedAt = fixedNow
	result, err = svc.Convert(context.Background(), decimal.NewFromInt(1), "USD", "PHP", nil)
	require.NoError(t, err)
	assert.True(t, result.Rate.Equal(decimal.RequireFromString("56.40")))
}

func TestConvert_IsNotRounded(t *testing.T) {
	svc, repo := newTestService(t)
	repo.rates = []currency.ExchangeRate{
		{ID: "r1", FromCurrency: "PHP", ToCurrency: "USD", Rate: decimal.RequireFromString("0.017831"), EffectiveDate: date(2024, 1, 1), IsActive: true},
	}

	result, err := svc.Convert(context.Background(), decimal.RequireFromString("1968.75"), "PHP", "USD", nil)
	require.NoError(t, err)
	assert.Equal(t, "35.10478125", result.Amount.String())
}

func TestConvert_Failures(t *testing.T) {
	svc, repo := newTestService(t)
	repo.rates = []currency.ExchangeRate{
		{ID: "r1", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.RequireFromString("56"), EffectiveDate: date(2025, 1, 1), IsActive: true},
	}

	_, err := svc.Convert(context.Background(), decimal.NewFromInt(1), "USD", "PHP", nil)
	assert.ErrorIs(t, err, currency.ErrRateNotFound)
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.Convert(context.Background(), decimal.NewFromInt(1), "USD", "EUR", nil)
	assert.ErrorIs(t, err, currency.ErrCurrencyNotFound)

	// Inactive currencies are treated as absent.
	_, err = svc.Convert(context.Background(), decimal.NewFromInt(1), "USD", "INR", nil)
	assert.ErrorIs(t, err, currency.ErrCurrencyNotFound)
}

func TestCreateRate_RejectsSameCurrency(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateRate(context.Background(), currency.CreateRateRequest{
		FromCurrency:  "USD",
		ToCurrency:    "usd",
		Rate:          decimal.NewFromInt(1),
		EffectiveDate: "2024-01-01",
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "to_currency")
	assert.Empty(t, repo.rates)
}

func TestCreateRate_Success(t *testing.T) {
	svc, repo := newTestService(t)

	rate, err := svc.CreateRate(context.Background(), currency.CreateRateRequest{
		FromCurrency:  "usd",
		ToCurrency:    "php",
		Rate:          decimal.RequireFromString("56.10"),
		EffectiveDate: "2024-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", rate.FromCurrency)
	assert.Equal(t, date(2024, 6, 1), rate.EffectiveDate)
	assert.True(t, rate.IsActive)
	assert.NotEmpty(t, rate.ID)
	assert.Len(t, repo.rates, 1)

	_, err = svc.CreateRate(context.Background(), currency.CreateRateRequest{
		FromCurrency:  "USD",
		ToCurrency:    "INR",
		Rate:          decimal.RequireFromString("83"),
		EffectiveDate: "2024-06-01",
	})
	assert.ErrorIs(t, err, currency.ErrCurrencyNotFound)
}

func TestCreateCurrency(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateCurrency(context.Background(), currency.CreateCurrencyRequest{Code: "aud", Name: "Australian Dollar", Symbol: "A$"})
	require.NoError(t, err)
	assert.Equal(t, "AUD", created.Code)
	assert.Equal(t, int32(2), created.DecimalPlaces)
	assert.True(t, created.IsActive)

	_, err = svc.CreateCurrency(context.Background(), currency.CreateCurrencyRequest{Code: "AUD", Name: "Dup", Symbol: "A$"})
	assert.ErrorIs(t, err, currency.ErrCurrencyCodeExists)
	assert.True(t, errs.IsPolicyViolation(err))
}

func TestUpdateCurrency_PrecisionLockedOnceReferenced(t *testing.T) {
	svc, repo := newTestService(t)
	repo.referenced["USD"] = true

	places := int32(3)
	_, err := svc.UpdateCurrency(context.Background(), currency.UpdateCurrencyRequest{Code: "USD", DecimalPlaces: &places})
	assert.ErrorIs(t, err, currency.ErrCurrencyInUse)

	symbol := "US$"
	updated, err := svc.UpdateCurrency(context.Background(), currency.UpdateCurrencyRequest{Code: "USD", Symbol: &symbol})
	require.NoError(t, err)
	assert.Equal(t, "US$", updated.Symbol)
}

func TestDeactivateCurrency(t *testing.T) {
	svc, repo := newTestService(t)

	require.NoError(t, svc.DeactivateCurrency(context.Background(), "php"))
	assert.False(t, repo.currencies["PHP"].IsActive)

	assert.ErrorIs(t, svc.DeactivateCurrency(context.Background(), "EUR"), currency.ErrCurrencyNotFound)
}

func TestFormat(t *testing.T) {
	svc, _ := newTestService(t)
	php := currency.Currency{Code: "PHP", Symbol: "₱", DecimalPlaces: 2}
	assert.Equal(t, "₱1,968.75", svc.Format(decimal.RequireFromString("1968.745"), php))
}

func TestAuditRates(t *testing.T) {
	svc, repo := newTestService(t)
	repo.rates = []currency.ExchangeRate{
		{ID: "r1", FromCurrency: "USD", ToCurrency: "PHP", Rate: decimal.NewFromInt(56), EffectiveDate: date(2024, 1, 1), IsActive: true},
		{ID: "r2", FromCurrency: "PHP", ToCurrency: "USD", Rate: decimal.RequireFromString("0.0178"), EffectiveDate: date(2024, 9, 1), IsActive: true},
		{ID: "r3", FromCurrency: "PHP", ToCurrency: "USD", Rate: decimal.RequireFromString("0.0179"), EffectiveDate: date(2024, 8, 1), IsActive: true},
	}

	gaps, err := svc.AuditRates(context.Background())
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "PHP", gaps[0].FromCurrency)
	assert.Equal(t, date(2024, 8, 1), gaps[0].NextEffectiveDate)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
