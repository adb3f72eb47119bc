package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CurrencyServiceImpl struct {
	repo   currency.CurrencyRepository
	clock  clock.Clock
	logger *slog.Logger
}

func NewCurrencyService(repo currency.CurrencyRepository, clk clock.Clock, logger *slog.Logger) currency.CurrencyService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CurrencyServiceImpl{repo: repo, clock: clk, logger: logger}
}

// ========== CONVERSION ==========

func (s *CurrencyServiceImpl) Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf *time.Time) (currency.ConversionResult, error) {
	from = currency.NormalizeCode(from)
	to = currency.NormalizeCode(to)

	if from == to {
		return currency.ConversionResult{
			OriginalAmount: amount,
			Amount:         amount,
			FromCurrency:   from,
			ToCurrency:     to,
			Rate:           decimal.NewFromInt(1),
			EffectiveDate:  clock.Today(s.clock),
		}, nil
	}

	if _, err := s.activeCurrency(ctx, from); err != nil {
		return currency.ConversionResult{}, err
	}
	if _, err := s.activeCurrency(ctx, to); err != nil {
		return currency.ConversionResult{}, err
	}

	at := s.clock.Now()
	if asOf != nil {
		at = *asOf
	}

	candidates, err := s.repo.ListApplicableRates(ctx, from, to, at)
	if err != nil {
		return currency.ConversionResult{}, fmt.Errorf("failed to list rates %s->%s: %w", from, to, err)
	}

	rate, ok := pickApplicableRate(candidates, at)
	if !ok {
		return currency.ConversionResult{}, fmt.Errorf("%w: %s->%s as of %s", currency.ErrRateNotFound, from, to, at.Format("2006-01-02"))
	}

	return currency.ConversionResult{
		OriginalAmount: amount,
		Amount:         amount.Mul(rate.Rate),
		FromCurrency:   from,
		ToCurrency:     to,
		Rate:           rate.Rate,
		EffectiveDate:  rate.EffectiveDate,
	}, nil
}

// pickApplicableRate selects the newest active rate effective on or before
// asOf. Same-date rates resolve to the latest insertion.
func pickApplicableRate(rates []currency.ExchangeRate, asOf time.Time) (currency.ExchangeRate, bool) {
	var best currency.ExchangeRate
	found := false

	for _, r := range rates {
		if !r.IsActive || r.EffectiveDate.After(asOf) {
			continue
		}
		if !found || newerRate(r, best) {
			best = r
			found = true
		}
	}

	return best, found
}

func newerRate(a, b currency.ExchangeRate) bool {
	if !a.EffectiveDate.Equal(b.EffectiveDate) {
		return a.EffectiveDate.After(b.EffectiveDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (s *CurrencyServiceImpl) Format(amount decimal.Decimal, c currency.Currency) string {
	return money.Format(amount, c.Symbol, c.DecimalPlaces)
}

// ========== CURRENCIES ==========

func (s *CurrencyServiceImpl) activeCurrency(ctx context.Context, code string) (currency.Currency, error) {
	c, err := s.repo.GetCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, currency.ErrCurrencyNotFound) {
			return currency.Currency{}, fmt.Errorf("%w: %s", currency.ErrCurrencyNotFound, code)
		}
		return currency.Currency{}, err
	}
	if !c.IsActive {
		return currency.Currency{}, fmt.Errorf("%w: %s is inactive", currency.ErrCurrencyNotFound, code)
	}
	return c, nil
}

func (s *CurrencyServiceImpl) GetCurrency(ctx context.Context, code string) (currency.Currency, error) {
	return s.repo.GetCurrencyByCode(ctx, currency.NormalizeCode(code))
}

func (s *CurrencyServiceImpl) ListCurrencies(ctx context.Context, activeOnly bool) ([]currency.Currency, error) {
	return s.repo.ListCurrencies(ctx, activeOnly)
}

func (s *CurrencyServiceImpl) CreateCurrency(ctx context.Context, req currency.CreateCurrencyRequest) (currency.Currency, error) {
	if err := req.Validate(); err != nil {
		return currency.Currency{}, err
	}

	places := money.DefaultPrecision
	if req.DecimalPlaces != nil {
		places = *req.DecimalPlaces
	}

	created, err := s.repo.CreateCurrency(ctx, currency.Currency{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Code:          req.Code,
		Name:          req.Name,
		Symbol:        req.Symbol,
		DecimalPlaces: places,
		IsActive:      true,
	})
	if err != nil {
		return currency.Currency{}, err
	}

	s.logger.Info("currency created", "code", created.Code, "decimal_places", created.DecimalPlaces)
	return created, nil
}

func (s *CurrencyServiceImpl) UpdateCurrency(ctx context.Context, req currency.UpdateCurrencyRequest) (currency.Currency, error) {
	if err := req.Validate(); err != nil {
		return currency.Currency{}, err
	}

	existing, err := s.repo.GetCurrencyByCode(ctx, req.Code)
	if err != nil {
		return currency.Currency{}, err
	}

	if req.DecimalPlaces != nil && *req.DecimalPlaces != existing.DecimalPlaces {
		referenced, err := s.repo.IsCurrencyReferenced(ctx, req.Code)
		if err != nil {
			return currency.Currency{}, err
		}
		if referenced {
			return currency.Currency{}, currency.ErrCurrencyInUse
		}
	}

	return s.repo.UpdateCurrency(ctx, req)
}

func (s *CurrencyServiceImpl) DeactivateCurrency(ctx context.Context, code string) error {
	code = currency.NormalizeCode(code)
	if _, err := s.repo.GetCurrencyByCode(ctx, code); err != nil {
		return err
	}
	return s.repo.SetCurrencyActive(ctx, code, false)
}

// ========== RATES ==========

func (s *CurrencyServiceImpl) CreateRate(ctx context.Context, req currency.CreateRateRequest) (currency.ExchangeRate, error) {
	if err := req.Validate(); err != nil {
		return currency.ExchangeRate{}, err
	}

	if _, err := s.activeCurrency(ctx, req.FromCurrency); err != nil {
		return currency.ExchangeRate{}, err
	}
	if _, err := s.activeCurrency(ctx, req.ToCurrency); err != nil {
		return currency.ExchangeRate{}, err
	}

	now := s.clock.Now()
	created, err := s.repo.CreateRate(ctx, currency.ExchangeRate{
		ID:            uuid.Must(uuid.NewV7()).String(),
		FromCurrency:  req.FromCurrency,
		ToCurrency:    req.ToCurrency,
		Rate:          req.Rate,
		EffectiveDate: req.EffectiveDateValue(),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return currency.ExchangeRate{}, err
	}

	s.logger.Info("exchange rate created",
		"from", created.FromCurrency,
		"to", created.ToCurrency,
		"rate", created.Rate.String(),
		"effective_date", created.EffectiveDate.Format("2006-01-02"),
	)
	return created, nil
}

func (s *CurrencyServiceImpl) ListRates(ctx context.Context, filter currency.RateFilter) ([]currency.ExchangeRate, error) {
	filter.FromCurrency = currency.NormalizeCode(filter.FromCurrency)
	filter.ToCurrency = currency.NormalizeCode(filter.ToCurrency)
	return s.repo.ListRates(ctx, filter)
}

func (s *CurrencyServiceImpl) DeactivateRate(ctx context.Context, id string) error {
	return s.repo.SetRateActive(ctx, id, false)
}

// AuditRates reports pairs that have active rates but none in effect today,
// which would make every conversion for that pair fail with ErrRateNotFound.
func (s *CurrencyServiceImpl) AuditRates(ctx context.Context) ([]currency.RateGap, error) {
	rates, err := s.repo.ListRates(ctx, currency.RateFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	today := clock.Today(s.clock)
	type pair struct{ from, to string }
	earliest := make(map[pair]time.Time)
	covered := make(map[pair]bool)

	for _, r := range rates {
		p := pair{r.FromCurrency, r.ToCurrency}
		if !r.EffectiveDate.After(today) {
			covered[p] = true
			continue
		}
		if e, ok := earliest[p]; !ok || r.EffectiveDate.Before(e) {
			earliest[p] = r.EffectiveDate
		}
	}

	var gaps []currency.RateGap
	for p, next := range earliest {
		if covered[p] {
			continue
		}
		gaps = append(gaps, currency.RateGap{FromCurrency: p.from, ToCurrency: p.to, NextEffectiveDate: next})
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].FromCurrency != gaps[j].FromCurrency {
			return gaps[i].FromCurrency < gaps[j].FromCurrency
		}
		return gaps[i].ToCurrency < gaps[j].ToCurrency
	})

	for _, g := range gaps {
		s.logger.Warn("currency pair has no rate in effect",
			"from", g.FromCurrency,
			"to", g.ToCurrency,
			"next_effective_date", g.NextEffectiveDate.Format("2006-01-02"),
		)
	}
	return gaps, nil
}
