package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
)

// RateAuditor is the part of currency.CurrencyService the audit job needs.
type RateAuditor interface {
	AuditRates(ctx context.Context) ([]currency.RateGap, error)
}

// RateJobs warns about currency pairs that would fail conversion today.
type RateJobs struct {
	auditor  RateAuditor
	interval time.Duration
	logger   *slog.Logger
}

func NewRateJobs(auditor RateAuditor, interval time.Duration, logger *slog.Logger) *RateJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateJobs{auditor: auditor, interval: interval, logger: logger}
}

func (j *RateJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("audit_exchange_rates", j.interval, j.AuditExchangeRates)
}

func (j *RateJobs) AuditExchangeRates(ctx context.Context) error {
	gaps, err := j.auditor.AuditRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to audit exchange rates: %w", err)
	}

	if len(gaps) == 0 {
		j.logger.DebugContext(ctx, "exchange rates cover today")
		return nil
	}

	pairs := make([]string, 0, len(gaps))
	for _, gap := range gaps {
		pairs = append(pairs, gap.FromCurrency+"/"+gap.ToCurrency)
	}
	j.logger.WarnContext(ctx, "exchange rate audit found gaps", "count", len(gaps), "pairs", pairs)
	return nil
}
