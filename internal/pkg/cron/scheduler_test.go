package cron

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_DisabledIntervalIsSkipped(t *testing.T) {
	s := NewScheduler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	s.AddJob("off", 0, func(context.Context) error { return nil })
	s.AddJob("on", time.Hour, func(context.Context) error { return nil })

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "on", jobs[0].Name)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	var runs atomic.Int32
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		runs.Add(1)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

type fakeAuditor struct {
	gaps []currency.RateGap
	err  error
}

func (f fakeAuditor) AuditRates(context.Context) ([]currency.RateGap, error) {
	return f.gaps, f.err
}

func TestRateJobs_LogsGapSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	jobs := NewRateJobs(fakeAuditor{gaps: []currency.RateGap{
		{FromCurrency: "USD", ToCurrency: "PHP", NextEffectiveDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
	}}, time.Hour, logger)

	require.NoError(t, jobs.AuditExchangeRates(context.Background()))
	assert.Contains(t, buf.String(), "exchange rate audit found gaps")
	assert.Contains(t, buf.String(), "count=1")
	assert.Contains(t, buf.String(), "USD/PHP")
}

func TestRateJobs_PropagatesAuditError(t *testing.T) {
	jobs := NewRateJobs(fakeAuditor{err: errors.New("db down")}, time.Hour, nil)

	err := jobs.AuditExchangeRates(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestRateJobs_RegisterRespectsInterval(t *testing.T) {
	s := NewScheduler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	NewRateJobs(fakeAuditor{}, 0, nil).RegisterJobs(s)
	assert.Empty(t, s.Jobs())

	NewRateJobs(fakeAuditor{}, 24*time.Hour, nil).RegisterJobs(s)
	assert.Len(t, s.Jobs(), 1)
}
