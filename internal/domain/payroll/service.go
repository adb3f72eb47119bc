package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
)

type PayrollService interface {
	// Preview calculates without persisting anything.
	Preview(ctx context.Context, req CalculateRequest) (CalculationResult, error)
	// Generate calculates and saves a snapshot. Retries with the same
	// calculation id return the stored snapshot.
	Generate(ctx context.Context, req CalculateRequest) (payslip.Snapshot, error)
	GenerateBatch(ctx context.Context, req BatchRequest) (BatchResult, error)
	ConvertResult(ctx context.Context, result CalculationResult, toCurrency string, asOf *time.Time) (ConvertedTotals, error)
}
