package contribution

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/contribution"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reportableStatuses are the snapshots whose figures have been released.
// A downloaded payslip was available first, so it still counts.
var reportableStatuses = []payslip.Status{payslip.StatusAvailable, payslip.StatusDownloaded}

type ContributionServiceImpl struct {
	snapshots payslip.SnapshotRepository
	logger    *slog.Logger
}

func NewContributionService(snapshots payslip.SnapshotRepository, logger *slog.Logger) contribution.ContributionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContributionServiceImpl{snapshots: snapshots, logger: logger}
}

func (s *ContributionServiceImpl) YTDSummary(ctx context.Context, req contribution.SummaryRequest) (contribution.Summary, error) {
	if err := req.Validate(); err != nil {
		return contribution.Summary{}, err
	}
	start, end, _ := req.Bounds()
	return s.summarize(ctx, req.UserID, req.CountryID, start, end)
}

// Compare runs both summaries concurrently. Either one failing fails the
// comparison, including NotFound for an empty period.
func (s *ContributionServiceImpl) Compare(ctx context.Context, req contribution.CompareRequest) (contribution.Comparison, error) {
	if err := req.Validate(); err != nil {
		return contribution.Comparison{}, err
	}
	start1, end1, _ := req.Period1.Bounds()
	start2, end2, _ := req.Period2.Bounds()

	var p1, p2 contribution.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p1, err = s.summarize(gctx, req.UserID, req.CountryID, start1, end1)
		if err != nil {
			return fmt.Errorf("period1: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		p2, err = s.summarize(gctx, req.UserID, req.CountryID, start2, end2)
		if err != nil {
			return fmt.Errorf("period2: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return contribution.Comparison{}, err
	}

	return contribution.Comparison{
		Period1:       p1,
		Period2:       p2,
		Difference:    p2.GrandTotal.Sub(p1.GrandTotal),
		PercentChange: money.Round2(money.PercentChange(p1.GrandTotal, p2.GrandTotal)),
		Components:    componentDeltas(p1, p2),
	}, nil
}

func (s *ContributionServiceImpl) summarize(ctx context.Context, userID, countryID string, start, end time.Time) (contribution.Summary, error) {
	snaps, _, err := s.snapshots.List(ctx, payslip.Query{
		UserID:    userID,
		CountryID: countryID,
		Statuses:  reportableStatuses,
		From:      &start,
		To:        &end,
	})
	if err != nil {
		return contribution.Summary{}, err
	}
	if len(snaps) == 0 {
		return contribution.Summary{}, fmt.Errorf("%w: %s to %s", contribution.ErrNoContributions,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CalculatedAt.Before(snaps[j].CalculatedAt)
	})

	summary := Fold(snaps)
	summary.UserID = userID
	summary.CountryID = countryID
	summary.StartDate = start
	summary.EndDate = end
	return summary, nil
}

// Fold sums the statutory lines of snaps per component code. snaps should be
// in calculation order; the grand total always equals the sum of the
// per-code totals.
func Fold(snaps []payslip.Snapshot) contribution.Summary {
	summary := contribution.Summary{
		TotalEmployee: decimal.Zero,
		TotalEmployer: decimal.Zero,
		GrandTotal:    decimal.Zero,
		SnapshotCount: len(snaps),
	}
	index := make(map[string]int)

	for i, snap := range snaps {
		if i == 0 {
			summary.FirstCalculated = snap.CalculatedAt
			summary.CurrencyCode = snap.CurrencyCode
		}
		summary.LastCalculated = snap.CalculatedAt

		for _, line := range snap.StatutoryDeductions {
			pos, ok := index[line.Code]
			if !ok {
				pos = len(summary.Components)
				index[line.Code] = pos
				summary.Components = append(summary.Components, contribution.ComponentTotal{
					Code:     line.Code,
					Name:     line.Name,
					Employee: decimal.Zero,
					Employer: decimal.Zero,
					Total:    decimal.Zero,
				})
			}

			employer := decimal.Zero
			if line.EmployerAmount != nil {
				employer = *line.EmployerAmount
			}
			ct := &summary.Components[pos]
			ct.Employee = ct.Employee.Add(line.Amount)
			ct.Employer = ct.Employer.Add(employer)
			ct.Total = ct.Employee.Add(ct.Employer)
			ct.Occurrences++
		}
	}

	for _, ct := range summary.Components {
		summary.TotalEmployee = summary.TotalEmployee.Add(ct.Employee)
		summary.TotalEmployer = summary.TotalEmployer.Add(ct.Employer)
		summary.GrandTotal = summary.GrandTotal.Add(ct.Total)
	}
	return summary
}

func componentDeltas(p1, p2 contribution.Summary) []contribution.ComponentDelta {
	totals1 := make(map[string]decimal.Decimal, len(p1.Components))
	var codes []string
	for _, c := range p1.Components {
		totals1[c.Code] = c.Total
		codes = append(codes, c.Code)
	}
	totals2 := make(map[string]decimal.Decimal, len(p2.Components))
	for _, c := range p2.Components {
		totals2[c.Code] = c.Total
		if _, ok := totals1[c.Code]; !ok {
			codes = append(codes, c.Code)
		}
	}

	deltas := make([]contribution.ComponentDelta, 0, len(codes))
	for _, code := range codes {
		t1, t2 := totals1[code], totals2[code]
		deltas = append(deltas, contribution.ComponentDelta{
			Code:          code,
			Period1Total:  t1,
			Period2Total:  t2,
			Difference:    t2.Sub(t1),
			PercentChange: money.Round2(money.PercentChange(t1, t2)),
		})
	}
	return deltas
}
