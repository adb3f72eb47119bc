package contribution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/contribution"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fakeSnapshotRepository answers List from a fixed set and records the
// queries it received. The other methods are unused here.
type fakeSnapshotRepository struct {
	payslip.SnapshotRepository
	snaps   []payslip.Snapshot
	listErr error
}

func (f *fakeSnapshotRepository) List(ctx context.Context, q payslip.Query) ([]payslip.Snapshot, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []payslip.Snapshot
	for _, s := range f.snaps {
		if s.UserID != q.UserID || s.CountryID != q.CountryID {
			continue
		}
		if q.From != nil && s.CalculatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && s.CalculatedAt.After(*q.To) {
			continue
		}
		allowed := false
		for _, st := range q.Statuses {
			if st == s.Status {
				allowed = true
			}
		}
		if allowed {
			out = append(out, s)
		}
	}
	// newest first, like the real repository
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, int64(len(out)), nil
}

func snapshot(month time.Month, status payslip.Status, lines ...payslip.LineItem) payslip.Snapshot {
	return payslip.Snapshot{
		ID:                  "snap-" + month.String(),
		UserID:              "user-1",
		CountryID:           "ctry-ph",
		CurrencyCode:        "PHP",
		CalculatedAt:        time.Date(2024, month, 28, 10, 0, 0, 0, time.UTC),
		Status:              status,
		StatutoryDeductions: lines,
	}
}

func line(code, employee string, employer *decimal.Decimal) payslip.LineItem {
	return payslip.LineItem{Code: code, Name: code, Category: "deductions", Amount: dec(employee), EmployerAmount: employer}
}

func testSnapshots() []payslip.Snapshot {
	return []payslip.Snapshot{
		snapshot(time.January, payslip.StatusAvailable,
			line("SSS", "1125.00", decPtr("2375.00")),
			line("PHILHEALTH", "750.00", decPtr("750.00"))),
		snapshot(time.February, payslip.StatusDownloaded,
			line("SSS", "1125.00", decPtr("2375.00")),
			line("PHILHEALTH", "750.00", decPtr("750.00")),
			line("PAGIBIG", "100.00", decPtr("100.00"))),
		snapshot(time.March, payslip.StatusProcessing,
			line("SSS", "9999.00", nil)),
		snapshot(time.July, payslip.StatusAvailable,
			line("SSS", "1350.00", decPtr("2850.00")),
			line("PAGIBIG", "200.00", nil)),
	}
}

func newTestService(snaps []payslip.Snapshot) *ContributionServiceImpl {
	repo := &fakeSnapshotRepository{snaps: snaps}
	svc := NewContributionService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc.(*ContributionServiceImpl)
}

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestYTDSummary_FoldsEachCodeIndependently(t *testing.T) {
	svc := newTestService(testSnapshots())

	got, err := svc.YTDSummary(context.Background(), contribution.SummaryRequest{
		UserID:    "user-1",
		CountryID: "ctry-ph",
		DateRange: contribution.DateRange{StartDate: "2024-01-01", EndDate: "2024-06-30"},
	})
	require.NoError(t, err)

	want := []contribution.ComponentTotal{
		{Code: "SSS", Name: "SSS", Employee: dec("2250"), Employer: dec("4750"), Total: dec("7000"), Occurrences: 2},
		{Code: "PHILHEALTH", Name: "PHILHEALTH", Employee: dec("1500"), Employer: dec("1500"), Total: dec("3000"), Occurrences: 2},
		{Code: "PAGIBIG", Name: "PAGIBIG", Employee: dec("100"), Employer: dec("100"), Total: dec("200"), Occurrences: 1},
	}
	if diff := cmp.Diff(want, got.Components, decimalEqual); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, got.SnapshotCount, "processing snapshots are not reported")
	assert.Equal(t, "PHP", got.CurrencyCode)
	assert.True(t, dec("3850").Equal(got.TotalEmployee))
	assert.True(t, dec("6350").Equal(got.TotalEmployer))
	assert.True(t, dec("10200").Equal(got.GrandTotal))
	assert.Equal(t, time.January, got.FirstCalculated.Month())
	assert.Equal(t, time.February, got.LastCalculated.Month())

	perCode := decimal.Zero
	for _, c := range got.Components {
		perCode = perCode.Add(c.Total)
	}
	assert.True(t, perCode.Equal(got.GrandTotal))
}

func TestYTDSummary_EmptyRangeIsNotFound(t *testing.T) {
	svc := newTestService(testSnapshots())

	_, err := svc.YTDSummary(context.Background(), contribution.SummaryRequest{
		UserID:    "user-1",
		CountryID: "ctry-ph",
		DateRange: contribution.DateRange{StartDate: "2024-03-01", EndDate: "2024-03-31"},
	})
	assert.ErrorIs(t, err, contribution.ErrNoContributions)
	assert.True(t, errs.IsNotFound(err))
}

func TestYTDSummary_Validation(t *testing.T) {
	svc := newTestService(nil)

	tests := []struct {
		name  string
		req   contribution.SummaryRequest
		field string
	}{
		{"missing country", contribution.SummaryRequest{UserID: "u", DateRange: contribution.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-31"}}, "country_id"},
		{"bad start", contribution.SummaryRequest{UserID: "u", CountryID: "c", DateRange: contribution.DateRange{StartDate: "01/01/2024", EndDate: "2024-01-31"}}, "start_date"},
		{"reversed", contribution.SummaryRequest{UserID: "u", CountryID: "c", DateRange: contribution.DateRange{StartDate: "2024-02-01", EndDate: "2024-01-31"}}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.YTDSummary(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestYTDSummary_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewContributionService(&fakeSnapshotRepository{listErr: boom}, nil)

	_, err := svc.YTDSummary(context.Background(), contribution.SummaryRequest{
		UserID: "user-1", CountryID: "ctry-ph",
		DateRange: contribution.DateRange{StartDate: "2024-01-01", EndDate: "2024-12-31"},
	})
	assert.ErrorIs(t, err, boom)
}

func TestCompare(t *testing.T) {
	svc := newTestService(testSnapshots())

	got, err := svc.Compare(context.Background(), contribution.CompareRequest{
		UserID:    "user-1",
		CountryID: "ctry-ph",
		Period1:   contribution.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-31"},
		Period2:   contribution.DateRange{StartDate: "2024-07-01", EndDate: "2024-07-31"},
	})
	require.NoError(t, err)

	// January 3500 + 1500 = 5000; July 4200 + 200 = 4400
	assert.True(t, dec("5000").Equal(got.Period1.GrandTotal))
	assert.True(t, dec("4400").Equal(got.Period2.GrandTotal))
	assert.True(t, dec("-600").Equal(got.Difference))
	assert.Equal(t, "-12", got.PercentChange.String())

	want := []contribution.ComponentDelta{
		{Code: "SSS", Period1Total: dec("3500"), Period2Total: dec("4200"), Difference: dec("700"), PercentChange: dec("20")},
		{Code: "PHILHEALTH", Period1Total: dec("1500"), Period2Total: decimal.Zero, Difference: dec("-1500"), PercentChange: dec("-100")},
		{Code: "PAGIBIG", Period1Total: decimal.Zero, Period2Total: dec("200"), Difference: dec("200"), PercentChange: decimal.Zero},
	}
	if diff := cmp.Diff(want, got.Components, decimalEqual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("component deltas mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_ZeroBaseYieldsZeroPercent(t *testing.T) {
	snaps := []payslip.Snapshot{
		snapshot(time.January, payslip.StatusAvailable, line("SSS", "0", nil)),
		snapshot(time.February, payslip.StatusAvailable, line("SSS", "500", nil)),
	}
	svc := newTestService(snaps)

	got, err := svc.Compare(context.Background(), contribution.CompareRequest{
		UserID:    "user-1",
		CountryID: "ctry-ph",
		Period1:   contribution.DateRange{StartDate: "2024-01-01", EndDate: "2024-01-31"},
		Period2:   contribution.DateRange{StartDate: "2024-02-01", EndDate: "2024-02-29"},
	})
	require.NoError(t, err)
	assert.True(t, got.PercentChange.IsZero())
	assert.True(t, dec("500").Equal(got.Difference))
}

func TestCompare_EmptyPeriodFails(t *testing.T) {
	svc := newTestService(testSnapshots())

	_, err := svc.Compare(context.Background(), contribution.CompareRequest{
		UserID:    "user-1",
		CountryID: "ctry-ph",
		Period1:   contribution.DateRange{StartDate: "2023-01-01", EndDate: "2023-12-31"},
		Period2:   contribution.DateRange{StartDate: "2024-01-01", EndDate: "2024-12-31"},
	})
	assert.ErrorIs(t, err, contribution.ErrNoContributions)
	assert.Contains(t, err.Error(), "period1")
}
