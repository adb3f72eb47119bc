package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(calculationID string, calculatedAt time.Time) payslip.Snapshot {
	employer := decimal.RequireFromString("2375.00")
	return payslip.Snapshot{
		ID:                       uuid.Must(uuid.NewV7()).String(),
		UserID:                   "user-1",
		CountryID:                "ctry-ph",
		PayrollPeriodID:          "period-1",
		CalculationID:            calculationID,
		CalculatedAt:             calculatedAt,
		CurrencyCode:             "PHP",
		BasicSalary:              decimal.RequireFromString("30000"),
		TotalEarnings:            decimal.RequireFromString("30000.00"),
		GrossPay:                 decimal.RequireFromString("30000.00"),
		TotalStatutoryDeductions: decimal.RequireFromString("1125.00"),
		TotalOtherDeductions:     decimal.Zero,
		TotalDeductions:          decimal.RequireFromString("1125.00"),
		NetPay:                   decimal.RequireFromString("28875.00"),
		StatutoryDeductions: []payslip.LineItem{
			{ComponentID: "c-sss", Code: "SSS", Name: "Social Security", Category: "deductions",
				CalculationType: "percentage_of_basic", Amount: decimal.RequireFromString("1125.00"), EmployerAmount: &employer},
		},
		Status: payslip.StatusProcessing,
	}
}

func TestSnapshotRepository_CreateIfAbsentUnderConcurrency(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewSnapshotRepository(db)
	ctx := context.Background()
	at := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.CreateIfAbsent(ctx, newSnapshot("calc-1", at))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)

	stored, err := repo.GetByCalculationID(ctx, "calc-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("28875").Equal(stored.NetPay))
	require.Len(t, stored.StatutoryDeductions, 1)
	assert.True(t, decimal.RequireFromString("2375").Equal(*stored.StatutoryDeductions[0].EmployerAmount))
	assert.Empty(t, stored.Components)
	assert.Nil(t, stored.OvertimePay)
}

func TestSnapshotRepository_StatusTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewSnapshotRepository(db)
	ctx := context.Background()

	snap, ok, err := repo.CreateIfAbsent(ctx, newSnapshot("calc-2", time.Now().UTC()))
	require.NoError(t, err)
	require.True(t, ok)

	_, updated, err := repo.MarkDownloaded(ctx, snap.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, updated)

	available, updated, err := repo.MarkAvailable(ctx, snap.ID, "https://files.example.com/calc-2.pdf", time.Now())
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, payslip.StatusAvailable, available.Status)

	first, updated, err := repo.MarkDownloaded(ctx, snap.ID, time.Now())
	require.NoError(t, err)
	require.True(t, updated)
	require.NotNil(t, first.FirstDownloadedAt)

	_, updated, err = repo.MarkDownloaded(ctx, snap.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, updated)

	current, err := repo.GetByID(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, first.FirstDownloadedAt.Equal(*current.FirstDownloadedAt))

	_, _, err = repo.MarkAvailable(ctx, uuid.NewString(), "https://x", time.Now())
	assert.ErrorIs(t, err, payslip.ErrSnapshotNotFound)
}

func TestSnapshotRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewSnapshotRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	for i, calc := range []string{"jan", "feb", "mar"} {
		_, _, err := repo.CreateIfAbsent(ctx, newSnapshot(calc, base.AddDate(0, i, 0)))
		require.NoError(t, err)
	}

	snaps, total, err := repo.List(ctx, payslip.Query{UserID: "user-1", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, snaps, 2)
	assert.Equal(t, "mar", snaps[0].CalculationID)
	assert.Equal(t, "feb", snaps[1].CalculationID)

	from := base.AddDate(0, 1, 0)
	snaps, _, err = repo.List(ctx, payslip.Query{UserID: "user-1", From: &from, Statuses: []payslip.Status{payslip.StatusProcessing}})
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}
