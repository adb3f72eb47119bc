package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// testSchema holds just the tables these tests touch. Production DDL lives
// with the migrations, outside this module.
var testSchema = []string{
	`CREATE TABLE IF NOT EXISTS currencies (
		id UUID PRIMARY KEY,
		code CHAR(3) NOT NULL CONSTRAINT uk_currencies_code UNIQUE,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		decimal_places INT NOT NULL DEFAULT 2,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		id UUID PRIMARY KEY,
		code CHAR(2) NOT NULL UNIQUE,
		name TEXT NOT NULL,
		currency_code CHAR(3) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS exchange_rates (
		id UUID PRIMARY KEY,
		from_currency CHAR(3) NOT NULL,
		to_currency CHAR(3) NOT NULL,
		rate NUMERIC(20, 10) NOT NULL,
		effective_date DATE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payslip_snapshots (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		country_id TEXT NOT NULL,
		payroll_period_id TEXT NOT NULL,
		calculation_id TEXT NOT NULL CONSTRAINT uk_payslip_snapshots_calculation_id UNIQUE,
		calculated_at TIMESTAMPTZ NOT NULL,
		currency_code CHAR(3) NOT NULL,
		basic_salary NUMERIC(20, 4) NOT NULL,
		total_earnings NUMERIC(20, 4) NOT NULL,
		overtime_pay NUMERIC(20, 4),
		night_shift_pay NUMERIC(20, 4),
		gross_pay NUMERIC(20, 4) NOT NULL,
		total_statutory_deductions NUMERIC(20, 4) NOT NULL,
		total_other_deductions NUMERIC(20, 4) NOT NULL,
		total_deductions NUMERIC(20, 4) NOT NULL,
		net_pay NUMERIC(20, 4) NOT NULL,
		components JSONB NOT NULL,
		statutory_deductions JSONB NOT NULL,
		other_deductions JSONB NOT NULL,
		status TEXT NOT NULL,
		document_url TEXT,
		generated_at TIMESTAMPTZ,
		first_downloaded_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// newTestDB connects to TEST_DATABASE_URL and resets the test tables. Tests
// are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres repository tests")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for _, stmt := range testSchema {
		_, err := db.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	require.NoError(t, truncate(ctx, db, "payslip_snapshots", "exchange_rates", "countries", "currencies"))
	return db
}

func truncate(ctx context.Context, db *database.DB, tables ...string) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}
