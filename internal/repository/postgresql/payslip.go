package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type snapshotRepository struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) payslip.SnapshotRepository {
	return &snapshotRepository{db: db}
}

const snapshotColumns = `
	id, user_id, country_id, payroll_period_id, calculation_id, calculated_at, currency_code,
	basic_salary, total_earnings, overtime_pay, night_shift_pay, gross_pay,
	total_statutory_deductions, total_other_deductions, total_deductions, net_pay,
	components, statutory_deductions, other_deductions,
	status, document_url, generated_at, first_downloaded_at, created_at, updated_at`

func scanSnapshot(row pgx.Row) (payslip.Snapshot, error) {
	var s payslip.Snapshot
	var components, statutory, other []byte

	err := row.Scan(
		&s.ID, &s.UserID, &s.CountryID, &s.PayrollPeriodID, &s.CalculationID, &s.CalculatedAt, &s.CurrencyCode,
		&s.BasicSalary, &s.TotalEarnings, &s.OvertimePay, &s.NightShiftPay, &s.GrossPay,
		&s.TotalStatutoryDeductions, &s.TotalOtherDeductions, &s.TotalDeductions, &s.NetPay,
		&components, &statutory, &other,
		&s.Status, &s.DocumentURL, &s.GeneratedAt, &s.FirstDownloadedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payslip.Snapshot{}, err
	}

	for _, col := range []struct {
		raw  []byte
		dest *[]payslip.LineItem
	}{
		{components, &s.Components},
		{statutory, &s.StatutoryDeductions},
		{other, &s.OtherDeductions},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return payslip.Snapshot{}, fmt.Errorf("failed to decode payslip line items: %w", err)
		}
	}

	return s, nil
}

func marshalLines(items []payslip.LineItem) ([]byte, error) {
	if items == nil {
		items = []payslip.LineItem{}
	}
	return json.Marshal(items)
}

// CreateIfAbsent relies on uk_payslip_snapshots_calculation_id: of two
// concurrent inserts for one calculation, exactly one returns a row.
func (r *snapshotRepository) CreateIfAbsent(ctx context.Context, s payslip.Snapshot) (payslip.Snapshot, bool, error) {
	q := GetQuerier(ctx, r.db)

	components, err := marshalLines(s.Components)
	if err != nil {
		return payslip.Snapshot{}, false, err
	}
	statutory, err := marshalLines(s.StatutoryDeductions)
	if err != nil {
		return payslip.Snapshot{}, false, err
	}
	other, err := marshalLines(s.OtherDeductions)
	if err != nil {
		return payslip.Snapshot{}, false, err
	}

	query := `
		INSERT INTO payslip_snapshots (
			id, user_id, country_id, payroll_period_id, calculation_id, calculated_at, currency_code,
			basic_salary, total_earnings, overtime_pay, night_shift_pay, gross_pay,
			total_statutory_deductions, total_other_deductions, total_deductions, net_pay,
			components, statutory_deductions, other_deductions, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT ON CONSTRAINT uk_payslip_snapshots_calculation_id DO NOTHING
		RETURNING ` + snapshotColumns

	created, err := scanSnapshot(q.QueryRow(ctx, query,
		s.ID, s.UserID, s.CountryID, s.PayrollPeriodID, s.CalculationID, s.CalculatedAt, s.CurrencyCode,
		s.BasicSalary, s.TotalEarnings, s.OvertimePay, s.NightShiftPay, s.GrossPay,
		s.TotalStatutoryDeductions, s.TotalOtherDeductions, s.TotalDeductions, s.NetPay,
		components, statutory, other, s.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Snapshot{}, false, nil
		}
		return payslip.Snapshot{}, false, fmt.Errorf("failed to create payslip snapshot: %w", err)
	}

	return created, true, nil
}

func (r *snapshotRepository) GetByID(ctx context.Context, id string) (payslip.Snapshot, error) {
	return r.getBy(ctx, "id", id)
}

func (r *snapshotRepository) GetByCalculationID(ctx context.Context, calculationID string) (payslip.Snapshot, error) {
	return r.getBy(ctx, "calculation_id", calculationID)
}

func (r *snapshotRepository) getBy(ctx context.Context, column, value string) (payslip.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + snapshotColumns + ` FROM payslip_snapshots WHERE ` + column + ` = $1`

	s, err := scanSnapshot(q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Snapshot{}, payslip.ErrSnapshotNotFound
		}
		return payslip.Snapshot{}, fmt.Errorf("failed to get payslip snapshot: %w", err)
	}

	return s, nil
}

func (r *snapshotRepository) MarkAvailable(ctx context.Context, id, documentURL string, at time.Time) (payslip.Snapshot, bool, error) {
	query := `
		UPDATE payslip_snapshots
		SET status = 'available', document_url = $2, generated_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'processing'
		RETURNING ` + snapshotColumns

	return r.transition(ctx, query, id, documentURL, at)
}

// MarkDownloaded keeps the first download time; COALESCE guards it even if
// the row was reset by hand.
func (r *snapshotRepository) MarkDownloaded(ctx context.Context, id string, at time.Time) (payslip.Snapshot, bool, error) {
	query := `
		UPDATE payslip_snapshots
		SET status = 'downloaded', first_downloaded_at = COALESCE(first_downloaded_at, $2), updated_at = NOW()
		WHERE id = $1 AND status = 'available'
		RETURNING ` + snapshotColumns

	return r.transition(ctx, query, id, at)
}

func (r *snapshotRepository) transition(ctx context.Context, query, id string, args ...interface{}) (payslip.Snapshot, bool, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSnapshot(q.QueryRow(ctx, query, append([]interface{}{id}, args...)...))
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payslip.Snapshot{}, false, fmt.Errorf("failed to update payslip status: %w", err)
	}

	// Nothing matched: either the id is unknown or the status is elsewhere.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payslip_snapshots WHERE id = $1)`, id).Scan(&exists); err != nil {
		return payslip.Snapshot{}, false, fmt.Errorf("failed to check payslip snapshot: %w", err)
	}
	if !exists {
		return payslip.Snapshot{}, false, payslip.ErrSnapshotNotFound
	}
	return payslip.Snapshot{}, false, nil
}

func (r *snapshotRepository) List(ctx context.Context, query payslip.Query) ([]payslip.Snapshot, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if query.UserID != "" {
		where = append(where, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, query.UserID)
		argIdx++
	}
	if query.PeriodID != "" {
		where = append(where, fmt.Sprintf("payroll_period_id = $%d", argIdx))
		args = append(args, query.PeriodID)
		argIdx++
	}
	if query.CountryID != "" {
		where = append(where, fmt.Sprintf("country_id = $%d", argIdx))
		args = append(args, query.CountryID)
		argIdx++
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, st := range query.Statuses {
			statuses[i] = string(st)
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}
	if query.From != nil {
		where = append(where, fmt.Sprintf("calculated_at >= $%d", argIdx))
		args = append(args, *query.From)
		argIdx++
	}
	if query.To != nil {
		where = append(where, fmt.Sprintf("calculated_at <= $%d", argIdx))
		args = append(args, *query.To)
		argIdx++
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payslip_snapshots WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslip snapshots: %w", err)
	}

	sql := `SELECT ` + snapshotColumns + ` FROM payslip_snapshots WHERE ` + whereClause +
		` ORDER BY calculated_at DESC, id DESC`
	if query.Limit > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, query.Limit, (page-1)*query.Limit)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslip snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []payslip.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}

	return snaps, total, rows.Err()
}
