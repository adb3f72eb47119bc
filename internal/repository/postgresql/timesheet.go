package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.Repository {
	return &timesheetRepository{db: db}
}

// ListApproved reads entries the approval workflow has signed off, with
// work_date inside [start, end].
func (r *timesheetRepository) ListApproved(ctx context.Context, userID string, start, end time.Time) ([]timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, work_date,
			   regular_hours, overtime_hours, double_overtime_hours, night_shift_hours
		FROM timesheet_entries
		WHERE user_id = $1
			AND status = 'approved'
			AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved timesheets: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		var e timesheet.Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.WorkDate,
			&e.Regular, &e.Overtime, &e.DoubleOvertime, &e.NightShift,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
