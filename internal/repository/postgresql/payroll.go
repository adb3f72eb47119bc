package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type periodRepository struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, country_id, name, start_date, end_date
		FROM payroll_periods
		WHERE id = $1
	`

	var p payroll.Period
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.CountryID, &p.Name, &p.StartDate, &p.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

type compensationRepository struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) payroll.CompensationRepository {
	return &compensationRepository{db: db}
}

func (r *compensationRepository) GetByUser(ctx context.Context, userID, countryID string) (payroll.Compensation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, country_id, basic_salary
		FROM employee_compensations
		WHERE user_id = $1 AND country_id = $2
	`

	var c payroll.Compensation
	err := q.QueryRow(ctx, query, userID, countryID).Scan(&c.UserID, &c.CountryID, &c.BasicSalary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Compensation{}, fmt.Errorf("%w: user %s", payroll.ErrCompensationNotFound, userID)
		}
		return payroll.Compensation{}, fmt.Errorf("failed to get employee compensation: %w", err)
	}

	return c, nil
}
