package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryComponentRepository struct {
	db *database.DB
}

func NewSalaryComponentRepository(db *database.DB) salarycomponent.SalaryComponentRepository {
	return &salaryComponentRepository{db: db}
}

const salaryComponentColumns = `
	id, country_id, name, code, category, calculation_type, value, employer_value, formula,
	is_taxable, is_statutory, is_mandatory, display_order, is_active, created_at, updated_at`

func scanSalaryComponent(row pgx.Row) (salarycomponent.SalaryComponent, error) {
	var c salarycomponent.SalaryComponent
	err := row.Scan(
		&c.ID, &c.CountryID, &c.Name, &c.Code, &c.Category, &c.CalculationType, &c.Value, &c.EmployerValue, &c.Formula,
		&c.IsTaxable, &c.IsStatutory, &c.IsMandatory, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *salaryComponentRepository) Create(ctx context.Context, c salarycomponent.SalaryComponent) (salarycomponent.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (
			id, country_id, name, code, category, calculation_type, value, employer_value, formula,
			is_taxable, is_statutory, is_mandatory, display_order, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + salaryComponentColumns

	created, err := scanSalaryComponent(q.QueryRow(ctx, query,
		c.ID, c.CountryID, c.Name, c.Code, c.Category, c.CalculationType, c.Value, c.EmployerValue, c.Formula,
		c.IsTaxable, c.IsStatutory, c.IsMandatory, c.DisplayOrder, c.IsActive,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_salary_components_country_code") {
			return salarycomponent.SalaryComponent{}, fmt.Errorf("%w: %s", salarycomponent.ErrComponentCodeExists, c.Code)
		}
		return salarycomponent.SalaryComponent{}, fmt.Errorf("failed to create salary component: %w", err)
	}

	return created, nil
}

func (r *salaryComponentRepository) GetByID(ctx context.Context, countryID, id string) (salarycomponent.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryComponentColumns + ` FROM salary_components WHERE id = $1 AND country_id = $2`

	c, err := scanSalaryComponent(q.QueryRow(ctx, query, id, countryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salarycomponent.SalaryComponent{}, salarycomponent.ErrComponentNotFound
		}
		return salarycomponent.SalaryComponent{}, fmt.Errorf("failed to get salary component: %w", err)
	}

	return c, nil
}

func (r *salaryComponentRepository) ListByCountry(ctx context.Context, countryID string, activeOnly bool) ([]salarycomponent.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryComponentColumns + ` FROM salary_components WHERE country_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY display_order, code`

	rows, err := q.Query(ctx, query, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []salarycomponent.SalaryComponent
	for rows.Next() {
		c, err := scanSalaryComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}

	return components, rows.Err()
}

// Update rewrites every mutable column; the service has already merged the patch.
func (r *salaryComponentRepository) Update(ctx context.Context, c salarycomponent.SalaryComponent) (salarycomponent.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_components SET
			name = $3, category = $4, calculation_type = $5, value = $6, employer_value = $7, formula = $8,
			is_taxable = $9, is_statutory = $10, is_mandatory = $11, display_order = $12, is_active = $13,
			updated_at = NOW()
		WHERE id = $1 AND country_id = $2
		RETURNING ` + salaryComponentColumns

	updated, err := scanSalaryComponent(q.QueryRow(ctx, query,
		c.ID, c.CountryID, c.Name, c.Category, c.CalculationType, c.Value, c.EmployerValue, c.Formula,
		c.IsTaxable, c.IsStatutory, c.IsMandatory, c.DisplayOrder, c.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salarycomponent.SalaryComponent{}, salarycomponent.ErrComponentNotFound
		}
		return salarycomponent.SalaryComponent{}, fmt.Errorf("failed to update salary component: %w", err)
	}

	return updated, nil
}

func (r *salaryComponentRepository) Delete(ctx context.Context, countryID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_components WHERE id = $1 AND country_id = $2`, id, countryID)
	if err != nil {
		return fmt.Errorf("failed to delete salary component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salarycomponent.ErrComponentNotFound
	}
	return nil
}
