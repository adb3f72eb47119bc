package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/country"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type countryRepository struct {
	db *database.DB
}

func NewCountryRepository(db *database.DB) country.Repository {
	return &countryRepository{db: db}
}

func (r *countryRepository) GetByID(ctx context.Context, id string) (country.Country, error) {
	return r.getBy(ctx, "id", id)
}

func (r *countryRepository) GetByCode(ctx context.Context, code string) (country.Country, error) {
	return r.getBy(ctx, "code", code)
}

func (r *countryRepository) getBy(ctx context.Context, column, value string) (country.Country, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, code, name, currency_code, is_active FROM countries WHERE ` + column + ` = $1`

	var c country.Country
	err := q.QueryRow(ctx, query, value).Scan(&c.ID, &c.Code, &c.Name, &c.CurrencyCode, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return country.Country{}, fmt.Errorf("%w: %s", country.ErrCountryNotFound, value)
		}
		return country.Country{}, fmt.Errorf("failed to get country: %w", err)
	}

	return c, nil
}
