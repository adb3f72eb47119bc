package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type currencyRepository struct {
	db *database.DB
}

func NewCurrencyRepository(db *database.DB) currency.CurrencyRepository {
	return &currencyRepository{db: db}
}

const currencyColumns = `id, code, name, symbol, decimal_places, is_active, created_at, updated_at`

func scanCurrency(row pgx.Row) (currency.Currency, error) {
	var c currency.Currency
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol, &c.DecimalPlaces, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ========== CURRENCIES ==========

func (r *currencyRepository) CreateCurrency(ctx context.Context, c currency.Currency) (currency.Currency, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO currencies (id, code, name, symbol, decimal_places, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + currencyColumns

	created, err := scanCurrency(q.QueryRow(ctx, query, c.ID, c.Code, c.Name, c.Symbol, c.DecimalPlaces, c.IsActive))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_currencies_code") {
			return currency.Currency{}, fmt.Errorf("%w: %s", currency.ErrCurrencyCodeExists, c.Code)
		}
		return currency.Currency{}, fmt.Errorf("failed to create currency: %w", err)
	}

	return created, nil
}

func (r *currencyRepository) GetCurrencyByCode(ctx context.Context, code string) (currency.Currency, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = $1`

	c, err := scanCurrency(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return currency.Currency{}, currency.ErrCurrencyNotFound
		}
		return currency.Currency{}, fmt.Errorf("failed to get currency: %w", err)
	}

	return c, nil
}

func (r *currencyRepository) ListCurrencies(ctx context.Context, activeOnly bool) ([]currency.Currency, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + currencyColumns + ` FROM currencies`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY code`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []currency.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}

	return currencies, rows.Err()
}

func (r *currencyRepository) UpdateCurrency(ctx context.Context, req currency.UpdateCurrencyRequest) (currency.Currency, error) {
	q := GetQuerier(ctx, r.db)

	var sets []string
	args := []interface{}{}
	argIdx := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Symbol != nil {
		sets = append(sets, fmt.Sprintf("symbol = $%d", argIdx))
		args = append(args, *req.Symbol)
		argIdx++
	}
	if req.DecimalPlaces != nil {
		sets = append(sets, fmt.Sprintf("decimal_places = $%d", argIdx))
		args = append(args, *req.DecimalPlaces)
		argIdx++
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE currencies SET %s WHERE code = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, currencyColumns)
	args = append(args, req.Code)

	c, err := scanCurrency(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return currency.Currency{}, currency.ErrCurrencyNotFound
		}
		return currency.Currency{}, fmt.Errorf("failed to update currency: %w", err)
	}

	return c, nil
}

func (r *currencyRepository) SetCurrencyActive(ctx context.Context, code string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE currencies SET is_active = $1, updated_at = NOW() WHERE code = $2`, active, code)
	if err != nil {
		return fmt.Errorf("failed to update currency status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return currency.ErrCurrencyNotFound
	}
	return nil
}

// IsCurrencyReferenced reports whether rates, countries or stored payslips use code.
func (r *currencyRepository) IsCurrencyReferenced(ctx context.Context, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (SELECT 1 FROM exchange_rates WHERE from_currency = $1 OR to_currency = $1)
			OR EXISTS (SELECT 1 FROM countries WHERE currency_code = $1)
			OR EXISTS (SELECT 1 FROM payslip_snapshots WHERE currency_code = $1)
	`

	var referenced bool
	if err := q.QueryRow(ctx, query, code).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check currency references: %w", err)
	}
	return referenced, nil
}

// ========== RATES ==========

const rateColumns = `id, from_currency, to_currency, rate, effective_date, is_active, created_at, updated_at`

func scanRate(row pgx.Row) (currency.ExchangeRate, error) {
	var er currency.ExchangeRate
	err := row.Scan(&er.ID, &er.FromCurrency, &er.ToCurrency, &er.Rate, &er.EffectiveDate, &er.IsActive, &er.CreatedAt, &er.UpdatedAt)
	return er, err
}

func collectRates(rows pgx.Rows) ([]currency.ExchangeRate, error) {
	defer rows.Close()

	var rates []currency.ExchangeRate
	for rows.Next() {
		er, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, er)
	}
	return rates, rows.Err()
}

func (r *currencyRepository) CreateRate(ctx context.Context, rate currency.ExchangeRate) (currency.ExchangeRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO exchange_rates (id, from_currency, to_currency, rate, effective_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + rateColumns

	created, err := scanRate(q.QueryRow(ctx, query,
		rate.ID, rate.FromCurrency, rate.ToCurrency, rate.Rate, rate.EffectiveDate, rate.IsActive, rate.CreatedAt, rate.UpdatedAt,
	))
	if err != nil {
		return currency.ExchangeRate{}, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	return created, nil
}

func (r *currencyRepository) ListRates(ctx context.Context, filter currency.RateFilter) ([]currency.ExchangeRate, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.FromCurrency != "" {
		where = append(where, fmt.Sprintf("from_currency = $%d", argIdx))
		args = append(args, filter.FromCurrency)
		argIdx++
	}
	if filter.ToCurrency != "" {
		where = append(where, fmt.Sprintf("to_currency = $%d", argIdx))
		args = append(args, filter.ToCurrency)
		argIdx++
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = true")
	}

	query := `SELECT ` + rateColumns + ` FROM exchange_rates WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY from_currency, to_currency, effective_date DESC, created_at DESC, id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return collectRates(rows)
}

func (r *currencyRepository) ListApplicableRates(ctx context.Context, from, to string, asOf time.Time) ([]currency.ExchangeRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
			AND is_active = true AND effective_date <= $3
		ORDER BY effective_date DESC, created_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, from, to, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicable exchange rates: %w", err)
	}
	return collectRates(rows)
}

func (r *currencyRepository) SetRateActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE exchange_rates SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update exchange rate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return currency.ErrRateNotFound
	}
	return nil
}
