package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/regionconfig"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type regionConfigRepository struct {
	db *database.DB
}

func NewRegionConfigRepository(db *database.DB) regionconfig.Repository {
	return &regionConfigRepository{db: db}
}

func (r *regionConfigRepository) Get(ctx context.Context, countryID, key string) (regionconfig.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT country_id, config_key, value, updated_at
		FROM region_configs
		WHERE country_id = $1 AND config_key = $2
	`

	var e regionconfig.Entry
	err := q.QueryRow(ctx, query, countryID, key).Scan(&e.CountryID, &e.ConfigKey, &e.Value, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regionconfig.Entry{}, regionconfig.ErrConfigNotFound
		}
		return regionconfig.Entry{}, fmt.Errorf("failed to get region config: %w", err)
	}

	return e, nil
}

func (r *regionConfigRepository) Upsert(ctx context.Context, entry regionconfig.Entry) (regionconfig.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO region_configs (country_id, config_key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (country_id, config_key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
		RETURNING country_id, config_key, value, updated_at
	`

	var e regionconfig.Entry
	err := q.QueryRow(ctx, query, entry.CountryID, entry.ConfigKey, []byte(entry.Value)).
		Scan(&e.CountryID, &e.ConfigKey, &e.Value, &e.UpdatedAt)
	if err != nil {
		return regionconfig.Entry{}, fmt.Errorf("failed to upsert region config: %w", err)
	}

	return e, nil
}

func (r *regionConfigRepository) ListByCountry(ctx context.Context, countryID string) ([]regionconfig.Entry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT country_id, config_key, value, updated_at
		FROM region_configs
		WHERE country_id = $1
		ORDER BY config_key
	`, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list region config: %w", err)
	}
	defer rows.Close()

	var entries []regionconfig.Entry
	for rows.Next() {
		var e regionconfig.Entry
		if err := rows.Scan(&e.CountryID, &e.ConfigKey, &e.Value, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan region config: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
