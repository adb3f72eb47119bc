package regionconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Entry - arbitrary JSON payload keyed by (country, key)
type Entry struct {
	CountryID string
	ConfigKey string
	Value     json.RawMessage
	UpdatedAt time.Time
}

// Decimal reads Value as a JSON number or numeric string.
func (e Entry) Decimal() (decimal.Decimal, error) {
	var d decimal.Decimal
	if err := json.Unmarshal(e.Value, &d); err != nil {
		return decimal.Zero, fmt.Errorf("region config %s is not numeric: %w", e.ConfigKey, err)
	}
	return d, nil
}

// String reads Value as a JSON string.
func (e Entry) String() (string, error) {
	var s string
	if err := json.Unmarshal(e.Value, &s); err != nil {
		return "", fmt.Errorf("region config %s is not a string: %w", e.ConfigKey, err)
	}
	return s, nil
}

type Reader interface {
	Get(ctx context.Context, countryID, key string) (Entry, error)
}

type Repository interface {
	Reader
	Upsert(ctx context.Context, entry Entry) (Entry, error)
	ListByCountry(ctx context.Context, countryID string) ([]Entry, error)
}
