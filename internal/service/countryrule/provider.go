package countryrule

import (
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/countryrule"
	"github.com/shopspring/decimal"
)

// DefaultCountryCode labels the fallback rules.
const DefaultCountryCode = "DEFAULT"

type ProviderImpl struct {
	table    map[string]countryrule.CountryPayRules
	fallback countryrule.CountryPayRules
}

// NewProvider builds a provider over table. The table is copied, so later
// changes by the caller do not leak in.
func NewProvider(table map[string]countryrule.CountryPayRules) countryrule.Provider {
	copied := make(map[string]countryrule.CountryPayRules, len(table))
	for code, rules := range table {
		code = strings.ToUpper(strings.TrimSpace(code))
		rules.CountryCode = code
		copied[code] = rules
	}
	return &ProviderImpl{table: copied, fallback: FallbackRules()}
}

func (p *ProviderImpl) RulesFor(countryCode string) (countryrule.CountryPayRules, bool) {
	if rules, ok := p.table[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return rules, false
	}
	return p.fallback, true
}

// FallbackRules apply to countries without a registered entry.
func FallbackRules() countryrule.CountryPayRules {
	return countryrule.CountryPayRules{
		CountryCode:              DefaultCountryCode,
		OvertimeMultiplier:       decimal.RequireFromString("1.5"),
		DoubleOvertimeMultiplier: decimal.RequireFromString("2.0"),
		NightShiftPremium:        decimal.RequireFromString("1.1"),
		MaxRegularHours:          decimal.NewFromInt(8),
		MaxDailyHours:            decimal.NewFromInt(24),
		WorkingDaysPerMonth:      22,
	}
}

// DefaultTable returns the built-in country entries.
func DefaultTable() map[string]countryrule.CountryPayRules {
	return map[string]countryrule.CountryPayRules{
		// Labor Code: 25% overtime premium, 200% on rest days and holidays, 10% night differential.
		"PH": {
			OvertimeMultiplier:       decimal.RequireFromString("1.25"),
			DoubleOvertimeMultiplier: decimal.RequireFromString("2.0"),
			NightShiftPremium:        decimal.RequireFromString("1.1"),
			MaxRegularHours:          decimal.NewFromInt(8),
			MaxDailyHours:            decimal.NewFromInt(12),
			WorkingDaysPerMonth:      26,
		},
		// Factories Act: overtime at twice the ordinary rate, 9 hour day, 10.5 hour spread.
		"IN": {
			OvertimeMultiplier:       decimal.RequireFromString("2.0"),
			DoubleOvertimeMultiplier: decimal.RequireFromString("2.0"),
			NightShiftPremium:        decimal.RequireFromString("1.1"),
			MaxRegularHours:          decimal.NewFromInt(9),
			MaxDailyHours:            decimal.RequireFromString("10.5"),
			WorkingDaysPerMonth:      26,
		},
		"AU": {
			OvertimeMultiplier:       decimal.RequireFromString("1.5"),
			DoubleOvertimeMultiplier: decimal.RequireFromString("2.0"),
			NightShiftPremium:        decimal.RequireFromString("1.15"),
			MaxRegularHours:          decimal.RequireFromString("7.6"),
			MaxDailyHours:            decimal.NewFromInt(12),
			WorkingDaysPerMonth:      22,
		},
		"US": {
			OvertimeMultiplier:       decimal.RequireFromString("1.5"),
			DoubleOvertimeMultiplier: decimal.RequireFromString("2.0"),
			NightShiftPremium:        decimal.RequireFromString("1.1"),
			MaxRegularHours:          decimal.NewFromInt(8),
			MaxDailyHours:            decimal.NewFromInt(16),
			WorkingDaysPerMonth:      22,
		},
	}
}
