package countryrule

import "github.com/shopspring/decimal"

// CountryPayRules - time-based pay multipliers and advisory hour ceilings
type CountryPayRules struct {
	CountryCode              string          `json:"country_code"`
	OvertimeMultiplier       decimal.Decimal `json:"overtime_multiplier"`
	DoubleOvertimeMultiplier decimal.Decimal `json:"double_overtime_multiplier"`
	NightShiftPremium        decimal.Decimal `json:"night_shift_premium"`

	// Used for validation warnings only, never for clamping pay.
	MaxRegularHours decimal.Decimal `json:"max_regular_hours"`
	MaxDailyHours   decimal.Decimal `json:"max_daily_hours"`

	// Informational; the hourly divisor does not use it.
	WorkingDaysPerMonth int `json:"working_days_per_month"`
}

// Provider resolves pay rules for a country code.
type Provider interface {
	RulesFor(countryCode string) (rules CountryPayRules, defaultUsed bool)
}
