package timesheet

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/countryrule"
	"github.com/shopspring/decimal"
)

// Hours - classified hours for one work day, or summed over a period
type Hours struct {
	Regular        decimal.Decimal `json:"regular_hours"`
	Overtime       decimal.Decimal `json:"overtime_hours"`
	DoubleOvertime decimal.Decimal `json:"double_overtime_hours"`
	NightShift     decimal.Decimal `json:"night_shift_hours"`
}

func (h Hours) Total() decimal.Decimal {
	return h.Regular.Add(h.Overtime).Add(h.DoubleOvertime).Add(h.NightShift)
}

func (h Hours) IsZero() bool {
	return h.Regular.IsZero() && h.Overtime.IsZero() && h.DoubleOvertime.IsZero() && h.NightShift.IsZero()
}

// Entry - approved timesheet row supplied by the timesheet workflow
type Entry struct {
	ID       string
	UserID   string
	WorkDate time.Time
	Hours
}

// TierPay - one rate tier of a breakdown
type TierPay struct {
	Hours  decimal.Decimal `json:"hours"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// PayBreakdown - full result of a timesheet pay calculation, with the rules
// used so the figures can be reconstructed later.
type PayBreakdown struct {
	CountryCode      string                      `json:"country_code"`
	BasicSalary      decimal.Decimal             `json:"basic_salary"`
	HoursPerMonth    decimal.Decimal             `json:"hours_per_month"`
	HourlyRate       decimal.Decimal             `json:"hourly_rate"`
	Regular          TierPay                     `json:"regular"`
	Overtime         TierPay                     `json:"overtime"`
	DoubleOvertime   TierPay                     `json:"double_overtime"`
	NightShift       TierPay                     `json:"night_shift"`
	TotalPay         decimal.Decimal             `json:"total_pay"`
	Rules            countryrule.CountryPayRules `json:"rules"`
	DefaultRulesUsed bool                        `json:"default_rules_used"`
}

// PremiumPay returns the unrounded overtime (both tiers) and night-shift
// amounts. Tier amounts are rounded to two places for display, so callers
// rounding to another precision start from these.
func (b PayBreakdown) PremiumPay() (overtime, night decimal.Decimal) {
	if b.HoursPerMonth.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	hourly := b.BasicSalary.Div(b.HoursPerMonth)
	overtime = b.Overtime.Hours.Mul(hourly.Mul(b.Rules.OvertimeMultiplier)).
		Add(b.DoubleOvertime.Hours.Mul(hourly.Mul(b.Rules.DoubleOvertimeMultiplier)))
	night = b.NightShift.Hours.Mul(hourly.Mul(b.Rules.NightShiftPremium))
	return overtime, night
}

// HoursValidation - advisory result; callers decide whether to warn or block
type HoursValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
