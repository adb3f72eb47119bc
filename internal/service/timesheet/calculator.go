package timesheet

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/countryrule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultHoursPerMonth converts a monthly basic salary into an hourly rate.
// It does not follow the calendar or a country's working-day count.
const DefaultHoursPerMonth = 160

var maxHoursPerDay = decimal.NewFromInt(24)

type CalculatorImpl struct {
	rules         countryrule.Provider
	hoursPerMonth decimal.Decimal
}

type Option func(*CalculatorImpl)

// WithHoursPerMonth overrides DefaultHoursPerMonth. Non-positive values are ignored.
func WithHoursPerMonth(hours int) Option {
	return func(c *CalculatorImpl) {
		if hours > 0 {
			c.hoursPerMonth = decimal.NewFromInt(int64(hours))
		}
	}
}

func NewCalculator(rules countryrule.Provider, opts ...Option) timesheet.PayCalculator {
	c := &CalculatorImpl{
		rules:         rules,
		hoursPerMonth: decimal.NewFromInt(DefaultHoursPerMonth),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CalculatorImpl) Calculate(countryCode string, basicSalary decimal.Decimal, hours timesheet.Hours) (timesheet.PayBreakdown, error) {
	if basicSalary.IsNegative() {
		return timesheet.PayBreakdown{}, timesheet.ErrNegativeBasicSalary
	}
	if hours.Regular.IsNegative() || hours.Overtime.IsNegative() || hours.DoubleOvertime.IsNegative() || hours.NightShift.IsNegative() {
		return timesheet.PayBreakdown{}, timesheet.ErrNegativeHours
	}

	rules, defaultUsed := c.rules.RulesFor(countryCode)
	hourly := basicSalary.Div(c.hoursPerMonth)

	regularRate := hourly
	overtimeRate := hourly.Mul(rules.OvertimeMultiplier)
	doubleRate := hourly.Mul(rules.DoubleOvertimeMultiplier)
	nightRate := hourly.Mul(rules.NightShiftPremium)

	regularAmt := hours.Regular.Mul(regularRate)
	overtimeAmt := hours.Overtime.Mul(overtimeRate)
	doubleAmt := hours.DoubleOvertime.Mul(doubleRate)
	nightAmt := hours.NightShift.Mul(nightRate)

	total := regularAmt.Add(overtimeAmt).Add(doubleAmt).Add(nightAmt)

	return timesheet.PayBreakdown{
		CountryCode:      countryCode,
		BasicSalary:      basicSalary,
		HoursPerMonth:    c.hoursPerMonth,
		HourlyRate:       money.Round2(hourly),
		Regular:          tier(hours.Regular, regularRate, regularAmt),
		Overtime:         tier(hours.Overtime, overtimeRate, overtimeAmt),
		DoubleOvertime:   tier(hours.DoubleOvertime, doubleRate, doubleAmt),
		NightShift:       tier(hours.NightShift, nightRate, nightAmt),
		TotalPay:         money.Round2(total),
		Rules:            rules,
		DefaultRulesUsed: defaultUsed,
	}, nil
}

// tier rounds only at output; amount was computed from the unrounded rate.
func tier(hours, rate, amount decimal.Decimal) timesheet.TierPay {
	return timesheet.TierPay{
		Hours:  hours,
		Rate:   money.Round2(rate),
		Amount: money.Round2(amount),
	}
}

func (c *CalculatorImpl) ValidateHours(countryCode string, regular, overtime, doubleOvertime decimal.Decimal) timesheet.HoursValidation {
	problems := make([]string, 0)

	// Universal bounds
	named := []struct {
		name  string
		value decimal.Decimal
	}{
		{"regular hours", regular},
		{"overtime hours", overtime},
		{"double overtime hours", doubleOvertime},
	}
	for _, h := range named {
		if h.value.IsNegative() || h.value.GreaterThan(maxHoursPerDay) {
			problems = append(problems, fmt.Sprintf("%s must be between 0 and 24, got %s", h.name, h.value))
		}
	}

	total := regular.Add(overtime).Add(doubleOvertime)
	if total.GreaterThan(maxHoursPerDay) {
		problems = append(problems, fmt.Sprintf("total hours must not exceed 24, got %s", total))
	}

	// Country ceilings; unknown countries only get the universal check.
	rules, defaultUsed := c.rules.RulesFor(countryCode)
	if defaultUsed {
		return timesheet.HoursValidation{Valid: len(problems) == 0, Errors: problems}
	}
	if !rules.MaxRegularHours.IsZero() && regular.GreaterThan(rules.MaxRegularHours) {
		problems = append(problems, fmt.Sprintf("regular hours exceed the %s limit of %s per day", rules.CountryCode, rules.MaxRegularHours))
	}
	if !rules.MaxDailyHours.IsZero() && total.GreaterThan(rules.MaxDailyHours) {
		problems = append(problems, fmt.Sprintf("combined hours exceed the %s daily maximum of %s", rules.CountryCode, rules.MaxDailyHours))
	}

	return timesheet.HoursValidation{
		Valid:  len(problems) == 0,
		Errors: problems,
	}
}

func (c *CalculatorImpl) Summarize(entries []timesheet.Entry) timesheet.Hours {
	sum := timesheet.Hours{}
	for _, e := range entries {
		sum.Regular = sum.Regular.Add(e.Regular)
		sum.Overtime = sum.Overtime.Add(e.Overtime)
		sum.DoubleOvertime = sum.DoubleOvertime.Add(e.DoubleOvertime)
		sum.NightShift = sum.NightShift.Add(e.NightShift)
	}
	return sum
}
