package timesheet

import "github.com/shopspring/decimal"

type PayCalculator interface {
	Calculate(countryCode string, basicSalary decimal.Decimal, hours Hours) (PayBreakdown, error)
	ValidateHours(countryCode string, regular, overtime, doubleOvertime decimal.Decimal) HoursValidation
	Summarize(entries []Entry) Hours
}
