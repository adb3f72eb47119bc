package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// Period - pay period owned by one country
type Period struct {
	ID        string
	CountryID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Compensation - an employee's monthly basic salary in the country's currency
type Compensation struct {
	UserID      string
	CountryID   string
	BasicSalary decimal.Decimal
}

// CalculationResult - everything one payroll run produced. Amounts are in
// CurrencyCode and already rounded to its precision.
type CalculationResult struct {
	CalculationID   string
	UserID          string
	CountryID       string
	CountryCode     string
	PayrollPeriodID string
	CurrencyCode    string
	DecimalPlaces   int32
	CalculatedAt    time.Time

	BasicSalary              decimal.Decimal
	TotalEarnings            decimal.Decimal
	OvertimePay              *decimal.Decimal
	NightShiftPay            *decimal.Decimal
	GrossPay                 decimal.Decimal
	TotalStatutoryDeductions decimal.Decimal
	TotalOtherDeductions     decimal.Decimal
	TotalDeductions          decimal.Decimal
	NetPay                   decimal.Decimal

	Components          []payslip.LineItem
	StatutoryDeductions []payslip.LineItem
	OtherDeductions     []payslip.LineItem

	Timesheet       *timesheet.PayBreakdown
	Warnings        []string
	FormattedTotals map[string]string
}

// ToSnapshot copies the financial fields into a snapshot ready for saving.
func (r CalculationResult) ToSnapshot() payslip.Snapshot {
	return payslip.Snapshot{
		UserID:                   r.UserID,
		CountryID:                r.CountryID,
		PayrollPeriodID:          r.PayrollPeriodID,
		CalculationID:            r.CalculationID,
		CalculatedAt:             r.CalculatedAt,
		CurrencyCode:             r.CurrencyCode,
		BasicSalary:              r.BasicSalary,
		TotalEarnings:            r.TotalEarnings,
		OvertimePay:              r.OvertimePay,
		NightShiftPay:            r.NightShiftPay,
		GrossPay:                 r.GrossPay,
		TotalStatutoryDeductions: r.TotalStatutoryDeductions,
		TotalOtherDeductions:     r.TotalOtherDeductions,
		TotalDeductions:          r.TotalDeductions,
		NetPay:                   r.NetPay,
		Components:               r.Components,
		StatutoryDeductions:      r.StatutoryDeductions,
		OtherDeductions:          r.OtherDeductions,
	}
}

// ConvertedTotals - headline figures of a result expressed in another currency
type ConvertedTotals struct {
	CalculationID   string
	FromCurrency    string
	ToCurrency      string
	Rate            decimal.Decimal
	EffectiveDate   time.Time
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	FormattedTotals map[string]string
}

// BatchItem - outcome for one employee of a batch run
type BatchItem struct {
	UserID        string
	CalculationID string
	SnapshotID    string
	NetPay        decimal.Decimal
	Err           error
}

type BatchResult struct {
	CountryID string
	PeriodID  string
	Items     []BatchItem
	Succeeded int
	Failed    int
}
