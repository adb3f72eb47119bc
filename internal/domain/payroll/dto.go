package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxBatchSize = 500

type CalculateRequest struct {
	UserID        string  `json:"user_id"`
	CountryID     string  `json:"country_id"`
	PeriodID      string  `json:"payroll_period_id"`
	CalculationID *string `json:"calculation_id,omitempty"`
	// ConvertTo optionally adds converted totals to a preview.
	ConvertTo *string `json:"convert_to,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "is required")
	}
	if validator.IsEmpty(r.CountryID) {
		errs.Add("country_id", "is required")
	}
	if validator.IsEmpty(r.PeriodID) {
		errs.Add("payroll_period_id", "is required")
	}
	if r.CalculationID != nil && !validator.IsValidUUID(*r.CalculationID) {
		errs.Add("calculation_id", "must be a valid UUID")
	}
	if r.ConvertTo != nil && !validator.IsValidCurrencyCode(*r.ConvertTo) {
		errs.Add("convert_to", "must be a 3-letter uppercase currency code")
	}

	return errs.Err()
}

type BatchRequest struct {
	CountryID string   `json:"country_id"`
	PeriodID  string   `json:"payroll_period_id"`
	UserIDs   []string `json:"user_ids"`
}

func (r *BatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CountryID) {
		errs.Add("country_id", "is required")
	}
	if validator.IsEmpty(r.PeriodID) {
		errs.Add("payroll_period_id", "is required")
	}
	if len(r.UserIDs) == 0 {
		errs.Add("user_ids", "must contain at least one user")
	} else if len(r.UserIDs) > maxBatchSize {
		errs.Add("user_ids", "must contain at most 500 users")
	}
	for _, id := range r.UserIDs {
		if validator.IsEmpty(id) {
			errs.Add("user_ids", "must not contain empty ids")
			break
		}
	}

	return errs.Err()
}

type CalculationResponse struct {
	CalculationID            string                  `json:"calculation_id"`
	UserID                   string                  `json:"user_id"`
	CountryID                string                  `json:"country_id"`
	CountryCode              string                  `json:"country_code"`
	PayrollPeriodID          string                  `json:"payroll_period_id"`
	CurrencyCode             string                  `json:"currency_code"`
	CalculatedAt             time.Time               `json:"calculated_at"`
	BasicSalary              decimal.Decimal         `json:"basic_salary"`
	TotalEarnings            decimal.Decimal         `json:"total_earnings"`
	OvertimePay              *decimal.Decimal        `json:"overtime_pay,omitempty"`
	NightShiftPay            *decimal.Decimal        `json:"night_shift_pay,omitempty"`
	GrossPay                 decimal.Decimal         `json:"gross_pay"`
	TotalStatutoryDeductions decimal.Decimal         `json:"total_statutory_deductions"`
	TotalOtherDeductions     decimal.Decimal         `json:"total_other_deductions"`
	TotalDeductions          decimal.Decimal         `json:"total_deductions"`
	NetPay                   decimal.Decimal         `json:"net_pay"`
	Components               []payslip.LineItem      `json:"components"`
	StatutoryDeductions      []payslip.LineItem      `json:"statutory_deductions"`
	OtherDeductions          []payslip.LineItem      `json:"other_deductions"`
	Timesheet                *timesheet.PayBreakdown `json:"timesheet,omitempty"`
	Warnings                 []string                `json:"warnings,omitempty"`
	FormattedTotals          map[string]string       `json:"formatted_totals,omitempty"`
	Converted                *ConvertedResponse      `json:"converted,omitempty"`
}

func ToCalculationResponse(r CalculationResult) CalculationResponse {
	return CalculationResponse{
		CalculationID:            r.CalculationID,
		UserID:                   r.UserID,
		CountryID:                r.CountryID,
		CountryCode:              r.CountryCode,
		PayrollPeriodID:          r.PayrollPeriodID,
		CurrencyCode:             r.CurrencyCode,
		CalculatedAt:             r.CalculatedAt,
		BasicSalary:              r.BasicSalary,
		TotalEarnings:            r.TotalEarnings,
		OvertimePay:              r.OvertimePay,
		NightShiftPay:            r.NightShiftPay,
		GrossPay:                 r.GrossPay,
		TotalStatutoryDeductions: r.TotalStatutoryDeductions,
		TotalOtherDeductions:     r.TotalOtherDeductions,
		TotalDeductions:          r.TotalDeductions,
		NetPay:                   r.NetPay,
		Components:               nonNilLines(r.Components),
		StatutoryDeductions:      nonNilLines(r.StatutoryDeductions),
		OtherDeductions:          nonNilLines(r.OtherDeductions),
		Timesheet:                r.Timesheet,
		Warnings:                 r.Warnings,
		FormattedTotals:          r.FormattedTotals,
	}
}

func nonNilLines(items []payslip.LineItem) []payslip.LineItem {
	if items == nil {
		return []payslip.LineItem{}
	}
	return items
}

type ConvertedResponse struct {
	FromCurrency    string            `json:"from_currency"`
	ToCurrency      string            `json:"to_currency"`
	Rate            decimal.Decimal   `json:"rate"`
	EffectiveDate   string            `json:"effective_date"`
	GrossPay        decimal.Decimal   `json:"gross_pay"`
	TotalDeductions decimal.Decimal   `json:"total_deductions"`
	NetPay          decimal.Decimal   `json:"net_pay"`
	FormattedTotals map[string]string `json:"formatted_totals,omitempty"`
}

func ToConvertedResponse(c ConvertedTotals) *ConvertedResponse {
	return &ConvertedResponse{
		FromCurrency:    c.FromCurrency,
		ToCurrency:      c.ToCurrency,
		Rate:            c.Rate,
		EffectiveDate:   c.EffectiveDate.Format("2006-01-02"),
		GrossPay:        c.GrossPay,
		TotalDeductions: c.TotalDeductions,
		NetPay:          c.NetPay,
		FormattedTotals: c.FormattedTotals,
	}
}

type BatchItemResponse struct {
	UserID        string           `json:"user_id"`
	CalculationID string           `json:"calculation_id,omitempty"`
	SnapshotID    string           `json:"snapshot_id,omitempty"`
	NetPay        *decimal.Decimal `json:"net_pay,omitempty"`
	Error         string           `json:"error,omitempty"`
	ErrorCategory string           `json:"error_category,omitempty"`
}

type BatchResponse struct {
	CountryID string              `json:"country_id"`
	PeriodID  string              `json:"payroll_period_id"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
}

func ToBatchResponse(r BatchResult) BatchResponse {
	resp := BatchResponse{
		CountryID: r.CountryID,
		PeriodID:  r.PeriodID,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Items:     make([]BatchItemResponse, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		ir := BatchItemResponse{UserID: item.UserID, CalculationID: item.CalculationID, SnapshotID: item.SnapshotID}
		if item.Err != nil {
			ir.Error = item.Err.Error()
			ir.ErrorCategory = errs.CategoryName(item.Err)
		} else {
			net := item.NetPay
			ir.NetPay = &net
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
