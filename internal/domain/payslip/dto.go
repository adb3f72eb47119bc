package payslip

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Filter - optional read-path filters; dates are YYYY-MM-DD
type Filter struct {
	Status    *string `json:"status,omitempty"`
	CountryID *string `json:"country_id,omitempty"`
	From      *string `json:"from,omitempty"`
	To        *string `json:"to,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`

	from *time.Time
	to   *time.Time
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "must be one of processing, available, downloaded")
	}
	if f.From != nil {
		if t, ok := validator.IsValidDate(*f.From); ok {
			f.from = &t
		} else {
			errs.Add("from", "must be in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if t, ok := validator.IsValidDate(*f.To); ok {
			// inclusive of the whole day
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.to = &end
		} else {
			errs.Add("to", "must be in YYYY-MM-DD format")
		}
	}
	if f.from != nil && f.to != nil && f.to.Before(*f.from) {
		errs.Add("to", "must not be before from")
	}
	if f.Page < 0 {
		errs.Add("page", "must be positive")
	}
	if f.Limit < 0 || f.Limit > maxLimit {
		errs.Add("limit", "must be between 1 and "+strconv.Itoa(maxLimit))
	}

	if f.Page == 0 {
		f.Page = defaultPage
	}
	if f.Limit == 0 {
		f.Limit = defaultLimit
	}
	return errs.Err()
}

// ToQuery must be called after Validate.
func (f Filter) ToQuery() Query {
	q := Query{From: f.from, To: f.to, Page: f.Page, Limit: f.Limit}
	if f.Status != nil {
		q.Statuses = []Status{Status(*f.Status)}
	}
	if f.CountryID != nil {
		q.CountryID = *f.CountryID
	}
	return q
}

type MarkAvailableRequest struct {
	ID          string `json:"-"`
	DocumentURL string `json:"document_url"`
}

func (r *MarkAvailableRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "is required")
	}
	if validator.IsEmpty(r.DocumentURL) {
		errs.Add("document_url", "is required")
	}

	return errs.Err()
}

type SnapshotResponse struct {
	ID                       string           `json:"id"`
	UserID                   string           `json:"user_id"`
	CountryID                string           `json:"country_id"`
	PayrollPeriodID          string           `json:"payroll_period_id"`
	CalculationID            string           `json:"calculation_id"`
	CalculatedAt             time.Time        `json:"calculated_at"`
	CurrencyCode             string           `json:"currency_code"`
	BasicSalary              decimal.Decimal  `json:"basic_salary"`
	TotalEarnings            decimal.Decimal  `json:"total_earnings"`
	OvertimePay              *decimal.Decimal `json:"overtime_pay,omitempty"`
	NightShiftPay            *decimal.Decimal `json:"night_shift_pay,omitempty"`
	GrossPay                 decimal.Decimal  `json:"gross_pay"`
	TotalStatutoryDeductions decimal.Decimal  `json:"total_statutory_deductions"`
	TotalOtherDeductions     decimal.Decimal  `json:"total_other_deductions"`
	TotalDeductions          decimal.Decimal  `json:"total_deductions"`
	NetPay                   decimal.Decimal  `json:"net_pay"`
	Components               []LineItem       `json:"components"`
	StatutoryDeductions      []LineItem       `json:"statutory_deductions"`
	OtherDeductions          []LineItem       `json:"other_deductions"`
	Status                   string           `json:"status"`
	DocumentURL              *string          `json:"document_url,omitempty"`
	GeneratedAt              *time.Time       `json:"generated_at,omitempty"`
	FirstDownloadedAt        *time.Time       `json:"first_downloaded_at,omitempty"`
}

func ToSnapshotResponse(s Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:                       s.ID,
		UserID:                   s.UserID,
		CountryID:                s.CountryID,
		PayrollPeriodID:          s.PayrollPeriodID,
		CalculationID:            s.CalculationID,
		CalculatedAt:             s.CalculatedAt,
		CurrencyCode:             s.CurrencyCode,
		BasicSalary:              s.BasicSalary,
		TotalEarnings:            s.TotalEarnings,
		OvertimePay:              s.OvertimePay,
		NightShiftPay:            s.NightShiftPay,
		GrossPay:                 s.GrossPay,
		TotalStatutoryDeductions: s.TotalStatutoryDeductions,
		TotalOtherDeductions:     s.TotalOtherDeductions,
		TotalDeductions:          s.TotalDeductions,
		NetPay:                   s.NetPay,
		Components:               nonNil(s.Components),
		StatutoryDeductions:      nonNil(s.StatutoryDeductions),
		OtherDeductions:          nonNil(s.OtherDeductions),
		Status:                   string(s.Status),
		DocumentURL:              s.DocumentURL,
		GeneratedAt:              s.GeneratedAt,
		FirstDownloadedAt:        s.FirstDownloadedAt,
	}
}

func nonNil(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	return items
}

type ListSnapshotResponse struct {
	Snapshots  []SnapshotResponse `json:"snapshots"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}
