package contribution

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DateRange - inclusive YYYY-MM-DD bounds
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Bounds parses the range; end covers the whole end day.
func (r DateRange) Bounds() (time.Time, time.Time, bool) {
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end.Add(24*time.Hour - time.Nanosecond), true
}

func (r DateRange) validate(prefix string, errs *validator.ValidationErrors) {
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add(prefix+"start_date", "must be in YYYY-MM-DD format")
		return
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add(prefix+"end_date", "must be in YYYY-MM-DD format")
		return
	}
	if _, _, ok := r.Bounds(); !ok {
		errs.Add(prefix+"end_date", "must not be before start_date")
	}
}

type SummaryRequest struct {
	UserID    string `json:"-"`
	CountryID string `json:"country_id"`
	DateRange
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "is required")
	}
	if validator.IsEmpty(r.CountryID) {
		errs.Add("country_id", "is required")
	}
	r.DateRange.validate("", &errs)

	return errs.Err()
}

type CompareRequest struct {
	UserID    string    `json:"-"`
	CountryID string    `json:"country_id"`
	Period1   DateRange `json:"period1"`
	Period2   DateRange `json:"period2"`
}

func (r *CompareRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "is required")
	}
	if validator.IsEmpty(r.CountryID) {
		errs.Add("country_id", "is required")
	}
	r.Period1.validate("period1.", &errs)
	r.Period2.validate("period2.", &errs)

	return errs.Err()
}

type ComponentTotalResponse struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Employee    decimal.Decimal `json:"employee_contribution"`
	Employer    decimal.Decimal `json:"employer_contribution"`
	Total       decimal.Decimal `json:"total"`
	Occurrences int             `json:"occurrences"`
}

type SummaryResponse struct {
	UserID        string                   `json:"user_id"`
	CountryID     string                   `json:"country_id"`
	CurrencyCode  string                   `json:"currency_code"`
	StartDate     string                   `json:"start_date"`
	EndDate       string                   `json:"end_date"`
	Components    []ComponentTotalResponse `json:"components"`
	TotalEmployee decimal.Decimal          `json:"total_employee"`
	TotalEmployer decimal.Decimal          `json:"total_employer"`
	GrandTotal    decimal.Decimal          `json:"grand_total"`
	SnapshotCount int                      `json:"snapshot_count"`
}

func ToSummaryResponse(s Summary) SummaryResponse {
	resp := SummaryResponse{
		UserID:        s.UserID,
		CountryID:     s.CountryID,
		CurrencyCode:  s.CurrencyCode,
		StartDate:     s.StartDate.Format("2006-01-02"),
		EndDate:       s.EndDate.Format("2006-01-02"),
		Components:    make([]ComponentTotalResponse, 0, len(s.Components)),
		TotalEmployee: s.TotalEmployee,
		TotalEmployer: s.TotalEmployer,
		GrandTotal:    s.GrandTotal,
		SnapshotCount: s.SnapshotCount,
	}
	for _, c := range s.Components {
		resp.Components = append(resp.Components, ComponentTotalResponse{
			Code:        c.Code,
			Name:        c.Name,
			Employee:    c.Employee,
			Employer:    c.Employer,
			Total:       c.Total,
			Occurrences: c.Occurrences,
		})
	}
	return resp
}

type ComponentDeltaResponse struct {
	Code          string          `json:"code"`
	Period1Total  decimal.Decimal `json:"period1_total"`
	Period2Total  decimal.Decimal `json:"period2_total"`
	Difference    decimal.Decimal `json:"difference"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

type ComparisonResponse struct {
	Period1       SummaryResponse          `json:"period1"`
	Period2       SummaryResponse          `json:"period2"`
	Difference    decimal.Decimal          `json:"difference"`
	PercentChange decimal.Decimal          `json:"percent_change"`
	Components    []ComponentDeltaResponse `json:"components"`
}

func ToComparisonResponse(c Comparison) ComparisonResponse {
	resp := ComparisonResponse{
		Period1:       ToSummaryResponse(c.Period1),
		Period2:       ToSummaryResponse(c.Period2),
		Difference:    c.Difference,
		PercentChange: c.PercentChange,
		Components:    make([]ComponentDeltaResponse, 0, len(c.Components)),
	}
	for _, d := range c.Components {
		resp.Components = append(resp.Components, ComponentDeltaResponse(d))
	}
	return resp
}
