package timesheet

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CalculateRequest struct {
	CountryCode string          `json:"country_code"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	Hours       Hours           `json:"hours"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidCountryCode(r.CountryCode) {
		errs.Add("country_code", "must be a 2-letter country code")
	}
	if r.BasicSalary.IsNegative() {
		errs.Add("basic_salary", "must be non-negative")
	}

	return errs.Err()
}

type ValidateHoursRequest struct {
	CountryCode    string          `json:"country_code"`
	RegularHours   decimal.Decimal `json:"regular_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	DoubleOvertime decimal.Decimal `json:"double_overtime_hours"`
}

func (r *ValidateHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidCountryCode(r.CountryCode) {
		errs.Add("country_code", "must be a 2-letter country code")
	}

	return errs.Err()
}
