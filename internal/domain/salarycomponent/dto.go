package salarycomponent

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSalaryComponentRequest struct {
	CountryID       string           `json:"-"`
	Name            string           `json:"name"`
	Code            string           `json:"code"`
	Category        string           `json:"category"`
	CalculationType string           `json:"calculation_type"`
	Value           *decimal.Decimal `json:"value,omitempty"`
	EmployerValue   *decimal.Decimal `json:"employer_value,omitempty"`
	Formula         *string          `json:"formula,omitempty"`
	IsTaxable       bool             `json:"is_taxable"`
	IsStatutory     bool             `json:"is_statutory"`
	IsMandatory     bool             `json:"is_mandatory"`
	DisplayOrder    int              `json:"display_order"`
}

func (r *CreateSalaryComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CountryID) {
		errs.Add("country_id", "is required")
	}
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))

	return errs.Err()
}

// ToEntity builds the definition to validate and store.
func (r *CreateSalaryComponentRequest) ToEntity() SalaryComponent {
	return SalaryComponent{
		CountryID:       r.CountryID,
		Name:            strings.TrimSpace(r.Name),
		Code:            r.Code,
		Category:        Category(r.Category),
		CalculationType: CalculationType(r.CalculationType),
		Value:           r.Value,
		EmployerValue:   r.EmployerValue,
		Formula:         r.Formula,
		IsTaxable:       r.IsTaxable,
		IsStatutory:     r.IsStatutory,
		IsMandatory:     r.IsMandatory,
		DisplayOrder:    r.DisplayOrder,
		IsActive:        true,
	}
}

// UpdateSalaryComponentRequest patches a component. The code is immutable.
// When CalculationType is present, Value, EmployerValue and Formula replace
// the stored ones, so switching modes clears whatever the new mode forbids.
type UpdateSalaryComponentRequest struct {
	ID              string           `json:"-"`
	CountryID       string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	Category        *string          `json:"category,omitempty"`
	CalculationType *string          `json:"calculation_type,omitempty"`
	Value           *decimal.Decimal `json:"value,omitempty"`
	EmployerValue   *decimal.Decimal `json:"employer_value,omitempty"`
	Formula         *string          `json:"formula,omitempty"`
	IsTaxable       *bool            `json:"is_taxable,omitempty"`
	IsStatutory     *bool            `json:"is_statutory,omitempty"`
	IsMandatory     *bool            `json:"is_mandatory,omitempty"`
	DisplayOrder    *int             `json:"display_order,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (r *UpdateSalaryComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "is required")
	}
	if validator.IsEmpty(r.CountryID) {
		errs.Add("country_id", "is required")
	}

	return errs.Err()
}

// Apply returns existing with the patch applied.
func (r *UpdateSalaryComponentRequest) Apply(existing SalaryComponent) SalaryComponent {
	c := existing
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		c.Category = Category(*r.Category)
	}
	if r.CalculationType != nil {
		c.CalculationType = CalculationType(*r.CalculationType)
		c.Value = r.Value
		c.EmployerValue = r.EmployerValue
		c.Formula = r.Formula
	} else {
		if r.Value != nil {
			c.Value = r.Value
		}
		if r.EmployerValue != nil {
			c.EmployerValue = r.EmployerValue
		}
		if r.Formula != nil {
			c.Formula = r.Formula
		}
	}
	if r.IsTaxable != nil {
		c.IsTaxable = *r.IsTaxable
	}
	if r.IsStatutory != nil {
		c.IsStatutory = *r.IsStatutory
	}
	if r.IsMandatory != nil {
		c.IsMandatory = *r.IsMandatory
	}
	if r.DisplayOrder != nil {
		c.DisplayOrder = *r.DisplayOrder
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	return c
}

type SalaryComponentResponse struct {
	ID              string           `json:"id"`
	CountryID       string           `json:"country_id"`
	Name            string           `json:"name"`
	Code            string           `json:"code"`
	Category        string           `json:"category"`
	CalculationType string           `json:"calculation_type"`
	Value           *decimal.Decimal `json:"value,omitempty"`
	EmployerValue   *decimal.Decimal `json:"employer_value,omitempty"`
	Formula         *string          `json:"formula,omitempty"`
	IsTaxable       bool             `json:"is_taxable"`
	IsStatutory     bool             `json:"is_statutory"`
	IsMandatory     bool             `json:"is_mandatory"`
	DisplayOrder    int              `json:"display_order"`
	IsActive        bool             `json:"is_active"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func ToResponse(c SalaryComponent) SalaryComponentResponse {
	return SalaryComponentResponse{
		ID:              c.ID,
		CountryID:       c.CountryID,
		Name:            c.Name,
		Code:            c.Code,
		Category:        string(c.Category),
		CalculationType: string(c.CalculationType),
		Value:           c.Value,
		EmployerValue:   c.EmployerValue,
		Formula:         c.Formula,
		IsTaxable:       c.IsTaxable,
		IsStatutory:     c.IsStatutory,
		IsMandatory:     c.IsMandatory,
		DisplayOrder:    c.DisplayOrder,
		IsActive:        c.IsActive,
		UpdatedAt:       c.UpdatedAt,
	}
}
