package salarycomponent

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category enum
type Category string

const (
	CategoryEarnings       Category = "earnings"
	CategoryDeductions     Category = "deductions"
	CategoryBenefits       Category = "benefits"
	CategoryReimbursements Category = "reimbursements"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryEarnings, CategoryDeductions, CategoryBenefits, CategoryReimbursements:
		return true
	}
	return false
}

// IsDeduction reports whether the category reduces pay. Every other
// category adds to gross.
func (c Category) IsDeduction() bool {
	return c == CategoryDeductions
}

// CalculationType enum
type CalculationType string

const (
	CalculationFixed             CalculationType = "fixed"
	CalculationPercentageOfBasic CalculationType = "percentage_of_basic"
	CalculationPercentageOfGross CalculationType = "percentage_of_gross"
	CalculationPercentageOfNet   CalculationType = "percentage_of_net"
	CalculationFormula           CalculationType = "formula"
)

func (t CalculationType) IsValid() bool {
	switch t {
	case CalculationFixed, CalculationPercentageOfBasic, CalculationPercentageOfGross,
		CalculationPercentageOfNet, CalculationFormula:
		return true
	}
	return false
}

func (t CalculationType) IsPercentage() bool {
	switch t {
	case CalculationPercentageOfBasic, CalculationPercentageOfGross, CalculationPercentageOfNet:
		return true
	}
	return false
}

// Formula variables always available besides earlier component codes.
const (
	VarBasic = "BASIC"
	VarGross = "GROSS"
	VarNet   = "NET"
)

// ReservedCodes cannot be used as component codes.
var ReservedCodes = []string{VarBasic, VarGross, VarNet}

// SalaryComponent - configured rule producing one line of pay or deduction
type SalaryComponent struct {
	ID              string
	CountryID       string
	Name            string
	Code            string
	Category        Category
	CalculationType CalculationType
	Value           *decimal.Decimal
	EmployerValue   *decimal.Decimal // statutory employer share, same mode as Value
	Formula         *string
	IsTaxable       bool
	IsStatutory     bool
	IsMandatory     bool
	DisplayOrder    int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ResolutionContext - pay figures known at the point a component is resolved.
// A nil Gross or Net means that figure is not known yet.
type ResolutionContext struct {
	Basic    decimal.Decimal
	Gross    *decimal.Decimal
	Net      *decimal.Decimal
	Resolved map[string]decimal.Decimal
}
