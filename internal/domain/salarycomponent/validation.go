package salarycomponent

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/formula"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ResolvesBefore reports whether a is resolved before b within a phase.
// Components run in display order, ties broken by code.
func ResolvesBefore(a, b SalaryComponent) bool {
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder < b.DisplayOrder
	}
	return a.Code < b.Code
}

// FormulaScope returns the variables a formula on c can see when it is
// resolved alongside others. Additive categories run first with no NET and
// see only additive codes resolved before them. Deductions see NET, every
// additive code and the deductions resolved before them. Inactive components
// are never resolved and are left out.
func FormulaScope(c SalaryComponent, others []SalaryComponent) map[string]struct{} {
	vars := map[string]struct{}{VarBasic: {}, VarGross: {}}
	if c.Category.IsDeduction() {
		vars[VarNet] = struct{}{}
	}
	for _, o := range others {
		if !o.IsActive || o.Code == c.Code {
			continue
		}
		switch {
		case c.Category.IsDeduction() && !o.Category.IsDeduction():
			vars[o.Code] = struct{}{}
		case c.Category.IsDeduction() == o.Category.IsDeduction() && ResolvesBefore(o, c):
			vars[o.Code] = struct{}{}
		}
	}
	return vars
}

// ValidateDefinition checks the calculation-mode invariants of c. Formulas
// are parsed and every referenced variable must be in allowed.
func ValidateDefinition(c SalaryComponent, allowed map[string]struct{}) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(c.Name) {
		errs.Add("name", "is required")
	}
	if !validator.IsValidComponentCode(c.Code) {
		errs.Add("code", "must start with a letter and contain only A-Z, 0-9 and _ (max 30)")
	} else if validator.IsInSlice(c.Code, ReservedCodes) {
		errs.Add("code", fmt.Sprintf("%s is reserved for formulas", c.Code))
	}
	if !c.Category.IsValid() {
		errs.Add("category", "must be one of earnings, deductions, benefits, reimbursements")
	}
	if c.Category.IsValid() && !c.Category.IsDeduction() {
		if c.IsStatutory {
			errs.Add("is_statutory", "is only allowed on deductions")
		}
		if c.CalculationType == CalculationPercentageOfNet {
			errs.Add("calculation_type", "percentage_of_net is only allowed on deductions")
		}
	}
	if c.DisplayOrder < 0 {
		errs.Add("display_order", "must be non-negative")
	}

	switch {
	case c.CalculationType == CalculationFixed:
		if c.Value == nil {
			errs.Add("value", "is required for fixed components")
		} else if !c.Value.IsPositive() {
			errs.Add("value", "must be greater than 0")
		}
		if c.Formula != nil {
			errs.Add("formula", "must be empty for fixed components")
		}
	case c.CalculationType.IsPercentage():
		if c.Value == nil {
			errs.Add("value", "is required for percentage components")
		} else if !inPercentRange(*c.Value) {
			errs.Add("value", "must be greater than 0 and at most 100")
		}
		if c.Formula != nil {
			errs.Add("formula", "must be empty for percentage components")
		}
	case c.CalculationType == CalculationFormula:
		if c.Value != nil {
			errs.Add("value", "must be empty for formula components")
		}
		if c.EmployerValue != nil {
			errs.Add("employer_value", "is not supported for formula components")
		}
		if c.Formula == nil || validator.IsEmpty(*c.Formula) {
			errs.Add("formula", "is required for formula components")
		} else {
			if _, self := allowed[c.Code]; self {
				allowed = withoutKey(allowed, c.Code)
			}
			if err := formula.Validate(*c.Formula, allowed); err != nil {
				errs.Add("formula", err.Error())
			}
		}
	default:
		errs.Add("calculation_type", "must be one of fixed, percentage_of_basic, percentage_of_gross, percentage_of_net, formula")
	}

	if c.EmployerValue != nil && c.CalculationType != CalculationFormula {
		switch {
		case c.Category.IsValid() && !c.Category.IsDeduction():
			errs.Add("employer_value", "is only allowed on deductions")
		case !c.IsStatutory:
			errs.Add("employer_value", "is only allowed on statutory components")
		}
		switch {
		case c.CalculationType.IsPercentage() && !inPercentRange(*c.EmployerValue):
			errs.Add("employer_value", "must be greater than 0 and at most 100")
		case c.CalculationType == CalculationFixed && !c.EmployerValue.IsPositive():
			errs.Add("employer_value", "must be greater than 0")
		}
	}

	return errs.Err()
}

func inPercentRange(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThanOrEqual(hundred)
}

func withoutKey(m map[string]struct{}, key string) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		if k != key {
			out[k] = struct{}{}
		}
	}
	return out
}
