package salarycomponent

import (
	"fmt"
	"sync"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/formula"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// ResolverImpl is stateless apart from a cache of parsed formulas and is safe
// for concurrent use.
type ResolverImpl struct {
	parsed sync.Map // formula source -> *formula.Expression
}

func NewResolver() salarycomponent.Resolver {
	return &ResolverImpl{}
}

func (r *ResolverImpl) Resolve(c salarycomponent.SalaryComponent, rc salarycomponent.ResolutionContext) (decimal.Decimal, error) {
	if c.CalculationType == salarycomponent.CalculationFormula {
		return r.evaluateFormula(c, rc)
	}
	if c.Value == nil {
		return decimal.Zero, fmt.Errorf("%w: %s has no value", salarycomponent.ErrInvalidDefinition, c.Code)
	}
	return r.applyMode(c, *c.Value, rc)
}

func (r *ResolverImpl) ResolveEmployer(c salarycomponent.SalaryComponent, rc salarycomponent.ResolutionContext) (decimal.Decimal, bool, error) {
	if c.EmployerValue == nil {
		return decimal.Zero, false, nil
	}
	amount, err := r.applyMode(c, *c.EmployerValue, rc)
	if err != nil {
		return decimal.Zero, false, err
	}
	return amount, true, nil
}

func (r *ResolverImpl) applyMode(c salarycomponent.SalaryComponent, value decimal.Decimal, rc salarycomponent.ResolutionContext) (decimal.Decimal, error) {
	switch c.CalculationType {
	case salarycomponent.CalculationFixed:
		return value, nil
	case salarycomponent.CalculationPercentageOfBasic:
		return money.Percent(value, rc.Basic), nil
	case salarycomponent.CalculationPercentageOfGross:
		if rc.Gross == nil {
			return decimal.Zero, fmt.Errorf("%w: %s needs gross pay", salarycomponent.ErrIncompleteContext, c.Code)
		}
		return money.Percent(value, *rc.Gross), nil
	case salarycomponent.CalculationPercentageOfNet:
		if rc.Net == nil {
			return decimal.Zero, fmt.Errorf("%w: %s needs net pay", salarycomponent.ErrIncompleteContext, c.Code)
		}
		return money.Percent(value, *rc.Net), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s has calculation type %q", salarycomponent.ErrInvalidDefinition, c.Code, c.CalculationType)
	}
}

func (r *ResolverImpl) evaluateFormula(c salarycomponent.SalaryComponent, rc salarycomponent.ResolutionContext) (decimal.Decimal, error) {
	if c.Formula == nil {
		return decimal.Zero, fmt.Errorf("%w: %s has no formula", salarycomponent.ErrInvalidDefinition, c.Code)
	}

	expr, err := r.expression(*c.Formula)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", salarycomponent.ErrFormulaEvaluation, c.Code, err)
	}

	vars := make(map[string]decimal.Decimal, len(rc.Resolved)+3)
	for code, amount := range rc.Resolved {
		vars[code] = amount
	}
	vars[salarycomponent.VarBasic] = rc.Basic
	if rc.Gross != nil {
		vars[salarycomponent.VarGross] = *rc.Gross
	}
	if rc.Net != nil {
		vars[salarycomponent.VarNet] = *rc.Net
	}

	amount, err := expr.Evaluate(vars)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", salarycomponent.ErrFormulaEvaluation, c.Code, err)
	}
	return amount, nil
}

func (r *ResolverImpl) expression(src string) (*formula.Expression, error) {
	if cached, ok := r.parsed.Load(src); ok {
		return cached.(*formula.Expression), nil
	}
	expr, err := formula.Parse(src)
	if err != nil {
		return nil, err
	}
	r.parsed.Store(src, expr)
	return expr, nil
}
