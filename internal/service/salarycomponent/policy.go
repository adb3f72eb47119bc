package salarycomponent

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/regionconfig"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/shopspring/decimal"
)

// Region config keys read by the built-in policies.
const (
	ConfigBasePayComponentCode = "base_pay_component_code"
	ConfigStatutoryMaxPercent  = "statutory_max_percent"
	ConfigSuperGuaranteeRate   = "super_guarantee_rate"
)

const (
	defaultINBasePayCode = "BASE"
	auSuperCode          = "SUPER"
)

var defaultSuperGuaranteeRate = decimal.RequireFromString("11.5")

// DefaultPolicies returns the built-in country rule sets.
func DefaultPolicies() salarycomponent.PolicyRegistry {
	return salarycomponent.PolicyRegistry{
		"IN": IndiaPolicy{},
		"PH": PhilippinesPolicy{},
		"AU": AustraliaPolicy{},
	}
}

// IndiaPolicy requires the base-pay component to be a mandatory earning and
// caps statutory percentages at the configured maximum.
type IndiaPolicy struct{}

func (IndiaPolicy) ValidateComponent(ctx context.Context, c salarycomponent.SalaryComponent, cfg regionconfig.Reader) error {
	baseCode := defaultINBasePayCode
	entry, found, err := lookup(ctx, cfg, c.CountryID, ConfigBasePayComponentCode)
	if err != nil {
		return err
	}
	if found {
		if baseCode, err = entry.String(); err != nil {
			return err
		}
	}

	if c.Code == baseCode {
		if !c.IsMandatory {
			return fmt.Errorf("%w: %s must be mandatory", salarycomponent.ErrPolicyViolation, baseCode)
		}
		if c.Category != salarycomponent.CategoryEarnings {
			return fmt.Errorf("%w: %s must be an earnings component", salarycomponent.ErrPolicyViolation, baseCode)
		}
	}

	if !c.IsStatutory || !c.CalculationType.IsPercentage() {
		return nil
	}
	entry, found, err = lookup(ctx, cfg, c.CountryID, ConfigStatutoryMaxPercent)
	if err != nil || !found {
		return err
	}
	maxPercent, err := entry.Decimal()
	if err != nil {
		return err
	}
	for _, v := range []*decimal.Decimal{c.Value, c.EmployerValue} {
		if v != nil && v.GreaterThan(maxPercent) {
			return fmt.Errorf("%w: statutory rate %s%% exceeds the %s%% maximum", salarycomponent.ErrPolicyViolation, v, maxPercent)
		}
	}
	return nil
}

// PhilippinesPolicy: SSS, PhilHealth and Pag-IBIG style contributions are
// always withheld, so statutory components must be deductions.
type PhilippinesPolicy struct{}

func (PhilippinesPolicy) ValidateComponent(ctx context.Context, c salarycomponent.SalaryComponent, cfg regionconfig.Reader) error {
	if c.IsStatutory && c.Category != salarycomponent.CategoryDeductions {
		return fmt.Errorf("%w: statutory component %s must be a deduction", salarycomponent.ErrPolicyViolation, c.Code)
	}
	return nil
}

// AustraliaPolicy requires superannuation to be statutory with an employer
// share of at least the guarantee rate.
type AustraliaPolicy struct{}

func (AustraliaPolicy) ValidateComponent(ctx context.Context, c salarycomponent.SalaryComponent, cfg regionconfig.Reader) error {
	if c.Code != auSuperCode {
		return nil
	}
	if !c.IsStatutory {
		return fmt.Errorf("%w: %s must be statutory", salarycomponent.ErrPolicyViolation, auSuperCode)
	}
	if c.EmployerValue == nil {
		return fmt.Errorf("%w: %s requires an employer contribution", salarycomponent.ErrPolicyViolation, auSuperCode)
	}
	if !c.CalculationType.IsPercentage() {
		return nil
	}

	minRate := defaultSuperGuaranteeRate
	entry, found, err := lookup(ctx, cfg, c.CountryID, ConfigSuperGuaranteeRate)
	if err != nil {
		return err
	}
	if found {
		if minRate, err = entry.Decimal(); err != nil {
			return err
		}
	}
	if c.EmployerValue.LessThan(minRate) {
		return fmt.Errorf("%w: %s employer rate %s%% is below the %s%% guarantee", salarycomponent.ErrPolicyViolation, auSuperCode, c.EmployerValue, minRate)
	}
	return nil
}

func lookup(ctx context.Context, cfg regionconfig.Reader, countryID, key string) (regionconfig.Entry, bool, error) {
	if cfg == nil {
		return regionconfig.Entry{}, false, nil
	}
	entry, err := cfg.Get(ctx, countryID, key)
	if err != nil {
		if errors.Is(err, regionconfig.ErrConfigNotFound) {
			return regionconfig.Entry{}, false, nil
		}
		return regionconfig.Entry{}, false, fmt.Errorf("failed to read region config %s: %w", key, err)
	}
	return entry, true, nil
}
