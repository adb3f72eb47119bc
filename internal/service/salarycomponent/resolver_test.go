package salarycomponent

import (
	"sync"
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func TestResolve_PercentOfBasic(t *testing.T) {
	r := NewResolver()
	c := salarycomponent.SalaryComponent{Code: "HRA", CalculationType: salarycomponent.CalculationPercentageOfBasic, Value: decPtr("40")}

	got, err := r.Resolve(c, salarycomponent.ResolutionContext{Basic: dec("50000")})
	require.NoError(t, err)
	assert.Equal(t, "20000.00", got.StringFixed(2))
	assert.True(t, got.Equal(dec("20000")))
}

func TestResolve_Modes(t *testing.T) {
	r := NewResolver()
	gross := dec("80000")
	net := dec("70000")
	rc := salarycomponent.ResolutionContext{
		Basic:    dec("50000"),
		Gross:    &gross,
		Net:      &net,
		Resolved: map[string]decimal.Decimal{"HRA": dec("20000")},
	}

	cases := []struct {
		name string
		c    salarycomponent.SalaryComponent
		want string
	}{
		{"fixed", salarycomponent.SalaryComponent{CalculationType: salarycomponent.CalculationFixed, Value: decPtr("1600")}, "1600"},
		{"gross", salarycomponent.SalaryComponent{CalculationType: salarycomponent.CalculationPercentageOfGross, Value: decPtr("12.5")}, "10000"},
		{"net", salarycomponent.SalaryComponent{CalculationType: salarycomponent.CalculationPercentageOfNet, Value: decPtr("1")}, "700"},
		{"formula", salarycomponent.SalaryComponent{CalculationType: salarycomponent.CalculationFormula, Formula: strPtr("(BASIC + HRA) * 0.12")}, "8400"},
		{"formula gross net", salarycomponent.SalaryComponent{CalculationType: salarycomponent.CalculationFormula, Formula: strPtr("GROSS - NET")}, "10000"},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.c, rc)
		require.NoError(t, err, tc.name)
		assert.True(t, dec(tc.want).Equal(got), "%s: got %s", tc.name, got)
	}
}

func TestResolve_IncompleteContextIsIntegrityFailure(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve(
		salarycomponent.SalaryComponent{Code: "TIP", CalculationType: salarycomponent.CalculationPercentageOfNet, Value: decPtr("5")},
		salarycomponent.ResolutionContext{Basic: dec("1000")},
	)
	assert.ErrorIs(t, err, salarycomponent.ErrIncompleteContext)
	assert.True(t, errs.IsIntegrity(err))

	_, err = r.Resolve(
		salarycomponent.SalaryComponent{Code: "BONUS", CalculationType: salarycomponent.CalculationPercentageOfGross, Value: decPtr("5")},
		salarycomponent.ResolutionContext{Basic: dec("1000")},
	)
	assert.ErrorIs(t, err, salarycomponent.ErrIncompleteContext)
}

func TestResolve_FormulaFailureNeverDefaultsToZero(t *testing.T) {
	r := NewResolver()

	amount, err := r.Resolve(
		salarycomponent.SalaryComponent{Code: "LTA", CalculationType: salarycomponent.CalculationFormula, Formula: strPtr("MISSING * 2")},
		salarycomponent.ResolutionContext{Basic: dec("1000")},
	)
	assert.ErrorIs(t, err, salarycomponent.ErrFormulaEvaluation)
	assert.True(t, errs.IsIntegrity(err))
	assert.True(t, amount.IsZero())

	_, err = r.Resolve(
		salarycomponent.SalaryComponent{Code: "LTA", CalculationType: salarycomponent.CalculationFormula, Formula: strPtr("BASIC / 0")},
		salarycomponent.ResolutionContext{Basic: dec("1000")},
	)
	assert.ErrorIs(t, err, salarycomponent.ErrFormulaEvaluation)

	_, err = r.Resolve(
		salarycomponent.SalaryComponent{Code: "HRA", CalculationType: salarycomponent.CalculationFixed},
		salarycomponent.ResolutionContext{},
	)
	assert.ErrorIs(t, err, salarycomponent.ErrInvalidDefinition)
}

func TestResolveEmployer(t *testing.T) {
	r := NewResolver()
	c := salarycomponent.SalaryComponent{
		Code:            "PF",
		CalculationType: salarycomponent.CalculationPercentageOfBasic,
		Value:           decPtr("12"),
		EmployerValue:   decPtr("13"),
	}

	amount, ok, err := r.ResolveEmployer(c, salarycomponent.ResolutionContext{Basic: dec("20000")})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, amount.Equal(dec("2600")))

	c.EmployerValue = nil
	_, ok, err = r.ResolveEmployer(c, salarycomponent.ResolutionContext{Basic: dec("20000")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve_ConcurrentUse(t *testing.T) {
	r := NewResolver()
	c := salarycomponent.SalaryComponent{Code: "HRA", CalculationType: salarycomponent.CalculationFormula, Formula: strPtr("BASIC * 0.4")}

	var wg sync.WaitGroup
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			got, err := r.Resolve(c, salarycomponent.ResolutionContext{Basic: decimal.NewFromInt(n * 1000)})
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(n*400)))
		}(int64(i))
	}
	wg.Wait()
}
