package timesheet

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/countryrule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func newCalc(opts ...Option) timesheet.PayCalculator {
	return NewCalculator(countryrule.NewProvider(countryrule.DefaultTable()), opts...)
}

func TestCalculate_Philippines(t *testing.T) {
	c := newCalc()

	b, err := c.Calculate("PH", dec("30000"), timesheet.Hours{Regular: dec("8"), Overtime: dec("2")})
	require.NoError(t, err)

	assertDec(t, "187.5", b.HourlyRate)
	assertDec(t, "1500", b.Regular.Amount)
	assertDec(t, "234.38", b.Overtime.Rate)
	assertDec(t, "468.75", b.Overtime.Amount)
	assertDec(t, "0", b.DoubleOvertime.Amount)
	assertDec(t, "0", b.NightShift.Amount)
	assertDec(t, "1968.75", b.TotalPay)
	assertDec(t, "1.25", b.Rules.OvertimeMultiplier)
	assert.False(t, b.DefaultRulesUsed)
	assertDec(t, "160", b.HoursPerMonth)
}

func TestCalculate_IndiaUsesDoubleOvertime(t *testing.T) {
	c := newCalc()

	b, err := c.Calculate("IN", dec("50000"), timesheet.Hours{Regular: dec("9"), Overtime: dec("2")})
	require.NoError(t, err)

	assertDec(t, "312.5", b.HourlyRate)
	assertDec(t, "2", b.Rules.OvertimeMultiplier)
	assertDec(t, "625", b.Overtime.Rate)
	assertDec(t, "1250", b.Overtime.Amount)
	assertDec(t, "4062.5", b.TotalPay)
}

func TestCalculate_AllTiersAndDefaultRules(t *testing.T) {
	c := newCalc()

	b, err := c.Calculate("ZZ", dec("16000"), timesheet.Hours{
		Regular:        dec("8"),
		Overtime:       dec("1"),
		DoubleOvertime: dec("1"),
		NightShift:     dec("2"),
	})
	require.NoError(t, err)

	assert.True(t, b.DefaultRulesUsed)
	assertDec(t, "100", b.HourlyRate)
	assertDec(t, "800", b.Regular.Amount)
	assertDec(t, "150", b.Overtime.Amount)
	assertDec(t, "200", b.DoubleOvertime.Amount)
	assertDec(t, "220", b.NightShift.Amount)
	assertDec(t, "1370", b.TotalPay)
}

func TestCalculate_RoundsOnlyAtOutput(t *testing.T) {
	c := newCalc()

	// 10000/160 = 62.5; overtime rate 78.125 rounds to 78.13 for display but
	// 3h are paid at the exact rate: 234.375 -> 234.38.
	b, err := c.Calculate("PH", dec("10000"), timesheet.Hours{Overtime: dec("3")})
	require.NoError(t, err)
	assertDec(t, "78.13", b.Overtime.Rate)
	assertDec(t, "234.38", b.Overtime.Amount)

	// 33333/160 = 208.33125; 7 regular hours = 1458.31875 -> 1458.32
	b, err = c.Calculate("PH", dec("33333"), timesheet.Hours{Regular: dec("7")})
	require.NoError(t, err)
	assertDec(t, "208.33", b.HourlyRate)
	assertDec(t, "1458.32", b.TotalPay)
}

func TestCalculate_HoursPerMonthOverride(t *testing.T) {
	c := newCalc(WithHoursPerMonth(208))

	b, err := c.Calculate("IN", dec("52000"), timesheet.Hours{Regular: dec("8")})
	require.NoError(t, err)
	assertDec(t, "250", b.HourlyRate)
	assertDec(t, "2000", b.TotalPay)
	assertDec(t, "208", b.HoursPerMonth)

	ignored := newCalc(WithHoursPerMonth(0))
	b, err = ignored.Calculate("IN", dec("1600"), timesheet.Hours{})
	require.NoError(t, err)
	assertDec(t, "10", b.HourlyRate)
}

func TestCalculate_RejectsNegativeInput(t *testing.T) {
	c := newCalc()

	_, err := c.Calculate("PH", dec("-1"), timesheet.Hours{})
	assert.ErrorIs(t, err, timesheet.ErrNegativeBasicSalary)

	_, err = c.Calculate("PH", dec("1000"), timesheet.Hours{NightShift: dec("-2")})
	assert.ErrorIs(t, err, timesheet.ErrNegativeHours)
}

func TestValidateHours(t *testing.T) {
	c := newCalc()

	cases := []struct {
		name      string
		country   string
		regular   string
		overtime  string
		double    string
		valid     bool
		numErrors int
	}{
		{"normal PH day", "PH", "8", "2", "0", true, 0},
		{"negative overtime", "PH", "8", "-1", "0", false, 1},
		{"over 24 in one field", "ZZ", "25", "0", "0", false, 2},
		{"sum over 24", "ZZ", "8", "8", "9", false, 1},
		{"IN regular ceiling", "IN", "10", "0", "0", false, 1},
		{"IN combined ceiling", "IN", "9", "2", "0", false, 1},
		{"PH combined ceiling", "PH", "8", "3", "2", false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := c.ValidateHours(tc.country, dec(tc.regular), dec(tc.overtime), dec(tc.double))
			assert.Equal(t, tc.valid, v.Valid)
			assert.Len(t, v.Errors, tc.numErrors, v.Errors)
		})
	}
}

func TestSummarize(t *testing.T) {
	c := newCalc()

	sum := c.Summarize([]timesheet.Entry{
		{Hours: timesheet.Hours{Regular: dec("8"), Overtime: dec("1.5")}},
		{Hours: timesheet.Hours{Regular: dec("8"), NightShift: dec("2")}},
		{Hours: timesheet.Hours{Regular: dec("4"), DoubleOvertime: dec("3")}},
	})

	assertDec(t, "20", sum.Regular)
	assertDec(t, "1.5", sum.Overtime)
	assertDec(t, "3", sum.DoubleOvertime)
	assertDec(t, "2", sum.NightShift)
	assert.True(t, timesheet.Hours{}.IsZero())
}
