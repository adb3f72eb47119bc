package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPrecision applies when a currency carries no precision of its own.
const DefaultPrecision int32 = 2

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Round rounds half up to places decimals: ties go toward positive infinity,
// so -0.005 becomes 0.00.
func Round(amount decimal.Decimal, places int32) decimal.Decimal {
	if places < 0 {
		places = DefaultPrecision
	}
	return amount.Shift(places).Add(half).Floor().Shift(-places)
}

// Round2 rounds to DefaultPrecision.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return Round(amount, DefaultPrecision)
}

// Percent returns value percent of base without intermediate rounding.
func Percent(value, base decimal.Decimal) decimal.Decimal {
	return base.Mul(value).Div(hundred)
}

// PercentChange returns (to-from)/from*100, or zero when from is zero.
func PercentChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(hundred)
}

// Format renders amount with symbol and grouped digits, e.g. "₱1,968.75".
// Output is presentational only.
func Format(amount decimal.Decimal, symbol string, places int32) string {
	if places < 0 {
		places = DefaultPrecision
	}
	rounded := Round(amount, places)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	digits := rounded.StringFixed(places)
	intPart, frac, hasFrac := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(symbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
