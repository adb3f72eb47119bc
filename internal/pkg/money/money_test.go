package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   string
	}{
		{"187.5", 2, "187.5"},
		{"0.125", 2, "0.13"},
		{"0.124", 2, "0.12"},
		{"1968.745", 2, "1968.75"},
		{"10.5", 0, "11"},
		{"2.675", -1, "2.68"},
		{"-0.005", 2, "0.00"},
		{"-0.015", 2, "-0.01"},
		{"-1968.746", 2, "-1968.75"},
		{"-10.5", 0, "-10"},
	}
	for _, c := range cases {
		got := Round(decimal.RequireFromString(c.in), c.places)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("Round(%s, %d) = %s, want %s", c.in, c.places, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(40), decimal.NewFromInt(50000))
	assert.True(t, got.Equal(decimal.NewFromInt(20000)), got.String())
}

func TestPercentChange(t *testing.T) {
	assert.True(t, PercentChange(decimal.Zero, decimal.NewFromInt(500)).IsZero())
	assert.True(t, PercentChange(decimal.NewFromInt(200), decimal.NewFromInt(250)).Equal(decimal.NewFromInt(25)))
	assert.True(t, PercentChange(decimal.NewFromInt(200), decimal.NewFromInt(150)).Equal(decimal.NewFromInt(-25)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₱1,968.75", Format(decimal.RequireFromString("1968.75"), "₱", 2))
	assert.Equal(t, "$1,234,567.89", Format(decimal.RequireFromString("1234567.891"), "$", 2))
	assert.Equal(t, "¥1,500", Format(decimal.RequireFromString("1499.6"), "¥", 0))
	assert.Equal(t, "-€12.50", Format(decimal.RequireFromString("-12.5"), "€", 2))
	assert.Equal(t, "$999.00", Format(decimal.RequireFromString("999"), "$", 2))
	assert.Equal(t, "$0.01", Format(decimal.RequireFromString("0.005"), "$", 2))
}

func TestFormat_KeepsAllSignificantDigits(t *testing.T) {
	amount := decimal.RequireFromString("123456789012345678901.23")
	assert.Equal(t, "₹123,456,789,012,345,678,901.23", Format(amount, "₹", 2))
	assert.Equal(t, "-₹98,765,432,109,876,543,210", Format(decimal.RequireFromString("-98765432109876543210.4"), "₹", 0))
}
