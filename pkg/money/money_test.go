package money_test

import (
	"testing"

	"github.com/sangkips/receipt-studio/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"12.50", "12.5", true},
		{" 3 ", "3", true},
		{"-4.25", "-4.25", true},
		{"", "0", false},
		{"   ", "0", false},
		{"abc", "0", false},
		{"NaN", "0", false},
		{"1.2.3", "0", false},
		{"1e-10000000", "0", false},
		{"1e10000000", "0", false},
		{"1e-30", "0.000000000000000000000000000001", true},
		{"1e-31", "0", false},
		{"12345678901234567890123456789012345678901", "0", false},
	}

	for _, tc := range cases {
		got, ok := money.Parse(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "raw %q got %s", tc.raw, got)
	}
}

func TestFormatGroupsThousands(t *testing.T) {
	assert.Equal(t, "$0.00", money.Format(decimal.Zero))
	assert.Equal(t, "$6.60", money.Format(decimal.RequireFromString("6.6")))
	assert.Equal(t, "$999.99", money.Format(decimal.RequireFromString("999.994")))
	assert.Equal(t, "$1,000.00", money.Format(decimal.RequireFromString("999.995")))
	assert.Equal(t, "$1,234.56", money.Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "$1,234,567.89", money.Format(decimal.RequireFromString("1234567.891")))
}

func TestFormatNegativeDoesNotPanic(t *testing.T) {
	assert.Equal(t, "-$12.00", money.Format(decimal.NewFromInt(-12)))
	assert.Equal(t, "-$1,500.25", money.Format(decimal.RequireFromString("-1500.25")))
	assert.Equal(t, "$0.00", money.Format(decimal.RequireFromString("-0.001")))
}

func TestRoundUpToTen(t *testing.T) {
	assert.Equal(t, "30", money.RoundUpToTen(decimal.RequireFromString("23.40")).String())
	assert.Equal(t, "50", money.RoundUpToTen(decimal.NewFromInt(50)).String())
	assert.Equal(t, "10", money.RoundUpToTen(decimal.RequireFromString("0.01")).String())
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "1234.50", money.Fixed(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", money.Fixed(decimal.Zero))
}
