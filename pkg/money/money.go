// Package money parses and formats currency amounts for receipts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is prefixed to every formatted amount.
const Symbol = "$"

// Bounds on parseable input.
const (
	maxInputLen = 40
	maxExponent = 30
)

var (
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

// Parse converts raw user input into an amount. Empty or unparseable input
// reports ok=false so callers can substitute their own default, as do values
// whose exponent lies outside ±30.
func Parse(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxInputLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

// ParseOr is Parse with a fallback value.
func ParseOr(raw string, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := Parse(raw); ok {
		return d
	}
	return fallback
}

// Percent returns amount * rate / 100 at full precision.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// RoundUpToTen rounds a positive amount up to the next multiple of ten.
// Exact multiples are returned unchanged.
func RoundUpToTen(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(ten).Ceil().Mul(ten)
}

// Fixed renders the amount with exactly two fractional digits and no grouping,
// e.g. "1234.50".
func Fixed(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Format renders the amount as "$1,234.56". Negative amounts render as
// "-$1,234.56".
func Format(amount decimal.Decimal) string {
	s := Group(amount)
	if strings.HasPrefix(s, "-") {
		return "-" + Symbol + s[1:]
	}
	return Symbol + s
}

// Group renders the amount with two fractional digits and comma thousands
// separators, without a currency symbol.
func Group(amount decimal.Decimal) string {
	fixed := amount.Round(2).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if neg && strings.Trim(intPart+frac, "0") == "" {
		neg = false
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
