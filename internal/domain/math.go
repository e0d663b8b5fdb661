package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SafeDivide divides a by b, returning zero when b is zero.
func SafeDivide(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// Percent returns part / whole * 100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// SumDecimals adds all values. An empty input sums to zero.
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
