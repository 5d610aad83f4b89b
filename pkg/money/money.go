package money

import "fmt"

// Money is an amount in minor units (cents). All persisted monetary fields
// use this representation; dollars exist only at API boundaries.
type Money int64

// FromDollars converts a major-unit amount to cents with half-up rounding,
// so FromDollars(m.Dollars()) == m for every m.
func FromDollars(dollars float64) Money {
	if dollars < 0 {
		return -FromDollars(-dollars)
	}
	return Money(dollars*100 + 0.5)
}

// Dollars converts back to major units.
func (m Money) Dollars() float64 {
	return float64(m) / 100
}

// Cents returns the raw minor-unit value.
func (m Money) Cents() int64 {
	return int64(m)
}

// Percent returns pct percent of m, rounded half-up to the nearest cent.
// Percent(9999, 33) == 3300, matching currency display rounding.
func (m Money) Percent(pct int64) Money {
	raw := int64(m) * pct
	if raw < 0 {
		return Money(-((-raw + 50) / 100))
	}
	return Money((raw + 50) / 100)
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// String formats the amount as dollars, e.g. "33.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
