package money

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in minor units (cents).
// All arithmetic stays in integer cents; decimal math is only used at
// the points where rounding rules apply (percentages, parsing).
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// FromCents builds a Money from an amount in minor units.
func FromCents(cents int64) Money {
	return Money(cents)
}

// FromDecimal converts a decimal amount (e.g. 12.34) to Money,
// rounding half-up to 2 decimal places.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(2).Shift(2).IntPart())
}

// FromFloat converts a float amount (API input boundary) to Money.
func FromFloat(f float64) Money {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns the amount as an exact 2-decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Float64 returns the amount as a float for display boundaries only.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(qty int) Money {
	return m * Money(qty)
}

// Percent returns pct percent of m, rounded half-up to 2 decimals.
func (m Money) Percent(pct int64) Money {
	d := m.Decimal().
		Mul(decimal.NewFromInt(pct)).
		Div(decimal.NewFromInt(100))
	return FromDecimal(d)
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount with 2 decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a 2-decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a decimal number and stores it as cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*m = FromDecimal(d)
	return nil
}
