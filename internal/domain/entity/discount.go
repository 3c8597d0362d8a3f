package entity

import (
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
)

// Discount is the single sale-level reduction. Value is percentage
// points for Percentage and minor units for FixedAmount.
type Discount struct {
	Kind  enum.DiscountKind `json:"kind"`
	Value int64             `json:"value"`
}

// IsValid checks the input constraints: percentage in (0,100], fixed
// amount strictly positive.
func (d Discount) IsValid() bool {
	switch d.Kind {
	case enum.DiscountKindPercentage:
		return d.Value > 0 && d.Value <= 100
	case enum.DiscountKindFixedAmount:
		return d.Value > 0
	}
	return false
}

// Resolve computes the discount amount against a pre-discount subtotal.
// The result is always clamped to [0, subtotal] so a discount can zero
// a sale out but never push its total negative.
func (d Discount) Resolve(subtotal money.Money) money.Money {
	if subtotal.IsNegative() || subtotal.IsZero() {
		return money.Zero
	}
	var amount money.Money
	switch d.Kind {
	case enum.DiscountKindPercentage:
		amount = subtotal.Percent(d.Value)
	case enum.DiscountKindFixedAmount:
		amount = money.FromCents(d.Value)
	}
	if amount.IsNegative() {
		return money.Zero
	}
	return money.Min(amount, subtotal)
}
