package request

import (
	"math"

	"github.com/google/uuid"
)

// AddLineRequest adds a packaging unit to a draft sale
type AddLineRequest struct {
	PackagingUnitID uuid.UUID `json:"packaging_unit_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateLineRequest changes the quantity of an existing sale line
type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ApplyDiscountRequest sets the sale-level discount. For percentage
// discounts the value is whole percent points; for fixed discounts it
// is an amount in euros.
type ApplyDiscountRequest struct {
	Kind  string  `json:"kind" binding:"required,oneof=percentage fixed_amount"`
	Value float64 `json:"value" binding:"required,gt=0"`
}

// PercentValue returns the percentage as whole points. Fractional
// percentages are rejected rather than silently truncated.
func (r *ApplyDiscountRequest) PercentValue() (int64, bool) {
	if r.Value != math.Trunc(r.Value) {
		return 0, false
	}
	return int64(r.Value), true
}

// RecordPaymentRequest records one payment against a sale. Amount and
// amount_tendered are in euros. amount_tendered only applies to cash.
type RecordPaymentRequest struct {
	Mode           string   `json:"mode" binding:"required,oneof=cash card check store_credit"`
	Amount         float64  `json:"amount" binding:"omitempty,gt=0"`
	Reference      *string  `json:"reference" binding:"omitempty,max=255"`
	AmountTendered *float64 `json:"amount_tendered" binding:"omitempty,gt=0"`
}

// SaleFilterRequest represents sale list filter parameters
type SaleFilterRequest struct {
	Status  string `form:"status" binding:"omitempty,oneof=draft paid cancelled"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
