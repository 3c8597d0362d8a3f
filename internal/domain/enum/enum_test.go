package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringToleratesOutOfRangeValues(t *testing.T) {
	// Scan accepts whatever integer the database holds, so String must
	// not panic on values outside the known range.
	assert.Equal(t, "Unknown", PaymentMode(99).String())
	assert.Equal(t, "Unknown", PaymentMode(-1).String())
	assert.Equal(t, "Unknown", SaleStatus(99).String())
	assert.Equal(t, "Unknown", DiscountKind(99).String())

	assert.Equal(t, "Cash", PaymentModeCash.String())
	assert.Equal(t, "Paid", SaleStatusPaid.String())
	assert.Equal(t, "FixedAmount", DiscountKindFixedAmount.String())
}

func TestParsePaymentModeAcceptsSnakeCase(t *testing.T) {
	mode, err := ParsePaymentMode("store_credit")
	assert.NoError(t, err)
	assert.Equal(t, PaymentModeStoreCredit, mode)

	_, err = ParsePaymentMode("bitcoin")
	assert.Error(t, err)
}
