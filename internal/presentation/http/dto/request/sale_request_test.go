package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDiscountRequestPercentValue(t *testing.T) {
	whole := ApplyDiscountRequest{Kind: "percentage", Value: 12}
	value, ok := whole.PercentValue()
	assert.True(t, ok)
	assert.Equal(t, int64(12), value)

	// 12.5% must be rejected, never truncated down to 12%.
	fractional := ApplyDiscountRequest{Kind: "percentage", Value: 12.5}
	_, ok = fractional.PercentValue()
	assert.False(t, ok)
}
