package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	a := FromCents(1050) // 10.50
	b := FromCents(450)  // 4.50

	assert.Equal(t, FromCents(1500), a.Add(b))
	assert.Equal(t, FromCents(600), a.Sub(b))
	assert.Equal(t, FromCents(3150), a.MulInt(3))
}

func TestPercentRoundsHalfUp(t *testing.T) {
	// 10% of 100.00 = 10.00
	assert.Equal(t, FromCents(1000), FromCents(10000).Percent(10))
	// 15% of 0.10 = 0.015 -> rounds up to 0.02
	assert.Equal(t, FromCents(2), FromCents(10).Percent(15))
	// 5% of 0.10 = 0.005 -> half rounds up to 0.01
	assert.Equal(t, FromCents(1), FromCents(10).Percent(5))
	// 33% of 18.50 = 6.105 -> 6.11
	assert.Equal(t, FromCents(611), FromCents(1850).Percent(33))
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, FromCents(1850), FromFloat(18.50))
	assert.Equal(t, FromCents(2000), FromFloat(20))
	// Classic float representation trap: 19.99 must not truncate to 19.98.
	assert.Equal(t, FromCents(1999), FromFloat(19.99))
}

func TestString(t *testing.T) {
	assert.Equal(t, "10.50", FromCents(1050).String())
	assert.Equal(t, "0.00", Zero.String())
	assert.Equal(t, "-1.50", FromCents(-150).String())
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(FromCents(1850))
	require.NoError(t, err)
	assert.Equal(t, "18.50", string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("18.50"), &m))
	assert.Equal(t, FromCents(1850), m)
}

func TestMin(t *testing.T) {
	assert.Equal(t, FromCents(5000), Min(FromCents(8000), FromCents(5000)))
	assert.Equal(t, FromCents(5000), Min(FromCents(5000), FromCents(8000)))
}
