package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   int64
	}{
		{"whole", 10, 1000},
		{"two decimals", 999.99, 99999},
		{"one decimal", 0.1, 10},
		{"smallest", 0.01, 1},
		{"rounds up", 1.005, 101},
		{"binary noise", 19.99, 1999},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToCents(tc.amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToCents_Invalid(t *testing.T) {
	for _, amount := range []float64{0, -1, -0.01, math.NaN(), math.Inf(1), math.Inf(-1), 1e17} {
		_, err := ToCents(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, "999.99", FromCents(99999))
	assert.Equal(t, "0.05", FromCents(5))
	assert.Equal(t, "10.00", FromCents(1000))
	assert.Equal(t, "-3.07", FromCents(-307))
}

func TestRoundTrip(t *testing.T) {
	cents, err := ToCents(1234.56)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", FromCents(cents))
}
