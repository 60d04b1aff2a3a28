// Package money converts between user-facing decimal prices and the
// int64 cent amounts stored in the database.
package money

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// ToCents converts a decimal price (like 999.99) to cents.
// Amounts must be positive and fit into an int64 with room to spare.
func ToCents(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > 9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}

	return int64(math.Round(amount * 100.0)), nil
}

// FromCents renders cents as a plain decimal string without going
// through floating point.
func FromCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
