package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in cents. Backend prices arrive as decimal numbers
// (28.99) and are rounded to the nearest cent on decode so that sums stay exact.
type Money int64

// maxAmount bounds decoded amounts in major units so the cent value stays
// exactly representable as a float64 and fits int64.
const maxAmount = 1e13

// MoneyFromFloat converts a decimal amount to cents.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

// Float64 returns the amount in major units.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

func (m Money) String() string {
	return strconv.FormatFloat(m.Float64(), 'f', 2, 64)
}

// MarshalJSON encodes the amount as a decimal number with two places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", string(b), err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxAmount {
		return fmt.Errorf("invalid amount %q: out of range", string(b))
	}
	*m = MoneyFromFloat(f)
	return nil
}
