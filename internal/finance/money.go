package finance

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Cents is an amount of money in minor units.
type Cents int64

// CentsOf converts a currency amount to cents, dropping fractions of a cent.
// The conversion goes through the shortest decimal form of amount so 0.29 stays
// 29 cents.
func CentsOf(amount float64) Cents {
	return Cents(decimal.NewFromFloat(amount).Shift(2).IntPart())
}

func (c Cents) Float64() float64 {
	return float64(c) / 100
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// roundCents rounds a currency amount to two decimals the way %.2f does.
func roundCents(amount float64) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(amount, 'f', 2, 64), 64)
	if err != nil {
		return math.Round(amount*100) / 100
	}
	return f
}

func normalizeRate(rate float64) float64 {
	if rate > 1 {
		return rate / 100
	}
	return rate
}
