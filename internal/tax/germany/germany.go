// Package germany computes the German income tax owed for a year's taxable income.
package germany

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedYear = errors.New("unsupported tax year")

type taxFunc func(income decimal.Decimal) decimal.Decimal

var taxFunctions = map[int]taxFunc{
	2016: tax2016,
}

var (
	half = decimal.NewFromFloat(0.5)
	two  = decimal.NewFromInt(2)
)

// TaxToPay returns the tax due on income in year and the share of income it
// amounts to. With splitting the income is taxed as two halves, as for jointly
// assessed couples.
func TaxToPay(year int, income decimal.Decimal, splitting bool) (decimal.Decimal, float64, error) {
	f, ok := taxFunctions[year]
	if !ok {
		return decimal.Zero, 0, fmt.Errorf("failed to compute tax: %w: %d", ErrUnsupportedYear, year)
	}
	if !income.IsPositive() {
		return decimal.Zero, 0, nil
	}
	if splitting {
		tax := f(income.Mul(half)).Mul(two)
		return tax, tax.Div(income).InexactFloat64(), nil
	}
	tax := f(income)
	return tax.Truncate(2), tax.Div(income).InexactFloat64(), nil
}

// Years lists the years TaxToPay knows the tariff for.
func Years() []int {
	years := make([]int, 0, len(taxFunctions))
	for y := range taxFunctions {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

var (
	zone2016Top   = decimal.NewFromInt(250730)
	zone2016High  = decimal.NewFromInt(52881)
	zone2016Mid   = decimal.NewFromInt(13469)
	zone2016Entry = decimal.NewFromInt(8472)
)

func tax2016(x decimal.Decimal) decimal.Decimal {
	switch {
	case x.GreaterThan(zone2016Top):
		return x.Mul(decimal.RequireFromString("0.45")).Sub(decimal.RequireFromString("15783.19"))
	case x.GreaterThan(zone2016High):
		return x.Mul(decimal.RequireFromString("0.42")).Sub(decimal.RequireFromString("8261.29"))
	case x.GreaterThan(zone2016Mid):
		y := x.Sub(zone2016Mid)
		return y.Mul(y.Mul(decimal.RequireFromString("0.0000022874")).Add(decimal.RequireFromString("0.2397"))).
			Add(decimal.RequireFromString("948.68"))
	case x.GreaterThan(zone2016Entry):
		y := x.Sub(zone2016Entry)
		return y.Mul(y.Mul(decimal.RequireFromString("0.000009976")).Add(decimal.RequireFromString("0.14")))
	default:
		return decimal.Zero
	}
}
