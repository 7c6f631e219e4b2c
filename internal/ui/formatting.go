package ui

import (
	"strings"

	"github.com/shopspring/decimal"
)

const Currency = "EUR"

// FormatMoney renders an amount with two decimals and the currency, e.g. "1000.00 EUR".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + Currency
}

// FormatWithThousands renders an amount with two decimals and comma grouping,
// e.g. "-12,345.60".
func FormatWithThousands(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	n := len(whole)
	var out []byte
	pre := n % 3
	if pre == 0 {
		pre = 3
	}
	out = append(out, whole[:pre]...)
	for i := pre; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, whole[i:i+3]...)
	}
	out = append(out, '.')
	out = append(out, frac...)
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
