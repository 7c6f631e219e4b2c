package germany_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/SimonSchneider/finlife/internal/tax/germany"
	"github.com/shopspring/decimal"
)

func TestTaxToPay2016(t *testing.T) {
	tests := []struct {
		income    string
		splitting bool
		tax       string
	}{
		{"-100", false, "0"},
		{"0", false, "0"},
		{"8000", false, "0"},
		{"10000", false, "237.21"},
		{"30000", false, "5536.24"},
		{"60000", false, "16938.71"},
		{"300000", false, "119216.81"},
		{"60000", true, "11072.4951167828"},
		{"16000", true, "0"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("income %s splitting %v", tt.income, tt.splitting), func(t *testing.T) {
			income := decimal.RequireFromString(tt.income)
			tax, rate, err := germany.TaxToPay(2016, income, tt.splitting)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if want := decimal.RequireFromString(tt.tax); !tax.Equal(want) {
				t.Errorf("tax is %s, expected %s", tax, want)
			}
			if income.IsPositive() && tax.IsPositive() {
				if want := tax.InexactFloat64() / income.InexactFloat64(); math.Abs(rate-want) > 1e-6 {
					t.Errorf("rate is %f, expected %f", rate, want)
				}
			} else if rate != 0 {
				t.Errorf("rate is %f, expected 0", rate)
			}
		})
	}
}

func TestTaxToPayUnsupportedYear(t *testing.T) {
	if _, _, err := germany.TaxToPay(2031, decimal.NewFromInt(30000), false); !errors.Is(err, germany.ErrUnsupportedYear) {
		t.Errorf("expected ErrUnsupportedYear, got %v", err)
	}
	if years := germany.Years(); len(years) != 1 || years[0] != 2016 {
		t.Errorf("expected only 2016 to be supported, got %v", years)
	}
}
