package ui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"123", "123"},
		{"-42.50", "-42.5"},
		{"1e2", "100"},
		{"  99  ", "99"},
		{"1.5k", "1500"},
		{"2M", "2000000"},
		{"100_000", "100000"},
		{"2000-500", "1500"},
		{"1+2*3", "7"},
		{"(100+50)*1.23", "184.5"},
		{"500+23+43-294*1.23", "204.38"},
		{"-5+3", "-2"},
		{"5*-2", "-10"},
		{"8k-4k/2", "6000"},
		{"0.1+0.2", "0.3"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("expression %q = %s", tt.in, tt.want), func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if err != nil {
				t.Fatalf("ParseAmount(%q) err = %v", tt.in, err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, want)
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"abc",
		"1+",
		"1++2",
		"(1",
		"1)",
		")(",
		"1/0",
		"12EUR",
	}
	for _, in := range invalid {
		t.Run(fmt.Sprintf("invalid %q", in), func(t *testing.T) {
			if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q) expected ErrInvalidAmount, got %v", in, err)
			}
		})
	}
}

func TestParseAmount_Division(t *testing.T) {
	got, err := ParseAmount("10/4")
	if err != nil {
		t.Fatalf("ParseAmount(10/4) err = %v", err)
	}
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("ParseAmount(10/4) = %s, want 2.5", got)
	}
}
