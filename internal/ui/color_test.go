package ui

import "testing"

func TestSeriesColor(t *testing.T) {
	tests := []struct {
		theme         Theme
		report, field int
		want          string
	}{
		{Cold, 0, 0, "#9e63e7"},
		{Cold, 1, 2, "#aaa9f5"},
		{Cold, 5, 0, "#9e63e7"},
		{Warm, 2, 9, "#ebbb82"},
		{Gray, 3, 7, "#4d4d4d"},
		{Theme(42), 0, 0, "#a2a2a2"},
	}
	for _, tt := range tests {
		if got := SeriesColor(tt.theme, tt.report, tt.field); got != tt.want {
			t.Errorf("SeriesColor(%d, %d, %d) = %s, want %s", tt.theme, tt.report, tt.field, got, tt.want)
		}
	}
}

func TestContrastTextColor(t *testing.T) {
	for hex, want := range map[string]string{
		"#ffffff": "#000",
		"#050596": "#fff",
		"e2f5a8":  "#000",
		"#zzz":    "#000",
	} {
		if got := ContrastTextColor(hex); got != want {
			t.Errorf("ContrastTextColor(%s) = %s, want %s", hex, got, want)
		}
	}
}
