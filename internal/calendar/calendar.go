package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/SimonSchneider/goslu/date"
)

var ErrInvalidDate = errors.New("invalid date")

var (
	// Max is the far-future sentinel used for exhausted payment cursors and open ended rules.
	Max = New(9999, time.December, 31)
	// DefaultStart is the start date of recurring rules that do not name one.
	DefaultStart = New(1971, time.January, 1)
)

const germanLayout = "02.01.2006"

// New builds a date from its calendar parts. The day must exist in the given month.
func New(year int, month time.Month, day int) date.Date {
	d, err := date.ParseDate(fmt.Sprintf("%04d-%02d-%02d", year, int(month), day))
	if err != nil {
		panic(fmt.Sprintf("calendar: %04d-%02d-%02d is not a valid date: %s", year, int(month), day, err))
	}
	return d
}

// Parse reads ISO dates (2016-09-01) and the dotted day-first form (01.09.2016).
func Parse(s string) (date.Date, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return New(t.Date()), nil
	}
	if t, err := time.Parse(germanLayout, s); err == nil {
		return New(t.Date()), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func YMD(d date.Date) (int, time.Month, int) {
	return d.ToStdTime().Date()
}

func Year(d date.Date) int {
	return d.ToStdTime().Year()
}

func Format(d date.Date, layout string) string {
	return d.ToStdTime().Format(layout)
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInYear is 366 when February of the year has 29 days.
func DaysInYear(year int) int {
	if DaysInMonth(year, time.February) == 29 {
		return 366
	}
	return 365
}

func IsEndOfMonth(d date.Date) bool {
	_, m, _ := YMD(d)
	_, next, _ := YMD(d.Add(date.Day))
	return m != next
}

// AddMonths moves d by n calendar months, clamping the day to the target month.
func AddMonths(d date.Date, n int) date.Date {
	y, m, day := YMD(d)
	idx := int(m) - 1 + n
	year := y + floorDiv(idx, 12)
	month := time.Month(idx - floorDiv(idx, 12)*12 + 1)
	return New(year, month, min(day, DaysInMonth(year, month)))
}

// AddYears moves d by n years, clamping Feb 29 in non leap years.
func AddYears(d date.Date, n int) date.Date {
	return AddMonths(d, 12*n)
}

// MonthDiff is the signed number of calendar months from a to b, ignoring the day.
func MonthDiff(a, b date.Date) int {
	ay, am, _ := YMD(a)
	by, bm, _ := YMD(b)
	return (by-ay)*12 + int(bm) - int(am)
}

func Later(a, b date.Date) date.Date {
	if a.After(b) {
		return a
	}
	return b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
