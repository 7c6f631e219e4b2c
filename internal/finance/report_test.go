package finance_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SimonSchneider/finlife/internal/finance"
)

func newTestReport(t *testing.T) *finance.Report {
	t.Helper()
	r := finance.NewReport("test")
	for key, sem := range map[string]finance.Semantic{
		"account":  finance.SavingAbs,
		"input":    finance.InputCum,
		"interest": finance.WinCum,
		"points":   finance.None,
	} {
		if err := r.AddSemantics(key, sem); err != nil {
			t.Fatalf("failed to tag %s: %s", key, err)
		}
	}
	entries := []finance.Status{
		{Date: day(2016, time.September, 1), Values: map[string]float64{"account": 100, "input": 0, "points": 1}},
		{Date: day(2016, time.September, 15), Values: map[string]float64{"account": 300, "input": 200, "points": 2}},
		{Date: day(2016, time.October, 15), Values: map[string]float64{"account": 500, "input": 200}, Meta: finance.Meta{"type": "income"}},
		{Date: day(2016, time.December, 31), Values: map[string]float64{"account": 501, "interest": 1}},
		{Date: day(2017, time.January, 15), Values: map[string]float64{"account": 700, "input": 200}, Meta: finance.Meta{"type": "income"}},
		{Date: day(2017, time.January, 20), Values: map[string]float64{"input": 50}, Labels: map[string]string{"description": "bonus"}},
	}
	for _, s := range entries {
		r.Append(s)
	}
	return r
}

func TestResampleYearly(t *testing.T) {
	y := newTestReport(t).Yearly()
	if y.Len() != 2 {
		t.Fatalf("expected 2 yearly entries, got %d", y.Len())
	}
	if got := y.Dates(); got[0] != day(2016, time.December, 31) || got[1] != day(2017, time.January, 20) {
		t.Errorf("buckets are dated %v, expected the last entry of each year", got)
	}
	if got := y.Get("input"); got[0] != 400 || got[1] != 250 {
		t.Errorf("cumulative input is %v, expected [400 250]", got)
	}
	// The last 2017 entry has no account, the value from January 15 is kept.
	if got := y.Get("account"); got[0] != 501 || got[1] != 700 {
		t.Errorf("absolute account is %v, expected [501 700]", got)
	}
	for _, s := range y.Entries() {
		if s.Has("points") || s.Has("description") {
			t.Errorf("untagged and none fields should be dropped, got %v %v", s.Values, s.Labels)
		}
		if s.Meta != nil {
			t.Errorf("resampled entries carry no metadata, got %v", s.Meta)
		}
	}
}

func TestResampleMonthly(t *testing.T) {
	r := newTestReport(t)
	m := r.Monthly()
	if m.Len() != 4 {
		t.Fatalf("expected 4 monthly entries, got %d", m.Len())
	}
	if got := m.Get("input"); fmt.Sprint(got) != "[200 200 0 250]" {
		t.Errorf("monthly input is %v", got)
	}
	if got := m.Get("interest"); fmt.Sprint(got) != "[0 0 1 0]" {
		t.Errorf("monthly interest is %v", got)
	}
	if got := m.Get("account"); fmt.Sprint(got) != "[300 500 501 700]" {
		t.Errorf("monthly account is %v", got)
	}
	if r.Resample(finance.Daily) != r {
		t.Errorf("daily resampling should return the report itself")
	}
	if got := m.SemanticsOf("input"); got != finance.InputCum {
		t.Errorf("resampled report lost its tags, input is %q", got)
	}
}

func TestSubsetAndSumOf(t *testing.T) {
	r := newTestReport(t)
	income := r.Subset(func(s finance.Status) bool { return s.Meta["type"] == "income" })
	if income.Len() != 2 {
		t.Fatalf("expected 2 income entries, got %d", income.Len())
	}
	if got := sum(income.Get("input")); got != 400 {
		t.Errorf("income input sums to %f, expected 400", got)
	}
	if got := r.SumOf("input"); got != 650 {
		t.Errorf("sum of input is %f, expected 650", got)
	}
	// saving_abs takes the last entry, which does not carry the account.
	if got := r.SumOf("saving"); got != 0 {
		t.Errorf("sum of saving is %f, expected 0", got)
	}
	if got := income.SumOf("saving"); got != 700 {
		t.Errorf("sum of saving over the income entries is %f, expected 700", got)
	}
	if got := finance.NewReport("empty").SumOf("input"); got != 0 {
		t.Errorf("empty report sums to %f", got)
	}
}

func TestReportKeysAndTags(t *testing.T) {
	r := newTestReport(t)
	if got := fmt.Sprint(r.Keys()); got != "[account input points interest description]" {
		t.Errorf("keys are %s", got)
	}
	if got := fmt.Sprint(r.KeysOf(finance.InputCum)); got != "[input]" {
		t.Errorf("input keys are %s", got)
	}
	if err := r.AddSemantics("x", "bogus"); !errors.Is(err, finance.ErrUnknownSemantic) {
		t.Errorf("expected ErrUnknownSemantic, got %v", err)
	}
}

func TestAppendRejectsEarlierDate(t *testing.T) {
	r := newTestReport(t)
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic when appending a date before the last entry")
		}
	}()
	r.Append(finance.Status{Date: day(2016, time.January, 1)})
}

func TestParseNames(t *testing.T) {
	for _, in := range []string{"daily", "Monthly", "YEARLY"} {
		if _, err := finance.ParseInterval(in); err != nil {
			t.Errorf("ParseInterval(%q) failed: %s", in, err)
		}
	}
	if _, err := finance.ParseInterval("weekly"); !errors.Is(err, finance.ErrUnsupportedInterval) {
		t.Errorf("expected ErrUnsupportedInterval, got %v", err)
	}
	if s, err := finance.ParseSemantic("debtpayment_cum"); err != nil || s != finance.DebtPaymentCum {
		t.Errorf("ParseSemantic = %s, %v", s, err)
	}
	if _, err := finance.ParseSemantic("Saving_abs"); !errors.Is(err, finance.ErrUnknownSemantic) {
		t.Errorf("semantics are case sensitive, got %v", err)
	}
}
