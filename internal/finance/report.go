package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
)

// Semantic tags a report field with what it means and how it aggregates:
// _abs fields are levels (latest wins), _cum fields are increments (summed).
type Semantic string

const (
	InputAbs       Semantic = "input_abs"
	InputCum       Semantic = "input_cum"
	OutputAbs      Semantic = "output_abs"
	OutputCum      Semantic = "output_cum"
	CostAbs        Semantic = "cost_abs"
	CostCum        Semantic = "cost_cum"
	WinAbs         Semantic = "win_abs"
	WinCum         Semantic = "win_cum"
	DebtAbs        Semantic = "debt_abs"
	DebtCum        Semantic = "debt_cum"
	DebtPaymentAbs Semantic = "debtpayment_abs"
	DebtPaymentCum Semantic = "debtpayment_cum"
	SavingAbs      Semantic = "saving_abs"
	SavingCum      Semantic = "saving_cum"
	None           Semantic = "none"
)

var Semantics = []Semantic{
	InputAbs, InputCum, OutputAbs, OutputCum, CostAbs, CostCum, WinAbs, WinCum,
	DebtAbs, DebtCum, DebtPaymentAbs, DebtPaymentCum, SavingAbs, SavingCum, None,
}

func (s Semantic) Cumulative() bool {
	return strings.HasSuffix(string(s), "_cum")
}

func (s Semantic) Absolute() bool {
	return strings.HasSuffix(string(s), "_abs")
}

func (s Semantic) valid() bool {
	for _, known := range Semantics {
		if s == known {
			return true
		}
	}
	return false
}

func ParseSemantic(s string) (Semantic, error) {
	if sem := Semantic(s); sem.valid() {
		return sem, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSemantic, s)
}

type Interval string

const (
	Daily   Interval = "daily"
	Monthly Interval = "monthly"
	Yearly  Interval = "yearly"
)

func ParseInterval(s string) (Interval, error) {
	switch i := Interval(strings.ToLower(s)); i {
	case Daily, Monthly, Yearly:
		return i, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedInterval, s)
}

// Meta is opaque data carried along with payments and report entries.
type Meta map[string]any

// Status is one report entry. Meta never takes part in aggregation.
type Status struct {
	Date   date.Date
	Values map[string]float64
	Labels map[string]string
	Meta   Meta
}

func (s Status) Value(key string) float64 {
	return s.Values[key]
}

func (s Status) Label(key string) string {
	return s.Labels[key]
}

func (s Status) Has(key string) bool {
	if _, ok := s.Values[key]; ok {
		return true
	}
	_, ok := s.Labels[key]
	return ok
}

type tags struct {
	byKey map[string]Semantic
	order []string
}

// Report is an append-only time series of Status entries with non-decreasing dates.
type Report struct {
	name    string
	entries []Status
	keys    []string
	known   map[string]bool
	tags    *tags
}

func NewReport(name string) *Report {
	return &Report{
		name:  name,
		known: make(map[string]bool),
		tags:  &tags{byKey: make(map[string]Semantic)},
	}
}

func (r *Report) Name() string {
	return r.name
}

func (r *Report) AddSemantics(key string, s Semantic) error {
	if !s.valid() {
		return fmt.Errorf("failed to tag %q: %w: %q", key, ErrUnknownSemantic, s)
	}
	if _, ok := r.tags.byKey[key]; !ok {
		r.tags.order = append(r.tags.order, key)
	}
	r.tags.byKey[key] = s
	return nil
}

func (r *Report) mustTag(pairs map[string]Semantic, order ...string) {
	for _, key := range order {
		if err := r.AddSemantics(key, pairs[key]); err != nil {
			panic(err)
		}
	}
}

// SemanticsOf returns the tag of key or the empty string for untagged keys.
func (r *Report) SemanticsOf(key string) Semantic {
	return r.tags.byKey[key]
}

// KeysOf lists the keys tagged with s in the order they were tagged.
func (r *Report) KeysOf(s Semantic) []string {
	var keys []string
	for _, key := range r.tags.order {
		if r.tags.byKey[key] == s {
			keys = append(keys, key)
		}
	}
	return keys
}

func (r *Report) Append(s Status) {
	if n := len(r.entries); n > 0 && s.Date.Before(r.entries[n-1].Date) {
		panic(fmt.Sprintf("report %q: entry for %s appended after %s", r.name, s.Date, r.entries[n-1].Date))
	}
	var fresh []string
	for key := range s.Values {
		if !r.known[key] {
			fresh = append(fresh, key)
		}
	}
	for key := range s.Labels {
		if !r.known[key] {
			fresh = append(fresh, key)
		}
	}
	sort.Strings(fresh)
	for _, key := range fresh {
		if r.known[key] {
			continue
		}
		r.known[key] = true
		r.keys = append(r.keys, key)
	}
	r.entries = append(r.entries, s)
}

func (r *Report) Len() int {
	return len(r.entries)
}

// Entries exposes the entries for reading; they must not be modified.
func (r *Report) Entries() []Status {
	return r.entries
}

func (r *Report) Last() (Status, bool) {
	if len(r.entries) == 0 {
		return Status{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Keys lists every field seen so far, in the order they first appeared.
func (r *Report) Keys() []string {
	return r.keys
}

func (r *Report) Get(key string) []float64 {
	values := make([]float64, len(r.entries))
	for i, s := range r.entries {
		values[i] = s.Values[key]
	}
	return values
}

func (r *Report) Labels(key string) []string {
	labels := make([]string, len(r.entries))
	for i, s := range r.entries {
		labels[i] = s.Labels[key]
	}
	return labels
}

func (r *Report) Dates() []date.Date {
	dates := make([]date.Date, len(r.entries))
	for i, s := range r.entries {
		dates[i] = s.Date
	}
	return dates
}

func (r *Report) Monthly() *Report {
	return r.Resample(Monthly)
}

func (r *Report) Yearly() *Report {
	return r.Resample(Yearly)
}

// Resample groups consecutive entries of the same month or year into one entry
// dated at the last entry of the group. Cumulative fields are summed, absolute
// fields keep the latest value seen in the group and everything else is dropped.
func (r *Report) Resample(interval Interval) *Report {
	if interval == Daily {
		return r
	}
	out := r.derive()
	var (
		bucket  = -1
		current Status
	)
	flush := func() {
		if bucket >= 0 {
			out.Append(current)
		}
	}
	for _, s := range r.entries {
		if b := bucketOf(s.Date, interval); b != bucket {
			flush()
			bucket = b
			current = Status{Values: make(map[string]float64)}
		}
		current.Date = s.Date
		for key, v := range s.Values {
			switch sem := r.SemanticsOf(key); {
			case sem.Cumulative():
				current.Values[key] += v
			case sem.Absolute():
				current.Values[key] = v
			}
		}
	}
	flush()
	return out
}

func bucketOf(d date.Date, interval Interval) int {
	y, m, _ := calendar.YMD(d)
	if interval == Yearly {
		return y
	}
	return y*12 + int(m-time.January)
}

// Subset is a read-only view on the entries matching pred. It shares the tags of r.
func (r *Report) Subset(pred func(Status) bool) *Report {
	out := r.derive()
	for _, s := range r.entries {
		if pred(s) {
			out.Append(s)
		}
	}
	return out
}

func (r *Report) derive() *Report {
	return &Report{
		name:  r.name,
		known: make(map[string]bool),
		tags:  r.tags,
	}
}

// SumOf adds up every field whose tag contains category: all entries of cumulative
// fields plus the latest value of absolute fields.
func (r *Report) SumOf(category string) float64 {
	last, ok := r.Last()
	if !ok {
		return 0
	}
	var sum float64
	for _, sem := range Semantics {
		if !strings.Contains(string(sem), category) {
			continue
		}
		for _, key := range r.KeysOf(sem) {
			switch {
			case sem.Cumulative():
				for _, v := range r.Get(key) {
					sum += v
				}
			case sem.Absolute():
				sum += last.Values[key]
			}
		}
	}
	return sum
}
