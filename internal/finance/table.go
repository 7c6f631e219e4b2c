package finance

import (
	"strconv"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/finlife/internal/ui"
	"github.com/SimonSchneider/goslu/date"
	"github.com/shopspring/decimal"
)

type columnKind int

const (
	columnDate columnKind = iota
	columnLabel
	columnMoney
	columnNumber
)

// Column selects and formats one field of a report for tabular output.
type Column struct {
	Header string
	Key    string
	kind   columnKind
}

var dateColumn = Column{Header: "date", kind: columnDate}

func labelColumn(header, key string) Column {
	return Column{Header: header, Key: key, kind: columnLabel}
}

func moneyColumn(key string) Column {
	return Column{Header: key, Key: key, kind: columnMoney}
}

func numberColumn(key string) Column {
	return Column{Header: key, Key: key, kind: columnNumber}
}

func (c Column) cell(s Status) string {
	switch c.kind {
	case columnDate:
		return calendar.Format(s.Date, time.DateOnly)
	case columnLabel:
		return s.Label(c.Key)
	case columnMoney:
		return ui.FormatMoney(decimal.NewFromFloat(s.Value(c.Key)))
	default:
		return strconv.FormatFloat(s.Value(c.Key), 'f', 2, 64)
	}
}

type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func (r *Report) TableOf(columns []Column) Table {
	t := Table{Header: make([]string, len(columns)), Rows: make([][]string, 0, len(r.entries))}
	for i, c := range columns {
		t.Header[i] = c.Header
	}
	for _, s := range r.entries {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = c.cell(s)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Columns is the generic layout: the date followed by every known field.
// Untagged text fields are shown as is, fields tagged none as plain numbers.
func (r *Report) Columns() []Column {
	columns := []Column{dateColumn}
	for _, key := range r.keys {
		switch {
		case r.isLabel(key):
			columns = append(columns, labelColumn(key, key))
		case r.SemanticsOf(key) == None:
			columns = append(columns, numberColumn(key))
		default:
			columns = append(columns, moneyColumn(key))
		}
	}
	return columns
}

func (r *Report) isLabel(key string) bool {
	for _, s := range r.entries {
		if _, ok := s.Labels[key]; ok {
			return true
		}
	}
	return false
}

func (r *Report) Table() Table {
	return r.TableOf(r.Columns())
}

type columnLayout interface {
	Columns(interval Interval) []Column
}

// AccountTable is the report of a resampled to interval, laid out for the kind of account.
func AccountTable(a Account, interval Interval) Table {
	r := a.Report().Resample(interval)
	if l, ok := a.(columnLayout); ok {
		return r.TableOf(l.Columns(interval))
	}
	return r.Table()
}

type TableSet struct {
	Interval Interval `json:"interval"`
	Table    Table    `json:"table"`
}

func AccountTables(a Account) []TableSet {
	var sets []TableSet
	for _, interval := range []Interval{Yearly, Monthly, Daily} {
		sets = append(sets, TableSet{Interval: interval, Table: AccountTable(a, interval)})
	}
	return sets
}

// Series is one field of one report prepared for plotting.
type Series struct {
	Report     string    `json:"report"`
	Field      string    `json:"field"`
	Color      string    `json:"color"`
	TextColor  string    `json:"text_color"`
	Timestamps []int64   `json:"timestamps"`
	Values     []float64 `json:"values"`
}

// ChartSeries returns a series for every field tagged tag in each report.
func ChartSeries(tag Semantic, theme ui.Theme, reports ...*Report) []Series {
	var series []Series
	for j, r := range reports {
		for i, key := range r.KeysOf(tag) {
			color := ui.SeriesColor(theme, j, i)
			series = append(series, Series{
				Report:     r.Name(),
				Field:      key,
				Color:      color,
				TextColor:  ui.ContrastTextColor(color),
				Timestamps: timestamps(r.Dates()),
				Values:     r.Get(key),
			})
		}
	}
	return series
}

func timestamps(days []date.Date) []int64 {
	ts := make([]int64, len(days))
	for i, day := range days {
		ts[i] = day.ToStdTime().UnixMilli()
	}
	return ts
}
