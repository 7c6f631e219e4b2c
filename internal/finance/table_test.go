package finance_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/finlife/internal/ui"
)

func newTableSimulation(t *testing.T) (*finance.Simulation, *finance.Bank, *finance.Loan) {
	t.Helper()
	s, _ := newSimulation(finance.WithName("Tables"))
	income := finance.NewExternal("Income")
	bank := finance.NewBank("Main", 1000, 0.01, startDate)
	loan := finance.NewLoan("Credit", 5000, 0.02, startDate)
	noErr(t, s.AddAccount(bank, loan))
	noErr(t, s.AddRegular(income, bank, finance.Fixed(2000), finance.Monthly, finance.Named("Salary"), finance.StartingOn(startDate)))
	noErr(t, s.AddRegular(bank, loan, finance.Fixed(1000), finance.Monthly, finance.Named("Repay"), finance.OnDay(2),
		finance.StartingOn(startDate), finance.StopAt(day(2017, time.March, 1))))
	noErr(t, s.AddUnique(income, bank, finance.Fixed(500), day(2016, time.December, 24), finance.Named("Gift"), finance.AsFixed()))
	simulate(t, s, finance.Until(day(2017, time.June, 1)))
	return s, bank, loan
}

func TestAccountTableLayouts(t *testing.T) {
	_, bank, loan := newTableSimulation(t)
	tests := []struct {
		account  finance.Account
		interval finance.Interval
		header   string
		rows     int
	}{
		{bank, finance.Daily, "[date from description input output interest account]", bank.Report().Len()},
		{bank, finance.Monthly, "[date input output interest account]", 9},
		{bank, finance.Yearly, "[date input output interest account]", 2},
		{loan, finance.Daily, "[date from description payment interest account]", loan.Report().Len()},
		{loan, finance.Yearly, "[date payment interest account]", 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.account.Name(), tt.interval), func(t *testing.T) {
			table := finance.AccountTable(tt.account, tt.interval)
			if got := fmt.Sprint(table.Header); got != tt.header {
				t.Errorf("header is %s, expected %s", got, tt.header)
			}
			if len(table.Rows) != tt.rows {
				t.Errorf("table has %d rows, expected %d", len(table.Rows), tt.rows)
			}
		})
	}
}

func TestAccountTableCells(t *testing.T) {
	_, bank, _ := newTableSimulation(t)
	table := finance.AccountTable(bank, finance.Daily)
	first := table.Rows[0]
	if first[0] != "2016-09-01" || first[6] != "1000.00 EUR" {
		t.Errorf("opening row is %v", first)
	}
	second := table.Rows[1]
	if second[1] != "Income" || second[2] != "Salary" || second[3] != "2000.00 EUR" || second[6] != "3000.00 EUR" {
		t.Errorf("salary row is %v", second)
	}
	yearly := finance.AccountTable(bank, finance.Yearly)
	if got := yearly.Rows[0][0]; got != "2016-12-31" {
		t.Errorf("first yearly row is dated %s, expected the capitalization date", got)
	}
}

func TestReportTable(t *testing.T) {
	s, _, _ := newTableSimulation(t)
	table := s.Report().Table()
	if got := fmt.Sprint(table.Header); got != "[date code from_acc kind message name requested to_acc value]" {
		t.Errorf("header is %s", got)
	}
	// 9 salaries, 6 repayments and the gift.
	if len(table.Rows) != 16 {
		t.Errorf("expected 16 transfers, got %d", len(table.Rows))
	}
}

func TestChartSeries(t *testing.T) {
	_, bank, loan := newTableSimulation(t)
	series := finance.ChartSeries(finance.SavingAbs, ui.Cold, bank.Report(), loan.Report())
	if len(series) != 1 || series[0].Report != "Main" || series[0].Field != "account" {
		t.Fatalf("unexpected series %+v", series)
	}
	if got, want := series[0].Color, ui.SeriesColor(ui.Cold, 0, 0); got != want {
		t.Errorf("color is %s, expected %s", got, want)
	}
	if len(series[0].Timestamps) != bank.Report().Len() || len(series[0].Values) != bank.Report().Len() {
		t.Errorf("series is not aligned with the report")
	}
	if ts := series[0].Timestamps[0]; ts != startDate.ToStdTime().UnixMilli() {
		t.Errorf("first timestamp is %d", ts)
	}
	costs := finance.ChartSeries(finance.CostCum, ui.Warm, bank.Report(), loan.Report())
	if len(costs) != 1 || costs[0].Report != "Credit" || costs[0].Color != ui.SeriesColor(ui.Warm, 1, 0) {
		t.Errorf("unexpected cost series %+v", costs)
	}
}

func TestSummary(t *testing.T) {
	s, _, _ := newTableSimulation(t)
	summary := s.Summary(true)
	if summary.Name != "Tables" || summary.Start != "2016-09-01" || summary.Current != "2017-06-01" {
		t.Errorf("unexpected header %+v", summary)
	}
	if len(summary.Payments) != 1 || summary.Payments[0].Payment != "500.00" || !summary.Payments[0].Fixed {
		t.Errorf("unexpected payments %+v", summary.Payments)
	}
	if len(summary.Rules) != 2 || summary.Rules[0].DateStop != "" || summary.Rules[1].DateStop != "2017-03-01" {
		t.Errorf("unexpected rules %+v", summary.Rules)
	}
	if len(summary.Accounts) != 2 || summary.Accounts[1].Type != finance.KindLoan || !summary.Accounts[1].StartValue.Equal(finance.Cents(-500000).Decimal()) {
		t.Errorf("unexpected accounts %+v", summary.Accounts)
	}
	if len(summary.Accounts[0].Tables) != 3 {
		t.Errorf("expected yearly, monthly and daily tables, got %d", len(summary.Accounts[0].Tables))
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("failed to encode summary: %s", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to decode summary: %s", err)
	}
	if _, ok := decoded["accounts"]; !ok {
		t.Errorf("summary json lacks accounts: %s", raw)
	}
	if without := s.Summary(false); without.Accounts[0].Tables != nil {
		t.Errorf("tables should only be rendered on request")
	}
}
