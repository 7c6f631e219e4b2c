package finance

import (
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/shopspring/decimal"
)

type PaymentSummary struct {
	ID      string      `json:"id"`
	From    string      `json:"from"`
	To      string      `json:"to"`
	Date    string      `json:"date"`
	Name    string      `json:"name"`
	Kind    PaymentKind `json:"kind"`
	Payment string      `json:"payment"`
	Fixed   bool        `json:"fixed"`
	Meta    Meta        `json:"meta,omitempty"`
}

type RuleSummary struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Name      string   `json:"name"`
	Interval  Interval `json:"interval"`
	Day       int      `json:"day"`
	DateStart string   `json:"date_start"`
	DateStop  string   `json:"date_stop"`
	Payment   string   `json:"payment"`
	Fixed     bool     `json:"fixed"`
	Meta      Meta     `json:"meta,omitempty"`
}

type AccountSummary struct {
	Index      int             `json:"index"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	StartValue decimal.Decimal `json:"start_value"`
	StartDate  string          `json:"start_date"`
	Balance    decimal.Decimal `json:"balance"`
	Tables     []TableSet      `json:"tables,omitempty"`
}

type Summary struct {
	Name     string           `json:"name"`
	Start    string           `json:"start"`
	Current  string           `json:"current"`
	Days     int              `json:"days"`
	Payments []PaymentSummary `json:"payments"`
	Rules    []RuleSummary    `json:"rules"`
	Accounts []AccountSummary `json:"accounts"`
}

// Summary describes the scheduled payments and the accounts of s. Tables are
// only rendered when withTables is set.
func (s *Simulation) Summary(withTables bool) Summary {
	sum := Summary{
		Name:     s.name,
		Start:    calendar.Format(s.start, time.DateOnly),
		Current:  calendar.Format(s.current, time.DateOnly),
		Days:     s.day,
		Payments: make([]PaymentSummary, 0, len(s.payments.Uniques())),
		Rules:    make([]RuleSummary, 0, len(s.payments.Rules())),
		Accounts: make([]AccountSummary, 0, len(s.accounts)),
	}
	for _, p := range s.payments.Uniques() {
		sum.Payments = append(sum.Payments, PaymentSummary{
			ID:      p.ID.String(),
			From:    p.From.Name(),
			To:      p.To.Name(),
			Date:    calendar.Format(p.Date, time.DateOnly),
			Name:    p.Name,
			Kind:    p.Kind,
			Payment: p.Amount.Display(),
			Fixed:   p.Fixed,
			Meta:    p.Meta,
		})
	}
	for _, r := range s.payments.Rules() {
		sum.Rules = append(sum.Rules, RuleSummary{
			ID:        r.ID.String(),
			From:      r.From.Name(),
			To:        r.To.Name(),
			Name:      r.Name,
			Interval:  r.Interval,
			Day:       r.Day,
			DateStart: calendar.Format(r.Start, time.DateOnly),
			DateStop:  r.Stop.Display(),
			Payment:   r.Amount.Display(),
			Fixed:     r.Fixed,
			Meta:      r.Meta,
		})
	}
	for i, a := range s.accounts {
		as := AccountSummary{
			Index:      i,
			Name:       a.Name(),
			Type:       a.Kind(),
			StartValue: a.StartBalance().Decimal(),
			StartDate:  calendar.Format(a.StartDate(), time.DateOnly),
			Balance:    a.Cents().Decimal(),
		}
		if withTables {
			as.Tables = AccountTables(a)
		}
		sum.Accounts = append(sum.Accounts, as)
	}
	return sum
}
