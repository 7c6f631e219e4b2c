package scenario

import (
	"fmt"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/finlife/internal/tax/germany"
	"github.com/SimonSchneider/goslu/date"
	"github.com/shopspring/decimal"
)

// OutcomeYearlyInterests marks loans whose interest reduces the taxable income.
const OutcomeYearlyInterests = "yearly_interests"

func taxField(m finance.Meta, key string) float64 {
	tax, _ := m["tax"].(map[string]any)
	switch v := tax[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func deductsInterest(a finance.Account) bool {
	tax, _ := a.Meta()["tax"].(map[string]any)
	return tax["outcome"] == OutcomeYearlyInterests
}

func (b *builder) taxController(cfg TaxSettlement) (finance.Controller, error) {
	account, ok := b.accounts[cfg.Account]
	if !ok {
		return nil, fmt.Errorf("failed to set up tax settlement: %w: %q", ErrUnknownAccount, cfg.Account)
	}
	state, err := b.account(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tax settlement: %w", err)
	}
	on := cfg.On
	if on == "" {
		on = "02-15"
	}
	when, err := time.Parse("01-02", on)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tax settlement: %w: settlement day %q", ErrInvalid, cfg.On)
	}
	year := cfg.Year
	if year == 0 {
		year = 2016
	}
	return func(s *finance.Simulation) error {
		y, m, d := calendar.YMD(s.CurrentDate())
		if m != when.Month() || d != when.Day() {
			return nil
		}
		lastYear := func(st finance.Status) bool { return calendar.Year(st.Date) == y-1 }
		var brutto, paid, interests float64
		for _, st := range s.Report().Subset(lastYear).Entries() {
			if st.Meta["type"] != "income" || st.Label("code") != finance.TransferOK.String() {
				continue
			}
			brutto += taxField(st.Meta, "brutto")
			paid += taxField(st.Meta, "paid")
		}
		for _, a := range s.Accounts() {
			if !deductsInterest(a) {
				continue
			}
			for _, v := range a.Report().Subset(lastYear).Get("interest") {
				interests += v
			}
		}
		relevant := brutto + interests
		tax, rate, err := germany.TaxToPay(year, decimal.NewFromFloat(relevant), cfg.Splitting)
		if err != nil {
			return err
		}
		diff := paid - tax.InexactFloat64()
		if diff == 0 {
			return nil
		}
		return s.AddUnique(state, account, finance.Fixed(diff), s.CurrentDate().Add(date.Day),
			finance.Named("Tax"), finance.AsFixed(), finance.WithMeta(finance.Meta{
				"taxpayment": map[string]any{
					"tax_relevant_money": relevant,
					"tax_to_pay":         tax.InexactFloat64(),
					"tax_percentage":     rate,
					"paid":               paid,
					"difference":         diff,
				},
			}))
	}, nil
}
