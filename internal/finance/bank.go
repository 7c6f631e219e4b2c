package finance

import (
	"math"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
)

// Bank is a plain account. It accepts every transfer in both directions and
// accrues interest daily on its balance.
type Bank struct {
	base
	cents   Cents
	pending float64
}

// NewBank opens a bank account with amount (currency units) at start. Rates
// above 1 are read as percentages.
func NewBank(name string, amount, rate float64, start date.Date, opts ...AccountOption) *Bank {
	b := &Bank{
		base:  newBase(KindBank, name, start, rate, CentsOf(amount), opts),
		cents: CentsOf(amount),
	}
	b.report.mustTag(map[string]Semantic{
		"account":         SavingAbs,
		"interest":        WinCum,
		"input":           InputCum,
		"output":          OutputCum,
		"foreign_account": None,
		"kind":            None,
		"description":     None,
	}, "account", "interest", "input", "output", "foreign_account", "kind", "description")
	b.record(0, 0, 0, Transfer{})
	return b
}

func (b *Bank) Cents() Cents {
	return b.cents
}

func (b *Bank) Balance() float64 {
	return b.cents.Float64()
}

func (b *Bank) PendingInterest() float64 {
	return b.pending / 100
}

func (b *Bank) EndOfDay() {
	b.pending += float64(b.cents) * (b.rate / float64(calendar.DaysInYear(calendar.Year(b.current))))
	if b.isInterestDate() {
		interest := b.pending
		b.cents = Cents(math.RoundToEven(float64(b.cents) + b.pending))
		b.pending = 0
		b.record(0, 0, roundCents(interest/100), Transfer{})
	}
}

func (b *Bank) PaymentOutput(t Transfer) TransferResult {
	return b.move(t)
}

func (b *Bank) PaymentInput(t Transfer) TransferResult {
	return b.move(t)
}

func (b *Bank) move(t Transfer) TransferResult {
	b.cents += t.Amount
	if t.Amount < 0 {
		b.record(0, t.Amount, 0, t)
	} else {
		b.record(t.Amount, 0, 0, t)
	}
	return moved(t.Amount)
}

func (b *Bank) ReturnMoney(amount Cents) {
	b.cents += amount
	b.record(amount, 0, 0, storno())
}

func (b *Bank) record(input, output Cents, interest float64, t Transfer) {
	b.append(map[string]float64{
		"account":  b.cents.Float64(),
		"interest": interest,
		"input":    input.Float64(),
		"output":   output.Float64(),
	}, transferLabels(t), t.Meta)
}

func storno() Transfer {
	return Transfer{Kind: Storno, Description: "transfer did not succeed"}
}

// Columns lays out the account table: transfer details are only shown per day.
func (b *Bank) Columns(interval Interval) []Column {
	if interval == Daily {
		return []Column{dateColumn, labelColumn("from", "foreign_account"), labelColumn("description", "description"),
			moneyColumn("input"), moneyColumn("output"), moneyColumn("interest"), moneyColumn("account")}
	}
	return []Column{dateColumn, moneyColumn("input"), moneyColumn("output"), moneyColumn("interest"), moneyColumn("account")}
}
