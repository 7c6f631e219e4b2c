package finance

import (
	"math"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
)

// Loan is debt taken at start. Its balance is negative while money is owed. It
// only accepts payments, and never more than what is still owed.
type Loan struct {
	base
	cents   Cents
	pending float64
}

func NewLoan(name string, amount, rate float64, start date.Date, opts ...AccountOption) *Loan {
	l := &Loan{
		base:  newBase(KindLoan, name, start, rate, -CentsOf(amount), opts),
		cents: -CentsOf(amount),
	}
	l.report.mustTag(map[string]Semantic{
		"account":         DebtAbs,
		"payment":         DebtPaymentCum,
		"interest":        CostCum,
		"foreign_account": None,
		"kind":            None,
		"description":     None,
	}, "account", "payment", "interest", "foreign_account", "kind", "description")
	l.record(0, 0, Transfer{})
	return l
}

// Cents includes interest that accrued but was not capitalized yet.
func (l *Loan) Cents() Cents {
	return Cents(float64(l.cents) + l.pending)
}

func (l *Loan) Balance() float64 {
	return (float64(l.cents) + l.pending) / 100
}

func (l *Loan) IsFinished() bool {
	return float64(l.cents)+l.pending >= 0
}

func (l *Loan) EndOfDay() {
	l.pending += float64(l.cents) * (l.rate / float64(calendar.DaysInYear(calendar.Year(l.current))))
	if l.isInterestDate() || l.cents > 0 {
		interest := l.pending
		l.cents = Cents(math.RoundToEven(float64(l.cents) + l.pending))
		l.pending = 0
		l.record(0, roundCents(interest/100), Transfer{})
	}
}

func (l *Loan) PaymentOutput(Transfer) TransferResult {
	return declined(TransferNotAllowed, "credit cannot be increased")
}

func (l *Loan) PaymentInput(t Transfer) TransferResult {
	owed := -(float64(l.cents) + l.pending)
	if owed <= 0 {
		return declined(TransferNotAllowed, "no credit to pay for")
	}
	if float64(t.Amount) <= owed {
		l.cents += t.Amount
		l.record(t.Amount, 0, t)
		return moved(t.Amount)
	}
	accepted := Cents(math.Ceil(owed))
	if t.Fixed {
		return TransferResult{Code: TransferOK, Amount: accepted, Message: "only the outstanding credit can be paid"}
	}
	interest := l.pending
	l.cents = Cents(float64(l.cents) + l.pending + float64(accepted))
	l.pending = 0
	t.Description += " + interests"
	l.record(accepted, roundCents(interest/100), t)
	return moved(accepted)
}

func (l *Loan) ReturnMoney(amount Cents) {
	l.cents += amount
	l.record(amount, 0, storno())
}

func (l *Loan) record(payment Cents, interest float64, t Transfer) {
	l.append(map[string]float64{
		"account":  l.cents.Float64(),
		"payment":  payment.Float64(),
		"interest": interest,
	}, transferLabels(t), t.Meta)
}

func (l *Loan) Columns(interval Interval) []Column {
	if interval == Daily {
		return []Column{dateColumn, labelColumn("from", "foreign_account"), labelColumn("description", "description"),
			moneyColumn("payment"), moneyColumn("interest"), moneyColumn("account")}
	}
	return []Column{dateColumn, moneyColumn("payment"), moneyColumn("interest"), moneyColumn("account")}
}
