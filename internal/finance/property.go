package finance

import (
	"fmt"
	"math"

	"github.com/SimonSchneider/goslu/date"
)

// Property tracks the share of a property that is owned. The share grows with the
// fraction of the linked loan's original principal that has been paid back.
type Property struct {
	base
	value float64
	owned float64
	loan  *Loan
}

func NewProperty(name string, propertyValue, amount float64, loan *Loan, start date.Date, opts ...AccountOption) (*Property, error) {
	if loan == nil {
		return nil, fmt.Errorf("failed to create property %q: %w: no linked loan", name, ErrNilAccount)
	}
	if propertyValue <= amount {
		return nil, fmt.Errorf("failed to create property %q: %w: value %.2f must exceed the owned amount %.2f", name, ErrInvalidProperty, propertyValue, amount)
	}
	p := &Property{
		base:  newBase(KindProperty, name, start, 0, CentsOf(amount), opts),
		value: float64(CentsOf(propertyValue)),
		owned: float64(CentsOf(amount)),
		loan:  loan,
	}
	p.report.mustTag(map[string]Semantic{
		"account":        SavingAbs,
		"property_value": None,
	}, "account", "property_value")
	p.record()
	return p, nil
}

func (p *Property) Cents() Cents {
	return Cents(math.Round(p.owned))
}

func (p *Property) Balance() float64 {
	return p.owned / 100
}

func (p *Property) Loan() *Loan {
	return p.loan
}

func (p *Property) EndOfDay() {
	repaid := 1.0
	if p.loan.startCents != 0 {
		repaid = 1 - float64(p.loan.cents)/float64(p.loan.startCents)
	}
	next := float64(p.startCents) + repaid*(p.value-float64(p.startCents))
	if next != p.owned || p.isInterestDate() {
		p.owned = next
		p.record()
	}
}

func (p *Property) PaymentOutput(Transfer) TransferResult {
	return declined(TransferError, "properties cannot be involved in transfers")
}

func (p *Property) PaymentInput(Transfer) TransferResult {
	return declined(TransferError, "properties cannot be involved in transfers")
}

func (p *Property) ReturnMoney(Cents) {}

func (p *Property) record() {
	p.append(map[string]float64{
		"account":        p.owned / 100,
		"property_value": p.value / 100,
	}, nil, nil)
}

func (p *Property) Columns(Interval) []Column {
	return []Column{dateColumn, moneyColumn("account")}
}
