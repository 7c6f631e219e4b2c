package finance

import (
	"fmt"

	"github.com/SimonSchneider/goslu/date"
	"github.com/SimonSchneider/goslu/sid"
)

const (
	KindBank     = "bank"
	KindLoan     = "loan"
	KindProperty = "property"
	KindBauspar  = "bauspar"
	KindExternal = "external"
)

// DefaultInterestDate is when accrued interest is capitalized unless an account says otherwise.
const DefaultInterestDate date.Cron = "*-12-31"

type TransferCode int

const (
	TransferOK TransferCode = iota
	TransferNotAllowed
	TransferNotEnoughMoney
	TransferError
)

func (c TransferCode) String() string {
	switch c {
	case TransferOK:
		return "OK"
	case TransferNotAllowed:
		return "Not allowed"
	case TransferNotEnoughMoney:
		return "Not enough money"
	default:
		return "Error"
	}
}

// Transfer is one side of a money movement as seen by an account. Amount is
// negative when money leaves the account.
type Transfer struct {
	Counterparty string
	Amount       Cents
	Kind         PaymentKind
	Description  string
	Fixed        bool
	Meta         Meta
}

// TransferResult tells the orchestrator what an account did with a transfer.
// Amount is the signed amount that was actually moved.
type TransferResult struct {
	Code    TransferCode
	Amount  Cents
	Message string
}

func moved(amount Cents) TransferResult {
	return TransferResult{Code: TransferOK, Amount: amount}
}

func declined(code TransferCode, message string) TransferResult {
	return TransferResult{Code: code, Message: message}
}

type Account interface {
	Name() string
	Kind() string
	StartDate() date.Date
	StartBalance() Cents
	Cents() Cents
	// Balance is the current balance in currency units, as used by computed payment amounts.
	Balance() float64
	Report() *Report
	Meta() Meta

	SetDate(day date.Date) error
	StartOfDay()
	EndOfDay()
	PaymentOutput(t Transfer) TransferResult
	PaymentInput(t Transfer) TransferResult
	ReturnMoney(amount Cents)
}

type AccountOption func(*base)

func WithAccountMeta(meta Meta) AccountOption {
	return func(b *base) {
		b.meta = meta
	}
}

// WithInterestDate sets when accrued interest is folded into the balance.
func WithInterestDate(cron date.Cron) AccountOption {
	return func(b *base) {
		b.interestDate = cron
	}
}

type base struct {
	name         string
	kind         string
	start        date.Date
	current      date.Date
	dated        bool
	rate         float64
	startCents   Cents
	meta         Meta
	interestDate date.Cron
	report       *Report
}

func newBase(kind, name string, start date.Date, rate float64, startCents Cents, opts []AccountOption) base {
	if name == "" {
		name = sid.MustNewString(8)
	}
	b := base{
		name:         name,
		kind:         kind,
		start:        start,
		current:      start,
		rate:         normalizeRate(rate),
		startCents:   startCents,
		meta:         Meta{},
		interestDate: DefaultInterestDate,
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.report = NewReport(b.name)
	return b
}

func (b *base) Name() string           { return b.name }
func (b *base) Kind() string           { return b.kind }
func (b *base) StartDate() date.Date   { return b.start }
func (b *base) StartBalance() Cents    { return b.startCents }
func (b *base) Report() *Report        { return b.report }
func (b *base) Meta() Meta             { return b.meta }
func (b *base) Rate() float64          { return b.rate }
func (b *base) CurrentDate() date.Date { return b.current }

func (b *base) String() string {
	return fmt.Sprintf("%s(%s)", b.kind, b.name)
}

// SetDate moves the account to day. Any step other than exactly one day after the
// previous call is reported as ErrDateGap; the date is taken anyway.
func (b *base) SetDate(day date.Date) error {
	prev, dated := b.current, b.dated
	b.current, b.dated = day, true
	if dated && prev.Add(date.Day) != day {
		return fmt.Errorf("%w: %s moved from %s to %s", ErrDateGap, b.name, prev, day)
	}
	return nil
}

func (b *base) StartOfDay() {}

func (b *base) isInterestDate() bool {
	return b.interestDate.Matches(b.current)
}

func (b *base) append(values map[string]float64, labels map[string]string, meta Meta) {
	b.report.Append(Status{Date: b.current, Values: values, Labels: labels, Meta: meta})
}

func transferLabels(t Transfer) map[string]string {
	return map[string]string{
		"foreign_account": t.Counterparty,
		"kind":            string(t.Kind),
		"description":     t.Description,
	}
}

// External is a named counterparty outside the simulation, such as an employer
// or the state. It provides and accepts any amount and keeps no balance.
type External struct {
	base
}

func NewExternal(name string) *External {
	return &External{base: newBase(KindExternal, name, 0, 0, 0, nil)}
}

func (e *External) Cents() Cents                            { return 0 }
func (e *External) Balance() float64                        { return 0 }
func (e *External) SetDate(date.Date) error                 { return nil }
func (e *External) EndOfDay()                               {}
func (e *External) ReturnMoney(Cents)                       {}
func (e *External) PaymentOutput(t Transfer) TransferResult { return moved(t.Amount) }
func (e *External) PaymentInput(t Transfer) TransferResult  { return moved(t.Amount) }
