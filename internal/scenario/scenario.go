// Package scenario reads simulation setups from JSON files.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/finlife/internal/ui"
	"github.com/SimonSchneider/goslu/date"
)

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrInvalid        = errors.New("invalid scenario")
)

// Amount is a money amount written as a number or an expression such as "2k-310".
type Amount string

func (a Amount) Float64() (float64, error) {
	if a == "" {
		return 0, nil
	}
	d, err := ui.ParseAmount(string(a))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// Date accepts 2016-09-01 and 01.09.2016.
type Date struct {
	date.Date
	set bool
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := calendar.Parse(s)
	if err != nil {
		return err
	}
	d.Date, d.set = parsed, true
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.set {
		return json.Marshal("")
	}
	return json.Marshal(calendar.Format(d.Date, time.DateOnly))
}

func (d Date) IsSet() bool {
	return d.set
}

func (d Date) or(fallback date.Date) date.Date {
	if d.set {
		return d.Date
	}
	return fallback
}

type Account struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Amount   Amount       `json:"amount"`
	Rate     float64      `json:"rate"`
	Start    Date         `json:"start"`
	Meta     finance.Meta `json:"meta,omitempty"`
	Interest date.Cron    `json:"interest_date,omitempty"`

	// property
	Value Amount `json:"value,omitempty"`
	Loan  string `json:"loan,omitempty"`

	// bauspar
	Sum      Amount  `json:"sum,omitempty"`
	Points   float64 `json:"points,omitempty"`
	Tariff   string  `json:"tariff,omitempty"`
	Allocate Date    `json:"allocate"`
}

// Sweep moves what exceeds Keep on the sender, at most Max when set.
type Sweep struct {
	Keep Amount `json:"keep"`
	Max  Amount `json:"max"`
}

type Payment struct {
	Name   string       `json:"name"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount Amount       `json:"amount"`
	Fixed  bool         `json:"fixed"`
	Meta   finance.Meta `json:"meta,omitempty"`

	// Sweep and Remaining replace Amount with a balance dependent one.
	Sweep     *Sweep `json:"sweep,omitempty"`
	Remaining Amount `json:"remaining,omitempty"`

	// One-time payments set Date, recurring ones Interval.
	Date      Date             `json:"date"`
	Interval  finance.Interval `json:"interval,omitempty"`
	Day       int              `json:"day,omitempty"`
	Start     Date             `json:"start"`
	Stop      Date             `json:"stop"`
	UntilPaid string           `json:"until_paid,omitempty"`
}

// TaxSettlement settles last year's income tax once a year. Income payments are
// the ones whose meta has type "income" and carries tax.brutto and tax.paid.
type TaxSettlement struct {
	Account   string `json:"account"`
	State     string `json:"state"`
	Year      int    `json:"year"`
	Splitting bool   `json:"splitting"`
	On        string `json:"on"`
}

type Scenario struct {
	Name     string         `json:"name"`
	Start    Date           `json:"start"`
	Accounts []Account      `json:"accounts"`
	Payments []Payment      `json:"payments"`
	Tax      *TaxSettlement `json:"tax,omitempty"`
}

func Load(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if !s.Start.IsSet() {
		return Scenario{}, fmt.Errorf("%w: missing start date", ErrInvalid)
	}
	return s, nil
}

type finisher interface {
	IsFinished() bool
}

type builder struct {
	sim      *finance.Simulation
	accounts map[string]finance.Account
}

// Build creates the simulation described by sc. Counterparties that are not
// declared as accounts become external accounts.
func (sc Scenario) Build(opts ...finance.Option) (*finance.Simulation, error) {
	if sc.Name != "" {
		opts = append([]finance.Option{finance.WithName(sc.Name)}, opts...)
	}
	b := &builder{
		sim:      finance.NewSimulation(sc.Start.Date, opts...),
		accounts: make(map[string]finance.Account),
	}
	for _, a := range sc.Accounts {
		if err := b.addAccount(a, sc.Start.Date); err != nil {
			return nil, err
		}
	}
	for i, p := range sc.Payments {
		if err := b.addPayment(p); err != nil {
			return nil, fmt.Errorf("failed to add payment %d (%s): %w", i, p.Name, err)
		}
	}
	if sc.Tax != nil {
		c, err := b.taxController(*sc.Tax)
		if err != nil {
			return nil, err
		}
		b.sim.AddController(c)
	}
	return b.sim, nil
}

func (b *builder) addAccount(a Account, start date.Date) error {
	if a.Name == "" {
		return fmt.Errorf("%w: account without name", ErrInvalid)
	}
	if _, ok := b.accounts[a.Name]; ok {
		return fmt.Errorf("%w: duplicate account %q", ErrInvalid, a.Name)
	}
	amount, err := a.Amount.Float64()
	if err != nil {
		return fmt.Errorf("failed to read amount of %s: %w", a.Name, err)
	}
	var opts []finance.AccountOption
	if a.Meta != nil {
		opts = append(opts, finance.WithAccountMeta(a.Meta))
	}
	if a.Interest != "" {
		opts = append(opts, finance.WithInterestDate(a.Interest))
	}
	opened := a.Start.or(start)
	var acc finance.Account
	switch a.Type {
	case finance.KindBank, "":
		acc = finance.NewBank(a.Name, amount, a.Rate, opened, opts...)
	case finance.KindLoan:
		acc = finance.NewLoan(a.Name, amount, a.Rate, opened, opts...)
	case finance.KindProperty:
		loan, ok := b.accounts[a.Loan].(*finance.Loan)
		if !ok {
			return fmt.Errorf("failed to create property %s: %w: %q is not a loan declared before it", a.Name, ErrUnknownAccount, a.Loan)
		}
		value, err := a.Value.Float64()
		if err != nil {
			return fmt.Errorf("failed to read value of %s: %w", a.Name, err)
		}
		if acc, err = finance.NewProperty(a.Name, value, amount, loan, opened, opts...); err != nil {
			return err
		}
	case finance.KindBauspar:
		sum, err := a.Sum.Float64()
		if err != nil {
			return fmt.Errorf("failed to read sum of %s: %w", a.Name, err)
		}
		contract, err := finance.NewBauspar(a.Name, amount, sum, a.Points, a.Tariff, opened, opts...)
		if err != nil {
			return err
		}
		if a.Allocate.IsSet() {
			b.sim.AddController(allocateOn(contract, a.Allocate.Date))
		}
		acc = contract
	default:
		return fmt.Errorf("%w: account %s has unknown type %q", ErrInvalid, a.Name, a.Type)
	}
	b.accounts[a.Name] = acc
	return b.sim.AddAccount(acc)
}

func allocateOn(contract *finance.Bauspar, day date.Date) finance.Controller {
	return func(s *finance.Simulation) error {
		if s.CurrentDate() != day {
			return nil
		}
		return contract.Allocate()
	}
}

func (b *builder) account(name string) (finance.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing counterparty", ErrInvalid)
	}
	if a, ok := b.accounts[name]; ok {
		return a, nil
	}
	e := finance.NewExternal(name)
	b.accounts[name] = e
	return e, nil
}

func (b *builder) addPayment(p Payment) error {
	from, err := b.account(p.From)
	if err != nil {
		return err
	}
	to, err := b.account(p.To)
	if err != nil {
		return err
	}
	amount, err := p.value(from, to)
	if err != nil {
		return err
	}
	opts := []finance.PaymentOption{finance.Named(p.Name)}
	if p.Fixed {
		opts = append(opts, finance.AsFixed())
	}
	if p.Meta != nil {
		opts = append(opts, finance.WithMeta(p.Meta))
	}
	if p.Interval == "" {
		if !p.Date.IsSet() {
			return fmt.Errorf("%w: one-time payment without date", ErrInvalid)
		}
		return b.sim.AddUnique(from, to, amount, p.Date.Date, opts...)
	}
	if p.Day != 0 {
		opts = append(opts, finance.OnDay(p.Day))
	}
	if p.Start.IsSet() {
		opts = append(opts, finance.StartingOn(p.Start.Date))
	}
	switch {
	case p.UntilPaid != "":
		target, ok := b.accounts[p.UntilPaid].(finisher)
		if !ok {
			return fmt.Errorf("%w: %q cannot be paid off", ErrUnknownAccount, p.UntilPaid)
		}
		opts = append(opts, finance.StopWhen(func(date.Date) bool { return target.IsFinished() }))
	case p.Stop.IsSet():
		opts = append(opts, finance.StopAt(p.Stop.Date))
	}
	return b.sim.AddRegular(from, to, amount, p.Interval, opts...)
}

func (p Payment) value(from, to finance.Account) (finance.Value, error) {
	switch {
	case p.Sweep != nil:
		keep, err := p.Sweep.Keep.Float64()
		if err != nil {
			return finance.Value{}, err
		}
		limit, err := p.Sweep.Max.Float64()
		if err != nil {
			return finance.Value{}, err
		}
		if p.Sweep.Max == "" {
			limit = math.Inf(1)
		}
		return finance.Computed(func() float64 {
			return math.Min(limit, math.Max(0, from.Balance()-keep))
		}), nil
	case p.Remaining != "":
		limit, err := p.Remaining.Float64()
		if err != nil {
			return finance.Value{}, err
		}
		return finance.Computed(func() float64 {
			return math.Min(limit, math.Max(0, -to.Balance()))
		}), nil
	case p.Amount == "":
		return finance.Value{}, fmt.Errorf("%w: payment without amount", ErrInvalid)
	}
	amount, err := p.Amount.Float64()
	if err != nil {
		return finance.Value{}, err
	}
	return finance.Fixed(amount), nil
}
