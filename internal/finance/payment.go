package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
	"github.com/google/uuid"
)

type PaymentKind string

const (
	Unique  PaymentKind = "unique"
	Regular PaymentKind = "regular"
	Storno  PaymentKind = "storno"
)

// Payment is the intent to move money from one account to another on a date.
type Payment struct {
	ID     uuid.UUID
	From   Account
	To     Account
	Date   date.Date
	Name   string
	Kind   PaymentKind
	Amount Value
	Fixed  bool
	Meta   Meta
}

// StopCondition ends a recurring rule either at a date (exclusive) or once a
// predicate over the candidate date returns true.
type StopCondition struct {
	date date.Date
	pred func(day date.Date) bool
}

func (s StopCondition) continues(day date.Date) bool {
	if s.pred != nil {
		return !s.pred(day)
	}
	return day.Before(s.date)
}

// Display is the stop date, or empty for open ended and data dependent conditions.
func (s StopCondition) Display() string {
	if s.pred != nil || s.date == calendar.Max {
		return ""
	}
	return calendar.Format(s.date, time.DateOnly)
}

// Rule generates a payment every month or year until its stop condition holds.
type Rule struct {
	ID       uuid.UUID
	From     Account
	To       Account
	Interval Interval
	Day      int
	Start    date.Date
	Stop     StopCondition
	Amount   Value
	Name     string
	Fixed    bool
	Meta     Meta
}

func (r *Rule) payment(day date.Date) Payment {
	return Payment{
		ID:     r.ID,
		From:   r.From,
		To:     r.To,
		Date:   day,
		Name:   r.Name,
		Kind:   Regular,
		Amount: r.Amount,
		Fixed:  r.Fixed,
		Meta:   r.Meta,
	}
}

type paymentSettings struct {
	name  string
	fixed bool
	meta  Meta
	day   int
	start date.Date
	stop  StopCondition
}

type PaymentOption func(*paymentSettings)

func Named(name string) PaymentOption {
	return func(s *paymentSettings) {
		s.name = name
	}
}

// AsFixed requires the full amount to be moved; anything else aborts the simulation.
func AsFixed() PaymentOption {
	return func(s *paymentSettings) {
		s.fixed = true
	}
}

func WithMeta(meta Meta) PaymentOption {
	return func(s *paymentSettings) {
		s.meta = meta
	}
}

// OnDay sets the day of month of a monthly rule.
func OnDay(day int) PaymentOption {
	return func(s *paymentSettings) {
		s.day = day
	}
}

// StartingOn sets the first date a rule may produce a payment. Yearly rules
// repeat on the month and day of this date.
func StartingOn(day date.Date) PaymentOption {
	return func(s *paymentSettings) {
		s.start = day
	}
}

func StopAt(day date.Date) PaymentOption {
	return func(s *paymentSettings) {
		s.stop = StopCondition{date: day}
	}
}

// StopWhen ends a rule at the first candidate date for which stop returns true.
func StopWhen(stop func(day date.Date) bool) PaymentOption {
	return func(s *paymentSettings) {
		s.stop = StopCondition{pred: stop}
	}
}

func newSettings(opts []PaymentOption) paymentSettings {
	s := paymentSettings{
		day:   1,
		start: calendar.DefaultStart,
		stop:  StopCondition{date: calendar.Max},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.meta == nil {
		s.meta = Meta{}
	}
	return s
}

// PaymentList holds one-time payments sorted by date and recurring rules in
// insertion order.
type PaymentList struct {
	uniques []Payment
	rules   []*Rule
	logger  Logger
}

func NewPaymentList(logger Logger) *PaymentList {
	if logger == nil {
		logger = defaultLogger
	}
	return &PaymentList{logger: logger}
}

func validateParties(from, to Account) error {
	if from == nil || to == nil {
		return fmt.Errorf("%w: sender and receiver are required", ErrNilAccount)
	}
	return nil
}

func (l *PaymentList) AddUnique(from, to Account, amount Value, day date.Date, opts ...PaymentOption) (Payment, error) {
	if err := validateParties(from, to); err != nil {
		return Payment{}, fmt.Errorf("failed to add payment: %w", err)
	}
	if !amount.Valid() {
		return Payment{}, fmt.Errorf("failed to add payment: %w", ErrInvalidAmount)
	}
	s := newSettings(opts)
	p := Payment{
		ID:     uuid.New(),
		From:   from,
		To:     to,
		Date:   day,
		Name:   s.name,
		Kind:   Unique,
		Amount: amount,
		Fixed:  s.fixed,
		Meta:   s.meta,
	}
	i := sort.Search(len(l.uniques), func(i int) bool {
		return l.uniques[i].Date.After(day)
	})
	l.uniques = append(l.uniques, Payment{})
	copy(l.uniques[i+1:], l.uniques[i:])
	l.uniques[i] = p
	return p, nil
}

func (l *PaymentList) AddRegular(from, to Account, amount Value, interval Interval, opts ...PaymentOption) (*Rule, error) {
	if err := validateParties(from, to); err != nil {
		return nil, fmt.Errorf("failed to add rule: %w", err)
	}
	if !amount.Valid() {
		return nil, fmt.Errorf("failed to add rule: %w", ErrInvalidAmount)
	}
	if interval != Monthly && interval != Yearly {
		return nil, fmt.Errorf("failed to add rule: %w: %q", ErrUnsupportedInterval, interval)
	}
	s := newSettings(opts)
	if s.day < 1 || s.day > 31 {
		return nil, fmt.Errorf("failed to add rule: %w: %d", ErrInvalidDay, s.day)
	}
	if s.day >= 29 {
		l.logger.Printf("warning: rule %q is anchored on day %d, shorter months pay on their last day", s.name, s.day)
	}
	r := &Rule{
		ID:       uuid.New(),
		From:     from,
		To:       to,
		Interval: interval,
		Day:      s.day,
		Start:    s.start,
		Stop:     s.stop,
		Amount:   amount,
		Name:     s.name,
		Fixed:    s.fixed,
		Meta:     s.meta,
	}
	l.rules = append(l.rules, r)
	return r, nil
}

func (l *PaymentList) Uniques() []Payment {
	return l.uniques
}

func (l *PaymentList) Rules() []*Rule {
	return l.rules
}

// Schedule merges all payments due on or after from.
func (l *PaymentList) Schedule(from date.Date) *Schedule {
	var cursors []cursor
	for _, p := range l.uniques {
		if !p.Date.Before(from) {
			cursors = append(cursors, &uniqueCursor{payment: p})
		}
	}
	for _, r := range l.rules {
		cursors = append(cursors, newRuleCursor(r, from))
	}
	return newSchedule(cursors)
}
