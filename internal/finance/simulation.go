package finance

import (
	"context"
	"fmt"
	"math"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
	"github.com/SimonSchneider/goslu/sid"
)

// MaxDays bounds the number of days a simulation can ever run, counted from its
// start, so that rules whose stop condition never holds still terminate.
const MaxDays = 36_500

// Controller runs once per simulated day, before the day's transfers. It may
// inspect the simulation and schedule new payments.
type Controller func(s *Simulation) error

type StopReason int

const (
	StopDate StopReason = iota
	StopDays
	StopCeiling
	StopAborted
)

func (r StopReason) String() string {
	switch r {
	case StopDate:
		return "stop date reached"
	case StopDays:
		return "day budget used"
	case StopCeiling:
		return "safety ceiling reached"
	default:
		return "aborted"
	}
}

type horizon struct {
	stop date.Date
	days int
}

type Limit func(*horizon)

// Until stops before simulating day.
func Until(day date.Date) Limit {
	return func(h *horizon) {
		h.stop = day
	}
}

// For simulates at most days days.
func For(days int) Limit {
	return func(h *horizon) {
		h.days = days
	}
}

type Option func(*Simulation)

func WithName(name string) Option {
	return func(s *Simulation) {
		s.name = name
	}
}

func WithSimulationMeta(meta Meta) Option {
	return func(s *Simulation) {
		s.meta = meta
	}
}

func WithLogger(logger Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithRecorder streams every transfer attempt to rec, and the balances of all
// open accounts on the days matching snapshots.
func WithRecorder(rec Recorder, snapshots date.Cron) Option {
	return func(s *Simulation) {
		s.recorder = rec
		s.snapshots = snapshots
	}
}

func WithMaxDays(days int) Option {
	return func(s *Simulation) {
		s.maxDays = days
	}
}

type Simulation struct {
	name        string
	meta        Meta
	start       date.Date
	current     date.Date
	day         int
	maxDays     int
	accounts    []Account
	payments    *PaymentList
	schedule    *Schedule
	controllers []Controller
	report      *Report
	logger      Logger
	recorder    Recorder
	snapshots   date.Cron
}

func NewSimulation(start date.Date, opts ...Option) *Simulation {
	s := &Simulation{
		name:     "Simulation " + sid.MustNewString(6),
		meta:     Meta{},
		start:    start,
		current:  start,
		maxDays:  MaxDays,
		logger:   defaultLogger,
		recorder: CompositeRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = defaultLogger
	}
	s.payments = NewPaymentList(s.logger)
	s.report = NewReport(s.name)
	s.report.mustTag(map[string]Semantic{
		"value":     InputCum,
		"requested": None,
		"from_acc":  None,
		"to_acc":    None,
		"kind":      None,
		"name":      None,
		"code":      None,
		"message":   None,
	}, "value", "requested", "from_acc", "to_acc", "kind", "name", "code", "message")
	return s
}

func (s *Simulation) Name() string           { return s.name }
func (s *Simulation) Meta() Meta             { return s.meta }
func (s *Simulation) StartDate() date.Date   { return s.start }
func (s *Simulation) CurrentDate() date.Date { return s.current }
func (s *Simulation) Day() int               { return s.day }
func (s *Simulation) Report() *Report        { return s.report }
func (s *Simulation) Payments() *PaymentList { return s.payments }
func (s *Simulation) Accounts() []Account    { return s.accounts }

func (s *Simulation) AddAccount(accounts ...Account) error {
	for _, a := range accounts {
		if a == nil {
			return fmt.Errorf("failed to add account: %w", ErrNilAccount)
		}
		s.accounts = append(s.accounts, a)
	}
	return nil
}

func (s *Simulation) Account(name string) (Account, bool) {
	for _, a := range s.accounts {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

func (s *Simulation) AddController(c Controller) {
	s.controllers = append(s.controllers, c)
}

// AddUnique schedules a one-time payment. Payments are not fixed unless AsFixed is given.
func (s *Simulation) AddUnique(from, to Account, amount Value, day date.Date, opts ...PaymentOption) error {
	if _, err := s.payments.AddUnique(from, to, amount, day, opts...); err != nil {
		return err
	}
	s.reschedule()
	return nil
}

func (s *Simulation) AddRegular(from, to Account, amount Value, interval Interval, opts ...PaymentOption) error {
	if _, err := s.payments.AddRegular(from, to, amount, interval, opts...); err != nil {
		return err
	}
	s.reschedule()
	return nil
}

func (s *Simulation) reschedule() {
	s.schedule = s.payments.Schedule(s.current)
}

// Simulate runs day by day until a limit is reached. It can be called again to
// continue where it stopped. Reaching MaxDays is a normal stop, reported as
// StopCeiling.
func (s *Simulation) Simulate(ctx context.Context, limits ...Limit) (StopReason, error) {
	h := horizon{stop: calendar.Max, days: math.MaxInt}
	for _, limit := range limits {
		limit(&h)
	}
	if s.schedule == nil {
		s.reschedule()
	}
	for elapsed := 0; ; elapsed++ {
		switch {
		case !s.current.Before(h.stop):
			return StopDate, nil
		case elapsed >= h.days:
			return StopDays, nil
		case s.day >= s.maxDays:
			return StopCeiling, nil
		}
		if err := s.step(); err != nil {
			return StopAborted, fmt.Errorf("failed to simulate %s: %w", s.current, err)
		}
		select {
		case <-ctx.Done():
			return StopAborted, ctx.Err()
		default:
		}
	}
}

func (s *Simulation) step() error {
	active := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if !a.StartDate().After(s.current) {
			active = append(active, a)
		}
	}
	for _, a := range active {
		if err := a.SetDate(s.current); err != nil {
			s.logger.Printf("warning: %s", err)
		}
	}
	for _, a := range active {
		a.StartOfDay()
	}
	for _, c := range s.controllers {
		if err := c(s); err != nil {
			return fmt.Errorf("failed to run controller: %w", err)
		}
	}
	if s.schedule.Date() == s.current {
		for _, p := range s.schedule.Batch() {
			if err := s.transfer(p); err != nil {
				return err
			}
		}
		s.schedule.Advance()
	}
	for _, a := range active {
		a.EndOfDay()
	}
	if s.snapshots != "" && s.snapshots.Matches(s.current) {
		for _, a := range active {
			if err := s.recorder.OnSnapshot(a.Name(), s.current, a.Cents()); err != nil {
				return fmt.Errorf("failed to record snapshot of %s: %w", a.Name(), err)
			}
		}
	}
	s.day++
	s.current = s.current.Add(date.Day)
	return nil
}
