package finance

import (
	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
)

type cursor interface {
	// peek returns the pending payment, or false once the cursor is exhausted.
	peek() (Payment, bool)
	advance()
}

type uniqueCursor struct {
	payment Payment
	done    bool
}

func (c *uniqueCursor) peek() (Payment, bool) {
	return c.payment, !c.done
}

func (c *uniqueCursor) advance() {
	c.done = true
}

// ruleCursor walks the occurrences of a rule. Occurrence n is month (or year) n
// after the first one, with the anchor day clamped to the length of that month.
type ruleCursor struct {
	rule  *Rule
	month date.Date
	day   int
	step  int
	next  Payment
	done  bool
}

func newRuleCursor(rule *Rule, from date.Date) *ruleCursor {
	start := calendar.Later(from, rule.Start)
	y, m, d := calendar.YMD(start)
	c := &ruleCursor{rule: rule}
	switch rule.Interval {
	case Yearly:
		_, sm, sd := calendar.YMD(rule.Start)
		c.month, c.day = calendar.New(y, sm, 1), sd
		if c.occurrence().Before(start) {
			c.step = 1
		}
	default:
		c.month, c.day = calendar.New(y, m, 1), rule.Day
		if d > rule.Day {
			c.step = 1
		}
	}
	c.load()
	return c
}

func (c *ruleCursor) occurrence() date.Date {
	months := c.step
	if c.rule.Interval == Yearly {
		months *= 12
	}
	y, m, _ := calendar.YMD(calendar.AddMonths(c.month, months))
	return calendar.New(y, m, min(c.day, calendar.DaysInMonth(y, m)))
}

// load evaluates the stop condition for the current occurrence. Predicates are
// only asked when the cursor moves, so they see the state after the previous
// occurrence was executed.
func (c *ruleCursor) load() {
	day := c.occurrence()
	if !c.rule.Stop.continues(day) {
		c.done = true
		return
	}
	c.next = c.rule.payment(day)
}

func (c *ruleCursor) peek() (Payment, bool) {
	return c.next, !c.done
}

func (c *ruleCursor) advance() {
	if c.done {
		return
	}
	c.step++
	c.load()
}

// Schedule is a k-way merge over payment cursors. The pending batch holds every
// cursor whose payment falls on the earliest pending date: one-time payments
// first, then rules in the order they were added.
type Schedule struct {
	cursors []cursor
	due     date.Date
	batch   []int
}

func newSchedule(cursors []cursor) *Schedule {
	s := &Schedule{cursors: cursors}
	s.collect()
	return s
}

func (s *Schedule) collect() {
	s.due = calendar.Max
	s.batch = s.batch[:0]
	for i, c := range s.cursors {
		p, ok := c.peek()
		if !ok {
			continue
		}
		switch {
		case p.Date.Before(s.due):
			s.due = p.Date
			s.batch = append(s.batch[:0], i)
		case p.Date == s.due:
			s.batch = append(s.batch, i)
		}
	}
}

// Date is the date of the pending batch, calendar.Max once everything is exhausted.
func (s *Schedule) Date() date.Date {
	return s.due
}

func (s *Schedule) Done() bool {
	return len(s.batch) == 0
}

func (s *Schedule) Batch() []Payment {
	payments := make([]Payment, 0, len(s.batch))
	for _, i := range s.batch {
		p, _ := s.cursors[i].peek()
		payments = append(payments, p)
	}
	return payments
}

// Advance moves the cursors of the pending batch and collects the next batch.
func (s *Schedule) Advance() {
	for _, i := range s.batch {
		s.cursors[i].advance()
	}
	s.collect()
}
