package finance_test

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/goslu/date"
)

func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func day(year int, month time.Month, d int) date.Date {
	return calendar.New(year, month, d)
}

var startDate = day(2016, time.September, 1)

// logLines collects everything the simulation logs.
type logLines []string

func (l *logLines) Printf(format string, v ...any) {
	*l = append(*l, fmt.Sprintf(format, v...))
}

func (l *logLines) contains(s string) bool {
	for _, line := range *l {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func newSimulation(opts ...finance.Option) (*finance.Simulation, *logLines) {
	logs := &logLines{}
	return finance.NewSimulation(startDate, append([]finance.Option{finance.WithLogger(logs)}, opts...)...), logs
}

func simulate(t *testing.T, s *finance.Simulation, limits ...finance.Limit) finance.StopReason {
	t.Helper()
	reason, err := s.Simulate(context.Background(), limits...)
	if err != nil {
		t.Fatalf("failed to run simulation: %s", err)
	}
	return reason
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func isAround(value, target float64) bool {
	return math.Abs(value-target) < 1e-5
}

func noErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
