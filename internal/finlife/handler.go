package finlife

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/finlife/internal/scenario"
	"github.com/SimonSchneider/finlife/internal/ui"
	"github.com/SimonSchneider/goslu/srvu"
	"github.com/gorilla/mux"
)

var themes = map[string]ui.Theme{
	"cold":       ui.Cold,
	"warm":       ui.Warm,
	"gray":       ui.Gray,
	"muted_cold": ui.MutedCold,
	"muted_warm": ui.MutedWarm,
}

// DefaultServeDays bounds the simulations of a handler created without limits.
const DefaultServeDays = 3650

// NewHandler serves summaries, tables and chart series of sc. Every request
// runs its own simulation of sc up to limits, or DefaultServeDays without any.
func NewHandler(sc scenario.Scenario, logger finance.Logger, limits ...finance.Limit) http.Handler {
	if len(limits) == 0 {
		limits = []finance.Limit{finance.For(DefaultServeDays)}
	}
	router := mux.NewRouter()
	router.Handle("/summary", HandlerSummary(sc, logger, limits)).Methods(http.MethodGet)
	router.Handle("/accounts/{name}/table", HandlerAccountTable(sc, logger, limits)).Methods(http.MethodGet)
	router.Handle("/charts/{semantic}", HandlerChart(sc, logger, limits)).Methods(http.MethodGet)
	return router
}

func simulate(ctx context.Context, sc scenario.Scenario, logger finance.Logger, limits []finance.Limit) (*finance.Simulation, error) {
	sim, err := sc.Build(finance.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	if _, err := sim.Simulate(ctx, limits...); err != nil {
		return nil, err
	}
	return sim, nil
}

func HandlerSummary(sc scenario.Scenario, logger finance.Logger, limits []finance.Limit) http.Handler {
	return srvu.ErrHandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		sim, err := simulate(ctx, sc, logger, limits)
		if err != nil {
			return err
		}
		return respondJSON(w, sim.Summary(r.URL.Query().Get("tables") == "true"))
	})
}

func HandlerAccountTable(sc scenario.Scenario, logger finance.Logger, limits []finance.Limit) http.Handler {
	return srvu.ErrHandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		interval := finance.Yearly
		if v := r.URL.Query().Get("interval"); v != "" {
			var err error
			if interval, err = finance.ParseInterval(v); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return nil
			}
		}
		sim, err := simulate(ctx, sc, logger, limits)
		if err != nil {
			return err
		}
		name := mux.Vars(r)["name"]
		a, ok := sim.Account(name)
		if !ok {
			http.Error(w, fmt.Sprintf("no account named %q", name), http.StatusNotFound)
			return nil
		}
		return respondJSON(w, finance.AccountTable(a, interval))
	})
}

func HandlerChart(sc scenario.Scenario, logger finance.Logger, limits []finance.Limit) http.Handler {
	return srvu.ErrHandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		tag, err := finance.ParseSemantic(mux.Vars(r)["semantic"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		theme, ok := themes[strings.ToLower(r.URL.Query().Get("theme"))]
		if !ok {
			theme = ui.Cold
		}
		interval := finance.Monthly
		if v := r.URL.Query().Get("interval"); v != "" {
			if interval, err = finance.ParseInterval(v); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return nil
			}
		}
		sim, err := simulate(ctx, sc, logger, limits)
		if err != nil {
			return err
		}
		reports := make([]*finance.Report, 0, len(sim.Accounts()))
		for _, a := range sim.Accounts() {
			reports = append(reports, a.Report().Resample(interval))
		}
		return respondJSON(w, finance.ChartSeries(tag, theme, reports...))
	})
}

func respondJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}
