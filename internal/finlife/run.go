package finlife

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/finlife/internal/export"
	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/finlife/internal/scenario"
	"github.com/SimonSchneider/finlife/internal/ui"
	"github.com/SimonSchneider/goslu/config"
	"github.com/SimonSchneider/goslu/date"
	"github.com/SimonSchneider/goslu/srvu"
)

// snapshotDates is when the sqlite recorder stores account balances.
const snapshotDates date.Cron = "*-*-01"

func Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer, getEnv func(string) string, getwd func() (string, error)) error {
	cfg, err := parseConfig(args[1:], getEnv)
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, os.Kill)
	defer cancel()
	stdLogger := log.New(stdout, "", log.LstdFlags|log.Lshortfile)

	sc, err := loadScenario(cfg.Scenario, stdin, getwd)
	if err != nil {
		return err
	}
	limits, err := cfg.limits()
	if err != nil {
		return err
	}
	if cfg.Addr != "" {
		logger := srvu.LogToOutput(stdLogger)
		srv := &http.Server{
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
			Addr:    cfg.Addr,
			Handler: srvu.With(NewHandler(sc, stdLogger, limits...), srvu.WithCompression(), srvu.WithLogger(logger)),
		}
		logger.Printf("starting finlife server, listening on %s\n  scenario: %s", cfg.Addr, cfg.Scenario)
		return srvu.RunServerGracefully(ctx, srv, logger)
	}
	return runBatch(ctx, cfg, sc, limits, stdout, stdLogger)
}

type Config struct {
	Scenario string
	Days     int
	Until    string
	Interval string
	SQLite   string
	CSVDir   string
	Addr     string
}

// runBatch simulates sc once, prints every account table and exports the
// result where cfg asks for it.
func runBatch(ctx context.Context, cfg Config, sc scenario.Scenario, limits []finance.Limit, stdout io.Writer, logger *log.Logger) error {
	interval, err := cfg.interval()
	if err != nil {
		return err
	}
	opts := []finance.Option{finance.WithLogger(logger)}
	var store *export.SQLiteStore
	if cfg.SQLite != "" {
		if store, err = export.NewSQLiteStore(ctx, cfg.SQLite); err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, finance.WithRecorder(store, snapshotDates))
	}
	sim, err := sc.Build(opts...)
	if err != nil {
		return fmt.Errorf("failed to build scenario: %w", err)
	}
	reason, err := sim.Simulate(ctx, limits...)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d days from %s to %s (%s)\n\n", sim.Name(), sim.Day(),
		calendar.Format(sim.StartDate(), time.DateOnly), calendar.Format(sim.CurrentDate(), time.DateOnly), reason)
	for _, a := range sim.Accounts() {
		if err := printTable(stdout, fmt.Sprintf("%s (%s)", a.Name(), interval), finance.AccountTable(a, interval)); err != nil {
			return err
		}
	}
	if err := printBalances(stdout, sim.Accounts()); err != nil {
		return err
	}

	if cfg.CSVDir != "" {
		paths, err := export.WriteAccountCSVs(cfg.CSVDir, sim, interval)
		if err != nil {
			return err
		}
		logger.Printf("wrote %d csv files to %s", len(paths), cfg.CSVDir)
	}
	if store != nil {
		if err := store.SaveSimulation(ctx, sim); err != nil {
			return err
		}
		logger.Printf("saved run %s to %s", store.Run(), cfg.SQLite)
	}
	return nil
}

func parseConfig(args []string, getEnv func(string) string) (cfg Config, err error) {
	err = config.ParseInto(&cfg, flag.NewFlagSet("", flag.ExitOnError), args, getEnv)
	return cfg, err
}

func (c Config) limits() ([]finance.Limit, error) {
	var limits []finance.Limit
	if c.Days > 0 {
		limits = append(limits, finance.For(c.Days))
	}
	if c.Until != "" {
		day, err := calendar.Parse(c.Until)
		if err != nil {
			return nil, fmt.Errorf("failed to parse until: %w", err)
		}
		limits = append(limits, finance.Until(day))
	}
	return limits, nil
}

func (c Config) interval() (finance.Interval, error) {
	if c.Interval == "" {
		return finance.Yearly, nil
	}
	return finance.ParseInterval(c.Interval)
}

// loadScenario reads the scenario file at path, relative paths resolved against
// the working directory. "-" reads it from stdin.
func loadScenario(path string, stdin io.Reader, getwd func() (string, error)) (scenario.Scenario, error) {
	if path == "" {
		return scenario.Scenario{}, fmt.Errorf("no scenario given")
	}
	if path == "-" {
		return scenario.Load(stdin)
	}
	if !filepath.IsAbs(path) {
		wd, err := getwd()
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()
	return scenario.Load(f)
}

func printTable(w io.Writer, title string, t finance.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, title)
	writeRow(tw, t.Header)
	for _, row := range t.Rows {
		writeRow(tw, row)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func printBalances(w io.Writer, accounts []finance.Account) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "balances")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", a.Name(), ui.FormatWithThousands(a.Cents().Decimal()), ui.Currency)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for _, c := range cells {
		fmt.Fprintf(w, "%s\t", c)
	}
	fmt.Fprintln(w)
}
