package export

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/finlife/internal/finance"
	"github.com/SimonSchneider/goslu/date"
	"github.com/SimonSchneider/goslu/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore writes the outcome of simulation runs to an sqlite database. It
// records transfers and snapshots while a simulation runs and the account
// reports once it finished. Money is stored as TEXT so no precision is lost.
type SQLiteStore struct {
	db  *sql.DB
	run uuid.UUID
}

func NewSQLiteStore(ctx context.Context, dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to get migrations: %w", err)
	}
	if err := migrate.Migrate(ctx, migrations, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return &SQLiteStore{db: db, run: uuid.New()}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Run is the id under which this store records.
func (s *SQLiteStore) Run() uuid.UUID {
	return s.run
}

func isoDate(d date.Date) string {
	return calendar.Format(d, time.DateOnly)
}

func encodeMeta(m finance.Meta) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode meta: %w", err)
	}
	return string(b), nil
}

func (s *SQLiteStore) OnTransfer(rec finance.TransferRecord) error {
	meta, err := encodeMeta(rec.Meta)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO transfers (id, run_id, payment_id, date, from_acc, to_acc, requested, amount, kind, name, code, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), s.run.String(), rec.PaymentID.String(), isoDate(rec.Date), rec.From, rec.To,
		rec.Requested.Decimal().String(), rec.Amount.Decimal().String(), string(rec.Kind), rec.Name, rec.Code.String(), rec.Message, meta,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

func (s *SQLiteStore) OnSnapshot(account string, day date.Date, balance finance.Cents) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO snapshots (run_id, account, date, balance) VALUES (?, ?, ?, ?)`,
		s.run.String(), account, isoDate(day), balance.Decimal().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// SaveSimulation stores the run and the daily reports of all accounts of sim.
func (s *SQLiteStore) SaveSimulation(ctx context.Context, sim *finance.Simulation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meta, err := encodeMeta(sim.Meta())
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, name, start_date, end_date, days, meta) VALUES (?, ?, ?, ?, ?, ?)`,
		s.run.String(), sim.Name(), isoDate(sim.StartDate()), isoDate(sim.CurrentDate()), sim.Day(), meta,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO report_values (run_id, report, seq, date, field, semantic, value) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare report insert: %w", err)
	}
	defer stmt.Close()
	for _, a := range sim.Accounts() {
		r := a.Report()
		for seq, st := range r.Entries() {
			for key, v := range st.Values {
				if _, err := stmt.ExecContext(ctx, s.run.String(), r.Name(), seq, isoDate(st.Date), key,
					string(r.SemanticsOf(key)), decimal.NewFromFloat(v).String()); err != nil {
					return fmt.Errorf("failed to insert report value of %s: %w", r.Name(), err)
				}
			}
		}
	}
	return tx.Commit()
}

type Snapshot struct {
	Account string
	Date    date.Date
	Balance decimal.Decimal
}

func (s *SQLiteStore) Snapshots(ctx context.Context, account string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT account, date, balance FROM snapshots WHERE run_id = ? AND account = ? ORDER BY date`,
		s.run.String(), account)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()
	var snapshots []Snapshot
	for rows.Next() {
		var (
			snap       Snapshot
			day, value string
		)
		if err := rows.Scan(&snap.Account, &day, &value); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if snap.Date, err = calendar.Parse(day); err != nil {
			return nil, err
		}
		if snap.Balance, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("failed to parse balance %q: %w", value, err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// TransferTotal sums what was moved between from and to, counting only successful transfers.
func (s *SQLiteStore) TransferTotal(ctx context.Context, from, to string) (decimal.Decimal, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT amount FROM transfers WHERE run_id = ? AND from_acc = ? AND to_acc = ? AND code = ?`,
		s.run.String(), from, to, finance.TransferOK.String())
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()
	total, n := decimal.Zero, 0
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return decimal.Zero, 0, fmt.Errorf("failed to scan transfer: %w", err)
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, 0, fmt.Errorf("failed to parse amount %q: %w", value, err)
		}
		total, n = total.Add(amount), n+1
	}
	return total, n, rows.Err()
}

// ReportValue is the stored value of key in the last entry of report on or before day.
func (s *SQLiteStore) ReportValue(ctx context.Context, report, key string, day date.Date) (decimal.Decimal, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM report_values WHERE run_id = ? AND report = ? AND field = ? AND date <= ? ORDER BY seq DESC LIMIT 1`,
		s.run.String(), report, key, isoDate(day)).Scan(&value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get %s of %s: %w", key, report, err)
	}
	return decimal.NewFromString(value)
}
