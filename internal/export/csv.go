// Package export writes finished simulation reports to CSV files and sqlite.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SimonSchneider/finlife/internal/finance"
)

func WriteCSV(w io.Writer, t finance.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

var unsafeChars = strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")

// FileName is the CSV file name of the table of account at interval.
func FileName(account string, interval finance.Interval) string {
	return fmt.Sprintf("%s_%s.csv", strings.ToLower(unsafeChars.Replace(account)), interval)
}

// WriteAccountCSVs writes one file per account with its table at interval into
// dir and returns the paths written.
func WriteAccountCSVs(dir string, sim *finance.Simulation, interval finance.Interval) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	var paths []string
	for _, a := range sim.Accounts() {
		path := filepath.Join(dir, FileName(a.Name(), interval))
		if err := writeFile(path, finance.AccountTable(a, interval)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	path := filepath.Join(dir, FileName("transfers", finance.Daily))
	if err := writeFile(path, sim.Report().Table()); err != nil {
		return paths, err
	}
	return append(paths, path), nil
}

func writeFile(path string, t finance.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
