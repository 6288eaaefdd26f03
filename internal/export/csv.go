// Package export flattens the roster into the bucket-level daily CSV report.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/j-veylop/partner-console-tui/internal/generator"
	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/models"
)

// DefaultFilename is the name of the exported report.
const DefaultFilename = "b2_partner_daily_usage_demo.csv"

// Header is the CSV header row.
var Header = []string{"date", "customer", "region", "bucket", "storageTB", "egressTB", "requests"}

// Row is one bucket-day of the flattened report.
type Row struct {
	Date      string
	Customer  string
	Region    string
	Bucket    string
	StorageTB float64
	EgressTB  float64
	Requests  int
}

// Rows fans every customer-day out to the customer's buckets, in customer,
// then date, then bucket order. Storage and egress are split by the bucket
// weights and rounded to cents; requests follow the egress weight.
func Rows(customers []models.Customer) []Row {
	n := 0
	for _, c := range customers {
		n += len(c.Daily) * len(c.Buckets)
	}

	rows := make([]Row, 0, n)
	for _, c := range customers {
		for _, p := range c.Daily {
			for _, b := range c.Buckets {
				rows = append(rows, Row{
					Date:      p.Date,
					Customer:  c.Name,
					Region:    b.Region,
					Bucket:    b.Name,
					StorageTB: generator.Round2(p.StorageTB * b.StorageWeight),
					EgressTB:  generator.Round2(p.EgressTB * b.EgressWeight),
					Requests:  int(math.Round(float64(p.Requests) * b.EgressWeight)),
				})
			}
		}
	}
	return rows
}

// Record returns the row as CSV fields. Numbers use the shortest decimal
// form, e.g. "12.3" or "0".
func (r Row) Record() []string {
	return []string{
		r.Date,
		r.Customer,
		r.Region,
		r.Bucket,
		strconv.FormatFloat(r.StorageTB, 'f', -1, 64),
		strconv.FormatFloat(r.EgressTB, 'f', -1, 64),
		strconv.Itoa(r.Requests),
	}
}

// WriteCSV writes the report for the whole roster to w. Lines are joined
// with "\n" and the output has no trailing newline.
func WriteCSV(w io.Writer, customers []models.Customer) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range Rows(customers) {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ToCSV returns the report as a string.
func ToCSV(customers []models.Customer) (string, error) {
	var sb bytes.Buffer
	if err := WriteCSV(&sb, customers); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// SaveCSV writes the report into dir as DefaultFilename and returns the
// path. The file is written to a temporary name and renamed into place.
func SaveCSV(dir string, customers []models.Customer) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, DefaultFilename)
	tmpFile := path + ".tmp"

	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := WriteCSV(f, customers); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpFile)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	logger.Info("exported usage report", "path", path, "customers", len(customers))
	return path, nil
}
