package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/partner-console-tui/internal/generator"
	"github.com/j-veylop/partner-console-tui/internal/models"
)

var testToday = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestToCSV_Layout(t *testing.T) {
	customers := generator.GenerateAt(generator.DefaultSeed, testToday)

	out, err := ToCSV(customers)
	if err != nil {
		t.Fatalf("ToCSV() error: %v", err)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("output ends with a newline")
	}

	lines := strings.Split(out, "\n")
	if lines[0] != "date,customer,region,bucket,storageTB,egressTB,requests" {
		t.Errorf("header = %q", lines[0])
	}
	if want := 1 + 300*models.HistoryDays; len(lines) != want {
		t.Fatalf("got %d lines, want %d", len(lines), want)
	}

	wantFirst := []string{
		"2023-12-17,Customer 001,us-east-005,customer-001-bucket-1,20.63,0.24,1835",
		"2023-12-17,Customer 001,us-east-005,customer-001-bucket-2,23.37,0.12,901",
		"2023-12-17,Customer 001,us-east-005,customer-001-bucket-3,18.54,0.19,1442",
		"2023-12-17,Customer 001,us-east-005,customer-001-bucket-4,12.6,0.32,2509",
		"2023-12-17,Customer 001,us-east-005,customer-001-bucket-5,21.13,0.37,2852",
		"2023-12-18,Customer 001,us-east-005,customer-001-bucket-1,20.6,0.33,2892",
	}
	for i, want := range wantFirst {
		if lines[i+1] != want {
			t.Errorf("line %d = %q, want %q", i+1, lines[i+1], want)
		}
	}

	if last := lines[len(lines)-1]; !strings.HasPrefix(last, "2024-03-15,Customer 100,") {
		t.Errorf("last line = %q", last)
	}
}

func TestRows_ReconstructsStorage(t *testing.T) {
	customers := generator.GenerateAt(generator.DefaultSeed, testToday)
	rows := Rows(customers)

	i := 0
	for _, c := range customers {
		for _, p := range c.Daily {
			var sum float64
			for _, b := range c.Buckets {
				r := rows[i]
				i++
				if r.Date != p.Date || r.Bucket != b.Name || r.Customer != c.Name {
					t.Fatalf("row %d out of order: %+v", i, r)
				}
				if math.Abs(r.StorageTB-p.StorageTB*b.StorageWeight) > 0.005+1e-9 {
					t.Errorf("row %d storage %v too far from %v", i, r.StorageTB, p.StorageTB*b.StorageWeight)
				}
				sum += r.StorageTB
			}
			if math.Abs(sum-p.StorageTB) > 0.01*float64(len(c.Buckets)) {
				t.Errorf("%s %s: bucket storage sums to %v, want %v", c.ID, p.Date, sum, p.StorageTB)
			}
		}
	}
	if i != len(rows) {
		t.Errorf("consumed %d rows of %d", i, len(rows))
	}
}

func TestRow_Record(t *testing.T) {
	r := Row{Date: "2024-01-02", Customer: "Customer 007", Region: "ca-east-006", Bucket: "b", StorageTB: 12.3, EgressTB: 0, Requests: 42}
	got := strings.Join(r.Record(), ",")
	if got != "2024-01-02,Customer 007,ca-east-006,b,12.3,0,42" {
		t.Errorf("Record() = %q", got)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	if buf.String() != strings.Join(Header, ",") {
		t.Errorf("empty roster output = %q", buf.String())
	}
}

func TestSaveCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	customers := generator.GenerateAt(generator.DefaultSeed, testToday)[:2]

	path, err := SaveCSV(dir, customers)
	if err != nil {
		t.Fatalf("SaveCSV() error: %v", err)
	}
	if filepath.Base(path) != DefaultFilename {
		t.Errorf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	want, _ := ToCSV(customers)
	if string(data) != want {
		t.Error("saved file differs from ToCSV output")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
