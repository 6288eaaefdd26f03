package services

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/partner-console-tui/internal/config"
	"github.com/j-veylop/partner-console-tui/internal/db"
	"github.com/j-veylop/partner-console-tui/internal/export"
	"github.com/j-veylop/partner-console-tui/internal/models"
)

var fixedToday = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) notify(title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func newTestManager(t *testing.T, notify bool) (*Manager, *recordingNotifier, string) {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		Seed:           1337,
		Region:         models.AllRegions,
		DaysBack:       30,
		ExportDir:      filepath.Join(tmpDir, "exports"),
		NotifyOnExport: notify,
	}

	rec := &recordingNotifier{}
	mgr, err := NewManager(cfg,
		WithClock(func() time.Time { return fixedToday }),
		WithNotifier(rec.notify),
	)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr, rec, tmpDir
}

// waitFor reads events until one satisfies match or the timeout expires.
func waitFor(t *testing.T, ch <-chan ServiceEvent, match func(ServiceEvent) bool) ServiceEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-ch:
			if match(event) {
				return event
			}
		case <-timeout:
			t.Fatal("timeout waiting for event")
			return nil
		}
	}
}

func TestNewManager(t *testing.T) {
	mgr, _, _ := newTestManager(t, false)

	if got := len(mgr.Roster()); got != 100 {
		t.Errorf("len(Roster()) = %d, want 100", got)
	}
	if mgr.Seed() != 1337 {
		t.Errorf("Seed() = %d, want 1337", mgr.Seed())
	}
	if mgr.Config() == nil {
		t.Error("Config() should not be nil")
	}
}

func TestManager_Queries(t *testing.T) {
	mgr, _, _ := newTestManager(t, false)
	view := models.NewViewState(models.AllRegions, models.Window30Days)

	agg := mgr.Aggregate(view)
	if agg.Totals.Buckets != 300 || len(agg.Series) != 30 {
		t.Errorf("Aggregate() = %d buckets, %d days", agg.Totals.Buckets, len(agg.Series))
	}

	list := mgr.Customers(view.WithQuery("customer 01").ToggleSort(models.SortByName))
	if len(list) != 10 || list[0].Name != "Customer 019" {
		t.Errorf("Customers() returned %d starting with %v", len(list), list)
	}

	c, ok := mgr.Customer("cust-63")
	if !ok || c.Name != "Customer 063" {
		t.Errorf("Customer(cust-63) = %s, %v", c.Name, ok)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, _, _ := newTestManager(t, false)

	ch, cmd := mgr.Subscribe()
	if cmd == nil {
		t.Fatal("Subscribe() returned nil cmd")
	}

	mgr.Regenerate(99)

	event := waitFor(t, ch, func(e ServiceEvent) bool {
		rc, ok := e.(RosterChangedEvent)
		return ok && rc.Seed == 99
	})
	if rc := event.(RosterChangedEvent); rc.Customers != 100 {
		t.Errorf("Customers = %d, want 100", rc.Customers)
	}

	mgr.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestManager_ExportCSV(t *testing.T) {
	mgr, rec, tmpDir := newTestManager(t, true)
	ch, _ := mgr.Subscribe()

	path, err := mgr.ExportCSV("")
	if err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}
	if path != filepath.Join(tmpDir, "exports", export.DefaultFilename) {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export not written: %v", err)
	}

	event := waitFor(t, ch, func(e ServiceEvent) bool {
		_, ok := e.(ExportCompletedEvent)
		return ok
	}).(ExportCompletedEvent)
	if event.Kind != ExportCSV || event.Rows != 300*models.HistoryDays {
		t.Errorf("event = %+v", event)
	}
	if rec.count() != 1 {
		t.Errorf("notifier called %d times, want 1", rec.count())
	}
}

func TestManager_ExportCSV_NotifyDisabled(t *testing.T) {
	mgr, rec, tmpDir := newTestManager(t, false)

	if _, err := mgr.ExportCSV(filepath.Join(tmpDir, "other")); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("notifier called %d times, want 0", rec.count())
	}
}

func TestManager_ExportCSV_Error(t *testing.T) {
	mgr, _, tmpDir := newTestManager(t, false)
	ch, _ := mgr.Subscribe()

	blocker := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.ExportCSV(blocker); err == nil {
		t.Fatal("ExportCSV() should fail when the directory is a file")
	}

	event := waitFor(t, ch, func(e ServiceEvent) bool {
		_, ok := e.(ErrorEvent)
		return ok
	}).(ErrorEvent)
	if event.Service != "export" {
		t.Errorf("Service = %q, want export", event.Service)
	}
}

func TestManager_SnapshotSQLite(t *testing.T) {
	mgr, _, tmpDir := newTestManager(t, false)
	path := filepath.Join(tmpDir, "snap", "roster.db")

	if err := mgr.SnapshotSQLite(context.Background(), path); err != nil {
		t.Fatalf("SnapshotSQLite() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}

	if err := mgr.SnapshotSQLite(context.Background(), ""); err == nil {
		t.Error("SnapshotSQLite(\"\") should fail without a configured path")
	}
}

func TestVerifySnapshot(t *testing.T) {
	mgr, _, tmpDir := newTestManager(t, false)
	ctx := context.Background()
	roster := mgr.Roster()

	database, err := db.New(filepath.Join(tmpDir, "verify.db"))
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}
	defer database.Close()

	if err := database.SaveRoster(ctx, roster); err != nil {
		t.Fatalf("SaveRoster() failed: %v", err)
	}
	if err := verifySnapshot(ctx, database, roster, fixedToday); err != nil {
		t.Errorf("verifySnapshot() on a faithful snapshot: %v", err)
	}

	tests := []struct {
		name      string
		customers []models.Customer
	}{
		{"MissingCustomer", roster[:len(roster)-1]},
		{"ExtraBucket", withExtraBucket(roster)},
		{"OtherRequests", withRequestsBumped(roster)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifySnapshot(ctx, database, tt.customers, fixedToday); err == nil {
				t.Error("verifySnapshot() should report the mismatch")
			}
		})
	}
}

func withExtraBucket(roster []models.Customer) []models.Customer {
	out := slices.Clone(roster)
	out[0].Buckets = append(slices.Clone(out[0].Buckets), models.Bucket{Name: "extra"})
	return out
}

func withRequestsBumped(roster []models.Customer) []models.Customer {
	out := slices.Clone(roster)
	out[0].Daily = slices.Clone(out[0].Daily)
	out[0].Daily[len(out[0].Daily)-1].Requests++
	return out
}

func TestWaitForEvent_Closed(t *testing.T) {
	ch := make(chan ServiceEvent)
	close(ch)
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("WaitForEvent on closed channel = %v, want nil", msg)
	}
}
