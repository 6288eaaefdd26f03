// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/config"
	"github.com/j-veylop/partner-console-tui/internal/db"
	"github.com/j-veylop/partner-console-tui/internal/export"
	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/services/roster"
	"github.com/j-veylop/partner-console-tui/internal/usage"
)

type (
	// RosterChangedEvent is emitted when the roster is generated or replaced.
	RosterChangedEvent struct {
		Seed      int
		Customers int
	}

	// ExportCompletedEvent is emitted after a report or snapshot is written.
	ExportCompletedEvent struct {
		Path string
		Kind ExportKind
		Rows int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ExportKind names the format of an export.
type ExportKind string

// Export kinds.
const (
	ExportCSV    ExportKind = "csv"
	ExportSQLite ExportKind = "sqlite"
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (RosterChangedEvent) isServiceEvent()   {}
func (ExportCompletedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

func beeepNotifier(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for generation and aggregation.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notify = n
	}
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	roster      *roster.Service
	clock       func() time.Time
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		clock:    time.Now,
		notify:   beeepNotifier,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	rosterOpts := []roster.Option{roster.WithClock(m.clock)}
	if cfg.WatchEnv && cfg.EnvPath != "" {
		rosterOpts = append(rosterOpts, roster.WithEnvWatch(cfg.EnvPath))
	}

	var err error
	m.roster, err = roster.New(cfg.Seed, rosterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize roster: %w", err)
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the roster service to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.roster.Events():
			m.handleRosterEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleRosterEvent(event roster.Event) {
	switch event.Type {
	case roster.EventRosterLoaded, roster.EventRosterRegenerated:
		m.broadcast(RosterChangedEvent{
			Seed:      event.Seed,
			Customers: len(m.roster.Customers()),
		})

	case roster.EventError:
		m.broadcast(ErrorEvent{
			Service: "roster",
			Error:   event.Error,
		})
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Roster returns the current roster. Callers must not modify it.
func (m *Manager) Roster() []models.Customer {
	return m.roster.Customers()
}

// Seed returns the seed of the current roster.
func (m *Manager) Seed() int {
	return m.roster.Seed()
}

// Today returns the manager's current time.
func (m *Manager) Today() time.Time {
	return m.clock()
}

// Regenerate replaces the roster with one generated from seed.
func (m *Manager) Regenerate(seed int) {
	m.roster.Regenerate(seed)
}

// Aggregate computes totals and the daily series for a view.
func (m *Manager) Aggregate(view models.ViewState) models.Aggregate {
	return usage.Aggregate(m.Roster(), view.Region, view.Window.Days(), m.Today())
}

// Customers returns the filtered and sorted customer list for a view.
func (m *Manager) Customers(view models.ViewState) []models.Customer {
	filtered := usage.FilterCustomers(m.Roster(), view.Region, view.Query)
	return usage.SortCustomers(filtered, view.Sort)
}

// Customer looks up a customer by id.
func (m *Manager) Customer(id string) (models.Customer, bool) {
	return usage.FindCustomer(m.Roster(), id)
}

// ExportCSV writes the full-roster report into dir (the configured export
// directory when dir is empty) and returns the file path.
func (m *Manager) ExportCSV(dir string) (string, error) {
	if dir == "" {
		dir = m.cfg.ExportDir
	}

	customers := m.Roster()
	path, err := export.SaveCSV(dir, customers)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "export", Error: err})
		return "", err
	}

	rows := 0
	for _, c := range customers {
		rows += len(c.Daily) * len(c.Buckets)
	}
	m.completeExport(ExportCompletedEvent{Path: path, Kind: ExportCSV, Rows: rows})
	return path, nil
}

// SnapshotSQLite writes the roster into the SQLite file at path (the
// configured snapshot path when empty).
func (m *Manager) SnapshotSQLite(ctx context.Context, path string) error {
	if path == "" {
		path = m.cfg.SnapshotDBPath
	}
	if path == "" {
		return errors.New("no snapshot path configured (set SNAPSHOT_DB_PATH)")
	}

	database, err := db.New(path)
	if err != nil {
		err = fmt.Errorf("failed to open snapshot database: %w", err)
		m.broadcast(ErrorEvent{Service: "snapshot", Error: err})
		return err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logger.Error("failed to close snapshot database", "error", closeErr)
		}
	}()

	customers := m.Roster()
	if err := database.SaveRoster(ctx, customers); err != nil {
		m.broadcast(ErrorEvent{Service: "snapshot", Error: err})
		return err
	}
	if err := verifySnapshot(ctx, database, customers, m.Today()); err != nil {
		err = fmt.Errorf("snapshot %s does not match the roster: %w", path, err)
		m.broadcast(ErrorEvent{Service: "snapshot", Error: err})
		return err
	}
	if err := database.Vacuum(ctx); err != nil {
		logger.Warn("snapshot vacuum failed", "path", path, "error", err)
	}

	m.completeExport(ExportCompletedEvent{Path: path, Kind: ExportSQLite, Rows: len(customers)})
	return nil
}

// verifySnapshot reads the written snapshot back and compares its customer
// and bucket counts and its all-region daily series with the roster.
func verifySnapshot(ctx context.Context, database *db.DB, customers []models.Customer, today time.Time) error {
	count, err := database.CustomerCount(ctx)
	if err != nil {
		return err
	}
	if count != len(customers) {
		return fmt.Errorf("%d customers, want %d", count, len(customers))
	}

	buckets, err := database.BucketCount(ctx, models.AllRegions)
	if err != nil {
		return err
	}
	wantBuckets := lo.SumBy(customers, func(c models.Customer) int { return len(c.Buckets) })
	if buckets != wantBuckets {
		return fmt.Errorf("%d buckets, want %d", buckets, wantBuckets)
	}

	start, end, _ := usage.WindowBounds(today, models.HistoryDays)
	series, err := database.DailyTotals(ctx, models.AllRegions, start, end)
	if err != nil {
		return err
	}
	want := usage.Aggregate(customers, models.AllRegions, models.HistoryDays, today).Series
	if len(series) != len(want) {
		return fmt.Errorf("%d daily totals, want %d", len(series), len(want))
	}
	for i, d := range want {
		if series[i].Date != d.Date || series[i].Requests != d.Requests {
			return fmt.Errorf("daily totals differ on %s", d.Date)
		}
	}
	return nil
}

func (m *Manager) completeExport(event ExportCompletedEvent) {
	m.broadcast(event)

	if !m.cfg.NotifyOnExport || m.notify == nil {
		return
	}
	title := "Partner Console export ready"
	body := fmt.Sprintf("%s written to %s", event.Kind, event.Path)
	if err := m.notify(title, body); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error
	if err := m.roster.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
