// Package roster owns the in-memory customer roster and regenerates it when
// the configured seed changes.
package roster

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/partner-console-tui/internal/config"
	"github.com/j-veylop/partner-console-tui/internal/generator"
	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/models"
)

// Event represents a roster service event.
type Event struct {
	Error error
	Type  EventType
	Seed  int
}

// EventType defines the type of roster event.
type EventType int

const (
	EventRosterLoaded EventType = iota
	EventRosterRegenerated
	EventError
)

const debounceInterval = 100 * time.Millisecond

// Service holds the current roster. The roster slice is never modified
// after generation; Regenerate swaps in a new one.
type Service struct {
	mu            sync.RWMutex
	customers     []models.Customer
	seed          int
	clock         func() time.Time
	envPath       string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of "today" used for generation.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithEnvWatch regenerates the roster whenever DEMO_SEED changes in the
// .env file at path.
func WithEnvWatch(path string) Option {
	return func(s *Service) {
		s.envPath = path
	}
}

// New generates the roster for seed and, when configured, starts watching
// the .env file.
func New(seed int, opts ...Option) (*Service, error) {
	s := &Service{
		seed:      seed,
		clock:     time.Now,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.customers = generator.GenerateAt(seed, s.clock())
	logger.Info("roster generated", "seed", seed, "customers", len(s.customers))

	if s.envPath != "" {
		if err := s.startWatcher(); err != nil {
			return nil, fmt.Errorf("failed to start env watcher: %w", err)
		}
	}

	s.sendEvent(Event{Type: EventRosterLoaded, Seed: seed})
	return s, nil
}

// Events returns the event channel for subscribing to roster changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Customers returns the current roster. Callers must not modify it.
func (s *Service) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers
}

// Seed returns the seed of the current roster.
func (s *Service) Seed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seed
}

// Today returns the current date according to the service clock.
func (s *Service) Today() time.Time {
	return s.clock()
}

// Regenerate replaces the roster with one generated from seed.
func (s *Service) Regenerate(seed int) {
	customers := generator.GenerateAt(seed, s.clock())

	s.mu.Lock()
	s.customers = customers
	s.seed = seed
	s.mu.Unlock()

	logger.Info("roster regenerated", "seed", seed)
	s.sendEvent(Event{Type: EventRosterRegenerated, Seed: seed})
}

func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so editors that replace the file are caught too.
	dir := filepath.Dir(s.envPath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.envPath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleFileChange() {
	seed, ok, err := config.ReadSeed(s.envPath)
	if err != nil {
		logger.Warn("failed to reload seed", "path", s.envPath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	if !ok || seed == s.Seed() {
		return
	}

	s.Regenerate(seed)
}

// sendEvent delivers without blocking, dropping the oldest queued event
// when the channel is full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
