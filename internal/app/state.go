// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/partner-console-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	View    bool
	Export  bool
}

// CustomerDetail is the data behind the customer detail dialog.
type CustomerDetail struct {
	Customer models.Customer
	Summary  models.CustomerSummary
	Trend    []models.DailyMetric
	Buckets  []models.BucketUsage
}

// State is the application state shared between the root model and tabs.
type State struct {
	mu sync.RWMutex

	View       models.ViewState
	viewGen    uint64
	Aggregate  models.Aggregate
	Customers  []models.Customer
	Summaries  map[string]models.CustomerSummary
	Detail     *CustomerDetail
	Seed       int
	RosterSize int
	LastExport string

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state with the default view.
func NewState() *State {
	return &State{
		View:          models.NewViewState(models.AllRegions, models.DefaultWindow),
		Customers:     make([]models.Customer, 0),
		Summaries:     make(map[string]models.CustomerSummary),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "view":
		s.Loading.View = loading
	case "export":
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.View || s.Loading.Export
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsExporting returns true while an export is running.
func (s *State) IsExporting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Export
}

// GetView returns the current view state.
func (s *State) GetView() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.View
}

// SetView replaces the view state and returns its generation. Loads
// started for earlier generations are rejected by ApplyView.
func (s *State) SetView(view models.ViewState) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.View = view
	s.viewGen++
	return s.viewGen
}

// ViewGeneration returns the generation of the current view state.
func (s *State) ViewGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewGen
}

// ApplyView stores the result of evaluating a view. It reports false and
// leaves the state untouched when msg was evaluated for a view that has
// since been replaced.
func (s *State) ApplyView(msg ViewLoadedMsg) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Generation != s.viewGen {
		return false
	}

	s.View = msg.View
	s.Aggregate = msg.Aggregate
	s.Customers = msg.Customers
	s.Summaries = msg.Summaries
	s.Detail = msg.Detail
	s.Seed = msg.Seed
	s.RosterSize = msg.RosterSize
	s.LastUpdated = time.Now()
	return true
}

// GetAggregate returns the totals and series for the current view.
func (s *State) GetAggregate() models.Aggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Aggregate
}

// GetCustomers returns a copy of the filtered, sorted customer list.
func (s *State) GetCustomers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]models.Customer, len(s.Customers))
	copy(customers, s.Customers)
	return customers
}

// GetCustomerCount returns the number of customers in the current view.
func (s *State) GetCustomerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Customers)
}

// GetSummary returns the trailing 30-day summary for a customer.
func (s *State) GetSummary(id string) (models.CustomerSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.Summaries[id]
	return summary, ok
}

// GetDetail returns the selected customer's detail, or nil.
func (s *State) GetDetail() *CustomerDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Detail
}

// GetSeed returns the seed of the loaded roster.
func (s *State) GetSeed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Seed
}

// GetRosterSize returns the number of customers in the whole roster.
func (s *State) GetRosterSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RosterSize
}

// SetLastExport records the path of the latest export.
func (s *State) SetLastExport(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastExport = path
}

// GetLastExport returns the path of the latest export.
func (s *State) GetLastExport() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastExport
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
