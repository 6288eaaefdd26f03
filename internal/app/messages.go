package app

import (
	"time"

	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// ViewChangedMsg asks the root model to evaluate a new view state.
type ViewChangedMsg struct {
	View models.ViewState
}

// ViewLoadedMsg carries everything the tabs render for a view state.
// Generation is the State view generation the load was started for.
type ViewLoadedMsg struct {
	View       models.ViewState
	Generation uint64
	Aggregate  models.Aggregate
	Customers  []models.Customer
	Summaries  map[string]models.CustomerSummary
	Detail     *CustomerDetail
	Seed       int
	RosterSize int
}

// RefreshMsg requests the current view to be evaluated again.
type RefreshMsg struct{}

// ExportMsg requests a CSV export of the full roster.
type ExportMsg struct{}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Path  string
	Error error
}

// CopyToClipboardMsg requests copying text to the system clipboard.
type CopyToClipboardMsg struct {
	Text string
}

// ClipboardResultMsg reports the outcome of a clipboard copy.
type ClipboardResultMsg struct {
	Text  string
	Error error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
