package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/services"
	"github.com/j-veylop/partner-console-tui/internal/usage"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// DetailTrendDays is how many days the detail trend charts show.
	DetailTrendDays = 60
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadViewCmd evaluates a view state against the manager's roster.
func loadViewCmd(mgr *services.Manager, view models.ViewState, generation uint64) tea.Cmd {
	return func() tea.Msg {
		msg := evaluateView(mgr, view)
		msg.Generation = generation
		return msg
	}
}

func evaluateView(mgr *services.Manager, view models.ViewState) ViewLoadedMsg {
	customers := mgr.Customers(view)
	summaries := lo.SliceToMap(customers, func(c models.Customer) (string, models.CustomerSummary) {
		return c.ID, usage.Summarize(c)
	})

	msg := ViewLoadedMsg{
		View:       view,
		Aggregate:  mgr.Aggregate(view),
		Customers:  customers,
		Summaries:  summaries,
		Seed:       mgr.Seed(),
		RosterSize: len(mgr.Roster()),
	}

	if view.SelectedID != "" {
		if c, ok := mgr.Customer(view.SelectedID); ok {
			msg.Detail = &CustomerDetail{
				Customer: c,
				Summary:  usage.DetailSummary(c),
				Trend:    usage.Trend(c, DetailTrendDays),
				Buckets:  usage.BucketBreakdown(c),
			}
		} else {
			msg.View = view.ClearSelection()
		}
	}

	return msg
}

// exportCSVCmd writes the roster report into the configured export
// directory. When a snapshot path is configured the SQLite snapshot is
// refreshed too; its outcome arrives as a service event.
func exportCSVCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		path, err := mgr.ExportCSV("")
		if err == nil && mgr.Config().SnapshotDBPath != "" {
			if snapErr := mgr.SnapshotSQLite(context.Background(), ""); snapErr != nil {
				logger.Error("snapshot after export failed", "error", snapErr)
			}
		}
		return ExportResultMsg{Path: path, Error: err}
	}
}

// copyToClipboardCmd writes text to the system clipboard.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Text: text, Error: clipboard.WriteAll(text)}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// ChangeViewCmd returns a command asking the root model to evaluate view.
func ChangeViewCmd(view models.ViewState) tea.Cmd {
	return func() tea.Msg {
		return ViewChangedMsg{View: view}
	}
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadView returns a command that evaluates a view state of the given
// generation.
func (c *Commands) LoadView(view models.ViewState, generation uint64) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return loadViewCmd(c.manager, view, generation)
}

// ExportCSV returns a command that exports the roster as CSV.
func (c *Commands) ExportCSV() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return exportCSVCmd(c.manager)
}

func exportedMessage(path string) string {
	return fmt.Sprintf("Exported %s", path)
}
