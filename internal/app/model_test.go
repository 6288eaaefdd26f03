package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/services"
)

// stubTab records the messages it receives.
type stubTab struct {
	name      string
	capturing bool
	received  []tea.Msg
	width     int
	height    int
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}

func (s *stubTab) View() string { return "stub:" + s.name }

func (s *stubTab) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *stubTab) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "stub action"))}
}

func (s *stubTab) FullHelp() [][]key.Binding { return [][]key.Binding{s.ShortHelp()} }

func (s *stubTab) CapturesInput() bool { return s.capturing }

func newStubModel() (*Model, []*stubTab) {
	model := NewModel(nil)
	stubs := []*stubTab{{name: "overview"}, {name: "customers"}, {name: "info"}}
	model.SetTabs([]Tab{stubs[0], stubs[1], stubs[2]})
	model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model, stubs
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabOverview {
		t.Error("Default tab should be Overview")
	}
	if len(model.tabs) != 3 {
		t.Errorf("Should have 3 tabs placeholder, got %d", len(model.tabs))
	}
}

func TestNewModel_ViewFromConfig(t *testing.T) {
	mgr := newTestManager(t)
	mgr.Config().Region = "ca-east-006"
	mgr.Config().DaysBack = 7

	model := NewModel(mgr)
	view := model.GetState().GetView()
	if view.Region != "ca-east-006" || view.Window != models.Window7Days {
		t.Errorf("startup view = %+v", view)
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	if cmd := model.Init(); cmd == nil {
		t.Error("Init returned nil command")
	}
	notifs := model.state.GetNotifications()
	if len(notifs) != 1 || notifs[0].ID != LoadingNotificationID {
		t.Errorf("Init should show the loading notification, got %+v", notifs)
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model, stubs := newStubModel()

	if model.width != 120 || model.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", model.width, model.height)
	}
	if !model.IsReady() {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	for _, s := range stubs {
		if s.width != 120 || s.height != 35 {
			t.Errorf("tab %s size = %dx%d, want 120x35", s.name, s.width, s.height)
		}
	}
}

func TestModel_TabKeys(t *testing.T) {
	model, _ := newStubModel()

	tests := []struct {
		key  tea.KeyMsg
		want TabID
	}{
		{runeKey('2'), TabCustomers},
		{runeKey('3'), TabInfo},
		{runeKey('1'), TabOverview},
		{tea.KeyMsg{Type: tea.KeyTab}, TabCustomers},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabOverview},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabInfo},
	}

	for _, tt := range tests {
		model.Update(tt.key)
		if model.GetActiveTab() != tt.want {
			t.Errorf("after %q active tab = %v, want %v", tt.key.String(), model.GetActiveTab(), tt.want)
		}
	}

	model.Update(TabSwitchMsg{Tab: TabCustomers})
	if model.GetActiveTab() != TabCustomers {
		t.Error("TabSwitchMsg should switch tabs")
	}
}

func TestModel_RegionAndWindowKeys(t *testing.T) {
	model, stubs := newStubModel()

	_, cmd := model.Update(runeKey('f'))
	if cmd == nil {
		t.Error("region key should return a command")
	}
	if got := model.state.GetView().Region; got != models.Regions[0].ID {
		t.Errorf("region = %q, want %q", got, models.Regions[0].ID)
	}

	model.Update(runeKey('t'))
	if got := model.state.GetView().Window; got != models.Window60Days {
		t.Errorf("window = %v, want 60d", got)
	}

	for _, msg := range stubs[0].received {
		if _, ok := msg.(tea.KeyMsg); ok {
			t.Errorf("global key leaked to the tab: %v", msg)
		}
	}
}

func TestModel_CapturingTabReceivesKeys(t *testing.T) {
	model, stubs := newStubModel()
	model.Update(runeKey('2'))
	stubs[1].capturing = true

	model.Update(runeKey('f'))
	model.Update(runeKey('1'))

	if model.GetActiveTab() != TabCustomers {
		t.Error("tab switch keys should go to a capturing tab")
	}
	if model.state.GetView().Region != models.AllRegions {
		t.Error("region key should go to a capturing tab")
	}
	if got := len(stubs[1].received); got != 2 {
		t.Errorf("capturing tab received %d messages, want 2", got)
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce tea.QuitMsg")
	}
}

func TestModel_UnhandledKeyReachesTab(t *testing.T) {
	model, stubs := newStubModel()
	model.Update(runeKey('z'))
	if len(stubs[0].received) == 0 {
		t.Fatal("active tab should receive unhandled keys")
	}
	if len(stubs[1].received) != 0 {
		t.Error("inactive tabs should not receive keys")
	}
}

func TestModel_ViewLoadedReachesAllTabs(t *testing.T) {
	model, stubs := newStubModel()
	model.Init()

	view := models.NewViewState(models.AllRegions, models.Window90Days)
	model.Update(ViewLoadedMsg{View: view, Seed: 1337, RosterSize: 100})

	for _, s := range stubs {
		found := false
		for _, msg := range s.received {
			if _, ok := msg.(ViewLoadedMsg); ok {
				found = true
			}
		}
		if !found {
			t.Errorf("tab %s did not receive ViewLoadedMsg", s.name)
		}
	}
	if model.state.IsInitialLoading() {
		t.Error("initial loading should be cleared")
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
	if model.state.GetView().Window != models.Window90Days {
		t.Error("loaded view should be stored")
	}
}

func TestModel_ViewChangedWithManager(t *testing.T) {
	model := NewModel(newTestManager(t))

	next := model.state.GetView().ToggleSort(models.SortByEgress)
	_, cmd := model.Update(ViewChangedMsg{View: next})
	if cmd == nil {
		t.Fatal("ViewChangedMsg should schedule a load")
	}
	if !model.state.Loading.View {
		t.Error("view loading should be set")
	}

	loaded := evaluateView(model.GetServices(), next)
	loaded.Generation = model.state.ViewGeneration()
	model.Update(loaded)

	customers := model.state.GetCustomers()
	if len(customers) != 100 || customers[0].Name != "Customer 094" {
		t.Errorf("first customer by egress desc = %q", customers[0].Name)
	}
	if model.state.Loading.View {
		t.Error("view loading should be cleared")
	}
}

func TestModel_StaleViewLoadIsDropped(t *testing.T) {
	model := NewModel(newTestManager(t))
	stubs := []*stubTab{{name: "overview"}, {name: "customers"}, {name: "info"}}
	model.SetTabs([]Tab{stubs[0], stubs[1], stubs[2]})
	mgr := model.GetServices()

	all := models.NewViewState(models.AllRegions, models.DefaultWindow)
	east := all.WithRegion("us-east-005")

	model.Update(ViewChangedMsg{View: all})
	older := evaluateView(mgr, all)
	older.Generation = model.state.ViewGeneration()

	model.Update(ViewChangedMsg{View: east})
	newer := evaluateView(mgr, east)
	newer.Generation = model.state.ViewGeneration()

	model.Update(older)
	if !model.state.Loading.View {
		t.Error("an overtaken load should not clear view loading")
	}
	for _, s := range stubs {
		for _, msg := range s.received {
			if _, ok := msg.(ViewLoadedMsg); ok {
				t.Errorf("an overtaken load reached tab %s", s.name)
			}
		}
	}

	model.Update(newer)
	model.Update(older)

	if got := model.state.GetView().Region; got != "us-east-005" {
		t.Errorf("region = %q after a late load, want us-east-005", got)
	}
	if got := model.state.GetCustomerCount(); got != 34 {
		t.Errorf("customers = %d, want 34", got)
	}
	if model.state.Loading.View {
		t.Error("view loading should be cleared by the current load")
	}
}

func TestModel_Export(t *testing.T) {
	model := NewModel(newTestManager(t))
	model.state.SetLoading("initial", false)

	_, cmd := model.Update(runeKey('x'))
	if cmd == nil {
		t.Fatal("export key should return a command")
	}
	if !model.state.IsExporting() {
		t.Error("export should be in progress")
	}

	// A second press while exporting is ignored.
	if c := model.startExport(); c != nil {
		t.Error("concurrent export should be ignored")
	}

	model.Update(ExportResultMsg{Path: "/tmp/out.csv"})
	if model.state.IsExporting() {
		t.Error("export should be finished")
	}
	if model.state.GetLastExport() != "/tmp/out.csv" {
		t.Errorf("LastExport = %q", model.state.GetLastExport())
	}
}

func TestModel_ExportResult(t *testing.T) {
	tests := []struct {
		name string
		msg  ExportResultMsg
		want NotificationType
		text string
	}{
		{"Success", ExportResultMsg{Path: "/tmp/a.csv"}, NotificationSuccess, "Exported /tmp/a.csv"},
		{"Failure", ExportResultMsg{Error: errors.New("disk full")}, NotificationError, "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewModel(nil)
			cmds := model.handleExportResult(tt.msg)
			if len(cmds) != 1 {
				t.Fatalf("got %d commands, want 1", len(cmds))
			}
			add, ok := cmds[0]().(AddNotificationMsg)
			if !ok {
				t.Fatal("expected AddNotificationMsg")
			}
			if add.Type != tt.want || !strings.Contains(add.Message, tt.text) {
				t.Errorf("notification = %+v", add)
			}
		})
	}
}

func TestModel_ClipboardResult(t *testing.T) {
	tests := []struct {
		name string
		msg  ClipboardResultMsg
		want NotificationType
		text string
	}{
		{"Copied", ClipboardResultMsg{Text: "/tmp/a.csv"}, NotificationInfo, "Copied /tmp/a.csv"},
		{"NoClipboard", ClipboardResultMsg{Text: "/tmp/a.csv", Error: errors.New("no xclip")}, NotificationError, "no xclip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewModel(nil)
			_, cmd := model.Update(tt.msg)
			if cmd == nil {
				t.Fatal("expected a notification command")
			}
			add, ok := cmd().(AddNotificationMsg)
			if !ok {
				t.Fatal("expected AddNotificationMsg")
			}
			if add.Type != tt.want || !strings.Contains(add.Message, tt.text) {
				t.Errorf("notification = %+v", add)
			}
		})
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 100
	model.height = 24

	view := model.View()
	for _, want := range []string{"Overview", "Customers", "Info", "All regions", "last 30d"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
	if !strings.Contains(view, "No view registered") {
		t.Error("View should show placeholder text")
	}
}

func TestModel_ViewRendersActiveTab(t *testing.T) {
	model, _ := newStubModel()
	model.Update(runeKey('3'))
	if !strings.Contains(model.View(), "stub:info") {
		t.Error("View should render the active tab")
	}
}

func TestModel_Help(t *testing.T) {
	model, stubs := newStubModel()

	model.Update(runeKey('?'))
	if !model.showHelp {
		t.Fatal("showHelp should be true")
	}

	view := model.View()
	for _, want := range []string{"Keyboard Shortcuts", "cycle region filter", "Overview Tab", "stub action"} {
		if !strings.Contains(view, want) {
			t.Errorf("help should contain %q", want)
		}
	}

	// Keys are swallowed while help is open.
	model.Update(runeKey('2'))
	if model.GetActiveTab() != TabOverview {
		t.Error("tab keys should be ignored while help is open")
	}
	for _, msg := range stubs[0].received {
		if _, ok := msg.(tea.KeyMsg); ok {
			t.Errorf("key reached the tab while help is open: %v", msg)
		}
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("esc should close help")
	}

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("ToggleHelpMsg should open help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	model.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo})
	if n := len(model.state.GetNotifications()); n != 1 {
		t.Errorf("Expected 1 notification, got %d", n)
	}

	model.ready = true
	model.width = 80
	model.height = 24
	if view := model.View(); !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(ClearExpiredNotificationsMsg{})
	if n := len(model.state.GetNotifications()); n != 1 {
		t.Errorf("unexpired notification should remain, got %d", n)
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)

	tests := []struct {
		name  string
		event services.ServiceEvent
		want  bool
	}{
		{"RosterChanged", services.RosterChangedEvent{Seed: 9, Customers: 100}, true},
		{"SnapshotDone", services.ExportCompletedEvent{Path: "/tmp/x.db", Kind: services.ExportSQLite}, true},
		{"CSVDone", services.ExportCompletedEvent{Path: "/tmp/x.csv", Kind: services.ExportCSV}, false},
		{"Error", services.ErrorEvent{Service: "roster", Error: errors.New("boom")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := model.handleServiceEvent(tt.event)
			if (cmd != nil) != tt.want {
				t.Errorf("command returned = %v, want %v", cmd != nil, tt.want)
			}
		})
	}
}

func TestModel_Update_LoadingMessages(t *testing.T) {
	model := NewModel(nil)

	model.Update(StartLoadingMsg{Resource: "view"})
	if !model.state.Loading.View {
		t.Error("Loading.View should be true")
	}

	model.Update(StopLoadingMsg{Resource: "view"})
	if model.state.Loading.View {
		t.Error("Loading.View should be false")
	}

	_, cmd := model.Update(ErrorMsg{Error: errors.New("oops"), Context: "load"})
	if cmd == nil {
		t.Error("ErrorMsg should produce a notification")
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	if _, cmd := model.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestModel_OverlayCentered(t *testing.T) {
	model := NewModel(nil)
	model.width = 10
	model.height = 3

	got := model.overlayCentered("aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc", "XX")
	lines := strings.Split(got, "\n")
	if lines[1] != "bbbbXXbbbb" {
		t.Errorf("middle line = %q, want bbbbXXbbbb", lines[1])
	}
	if lines[0] != "aaaaaaaaaa" {
		t.Errorf("first line changed: %q", lines[0])
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabOverview, "Overview"},
		{TabCustomers, "Customers"},
		{TabInfo, "Info"},
		{TabID(999), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) != 4 {
		t.Errorf("FullHelp groups = %d, want 4", len(km.FullHelp()))
	}
	if km.Region.Help().Key != "f" || km.Window.Help().Key != "t" || km.Export.Help().Key != "x" {
		t.Error("view keys should be f/t/x")
	}
}
