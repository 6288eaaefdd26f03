// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/services"
	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabOverview is the ID for the overview tab.
	TabOverview TabID = iota
	// TabCustomers is the ID for the customers tab.
	TabCustomers
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabCustomers:
		return "Customers"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that can own the keyboard, for
// example while a text input is focused. Global keys other than ctrl+c are
// forwarded to the tab while CapturesInput returns true.
type InputCapturer interface {
	CapturesInput() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Region  key.Binding
	Window  key.Binding
	Export  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	km = setViewKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "customers"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Refresh = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "recompute view"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	return k
}

func setViewKeys(k KeyMap) KeyMap {
	k.Region = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle region filter"))
	k.Window = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle window (7/30/60/90d)"))
	k.Export = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export csv"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Region, k.Window, k.Export, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.Region, k.Window, k.Export},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	StatusBar   lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#C4103B", Dark: "#E8384F"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.StatusBar = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. The startup view is taken
// from the manager's configuration.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	state := NewState()
	if mgr != nil {
		cfg := mgr.Config()
		state.SetView(models.NewViewState(cfg.Region, models.Window(cfg.DaysBack)))
	}

	return &Model{
		activeTab: TabOverview,
		tabNames:  []string{TabOverview.String(), TabCustomers.String(), TabInfo.String()},
		tabs:      make([]Tab, 3),
		state:     state,
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Generating roster...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.commands.DefaultTick(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		cmds = append(cmds, m.commands.LoadView(m.state.GetView(), m.state.ViewGeneration()))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Every tab renders from the loaded view, not only the visible one.
	if loaded, ok := msg.(ViewLoadedMsg); ok {
		if !m.handleViewLoaded(loaded) {
			return m, nil
		}
		return m, tea.Batch(m.updateAllTabs(msg)...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		cmds = append(cmds, m.handleTick())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case ViewChangedMsg:
		cmds = append(cmds, m.changeView(msg.View))
	case RefreshMsg:
		cmds = append(cmds, m.changeView(m.state.GetView()))
	case ExportMsg:
		cmds = append(cmds, m.startExport())
	case ExportResultMsg:
		cmds = append(cmds, m.handleExportResult(msg)...)
	case CopyToClipboardMsg:
		cmds = append(cmds, copyToClipboardCmd(msg.Text))
	case ClipboardResultMsg:
		cmds = append(cmds, m.handleClipboardResult(msg))
	case AddNotificationMsg:
		cmds = append(cmds, m.handleAddNotification(msg)...)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
	case StopLoadingMsg:
		m.handleStopLoading(msg)
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("%s: %v", msg.Context, msg.Error)))
	case TabSwitchMsg:
		m.switchTab(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleTick() tea.Cmd {
	m.state.ClearExpiredNotifications()
	return m.commands.DefaultTick()
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

// changeView stores view and schedules its evaluation.
func (m *Model) changeView(view models.ViewState) tea.Cmd {
	gen := m.state.SetView(view)
	if m.services == nil {
		return nil
	}
	m.state.SetLoading("view", true)
	return m.commands.LoadView(view, gen)
}

// handleViewLoaded applies a finished load. Loads overtaken by a newer view
// change are dropped and reported as not applied.
func (m *Model) handleViewLoaded(msg ViewLoadedMsg) bool {
	if !m.state.ApplyView(msg) {
		logger.Debug("dropping stale view load", "generation", msg.Generation)
		return false
	}
	m.state.SetLoading("initial", false)
	m.state.SetLoading("view", false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
	return true
}

func (m *Model) startExport() tea.Cmd {
	if m.services == nil || m.state.IsExporting() {
		return nil
	}
	m.state.SetLoading("export", true)
	m.state.SetLoadingNotification("Exporting CSV...")
	return m.commands.ExportCSV()
}

func (m *Model) handleExportResult(msg ExportResultMsg) []tea.Cmd {
	m.handleStopLoading(StopLoadingMsg{Resource: "export"})
	if msg.Error != nil {
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Export failed: %v", msg.Error))}
	}
	m.state.SetLastExport(msg.Path)
	return []tea.Cmd{notifySuccessCmd(exportedMessage(msg.Path))}
}

func (m *Model) handleClipboardResult(msg ClipboardResultMsg) tea.Cmd {
	if msg.Error != nil {
		logger.Warn("clipboard copy failed", "error", msg.Error)
		return notifyErrorCmd(fmt.Sprintf("Copy failed: %v", msg.Error))
	}
	return notifyInfoCmd("Copied " + msg.Text)
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	var cmds []tea.Cmd
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
	}
	return cmds
}

func (m *Model) handleStopLoading(msg StopLoadingMsg) {
	m.state.SetLoading(msg.Resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

// currentTab returns the active tab, or nil when none is registered.
func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	tab := m.currentTab()
	if tab == nil {
		return nil
	}
	var cmd tea.Cmd
	m.tabs[m.activeTab], cmd = tab.Update(msg)
	return cmd
}

func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) activeTabCapturesInput() bool {
	c, ok := m.currentTab().(InputCapturer)
	return ok && c.CapturesInput()
}

func (m *Model) switchTab(id TabID) {
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles global keys. handled reports whether the key was
// consumed and must not reach the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.activeTabCapturesInput() {
		return nil, false
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape) {
			m.showHelp = false
			return nil, true
		}
		if key.Matches(msg, m.keymap.Quit) {
			return tea.Quit, true
		}
		return nil, true
	}

	view := m.state.GetView()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil, true

	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabOverview)
		return nil, true

	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabCustomers)
		return nil, true

	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabInfo)
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		return nil, true

	case key.Matches(msg, m.keymap.Region):
		next := view.NextRegion()
		return tea.Batch(
			m.changeView(next),
			notifyInfoCmd("Region: "+models.RegionLabel(next.Region)),
		), true

	case key.Matches(msg, m.keymap.Window):
		next := view.NextWindow()
		return tea.Batch(
			m.changeView(next),
			notifyInfoCmd("Window: last "+next.Window.String()),
		), true

	case key.Matches(msg, m.keymap.Export):
		return m.startExport(), true

	case key.Matches(msg, m.keymap.Refresh):
		return m.changeView(view), true
	}

	return nil, false
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.RosterChangedEvent:
		return tea.Batch(
			m.changeView(m.state.GetView()),
			notifyInfoCmd(fmt.Sprintf("Roster generated from seed %d (%d customers)", e.Seed, e.Customers)),
		)

	case services.ExportCompletedEvent:
		if e.Kind == services.ExportSQLite {
			return notifySuccessCmd(fmt.Sprintf("Snapshot written to %s", e.Path))
		}

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if tab := m.currentTab(); tab != nil {
		b.WriteString(tab.View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	for len(mainLines) < m.height {
		mainLines = append(mainLines, "")
	}
	overlayLines := strings.Split(overlay, "\n")

	overlayHeight := len(overlayLines)
	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-overlayHeight)/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		// Skip x+overlayWidth visual cells for the right part.
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	view := m.state.GetView()
	status := m.styles.StatusBar.Render(fmt.Sprintf("%s · last %s · seed %d",
		models.RegionLabel(view.Region), view.Window, m.state.GetSeed()))

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if gap := m.width - lipgloss.Width(tabBar) - lipgloss.Width(status) - 2; gap > 0 {
		tabBar = lipgloss.JoinHorizontal(lipgloss.Top, tabBar, strings.Repeat(" ", gap), status)
	}

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	if len(toasts) == 0 {
		return mainView
	}

	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			padding := strings.Repeat(" ", startX-mainLineWidth)
			mainLines[lineIdx] = mainLine + padding + toastLine
		} else {
			truncated := ansi.Truncate(mainLine, startX, "")
			mainLines[lineIdx] = truncated + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

// helpSection is one titled group of bindings in the help overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

func (m *Model) helpSections() []helpSection {
	k := m.keymap
	sections := []helpSection{
		{"Navigation", []key.Binding{k.Tab1, k.Tab2, k.Tab3, k.NextTab, k.PrevTab}},
		{"View", []key.Binding{k.Region, k.Window, k.Export, k.Refresh}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}
	if tab := m.currentTab(); tab != nil {
		sections = append(sections, helpSection{
			title:    m.tabNames[m.activeTab] + " Tab",
			bindings: lo.Flatten(tab.FullHelp()),
		})
	}
	return sections
}

func (m *Model) renderHelp() string {
	lines := []string{m.styles.Title.Render("Keyboard Shortcuts"), ""}

	for _, section := range m.helpSections() {
		if len(section.bindings) == 0 {
			continue
		}
		lines = append(lines, m.styles.Highlight.Render(section.title))
		for _, b := range section.bindings {
			lines = append(lines, fmt.Sprintf("  %-10s %s", b.Help().Key, b.Help().Desc))
		}
		lines = append(lines, "")
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("No view registered for this tab."),
	)
	return m.styles.Content.Render(content)
}
