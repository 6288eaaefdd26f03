// Package info provides the info tab: configuration, roster and build details.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/partner-console-tui/internal/app"
	"github.com/j-veylop/partner-console-tui/internal/config"
)

type keyMap struct {
	Copy key.Binding
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy export path"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model is the info tab. It reads the shared state and the loaded
// configuration; it never changes the view.
type Model struct {
	state    *app.State
	config   *config.Config
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates the info tab. cfg may be nil when running without a manager.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the page and handles the copy key.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Copy) {
		return m, m.copyExportPath()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

// copyExportPath asks the root model to copy the last exported file, or the
// export directory when nothing has been exported yet.
func (m *Model) copyExportPath() tea.Cmd {
	path := m.state.GetLastExport()
	if path == "" && m.config != nil {
		path = m.config.ExportDir
	}
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Text: path}
	}
}

// SetSize implements app.Tab.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Copy, m.keys.Up, m.keys.Down}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Copy},
		{m.keys.Up, m.keys.Down},
	}
}
