// Package customers provides the customer list tab with search, sorting and
// a per-customer detail view.
package customers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/partner-console-tui/internal/app"
	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/ui/components"
	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
	"github.com/j-veylop/partner-console-tui/internal/usage"
)

// Fixed column widths; the customer column takes the remaining space.
const (
	regionsWidth = 30
	bucketsWidth = 9
	storageWidth = 18
	egressWidth  = 18
)

// keyMap defines the key bindings specific to the customers tab.
type keyMap struct {
	Search      key.Binding
	SortName    key.Binding
	SortBuckets key.Binding
	SortStorage key.Binding
	SortEgress  key.Binding
	Open        key.Binding
	Escape      key.Binding
	Accept      key.Binding
}

// defaultKeyMap returns the default key bindings for the customers tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		SortName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "sort by name"),
		),
		SortBuckets: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "sort by buckets"),
		),
		SortStorage: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by storage"),
		),
		SortEgress: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "sort by egress"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/clear"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply search"),
		),
	}
}

// tableKeyMap drops the single-letter paging keys that collide with sorting.
func tableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.PageUp = key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	)
	km.PageDown = key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	)
	return km
}

// Model represents the customers tab state.
type Model struct {
	state     *app.State
	table     table.Model
	search    textinput.Model
	searching bool
	detail    viewport.Model
	detailID  string
	shareBar  components.ShareBar
	spinner   components.LoadingSpinner
	keys      keyMap
	rowIDs    []string
	width     int
	height    int
}

// New creates a new customers model.
func New(state *app.State) *Model {
	search := textinput.New()
	search.Placeholder = "Search customers..."
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Width = 40
	search.PromptStyle = styles.FocusedStyle
	search.PlaceholderStyle = styles.BlurredStyle

	t := table.New(
		table.WithColumns(columns(models.DefaultSort, 24)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(tableKeyMap()),
	)

	t.SetStyles(table.Styles{
		Header:   styles.TableHeaderStyle.Padding(0, 1),
		Cell:     styles.TableCellStyle,
		Selected: styles.TableSelectedStyle,
	})

	return &Model{
		state:    state,
		table:    t,
		search:   search,
		detail:   viewport.New(0, 0),
		shareBar: components.NewShareBar(),
		spinner:  components.NewSpinner("Generating roster..."),
		keys:     defaultKeyMap(),
	}
}

// Init initializes the customers tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturesInput reports whether the search box owns the keyboard.
func (m *Model) CapturesInput() bool {
	return m.searching
}

// Update handles messages for the customers tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ViewLoadedMsg:
		m.syncFromState()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m, m.updateSearch(msg)
		}
		if m.state.GetDetail() != nil {
			return m, m.updateDetail(msg)
		}
		return m, m.updateList(msg)
	}

	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	view := m.state.GetView()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(view.Query)
		m.search.CursorEnd()
		return m.search.Focus()

	case key.Matches(msg, m.keys.SortName):
		return app.ChangeViewCmd(view.ToggleSort(models.SortByName))
	case key.Matches(msg, m.keys.SortBuckets):
		return app.ChangeViewCmd(view.ToggleSort(models.SortByBuckets))
	case key.Matches(msg, m.keys.SortStorage):
		return app.ChangeViewCmd(view.ToggleSort(models.SortByStorage))
	case key.Matches(msg, m.keys.SortEgress):
		return app.ChangeViewCmd(view.ToggleSort(models.SortByEgress))

	case key.Matches(msg, m.keys.Open):
		if id := m.selectedID(); id != "" {
			return app.ChangeViewCmd(view.Select(id))
		}
		return nil

	case key.Matches(msg, m.keys.Escape):
		if view.Query != "" {
			return app.ChangeViewCmd(view.WithQuery(""))
		}
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

// updateSearch edits the query. Every edit re-evaluates the view so the
// table filters as the user types.
func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	view := m.state.GetView()

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.stopSearch()
		if view.Query != "" {
			return app.ChangeViewCmd(view.WithQuery(""))
		}
		return nil

	case key.Matches(msg, m.keys.Accept):
		m.stopSearch()
		return nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if value := m.search.Value(); value != before {
		return tea.Batch(app.ChangeViewCmd(view.WithQuery(strings.TrimSpace(value))), cmd)
	}
	return cmd
}

func (m *Model) stopSearch() {
	m.searching = false
	m.search.Blur()
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Escape) {
		return app.ChangeViewCmd(m.state.GetView().ClearSelection())
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

// selectedID returns the customer id under the table cursor.
func (m *Model) selectedID() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rowIDs) {
		return ""
	}
	return m.rowIDs[cursor]
}

// syncFromState rebuilds the table from the loaded view.
func (m *Model) syncFromState() {
	view := m.state.GetView()
	customers := m.state.GetCustomers()

	rows := make([]table.Row, 0, len(customers))
	m.rowIDs = make([]string, 0, len(customers))

	for i := range customers {
		c := &customers[i]
		summary, ok := m.state.GetSummary(c.ID)
		if !ok {
			summary = usage.Summarize(*c)
		}

		rows = append(rows, table.Row{
			c.Name,
			strings.Join(c.Regions, ", "),
			usage.FormatCount(summary.Buckets),
			usage.FormatTB(summary.AvgStorageTB),
			usage.FormatTB(summary.SumEgressTB),
		})
		m.rowIDs = append(m.rowIDs, c.ID)
	}

	m.table.SetColumns(columns(view.Sort, m.nameWidth()))
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(m.table.Cursor())
	}

	if detail := m.state.GetDetail(); detail != nil && detail.Customer.ID != m.detailID {
		m.detailID = detail.Customer.ID
		m.detail.GotoTop()
	} else if detail == nil {
		m.detailID = ""
	}

	if !m.searching {
		m.search.SetValue(view.Query)
	}
}

// columns returns the table columns with the sort arrow on the active one.
func columns(sort models.SortState, nameWidth int) []table.Column {
	title := func(label string, k models.SortKey) string {
		if sort.Key == k {
			return fmt.Sprintf("%s %s", label, sort.Arrow())
		}
		return label
	}

	return []table.Column{
		{Title: title("Customer", models.SortByName), Width: nameWidth},
		{Title: "Regions", Width: regionsWidth},
		{Title: title("Buckets", models.SortByBuckets), Width: bucketsWidth},
		{Title: title("Storage 30d avg", models.SortByStorage), Width: storageWidth},
		{Title: title("Egress 30d sum", models.SortByEgress), Width: egressWidth},
	}
}

func (m *Model) nameWidth() int {
	fixed := regionsWidth + bucketsWidth + storageWidth + egressWidth
	// Cells carry one column of padding on each side.
	return min(max(m.width-fixed-22, 14), 30)
}

// SetSize sets the available size for the customers tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-12, 3))
	m.table.SetColumns(columns(m.state.GetView().Sort, m.nameWidth()))
	m.search.Width = min(max(width-20, 20), 50)
	// DocStyle margins plus the modal's border and padding.
	m.detail.Width = max(width-12, 0)
	m.detail.Height = max(height-6, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Accept, m.keys.Escape}
	}
	if m.state.GetDetail() != nil {
		return []key.Binding{m.keys.Escape}
	}
	return []key.Binding{m.keys.Search, m.keys.Open, m.keys.SortStorage}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Search, m.keys.Open, m.keys.Escape},
		{m.keys.SortName, m.keys.SortBuckets},
		{m.keys.SortStorage, m.keys.SortEgress},
	}
}
