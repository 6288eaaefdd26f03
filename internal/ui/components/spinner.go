package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
)

// LoadingSpinner is the placeholder a tab shows until its first view state
// has been evaluated.
type LoadingSpinner struct {
	model spinner.Model
	label string
}

// NewSpinner returns a spinner captioned with label.
func NewSpinner(label string) LoadingSpinner {
	return LoadingSpinner{
		model: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Storage)),
		),
		label: label,
	}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.model.Tick
}

// Update advances the frame. Ticks addressed to other spinners are ignored.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// Caption renders the current frame followed by the label.
func (l LoadingSpinner) Caption() string {
	return l.model.View() + " " + styles.KPILabelStyle.Render(l.label)
}

// RenderSpinnerCentered places the captioned spinner in the middle of a
// width x height area.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.Caption(), width, height)
}
