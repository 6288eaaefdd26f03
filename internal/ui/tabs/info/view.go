package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/partner-console-tui/internal/export"
	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
	"github.com/j-veylop/partner-console-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderRosterCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-8, 50), 80)
}

// renderConfigCard renders the effective configuration.
func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config != nil {
		rows = append(rows,
			m.renderConfigRow("Env File", orNone(m.config.EnvPath)),
			m.renderConfigRow("Start Region", models.RegionLabel(m.config.Region)),
			m.renderConfigRow("Start Window", models.Window(m.config.DaysBack).String()),
			m.renderConfigRow("Export Dir", m.config.ExportDir),
			m.renderConfigRow("Snapshot DB", orNone(m.config.SnapshotDBPath)),
			m.renderConfigRow("Log File", m.config.LogPath),
			m.renderConfigRow("Notify", onOff(m.config.NotifyOnExport)),
			m.renderConfigRow("Watch .env", onOff(m.config.WatchEnv)),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRosterCard describes the generated dataset and the last export.
func (m *Model) renderRosterCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("Roster"),
		m.renderConfigRow("Seed", strconv.Itoa(m.state.GetSeed())),
		m.renderConfigRow("Customers", strconv.Itoa(m.state.GetRosterSize())),
		m.renderConfigRow("Regions", strconv.Itoa(len(models.Regions))),
		m.renderConfigRow("History", fmt.Sprintf("%d days", models.HistoryDays)),
	}

	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		rows = append(rows, m.renderConfigRow("Evaluated", humanize.Time(updated)))
	}

	lastExport := styles.SuccessTextStyle.Render(m.state.GetLastExport())
	if m.state.GetLastExport() == "" {
		lastExport = styles.InfoTextStyle.Render("none (press x to write " + export.DefaultFilename + ")")
	}
	rows = append(rows, m.renderConfigRow("Last Export", lastExport))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the version information card.
func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Commit", version.GetCommit()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return styles.SuccessTextStyle.Render("on")
	}
	return styles.WarningTextStyle.Render("off")
}
