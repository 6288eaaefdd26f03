package overview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/ui/components"
	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
	"github.com/j-veylop/partner-console-tui/internal/usage"
)

const (
	minContentWidth = 60
	kpiCount        = 4
	chartHeight    = 10
	requestsHeight = 6
	// asciigraph draws its axis labels outside the requested width.
	axisLabelWidth = 12
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	width := max(m.viewport.Width, minContentWidth)

	sections := []string{
		m.renderTitle(),
		m.renderFilters(width),
		m.renderKPIs(width),
		m.renderStorageEgress(width),
		m.renderRequests(width),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Partner Console")
	subtitle := styles.HelpStyle.Render("Synthetic multi-tenant storage usage")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderFilters shows the active region and window. While a view is being
// evaluated a shimmer bar trails the chips.
func (m *Model) renderFilters(width int) string {
	view := m.state.GetView()

	chips := []string{
		styles.FilterChipStyle.Render("Region: " + models.RegionLabel(view.Region)),
		styles.FilterChipStyle.Render("Window: last " + view.Window.String()),
	}
	if view.Query != "" {
		chips = append(chips, styles.FilterChipStyle.Render(fmt.Sprintf("Search: %q", view.Query)))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, chips...)
	if m.state.AnyLoading() {
		barWidth := max(width-lipgloss.Width(row)-2, 10)
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, " ",
			components.LoadingBar(min(barWidth, 30), m.frame, styles.Primary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, row, "")
}

type kpi struct {
	label string
	value string
}

// renderKPIs renders the four headline tiles side by side.
func (m *Model) renderKPIs(width int) string {
	totals := m.state.GetAggregate().Totals

	tiles := []kpi{
		{"Avg Stored", usage.FormatTB(totals.AvgStorageTB)},
		{"Total Egress", usage.FormatTB(totals.EgressTB)},
		{"Customers", fmt.Sprintf("%d of %d", m.state.GetCustomerCount(), m.state.GetRosterSize())},
		{"Buckets", usage.FormatCount(totals.Buckets)},
	}

	// Each tile has a 1-cell border on both sides.
	tileWidth := max(width/kpiCount-2, 12)

	rendered := lo.Map(tiles, func(t kpi, _ int) string {
		body := lipgloss.JoinVertical(lipgloss.Left,
			styles.KPILabelStyle.Render(t.label),
			styles.KPIValueStyle.Render(t.value),
		)
		return styles.KPICardStyle.Width(tileWidth).Render(body)
	})

	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, rendered...), "")
}

// renderStorageEgress plots the daily storage and egress series.
func (m *Model) renderStorageEgress(width int) string {
	series := m.state.GetAggregate().Series

	storage := lo.Map(series, func(d models.DailyMetric, _ int) float64 { return d.StorageTB })
	egress := lo.Map(series, func(d models.DailyMetric, _ int) float64 { return d.EgressTB })

	chart := components.RenderDualLineChart(storage, egress, chartWidth(width), chartHeight, dateCaption(series))

	return m.renderCard("Storage vs Egress (Daily)", chart, width)
}

// renderRequests draws daily request counts as columns.
func (m *Model) renderRequests(width int) string {
	aggregate := m.state.GetAggregate()
	requests := lo.Map(aggregate.Series, func(d models.DailyMetric, _ int) float64 { return float64(d.Requests) })

	chart := components.RenderColumnChart(requests, cardInnerWidth(width), requestsHeight, styles.Requests)
	footer := styles.HelpStyle.Render(fmt.Sprintf("%s requests in window", usage.FormatCount(aggregate.Totals.Requests)))

	return m.renderCard("Requests (Daily)", lipgloss.JoinVertical(lipgloss.Left, chart, "", footer), width)
}

func (m *Model) renderCard(title, body string, width int) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	header := fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(title))

	// Width excludes the border.
	return styles.CardStyle.Width(width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, body),
	)
}

// cardInnerWidth is the text width inside a card of the given outer width.
func cardInnerWidth(width int) int {
	return width - 6
}

func chartWidth(width int) int {
	return max(cardInnerWidth(width)-axisLabelWidth, 20)
}

// dateCaption describes the span covered by series.
func dateCaption(series []models.DailyMetric) string {
	if len(series) == 0 {
		return ""
	}
	first, last := series[0].Date, series[len(series)-1].Date
	return fmt.Sprintf("%s → %s (%d days)", first, last, len(series))
}
