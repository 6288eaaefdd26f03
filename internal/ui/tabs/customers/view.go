package customers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/app"
	"github.com/j-veylop/partner-console-tui/internal/models"
	"github.com/j-veylop/partner-console-tui/internal/ui/components"
	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
	"github.com/j-veylop/partner-console-tui/internal/usage"
)

const (
	trendHeight     = 6
	bucketNameWidth = 22
	statWidth       = 22
)

// View renders the customers tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if detail := m.state.GetDetail(); detail != nil {
		return m.renderDetail(detail)
	}

	sections := []string{
		m.renderTitle(),
		m.renderSearch(),
		m.renderTable(),
		m.renderFooter(),
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Customers")

	view := m.state.GetView()
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d of %d customers · %s · sorted by %s %s",
		m.state.GetCustomerCount(),
		m.state.GetRosterSize(),
		models.RegionLabel(view.Region),
		view.Sort.Key,
		view.Sort.Arrow(),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSearch() string {
	if m.searching {
		return styles.FocusedBorderStyle.Render(m.search.View())
	}

	query := m.state.GetView().Query
	if query == "" {
		return styles.BlurredBorderStyle.Render(styles.HelpStyle.Render("Press / to search by name"))
	}
	return styles.BlurredBorderStyle.Render(fmt.Sprintf("/ %s", query))
}

func (m *Model) renderTable() string {
	if len(m.rowIDs) == 0 {
		return m.renderEmptyState()
	}
	return styles.CardStyle.Padding(0, 1).Render(m.table.View())
}

// renderEmptyState is shown when the search and region filter match nothing.
func (m *Model) renderEmptyState() string {
	cardWidth := max(m.width-8, 40)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No matching customers"),
		styles.HelpStyle.Render("Change the region with 'f' or press esc to clear the search."),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

func (m *Model) renderFooter() string {
	hints := []string{
		styles.HelpKeyStyle.Render("n/b/s/e") + " " + styles.HelpDescStyle.Render("sort"),
		styles.HelpKeyStyle.Render("enter") + " " + styles.HelpDescStyle.Render("details"),
		styles.HelpKeyStyle.Render("/") + " " + styles.HelpDescStyle.Render("search"),
	}
	return strings.Join(hints, "  ")
}

// renderDetail renders the selected customer in place of the table.
func (m *Model) renderDetail(detail *app.CustomerDetail) string {
	width := max(m.detail.Width, 50)
	c := detail.Customer

	regionLabels := lo.Map(c.Regions, func(r string, _ int) string { return models.RegionLabel(r) })

	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(c.Name),
		styles.HelpStyle.Render(fmt.Sprintf("%s · %s", c.ID, strings.Join(regionLabels, ", "))),
		"",
	)

	storage := lo.Map(detail.Trend, func(d models.DailyMetric, _ int) float64 { return d.StorageTB })
	egress := lo.Map(detail.Trend, func(d models.DailyMetric, _ int) float64 { return d.EgressTB })

	spark := components.RenderSparkline(lo.Subset(egress, -usage.SummaryDays, usage.SummaryDays), statWidth-4)
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		renderStat("30d avg stored", usage.FormatTB(detail.Summary.AvgStorageTB), ""),
		renderStat("30d egress", usage.FormatTB(detail.Summary.SumEgressTB), spark),
		renderStat("Buckets", usage.FormatCount(detail.Summary.Buckets), ""),
	)
	chartWidth := max(width-16, 20)
	caption := fmt.Sprintf("last %d days", len(detail.Trend))

	sections := []string{
		header,
		summary,
		"",
		styles.CardTitleStyle.Render("Storage (TB)"),
		components.RenderLineChart(storage, chartWidth, trendHeight, caption, asciigraph.DodgerBlue),
		"",
		styles.CardTitleStyle.Render("Egress (TB)"),
		components.RenderLineChart(egress, chartWidth, trendHeight, caption, asciigraph.DarkOrange),
		"",
		m.renderBuckets(detail.Buckets, width),
		"",
		styles.HelpStyle.Render("esc to close"),
	}

	m.detail.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(
		styles.ModalContentStyle.Render(m.detail.View()),
	)
}

// renderBuckets lists each bucket with its storage share bar and its
// estimated storage and egress.
func (m *Model) renderBuckets(buckets []models.BucketUsage, width int) string {
	rows := []string{styles.CardTitleStyle.Render("Buckets")}

	if len(buckets) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(rows, styles.HelpStyle.Render("No buckets"))...)
	}

	for _, b := range buckets {
		bar := m.shareBar.View(b.StorageShare, b.Name, bucketNameWidth, min(width, 70))
		figures := styles.HelpStyle.Render(fmt.Sprintf("  %s · %s stored · %s egress · %.1f%% of egress",
			models.RegionLabel(b.Region),
			usage.FormatTB(b.AvgStorageTB),
			usage.FormatTB(b.SumEgressTB),
			b.EgressShare*100,
		))
		rows = append(rows, bar, figures)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderStat(label, value, spark string) string {
	lines := []string{
		styles.KPILabelStyle.Render(label),
		styles.KPIValueStyle.Render(value),
	}
	if spark != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.Egress).Render(spark))
	}
	return styles.KPICardStyle.Width(statWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
