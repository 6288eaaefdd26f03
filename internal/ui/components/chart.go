// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
)

// Minimum chart dimensions.
const (
	minChartWidth  = 20
	minChartHeight = 3
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string, color asciigraph.AnsiColor) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, minChartWidth)
	height = max(height, minChartHeight)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(color),
	)
}

// ScaleFactor returns the power of ten that brings secondary's peak into
// the same order of magnitude as primary's peak. It is 1 when secondary is
// already comparable or either series is empty.
func ScaleFactor(primary, secondary []float64) float64 {
	pMax, sMax := peak(primary), peak(secondary)
	if pMax <= 0 || sMax <= 0 || sMax*10 > pMax {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(pMax/sMax)))
}

// RenderDualLineChart plots storage against egress. Egress is multiplied by
// ScaleFactor so both lines share the axis; the legend states the factor.
func RenderDualLineChart(storage, egress []float64, width, height int, caption string) string {
	if len(storage) == 0 && len(egress) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, minChartWidth)
	height = max(height, minChartHeight)

	// Normalize lengths by padding the shorter series with zeros.
	n := max(len(storage), len(egress))
	storageData := make([]float64, n)
	egressData := make([]float64, n)
	copy(storageData, storage)
	copy(egressData, egress)

	factor := ScaleFactor(storageData, egressData)
	for i := range egressData {
		egressData[i] *= factor
	}

	egressLegend := "Egress TB"
	if factor != 1 {
		egressLegend = fmt.Sprintf("Egress TB ×%.0f", factor)
	}

	return asciigraph.PlotMany([][]float64{storageData, egressData},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.DodgerBlue, asciigraph.DarkOrange),
		asciigraph.SeriesLegends("Storage TB", egressLegend),
	)
}

// columnBlocks are the partial block glyphs used for column tops.
var columnBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderColumnChart draws one vertical bar per value, resampled to width,
// with the peak labelled on the first row.
func RenderColumnChart(values []float64, width, height int, color lipgloss.Color) string {
	if len(values) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	height = max(height, minChartHeight)
	label := formatCompact(peak(values))
	plotWidth := max(width-len(label)-3, 10)

	columns := resample(values, plotWidth)
	maxVal := peak(columns)
	if maxVal == 0 {
		maxVal = 1
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	axisStyle := lipgloss.NewStyle().Foreground(styles.Subtle)
	pad := strings.Repeat(" ", len(label))

	rows := make([]string, 0, height+1)
	for row := height; row >= 1; row-- {
		var line strings.Builder
		for _, v := range columns {
			// Eighths of a cell filled above the rows below this one.
			eighths := int(math.Round(v/maxVal*float64(height*8))) - (row-1)*8
			eighths = min(max(eighths, 0), 8)
			line.WriteRune(columnBlocks[eighths])
		}

		prefix := pad
		if row == height {
			prefix = label
		}
		rows = append(rows, axisStyle.Render(prefix+" ┤")+barStyle.Render(line.String()))
	}
	rows = append(rows, axisStyle.Render(fmt.Sprintf("%*s └%s", len(label), "0", strings.Repeat("─", len(columns)))))

	return strings.Join(rows, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(values, width)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range sampled {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var result strings.Builder
	for _, v := range sampled {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkChars)-1))
		}
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// resample fits values into n cells. Shorter input is returned as is;
// longer input is averaged per cell.
func resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}

	out := make([]float64, n)
	step := float64(len(values)) / float64(n)
	for i := range out {
		start := int(float64(i) * step)
		end := max(int(float64(i+1)*step), start+1)
		end = min(end, len(values))

		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func peak(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

// formatCompact renders a count with an SI suffix, e.g. "1.2M".
func formatCompact(v float64) string {
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}
