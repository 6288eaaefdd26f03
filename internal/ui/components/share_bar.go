package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/partner-console-tui/internal/ui/styles"
)

// Gradient endpoints for share bars.
const (
	shareFrom = "#5f87ff"
	shareTo   = "#ff005f"
)

// ShareBar renders a fraction of a whole as a labelled progress bar.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with gradient colors.
func NewShareBar() ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithScaledGradient(shareFrom, shareTo),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// View renders share (0..1) with a fixed-width label and a percentage.
func (s ShareBar) View(share float64, label string, labelWidth, width int) string {
	share = min(max(share, 0), 1)
	percent := share * 100

	s.progress.Width = max(width-labelWidth-8, 10)
	bar := s.progress.ViewAs(share)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(labelWidth).
		MaxWidth(labelWidth).
		Render(label)

	percentStr := styles.GetShareStyle(percent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// LoadingBar renders an animated placeholder bar. frame advances the
// shimmer; accent colors its head.
func LoadingBar(width, frame int, accent lipgloss.Color) string {
	width = max(width, 10)

	const cycle = 120
	t := float64(frame%cycle) / float64(cycle)
	p := t * 2
	if t >= 0.5 {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	pos := int(eased * float64(width))

	var barChars []string
	for i := 0; i < width; i++ {
		dist := pos - i
		if dist < 0 {
			dist = -dist
		}

		switch {
		case dist < 3:
			barChars = append(barChars, lipgloss.NewStyle().Foreground(accent).Render("▓"))
		case dist < 5:
			barChars = append(barChars, lipgloss.NewStyle().Foreground(styles.TextSecondary).Render("▒"))
		default:
			barChars = append(barChars, lipgloss.NewStyle().Foreground(styles.BgLight).Render("░"))
		}
	}

	return strings.Join(barChars, "")
}
