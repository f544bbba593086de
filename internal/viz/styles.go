package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coilworks/springlab/internal/spring"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a001a")).
			Background(lipgloss.Color("#00ccff"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	statusOK      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusWarning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusDanger  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	statusInvalid = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Strikethrough(true)
)

// StatusStyle maps a case status to its terminal style.
func StatusStyle(s spring.Status) lipgloss.Style {
	switch s {
	case spring.StatusOK:
		return statusOK
	case spring.StatusWarning:
		return statusWarning
	case spring.StatusDanger:
		return statusDanger
	default:
		return statusInvalid
	}
}

// RankBadge renders a Pareto rank as a compact colored tag.
func RankBadge(rank int) string {
	label := fmt.Sprintf("F%d", rank)
	switch {
	case rank == 1:
		return statusOK.Render(label)
	case rank <= 3:
		return statusWarning.Render(label)
	default:
		return Subtle.Render(label)
	}
}

// StressBar renders the stress ratio as a fixed-width utilization bar.
func StressBar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case ratio > 1:
		return statusDanger.Render(bar)
	case ratio > 0.8:
		return statusWarning.Render(bar)
	default:
		return statusOK.Render(bar)
	}
}
