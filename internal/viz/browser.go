package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coilworks/springlab/internal/search"
)

// Browser is a bubbletea model for walking a candidate list: metrics table
// on top, the selected candidate's detail below.
type Browser struct {
	topology string
	cands    []search.Candidate
	cursor   int
	curves   bool
	width    int
}

func NewBrowser(topology string, cands []search.Candidate) *Browser {
	return &Browser{topology: topology, cands: cands, width: 80}
}

// RunBrowser blocks until the user quits.
func RunBrowser(topology string, cands []search.Candidate) error {
	_, err := tea.NewProgram(NewBrowser(topology, cands), tea.WithAltScreen()).Run()
	return err
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.cands)-1 {
				b.cursor++
			}
		case "g":
			b.cursor = 0
		case "G":
			b.cursor = len(b.cands) - 1
		case "enter", " ":
			b.curves = !b.curves
		case "x":
			b.cands[b.cursor].Visible = !b.cands[b.cursor].Visible
		}
	}
	return b, nil
}

// visibleRows keeps the table short enough to leave room for the detail.
const visibleRows = 12

func (b *Browser) View() string {
	if len(b.cands) == 0 {
		return Subtle.Render("no candidates to browse") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(Title.Render(fmt.Sprintf("%s candidates (%d)", b.topology, len(b.cands))))
	sb.WriteString("\n\n")

	start := 0
	if b.cursor >= visibleRows {
		start = b.cursor - visibleRows + 1
	}
	end := start + visibleRows
	if end > len(b.cands) {
		end = len(b.cands)
	}

	header := fmt.Sprintf("  %-10s %-5s %-8s %10s %8s %9s", "ID", "RANK", "SOURCE", "MASS", "STRESS", "MARGIN")
	sb.WriteString(MetricLabel.Render(header) + "\n")
	for i := start; i < end; i++ {
		c := b.cands[i]
		row := fmt.Sprintf("%-10s %-5s %-8s %10.1f %8.2f %9.2f",
			c.ID, RankBadge(c.Rank), c.Source,
			c.Metrics.MassProxy, c.Metrics.StressRatio, c.Metrics.SolidMargin)
		switch {
		case i == b.cursor:
			sb.WriteString(Selected.Render("> "+row) + "\n")
		case !c.Visible:
			sb.WriteString(Subtle.Render("  "+row+"  hidden") + "\n")
		default:
			sb.WriteString("  " + row + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(b.detail())
	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("j/k move  g/G ends  enter curves  x hide  q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (b *Browser) detail() string {
	c := b.cands[b.cursor]
	if !c.Visible {
		return Panel.Render(Subtle.Render("hidden; press x to restore\n"))
	}
	var sb strings.Builder

	sb.WriteString(MetricLabel.Render("rate "))
	sb.WriteString(MetricValue.Render(fmt.Sprintf("%.4g", c.Result.Rate)))
	sb.WriteString(MetricLabel.Render("   stress "))
	sb.WriteString(StressBar(c.Metrics.StressRatio, 20))
	sb.WriteString(MetricValue.Render(fmt.Sprintf(" %.0f%%", c.Metrics.StressRatio*100)))
	sb.WriteString("\n")

	params := make([]string, 0, len(c.Params))
	for k, v := range c.Params {
		params = append(params, fmt.Sprintf("%s=%.4g", k, v))
	}
	sort.Strings(params)
	sb.WriteString(Subtle.Render(strings.Join(params, "  ")) + "\n")

	if b.curves {
		if plot := PlotCurves(c.Result); plot != "" {
			sb.WriteString("\n" + plot)
		} else {
			sb.WriteString(Subtle.Render("no curves stored for this candidate\n"))
		}
	}

	return Panel.Render(sb.String())
}
