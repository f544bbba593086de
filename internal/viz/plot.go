package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/coilworks/springlab/internal/spring"
)

// PlotCurves renders the load and rate characteristics as terminal graphs.
// Returns an empty string when the result carries no curves.
func PlotCurves(res *spring.Result) string {
	if res.Curves == nil || len(res.Curves.Load) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(asciigraph.Plot(res.Curves.Load,
		asciigraph.Height(10),
		asciigraph.Width(72),
		asciigraph.Caption("load vs travel"),
	))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.Plot(res.Curves.Rate,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Caption("tangent rate vs travel"),
	))
	b.WriteString("\n")
	return b.String()
}

// PlotEnergy renders the stored energy curve.
func PlotEnergy(res *spring.Result) string {
	if res.Curves == nil || len(res.Curves.Energy) == 0 {
		return ""
	}
	return asciigraph.Plot(res.Curves.Energy,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Caption("stored energy vs travel"),
	) + "\n"
}

// CaseTable renders the evaluated load cases as plain text rows.
func CaseTable(res *spring.Result) string {
	var b strings.Builder
	for i, c := range res.Cases {
		status := StatusStyle(c.Status).Render(string(c.Status))
		line := fmt.Sprintf("case %d  %s=%.4g  defl=%.4g  load=%.4g  stress=%.4g MPa  %s",
			i+1, c.Mode, c.Input, c.Deflection, c.Load, c.Stress, status)
		if c.Reason != spring.ReasonNone {
			line += Subtle.Render(" (" + string(c.Reason) + ")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Findings renders design-rule findings, one per line.
func Findings(res *spring.Result) string {
	var b strings.Builder
	for _, f := range res.Findings {
		b.WriteString(StatusStyle(f.Severity).Render(f.Code))
		b.WriteString(": " + f.Message + "\n")
	}
	return b.String()
}
