// Package export renders characteristic curves and spring sketches to SVG.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/coilworks/springlab/internal/spring"
	"github.com/coilworks/springlab/internal/viz"
)

// CurveSVG renders a load-travel curve as a single SVG path.
func CurveSVG(curves *spring.Curves, width, height int, strokeColor string) string {
	if curves == nil || len(curves.Load) < 2 {
		return ""
	}

	maxTravel := curves.Travel[len(curves.Travel)-1]
	maxLoad := 0.0
	for _, v := range curves.Load {
		if v > maxLoad {
			maxLoad = v
		}
	}
	if maxTravel <= 0 || maxLoad <= 0 {
		return ""
	}

	// 5% margin on every side.
	mx := float64(width) * 0.05
	my := float64(height) * 0.05
	plotW := float64(width) - 2*mx
	plotH := float64(height) - 2*my

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#444466" stroke-width="1" d="M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height,
		mx, my, mx, my+plotH, mx+plotW, my+plotH,
		strokeColor))

	for i := range curves.Load {
		x := mx + curves.Travel[i]/maxTravel*plotW
		y := my + plotH - curves.Load[i]/maxLoad*plotH
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SketchSVG renders a braille canvas as dots, one circle per set dot.
func SketchSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotWidth()) * scale
	height := float64(canvas.DotHeight()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height))

	radius := scale * 0.4
	canvas.EachDot(func(x, y int) {
		cx := float64(x)*scale + scale/2
		cy := float64(y)*scale + scale/2
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius))
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteCurveSVG writes the curve plot to a file.
func WriteCurveSVG(path string, curves *spring.Curves, width, height int) error {
	svg := CurveSVG(curves, width, height, "#00ff88")
	if svg == "" {
		return fmt.Errorf("export: no curve data to render")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
