package search

import (
	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/spring"
)

// Grid caps. Disc stacks explode combinatorially with stack counts, so
// they get a tighter cap.
const (
	maxGridDisc    = 500
	maxGridGeneral = 5000
)

// axis is one enumerated parameter with its sample count and the default
// range used when the space does not bound it.
type axis struct {
	key      string
	samples  int
	fallback spring.Range
}

// axisPlan returns the enumeration axes for a topology, in a fixed order.
// Free length gets at most 3 samples: rate dominates the match, length
// mostly shifts the operating point.
func axisPlan(topo spring.Topology) []axis {
	switch topo {
	case spring.Disc:
		return []axis{
			{engines.ParamOuterDiameter, 5, spring.Range{Min: 20, Max: 80}},
			{engines.ParamInnerDiameter, 4, spring.Range{Min: 10, Max: 40}},
			{engines.ParamThickness, 5, spring.Range{Min: 0.8, Max: 4}},
			{engines.ParamConeHeight, 5, spring.Range{Min: 0.5, Max: 3}},
		}
	case spring.Torsion:
		return []axis{
			{engines.ParamWireDiameter, 10, spring.Range{Min: 0.5, Max: 6}},
			{engines.ParamMeanDiameter, 10, spring.Range{Min: 5, Max: 60}},
			{engines.ParamActiveCoils, 12, spring.Range{Min: 2, Max: 20}},
		}
	case spring.Spiral:
		return []axis{
			{engines.ParamStripWidth, 8, spring.Range{Min: 2, Max: 20}},
			{engines.ParamStripThickness, 8, spring.Range{Min: 0.2, Max: 2}},
			{engines.ParamLength, 12, spring.Range{Min: 100, Max: 2000}},
		}
	case spring.Wave:
		return []axis{
			{engines.ParamMeanDiameter, 8, spring.Range{Min: 15, Max: 80}},
			{engines.ParamStripWidth, 5, spring.Range{Min: 2, Max: 10}},
			{engines.ParamStripThickness, 5, spring.Range{Min: 0.2, Max: 1}},
			{engines.ParamTurns, 8, spring.Range{Min: 2, Max: 12}},
			{engines.ParamFreeLength, 3, spring.Range{Min: 8, Max: 40}},
		}
	case spring.Conical:
		return []axis{
			{engines.ParamWireDiameter, 8, spring.Range{Min: 0.5, Max: 8}},
			{engines.ParamLargeDiameter, 8, spring.Range{Min: 10, Max: 80}},
			{engines.ParamActiveCoils, 8, spring.Range{Min: 3, Max: 15}},
			{engines.ParamFreeLength, 3, spring.Range{Min: 20, Max: 120}},
		}
	case spring.Shock:
		// Shock coils sweep the winding pitch too: the helix is synthesized
		// from it, so pitch is a first-class axis.
		return []axis{
			{engines.ParamWireDiameter, 6, spring.Range{Min: 6, Max: 16}},
			{engines.ParamMeanDiameter, 6, spring.Range{Min: 60, Max: 160}},
			{engines.ParamActiveCoils, 6, spring.Range{Min: 4, Max: 12}},
			{engines.ParamPitch, 4, spring.Range{Min: 15, Max: 60}},
		}
	case spring.VariablePitch:
		return []axis{
			{engines.ParamWireDiameter, 7, spring.Range{Min: 1, Max: 8}},
			{engines.ParamMeanDiameter, 7, spring.Range{Min: 8, Max: 60}},
			{engines.ParamActiveCoils, 7, spring.Range{Min: 4, Max: 16}},
			{engines.ParamPitchRatio, 4, spring.Range{Min: 1.2, Max: 2.5}},
			{engines.ParamFreeLength, 3, spring.Range{Min: 20, Max: 120}},
		}
	case spring.Arc:
		return []axis{
			{engines.ParamWireDiameter, 8, spring.Range{Min: 2, Max: 6}},
			{engines.ParamMeanDiameter, 8, spring.Range{Min: 12, Max: 40}},
			{engines.ParamActiveCoils, 8, spring.Range{Min: 4, Max: 20}},
			{engines.ParamArcRadius, 6, spring.Range{Min: 60, Max: 200}},
		}
	case spring.AxialPack:
		return []axis{
			{engines.ParamWireDiameter, 6, spring.Range{Min: 1, Max: 8}},
			{engines.ParamMeanDiameter, 6, spring.Range{Min: 8, Max: 60}},
			{engines.ParamActiveCoils, 6, spring.Range{Min: 3, Max: 15}},
			{engines.ParamFreeLength, 3, spring.Range{Min: 20, Max: 120}},
			{engines.ParamSeries, 2, spring.Range{Min: 1, Max: 2}},
			{engines.ParamParallel, 2, spring.Range{Min: 1, Max: 2}},
		}
	default: // compression, extension and other plain helicals
		return []axis{
			{engines.ParamWireDiameter, 10, spring.Range{Min: 0.5, Max: 8}},
			{engines.ParamMeanDiameter, 10, spring.Range{Min: 5, Max: 60}},
			{engines.ParamActiveCoils, 12, spring.Range{Min: 3, Max: 20}},
			{engines.ParamFreeLength, 3, spring.Range{Min: 10, Max: 120}},
		}
	}
}

func gridCap(topo spring.Topology) int {
	if topo == spring.Disc {
		return maxGridDisc
	}
	return maxGridGeneral
}

// linspace samples a range at n evenly spaced points, endpoints included.
func linspace(r spring.Range, n int) []float64 {
	if n <= 1 || r.Min == r.Max {
		return []float64{r.Mid()}
	}
	out := make([]float64, n)
	step := (r.Max - r.Min) / float64(n-1)
	for i := range out {
		out[i] = r.Min + float64(i)*step
	}
	return out
}

// Enumerate walks the grid in axis order and returns every parameter set,
// truncated at the topology's cap. The walk is a plain nested product, so
// two runs over the same space produce the same sets in the same order.
func Enumerate(space DesignSpace) []map[string]float64 {
	plan := axisPlan(space.Topology)
	values := make([][]float64, len(plan))
	total := 1
	for i, ax := range plan {
		values[i] = linspace(space.rangeOr(ax.key, ax.fallback), ax.samples)
		total *= len(values[i])
	}

	limit := gridCap(space.Topology)
	if total > limit {
		total = limit
	}

	out := make([]map[string]float64, 0, total)
	idx := make([]int, len(plan))
	for len(out) < total {
		p := make(map[string]float64, len(plan))
		for i, ax := range plan {
			p[ax.key] = values[i][idx[i]]
		}
		out = append(out, p)

		// Odometer increment, last axis fastest.
		i := len(idx) - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(values[i]) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return out
}
