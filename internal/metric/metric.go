// Package metric scores evaluated candidate geometries. All metrics are
// pure functions of the parameter set and the engine result, so candidates
// can be scored concurrently.
package metric

import (
	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/spring"
)

// stressPenalty is the ratio assigned when no allowable stress is known.
// It sorts such candidates behind every physically checked one.
const stressPenalty = 2.0

// Values holds the per-candidate ranking metrics. Lower is better for
// MassProxy and StressRatio, higher is better for SolidMargin.
type Values struct {
	MassProxy   float64
	StressRatio float64
	SolidMargin float64
	Energy      float64
}

// Objectives returns the minimization vector used for dominance checks.
// SolidMargin is negated so every component minimizes.
func (v Values) Objectives() [3]float64 {
	return [3]float64{v.MassProxy, v.StressRatio, -v.SolidMargin}
}

// Compute scores one evaluated candidate.
func Compute(topo spring.Topology, params map[string]float64, res *spring.Result) Values {
	return Values{
		MassProxy:   MassProxy(topo, params),
		StressRatio: StressRatio(res.PeakStress, res.Allowable),
		SolidMargin: SolidMargin(res),
		Energy:      Energy(res),
	}
}

// MassProxy is a material-volume surrogate, not a mass in grams. Within one
// topology it orders candidates the same way true mass would.
func MassProxy(topo spring.Topology, p map[string]float64) float64 {
	switch topo {
	case spring.Disc:
		de := p[engines.ParamOuterDiameter]
		di := p[engines.ParamInnerDiameter]
		t := p[engines.ParamThickness]
		ser := stackCount(p[engines.ParamSeries])
		par := stackCount(p[engines.ParamParallel])
		return (de*de - di*di) * t * ser * par
	case spring.Spiral:
		return p[engines.ParamStripWidth] * p[engines.ParamStripThickness] * p[engines.ParamLength]
	case spring.Wave:
		return p[engines.ParamStripWidth] * p[engines.ParamStripThickness] *
			p[engines.ParamMeanDiameter] * p[engines.ParamTurns]
	default:
		d := p[engines.ParamWireDiameter]
		dm := p[engines.ParamMeanDiameter]
		if dm == 0 {
			dm = p[engines.ParamLargeDiameter]
		}
		return d * d * dm * p[engines.ParamActiveCoils]
	}
}

func stackCount(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}

// StressRatio is peak working stress over the allowable. Candidates with
// no allowable on record get the fixed penalty ratio.
func StressRatio(peak, allowable float64) float64 {
	if allowable <= 0 {
		return stressPenalty
	}
	return peak / allowable
}

// SolidMargin is the travel reserve beyond the worst load case, in mm.
// Topologies with no height concept (torsion, spiral, arc) score zero so
// the objective is neutral for them.
func SolidMargin(res *spring.Result) float64 {
	if res.FreeLength <= 0 {
		return 0
	}
	travel := res.FreeLength - res.SolidHeight
	return travel - res.MaxDeflection()
}

// Energy is the largest stored energy over the load cases, N*mm.
func Energy(res *spring.Result) float64 {
	max := 0.0
	for _, c := range res.Cases {
		if c.Energy > max {
			max = c.Energy
		}
	}
	return max
}
