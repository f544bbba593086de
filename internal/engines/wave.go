package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// WaveGeometry is a multi-turn crest-to-crest wave spring wound from flat
// wire. Waves counts full waves per turn.
type WaveGeometry struct {
	MeanDiameter float64
	StripWidth   float64 // b, radial wall
	Thickness    float64 // t
	Waves        float64 // N per turn
	Turns        float64 // Z
	FreeLength   float64
}

func (WaveGeometry) Topology() spring.Topology { return spring.Wave }

// SolidHeight stacks the turns flat.
func (g WaveGeometry) SolidHeight() float64 { return (g.Turns + 1) * g.Thickness }

type waveEngine struct{}

// NewWave returns the crest-to-crest wave spring engine. The rate is the
// empirical flat-wire multi-wave equation, not a beam solution.
func NewWave() Engine { return waveEngine{} }

func (waveEngine) Topology() spring.Topology { return spring.Wave }

func (waveEngine) FromParams(p map[string]float64) (Geometry, error) {
	dm, err := pick(p, ParamMeanDiameter)
	if err != nil {
		return nil, err
	}
	b, err := pick(p, ParamStripWidth)
	if err != nil {
		return nil, err
	}
	t, err := pick(p, ParamStripThickness)
	if err != nil {
		return nil, err
	}
	z, err := pick(p, ParamTurns)
	if err != nil {
		return nil, err
	}
	l0, err := pick(p, ParamFreeLength)
	if err != nil {
		return nil, err
	}
	waves := pickDefault(p, ParamWaves, 3.5)
	if dm <= 0 || b <= 0 || t <= 0 || z <= 0 || l0 <= 0 || waves < 2 {
		return nil, spring.ErrParameterBounds
	}
	return WaveGeometry{
		MeanDiameter: dm,
		StripWidth:   b,
		Thickness:    t,
		Waves:        waves,
		Turns:        z,
		FreeLength:   l0,
	}, nil
}

// rate is the empirical wave spring rate E*b*t^3*N^4 / (2.4*Dm^3*Z).
func (g WaveGeometry) rate(E float64) float64 {
	n4 := math.Pow(g.Waves, 4)
	dm3 := g.MeanDiameter * g.MeanDiameter * g.MeanDiameter
	return E * g.StripWidth * math.Pow(g.Thickness, 3) * n4 / (2.4 * dm3 * g.Turns)
}

func (e waveEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(WaveGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	solid := g.SolidHeight()
	if g.MeanDiameter <= 0 || g.StripWidth <= 0 || g.Thickness <= 0 ||
		g.Waves < 2 || g.Turns < 1 || g.FreeLength <= solid {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	k := g.rate(mat.E)
	maxTravel := g.FreeLength - solid

	res := &spring.Result{
		Rate:        k,
		FreeLength:  g.FreeLength,
		SolidHeight: solid,
		Allowable:   allow,
	}

	stressAt := func(f float64) float64 {
		// Bending at the wave crests.
		return 3 * math.Pi * f * g.MeanDiameter /
			(4 * g.StripWidth * g.Thickness * g.Thickness * g.Waves * g.Waves)
	}

	for _, lc := range cases {
		cr := spring.CaseResult{Input: lc.Value, Mode: lc.Mode}
		switch lc.Mode {
		case spring.ModeHeight:
			cr.Deflection = g.FreeLength - lc.Value
		case spring.ModeDeflection:
			cr.Deflection = lc.Value
		default:
			cr.Status, cr.Reason = spring.StatusInvalid, spring.ReasonGeometry
			res.Cases = append(res.Cases, cr)
			continue
		}
		if cr.Deflection < 0 {
			cr.Status, cr.Reason = spring.StatusDanger, spring.ReasonTravel
			res.Cases = append(res.Cases, cr)
			continue
		}

		cr.Load = k * cr.Deflection
		cr.Stress = stressAt(cr.Load)
		cr.Energy = 0.5 * k * cr.Deflection * cr.Deflection
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		if cr.Deflection > maxTravel {
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonSolidHeight
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Findings && maxTravel < 0.2*g.FreeLength {
		res.Findings = append(res.Findings, spring.Finding{
			Severity: spring.StatusWarning, Code: "short_travel",
			Message: "usable travel under 20% of free height: consider fewer turns or thinner strip",
		})
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			return k * x, k
		})
	}

	return finalize(res)
}

// SolveForTarget solves the turn count from the empirical rate equation.
func (e waveEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
	dm := sc.Fixed[ParamMeanDiameter]
	b := sc.Fixed[ParamStripWidth]
	t := sc.Fixed[ParamStripThickness]
	l0 := sc.Fixed[ParamFreeLength]
	waves := sc.Fixed[ParamWaves]
	if waves == 0 {
		waves = 3.5
	}
	if dm <= 0 || b <= 0 || t <= 0 || l0 <= 0 {
		return solveFail("unsolvable fixed geometry (Dm=%.3g, b=%.3g, t=%.3g, L0=%.3g)", dm, b, t, l0)
	}

	var delta float64
	switch target.Mode {
	case spring.ModeHeight:
		delta = l0 - target.Input
	case spring.ModeDeflection:
		delta = target.Input
	default:
		return solveFail("wave solve needs a height or deflection target, got %q", target.Mode)
	}
	if delta <= 0 || target.Output <= 0 {
		return solveFail("target point (%.3g mm, %.3g N) is not in the first quadrant", delta, target.Output)
	}

	k := target.Output / delta
	z := turnsForRate(sc.Material.E, b, t, waves, dm, k)
	if bnd, ok := sc.Bounds[ParamTurns]; ok && !bnd.Contains(z) {
		return solveFail("required turn count %.2f outside range %s", z, bnd)
	}
	if l0 <= (z+1)*t {
		return solveFail("turn count %.2f leaves no travel under free height %.3g mm", z, l0)
	}

	params := map[string]float64{
		ParamMeanDiameter:   dm,
		ParamStripWidth:     b,
		ParamStripThickness: t,
		ParamWaves:          waves,
		ParamTurns:          z,
		ParamFreeLength:     l0,
	}
	return solveOK(params, map[string]float64{"rate": k})
}

func turnsForRate(E, b, t, waves, dm, k float64) float64 {
	return E * b * math.Pow(t, 3) * math.Pow(waves, 4) / (2.4 * math.Pow(dm, 3) * k)
}
