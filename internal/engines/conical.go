package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/solve"
	"github.com/coilworks/springlab/internal/spring"
)

// ConicalGeometry is a tapered helical compression spring. The large end
// coils collapse first, giving a progressive characteristic.
type ConicalGeometry struct {
	WireDiameter  float64
	LargeDiameter float64 // mean diameter at the large end
	SmallDiameter float64 // mean diameter at the small end
	ActiveCoils   float64
	FreeLength    float64
}

func (ConicalGeometry) Topology() spring.Topology { return spring.Conical }

type conicalEngine struct{}

// NewConical returns the conical compression spring engine.
func NewConical() Engine { return conicalEngine{} }

func (conicalEngine) Topology() spring.Topology { return spring.Conical }

func (conicalEngine) FromParams(p map[string]float64) (Geometry, error) {
	d, err := pick(p, ParamWireDiameter)
	if err != nil {
		return nil, err
	}
	d1, err := pick(p, ParamLargeDiameter)
	if err != nil {
		return nil, err
	}
	n, err := pick(p, ParamActiveCoils)
	if err != nil {
		return nil, err
	}
	l0, err := pick(p, ParamFreeLength)
	if err != nil {
		return nil, err
	}
	d2 := pickDefault(p, ParamSmallDiameter, d1*0.5)
	if d <= 0 || d1 <= 0 || d2 <= 0 || n <= 0 || l0 <= 0 || d2 > d1 {
		return nil, spring.ErrParameterBounds
	}
	return ConicalGeometry{
		WireDiameter:  d,
		LargeDiameter: d1,
		SmallDiameter: d2,
		ActiveCoils:   n,
		FreeLength:    l0,
	}, nil
}

// coilStages discretizes the taper into whole-coil stages, largest coil
// first, each with its own rate and axial gap before it bottoms out.
type coilStage struct {
	radius float64
	rate   float64 // this coil alone, N/mm
	gap    float64 // free axial travel before the coil sits solid
}

func (g ConicalGeometry) coilStages(G float64) []coilStage {
	nCoils := int(math.Ceil(g.ActiveCoils))
	if nCoils < 1 {
		return nil
	}
	d := g.WireDiameter
	r1, r2 := g.LargeDiameter/2, g.SmallDiameter/2
	gapTotal := g.FreeLength - (g.ActiveCoils+1)*d
	if gapTotal < 0 {
		gapTotal = 0
	}
	gapPer := gapTotal / g.ActiveCoils

	stages := make([]coilStage, nCoils)
	for i := 0; i < nCoils; i++ {
		frac := (float64(i) + 0.5) / float64(nCoils)
		r := r1 + (r2-r1)*frac // i=0 is the large end
		weight := 1.0
		if i == nCoils-1 {
			weight = g.ActiveCoils - float64(nCoils-1)
			if weight <= 0 {
				weight = 1
			}
		}
		stages[i] = coilStage{
			radius: r,
			rate:   G * d * d * d * d / (64 * r * r * r * weight),
			gap:    gapPer * weight,
		}
	}
	return stages
}

// loadAt walks the collapse stages and returns load, tangent rate and the
// number of collapsed coils at axial deflection x.
func loadAt(stages []coilStage, x float64) (load, rate float64, collapsed int) {
	if x <= 0 || len(stages) == 0 {
		return 0, combinedRate(stages, 0), 0
	}
	deflBase, loadBase := 0.0, 0.0
	for s := 0; s < len(stages); s++ {
		k := combinedRate(stages, s)
		// Next collapse: stage s (largest remaining coil) sits solid when
		// its share of the travel consumes its gap.
		fCollapse := stages[s].rate * stages[s].gap
		if fCollapse <= loadBase {
			continue // degenerate gap: coil already sits solid
		}
		deflCollapse := deflBase + (fCollapse-loadBase)/k
		if x < deflCollapse || s == len(stages)-1 {
			return loadBase + k*(x-deflBase), k, s
		}
		deflBase, loadBase = deflCollapse, fCollapse
	}
	last := len(stages) - 1
	k := combinedRate(stages, last)
	return loadBase + k*(x-deflBase), k, last
}

// combinedRate is the series rate of the coils not yet collapsed
// (stages[from:]).
func combinedRate(stages []coilStage, from int) float64 {
	inv := 0.0
	for i := from; i < len(stages); i++ {
		inv += 1 / stages[i].rate
	}
	if inv == 0 {
		return 0
	}
	return 1 / inv
}

func (e conicalEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(ConicalGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	d := g.WireDiameter
	if d <= 0 || g.SmallDiameter <= d || g.SmallDiameter > g.LargeDiameter ||
		g.ActiveCoils < 1 || g.FreeLength <= (g.ActiveCoils+1)*d {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	stages := g.coilStages(mat.G)
	maxTravel := 0.0
	for _, s := range stages {
		maxTravel += s.gap
	}
	solid := g.FreeLength - maxTravel

	cLarge := g.LargeDiameter / d
	res := &spring.Result{
		Rate:        combinedRate(stages, 0),
		Index:       cLarge,
		WahlFactor:  wahl(cLarge),
		FreeLength:  g.FreeLength,
		SolidHeight: solid,
		Allowable:   allow,
	}

	stressAt := func(f float64, collapsed int) float64 {
		// Peak stress sits on the largest coil still working.
		r := stages[collapsed].radius
		c := 2 * r / d
		return wahl(c) * 8 * f * 2 * r / (math.Pi * d * d * d)
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

		load, _, collapsed := loadAt(stages, cr.Deflection)
		cr.Load = load
		cr.Stage = collapsed
		cr.Stress = stressAt(load, collapsed)
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		if cr.Deflection > maxTravel {
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonSolidHeight
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			load, rate, _ := loadAt(stages, x)
			return load, rate
		})
	}

	res = finalize(res)
	if res.Curves != nil && len(res.Curves.Energy) > 0 {
		for i := range res.Cases {
			if res.Cases[i].Status != spring.StatusInvalid {
				res.Cases[i].Energy = energyAtTravel(res.Curves, res.Cases[i].Deflection)
			}
		}
	}
	return res
}

// energyAtTravel interpolates the sampled energy curve at travel x.
func energyAtTravel(c *spring.Curves, x float64) float64 {
	n := len(c.Travel)
	if n == 0 || x <= 0 {
		return 0
	}
	if x >= c.Travel[n-1] {
		return c.Energy[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= c.Travel[i] {
			span := c.Travel[i] - c.Travel[i-1]
			if span == 0 {
				return c.Energy[i]
			}
			f := (x - c.Travel[i-1]) / span
			return c.Energy[i-1] + f*(c.Energy[i]-c.Energy[i-1])
		}
	}
	return c.Energy[n-1]
}

// SolveForTarget bisects the coil count against the nonlinear collapse
// characteristic until the target point sits on the curve.
func (e conicalEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
	d := sc.Fixed[ParamWireDiameter]
	d1 := sc.Fixed[ParamLargeDiameter]
	if d1 == 0 {
		d1 = sc.Fixed[ParamMeanDiameter] // seed generators sample one diameter
	}
	l0 := sc.Fixed[ParamFreeLength]
	d2 := sc.Fixed[ParamSmallDiameter]
	if d2 == 0 {
		d2 = d1 * 0.5
	}
	if d <= 0 || d1 <= d || l0 <= 0 {
		return solveFail("unsolvable fixed geometry (d=%.3g, D1=%.3g, L0=%.3g)", d, d1, l0)
	}

	var delta float64
	switch target.Mode {
	case spring.ModeHeight:
		delta = l0 - target.Input
	case spring.ModeDeflection:
		delta = target.Input
	default:
		return solveFail("conical solve needs a height or deflection target, got %q", target.Mode)
	}
	if delta <= 0 || target.Output <= 0 {
		return solveFail("target point (%.3g mm, %.3g N) is not in the first quadrant", delta, target.Output)
	}

	bounds := spring.Range{Min: 2, Max: 40}
	if b, ok := sc.Bounds[ParamActiveCoils]; ok {
		bounds = b
	}

	mismatch := func(n float64) float64 {
		g := ConicalGeometry{WireDiameter: d, LargeDiameter: d1, SmallDiameter: d2, ActiveCoils: n, FreeLength: l0}
		if g.FreeLength <= (n+1)*d {
			return math.NaN()
		}
		load, _, _ := loadAt(g.coilStages(sc.Material.G), delta)
		return load - target.Output
	}

	n, ok := solve.Bisect(mismatch, bounds.Min, bounds.Max, 1e-6, 0)
	if !ok {
		return solveFail("no coil count in %s reaches %.3g N at %.3g mm", bounds, target.Output, delta)
	}

	params := map[string]float64{
		ParamWireDiameter:  d,
		ParamLargeDiameter: d1,
		ParamSmallDiameter: d2,
		ParamActiveCoils:   n,
		ParamFreeLength:    l0,
	}
	g := ConicalGeometry{WireDiameter: d, LargeDiameter: d1, SmallDiameter: d2, ActiveCoils: n, FreeLength: l0}
	return solveOK(params, map[string]float64{"rate": combinedRate(g.coilStages(sc.Material.G), 0)})
}
