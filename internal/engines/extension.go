package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// ExtensionGeometry is a close-wound helical extension spring with machine
// loops. FreeLength is measured inside the loops.
type ExtensionGeometry struct {
	WireDiameter float64
	MeanDiameter float64
	ActiveCoils  float64
	FreeLength   float64
}

func (ExtensionGeometry) Topology() spring.Topology { return spring.Extension }

// BodyLength is the close-wound coil body length.
func (g ExtensionGeometry) BodyLength() float64 {
	return (g.ActiveCoils + 1) * g.WireDiameter
}

type extensionEngine struct{}

// NewExtension returns the helical extension spring engine.
func NewExtension() Engine { return extensionEngine{} }

func (extensionEngine) Topology() spring.Topology { return spring.Extension }

func (extensionEngine) FromParams(p map[string]float64) (Geometry, error) {
	d, err := pick(p, ParamWireDiameter)
	if err != nil {
		return nil, err
	}
	dm, err := pick(p, ParamMeanDiameter)
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
	if d <= 0 || dm <= 0 || n <= 0 || l0 <= 0 {
		return nil, spring.ErrParameterBounds
	}
	return ExtensionGeometry{WireDiameter: d, MeanDiameter: dm, ActiveCoils: n, FreeLength: l0}, nil
}

// initialTension returns the preload wound into a close-coiled body. The
// empirical preload stress is G/(100*C), uncorrected.
func initialTension(g ExtensionGeometry, G float64) float64 {
	c := g.MeanDiameter / g.WireDiameter
	taui := G / (100 * c)
	d := g.WireDiameter
	return math.Pi * d * d * d * taui / (8 * g.MeanDiameter)
}

func (e extensionEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(ExtensionGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	d, dm := g.WireDiameter, g.MeanDiameter
	if d <= 0 || dm <= d || g.ActiveCoils < 0.5 || g.FreeLength < g.BodyLength() {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	c := dm / d
	kw := wahl(c)
	k := mat.G * d * d * d * d / (8 * dm * dm * dm * g.ActiveCoils)
	fi := initialTension(g, mat.G)

	// Usable travel ends where the corrected stress reaches the allowable.
	maxLoad := math.Pi * d * d * d * allow / (8 * kw * dm)
	maxTravel := 0.0
	if maxLoad > fi {
		maxTravel = (maxLoad - fi) / k
	}

	res := &spring.Result{
		Rate:       k,
		Index:      c,
		WahlFactor: kw,
		FreeLength: g.FreeLength,
		Allowable:  allow,
	}

	loadAt := func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		return fi + k*x
	}

	for _, lc := range cases {
		cr := spring.CaseResult{Input: lc.Value, Mode: lc.Mode}
		switch lc.Mode {
		case spring.ModeHeight:
			cr.Deflection = lc.Value - g.FreeLength // extension lengthens
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

		cr.Load = loadAt(cr.Deflection)
		cr.Stress = kw * 8 * cr.Load * dm / (math.Pi * d * d * d)
		cr.Energy = fi*cr.Deflection + 0.5*k*cr.Deflection*cr.Deflection
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		res.Cases = append(res.Cases, cr)
	}

	if flags.Findings {
		if c < 4 || c > 16 {
			res.Findings = append(res.Findings, spring.Finding{
				Severity: spring.StatusWarning, Code: "index",
				Message: "spring index outside the 4..16 coiling window",
			})
		}
		res.Findings = append(res.Findings, spring.Finding{
			Severity: spring.StatusOK, Code: "hook_stress",
			Message: "loop bending stress not modeled: check hook radius separately",
		})
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			return loadAt(x), k
		})
	}

	return finalize(res)
}

// SolveForTarget solves the coil count for a load target above the initial
// tension.
func (e extensionEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
	d := sc.Fixed[ParamWireDiameter]
	dm := sc.Fixed[ParamMeanDiameter]
	l0 := sc.Fixed[ParamFreeLength]
	if d <= 0 || dm <= d || l0 <= 0 {
		return solveFail("unsolvable fixed geometry (d=%.3g, Dm=%.3g, L0=%.3g)", d, dm, l0)
	}

	var delta float64
	switch target.Mode {
	case spring.ModeDeflection:
		delta = target.Input
	case spring.ModeHeight:
		delta = target.Input - l0
	default:
		return solveFail("extension solve needs a height or deflection target, got %q", target.Mode)
	}
	if delta <= 0 {
		return solveFail("target extension %.3g mm is not positive", delta)
	}

	c := dm / d
	taui := sc.Material.G / (100 * c)
	fi := math.Pi * d * d * d * taui / (8 * dm)
	if target.Output <= fi {
		return solveFail("target load %.3g N does not exceed initial tension %.3g N", target.Output, fi)
	}

	k := (target.Output - fi) / delta
	n := sc.Material.G * d * d * d * d / (8 * dm * dm * dm * k)
	if b, ok := sc.Bounds[ParamActiveCoils]; ok && !b.Contains(n) {
		return solveFail("required coil count %.2f outside range %s", n, b)
	}

	params := map[string]float64{
		ParamWireDiameter: d,
		ParamMeanDiameter: dm,
		ParamActiveCoils:  n,
		ParamFreeLength:   l0,
	}
	return solveOK(params, map[string]float64{"rate": k, "initial_tension": fi})
}
