package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// HelixSegment is one run of a multi-segment helix description.
type HelixSegment struct {
	Coils  float64
	Pitch  float64
	Active bool
}

// ShockGeometry is a suspension (shock absorber) coil spring described as
// a full multi-segment helix: closed dead coils at both ends around an
// active body.
type ShockGeometry struct {
	WireDiameter float64
	MeanDiameter float64
	Segments     []HelixSegment
}

func (ShockGeometry) Topology() spring.Topology { return spring.Shock }

// FreeLength sums the segment heights plus one wire diameter for the end
// faces.
func (g ShockGeometry) FreeLength() float64 {
	l := g.WireDiameter
	for _, s := range g.Segments {
		l += s.Coils * s.Pitch
	}
	return l
}

// ActiveCoils counts only the working body.
func (g ShockGeometry) ActiveCoils() float64 {
	n := 0.0
	for _, s := range g.Segments {
		if s.Active {
			n += s.Coils
		}
	}
	return n
}

// TotalCoils counts every coil including the dead ends.
func (g ShockGeometry) TotalCoils() float64 {
	n := 0.0
	for _, s := range g.Segments {
		n += s.Coils
	}
	return n
}

// SolidHeight stacks all coils plus the end faces.
func (g ShockGeometry) SolidHeight() float64 {
	return (g.TotalCoils() + 1) * g.WireDiameter
}

type shockEngine struct{}

// NewShock returns the suspension coil spring engine.
func NewShock() Engine { return shockEngine{} }

func (shockEngine) Topology() spring.Topology { return spring.Shock }

// FromParams synthesizes the full helix from the simplified grid
// parameters: one closed dead coil at each end, the active body at the
// swept pitch.
func (shockEngine) FromParams(p map[string]float64) (Geometry, error) {
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
	pitch, err := pick(p, ParamPitch)
	if err != nil {
		return nil, err
	}
	if d <= 0 || dm <= 0 || n <= 0 || pitch <= d {
		return nil, spring.ErrParameterBounds
	}
	return ShockGeometry{
		WireDiameter: d,
		MeanDiameter: dm,
		Segments: []HelixSegment{
			{Coils: 1, Pitch: d},
			{Coils: n, Pitch: pitch, Active: true},
			{Coils: 1, Pitch: d},
		},
	}, nil
}

func (e shockEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(ShockGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	d, dm := g.WireDiameter, g.MeanDiameter
	n := g.ActiveCoils()
	l0 := g.FreeLength()
	solid := g.SolidHeight()
	if d <= 0 || dm <= d || n < 1 || l0 <= solid {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	c := dm / d
	kw := wahl(c)
	k := mat.G * d * d * d * d / (8 * dm * dm * dm * n)
	maxTravel := l0 - solid

	res := &spring.Result{
		Rate:        k,
		Index:       c,
		WahlFactor:  kw,
		FreeLength:  l0,
		SolidHeight: solid,
		Allowable:   allow,
	}

	for _, lc := range cases {
		cr := spring.CaseResult{Input: lc.Value, Mode: lc.Mode}
		switch lc.Mode {
		case spring.ModeHeight:
			cr.Deflection = l0 - lc.Value
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
		cr.Stress = kw * 8 * cr.Load * dm / (math.Pi * d * d * d)
		cr.Energy = 0.5 * k * cr.Deflection * cr.Deflection
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		if cr.Deflection > maxTravel {
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonSolidHeight
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Findings {
		for _, s := range g.Segments {
			if !s.Active {
				continue
			}
			if alpha := math.Atan(s.Pitch/(math.Pi*dm)) * 180 / math.Pi; alpha > 10 {
				res.Findings = append(res.Findings, spring.Finding{
					Severity: spring.StatusWarning, Code: "pitch_angle",
					Message: "helix angle above 10 degrees: torsion formula loses accuracy",
				})
				break
			}
		}
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			return k * x, k
		})
	}

	return finalize(res)
}

// SolveForTarget solves the active coil count for a load target, then
// derives the body pitch that keeps the fixed free length.
func (e shockEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
	d := sc.Fixed[ParamWireDiameter]
	dm := sc.Fixed[ParamMeanDiameter]
	l0 := sc.Fixed[ParamFreeLength]
	if d <= 0 || dm <= d || l0 <= 0 {
		return solveFail("unsolvable fixed geometry (d=%.3g, Dm=%.3g, L0=%.3g)", d, dm, l0)
	}

	var delta float64
	switch target.Mode {
	case spring.ModeHeight:
		delta = l0 - target.Input
	case spring.ModeDeflection:
		delta = target.Input
	default:
		return solveFail("shock solve needs a height or deflection target, got %q", target.Mode)
	}
	if delta <= 0 || target.Output <= 0 {
		return solveFail("target point (%.3g mm, %.3g N) is not in the first quadrant", delta, target.Output)
	}

	k := target.Output / delta
	n := sc.Material.G * d * d * d * d / (8 * dm * dm * dm * k)
	if b, ok := sc.Bounds[ParamActiveCoils]; ok && !b.Contains(n) {
		return solveFail("required coil count %.2f outside range %s", n, b)
	}

	// Dead coils take one wire diameter of pitch each.
	pitch := (l0 - d - 2*d) / n
	if pitch <= d {
		return solveFail("free length %.3g mm leaves pitch %.2f below wire diameter", l0, pitch)
	}

	params := map[string]float64{
		ParamWireDiameter: d,
		ParamMeanDiameter: dm,
		ParamActiveCoils:  n,
		ParamPitch:        pitch,
		ParamFreeLength:   l0,
	}
	return solveOK(params, map[string]float64{"rate": k})
}
