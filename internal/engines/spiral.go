package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// SpiralGeometry is a flat spiral (clock) torsion spring wound from
// rectangular strip, outer end clamped.
type SpiralGeometry struct {
	StripWidth     float64 // b, axial
	StripThickness float64 // t, radial
	Length         float64 // developed strip length
}

func (SpiralGeometry) Topology() spring.Topology { return spring.Spiral }

type spiralEngine struct{}

// NewSpiral returns the flat spiral torsion spring engine.
func NewSpiral() Engine { return spiralEngine{} }

func (spiralEngine) Topology() spring.Topology { return spring.Spiral }

func (spiralEngine) FromParams(p map[string]float64) (Geometry, error) {
	b, err := pick(p, ParamStripWidth)
	if err != nil {
		return nil, err
	}
	t, err := pick(p, ParamStripThickness)
	if err != nil {
		return nil, err
	}
	l, err := pick(p, ParamLength)
	if err != nil {
		return nil, err
	}
	if b <= 0 || t <= 0 || l <= 0 {
		return nil, spring.ErrParameterBounds
	}
	return SpiralGeometry{StripWidth: b, StripThickness: t, Length: l}, nil
}

func (e spiralEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(SpiralGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	b, t, l := g.StripWidth, g.StripThickness, g.Length
	if b <= 0 || t <= 0 || l <= 0 || t >= b {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	// M = E*b*t^3 * theta / (12*L), theta in radians.
	k := mat.E * b * t * t * t / (12 * l) * math.Pi / 180 // N*mm per degree

	res := &spring.Result{Rate: k, Allowable: allow}

	maxMoment := allow * b * t * t / 6
	maxAngle := maxMoment / k

	for _, lc := range cases {
		cr := spring.CaseResult{Input: lc.Value, Mode: lc.Mode}
		switch lc.Mode {
		case spring.ModeAngle:
			cr.Deflection = lc.Value
			cr.Load = k * lc.Value
		case spring.ModeTorque:
			cr.Load = lc.Value
			cr.Deflection = lc.Value / k
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

		cr.Stress = 6 * cr.Load / (b * t * t)
		cr.Energy = 0.5 * cr.Load * cr.Deflection
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		res.Cases = append(res.Cases, cr)
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxAngle, func(x float64) (float64, float64) {
			return k * x, k
		})
	}

	return finalize(res)
}

// SolveForTarget solves the strip length for an angle/torque target.
func (e spiralEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
	b := sc.Fixed[ParamStripWidth]
	t := sc.Fixed[ParamStripThickness]
	if b <= 0 || t <= 0 {
		return solveFail("unsolvable fixed strip section (b=%.3g, t=%.3g)", b, t)
	}

	var angle, torque float64
	switch target.Mode {
	case spring.ModeAngle:
		angle, torque = target.Input, target.Output
	case spring.ModeTorque:
		torque, angle = target.Input, target.Output
	default:
		return solveFail("spiral solve needs an angle or torque target, got %q", target.Mode)
	}
	if angle <= 0 || torque <= 0 {
		return solveFail("target angle and torque must be positive (%.3g deg, %.3g N*mm)", angle, torque)
	}

	k := torque / angle
	l := sc.Material.E * b * t * t * t / (12 * k) * math.Pi / 180
	if bnd, ok := sc.Bounds[ParamLength]; ok && !bnd.Contains(l) {
		return solveFail("required strip length %.1f mm outside range %s", l, bnd)
	}

	params := map[string]float64{
		ParamStripWidth:     b,
		ParamStripThickness: t,
		ParamLength:         l,
	}
	return solveOK(params, map[string]float64{"rate": k})
}
