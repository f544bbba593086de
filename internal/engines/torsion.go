package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// TorsionGeometry is a helical torsion spring loaded in wind-up through
// tangential legs.
type TorsionGeometry struct {
	WireDiameter float64
	MeanDiameter float64
	ActiveCoils  float64
	LegLength    float64
}

func (TorsionGeometry) Topology() spring.Topology { return spring.Torsion }

type torsionEngine struct{}

// NewTorsion returns the helical torsion spring engine.
func NewTorsion() Engine { return torsionEngine{} }

func (torsionEngine) Topology() spring.Topology { return spring.Torsion }

func (torsionEngine) FromParams(p map[string]float64) (Geometry, error) {
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
	if d <= 0 || dm <= 0 || n <= 0 {
		return nil, spring.ErrParameterBounds
	}
	return TorsionGeometry{
		WireDiameter: d,
		MeanDiameter: dm,
		ActiveCoils:  n,
		LegLength:    pickDefault(p, ParamLegLength, dm),
	}, nil
}

// rateDeg returns the torque rate in N*mm per degree, including the leg
// contribution treated as additional equivalent coils.
func (g TorsionGeometry) rateDeg(E float64) float64 {
	d := g.WireDiameter
	ne := g.ActiveCoils + g.LegLength/(3*math.Pi*g.MeanDiameter)
	perRad := E * d * d * d * d / (64 * g.MeanDiameter * ne)
	return perRad * math.Pi / 180
}

func (e torsionEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(TorsionGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	d, dm := g.WireDiameter, g.MeanDiameter
	if d <= 0 || dm <= d || g.ActiveCoils < 0.5 {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	c := dm / d
	kb := bendingK(c)
	k := g.rateDeg(mat.E)

	res := &spring.Result{
		Rate:       k,
		Index:      c,
		WahlFactor: kb,
		Allowable:  allow,
	}

	maxMoment := allow * math.Pi * d * d * d / (32 * kb)
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

		cr.Stress = kb * 32 * cr.Load / (math.Pi * d * d * d)
		cr.Energy = 0.5 * cr.Load * cr.Deflection
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		res.Cases = append(res.Cases, cr)
	}

	if flags.Findings {
		// Wind-up shrinks the body diameter; flag tight arbors early.
		maxDefl := res.MaxDeflection()
		shrunk := dm * g.ActiveCoils / (g.ActiveCoils + maxDefl/360)
		if shrunk < dm*0.9 {
			res.Findings = append(res.Findings, spring.Finding{
				Severity: spring.StatusWarning, Code: "body_shrink",
				Message: "body diameter shrinks more than 10% at full wind-up",
			})
		}
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxAngle, func(x float64) (float64, float64) {
			return k * x, k
		})
	}

	return finalize(res)
}

// SolveForTarget solves the coil count for an angle/torque target.
func (e torsionEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
	d := sc.Fixed[ParamWireDiameter]
	dm := sc.Fixed[ParamMeanDiameter]
	if d <= 0 || dm <= d {
		return solveFail("unsolvable fixed geometry (d=%.3g, Dm=%.3g)", d, dm)
	}

	var angle, torque float64
	switch target.Mode {
	case spring.ModeAngle:
		angle, torque = target.Input, target.Output
	case spring.ModeTorque:
		torque, angle = target.Input, target.Output
	default:
		return solveFail("torsion solve needs an angle or torque target, got %q", target.Mode)
	}
	if angle <= 0 || torque <= 0 {
		return solveFail("target angle and torque must be positive (%.3g deg, %.3g N*mm)", angle, torque)
	}

	k := torque / angle // N*mm per degree
	n := sc.Material.E * d * d * d * d * math.Pi / (64 * 180 * dm * k)
	if b, ok := sc.Bounds[ParamActiveCoils]; ok && !b.Contains(n) {
		return solveFail("required coil count %.2f outside range %s", n, b)
	}

	params := map[string]float64{
		ParamWireDiameter: d,
		ParamMeanDiameter: dm,
		ParamActiveCoils:  n,
	}
	return solveOK(params, map[string]float64{"rate": k})
}
