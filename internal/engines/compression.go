package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// EndType describes how a helical compression spring is finished.
type EndType string

const (
	EndOpen         EndType = "open"
	EndClosed       EndType = "closed"
	EndClosedGround EndType = "closed_ground"
)

// CompressionGeometry is a straight helical compression spring.
// Dimensions in mm.
type CompressionGeometry struct {
	WireDiameter float64
	MeanDiameter float64
	ActiveCoils  float64
	FreeLength   float64
	EndType      EndType
	// SolidOverride replaces the end-type solid height when > 0 (measured
	// block height from a drawing).
	SolidOverride float64
}

func (CompressionGeometry) Topology() spring.Topology { return spring.Compression }

// TotalCoils includes the dead end coils.
func (g CompressionGeometry) TotalCoils() float64 {
	switch g.EndType {
	case EndOpen:
		return g.ActiveCoils
	default:
		return g.ActiveCoils + 2
	}
}

// SolidHeight is the block height at which all coils touch.
func (g CompressionGeometry) SolidHeight() float64 {
	if g.SolidOverride > 0 {
		return g.SolidOverride
	}
	switch g.EndType {
	case EndOpen:
		return (g.TotalCoils() + 1) * g.WireDiameter
	case EndClosed:
		return (g.TotalCoils() + 1) * g.WireDiameter
	default: // closed and ground
		return g.TotalCoils() * g.WireDiameter
	}
}

type compressionEngine struct{}

// NewCompression returns the helical compression spring engine.
func NewCompression() Engine { return compressionEngine{} }

func (compressionEngine) Topology() spring.Topology { return spring.Compression }

func (compressionEngine) FromParams(p map[string]float64) (Geometry, error) {
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
	return CompressionGeometry{
		WireDiameter: d,
		MeanDiameter: dm,
		ActiveCoils:  n,
		FreeLength:   l0,
		EndType:      EndClosedGround,
	}, nil
}

// rate returns the linear spring rate G*d^4 / (8*D^3*n).
func (g CompressionGeometry) rate(G float64) float64 {
	d, dm := g.WireDiameter, g.MeanDiameter
	return G * d * d * d * d / (8 * dm * dm * dm * g.ActiveCoils)
}

func (e compressionEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(CompressionGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	d, dm := g.WireDiameter, g.MeanDiameter
	solid := g.SolidHeight()
	if d <= 0 || dm <= d || g.ActiveCoils < 0.5 || g.FreeLength <= solid {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	c := dm / d
	kw := wahl(c)
	k := g.rate(mat.G)
	maxTravel := g.FreeLength - solid

	res := &spring.Result{
		Rate:        k,
		Index:       c,
		WahlFactor:  kw,
		FreeLength:  g.FreeLength,
		SolidHeight: solid,
		Allowable:   allow,
	}

	stressAt := func(f float64) float64 {
		return kw * 8 * f * dm / (math.Pi * d * d * d)
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

	if flags.Findings {
		if c < 4 {
			res.Findings = append(res.Findings, spring.Finding{
				Severity: spring.StatusWarning, Code: "low_index",
				Message: "spring index below 4: hard to coil, high curvature stress",
			})
		}
		if c > 16 {
			res.Findings = append(res.Findings, spring.Finding{
				Severity: spring.StatusWarning, Code: "high_index",
				Message: "spring index above 16: flimsy coil, tangling risk",
			})
		}
		if g.FreeLength/dm > 4 {
			res.Findings = append(res.Findings, spring.Finding{
				Severity: spring.StatusWarning, Code: "buckling",
				Message: "slenderness above 4: lateral buckling likely without guidance",
			})
		}
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			return k * x, k
		})
	}

	return finalize(res)
}

// SolveForTarget inverts the linear rate formula for the coil count. Wire
// diameter, mean diameter and free length come fixed from the context.
func (e compressionEngine) SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome {
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
		delta = l0 - target.Input
	default:
		return solveFail("compression solve needs a height or deflection target, got %q", target.Mode)
	}
	if delta <= 0 {
		return solveFail("target deflection %.3g mm is not positive", delta)
	}
	if target.Output <= 0 {
		return solveFail("target load %.3g N is not positive", target.Output)
	}

	k := target.Output / delta
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
	var warnings []string
	if solid := (n + 2) * d; delta > l0-solid {
		warnings = append(warnings, "target deflection reaches into solid height")
	}
	return solveOK(params, map[string]float64{"rate": k}, warnings...)
}
