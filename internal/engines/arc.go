package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/solve"
	"github.com/coilworks/springlab/internal/spring"
)

// ArcStage is one segment of a pack group's piecewise-linear torque curve.
// Rate applies from the previous stage's EndAngle up to this one's.
type ArcStage struct {
	Rate     float64 // N*mm per degree
	EndAngle float64 // degrees
}

// ArcPackGroup is a set of identical physical arc springs sharing one
// staged stiffness curve.
type ArcPackGroup struct {
	Count  int
	Stages []ArcStage
}

// ArcGeometry is a bow-shaped helical spring set working in a circular
// channel (dual-mass flywheel style). BlendWidth smooths the torque curve
// at stage breakpoints; zero picks the default. With no explicit Groups,
// Calculate synthesizes a two-stage curve from ActiveCoils and the
// material's shear modulus.
type ArcGeometry struct {
	WireDiameter float64
	MeanDiameter float64
	ArcRadius    float64
	ActiveCoils  float64
	Groups       []ArcPackGroup
	BlendWidth   float64 // degrees
}

func (ArcGeometry) Topology() spring.Topology { return spring.Arc }

const defaultBlendWidth = 2.0 // degrees

func (g ArcGeometry) blend() float64 {
	if g.BlendWidth > 0 {
		return g.BlendWidth
	}
	return defaultBlendWidth
}

// MaxAngle is the smallest final stage end over all groups.
func (g ArcGeometry) MaxAngle() float64 {
	max := math.Inf(1)
	for _, gr := range g.Groups {
		if len(gr.Stages) == 0 {
			continue
		}
		if end := gr.Stages[len(gr.Stages)-1].EndAngle; end < max {
			max = end
		}
	}
	if math.IsInf(max, 1) {
		return 0
	}
	return max
}

type arcEngine struct{}

// NewArc returns the arc spring engine.
func NewArc() Engine { return arcEngine{} }

func (arcEngine) Topology() spring.Topology { return spring.Arc }

// channelCapacity is the angular travel of a 90 degree channel before the
// coils stack solid.
func (g ArcGeometry) channelCapacity() float64 {
	arcLen := g.ArcRadius * math.Pi / 2
	return (arcLen - g.ActiveCoils*g.WireDiameter) / g.ArcRadius * 180 / math.Pi
}

// synthesizedGroups builds the default single pack group: the equivalent
// straight helical rate projected onto the arc radius, stiffening once the
// relief gap closes.
func (g ArcGeometry) synthesizedGroups(G float64) []ArcPackGroup {
	if g.ActiveCoils <= 0 || G <= 0 {
		return nil
	}
	capacity := g.channelCapacity()
	if capacity <= 0 {
		return nil
	}
	d, dm := g.WireDiameter, g.MeanDiameter
	base := G * d * d * d * d / (8 * dm * dm * dm * g.ActiveCoils) *
		g.ArcRadius * g.ArcRadius * math.Pi / 180
	return []ArcPackGroup{{
		Count: 1,
		Stages: []ArcStage{
			{Rate: base, EndAngle: 0.6 * capacity},
			{Rate: 1.6 * base, EndAngle: capacity},
		},
	}}
}

// FromParams captures the simplified helical parameters; the staged torque
// curve is synthesized in Calculate, where the material is in scope.
func (arcEngine) FromParams(p map[string]float64) (Geometry, error) {
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
	rArc, err := pick(p, ParamArcRadius)
	if err != nil {
		return nil, err
	}
	if d <= 0 || dm <= 0 || n <= 0 || rArc <= 0 {
		return nil, spring.ErrParameterBounds
	}

	geom := ArcGeometry{
		WireDiameter: d,
		MeanDiameter: dm,
		ArcRadius:    rArc,
		ActiveCoils:  n,
	}
	if geom.channelCapacity() <= 0 {
		return nil, spring.ErrParameterBounds
	}
	return geom, nil
}

// groupTorque evaluates one group's blended torque at angle theta. Slope
// transitions use a softplus ramp of width w so the curve and its first
// derivative stay continuous across breakpoints.
func groupTorque(gr ArcPackGroup, theta, w float64) (torque float64, stage int) {
	if len(gr.Stages) == 0 {
		return 0, 0
	}
	t := gr.Stages[0].Rate * theta
	prevEnd := 0.0
	for s := 1; s < len(gr.Stages); s++ {
		prevEnd = gr.Stages[s-1].EndAngle
		dr := gr.Stages[s].Rate - gr.Stages[s-1].Rate
		// softplus: w*ln(1+exp((theta-break)/w)) ramps the extra slope in.
		t += dr * w * softplus((theta-prevEnd)/w)
	}
	stage = 0
	for s := range gr.Stages {
		if theta <= gr.Stages[s].EndAngle {
			stage = s
			break
		}
		stage = s
	}
	return float64(gr.Count) * t, stage
}

func softplus(x float64) float64 {
	if x > 30 {
		return x
	}
	return math.Log1p(math.Exp(x))
}

func (e arcEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(ArcGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	d, dm := g.WireDiameter, g.MeanDiameter
	if len(g.Groups) == 0 {
		g.Groups = g.synthesizedGroups(mat.G)
	}
	maxAngle := g.MaxAngle()
	if d <= 0 || dm <= d || g.ArcRadius <= 0 || len(g.Groups) == 0 || maxAngle <= 0 {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	w := g.blend()
	torqueAt := func(theta float64) (float64, int) {
		total, maxStage := 0.0, 0
		for _, gr := range g.Groups {
			t, s := groupTorque(gr, theta, w)
			total += t
			if s > maxStage {
				maxStage = s
			}
		}
		return total, maxStage
	}

	c := dm / d
	kw := wahl(c)
	res := &spring.Result{
		Index:      c,
		WahlFactor: kw,
		Allowable:  allow,
	}
	// Report the initial tangent as the nominal rate.
	t0, _ := torqueAt(0.01)
	res.Rate = t0 / 0.01

	stressAt := func(torque float64) float64 {
		f := torque / g.ArcRadius
		return kw * 8 * f * dm / (math.Pi * d * d * d)
	}

	for _, lc := range cases {
		cr := spring.CaseResult{Input: lc.Value, Mode: lc.Mode}
		switch lc.Mode {
		case spring.ModeAngle:
			cr.Deflection = lc.Value
			cr.Load, cr.Stage = torqueAt(lc.Value)
		case spring.ModeTorque:
			cr.Load = lc.Value
			theta, found := solve.Bisect(func(th float64) float64 {
				t, _ := torqueAt(th)
				return t - lc.Value
			}, 0, 2*maxAngle, 1e-7, 0)
			if !found {
				cr.Status, cr.Reason = spring.StatusInvalid, spring.ReasonTravel
				res.Cases = append(res.Cases, cr)
				continue
			}
			cr.Deflection = theta
			_, cr.Stage = torqueAt(theta)
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

		cr.Stress = stressAt(cr.Load)
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		if cr.Deflection > maxAngle {
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonTravel
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxAngle, func(x float64) (float64, float64) {
			t, _ := torqueAt(x)
			const h = 1e-3
			t2, _ := torqueAt(x + h)
			return t, (t2 - t) / h
		})
	}

	res = finalize(res)
	if res.Curves != nil {
		for i := range res.Cases {
			if res.Cases[i].Status != spring.StatusInvalid {
				res.Cases[i].Energy = energyAtTravel(res.Curves, res.Cases[i].Deflection)
			}
		}
	}
	return res
}
