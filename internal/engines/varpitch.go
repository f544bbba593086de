package engines

import (
	"math"
	"sort"

	"github.com/coilworks/springlab/internal/spring"
)

// PitchSegment is a run of coils wound at one pitch.
type PitchSegment struct {
	Coils float64
	Pitch float64 // mm per coil
}

// VariablePitchGeometry is a helical compression spring whose coil pitch
// changes along the body. Tighter segments bottom out first, giving a
// progressive rate.
type VariablePitchGeometry struct {
	WireDiameter float64
	MeanDiameter float64
	Segments     []PitchSegment
}

func (VariablePitchGeometry) Topology() spring.Topology { return spring.VariablePitch }

// FreeLength sums the segment lengths plus one closing coil per end.
func (g VariablePitchGeometry) FreeLength() float64 {
	l := 2 * g.WireDiameter
	for _, s := range g.Segments {
		l += s.Coils * s.Pitch
	}
	return l
}

// SolidHeight stacks every coil on the wire.
func (g VariablePitchGeometry) SolidHeight() float64 {
	n := 2.0
	for _, s := range g.Segments {
		n += s.Coils
	}
	return n * g.WireDiameter
}

type varPitchEngine struct{}

// NewVariablePitch returns the progressive variable-pitch spring engine.
func NewVariablePitch() Engine { return varPitchEngine{} }

func (varPitchEngine) Topology() spring.Topology { return spring.VariablePitch }

// FromParams splits the coil count into two equal segments whose pitches
// differ by pitch_ratio and together fill the requested free length.
func (varPitchEngine) FromParams(p map[string]float64) (Geometry, error) {
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
	ratio := pickDefault(p, ParamPitchRatio, 1.5)
	if d <= 0 || dm <= 0 || n < 2 || l0 <= 0 || ratio < 1 {
		return nil, spring.ErrParameterBounds
	}

	body := l0 - 2*d
	half := n / 2
	p1 := body / (half * (1 + ratio))
	if p1 <= d {
		return nil, spring.ErrParameterBounds
	}
	return VariablePitchGeometry{
		WireDiameter: d,
		MeanDiameter: dm,
		Segments: []PitchSegment{
			{Coils: half, Pitch: p1},
			{Coils: half, Pitch: p1 * ratio},
		},
	}, nil
}

// segStage mirrors the conical collapse model: each segment is a series
// spring with its own gap before its coils close.
type segStage struct {
	rate float64
	gap  float64
}

func (g VariablePitchGeometry) segStages(G float64) []segStage {
	d, dm := g.WireDiameter, g.MeanDiameter
	stages := make([]segStage, 0, len(g.Segments))
	for _, s := range g.Segments {
		if s.Coils <= 0 {
			continue
		}
		stages = append(stages, segStage{
			rate: G * d * d * d * d / (8 * dm * dm * dm * s.Coils),
			gap:  s.Coils * (s.Pitch - d),
		})
	}
	// Close in order of collapse load, tight pitch first.
	sort.Slice(stages, func(i, j int) bool {
		return stages[i].rate*stages[i].gap < stages[j].rate*stages[j].gap
	})
	return stages
}

// segLoadAt walks segment closures; same staging as the conical engine
// but over pitch segments instead of single coils.
func segLoadAt(stages []segStage, x float64) (load, rate float64, closed int) {
	if len(stages) == 0 {
		return 0, 0, 0
	}
	series := func(from int) float64 {
		inv := 0.0
		for i := from; i < len(stages); i++ {
			inv += 1 / stages[i].rate
		}
		if inv == 0 {
			return 0
		}
		return 1 / inv
	}
	deflBase, loadBase := 0.0, 0.0
	for s := 0; s < len(stages); s++ {
		k := series(s)
		fClose := stages[s].rate * stages[s].gap
		deflClose := deflBase + (fClose-loadBase)/k
		if x < deflClose || s == len(stages)-1 {
			return loadBase + k*(x-deflBase), k, s
		}
		deflBase, loadBase = deflClose, fClose
	}
	last := len(stages) - 1
	k := series(last)
	return loadBase + k*(x-deflBase), k, last
}

func (e varPitchEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(VariablePitchGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	d, dm := g.WireDiameter, g.MeanDiameter
	if d <= 0 || dm <= d || len(g.Segments) == 0 {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	for _, s := range g.Segments {
		if s.Pitch <= d || s.Coils <= 0 {
			return infeasible(cases, allow, spring.ReasonGeometry)
		}
	}

	stages := g.segStages(mat.G)
	maxTravel := 0.0
	for _, s := range stages {
		maxTravel += s.gap
	}
	l0 := g.FreeLength()

	c := dm / d
	kw := wahl(c)
	_, k0, _ := segLoadAt(stages, 0)
	res := &spring.Result{
		Rate:        k0,
		Index:       c,
		WahlFactor:  kw,
		FreeLength:  l0,
		SolidHeight: g.SolidHeight(),
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

		load, _, closed := segLoadAt(stages, cr.Deflection)
		cr.Load = load
		cr.Stage = closed
		cr.Stress = kw * 8 * load * dm / (math.Pi * d * d * d)
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		if cr.Deflection > maxTravel {
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonSolidHeight
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			load, rate, _ := segLoadAt(stages, x)
			return load, rate
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
