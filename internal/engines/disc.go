package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// DiscGeometry is a Belleville disc spring stack. ConeHeight is the free
// cone height h0 of a single disc (overall height minus thickness); Series
// and Parallel count the stack arrangement.
type DiscGeometry struct {
	OuterDiameter float64
	InnerDiameter float64
	Thickness     float64
	ConeHeight    float64
	Series        int
	Parallel      int
}

func (DiscGeometry) Topology() spring.Topology { return spring.Disc }

// StackFreeHeight is the unloaded height of the whole stack.
func (g DiscGeometry) StackFreeHeight() float64 {
	return float64(g.Series) * (g.ConeHeight + float64(g.Parallel)*g.Thickness)
}

type discEngine struct{}

// NewDisc returns the Belleville disc spring engine (Almen-Laszlo).
func NewDisc() Engine { return discEngine{} }

func (discEngine) Topology() spring.Topology { return spring.Disc }

func (discEngine) FromParams(p map[string]float64) (Geometry, error) {
	t, err := pick(p, ParamThickness)
	if err != nil {
		return nil, err
	}
	h0, err := pick(p, ParamConeHeight)
	if err != nil {
		return nil, err
	}
	de, err := pick(p, ParamOuterDiameter)
	if err != nil {
		return nil, err
	}
	di, err := pick(p, ParamInnerDiameter)
	if err != nil {
		return nil, err
	}
	if t <= 0 || h0 <= 0 || de <= 0 || di <= 0 || di >= de {
		return nil, spring.ErrParameterBounds
	}
	return DiscGeometry{
		OuterDiameter: de,
		InnerDiameter: di,
		Thickness:     t,
		ConeHeight:    h0,
		Series:        int(pickDefault(p, ParamSeries, 1)),
		Parallel:      int(pickDefault(p, ParamParallel, 1)),
	}, nil
}

// almenLaszlo holds the shape coefficients of the Almen-Laszlo disc
// equations for a diameter ratio delta = De/Di.
type almenLaszlo struct {
	k1, k2, k3 float64
}

func discCoefficients(de, di float64) almenLaszlo {
	delta := de / di
	ln := math.Log(delta)
	k1 := (1 / math.Pi) * math.Pow((delta-1)/delta, 2) / ((delta+1)/(delta-1) - 2/ln)
	k2 := (6 / math.Pi) * ((delta-1)/ln - 1) / ln
	k3 := (3 / math.Pi) * (delta - 1) / ln
	return almenLaszlo{k1: k1, k2: k2, k3: k3}
}

// singleLoad is the Almen-Laszlo force for one disc at deflection s.
func (g DiscGeometry) singleLoad(mat spring.Material, al almenLaszlo, s float64) float64 {
	t := g.Thickness
	x := s / t
	a := g.ConeHeight / t
	amp := 4 * mat.E / (1 - mat.Nu*mat.Nu) * math.Pow(t, 4) / (al.k1 * g.OuterDiameter * g.OuterDiameter)
	return amp * x * ((a-x)*(a-x/2) + 1)
}

// singleRate is the tangent rate dF/ds for one disc at deflection s.
func (g DiscGeometry) singleRate(mat spring.Material, al almenLaszlo, s float64) float64 {
	t := g.Thickness
	x := s / t
	a := g.ConeHeight / t
	amp := 4 * mat.E / (1 - mat.Nu*mat.Nu) * math.Pow(t, 3) / (al.k1 * g.OuterDiameter * g.OuterDiameter)
	return amp * (a*a + 1 - 3*a*x + 1.5*x*x)
}

// singleStress is the stress magnitude at the upper inner edge.
func (g DiscGeometry) singleStress(mat spring.Material, al almenLaszlo, s float64) float64 {
	t := g.Thickness
	x := s / t
	a := g.ConeHeight / t
	amp := 4 * mat.E / (1 - mat.Nu*mat.Nu) * t * t / (al.k1 * g.OuterDiameter * g.OuterDiameter)
	return math.Abs(amp * x * (al.k2*(a-x/2) + al.k3))
}

func (e discEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(DiscGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	if g.Series < 1 {
		g.Series = 1
	}
	if g.Parallel < 1 {
		g.Parallel = 1
	}
	if g.Thickness <= 0 || g.ConeHeight <= 0 || g.InnerDiameter <= 0 ||
		g.InnerDiameter >= g.OuterDiameter || mat.Nu >= 1 {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	al := discCoefficients(g.OuterDiameter, g.InnerDiameter)
	ser, par := float64(g.Series), float64(g.Parallel)
	freeHeight := g.StackFreeHeight()
	maxTravel := ser * g.ConeHeight // all discs flat
	solid := freeHeight - maxTravel

	res := &spring.Result{
		Rate:        g.singleRate(mat, al, 0) * par / ser,
		FreeLength:  freeHeight,
		SolidHeight: solid,
		Allowable:   allow,
	}

	for _, lc := range cases {
		cr := spring.CaseResult{Input: lc.Value, Mode: lc.Mode}
		switch lc.Mode {
		case spring.ModeHeight:
			cr.Deflection = freeHeight - lc.Value
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

		s := cr.Deflection / ser // per-disc deflection
		cr.Load = par * g.singleLoad(mat, al, s)
		cr.Stress = g.singleStress(mat, al, s)
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		switch {
		case s > g.ConeHeight:
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonSolidHeight
		case s > 0.75*g.ConeHeight:
			cr.Status = worse(cr.Status, spring.StatusWarning)
			if cr.Reason == spring.ReasonNone {
				cr.Reason = spring.ReasonTravel
			}
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Findings && g.ConeHeight/g.Thickness > math.Sqrt2 {
		res.Findings = append(res.Findings, spring.Finding{
			Severity: spring.StatusWarning, Code: "snap_through",
			Message: "h0/t above sqrt(2): regressive characteristic, snap-through possible",
		})
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			s := x / ser
			return par * g.singleLoad(mat, al, s), g.singleRate(mat, al, s) * par / ser
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
