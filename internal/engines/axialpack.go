package engines

import (
	"math"

	"github.com/coilworks/springlab/internal/spring"
)

// AxialPackGeometry is a stack of identical helical compression units
// combined in series columns and parallel nests.
type AxialPackGeometry struct {
	Unit     CompressionGeometry
	Series   int
	Parallel int
}

func (AxialPackGeometry) Topology() spring.Topology { return spring.AxialPack }

type axialPackEngine struct{}

// NewAxialPack returns the axial spring pack engine.
func NewAxialPack() Engine { return axialPackEngine{} }

func (axialPackEngine) Topology() spring.Topology { return spring.AxialPack }

func (axialPackEngine) FromParams(p map[string]float64) (Geometry, error) {
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
	return AxialPackGeometry{
		Unit: CompressionGeometry{
			WireDiameter: d,
			MeanDiameter: dm,
			ActiveCoils:  n,
			FreeLength:   l0,
			EndType:      EndClosedGround,
		},
		Series:   int(pickDefault(p, ParamSeries, 2)),
		Parallel: int(pickDefault(p, ParamParallel, 1)),
	}, nil
}

func (e axialPackEngine) Calculate(geom Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	allow := mat.Allowable(e.Topology())
	g, ok := geom.(AxialPackGeometry)
	if !ok {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}
	if g.Series < 1 {
		g.Series = 1
	}
	if g.Parallel < 1 {
		g.Parallel = 1
	}
	u := g.Unit
	d, dm := u.WireDiameter, u.MeanDiameter
	unitSolid := u.SolidHeight()
	if d <= 0 || dm <= d || u.ActiveCoils < 0.5 || u.FreeLength <= unitSolid {
		return infeasible(cases, allow, spring.ReasonGeometry)
	}

	ser, par := float64(g.Series), float64(g.Parallel)
	c := dm / d
	kw := wahl(c)
	kUnit := u.rate(mat.G)
	k := kUnit * par / ser
	freeHeight := ser * u.FreeLength
	solid := ser * unitSolid
	maxTravel := freeHeight - solid

	res := &spring.Result{
		Rate:        k,
		Index:       c,
		WahlFactor:  kw,
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

		cr.Load = k * cr.Deflection
		// Stress lives in each unit: per-column load over series travel.
		unitLoad := cr.Load / par
		cr.Stress = kw * 8 * unitLoad * dm / (math.Pi * d * d * d)
		cr.Energy = 0.5 * k * cr.Deflection * cr.Deflection
		cr.Status, cr.Reason = stressStatus(cr.Stress, allow)
		if cr.Deflection > maxTravel {
			cr.Status = worse(cr.Status, spring.StatusDanger)
			cr.Reason = spring.ReasonSolidHeight
		}
		res.Cases = append(res.Cases, cr)
	}

	if flags.Findings && g.Series > 1 {
		res.Findings = append(res.Findings, spring.Finding{
			Severity: spring.StatusOK, Code: "guide",
			Message: "series columns need a guide rod or sleeve against lateral shift",
		})
	}

	if flags.Curves {
		res.Curves = sampleCurves(flags.Samples(), maxTravel, func(x float64) (float64, float64) {
			return k * x, k
		})
	}

	return finalize(res)
}
