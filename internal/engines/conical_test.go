package engines

import (
	"math"
	"testing"

	"github.com/coilworks/springlab/internal/spring"
)

func TestConicalDegeneratesToCylindrical(t *testing.T) {
	// With equal end diameters the initial rate must match the straight
	// helical formula.
	g := ConicalGeometry{
		WireDiameter:  2,
		LargeDiameter: 20,
		SmallDiameter: 20,
		ActiveCoils:   10,
		FreeLength:    60,
	}
	res := NewConical().Calculate(g, spring.MusicWire(), nil, spring.Flags{})

	want := 79000.0 * 16 / (8 * 8000 * 10)
	if math.Abs(res.Rate-want)/want > 1e-9 {
		t.Errorf("expected rate %f, got %f", want, res.Rate)
	}
}

func TestConicalProgressiveRate(t *testing.T) {
	g := ConicalGeometry{
		WireDiameter:  2,
		LargeDiameter: 30,
		SmallDiameter: 15,
		ActiveCoils:   8,
		FreeLength:    70,
	}
	flags := spring.Flags{Curves: true, CurveSamples: 80}
	res := NewConical().Calculate(g, spring.MusicWire(), nil, flags)

	if res.Curves == nil {
		t.Fatal("expected curves")
	}
	first := res.Curves.Rate[0]
	last := res.Curves.Rate[len(res.Curves.Rate)-1]
	if last <= first {
		t.Errorf("expected progressive rate, got %f -> %f", first, last)
	}
	// Load must still be monotonic through the stage transitions.
	for i := 1; i < len(res.Curves.Load); i++ {
		if res.Curves.Load[i] < res.Curves.Load[i-1]-1e-9 {
			t.Fatalf("load curve not monotonic at %d", i)
		}
	}
}

func TestConicalStageReported(t *testing.T) {
	g := ConicalGeometry{
		WireDiameter:  2,
		LargeDiameter: 30,
		SmallDiameter: 15,
		ActiveCoils:   8,
		FreeLength:    70,
	}
	// Deep into the travel several large coils have collapsed.
	maxTravel := 70 - (8+1)*2.0
	cases := []spring.LoadCase{{Mode: spring.ModeDeflection, Value: 0.9 * maxTravel}}
	res := NewConical().Calculate(g, spring.MusicWire(), cases, spring.Flags{})

	if res.Cases[0].Stage == 0 {
		t.Error("expected a non-zero collapse stage near full travel")
	}
}

func TestConicalReverseSolveBisection(t *testing.T) {
	mat := spring.MusicWire()
	want := ConicalGeometry{
		WireDiameter:  2.5,
		LargeDiameter: 28,
		SmallDiameter: 14,
		ActiveCoils:   9,
		FreeLength:    80,
	}
	// Evaluate the forward curve at one point, then recover the coil count.
	fwd := NewConical().Calculate(want, mat,
		[]spring.LoadCase{{Mode: spring.ModeDeflection, Value: 12}}, spring.Flags{})
	if !fwd.Valid {
		t.Fatalf("forward case unexpectedly invalid: %+v", fwd.Cases[0])
	}

	e := NewConical().(ReverseSolver)
	out := e.SolveForTarget(SolveContext{
		Material: mat,
		Fixed: map[string]float64{
			ParamWireDiameter:  want.WireDiameter,
			ParamLargeDiameter: want.LargeDiameter,
			ParamSmallDiameter: want.SmallDiameter,
			ParamFreeLength:    want.FreeLength,
		},
		Bounds: map[string]spring.Range{ParamActiveCoils: {Min: 2, Max: 30}},
	}, spring.Target{Input: 12, Mode: spring.ModeDeflection, Output: fwd.Cases[0].Load})

	if !out.OK {
		t.Fatalf("solve failed: %v", out.Errors)
	}
	n := out.Params[ParamActiveCoils]
	if math.Abs(n-want.ActiveCoils)/want.ActiveCoils > 0.01 {
		t.Errorf("expected %.1f coils, got %f", want.ActiveCoils, n)
	}
}

func TestConicalSolveUnreachable(t *testing.T) {
	e := NewConical().(ReverseSolver)
	out := e.SolveForTarget(SolveContext{
		Material: spring.MusicWire(),
		Fixed: map[string]float64{
			ParamWireDiameter:  1,
			ParamLargeDiameter: 40,
			ParamFreeLength:    50,
		},
		Bounds: map[string]spring.Range{ParamActiveCoils: {Min: 2, Max: 20}},
	}, spring.Target{Input: 5, Mode: spring.ModeDeflection, Output: 1e6})

	if out.OK {
		t.Fatal("expected failure for an unreachable load")
	}
	if len(out.Errors) == 0 {
		t.Error("expected a reason message")
	}
}
