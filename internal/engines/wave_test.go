package engines

import (
	"math"
	"testing"

	"github.com/coilworks/springlab/internal/spring"
)

func testWave() WaveGeometry {
	return WaveGeometry{
		MeanDiameter: 30,
		StripWidth:   4,
		Thickness:    0.4,
		Waves:        3.5,
		Turns:        5,
		FreeLength:   14,
	}
}

func TestWaveRateFormula(t *testing.T) {
	g := testWave()
	res := NewWave().Calculate(g, spring.MusicWire(), nil, spring.Flags{})

	want := 206000.0 * 4 * math.Pow(0.4, 3) * math.Pow(3.5, 4) / (2.4 * math.Pow(30, 3) * 5)
	if math.Abs(res.Rate-want)/want > 1e-12 {
		t.Errorf("expected rate %f, got %f", want, res.Rate)
	}
}

func TestWaveSolveRoundTrip(t *testing.T) {
	g := testWave()
	fwd := NewWave().Calculate(g, spring.MusicWire(),
		[]spring.LoadCase{{Mode: spring.ModeDeflection, Value: 3}}, spring.Flags{})

	e := NewWave().(ReverseSolver)
	out := e.SolveForTarget(SolveContext{
		Material: spring.MusicWire(),
		Fixed: map[string]float64{
			ParamMeanDiameter:   g.MeanDiameter,
			ParamStripWidth:     g.StripWidth,
			ParamStripThickness: g.Thickness,
			ParamWaves:          g.Waves,
			ParamFreeLength:     g.FreeLength,
		},
	}, spring.Target{Input: 3, Mode: spring.ModeDeflection, Output: fwd.Cases[0].Load})

	if !out.OK {
		t.Fatalf("solve failed: %v", out.Errors)
	}
	if z := out.Params[ParamTurns]; math.Abs(z-g.Turns)/g.Turns > 1e-9 {
		t.Errorf("expected %f turns, got %f", g.Turns, z)
	}
}

func TestTorsionRoundTrip(t *testing.T) {
	g := TorsionGeometry{WireDiameter: 2, MeanDiameter: 16, ActiveCoils: 6, LegLength: 0}
	fwd := NewTorsion().Calculate(g, spring.MusicWire(),
		[]spring.LoadCase{{Mode: spring.ModeAngle, Value: 45}}, spring.Flags{})
	if !fwd.Valid {
		t.Fatalf("forward case invalid: %+v", fwd.Cases[0])
	}

	e := NewTorsion().(ReverseSolver)
	out := e.SolveForTarget(SolveContext{
		Material: spring.MusicWire(),
		Fixed: map[string]float64{
			ParamWireDiameter: g.WireDiameter,
			ParamMeanDiameter: g.MeanDiameter,
		},
	}, spring.Target{Input: 45, Mode: spring.ModeAngle, Output: fwd.Cases[0].Load})

	if !out.OK {
		t.Fatalf("solve failed: %v", out.Errors)
	}
	if n := out.Params[ParamActiveCoils]; math.Abs(n-g.ActiveCoils)/g.ActiveCoils > 0.001 {
		t.Errorf("expected %f coils, got %f", g.ActiveCoils, n)
	}
}

func TestExtensionInitialTension(t *testing.T) {
	g := ExtensionGeometry{WireDiameter: 1.5, MeanDiameter: 12, ActiveCoils: 20, FreeLength: 40}
	cases := []spring.LoadCase{{Mode: spring.ModeDeflection, Value: 0.001}}
	res := NewExtension().Calculate(g, spring.MusicWire(), cases, spring.Flags{})

	// Near zero extension the load is dominated by the wound-in preload.
	if res.Cases[0].Load < 1 {
		t.Errorf("expected preload above 1 N, got %f", res.Cases[0].Load)
	}
}

func TestVariablePitchProgressive(t *testing.T) {
	g, err := NewVariablePitch().FromParams(map[string]float64{
		ParamWireDiameter: 3,
		ParamMeanDiameter: 24,
		ParamActiveCoils:  8,
		ParamFreeLength:   80,
		ParamPitchRatio:   1.8,
	})
	if err != nil {
		t.Fatal(err)
	}
	flags := spring.Flags{Curves: true, CurveSamples: 60}
	res := NewVariablePitch().Calculate(g, spring.MusicWire(), nil, flags)

	first := res.Curves.Rate[0]
	last := res.Curves.Rate[len(res.Curves.Rate)-1]
	if last <= first {
		t.Errorf("expected progressive rate, got %f -> %f", first, last)
	}
}

func TestShockHelixSynthesis(t *testing.T) {
	g, err := NewShock().FromParams(map[string]float64{
		ParamWireDiameter: 10,
		ParamMeanDiameter: 110,
		ParamActiveCoils:  6,
		ParamPitch:        40,
	})
	if err != nil {
		t.Fatal(err)
	}
	sg := g.(ShockGeometry)
	if len(sg.Segments) != 3 {
		t.Fatalf("expected 3 helix segments, got %d", len(sg.Segments))
	}
	if sg.ActiveCoils() != 6 {
		t.Errorf("expected 6 active coils, got %f", sg.ActiveCoils())
	}
	if sg.TotalCoils() != 8 {
		t.Errorf("expected 8 total coils, got %f", sg.TotalCoils())
	}

	res := NewShock().Calculate(sg, spring.MusicWire(), nil, spring.Flags{})
	want := 79000.0 * math.Pow(10, 4) / (8 * math.Pow(110, 3) * 6)
	if math.Abs(res.Rate-want)/want > 1e-12 {
		t.Errorf("expected rate %f, got %f", want, res.Rate)
	}
}

func TestArcStagedTorque(t *testing.T) {
	g := ArcGeometry{
		WireDiameter: 3,
		MeanDiameter: 20,
		ArcRadius:    100,
		Groups: []ArcPackGroup{{
			Count: 2,
			Stages: []ArcStage{
				{Rate: 50, EndAngle: 20},
				{Rate: 120, EndAngle: 40},
			},
		}},
	}
	cases := []spring.LoadCase{
		{Mode: spring.ModeAngle, Value: 10},
		{Mode: spring.ModeAngle, Value: 35},
	}
	res := NewArc().Calculate(g, spring.MusicWire(), cases, spring.Flags{})

	// Stage 1 slope is ~2*50 per pack; well past the break it steepens.
	early := res.Cases[0].Load / 10
	lateSlope := (res.Cases[1].Load - res.Cases[0].Load) / 25
	if lateSlope <= early {
		t.Errorf("expected stiffening, got slopes %f -> %f", early, lateSlope)
	}
	if res.Cases[0].Stage != 0 {
		t.Errorf("expected stage 0 at 10 deg, got %d", res.Cases[0].Stage)
	}
	if res.Cases[1].Stage != 1 {
		t.Errorf("expected stage 1 at 35 deg, got %d", res.Cases[1].Stage)
	}
}

func TestArcRateTracksMaterial(t *testing.T) {
	geom, err := NewArc().FromParams(map[string]float64{
		ParamWireDiameter: 3,
		ParamMeanDiameter: 20,
		ParamActiveCoils:  8,
		ParamArcRadius:    100,
	})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	cases := []spring.LoadCase{{Mode: spring.ModeAngle, Value: 5}}

	steel := spring.MusicWire()
	bronze := steel
	bronze.G = 41400

	hard := NewArc().Calculate(geom, steel, cases, spring.Flags{})
	soft := NewArc().Calculate(geom, bronze, cases, spring.Flags{})
	if hard.Cases[0].Load <= 0 || soft.Cases[0].Load <= 0 {
		t.Fatalf("expected positive torques, got %f and %f", hard.Cases[0].Load, soft.Cases[0].Load)
	}

	// The whole staged curve is proportional to the shear modulus.
	ratio := soft.Cases[0].Load / hard.Cases[0].Load
	want := bronze.G / steel.G
	if math.Abs(ratio-want) > 1e-9 {
		t.Errorf("expected torque ratio %f across materials, got %f", want, ratio)
	}
}

func TestArcTorqueInversion(t *testing.T) {
	g := ArcGeometry{
		WireDiameter: 3,
		MeanDiameter: 20,
		ArcRadius:    100,
		Groups: []ArcPackGroup{{
			Count:  1,
			Stages: []ArcStage{{Rate: 80, EndAngle: 45}},
		}},
	}
	angle := 25.0
	fwd := NewArc().Calculate(g, spring.MusicWire(),
		[]spring.LoadCase{{Mode: spring.ModeAngle, Value: angle}}, spring.Flags{})

	inv := NewArc().Calculate(g, spring.MusicWire(),
		[]spring.LoadCase{{Mode: spring.ModeTorque, Value: fwd.Cases[0].Load}}, spring.Flags{})

	if math.Abs(inv.Cases[0].Deflection-angle) > 0.01 {
		t.Errorf("expected %f deg back, got %f", angle, inv.Cases[0].Deflection)
	}
}
