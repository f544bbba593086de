package metric

import (
	"math"
	"testing"

	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/spring"
)

func TestStressRatio(t *testing.T) {
	tests := []struct {
		name      string
		peak      float64
		allowable float64
		want      float64
	}{
		{"within", 300, 750, 0.4},
		{"at limit", 750, 750, 1.0},
		{"over", 900, 750, 1.2},
		{"zero allowable", 100, 0, 2.0},
		{"negative allowable", 100, -5, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StressRatio(tt.peak, tt.allowable)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestMassProxyHelical(t *testing.T) {
	p := map[string]float64{
		engines.ParamWireDiameter: 2,
		engines.ParamMeanDiameter: 20,
		engines.ParamActiveCoils:  10,
	}
	if got := MassProxy(spring.Compression, p); got != 800 {
		t.Errorf("expected 800, got %f", got)
	}

	// Thicker wire at the same envelope costs quadratically.
	p[engines.ParamWireDiameter] = 4
	if got := MassProxy(spring.Compression, p); got != 3200 {
		t.Errorf("expected 3200, got %f", got)
	}
}

func TestMassProxyDiscStack(t *testing.T) {
	p := map[string]float64{
		engines.ParamOuterDiameter: 40,
		engines.ParamInnerDiameter: 20,
		engines.ParamThickness:     1.5,
		engines.ParamSeries:        2,
		engines.ParamParallel:      3,
	}
	want := (1600.0 - 400.0) * 1.5 * 2 * 3
	if got := MassProxy(spring.Disc, p); got != want {
		t.Errorf("expected %f, got %f", want, got)
	}

	// Missing stack counts default to single discs.
	delete(p, engines.ParamSeries)
	delete(p, engines.ParamParallel)
	if got := MassProxy(spring.Disc, p); got != (1600.0-400.0)*1.5 {
		t.Errorf("expected single-disc proxy, got %f", got)
	}
}

func TestMassProxyConicalUsesLargeDiameter(t *testing.T) {
	p := map[string]float64{
		engines.ParamWireDiameter:  2,
		engines.ParamLargeDiameter: 30,
		engines.ParamActiveCoils:   8,
	}
	if got := MassProxy(spring.Conical, p); got != 2*2*30*8 {
		t.Errorf("expected %f, got %f", 2.0*2*30*8, got)
	}
}

func TestSolidMargin(t *testing.T) {
	res := &spring.Result{
		FreeLength:  50,
		SolidHeight: 20,
		Cases: []spring.CaseResult{
			{Deflection: 10},
			{Deflection: 22},
		},
	}
	if got := SolidMargin(res); got != 8 {
		t.Errorf("expected 8, got %f", got)
	}

	// Rotational springs carry no height, the objective stays neutral.
	if got := SolidMargin(&spring.Result{}); got != 0 {
		t.Errorf("expected 0 without a free length, got %f", got)
	}
}

func TestObjectivesNegateMargin(t *testing.T) {
	v := Values{MassProxy: 100, StressRatio: 0.5, SolidMargin: 7}
	obj := v.Objectives()
	if obj[0] != 100 || obj[1] != 0.5 || obj[2] != -7 {
		t.Errorf("unexpected objective vector %v", obj)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	p := map[string]float64{
		engines.ParamWireDiameter: 2,
		engines.ParamMeanDiameter: 20,
		engines.ParamActiveCoils:  10,
	}
	res := &spring.Result{
		FreeLength:  50,
		SolidHeight: 10,
		PeakStress:  375,
		Allowable:   750,
		Cases: []spring.CaseResult{
			{Deflection: 10, Energy: 98.75},
		},
	}
	v := Compute(spring.Compression, p, res)
	if v.MassProxy != 800 {
		t.Errorf("mass proxy: expected 800, got %f", v.MassProxy)
	}
	if v.StressRatio != 0.5 {
		t.Errorf("stress ratio: expected 0.5, got %f", v.StressRatio)
	}
	if v.SolidMargin != 30 {
		t.Errorf("solid margin: expected 30, got %f", v.SolidMargin)
	}
	if v.Energy != 98.75 {
		t.Errorf("energy: expected 98.75, got %f", v.Energy)
	}
}
