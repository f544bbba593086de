package engines

import (
	"testing"

	"github.com/coilworks/springlab/internal/spring"
)

var benchCases = []spring.LoadCase{
	{Mode: spring.ModeDeflection, Value: 5},
	{Mode: spring.ModeDeflection, Value: 15},
	{Mode: spring.ModeHeight, Value: 40},
}

var benchCompression = CompressionGeometry{
	WireDiameter: 2,
	MeanDiameter: 20,
	ActiveCoils:  10,
	FreeLength:   60,
	EndType:      EndClosedGround,
}

func BenchmarkCompressionCalculate(b *testing.B) {
	eng := NewCompression()
	mat := spring.MusicWire()
	flags := spring.Flags{Findings: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.Calculate(benchCompression, mat, benchCases, flags)
	}
}

func BenchmarkCompressionCalculateCurves(b *testing.B) {
	eng := NewCompression()
	mat := spring.MusicWire()
	flags := spring.DefaultFlags()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.Calculate(benchCompression, mat, benchCases, flags)
	}
}

func BenchmarkConicalCalculate(b *testing.B) {
	eng := NewConical()
	geom := ConicalGeometry{
		WireDiameter:  2,
		LargeDiameter: 30,
		SmallDiameter: 15,
		ActiveCoils:   8,
		FreeLength:    50,
	}
	mat := spring.MusicWire()
	flags := spring.DefaultFlags()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.Calculate(geom, mat, benchCases, flags)
	}
}

func BenchmarkDiscCalculate(b *testing.B) {
	eng := NewDisc()
	geom := DiscGeometry{
		OuterDiameter: 40,
		InnerDiameter: 20,
		Thickness:     2,
		ConeHeight:    1,
		Series:        4,
		Parallel:      2,
	}
	mat := spring.MusicWire()
	cases := []spring.LoadCase{{Mode: spring.ModeDeflection, Value: 2}}
	flags := spring.DefaultFlags()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.Calculate(geom, mat, cases, flags)
	}
}

func BenchmarkCompressionSolve(b *testing.B) {
	solver, _ := NewCompression().(ReverseSolver)
	sc := SolveContext{
		Material: spring.MusicWire(),
		Fixed: map[string]float64{
			ParamWireDiameter: 2,
			ParamMeanDiameter: 20,
			ParamFreeLength:   60,
		},
	}
	target := spring.Target{Input: 10, Mode: spring.ModeDeflection, Output: 19.75}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver.SolveForTarget(sc, target)
	}
}
