package solve

import (
	"math"
	"testing"
)

func TestBisectLinear(t *testing.T) {
	root, ok := Bisect(func(x float64) float64 { return 2*x - 3 }, 0, 10, 1e-10, 0)
	if !ok {
		t.Fatal("expected root")
	}
	if math.Abs(root-1.5) > 1e-8 {
		t.Errorf("expected 1.5, got %f", root)
	}
}

func TestBisectNoSignChange(t *testing.T) {
	if _, ok := Bisect(func(x float64) float64 { return x*x + 1 }, -5, 5, 0, 0); ok {
		t.Error("expected no root")
	}
}

func TestBisectSwappedBounds(t *testing.T) {
	root, ok := Bisect(func(x float64) float64 { return x - 4 }, 10, 0, 0, 0)
	if !ok || math.Abs(root-4) > 1e-6 {
		t.Errorf("expected 4, got %f (ok=%v)", root, ok)
	}
}

func TestCumTrapezoid(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 1, 2, 3}

	e := CumTrapezoid(x, y)

	// integral of y=x is x^2/2
	want := []float64{0, 0.5, 2.0, 4.5}
	for i := range want {
		if math.Abs(e[i]-want[i]) > 1e-12 {
			t.Errorf("e[%d]: expected %f, got %f", i, want[i], e[i])
		}
	}
}
