// Package solve provides the small numeric helpers the reverse solvers
// need: bounded root finding and cumulative trapezoid integration.
package solve

import "math"

const (
	DefaultTol     = 1e-9
	DefaultMaxIter = 200
)

// Bisect finds a root of f inside [lo, hi] by interval halving. It returns
// ok=false when f does not change sign over the interval or the inputs are
// not finite. The search is bounded: at most maxIter halvings.
func Bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, bool) {
	if tol <= 0 {
		tol = DefaultTol
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || math.IsInf(flo, 0) || math.IsInf(fhi, 0) {
		return 0, false
	}
	if flo == 0 {
		return lo, true
	}
	if fhi == 0 {
		return hi, true
	}
	if flo*fhi > 0 {
		return 0, false
	}

	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		fm := f(mid)
		if math.IsNaN(fm) {
			return 0, false
		}
		if fm == 0 || hi-lo < tol {
			return mid, true
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return 0.5 * (lo + hi), true
}

// CumTrapezoid integrates y over x cumulatively. The returned slice has the
// same length as the inputs; element 0 is always zero.
func CumTrapezoid(x, y []float64) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + 0.5*(y[i]+y[i-1])*(x[i]-x[i-1])
	}
	return out
}
