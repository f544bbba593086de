package engines

import (
	"fmt"
	"math"

	"github.com/coilworks/springlab/internal/solve"
	"github.com/coilworks/springlab/internal/spring"
)

// warnFraction is the stress level, relative to the allowable, above which
// a case is flagged warning instead of ok.
const warnFraction = 0.9

// wahl returns the Wahl curvature correction for spring index c.
func wahl(c float64) float64 {
	if c <= 1 {
		return math.NaN()
	}
	return (4*c-1)/(4*c-4) + 0.615/c
}

// bendingK returns the inner-fiber bending correction for torsion springs.
func bendingK(c float64) float64 {
	if c <= 1 {
		return math.NaN()
	}
	return (4*c*c - c - 1) / (4 * c * (c - 1))
}

// pick reads a required parameter, wrapping ErrMissingParam when absent.
func pick(p map[string]float64, key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", spring.ErrMissingParam, key)
	}
	return v, nil
}

// pickDefault reads an optional parameter with a fallback.
func pickDefault(p map[string]float64, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// infeasible builds the result for a geometry that cannot be evaluated at
// all. Every load case is marked invalid with the given reason.
func infeasible(cases []spring.LoadCase, allowable float64, reason spring.Reason) *spring.Result {
	res := &spring.Result{Valid: false, Allowable: allowable}
	for _, lc := range cases {
		res.Cases = append(res.Cases, spring.CaseResult{
			Input:  lc.Value,
			Mode:   lc.Mode,
			Status: spring.StatusInvalid,
			Reason: reason,
		})
	}
	return res
}

// stressStatus grades a stress level against the allowable.
func stressStatus(stress, allowable float64) (spring.Status, spring.Reason) {
	if allowable > 0 && stress > allowable {
		return spring.StatusDanger, spring.ReasonOverStress
	}
	if allowable > 0 && stress > warnFraction*allowable {
		return spring.StatusWarning, spring.ReasonOverStress
	}
	return spring.StatusOK, spring.ReasonNone
}

// worse returns the more severe of two statuses.
func worse(a, b spring.Status) spring.Status {
	rank := map[spring.Status]int{
		spring.StatusOK: 0, spring.StatusWarning: 1,
		spring.StatusDanger: 2, spring.StatusInvalid: 3,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// sampleCurves samples load and rate over [0, maxTravel] and integrates
// the stored energy with a cumulative trapezoid.
func sampleCurves(samples int, maxTravel float64, loadRateAt func(x float64) (load, rate float64)) *spring.Curves {
	if maxTravel <= 0 || samples < 2 {
		return nil
	}
	c := &spring.Curves{
		Travel: make([]float64, samples),
		Load:   make([]float64, samples),
		Rate:   make([]float64, samples),
	}
	step := maxTravel / float64(samples-1)
	for i := 0; i < samples; i++ {
		x := float64(i) * step
		load, rate := loadRateAt(x)
		c.Travel[i] = x
		c.Load[i] = load
		c.Rate[i] = rate
	}
	c.Energy = solve.CumTrapezoid(c.Travel, c.Load)
	return c
}

// finalize fills the aggregate fields shared by every engine: peak stress,
// overall validity (no danger or invalid case), and case list.
func finalize(res *spring.Result) *spring.Result {
	res.Valid = true
	for _, c := range res.Cases {
		if c.Stress > res.PeakStress {
			res.PeakStress = c.Stress
		}
		if c.Status == spring.StatusDanger || c.Status == spring.StatusInvalid {
			res.Valid = false
		}
	}
	return res
}
