package search

import (
	"github.com/coilworks/springlab/internal/engines"
)

// perturbFactors spread each seed a little both ways. Two magnitudes per
// direction cover manufacturing-step granularity without re-solving.
var perturbFactors = []float64{0.90, 0.95, 1.05, 1.10}

// perturbKeys are the parameters worth jittering. Anything else (stack
// counts, end types) changes the design in steps, not smoothly.
var perturbKeys = []string{
	engines.ParamWireDiameter,
	engines.ParamMeanDiameter,
	engines.ParamActiveCoils,
}

// Perturb returns up to 12 single-parameter variations of a seed. Variants
// that leave the configured ranges are dropped.
func Perturb(seed map[string]float64, space DesignSpace) []map[string]float64 {
	var out []map[string]float64
	for _, key := range perturbKeys {
		base, ok := seed[key]
		if !ok || base == 0 {
			continue
		}
		for _, f := range perturbFactors {
			v := base * f
			if r, bounded := space.Ranges[key]; bounded && !r.Contains(v) {
				continue
			}
			p := make(map[string]float64, len(seed))
			for k, val := range seed {
				p[k] = val
			}
			p[key] = v
			out = append(out, p)
		}
	}
	return out
}
