// Package search enumerates candidate geometries over a bounded design
// space, evaluates them and keeps the ones that hit the targets.
package search

import (
	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/spring"
)

// Envelope is the installation space a candidate must fit. Zero fields
// are unconstrained.
type Envelope struct {
	MaxOuterDiameter float64
	MinInnerDiameter float64 // clearance bore, e.g. over a shaft
	MaxLength        float64
}

// Admits reports whether a parameter set fits the envelope.
func (e Envelope) Admits(topo spring.Topology, p map[string]float64) bool {
	var outer, inner, length float64
	switch topo {
	case spring.Disc:
		outer = p[engines.ParamOuterDiameter]
		inner = p[engines.ParamInnerDiameter]
	case spring.Spiral:
		// Spiral housing bore is not derivable from strip parameters alone.
		length = p[engines.ParamStripWidth]
	default:
		d := p[engines.ParamWireDiameter]
		dm := p[engines.ParamMeanDiameter]
		if dm == 0 {
			dm = p[engines.ParamLargeDiameter]
		}
		outer = dm + d
		inner = dm - d
		length = p[engines.ParamFreeLength]
	}

	if e.MaxOuterDiameter > 0 && outer > e.MaxOuterDiameter {
		return false
	}
	if e.MinInnerDiameter > 0 && inner > 0 && inner < e.MinInnerDiameter {
		return false
	}
	if e.MaxLength > 0 && length > e.MaxLength {
		return false
	}
	return true
}

// DesignSpace bounds one topology's search: per-parameter ranges, the
// installation envelope and the performance targets every candidate must
// satisfy.
type DesignSpace struct {
	Topology spring.Topology
	Ranges   map[string]spring.Range
	Envelope Envelope
	Targets  []spring.Target
}

// Validate checks the space is usable before enumeration starts.
func (s DesignSpace) Validate() error {
	if len(s.Targets) == 0 {
		return spring.ErrNoTargets
	}
	for _, r := range s.Ranges {
		if r.Min > r.Max || r.Min < 0 {
			return spring.ErrParameterBounds
		}
	}
	return nil
}

// rangeOr returns the configured range for key, or the fallback.
func (s DesignSpace) rangeOr(key string, fb spring.Range) spring.Range {
	if r, ok := s.Ranges[key]; ok {
		return r
	}
	return fb
}

// Cases converts the targets into engine load cases, one per target.
func (s DesignSpace) Cases() []spring.LoadCase {
	cases := make([]spring.LoadCase, len(s.Targets))
	for i, t := range s.Targets {
		cases[i] = spring.LoadCase{Mode: t.Mode, Value: t.Input}
	}
	return cases
}

// achieved extracts the output a target compares against from its case.
func achieved(t spring.Target, c spring.CaseResult) float64 {
	if t.Mode == spring.ModeTorque {
		return c.Deflection
	}
	return c.Load
}
