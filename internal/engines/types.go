package engines

import (
	"fmt"

	"github.com/coilworks/springlab/internal/spring"
)

// Geometry is the topology-discriminated union of spring shapes. Each
// engine owns one concrete geometry struct and type-asserts it in
// Calculate; passing a foreign geometry yields an invalid result, not a
// panic.
type Geometry interface {
	Topology() spring.Topology
}

// Engine is the per-topology physics contract. Calculate is pure: no
// shared mutable state, safe to call concurrently, and it never panics for
// numerically valid input. Infeasibility is reported through
// Result.Valid=false and per-case statuses.
//
// FromParams maps a flat parameter set (as produced by the generators)
// onto the engine's geometry schema. It is the only place topology-specific
// synthesis happens; the candidate generator contains no special cases.
type Engine interface {
	Topology() spring.Topology
	FromParams(p map[string]float64) (Geometry, error)
	Calculate(g Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result
}

// SolveContext carries the fixed parameter samples and clamps for a
// reverse solve. Fixed holds the sampled values the solver must keep;
// Bounds clamps the solved parameter(s).
type SolveContext struct {
	Material spring.Material
	Fixed    map[string]float64
	Bounds   map[string]spring.Range
}

// SolveOutcome is the reverse-solve result. Unsolvable targets come back
// as OK=false with human-readable Errors; SolveForTarget never panics.
type SolveOutcome struct {
	OK       bool
	Params   map[string]float64
	Derived  map[string]float64
	Warnings []string
	Errors   []string
}

// ReverseSolver is implemented by engines whose forward relation can be
// inverted for a single target point.
type ReverseSolver interface {
	Engine
	SolveForTarget(sc SolveContext, target spring.Target) SolveOutcome
}

// Flat parameter keys shared between the design space, the generators and
// the per-engine adapters.
const (
	ParamWireDiameter   = "wire_diameter"
	ParamMeanDiameter   = "mean_diameter"
	ParamActiveCoils    = "active_coils"
	ParamFreeLength     = "free_length"
	ParamPitch          = "pitch"
	ParamPitchRatio     = "pitch_ratio"
	ParamLegLength      = "leg_length"
	ParamLargeDiameter  = "large_diameter"
	ParamSmallDiameter  = "small_diameter"
	ParamArcRadius      = "arc_radius"
	ParamThickness      = "thickness"
	ParamConeHeight     = "cone_height"
	ParamOuterDiameter  = "outer_diameter"
	ParamInnerDiameter  = "inner_diameter"
	ParamSeries         = "series"
	ParamParallel       = "parallel"
	ParamStripWidth     = "strip_width"
	ParamStripThickness = "strip_thickness"
	ParamLength         = "length"
	ParamTurns          = "turns"
	ParamWaves          = "waves"
)

func solveFail(format string, args ...any) SolveOutcome {
	return SolveOutcome{Errors: []string{fmt.Sprintf(format, args...)}}
}

func solveOK(params, derived map[string]float64, warnings ...string) SolveOutcome {
	return SolveOutcome{OK: true, Params: params, Derived: derived, Warnings: warnings}
}
