package spring

import "fmt"

// Topology identifies a spring construction. Every engine, geometry and
// design space carries exactly one of these tags.
type Topology string

const (
	Compression   Topology = "compression"
	Extension     Topology = "extension"
	Torsion       Topology = "torsion"
	Conical       Topology = "conical"
	Arc           Topology = "arc"
	Disc          Topology = "disc"
	Spiral        Topology = "spiral"
	Wave          Topology = "wave"
	VariablePitch Topology = "variable_pitch"
	Shock         Topology = "shock"
	AxialPack     Topology = "axial_pack"
)

// Topologies returns all known tags in a fixed order.
func Topologies() []Topology {
	return []Topology{
		Compression, Extension, Torsion, Conical, Arc, Disc,
		Spiral, Wave, VariablePitch, Shock, AxialPack,
	}
}

// InputMode says how a load case input value is interpreted.
type InputMode string

const (
	ModeHeight     InputMode = "height"     // compressed height, mm
	ModeDeflection InputMode = "deflection" // axial travel, mm
	ModeAngle      InputMode = "angle"      // rotation, degrees
	ModeTorque     InputMode = "torque"     // applied torque, N*mm
)

// Status classifies one evaluated load case.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
	StatusInvalid Status = "invalid"
)

// Reason gives the cause behind a warning/danger/invalid status.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonSolidHeight Reason = "solid_height"
	ReasonOverStress  Reason = "over_stress"
	ReasonTravel      Reason = "travel"
	ReasonGeometry    Reason = "geometry"
)

// LoadCase is one operating point to evaluate.
type LoadCase struct {
	Mode  InputMode
	Value float64
}

// CaseResult is the evaluation of one load case.
type CaseResult struct {
	Input      float64
	Mode       InputMode
	Deflection float64 // mm or degrees depending on mode
	Load       float64 // N (force) or N*mm (torque)
	Stress     float64 // MPa
	Status     Status
	Reason     Reason
	Stage      int     // active stage for piecewise springs, 0 otherwise
	Energy     float64 // N*mm stored at this point
}

// Curves holds sampled characteristic curves over the usable travel.
// All slices share the same length.
type Curves struct {
	Travel []float64
	Load   []float64
	Rate   []float64
	Energy []float64
}

// Finding is a design-rule observation that does not invalidate the result.
type Finding struct {
	Severity Status
	Code     string
	Message  string
}

// Result is the full engine output for one geometry.
type Result struct {
	Cases       []CaseResult
	Rate        float64 // N/mm, or N*mm/deg for rotational springs
	Index       float64 // spring index C, 0 where not applicable
	WahlFactor  float64 // curvature correction, 0 where not applicable
	FreeLength  float64 // mm, 0 where not applicable
	SolidHeight float64 // mm, 0 where not applicable
	Valid       bool
	PeakStress  float64
	Allowable   float64
	Findings    []Finding
	Curves      *Curves
}

// MaxDeflection returns the largest case deflection, or 0 for no cases.
func (r *Result) MaxDeflection() float64 {
	max := 0.0
	for _, c := range r.Cases {
		if c.Deflection > max {
			max = c.Deflection
		}
	}
	return max
}

// DefaultTolerance is the relative target tolerance used when a Target
// does not set one.
const DefaultTolerance = 0.15

// Target is one performance requirement: at Input (interpreted per Mode)
// the spring must produce Output within the tolerance fraction.
type Target struct {
	Input     float64
	Mode      InputMode
	Output    float64
	Tolerance float64
}

// Tol returns the effective tolerance fraction.
func (t Target) Tol() float64 {
	if t.Tolerance <= 0 {
		return DefaultTolerance
	}
	return t.Tolerance
}

// Matched reports whether an achieved output satisfies the target.
func (t Target) Matched(achieved float64) bool {
	if t.Output == 0 {
		return achieved == 0
	}
	return abs(achieved-t.Output) <= t.Tol()*abs(t.Output)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Range is a closed [Min, Max] interval over one parameter.
type Range struct {
	Min float64
	Max float64
}

// Mid returns the interval midpoint.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

// Contains reports whether v lies inside the interval.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r Range) String() string { return fmt.Sprintf("[%g, %g]", r.Min, r.Max) }

// Flags controls optional engine outputs.
type Flags struct {
	Curves       bool
	CurveSamples int
	Findings     bool
}

// DefaultFlags enables findings and 60-sample curves.
func DefaultFlags() Flags {
	return Flags{Curves: true, CurveSamples: 60, Findings: true}
}

// Samples returns the effective curve sample count.
func (f Flags) Samples() int {
	if f.CurveSamples <= 1 {
		return 60
	}
	return f.CurveSamples
}
