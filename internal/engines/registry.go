package engines

import (
	"fmt"

	"github.com/coilworks/springlab/internal/spring"
)

// Registry maps topology tags to engine instances. Build it once at
// startup and pass it by reference; it is immutable afterwards.
type Registry struct {
	engines map[spring.Topology]Engine
}

// NewRegistry builds the registry with every shipped engine.
func NewRegistry() *Registry {
	r := &Registry{engines: make(map[spring.Topology]Engine)}
	for _, e := range []Engine{
		NewCompression(),
		NewExtension(),
		NewTorsion(),
		NewConical(),
		NewArc(),
		NewDisc(),
		NewSpiral(),
		NewWave(),
		NewVariablePitch(),
		NewShock(),
		NewAxialPack(),
	} {
		r.engines[e.Topology()] = e
	}
	return r
}

// Engine looks up the engine for a tag. Use this at input boundaries
// where the tag comes from user data.
func (r *Registry) Engine(t spring.Topology) (Engine, bool) {
	e, ok := r.engines[t]
	return e, ok
}

// MustEngine looks up the engine for a tag known at compile time. A
// missing registration is a programmer error, so it panics.
func (r *Registry) MustEngine(t spring.Topology) Engine {
	e, ok := r.engines[t]
	if !ok {
		panic(fmt.Sprintf("engines: no engine registered for topology %q", t))
	}
	return e
}

// Solver returns the engine's reverse solver when it has one.
func (r *Registry) Solver(t spring.Topology) (ReverseSolver, bool) {
	e, ok := r.engines[t]
	if !ok {
		return nil, false
	}
	rs, ok := e.(ReverseSolver)
	return rs, ok
}

// Topologies lists the registered tags in the canonical order.
func (r *Registry) Topologies() []spring.Topology {
	out := make([]spring.Topology, 0, len(r.engines))
	for _, t := range spring.Topologies() {
		if _, ok := r.engines[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
