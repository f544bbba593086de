package engines

import (
	"testing"

	"github.com/coilworks/springlab/internal/spring"
)

func TestRegistryCoversAllTopologies(t *testing.T) {
	r := NewRegistry()
	for _, topo := range spring.Topologies() {
		e, ok := r.Engine(topo)
		if !ok {
			t.Fatalf("no engine for %s", topo)
		}
		if e.Topology() != topo {
			t.Errorf("engine for %s reports %s", topo, e.Topology())
		}
	}
}

func TestRegistryUnknownTag(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Engine(spring.Topology("garter")); ok {
		t.Error("expected lookup miss")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustEngine to panic on unknown tag")
		}
	}()
	r.MustEngine(spring.Topology("garter"))
}

func TestRegistrySolvers(t *testing.T) {
	r := NewRegistry()
	withSolver := []spring.Topology{
		spring.Compression, spring.Extension, spring.Torsion,
		spring.Conical, spring.Spiral, spring.Wave, spring.Shock,
	}
	for _, topo := range withSolver {
		if _, ok := r.Solver(topo); !ok {
			t.Errorf("expected reverse solver for %s", topo)
		}
	}
	if _, ok := r.Solver(spring.Disc); ok {
		t.Error("disc engine should not expose a reverse solver")
	}
}

func TestEnginesPureAcrossCalls(t *testing.T) {
	// Same geometry, same answer: engines hold no state.
	e := NewRegistry().MustEngine(spring.Compression)
	g := testGeometry()
	cases := []spring.LoadCase{{Mode: spring.ModeDeflection, Value: 7}}

	r1 := e.Calculate(g, spring.MusicWire(), cases, spring.DefaultFlags())
	r2 := e.Calculate(g, spring.MusicWire(), cases, spring.DefaultFlags())

	if r1.Cases[0].Load != r2.Cases[0].Load || r1.Rate != r2.Rate {
		t.Error("repeated calculation differs")
	}
}
