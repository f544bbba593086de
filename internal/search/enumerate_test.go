package search

import (
	"testing"

	"github.com/coilworks/springlab/internal/spring"
)

// Grid caps hold for every topology, whatever ranges the space supplies.
func TestEnumerateCaps(t *testing.T) {
	for _, topo := range spring.Topologies() {
		limit := maxGridGeneral
		if topo == spring.Disc {
			limit = maxGridDisc
		}

		wide := map[string]spring.Range{}
		for _, ax := range axisPlan(topo) {
			wide[ax.key] = spring.Range{Min: 0.1, Max: 1000}
		}

		for _, ranges := range []map[string]spring.Range{nil, wide} {
			got := Enumerate(DesignSpace{Topology: topo, Ranges: ranges})
			if len(got) > limit {
				t.Errorf("%s: %d parameter sets, cap is %d", topo, len(got), limit)
			}
			if len(got) == 0 {
				t.Errorf("%s: empty grid", topo)
			}
		}
	}
}

func TestEnumerateDiscCapBinds(t *testing.T) {
	got := Enumerate(DesignSpace{Topology: spring.Disc})
	if len(got) != maxGridDisc {
		t.Fatalf("disc grid should fill its cap of %d, got %d", maxGridDisc, len(got))
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	space := compressionSpace()
	a := Enumerate(space)
	b := Enumerate(space)

	if len(a) != len(b) {
		t.Fatalf("run sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if fingerprint(a[i]) != fingerprint(b[i]) {
			t.Fatalf("parameter sets differ at %d: %s vs %s", i, fingerprint(a[i]), fingerprint(b[i]))
		}
	}
}

func TestEnumerateHonorsRanges(t *testing.T) {
	space := compressionSpace()
	for _, p := range Enumerate(space) {
		for key, r := range space.Ranges {
			if v, ok := p[key]; !ok || !r.Contains(v) {
				t.Fatalf("%s=%f outside %s", key, v, r)
			}
		}
	}
}
