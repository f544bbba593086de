package search

import (
	"context"
	"testing"

	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/spring"
)

func compressionSpace() DesignSpace {
	return DesignSpace{
		Topology: spring.Compression,
		Ranges: map[string]spring.Range{
			engines.ParamWireDiameter: {Min: 1.5, Max: 2.5},
			engines.ParamMeanDiameter: {Min: 15, Max: 25},
			engines.ParamActiveCoils:  {Min: 6, Max: 14},
			engines.ParamFreeLength:   {Min: 40, Max: 60},
		},
		Targets: []spring.Target{
			{Input: 10, Mode: spring.ModeDeflection, Output: 19.75},
		},
	}
}

func compressionContext() Context {
	reg := engines.NewRegistry()
	e := reg.MustEngine(spring.Compression)
	solver, _ := reg.Solver(spring.Compression)
	return Context{
		Engine:   e,
		Solver:   solver,
		Material: spring.MusicWire(),
		Space:    compressionSpace(),
	}
}

func TestGenerateFindsMatches(t *testing.T) {
	got, err := Generate(context.Background(), compressionContext(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one candidate")
	}
	target := compressionSpace().Targets[0]
	for _, c := range got {
		if !c.Result.Valid {
			t.Fatalf("%s survived with an invalid result", c.ID)
		}
		if !target.Matched(c.Result.Cases[0].Load) {
			t.Fatalf("%s load %f outside tolerance of %f", c.ID, c.Result.Cases[0].Load, target.Output)
		}
		if c.Metrics.MassProxy <= 0 {
			t.Fatalf("%s has no mass proxy", c.ID)
		}
		if !c.Visible {
			t.Fatalf("%s created hidden; candidates start visible", c.ID)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(context.Background(), compressionContext(), Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(context.Background(), compressionContext(), Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("run sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("ID order differs at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
		if fingerprint(a[i].Params) != fingerprint(b[i].Params) {
			t.Fatalf("params differ at %d", i)
		}
	}
}

func TestGenerateRespectsCap(t *testing.T) {
	gc := compressionContext()
	got, err := Generate(context.Background(), gc, Options{MaxCandidates: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) > 5 {
		t.Fatalf("expected at most 5 candidates, got %d", len(got))
	}
}

func TestGenerateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, compressionContext(), Options{}); err == nil {
		t.Fatal("expected a cancellation error")
	}
}

func TestGenerateNoTargets(t *testing.T) {
	gc := compressionContext()
	gc.Space.Targets = nil
	if _, err := Generate(context.Background(), gc, Options{}); err == nil {
		t.Fatal("expected validation failure for an empty target list")
	}
}

func TestGenerateEnvelopeFilter(t *testing.T) {
	gc := compressionContext()
	gc.Space.Envelope = Envelope{MaxOuterDiameter: 1} // nothing fits
	got, err := Generate(context.Background(), gc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates inside a 1 mm bore, got %d", len(got))
	}
}

// fixedEngine returns a canned result regardless of geometry, so filter
// behavior can be pinned exactly.
type fixedEngine struct {
	load      float64
	panicWire float64
}

func (fixedEngine) Topology() spring.Topology { return spring.Compression }

func (fixedEngine) FromParams(p map[string]float64) (engines.Geometry, error) {
	return engines.CompressionGeometry{
		WireDiameter: p[engines.ParamWireDiameter],
		MeanDiameter: p[engines.ParamMeanDiameter],
		ActiveCoils:  p[engines.ParamActiveCoils],
		FreeLength:   p[engines.ParamFreeLength],
	}, nil
}

func (e fixedEngine) Calculate(geom engines.Geometry, mat spring.Material, cases []spring.LoadCase, flags spring.Flags) *spring.Result {
	g := geom.(engines.CompressionGeometry)
	if e.panicWire > 0 && g.WireDiameter >= e.panicWire {
		panic("degenerate geometry")
	}
	res := &spring.Result{Valid: true, FreeLength: g.FreeLength, Allowable: 750}
	for _, lc := range cases {
		res.Cases = append(res.Cases, spring.CaseResult{
			Input: lc.Value, Mode: lc.Mode, Deflection: lc.Value,
			Load: e.load, Status: spring.StatusOK,
		})
	}
	return res
}

func TestGenerateExcludesOutOfTolerance(t *testing.T) {
	gc := compressionContext()
	gc.Engine = fixedEngine{load: 100} // valid, but 5x the target
	gc.Solver = nil
	got, err := Generate(context.Background(), gc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected tolerance filter to drop everything, got %d", len(got))
	}
}

func TestGenerateSkipsPanickingCandidates(t *testing.T) {
	gc := compressionContext()
	gc.Engine = fixedEngine{load: 19.75, panicWire: 2.0}
	gc.Solver = nil
	got, err := Generate(context.Background(), gc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected thin-wire candidates to survive")
	}
	for _, c := range got {
		if c.Params[engines.ParamWireDiameter] >= 2.0 {
			t.Fatalf("%s should have been dropped by the panic guard", c.ID)
		}
	}
}

func TestProposeDedupes(t *testing.T) {
	gc := compressionContext()
	proposals := propose(gc)
	seen := make(map[string]struct{}, len(proposals))
	for _, pr := range proposals {
		key := fingerprint(pr.params)
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate proposal %s", key)
		}
		seen[key] = struct{}{}
	}
}
