package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/spring"
)

// Source records how a candidate's parameter set was produced.
type Source string

const (
	SourceGrid    Source = "grid"
	SourceSeed    Source = "seed"
	SourcePerturb Source = "perturb"
)

// Candidate is one surviving design with its evaluation and scores.
// Rank is zero until a ranking pass assigns fronts. Visible starts true;
// rendering consumers skip candidates a user has hidden.
type Candidate struct {
	ID       string
	Topology spring.Topology
	Source   Source
	Params   map[string]float64
	Result   *spring.Result
	Metrics  metric.Values
	Rank     int
	Visible  bool
}

// Context carries everything a generation run needs.
type Context struct {
	Engine   engines.Engine
	Solver   engines.ReverseSolver // nil when the topology has no solver
	Material spring.Material
	Space    DesignSpace
}

// Options tunes a generation run. Zero values pick the defaults.
type Options struct {
	MaxCandidates int // survivors kept, default 300
	ChunkSize     int // cancellation poll interval, default 20
	Workers       int // evaluation goroutines, default 1
	Flags         spring.Flags
}

const (
	defaultMaxCandidates = 300
	defaultChunkSize     = 20
)

func (o Options) maxCandidates() int {
	if o.MaxCandidates <= 0 {
		return defaultMaxCandidates
	}
	return o.MaxCandidates
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return defaultChunkSize
	}
	return o.ChunkSize
}

// proposal is one parameter set awaiting evaluation.
type proposal struct {
	params map[string]float64
	source Source
}

// Generate enumerates, evaluates and filters candidates. The output order
// and IDs are deterministic for a given space; only wall time changes with
// Workers.
func Generate(ctx context.Context, gc Context, opts Options) ([]Candidate, error) {
	if err := gc.Space.Validate(); err != nil {
		return nil, err
	}

	proposals := propose(gc)
	results := evaluate(ctx, gc, opts, proposals)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, opts.maxCandidates())
	for i, pr := range proposals {
		res := results[i]
		if res == nil || !res.Valid {
			continue
		}
		if !gc.Space.Envelope.Admits(gc.Space.Topology, pr.params) {
			continue
		}
		if !targetsMet(gc.Space.Targets, res) {
			continue
		}

		out = append(out, Candidate{
			ID:       fmt.Sprintf("cand-%04d", len(out)+1),
			Topology: gc.Space.Topology,
			Source:   pr.source,
			Params:   pr.params,
			Result:   res,
			Metrics:  metric.Compute(gc.Space.Topology, pr.params, res),
			Visible:  true,
		})
		if len(out) == opts.maxCandidates() {
			break
		}
	}
	return out, nil
}

// propose collects grid, seed and perturbation parameter sets, deduplicated
// in first-seen order.
func propose(gc Context) []proposal {
	var proposals []proposal
	seen := make(map[string]struct{})

	add := func(p map[string]float64, src Source) {
		key := fingerprint(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		proposals = append(proposals, proposal{params: p, source: src})
	}

	for _, p := range Enumerate(gc.Space) {
		add(p, SourceGrid)
	}
	for _, seed := range Seeds(gc.Solver, gc.Material, gc.Space) {
		add(seed, SourceSeed)
		for _, p := range Perturb(seed, gc.Space) {
			add(p, SourcePerturb)
		}
	}
	return proposals
}

// fingerprint is a dedupe key over the full parameter set. Values are
// rounded through %.9g so float noise from different construction paths
// does not split identical designs.
func fingerprint(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%.9g;", k, p[k])
	}
	return b.String()
}

// evaluate runs the engine over every proposal. Slots stay nil for
// proposals that fail geometry construction or panic inside the engine.
func evaluate(ctx context.Context, gc Context, opts Options, proposals []proposal) []*spring.Result {
	results := make([]*spring.Result, len(proposals))
	cases := gc.Space.Cases()
	chunk := opts.chunkSize()

	ParallelFor(len(proposals), chunk, opts.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			if (i-start)%chunk == 0 && ctx.Err() != nil {
				return
			}
			results[i] = evalOne(gc, cases, opts.Flags, proposals[i].params)
		}
	})
	return results
}

// evalOne shields the run from a single degenerate geometry: an engine
// panic drops that candidate, not the search.
func evalOne(gc Context, cases []spring.LoadCase, flags spring.Flags, params map[string]float64) (res *spring.Result) {
	defer func() {
		if recover() != nil {
			res = nil
		}
	}()

	geom, err := gc.Engine.FromParams(params)
	if err != nil {
		return nil
	}
	return gc.Engine.Calculate(geom, gc.Material, cases, flags)
}

// targetsMet checks every target against its matching load case.
func targetsMet(targets []spring.Target, res *spring.Result) bool {
	if len(res.Cases) < len(targets) {
		return false
	}
	for i, t := range targets {
		c := res.Cases[i]
		if c.Status == spring.StatusInvalid {
			return false
		}
		if !t.Matched(achieved(t, c)) {
			return false
		}
	}
	return true
}
