// Package pareto ranks candidates by multi-objective dominance over
// (mass proxy, stress ratio, negated solid margin), all minimized.
package pareto

import "github.com/coilworks/springlab/internal/search"

// Epsilon absorbs float noise in dominance comparisons: objective values
// closer than this count as equal.
const Epsilon = 1e-6

// Fronts 1..5 are peeled individually; everything deeper shares one
// catch-all rank.
const (
	rankedFronts = 5
	restRank     = 10
)

// Dominates reports whether a is at least as good as b on every objective
// and strictly better on at least one, within Epsilon.
func Dominates(a, b [3]float64) bool {
	strict := false
	for i := range a {
		if a[i] > b[i]+Epsilon {
			return false
		}
		if a[i] < b[i]-Epsilon {
			strict = true
		}
	}
	return strict
}

// Rank assigns Pareto front ranks in place: front 1 is the non-dominated
// set, fronts 2..5 peel successively, the remainder gets rank 10. The
// input order is preserved.
func Rank(cands []search.Candidate) {
	n := len(cands)
	if n == 0 {
		return
	}

	objs := make([][3]float64, n)
	for i := range cands {
		objs[i] = cands[i].Metrics.Objectives()
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	for front := 1; front <= rankedFronts && len(remaining) > 0; front++ {
		var kept, next []int
		for _, i := range remaining {
			dominated := false
			for _, j := range remaining {
				if i != j && Dominates(objs[j], objs[i]) {
					dominated = true
					break
				}
			}
			if dominated {
				next = append(next, i)
			} else {
				kept = append(kept, i)
			}
		}
		if len(kept) == 0 {
			// Every remaining pair mutually epsilon-equal would stall the
			// peel; close out the tail instead.
			break
		}
		for _, i := range kept {
			cands[i].Rank = front
		}
		remaining = next
	}

	for _, i := range remaining {
		if cands[i].Rank == 0 {
			cands[i].Rank = restRank
		}
	}
}

// Front returns the candidates holding a given rank, in input order.
func Front(cands []search.Candidate, rank int) []search.Candidate {
	var out []search.Candidate
	for _, c := range cands {
		if c.Rank == rank {
			out = append(out, c)
		}
	}
	return out
}
