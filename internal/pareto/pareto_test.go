package pareto_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/pareto"
	"github.com/coilworks/springlab/internal/search"
)

// cand builds a candidate with the given objective triple
// (mass, stress ratio, solid margin).
func cand(mass, stress, margin float64) search.Candidate {
	return search.Candidate{
		ID: fmt.Sprintf("m%g-s%g", mass, stress),
		Metrics: metric.Values{
			MassProxy:   mass,
			StressRatio: stress,
			SolidMargin: margin,
		},
	}
}

var _ = Describe("Dominates", func() {
	It("holds when every objective is better", func() {
		a := [3]float64{1, 0.5, -10}
		b := [3]float64{2, 0.8, -5}
		Expect(pareto.Dominates(a, b)).To(BeTrue())
		Expect(pareto.Dominates(b, a)).To(BeFalse())
	})

	It("holds with one better and the rest equal", func() {
		a := [3]float64{1, 0.5, -10}
		b := [3]float64{1, 0.5, -5}
		Expect(pareto.Dominates(a, b)).To(BeTrue())
	})

	It("is never symmetric", func() {
		a := [3]float64{1, 0.9, -3}
		b := [3]float64{3, 0.2, -8}
		Expect(pareto.Dominates(a, b)).To(BeFalse())
		Expect(pareto.Dominates(b, a)).To(BeFalse())
	})

	It("treats sub-epsilon differences as ties", func() {
		a := [3]float64{1, 0.5, -10}
		b := [3]float64{1 + 1e-9, 0.5 - 1e-9, -10}
		Expect(pareto.Dominates(a, b)).To(BeFalse())
		Expect(pareto.Dominates(b, a)).To(BeFalse())
	})
})

var _ = Describe("Rank", func() {
	It("leaves an empty slice alone", func() {
		var none []search.Candidate
		pareto.Rank(none)
		Expect(none).To(BeEmpty())
	})

	It("puts a mutually non-dominated set all on front 1", func() {
		cands := []search.Candidate{
			cand(1, 0.9, 3),
			cand(2, 0.5, 5),
			cand(3, 0.2, 8),
		}
		pareto.Rank(cands)
		for _, c := range cands {
			Expect(c.Rank).To(Equal(1), c.ID)
		}
	})

	It("peels successive fronts", func() {
		cands := []search.Candidate{
			cand(1, 0.5, 10), // front 1
			cand(2, 0.6, 9),  // dominated by the first only
			cand(3, 0.7, 8),  // dominated by both above
		}
		pareto.Rank(cands)
		Expect(cands[0].Rank).To(Equal(1))
		Expect(cands[1].Rank).To(Equal(2))
		Expect(cands[2].Rank).To(Equal(3))
	})

	It("collapses everything past front 5 to rank 10", func() {
		// A strictly dominated chain: candidate i sits alone on front i+1.
		cands := make([]search.Candidate, 8)
		for i := range cands {
			v := float64(i)
			cands[i] = cand(1+v, 0.1+0.1*v, 10-v)
		}
		pareto.Rank(cands)
		for i := 0; i < 5; i++ {
			Expect(cands[i].Rank).To(Equal(i+1), cands[i].ID)
		}
		for i := 5; i < 8; i++ {
			Expect(cands[i].Rank).To(Equal(10), cands[i].ID)
		}
	})

	It("preserves input order", func() {
		cands := []search.Candidate{
			cand(2, 0.6, 9),
			cand(1, 0.5, 10),
		}
		pareto.Rank(cands)
		Expect(cands[0].ID).To(Equal("m2-s0.6"))
		Expect(cands[1].ID).To(Equal("m1-s0.5"))
	})
})

var _ = Describe("Front", func() {
	It("selects candidates by rank in input order", func() {
		cands := []search.Candidate{
			cand(1, 0.5, 10),
			cand(2, 0.6, 9),
			cand(0.5, 0.9, 2),
		}
		pareto.Rank(cands)
		first := pareto.Front(cands, 1)
		Expect(first).To(HaveLen(2))
		Expect(first[0].ID).To(Equal("m1-s0.5"))
		Expect(first[1].ID).To(Equal("m0.5-s0.9"))
	})
})
