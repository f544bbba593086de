package search

import (
	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/spring"
)

// Seeds asks the reverse solver for geometries that hit the first target
// exactly, one per sampled wire diameter and free length. The grid finds
// the neighborhood; seeds land on the curve.
func Seeds(solver engines.ReverseSolver, mat spring.Material, space DesignSpace) []map[string]float64 {
	if solver == nil || len(space.Targets) == 0 {
		return nil
	}
	target := space.Targets[0]
	plan := axisPlan(space.Topology)

	// Fix every axis but the solved one at a few representative values.
	var diaKey, lenKey string
	for _, ax := range plan {
		switch ax.key {
		case engines.ParamWireDiameter, engines.ParamStripThickness:
			diaKey = ax.key
		case engines.ParamFreeLength:
			lenKey = ax.key
		}
	}
	if diaKey == "" {
		return nil
	}

	diaRange := space.rangeOr(diaKey, fallbackRange(plan, diaKey))
	dias := linspace(diaRange, 3)

	lens := []float64{0}
	if lenKey != "" {
		lens = linspace(space.rangeOr(lenKey, fallbackRange(plan, lenKey)), 3)
	}

	var out []map[string]float64
	for _, dia := range dias {
		for _, l0 := range lens {
			fixed := map[string]float64{diaKey: dia}
			if lenKey != "" {
				fixed[lenKey] = l0
			}
			// Remaining axes sit at their range midpoints.
			for _, ax := range plan {
				if ax.key == diaKey || ax.key == lenKey {
					continue
				}
				if ax.key == engines.ParamActiveCoils || ax.key == engines.ParamTurns ||
					ax.key == engines.ParamLength {
					continue // the solver's free variable
				}
				fixed[ax.key] = space.rangeOr(ax.key, ax.fallback).Mid()
			}

			res := solver.SolveForTarget(engines.SolveContext{
				Material: mat,
				Fixed:    fixed,
				Bounds:   space.Ranges,
			}, target)
			if res.OK {
				out = append(out, res.Params)
			}
		}
	}
	return out
}

func fallbackRange(plan []axis, key string) spring.Range {
	for _, ax := range plan {
		if ax.key == key {
			return ax.fallback
		}
	}
	return spring.Range{}
}
