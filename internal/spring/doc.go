// Package spring defines the shared vocabulary of the design search:
// topology tags, materials, load cases, evaluation results and performance
// targets.
//
// The package holds data only. Per-topology physics lives in
// internal/engines, candidate generation in internal/search, and ranking in
// internal/pareto.
//
// # Error model
//
// Engineering infeasibility (solid-height violation, over-stress, travel
// beyond limits, impossible geometry) is not an error value: engines encode
// it as Result.Valid=false plus a per-case [Status] and [Reason]. Error
// values are reserved for malformed parameter sets and configuration
// mistakes.
package spring
