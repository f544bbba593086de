package spring

import "errors"

// Domain errors shared across packages.
var (
	// ErrParameterBounds indicates a geometry parameter outside its valid range.
	ErrParameterBounds = errors.New("spring: parameter out of valid bounds")

	// ErrGeometryMismatch indicates a geometry passed to an engine of a
	// different topology.
	ErrGeometryMismatch = errors.New("spring: geometry does not match engine topology")

	// ErrMissingParam indicates a parameter set lacking a required key.
	ErrMissingParam = errors.New("spring: missing required parameter")

	// ErrNoTargets indicates a design space without any performance target.
	ErrNoTargets = errors.New("spring: design space has no targets")
)
