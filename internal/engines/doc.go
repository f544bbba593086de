// Package engines implements the per-topology spring physics behind a
// common contract.
//
// Each topology owns one engine and one geometry struct:
//
//   - [CompressionGeometry]: straight helical compression
//   - [ExtensionGeometry]: close-wound extension with initial tension
//   - [TorsionGeometry]: helical torsion, leg-corrected
//   - [ConicalGeometry]: tapered helix with progressive coil collapse
//   - [ArcGeometry]: bow springs with staged pack-group torque curves
//   - [DiscGeometry]: Belleville stacks (Almen-Laszlo)
//   - [SpiralGeometry]: flat clock springs
//   - [WaveGeometry]: crest-to-crest wave springs (empirical rate)
//   - [VariablePitchGeometry]: progressive pitch-segment helix
//   - [ShockGeometry]: suspension springs as multi-segment helices
//   - [AxialPackGeometry]: series/parallel stacks of helical units
//
// Calculate never panics for numerically valid input and never returns an
// error: engineering infeasibility comes back as Result.Valid=false with
// per-case statuses. Engines with an invertible forward relation also
// implement [ReverseSolver]; nonlinear ones (conical) bisect over a
// bounded coil-count interval.
//
// All engines are stateless values, safe for concurrent use.
package engines
