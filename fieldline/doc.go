// Package fieldline traces magnetic field lines through a coronal field
// model and classifies them as open or closed.
//
// What:
//
//   - Trace integrates a single line from a seed point with explicit
//     fixed-step Euler steps along the unit field direction, forward or
//     backward, until it leaves the modeled shell, approaches a pole, meets
//     a vanishing field, or exhausts its step budget.
//   - Generate lays a lattice of photospheric seeds, traces each seed in
//     both directions, merges the two halves into one line, and labels the
//     line open (it reached the source surface) or closed (it returned to
//     the photosphere). Seeds are independent, so tracing runs on a bounded
//     worker pool; results keep deterministic seed order.
//
// Invariants:
//
//   - A trace always contains its seed, so Points is never empty.
//   - len(Strengths) == len(Points) - 1: a strength is recorded for the
//     point a step departs from, and the final point has no outgoing step.
//
// Errors:
//
//   - ErrStepSize: non-positive integration step.
//   - ErrSourceRadius: source surface not above the photosphere.
//   - ErrLineCount: fewer than one requested line.
//
// A vanishing field (|B| below 1e-10) is not an error: the trace simply ends
// at that point.
package fieldline
