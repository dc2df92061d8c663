// Package sweep computes the structural facts a memory-allocation solver
// needs about a problem before any placement decision is made.
//
// Given a set of buffers with half-open lifespans and optional gaps, a
// single left-to-right pass over their time events produces:
//
//   - Sections: a compact partition of the time axis into maximal intervals
//     of constant buffer activity, each recorded as the ordered set of
//     simultaneously active buffers.
//   - Partitions: maximal clusters of buffers whose lifespans transitively
//     overlap, each spanning a contiguous range of sections. Partitions are
//     independent sub-problems a solver can place separately.
//   - Per-buffer section spans and overlaps: for every buffer, the section
//     ranges during which it held one constant window, and the set of
//     partners it can co-occupy memory with, paired with the effective
//     combined size to account for.
//
// A post-pass, [SweepResult.CalculateCuts], counts for each boundary
// between adjacent sections how many buffers survive across it; a zero
// count marks a point where the problem decomposes further.
//
// The sweep is deterministic, single-threaded, and allocation-local: all
// mutable state lives in one [Sweep] invocation, so independent callers may
// sweep different problems concurrently. It assumes well-formed input (see
// [model.Problem.Validate]); behavior on empty or inverted intervals is
// unspecified.
package sweep
