// Package tideman implements the Ranked Pairs (Tideman) tabulation method.
//
// # Overview
//
// A tabulation runs in four stages, each consuming only the immutable output
// of the previous one:
//
//  1. [ComputeTally] reduces a validated [ballot.Set] to a pairwise [Matrix].
//  2. [ComputePairs] turns the matrix into [Pair]s sorted by margin.
//  3. [LockPairs] commits pairs as edges of a directed graph in that order,
//     skipping any pair that would close a cycle.
//  4. [ExtractResult] reads the winner and the full ranking from the graph.
//
// [Run] chains the four stages and returns a [Result] that keeps every
// intermediate structure.
//
// # Determinism
//
// Every ordering decision has an explicit rule:
//
//   - Pairwise tie: the higher index is the winner, margin 0. Entries that
//     differ only by float64 rounding count as tied.
//   - Equal margins: ascending winner index, then ascending loser index.
//   - Several candidates eligible in the ranking: ascending in-degree in the
//     finished lock graph, then ascending index.
//
// Each time one of these rules decides an outcome a [TieBreak] is recorded in
// [Result.TieBreaks]. Identical input always produces identical output.
//
// # Concurrency
//
// The package has no mutable package-level state. All functions are safe to
// call concurrently.
package tideman
