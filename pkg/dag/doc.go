// Package dag provides a small directed graph over index-addressed nodes,
// used as the lock graph of a Ranked Pairs tabulation.
//
// # Overview
//
// Candidates in an election are identified by a stable integer index
// 0..N-1. [Graph] stores adjacency as slices indexed by that integer, an
// arena rather than a web of node pointers, so a graph can be cloned, compared
// and shared read-only between goroutines without cyclic object references.
//
// # Basic Usage
//
// Create a graph with [New], add edges with [Graph.AddEdge], and guard
// acyclicity with [Graph.WouldCycle] before committing an edge:
//
//	g := dag.New(3)
//	_ = g.AddEdge(0, 1)
//	_ = g.AddEdge(1, 2)
//	g.WouldCycle(2, 0) // true: 0 already reaches 2
//
// Query the structure with [Graph.Children], [Graph.Parents],
// [Graph.InDegree], [Graph.Sources] and related methods. [Graph.Validate]
// re-checks the whole graph for cycles.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Once built, a graph
// can be read from many goroutines; all accessors return copies.
//
// # Related Packages
//
// The [transform] subpackage provides transitive reduction, used to draw the
// social order as a Hasse diagram.
//
// [transform]: github.com/matzehuels/tideman/pkg/dag/transform
package dag
