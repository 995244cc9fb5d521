// Package transform provides graph transformations over a [dag.Graph].
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If A→B and B→C exist, then A→C is redundant and removed.
//
// A finished Ranked Pairs lock graph usually contains every locked pair, so
// its drawing is a dense tournament. Reducing it leaves only the edges that
// define the social order, which is what a reader wants to see.
//
// Transformations modify the graph in place. Clone first when the original
// must be kept:
//
//	reduced := g.Clone()
//	removed := transform.TransitiveReduction(reduced)
//
// [dag.Graph]: github.com/matzehuels/tideman/pkg/dag.Graph
package transform
