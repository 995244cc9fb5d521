// Package render groups the visual outputs of a tabulation.
//
// # Lock Graph
//
// The [lockgraph] subpackage draws the lock graph: candidates as boxes,
// locked pairs as arrows from winner to loser labelled with the margin, and
// optionally the skipped pairs as dashed red edges. DOT is generated in
// process and rendered to SVG or PNG with go-graphviz, so no Graphviz
// installation is needed.
//
//	dot, err := lockgraph.ToDOT(res, lockgraph.Options{Reduce: true})
//	svg, err := lockgraph.RenderSVG(ctx, dot)
//
// # Step-Through
//
// Terminal playback of the tabulation stages lives in the playback package;
// it shares no code with the graph renderer.
package render
