// Package lockgraph renders the lock graph of a Ranked Pairs tabulation.
//
// # Overview
//
// Candidates are drawn as boxes and locked pairs as arrows from winner to
// loser, labelled with the margin. The overall winner is highlighted.
//
// # Usage
//
// Convert a result to DOT, then render it:
//
//	dot, err := lockgraph.ToDOT(res, lockgraph.Options{Reduce: true})
//	svg, err := lockgraph.RenderSVG(ctx, dot)
//	png, err := lockgraph.RenderPNG(ctx, dot)
//
// # Options
//
//   - ShowSkipped: draw skipped pairs as dashed red edges
//   - Reduce: drop locked edges implied by transitivity (see
//     [transform.TransitiveReduction]), which turns a complete ranking into
//     a single chain
//   - Detailed: full names and ranking positions in node labels
//
// The generated DOT uses top-to-bottom layout (rankdir=TB), so the winner
// sits at the top.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// No Graphviz installation is required.
package lockgraph
