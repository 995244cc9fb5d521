package lockgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tideman/pkg/dag"
	"github.com/matzehuels/tideman/pkg/dag/transform"
	"github.com/matzehuels/tideman/pkg/tideman"
)

// Options configures lock graph rendering.
type Options struct {
	// ShowSkipped draws skipped pairs as dashed red edges that do not affect
	// the layout.
	ShowSkipped bool

	// Reduce removes locked edges implied by transitivity, leaving the
	// Hasse diagram of the social ranking. Skipped edges are unaffected.
	Reduce bool

	// Detailed adds the full name and ranking position to node labels.
	// When false, only the short label is shown.
	Detailed bool
}

const winnerFill = "#ffd54f"

// ToDOT converts the lock graph of a result to Graphviz DOT.
// Candidates are nodes in index order, the winner highlighted; locked edges
// are drawn in lock order and labelled with their margin. A result whose
// edges do not form a valid lock graph is an error.
func ToDOT(res *tideman.Result, opts Options) (string, error) {
	keep, err := lockedEdges(res, opts.Reduce)
	if err != nil {
		return "", fmt.Errorf("lock graph: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph lockgraph {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=18];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range res.Candidates {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(res, i, opts.Detailed))}
		if i == res.Winner {
			attrs = append(attrs, "fillcolor=\""+winnerFill+"\"", "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, e := range res.Edges {
		margin := strconv.FormatFloat(e.Margin, 'f', -1, 64)
		switch {
		case e.Status == tideman.StatusLocked && keep[i]:
			fmt.Fprintf(&buf, "  %s -> %s [label=%q];\n", nodeID(e.Winner), nodeID(e.Loser), margin)
		case e.Status == tideman.StatusSkipped && opts.ShowSkipped:
			fmt.Fprintf(&buf, "  %s -> %s [label=%q, style=dashed, color=red, fontcolor=red, constraint=false];\n",
				nodeID(e.Winner), nodeID(e.Loser), margin)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeID(i int) string { return "c" + strconv.Itoa(i) }

func fmtLabel(res *tideman.Result, i int, detailed bool) string {
	if !detailed {
		return res.Label(i)
	}
	label := res.Name(i)
	if short := res.Label(i); short != label {
		label += " (" + short + ")"
	}
	if pos := res.Position(i); pos > 0 {
		label += "\nrank " + strconv.Itoa(pos)
	}
	return label
}

// lockedEdges marks the indices of Result.Edges to draw as locked.
func lockedEdges(res *tideman.Result, reduce bool) ([]bool, error) {
	lg, err := res.LockGraph()
	if err != nil {
		return nil, err
	}
	keep := make([]bool, len(res.Edges))
	for i, e := range res.Edges {
		keep[i] = e.Status == tideman.StatusLocked
	}
	if !reduce {
		return keep, nil
	}

	g := lg.Graph()
	transform.TransitiveReduction(g)
	remaining := make(map[dag.Edge]bool, g.EdgeCount())
	for _, e := range g.Edges() {
		remaining[e] = true
	}
	for i, e := range res.Edges {
		keep[i] = keep[i] && remaining[dag.Edge{From: e.Winner, To: e.Loser}]
	}
	return keep, nil
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
