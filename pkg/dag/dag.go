package dag

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From index
	// is outside 0..NodeCount()-1.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To index
	// is outside 0..NodeCount()-1.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when From == To. A node can
	// never be preferred over itself.
	ErrSelfLoop = errors.New("self loop")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed connection between two node indices.
type Edge struct {
	From int
	To   int
}

// Graph is a directed graph over a fixed set of nodes addressed by index
// 0..n-1. Adjacency is stored in index-addressed slices, so nodes never hold
// references to each other and the structure can be cloned with plain copies.
//
// The node count is fixed at construction. Graph is not safe for concurrent
// mutation; concurrent reads of a graph that is no longer modified are fine.
type Graph struct {
	outgoing [][]int
	incoming [][]int
	edges    []Edge
}

// New creates a graph with n nodes and no edges. A negative n is treated as 0.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{
		outgoing: make([][]int, n),
		incoming: make([][]int, n),
	}
}

// AddEdge adds the directed edge from→to.
// It does not check for cycles; use [Graph.Reachable] before calling it when
// the graph must stay acyclic.
func (g *Graph) AddEdge(from, to int) error {
	if !g.has(from) {
		return ErrUnknownSourceNode
	}
	if !g.has(to) {
		return ErrUnknownTargetNode
	}
	if from == to {
		return ErrSelfLoop
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
// If several parallel edges exist, only the first is removed.
func (g *Graph) RemoveEdge(from, to int) {
	if !g.has(from) || !g.has(to) {
		return
	}
	if i := slices.Index(g.edges, Edge{From: from, To: to}); i >= 0 {
		g.edges = slices.Delete(g.edges, i, i+1)
	}
	if i := slices.Index(g.outgoing[from], to); i >= 0 {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i := slices.Index(g.incoming[to], from); i >= 0 {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// Reachable reports whether to can be reached from from by following edges.
// A node is always reachable from itself. The search is an iterative DFS with
// a visited bitmap, O(N+E).
func (g *Graph) Reachable(from, to int) bool {
	if !g.has(from) || !g.has(to) {
		return false
	}
	visited := make([]bool, len(g.outgoing))
	stack := []int{from}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == to {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, g.outgoing[node]...)
	}
	return false
}

// WouldCycle reports whether adding from→to would close a directed cycle,
// i.e. whether from is already reachable from to.
func (g *Graph) WouldCycle(from, to int) bool {
	return g.Reachable(to, from)
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.outgoing) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns a copy of the targets of the node's outgoing edges in
// insertion order. Returns nil for an unknown node.
func (g *Graph) Children(id int) []int {
	if !g.has(id) {
		return nil
	}
	return slices.Clone(g.outgoing[id])
}

// Parents returns a copy of the sources of the node's incoming edges in
// insertion order. Returns nil for an unknown node.
func (g *Graph) Parents(id int) []int {
	if !g.has(id) {
		return nil
	}
	return slices.Clone(g.incoming[id])
}

// OutDegree returns the number of outgoing edges, or 0 for an unknown node.
func (g *Graph) OutDegree(id int) int {
	if !g.has(id) {
		return 0
	}
	return len(g.outgoing[id])
}

// InDegree returns the number of incoming edges, or 0 for an unknown node.
func (g *Graph) InDegree(id int) int {
	if !g.has(id) {
		return 0
	}
	return len(g.incoming[id])
}

// InDegrees returns the in-degree of every node, indexed by node.
func (g *Graph) InDegrees() []int {
	deg := make([]int, len(g.incoming))
	for i, parents := range g.incoming {
		deg[i] = len(parents)
	}
	return deg
}

// Sources returns the nodes with no incoming edges in ascending index order.
func (g *Graph) Sources() []int {
	var sources []int
	for i, parents := range g.incoming {
		if len(parents) == 0 {
			sources = append(sources, i)
		}
	}
	return sources
}

// Sinks returns the nodes with no outgoing edges in ascending index order.
func (g *Graph) Sinks() []int {
	var sinks []int
	for i, children := range g.outgoing {
		if len(children) == 0 {
			sinks = append(sinks, i)
		}
	}
	return sinks
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		outgoing: make([][]int, len(g.outgoing)),
		incoming: make([][]int, len(g.incoming)),
		edges:    slices.Clone(g.edges),
	}
	for i := range g.outgoing {
		c.outgoing[i] = slices.Clone(g.outgoing[i])
		c.incoming[i] = slices.Clone(g.incoming[i])
	}
	return c
}

// Validate returns ErrGraphHasCycle if the graph contains a directed cycle.
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.outgoing))
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for id := range g.outgoing {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

func (g *Graph) has(id int) bool { return id >= 0 && id < len(g.outgoing) }
