package transform

import "github.com/matzehuels/tideman/pkg/dag"

// TransitiveReduction removes redundant edges from the graph and returns the
// number of edges removed.
//
// An edge (u, v) is redundant when u reaches v through at least one
// intermediate node. For a lock graph whose closure is a total order the
// result is the chain winner → runner-up → ... → last place, which is much
// easier to read than the full set of locked pairs.
//
// # Algorithm
//
// TransitiveReduction computes full reachability with one DFS per node, then
// removes any edge (u, v) where u has another child w that reaches v.
//
// # Performance
//
// Time complexity is O(V·(V+E)) and space is O(V²) for the reachability
// matrix. Candidate counts are small, so neither matters in practice.
//
// TransitiveReduction assumes g is acyclic.
func TransitiveReduction(g *dag.Graph) int {
	n := g.NodeCount()
	if n == 0 {
		return 0
	}

	adjacency := make([][]int, n)
	for i := range adjacency {
		adjacency[i] = g.Children(i)
	}
	reachability := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		for _, intermediate := range adjacency[e.From] {
			if intermediate != e.To && reachability[intermediate][e.To] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
