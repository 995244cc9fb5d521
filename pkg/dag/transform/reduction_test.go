package transform

import (
	"testing"

	"github.com/matzehuels/tideman/pkg/dag"
)

func TestTransitiveReduction_Chain(t *testing.T) {
	g := dag.New(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)

	removed := TransitiveReduction(g)

	if removed != 0 {
		t.Errorf("TransitiveReduction() removed %d edges, want 0", removed)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestTransitiveReduction_Tournament(t *testing.T) {
	// Complete transitive tournament over 4 nodes: 6 edges reduce to a chain of 3.
	g := dag.New(4)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			g.AddEdge(i, j)
		}
	}

	removed := TransitiveReduction(g)

	if removed != 3 {
		t.Errorf("TransitiveReduction() removed %d edges, want 3", removed)
	}
	want := []dag.Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}}
	got := g.Edges()
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Edges()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTransitiveReduction_DiamondKeepsAll(t *testing.T) {
	//   0
	//  / \
	// 1   2
	//  \ /
	//   3
	g := dag.New(4)
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)

	if removed := TransitiveReduction(g); removed != 0 {
		t.Errorf("TransitiveReduction() removed %d edges, want 0", removed)
	}
}

func TestTransitiveReduction_PreservesReachability(t *testing.T) {
	g := dag.New(5)
	g.AddEdge(0, 1)
	g.AddEdge(0, 3)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)
	g.AddEdge(0, 4)
	g.AddEdge(3, 4)
	before := g.Clone()

	TransitiveReduction(g)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if before.Reachable(i, j) != g.Reachable(i, j) {
				t.Errorf("Reachable(%d, %d) changed after reduction", i, j)
			}
		}
	}
}

func TestTransitiveReduction_EmptyGraph(t *testing.T) {
	if removed := TransitiveReduction(dag.New(0)); removed != 0 {
		t.Errorf("TransitiveReduction() removed %d edges, want 0", removed)
	}
}
