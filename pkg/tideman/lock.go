package tideman

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/tideman/pkg/dag"
)

var (
	// ErrCandidateOutOfRange is returned when a pair or edge names a candidate
	// index outside 0..n-1.
	ErrCandidateOutOfRange = errors.New("candidate index out of range")

	// ErrSelfPair is returned when a pair has the same winner and loser.
	ErrSelfPair = errors.New("pair compares a candidate with itself")

	// ErrDuplicatePair is returned when two pairs cover the same unordered
	// combination of candidates.
	ErrDuplicatePair = errors.New("duplicate pair")
)

// Status is the outcome of offering a pair to the lock graph.
type Status int

const (
	// StatusLocked means the pair became an edge of the graph.
	StatusLocked Status = iota
	// StatusSkipped means locking the pair would have closed a cycle.
	StatusSkipped
)

// String returns "lock" or "skip".
func (s Status) String() string {
	switch s {
	case StatusLocked:
		return "lock"
	case StatusSkipped:
		return "skip"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// LockedEdge is a pair together with its lock decision.
type LockedEdge struct {
	Pair
	Status Status
}

// LockGraph is the result of the lock stage: the ordered lock sequence and
// the acyclic graph formed by the locked edges. Skipped edges are kept in
// Edges for auditing but are not part of the graph.
type LockGraph struct {
	N     int
	Edges []LockedEdge

	graph *dag.Graph
}

// LockPairs offers each pair, in the given order, to a graph over n
// candidates. A pair winner→loser is skipped when winner is already reachable
// from loser through locked edges, and locked otherwise. The graph is
// therefore acyclic by construction.
//
// pairs is normally the output of [ComputePairs]. LockPairs returns an error
// when a pair names an index outside 0..n-1, compares a candidate with
// itself, or repeats a combination already seen.
func LockPairs(n int, pairs []Pair) (*LockGraph, error) {
	if n < 0 {
		return nil, fmt.Errorf("lock pairs: negative candidate count %d", n)
	}
	if err := checkPairs(n, pairs); err != nil {
		return nil, err
	}

	g := dag.New(n)
	edges := make([]LockedEdge, 0, len(pairs))
	for _, p := range pairs {
		if g.WouldCycle(p.Winner, p.Loser) {
			edges = append(edges, LockedEdge{Pair: p, Status: StatusSkipped})
			continue
		}
		if err := g.AddEdge(p.Winner, p.Loser); err != nil {
			return nil, fmt.Errorf("lock %d→%d: %w", p.Winner, p.Loser, err)
		}
		edges = append(edges, LockedEdge{Pair: p, Status: StatusLocked})
	}
	return &LockGraph{N: n, Edges: edges, graph: g}, nil
}

// NewLockGraph rebuilds a lock graph from a previously computed lock
// sequence, for example one read back from an export. The locked subset must
// be acyclic; otherwise the error wraps [dag.ErrGraphHasCycle].
func NewLockGraph(n int, edges []LockedEdge) (*LockGraph, error) {
	if n < 0 {
		return nil, fmt.Errorf("lock graph: negative candidate count %d", n)
	}
	pairs := make([]Pair, len(edges))
	for i, e := range edges {
		pairs[i] = e.Pair
	}
	if err := checkPairs(n, pairs); err != nil {
		return nil, err
	}

	g := dag.New(n)
	for _, e := range edges {
		if e.Status != StatusLocked {
			continue
		}
		if err := g.AddEdge(e.Winner, e.Loser); err != nil {
			return nil, fmt.Errorf("lock %d→%d: %w", e.Winner, e.Loser, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("lock graph: %w", err)
	}
	return &LockGraph{N: n, Edges: slices.Clone(edges), graph: g}, nil
}

func checkPairs(n int, pairs []Pair) error {
	seen := make([]bool, n*n)
	for k, p := range pairs {
		if p.Winner < 0 || p.Winner >= n || p.Loser < 0 || p.Loser >= n {
			return fmt.Errorf("pair %d (%d, %d): %w", k, p.Winner, p.Loser, ErrCandidateOutOfRange)
		}
		if p.Winner == p.Loser {
			return fmt.Errorf("pair %d (%d, %d): %w", k, p.Winner, p.Loser, ErrSelfPair)
		}
		lo, hi := min(p.Winner, p.Loser), max(p.Winner, p.Loser)
		if seen[lo*n+hi] {
			return fmt.Errorf("pair %d (%d, %d): %w", k, p.Winner, p.Loser, ErrDuplicatePair)
		}
		seen[lo*n+hi] = true
	}
	return nil
}

// Locked returns the locked edges in lock order.
func (g *LockGraph) Locked() []LockedEdge {
	var out []LockedEdge
	for _, e := range g.Edges {
		if e.Status == StatusLocked {
			out = append(out, e)
		}
	}
	return out
}

// Skipped returns the skipped edges in lock order.
func (g *LockGraph) Skipped() []LockedEdge {
	var out []LockedEdge
	for _, e := range g.Edges {
		if e.Status == StatusSkipped {
			out = append(out, e)
		}
	}
	return out
}

// Graph returns a copy of the graph of locked edges.
func (g *LockGraph) Graph() *dag.Graph {
	if g.graph == nil {
		return dag.New(g.N)
	}
	return g.graph.Clone()
}

// InDegree returns the number of locked edges pointing at candidate c.
func (g *LockGraph) InDegree(c int) int {
	if g.graph == nil {
		return 0
	}
	return g.graph.InDegree(c)
}
