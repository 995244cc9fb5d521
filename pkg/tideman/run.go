package tideman

import (
	"fmt"
	"slices"

	"github.com/matzehuels/tideman/pkg/ballot"
)

// Result is the staged output of one tabulation. Every intermediate structure
// is kept so a presentation layer can replay the procedure step by step.
type Result struct {
	Title       string
	Candidates  []ballot.Candidate
	Groups      []ballot.Group
	TotalWeight float64
	Matrix      Matrix
	// Pairs is the margin-sorted pair list.
	Pairs []Pair
	// Edges is the lock sequence: Pairs in the same order with their lock
	// decisions.
	Edges     []LockedEdge
	Winner    int
	Ranking   []int
	TieBreaks []TieBreak
}

// Run tabulates set with the Ranked Pairs method.
//
// The set is validated before any stage runs; on error no partial result is
// returned. Run is deterministic and keeps no state between calls, so it is
// safe to call concurrently.
func Run(set ballot.Set) (*Result, error) {
	m, err := ComputeTally(set)
	if err != nil {
		return nil, err
	}
	pairs := ComputePairs(m)
	lg, err := LockPairs(set.N(), pairs)
	if err != nil {
		return nil, fmt.Errorf("lock pairs: %w", err)
	}
	out := ExtractResult(lg)

	clone := set.Clone()
	return &Result{
		Title:       clone.Title,
		Candidates:  clone.Candidates,
		Groups:      clone.Groups,
		TotalWeight: set.TotalWeight(),
		Matrix:      m,
		Pairs:       pairs,
		Edges:       lg.Edges,
		Winner:      out.Winner,
		Ranking:     out.Ranking,
		TieBreaks:   append(PairTieBreaks(pairs), out.TieBreaks...),
	}, nil
}

// Set returns the ballot set the result was computed from.
func (r *Result) Set() ballot.Set {
	return ballot.Set{Title: r.Title, Candidates: r.Candidates, Groups: r.Groups}.Clone()
}

// Label returns the display label of candidate i.
func (r *Result) Label(i int) string {
	return ballot.Set{Candidates: r.Candidates}.Label(i)
}

// Name returns the full name of candidate i.
func (r *Result) Name(i int) string {
	return ballot.Set{Candidates: r.Candidates}.Name(i)
}

// LockGraph rebuilds the lock graph of the result.
func (r *Result) LockGraph() (*LockGraph, error) {
	return NewLockGraph(len(r.Candidates), r.Edges)
}

// Position returns the 1-based position of candidate c in the ranking, or 0
// when c is not ranked.
func (r *Result) Position(c int) int {
	return slices.Index(r.Ranking, c) + 1
}
