package ballot

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Candidate is a contestant. Its position in [Set.Candidates] is its stable
// index for the whole run; Name and Short are display labels only.
type Candidate struct {
	Name  string
	Short string
}

// Group is a block of identical ballots.
//
// Ranking[c] is the rank given to candidate c, where 1 is the most
// preferred. A valid ranking is a permutation of 1..N with no ties.
type Group struct {
	Label   string
	Weight  float64
	Ranking []int
}

// Prefers reports whether the group ranks candidate a ahead of candidate b.
func (g Group) Prefers(a, b int) bool {
	return g.Ranking[a] < g.Ranking[b]
}

// Order returns the candidate indices from most to least preferred.
// It assumes the ranking is valid.
func (g Group) Order() []int {
	order := make([]int, len(g.Ranking))
	for c, rank := range g.Ranking {
		order[rank-1] = c
	}
	return order
}

// Set is the validated input of a tabulation: a fixed candidate list and the
// weighted ballot groups cast over it. A Set is treated as immutable once it
// is handed to the engine.
type Set struct {
	Title      string
	Candidates []Candidate
	Groups     []Group
}

// N returns the number of candidates.
func (s Set) N() int { return len(s.Candidates) }

// TotalWeight returns the sum of all group weights.
func (s Set) TotalWeight() float64 {
	var total float64
	for _, g := range s.Groups {
		total += g.Weight
	}
	return total
}

// Label returns the short label of candidate i, falling back to its name and
// then to "#i".
func (s Set) Label(i int) string {
	if i < 0 || i >= len(s.Candidates) {
		return "#" + strconv.Itoa(i)
	}
	if c := s.Candidates[i]; c.Short != "" {
		return c.Short
	} else if c.Name != "" {
		return c.Name
	}
	return "#" + strconv.Itoa(i)
}

// Name returns the full name of candidate i, falling back to [Set.Label].
func (s Set) Name(i int) string {
	if i >= 0 && i < len(s.Candidates) && s.Candidates[i].Name != "" {
		return s.Candidates[i].Name
	}
	return s.Label(i)
}

// Validate checks the set and returns the first problem found:
//
//   - *MalformedBallotError when there are no candidates or a ranking is not
//     a permutation of 1..N
//   - *InvalidWeightError when a weight is not positive and finite
//   - ErrEmptyElectorate when there are no groups or the total weight is zero
//
// Groups are checked in order, so the reported group is the first bad one.
func (s Set) Validate() error {
	n := s.N()
	if n == 0 {
		return &MalformedBallotError{Group: -1, Reason: "no candidates"}
	}
	if len(s.Groups) == 0 {
		return ErrEmptyElectorate
	}

	seen := make([]bool, n+1)
	for i, g := range s.Groups {
		if !validWeight(g.Weight) {
			return &InvalidWeightError{Group: i, Weight: g.Weight}
		}
		if err := checkRanking(g.Ranking, n, seen); err != "" {
			return &MalformedBallotError{Group: i, Reason: err}
		}
	}

	total := s.TotalWeight()
	if math.IsInf(total, 0) {
		return &InvalidWeightError{Group: -1, Weight: total}
	}
	if total <= 0 {
		return ErrEmptyElectorate
	}
	return nil
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// checkRanking returns an empty string when ranking is a permutation of
// 1..n. seen is scratch space of length n+1, reset on every call.
func checkRanking(ranking []int, n int, seen []bool) string {
	if len(ranking) != n {
		return fmt.Sprintf("ranking has %d entries, want %d", len(ranking), n)
	}
	clear(seen)
	for c, rank := range ranking {
		if rank < 1 || rank > n {
			return fmt.Sprintf("candidate %d has rank %d outside 1..%d", c, rank, n)
		}
		if seen[rank] {
			return fmt.Sprintf("rank %d is used more than once", rank)
		}
		seen[rank] = true
	}
	return ""
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	c := Set{
		Title:      s.Title,
		Candidates: slices.Clone(s.Candidates),
		Groups:     make([]Group, len(s.Groups)),
	}
	for i, g := range s.Groups {
		g.Ranking = slices.Clone(g.Ranking)
		c.Groups[i] = g
	}
	return c
}
