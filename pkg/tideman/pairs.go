package tideman

import (
	"cmp"
	"math"
	"slices"
)

// tieTolerance is the relative difference below which two matrix entries are
// treated as equal. Fractional weights such as 0.1 + 0.2 and 0.3 do not sum to
// the same float64.
const tieTolerance = 1e-9

// Pair is the majority comparison of two candidates.
type Pair struct {
	Winner     int
	Loser      int
	WinWeight  float64
	LoseWeight float64
	// Margin is WinWeight - LoseWeight, or exactly 0 for a tied pair. It is
	// never negative.
	Margin float64
}

// Tied reports whether the two candidates received equal support.
func (p Pair) Tied() bool { return p.Margin == 0 }

// ComputePairs derives one pair per unordered candidate combination and sorts
// them by margin, largest first.
//
// The side with the larger matrix entry wins. Entries equal up to float64
// rounding are a tie: the higher index is recorded as winner with margin 0.
// Equal margins are ordered by ascending winner index, then ascending loser
// index, so the output is fully determined by the matrix.
func ComputePairs(m Matrix) []Pair {
	n := m.Size()
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ij, ji := m.At(i, j), m.At(j, i)
			var p Pair
			switch {
			case sameWeight(ij, ji):
				p = Pair{Winner: j, Loser: i, WinWeight: ji, LoseWeight: ij}
			case ij > ji:
				p = Pair{Winner: i, Loser: j, WinWeight: ij, LoseWeight: ji, Margin: ij - ji}
			default:
				p = Pair{Winner: j, Loser: i, WinWeight: ji, LoseWeight: ij, Margin: ji - ij}
			}
			pairs = append(pairs, p)
		}
	}
	slices.SortStableFunc(pairs, comparePairs)
	return pairs
}

func comparePairs(a, b Pair) int {
	if c := cmp.Compare(b.Margin, a.Margin); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Winner, b.Winner); c != 0 {
		return c
	}
	return cmp.Compare(a.Loser, b.Loser)
}

func sameWeight(a, b float64) bool {
	return math.Abs(a-b) <= tieTolerance*math.Max(math.Abs(a), math.Abs(b))
}
