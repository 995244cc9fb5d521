package tideman

import (
	"fmt"
	"strings"
)

// TieKind classifies a deterministic tie-break applied during tabulation.
type TieKind string

const (
	// TieZeroMargin: two candidates received equal support and the higher
	// index was recorded as the winner of the pair.
	TieZeroMargin TieKind = "zero_margin"
	// TieEqualMargin: several pairs share a positive margin and the index
	// rule fixed the order in which they were locked.
	TieEqualMargin TieKind = "equal_margin"
	// TieTopological: several candidates were eligible at the same position
	// of the ranking.
	TieTopological TieKind = "topological"
	// TieMultipleWinners: the lock graph has more than one candidate with no
	// incoming edge.
	TieMultipleWinners TieKind = "multiple_winners"
)

// TieBreak records one application of a deterministic tie-break rule. Tie
// breaks never abort a run; they are reported so results can be audited.
type TieBreak struct {
	Kind TieKind
	// Candidates are the candidates involved, in the order the rule put them.
	Candidates []int
	Detail     string
}

func (t TieBreak) String() string {
	return fmt.Sprintf("%s %v: %s", t.Kind, t.Candidates, t.Detail)
}

// PairTieBreaks reports the tie-breaks implied by a sorted pair list: one
// TieZeroMargin per tied pair, and one TieEqualMargin per run of two or more
// consecutive pairs sharing a positive margin.
func PairTieBreaks(pairs []Pair) []TieBreak {
	var ties []TieBreak
	for _, p := range pairs {
		if p.Tied() {
			ties = append(ties, TieBreak{
				Kind:       TieZeroMargin,
				Candidates: []int{p.Winner, p.Loser},
				Detail:     fmt.Sprintf("%d and %d tie at %v; higher index %d recorded as winner", p.Loser, p.Winner, p.WinWeight, p.Winner),
			})
		}
	}

	for start := 0; start < len(pairs); {
		end := start + 1
		for end < len(pairs) && pairs[end].Margin == pairs[start].Margin {
			end++
		}
		if run := pairs[start:end]; len(run) > 1 && run[0].Margin > 0 {
			ties = append(ties, equalMarginTie(run))
		}
		start = end
	}
	return ties
}

func equalMarginTie(run []Pair) TieBreak {
	var (
		cands []int
		seen  = map[int]bool{}
		names = make([]string, len(run))
	)
	for i, p := range run {
		for _, c := range []int{p.Winner, p.Loser} {
			if !seen[c] {
				seen[c] = true
				cands = append(cands, c)
			}
		}
		names[i] = fmt.Sprintf("%d→%d", p.Winner, p.Loser)
	}
	return TieBreak{
		Kind:       TieEqualMargin,
		Candidates: cands,
		Detail:     fmt.Sprintf("pairs %s share margin %v", strings.Join(names, ", "), run[0].Margin),
	}
}
