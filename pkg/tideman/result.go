package tideman

import (
	"cmp"
	"fmt"
	"slices"
)

// Outcome is the winner and social ranking read from a lock graph.
type Outcome struct {
	// Winner is the first candidate of Ranking, or -1 for an empty graph.
	Winner int
	// Ranking lists every candidate once, most preferred first.
	Ranking   []int
	TieBreaks []TieBreak
}

// ExtractResult reads the winner and the full ranking from a finished lock
// graph.
//
// The ranking is a topological order of the locked edges (Kahn's algorithm).
// When several candidates are eligible at once, the one with the lowest
// in-degree in the finished graph goes first, then the lowest index. The
// winner is the first candidate of the ranking. If more than one candidate
// has no incoming edge a [TieMultipleWinners] tie-break is recorded; later
// eligible-set ties record [TieTopological].
func ExtractResult(g *LockGraph) Outcome {
	if g == nil || g.N == 0 {
		return Outcome{Winner: -1}
	}

	dg := g.Graph()
	final := dg.InDegrees()
	remaining := slices.Clone(final)
	placed := make([]bool, g.N)

	byFinalDegree := func(a, b int) int {
		if c := cmp.Compare(final[a], final[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}

	out := Outcome{Ranking: make([]int, 0, g.N)}
	for pos := 0; pos < g.N; pos++ {
		var eligible []int
		for c := 0; c < g.N; c++ {
			if !placed[c] && remaining[c] == 0 {
				eligible = append(eligible, c)
			}
		}
		if len(eligible) == 0 {
			// Unreachable for graphs built by LockPairs or NewLockGraph.
			break
		}
		slices.SortFunc(eligible, byFinalDegree)

		if len(eligible) > 1 {
			kind, detail := TieTopological, fmt.Sprintf("%d candidates eligible at position %d; %d placed first", len(eligible), pos+1, eligible[0])
			if pos == 0 {
				kind, detail = TieMultipleWinners, fmt.Sprintf("%d candidates have no incoming edge; %d chosen as winner", len(eligible), eligible[0])
			}
			out.TieBreaks = append(out.TieBreaks, TieBreak{Kind: kind, Candidates: eligible, Detail: detail})
		}

		next := eligible[0]
		placed[next] = true
		out.Ranking = append(out.Ranking, next)
		for _, child := range dg.Children(next) {
			remaining[child]--
		}
	}

	out.Winner = out.Ranking[0]
	return out
}
