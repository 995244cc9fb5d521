package playback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/tideman/pkg/tideman"
)

// Phase is a stage of the step-through presentation.
type Phase int

const (
	PhaseBallots Phase = iota
	PhaseTally
	PhaseSort
	PhaseLock
	PhaseWinner
)

var phaseNames = [...]string{"ballots", "tally", "sort", "lock", "winner"}

var phaseTitles = [...]string{
	"Voters rank all candidates",
	"Pairwise matchups tallied",
	"Sorted by margin of victory",
	"Locking strongest edges",
	"Winner determined",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Phase(" + strconv.Itoa(int(p)) + ")"
	}
	return phaseNames[p]
}

// Title is the heading shown while the phase plays.
func (p Phase) Title() string {
	if p < 0 || int(p) >= len(phaseTitles) {
		return p.String()
	}
	return phaseTitles[p]
}

// Frame is one step of the presentation. Index fields point into the
// [tideman.Result] the frame was built from and are -1 when they do not
// apply to the frame's phase.
type Frame struct {
	Phase   Phase
	Caption string

	// Step is the 0-based position within the phase; Steps is the number of
	// frames in the phase.
	Step, Steps int

	// Group is the ballot group shown by a PhaseBallots frame.
	Group int

	// A and B are the candidates compared by a PhaseTally frame, A < B.
	A, B int

	// Edge is the index into Result.Edges decided by a PhaseLock frame.
	Edge int
}

// Frames splits a result into the phases of the presentation: one frame per
// ballot group, one per matchup in index order, one for the sorted pair
// list, one per lock decision and one for the winner.
func Frames(res *tideman.Result) []Frame {
	n := len(res.Candidates)
	matchups := n * (n - 1) / 2
	frames := make([]Frame, 0, len(res.Groups)+matchups+len(res.Edges)+2)

	blank := Frame{Group: -1, A: -1, B: -1, Edge: -1}

	for i, g := range res.Groups {
		f := blank
		f.Phase, f.Step, f.Steps, f.Group = PhaseBallots, i, len(res.Groups), i
		label := g.Label
		if label == "" {
			label = fmt.Sprintf("group %d", i+1)
		}
		f.Caption = fmt.Sprintf("%s (%s) rank %s", label, formatWeight(g.Weight), orderString(res, g.Order()))
		frames = append(frames, f)
	}

	step := 0
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			f := blank
			f.Phase, f.Step, f.Steps, f.A, f.B = PhaseTally, step, matchups, a, b
			f.Caption = fmt.Sprintf("%s vs %s: %s to %s",
				res.Label(a), res.Label(b), formatWeight(res.Matrix.At(a, b)), formatWeight(res.Matrix.At(b, a)))
			frames = append(frames, f)
			step++
		}
	}

	sorted := blank
	sorted.Phase, sorted.Steps = PhaseSort, 1
	parts := make([]string, len(res.Pairs))
	for i, p := range res.Pairs {
		parts[i] = fmt.Sprintf("%s→%s +%s", res.Label(p.Winner), res.Label(p.Loser), formatWeight(p.Margin))
	}
	sorted.Caption = strings.Join(parts, ", ")
	if sorted.Caption == "" {
		sorted.Caption = "no matchups"
	}
	frames = append(frames, sorted)

	for i, e := range res.Edges {
		f := blank
		f.Phase, f.Step, f.Steps, f.Edge = PhaseLock, i, len(res.Edges), i
		switch e.Status {
		case tideman.StatusLocked:
			f.Caption = fmt.Sprintf("Lock %s → %s (margin %s)", res.Label(e.Winner), res.Label(e.Loser), formatWeight(e.Margin))
		default:
			f.Caption = fmt.Sprintf("Skip %s → %s (margin %s): would create a cycle", res.Label(e.Winner), res.Label(e.Loser), formatWeight(e.Margin))
		}
		frames = append(frames, f)
	}

	win := blank
	win.Phase, win.Steps = PhaseWinner, 1
	win.Caption = fmt.Sprintf("Winner: %s. Ranking: %s", res.Name(res.Winner), orderString(res, res.Ranking))
	return append(frames, win)
}

func orderString(res *tideman.Result, order []int) string {
	labels := make([]string, len(order))
	for i, c := range order {
		labels[i] = res.Label(c)
	}
	return strings.Join(labels, " > ")
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// Locked returns the indices into Result.Edges that are locked once the
// frames up to and including pos have played.
func Locked(res *tideman.Result, frames []Frame, pos int) []int {
	var out []int
	for i := 0; i <= pos && i < len(frames); i++ {
		f := frames[i]
		if f.Phase == PhaseLock && res.Edges[f.Edge].Status == tideman.StatusLocked {
			out = append(out, f.Edge)
		}
	}
	return out
}
