package tideman

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/dag"
)

const (
	memphis = iota
	nashville
	chattanooga
	knoxville
)

func TestComputeTally_Tennessee(t *testing.T) {
	m, err := ComputeTally(ballot.Tennessee())
	if err != nil {
		t.Fatalf("ComputeTally() error: %v", err)
	}

	want := [][]float64{
		{0, 42, 42, 42},
		{58, 0, 68, 83},
		{58, 32, 0, 83},
		{58, 17, 17, 0},
	}
	if got := m.Rows(); !slices.EqualFunc(got, want, slices.Equal[[]float64]) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
	if got := m.At(memphis, nashville); got != 42 {
		t.Errorf("At(MEM, NSH) = %v, want 42", got)
	}
	if got := m.At(nashville, memphis); got != 58 {
		t.Errorf("At(NSH, MEM) = %v, want 58", got)
	}
}

func TestComputeTally_InvalidSet(t *testing.T) {
	set := ballot.Tennessee()
	set.Groups[2].Ranking = []int{1, 1, 2, 3}

	_, err := ComputeTally(set)
	var mb *ballot.MalformedBallotError
	if !errors.As(err, &mb) || mb.Group != 2 {
		t.Fatalf("ComputeTally() error = %v, want MalformedBallotError for group 2", err)
	}
}

func TestMatrix_RowsIsCopy(t *testing.T) {
	m, _ := ComputeTally(ballot.Tennessee())
	rows := m.Rows()
	rows[1][0] = 999

	if got := m.At(1, 0); got != 58 {
		t.Errorf("At(1, 0) = %v after mutating Rows(), want 58", got)
	}
	if got := m.At(-1, 9); got != 0 {
		t.Errorf("At(-1, 9) = %v, want 0", got)
	}
}

func TestMatrixFromRows(t *testing.T) {
	if _, err := MatrixFromRows([][]float64{{0, 1}, {1}}); err == nil {
		t.Error("MatrixFromRows(ragged) = nil error, want error")
	}
	if _, err := MatrixFromRows([][]float64{{0, -1}, {1, 0}}); err == nil {
		t.Error("MatrixFromRows(negative) = nil error, want error")
	}

	m, err := MatrixFromRows([][]float64{{7, 3}, {2, 7}})
	if err != nil {
		t.Fatalf("MatrixFromRows() error: %v", err)
	}
	if m.At(0, 0) != 0 || m.At(0, 1) != 3 {
		t.Errorf("Rows() = %v, want diagonal cleared", m.Rows())
	}
}

func TestComputePairs_Tennessee(t *testing.T) {
	m, _ := ComputeTally(ballot.Tennessee())
	got := ComputePairs(m)

	want := []Pair{
		{Winner: nashville, Loser: knoxville, WinWeight: 83, LoseWeight: 17, Margin: 66},
		{Winner: chattanooga, Loser: knoxville, WinWeight: 83, LoseWeight: 17, Margin: 66},
		{Winner: nashville, Loser: chattanooga, WinWeight: 68, LoseWeight: 32, Margin: 36},
		{Winner: nashville, Loser: memphis, WinWeight: 58, LoseWeight: 42, Margin: 16},
		{Winner: chattanooga, Loser: memphis, WinWeight: 58, LoseWeight: 42, Margin: 16},
		{Winner: knoxville, Loser: memphis, WinWeight: 58, LoseWeight: 42, Margin: 16},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ComputePairs() =\n%v\nwant\n%v", got, want)
	}
}

func TestComputePairs_Idempotent(t *testing.T) {
	m, _ := ComputeTally(ballot.Tennessee())
	first := ComputePairs(m)
	second := ComputePairs(m)

	if !slices.Equal(first, second) {
		t.Errorf("ComputePairs() not idempotent:\n%v\n%v", first, second)
	}
}

func TestComputePairs_ExactTie(t *testing.T) {
	m, _ := MatrixFromRows([][]float64{
		{0, 5, 5},
		{5, 0, 8},
		{5, 2, 0},
	})
	got := ComputePairs(m)

	want := []Pair{
		{Winner: 1, Loser: 2, WinWeight: 8, LoseWeight: 2, Margin: 6},
		{Winner: 1, Loser: 0, WinWeight: 5, LoseWeight: 5, Margin: 0},
		{Winner: 2, Loser: 0, WinWeight: 5, LoseWeight: 5, Margin: 0},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ComputePairs() = %v, want %v", got, want)
	}
}

func TestComputePairs_FractionalTie(t *testing.T) {
	// 0.1 + 0.2 sums to 0.30000000000000004 against 0.3.
	set := ballot.Set{
		Candidates: []ballot.Candidate{{Name: "A"}, {Name: "B"}},
		Groups: []ballot.Group{
			{Weight: 0.1, Ranking: []int{1, 2}},
			{Weight: 0.2, Ranking: []int{1, 2}},
			{Weight: 0.3, Ranking: []int{2, 1}},
		},
	}
	res, err := Run(set)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(res.Pairs) != 1 {
		t.Fatalf("Pairs = %v, want one pair", res.Pairs)
	}
	p := res.Pairs[0]
	if !p.Tied() || p.Margin != 0 || p.Winner != 1 || p.Loser != 0 {
		t.Errorf("pair = %+v, want a tie with 1 recorded as winner", p)
	}
	if len(res.TieBreaks) != 1 || res.TieBreaks[0].Kind != TieZeroMargin {
		t.Errorf("TieBreaks = %v, want one zero_margin", res.TieBreaks)
	}

	// A real difference well above rounding is still a win.
	m, _ := MatrixFromRows([][]float64{{0, 0.3000001}, {0.3, 0}})
	if got := ComputePairs(m)[0]; got.Tied() || got.Winner != 0 {
		t.Errorf("ComputePairs() = %+v, want 0 to win with a positive margin", got)
	}
}

func TestRun_Tennessee(t *testing.T) {
	res, err := Run(ballot.Tennessee())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Winner != nashville {
		t.Errorf("Winner = %d (%s), want Nashville", res.Winner, res.Name(res.Winner))
	}
	wantRanking := []int{nashville, chattanooga, knoxville, memphis}
	if !slices.Equal(res.Ranking, wantRanking) {
		t.Errorf("Ranking = %v, want %v", res.Ranking, wantRanking)
	}
	if res.TotalWeight != 100 {
		t.Errorf("TotalWeight = %v, want 100", res.TotalWeight)
	}

	var margins []float64
	for _, e := range res.Edges {
		if e.Status != StatusLocked {
			t.Errorf("edge %d→%d status = %v, want lock", e.Winner, e.Loser, e.Status)
		}
		margins = append(margins, e.Margin)
	}
	if want := []float64{66, 66, 36, 16, 16, 16}; !slices.Equal(margins, want) {
		t.Errorf("margins = %v, want %v", margins, want)
	}

	var kinds []TieKind
	for _, tb := range res.TieBreaks {
		kinds = append(kinds, tb.Kind)
	}
	if want := []TieKind{TieEqualMargin, TieEqualMargin}; !slices.Equal(kinds, want) {
		t.Errorf("TieBreaks kinds = %v, want %v", kinds, want)
	}
}

func TestRun_SingleCandidate(t *testing.T) {
	set := ballot.Set{
		Candidates: []ballot.Candidate{{Name: "Solo"}},
		Groups:     []ballot.Group{{Weight: 3, Ranking: []int{1}}},
	}
	res, err := Run(set)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Winner != 0 {
		t.Errorf("Winner = %d, want 0", res.Winner)
	}
	if !slices.Equal(res.Ranking, []int{0}) {
		t.Errorf("Ranking = %v, want [0]", res.Ranking)
	}
	if len(res.Pairs) != 0 || len(res.Edges) != 0 || len(res.TieBreaks) != 0 {
		t.Errorf("Pairs = %v, Edges = %v, TieBreaks = %v, want all empty", res.Pairs, res.Edges, res.TieBreaks)
	}
}

func TestRun_TwoCandidateTie(t *testing.T) {
	set := ballot.Set{
		Candidates: []ballot.Candidate{{Name: "A"}, {Name: "B"}},
		Groups: []ballot.Group{
			{Weight: 10, Ranking: []int{1, 2}},
			{Weight: 10, Ranking: []int{2, 1}},
		},
	}
	res, err := Run(set)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := LockedEdge{Pair: Pair{Winner: 1, Loser: 0, WinWeight: 10, LoseWeight: 10, Margin: 0}, Status: StatusLocked}
	if len(res.Edges) != 1 || res.Edges[0] != want {
		t.Fatalf("Edges = %v, want [%v]", res.Edges, want)
	}
	if res.Winner != 1 || !slices.Equal(res.Ranking, []int{1, 0}) {
		t.Errorf("Winner = %d, Ranking = %v, want 1, [1 0]", res.Winner, res.Ranking)
	}
	if len(res.TieBreaks) != 1 || res.TieBreaks[0].Kind != TieZeroMargin {
		t.Fatalf("TieBreaks = %v, want one zero_margin", res.TieBreaks)
	}
	if !slices.Equal(res.TieBreaks[0].Candidates, []int{1, 0}) {
		t.Errorf("TieBreaks[0].Candidates = %v, want [1 0]", res.TieBreaks[0].Candidates)
	}
}

func TestRun_CondorcetCycle(t *testing.T) {
	// A>B 65-35, B>C 75-25, C>A 60-40: the weakest link C→A is skipped.
	set := ballot.Set{
		Candidates: []ballot.Candidate{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		Groups: []ballot.Group{
			{Weight: 40, Ranking: []int{1, 2, 3}},
			{Weight: 35, Ranking: []int{3, 1, 2}},
			{Weight: 25, Ranking: []int{2, 3, 1}},
		},
	}
	res, err := Run(set)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []LockedEdge{
		{Pair: Pair{Winner: 1, Loser: 2, WinWeight: 75, LoseWeight: 25, Margin: 50}, Status: StatusLocked},
		{Pair: Pair{Winner: 0, Loser: 1, WinWeight: 65, LoseWeight: 35, Margin: 30}, Status: StatusLocked},
		{Pair: Pair{Winner: 2, Loser: 0, WinWeight: 60, LoseWeight: 40, Margin: 20}, Status: StatusSkipped},
	}
	if !slices.Equal(res.Edges, want) {
		t.Errorf("Edges = %v, want %v", res.Edges, want)
	}
	if !slices.Equal(res.Ranking, []int{0, 1, 2}) {
		t.Errorf("Ranking = %v, want [0 1 2]", res.Ranking)
	}
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(ballot.Set{Candidates: []ballot.Candidate{{Name: "A"}}})
	if !errors.Is(err, ballot.ErrEmptyElectorate) {
		t.Errorf("Run(no groups) error = %v, want ErrEmptyElectorate", err)
	}

	set := ballot.Tennessee()
	set.Groups[0].Weight = -1
	_, err = Run(set)
	var iw *ballot.InvalidWeightError
	if !errors.As(err, &iw) {
		t.Errorf("Run(negative weight) error = %v, want InvalidWeightError", err)
	}
}

func TestRun_DoesNotAliasInput(t *testing.T) {
	set := ballot.Tennessee()
	res, _ := Run(set)
	set.Groups[0].Ranking[0] = 4

	if res.Groups[0].Ranking[0] != 1 {
		t.Error("Result shares ranking memory with the input set")
	}
}

func TestLockPairs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		pairs []Pair
		want  error
	}{
		{"out of range", []Pair{{Winner: 0, Loser: 3}}, ErrCandidateOutOfRange},
		{"negative", []Pair{{Winner: -1, Loser: 0}}, ErrCandidateOutOfRange},
		{"self", []Pair{{Winner: 1, Loser: 1}}, ErrSelfPair},
		{"duplicate", []Pair{{Winner: 0, Loser: 1}, {Winner: 1, Loser: 0}}, ErrDuplicatePair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LockPairs(3, tt.pairs); !errors.Is(err, tt.want) {
				t.Errorf("LockPairs() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewLockGraph_RejectsCycle(t *testing.T) {
	edges := []LockedEdge{
		{Pair: Pair{Winner: 0, Loser: 1}, Status: StatusLocked},
		{Pair: Pair{Winner: 1, Loser: 2}, Status: StatusLocked},
		{Pair: Pair{Winner: 2, Loser: 0}, Status: StatusLocked},
	}
	if _, err := NewLockGraph(3, edges); !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("NewLockGraph() error = %v, want ErrGraphHasCycle", err)
	}

	edges[2].Status = StatusSkipped
	g, err := NewLockGraph(3, edges)
	if err != nil {
		t.Fatalf("NewLockGraph() error: %v", err)
	}
	if len(g.Locked()) != 2 || len(g.Skipped()) != 1 {
		t.Errorf("Locked() = %v, Skipped() = %v", g.Locked(), g.Skipped())
	}
}

func TestResult_LockGraphRoundTrip(t *testing.T) {
	res, _ := Run(ballot.Tennessee())
	g, err := res.LockGraph()
	if err != nil {
		t.Fatalf("LockGraph() error: %v", err)
	}

	out := ExtractResult(g)
	if out.Winner != res.Winner || !slices.Equal(out.Ranking, res.Ranking) {
		t.Errorf("ExtractResult() = %v, want winner %d ranking %v", out, res.Winner, res.Ranking)
	}
	if got := res.Position(memphis); got != 4 {
		t.Errorf("Position(MEM) = %d, want 4", got)
	}
}

func TestExtractResult_MultipleWinners(t *testing.T) {
	g, err := LockPairs(4, []Pair{{Winner: 0, Loser: 1}, {Winner: 2, Loser: 3}})
	if err != nil {
		t.Fatalf("LockPairs() error: %v", err)
	}
	out := ExtractResult(g)

	if out.Winner != 0 {
		t.Errorf("Winner = %d, want 0", out.Winner)
	}
	if want := []int{0, 2, 1, 3}; !slices.Equal(out.Ranking, want) {
		t.Errorf("Ranking = %v, want %v", out.Ranking, want)
	}

	want := []TieBreak{
		{Kind: TieMultipleWinners, Candidates: []int{0, 2}},
		{Kind: TieTopological, Candidates: []int{2, 1}},
		{Kind: TieTopological, Candidates: []int{1, 3}},
	}
	if len(out.TieBreaks) != len(want) {
		t.Fatalf("TieBreaks = %v, want %d entries", out.TieBreaks, len(want))
	}
	for i, tb := range out.TieBreaks {
		if tb.Kind != want[i].Kind || !slices.Equal(tb.Candidates, want[i].Candidates) {
			t.Errorf("TieBreaks[%d] = %v, want %v %v", i, tb, want[i].Kind, want[i].Candidates)
		}
	}
}

func TestExtractResult_Empty(t *testing.T) {
	if out := ExtractResult(nil); out.Winner != -1 || len(out.Ranking) != 0 {
		t.Errorf("ExtractResult(nil) = %v, want winner -1", out)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusLocked, "lock"},
		{StatusSkipped, "skip"},
		{Status(9), "Status(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
