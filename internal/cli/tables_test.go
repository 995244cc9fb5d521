package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/pipeline"
	"github.com/matzehuels/tideman/pkg/tideman"
)

func tabulate(t *testing.T, set ballot.Set) *tideman.Result {
	t.Helper()
	res, err := pipeline.NewRunner(nil, nil, nil).Tabulate(context.Background(), set)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestFormatWeight(t *testing.T) {
	tests := map[float64]string{42: "42", 0.5: "0.5", 12.25: "12.25"}
	for in, want := range tests {
		if got := formatWeight(in); got != want {
			t.Errorf("formatWeight(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMatrixTable(t *testing.T) {
	out := matrixTable(tabulate(t, ballot.Tennessee()))
	for _, want := range []string{"MEM", "NSH", "CHA", "KNX", "58", "83"} {
		if !strings.Contains(out, want) {
			t.Errorf("matrixTable missing %q\n%s", want, out)
		}
	}
}

func TestLockTable(t *testing.T) {
	out := lockTable(tabulate(t, cycleSet()))
	for _, want := range []string{"B → C", "A → B", "C → A", "lock", "skip", "Margin"} {
		if !strings.Contains(out, want) {
			t.Errorf("lockTable missing %q\n%s", want, out)
		}
	}
}

func TestRankingTable(t *testing.T) {
	out := rankingTable(tabulate(t, ballot.Tennessee()))
	lines := strings.Split(out, "\n")
	var order []string
	for _, l := range lines {
		for _, name := range []string{"Nashville", "Chattanooga", "Knoxville", "Memphis"} {
			if strings.Contains(l, name) {
				order = append(order, name)
			}
		}
	}
	want := []string{"Nashville", "Chattanooga", "Knoxville", "Memphis"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("rankingTable order = %v, want %v", order, want)
	}
}

func TestTieBreakLines(t *testing.T) {
	if lines := tieBreakLines(tabulate(t, ballot.Tennessee())); len(lines) == 0 {
		t.Error("Tennessee has equal margins and should report tie-breaks")
	}

	tied := ballot.Set{
		Candidates: []ballot.Candidate{{Name: "A"}, {Name: "B"}},
		Groups: []ballot.Group{
			{Weight: 1, Ranking: []int{1, 2}},
			{Weight: 1, Ranking: []int{2, 1}},
		},
	}
	if lines := tieBreakLines(tabulate(t, tied)); len(lines) == 0 {
		t.Error("an exact tie should report a tie-break")
	}
}
