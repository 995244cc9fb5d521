package lockgraph

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/tideman"
)

func tennessee(t *testing.T) *tideman.Result {
	t.Helper()
	res, err := tideman.Run(ballot.Tennessee())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res
}

func cycle(t *testing.T) *tideman.Result {
	t.Helper()
	res, err := tideman.Run(ballot.Set{
		Candidates: []ballot.Candidate{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		Groups: []ballot.Group{
			{Weight: 40, Ranking: []int{1, 2, 3}},
			{Weight: 35, Ranking: []int{3, 1, 2}},
			{Weight: 25, Ranking: []int{2, 3, 1}},
		},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res
}

func toDOT(t *testing.T, res *tideman.Result, opts Options) string {
	t.Helper()
	dot, err := ToDOT(res, opts)
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	return dot
}

func TestToDOT(t *testing.T) {
	dot := toDOT(t, tennessee(t), Options{})

	for _, want := range []string{
		`c1 [label="NSH", fillcolor="#ffd54f", penwidth=3];`,
		`c0 [label="MEM"];`,
		`c1 -> c3 [label="66"];`,
		`c3 -> c0 [label="16"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 6 {
		t.Errorf("ToDOT() has %d edges, want 6", got)
	}
}

func TestToDOT_Reduce(t *testing.T) {
	dot := toDOT(t, tennessee(t), Options{Reduce: true})

	for _, want := range []string{`c1 -> c2`, `c2 -> c3`, `c3 -> c0`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT(Reduce) missing %s", want)
		}
	}
	if got := strings.Count(dot, "->"); got != 3 {
		t.Errorf("ToDOT(Reduce) has %d edges, want 3\n%s", got, dot)
	}
}

func TestToDOT_Skipped(t *testing.T) {
	res := cycle(t)

	if dot := toDOT(t, res, Options{}); strings.Contains(dot, "c2 -> c0") {
		t.Error("ToDOT() draws skipped edge without ShowSkipped")
	}
	dot := toDOT(t, res, Options{ShowSkipped: true})
	if !strings.Contains(dot, `c2 -> c0 [label="20", style=dashed, color=red`) {
		t.Errorf("ToDOT(ShowSkipped) missing dashed edge\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := toDOT(t, tennessee(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="Nashville (NSH)\nrank 1"`) {
		t.Errorf("ToDOT(Detailed) missing detailed label\n%s", dot)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	opts := Options{ShowSkipped: true, Reduce: true}
	if toDOT(t, cycle(t), opts) != toDOT(t, cycle(t), opts) {
		t.Error("ToDOT() output differs between identical results")
	}
}

func TestToDOT_InvalidEdges(t *testing.T) {
	tests := []struct {
		name  string
		edges []tideman.LockedEdge
	}{
		{"out of range", []tideman.LockedEdge{{Pair: tideman.Pair{Winner: 0, Loser: 7}, Status: tideman.StatusLocked}}},
		{"self pair", []tideman.LockedEdge{{Pair: tideman.Pair{Winner: 1, Loser: 1}, Status: tideman.StatusLocked}}},
		{"locked cycle", []tideman.LockedEdge{
			{Pair: tideman.Pair{Winner: 0, Loser: 1}, Status: tideman.StatusLocked},
			{Pair: tideman.Pair{Winner: 1, Loser: 2}, Status: tideman.StatusLocked},
			{Pair: tideman.Pair{Winner: 2, Loser: 0}, Status: tideman.StatusLocked},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := cycle(t)
			res.Edges = tt.edges
			if _, err := ToDOT(res, Options{}); err == nil {
				t.Error("ToDOT() should reject edges that are not a lock graph")
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), toDOT(t, tennessee(t), Options{Reduce: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("RenderSVG() did not normalize the svg tag:\n%.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.40 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
