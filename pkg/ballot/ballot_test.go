package ballot

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func twoCandidates() []Candidate {
	return []Candidate{{Name: "Alpha"}, {Name: "Beta", Short: "B"}}
}

func TestValidate_Tennessee(t *testing.T) {
	if err := Tennessee().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		set       Set
		wantGroup int
		check     func(error) bool
	}{
		{
			name:      "no candidates",
			set:       Set{Groups: []Group{{Weight: 1, Ranking: nil}}},
			wantGroup: -1,
			check:     isMalformed,
		},
		{
			name:  "no groups",
			set:   Set{Candidates: twoCandidates()},
			check: func(err error) bool { return errors.Is(err, ErrEmptyElectorate) },
		},
		{
			name: "short ranking",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: 1, Ranking: []int{1}},
			}},
			check: isMalformed,
		},
		{
			name: "duplicate rank",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: 1, Ranking: []int{1, 2}},
				{Weight: 1, Ranking: []int{1, 1}},
			}},
			wantGroup: 1,
			check:     isMalformed,
		},
		{
			name: "rank out of range",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: 1, Ranking: []int{0, 1}},
			}},
			check: isMalformed,
		},
		{
			name: "zero weight",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: 0, Ranking: []int{1, 2}},
			}},
			check: isInvalidWeight,
		},
		{
			name: "negative weight",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: 2, Ranking: []int{1, 2}},
				{Weight: -3, Ranking: []int{2, 1}},
			}},
			wantGroup: 1,
			check:     isInvalidWeight,
		},
		{
			name: "NaN weight",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: math.NaN(), Ranking: []int{1, 2}},
			}},
			check: isInvalidWeight,
		},
		{
			name: "infinite weight",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: math.Inf(1), Ranking: []int{1, 2}},
			}},
			check: isInvalidWeight,
		},
		{
			name: "total overflows",
			set: Set{Candidates: twoCandidates(), Groups: []Group{
				{Weight: math.MaxFloat64, Ranking: []int{1, 2}},
				{Weight: math.MaxFloat64, Ranking: []int{2, 1}},
			}},
			wantGroup: -1,
			check:     isInvalidWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !tt.check(err) {
				t.Fatalf("Validate() = %T %v, unexpected error type", err, err)
			}
			var mb *MalformedBallotError
			var iw *InvalidWeightError
			switch {
			case errors.As(err, &mb):
				if mb.Group != tt.wantGroup {
					t.Errorf("Group = %d, want %d", mb.Group, tt.wantGroup)
				}
			case errors.As(err, &iw):
				if iw.Group != tt.wantGroup {
					t.Errorf("Group = %d, want %d", iw.Group, tt.wantGroup)
				}
			}
		})
	}
}

func isMalformed(err error) bool {
	var e *MalformedBallotError
	return errors.As(err, &e)
}

func isInvalidWeight(err error) bool {
	var e *InvalidWeightError
	return errors.As(err, &e)
}

func TestLabelAndName(t *testing.T) {
	s := Set{Candidates: []Candidate{{Name: "Alpha"}, {Name: "Beta", Short: "B"}, {}}}

	tests := []struct {
		i     int
		label string
		name  string
	}{
		{0, "Alpha", "Alpha"},
		{1, "B", "Beta"},
		{2, "#2", "#2"},
		{7, "#7", "#7"},
	}
	for _, tt := range tests {
		if got := s.Label(tt.i); got != tt.label {
			t.Errorf("Label(%d) = %q, want %q", tt.i, got, tt.label)
		}
		if got := s.Name(tt.i); got != tt.name {
			t.Errorf("Name(%d) = %q, want %q", tt.i, got, tt.name)
		}
	}
}

func TestGroupOrder(t *testing.T) {
	g := Group{Weight: 26, Ranking: []int{4, 1, 2, 3}}

	if got := g.Order(); !slices.Equal(got, []int{1, 2, 3, 0}) {
		t.Errorf("Order() = %v, want [1 2 3 0]", got)
	}
	if !g.Prefers(1, 0) {
		t.Error("Prefers(1, 0) = false, want true")
	}
}

func TestTotalWeight(t *testing.T) {
	if got := Tennessee().TotalWeight(); got != 100 {
		t.Errorf("TotalWeight() = %v, want 100", got)
	}
}

func TestClone_Independent(t *testing.T) {
	s := Tennessee()
	c := s.Clone()
	c.Groups[0].Ranking[0] = 4
	c.Candidates[0].Name = "changed"

	if s.Groups[0].Ranking[0] != 1 || s.Candidates[0].Name != "Memphis" {
		t.Error("Clone() shares memory with the original")
	}
}
