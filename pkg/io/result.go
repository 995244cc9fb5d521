package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/tideman"
)

type resultDoc struct {
	Title       string         `json:"title,omitempty"`
	Candidates  []candidateDoc `json:"candidates"`
	Groups      []group        `json:"groups"`
	TotalWeight float64        `json:"total_weight"`
	Matrix      [][]float64    `json:"matrix"`
	Pairs       []pairDoc      `json:"pairs"`
	Locks       []lockDoc      `json:"locks"`
	Winner      int            `json:"winner"`
	Ranking     []int          `json:"ranking"`
	TieBreaks   []tieBreakDoc  `json:"tie_breaks"`
}

type candidateDoc struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Short string `json:"short,omitempty"`
}

type pairDoc struct {
	Winner     int     `json:"winner"`
	Loser      int     `json:"loser"`
	WinWeight  float64 `json:"win_weight"`
	LoseWeight float64 `json:"lose_weight"`
	Margin     float64 `json:"margin"`
}

type lockDoc struct {
	pairDoc
	Status string `json:"status"`
}

type tieBreakDoc struct {
	Kind       string `json:"kind"`
	Candidates []int  `json:"candidates"`
	Detail     string `json:"detail"`
}

var statusFromString = map[string]tideman.Status{
	tideman.StatusLocked.String():  tideman.StatusLocked,
	tideman.StatusSkipped.String(): tideman.StatusSkipped,
}

func newPairDoc(p tideman.Pair) pairDoc {
	return pairDoc{Winner: p.Winner, Loser: p.Loser, WinWeight: p.WinWeight, LoseWeight: p.LoseWeight, Margin: p.Margin}
}

func (p pairDoc) pair() tideman.Pair {
	return tideman.Pair{Winner: p.Winner, Loser: p.Loser, WinWeight: p.WinWeight, LoseWeight: p.LoseWeight, Margin: p.Margin}
}

// WriteResult encodes the staged result of a tabulation as indented JSON:
// candidates, ballot groups, the pairwise matrix, the sorted pairs, the lock
// sequence with "lock"/"skip" statuses, the winner, the ranking and every
// tie-break applied. Empty lists are written as [] rather than null, so the
// output is byte-identical for identical results.
func WriteResult(res *tideman.Result, w io.Writer) error {
	out := resultDoc{
		Title:       res.Title,
		Candidates:  make([]candidateDoc, len(res.Candidates)),
		Groups:      make([]group, len(res.Groups)),
		TotalWeight: res.TotalWeight,
		Matrix:      res.Matrix.Rows(),
		Pairs:       make([]pairDoc, len(res.Pairs)),
		Locks:       make([]lockDoc, len(res.Edges)),
		Winner:      res.Winner,
		Ranking:     append([]int{}, res.Ranking...),
		TieBreaks:   make([]tieBreakDoc, len(res.TieBreaks)),
	}
	for i, c := range res.Candidates {
		out.Candidates[i] = candidateDoc{Index: i, Name: c.Name, Short: c.Short}
	}
	for i, g := range res.Groups {
		out.Groups[i] = group{Label: g.Label, Weight: g.Weight, Ranking: g.Ranking}
	}
	for i, p := range res.Pairs {
		out.Pairs[i] = newPairDoc(p)
	}
	for i, e := range res.Edges {
		out.Locks[i] = lockDoc{pairDoc: newPairDoc(e.Pair), Status: e.Status.String()}
	}
	for i, t := range res.TieBreaks {
		out.TieBreaks[i] = tieBreakDoc{Kind: string(t.Kind), Candidates: append([]int{}, t.Candidates...), Detail: t.Detail}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalResult returns the JSON export of res.
func MarshalResult(res *tideman.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteResult(res, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportResult writes the JSON export of res to a file at path.
func ExportResult(res *tideman.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(res, f)
}

// ReadResult decodes a result previously written by [WriteResult].
//
// The lock sequence is checked with [tideman.NewLockGraph], so a document
// whose locked edges form a cycle is rejected. Matrix, pairs and ranking are
// taken as written; they are not recomputed from the ballot groups.
func ReadResult(r io.Reader) (*tideman.Result, error) {
	var in resultDoc
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	m, err := tideman.MatrixFromRows(in.Matrix)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	n := len(in.Candidates)
	if m.Size() != n {
		return nil, fmt.Errorf("%w: matrix is %d×%d for %d candidates", ErrInvalidDocument, m.Size(), m.Size(), n)
	}

	res := &tideman.Result{
		Title:       in.Title,
		Candidates:  make([]ballot.Candidate, n),
		Groups:      make([]ballot.Group, len(in.Groups)),
		TotalWeight: in.TotalWeight,
		Matrix:      m,
		Pairs:       make([]tideman.Pair, len(in.Pairs)),
		Edges:       make([]tideman.LockedEdge, len(in.Locks)),
		Winner:      in.Winner,
		Ranking:     in.Ranking,
		TieBreaks:   make([]tideman.TieBreak, len(in.TieBreaks)),
	}
	for i, c := range in.Candidates {
		res.Candidates[i] = ballot.Candidate{Name: c.Name, Short: c.Short}
	}
	for i, g := range in.Groups {
		res.Groups[i] = ballot.Group{Label: g.Label, Weight: g.Weight, Ranking: g.Ranking}
	}
	for i, p := range in.Pairs {
		res.Pairs[i] = p.pair()
	}
	for i, l := range in.Locks {
		status, ok := statusFromString[l.Status]
		if !ok {
			return nil, fmt.Errorf("%w: lock %d has status %q", ErrInvalidDocument, i, l.Status)
		}
		res.Edges[i] = tideman.LockedEdge{Pair: l.pair(), Status: status}
	}
	for i, t := range in.TieBreaks {
		res.TieBreaks[i] = tideman.TieBreak{Kind: tideman.TieKind(t.Kind), Candidates: t.Candidates, Detail: t.Detail}
	}

	if _, err := res.LockGraph(); err != nil {
		return nil, err
	}
	return res, nil
}
