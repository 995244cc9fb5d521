package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/tideman"
)

const tennesseeHCL = `
title = "Tennessee capital"

candidate "Memphis" { short = "MEM" }
candidate "Nashville" { short = "NSH" }
candidate "Chattanooga" { short = "CHA" }
candidate "Knoxville" { short = "KNX" }

group {
  label   = "Memphis voters"
  weight  = 42
  ranking = [1, 2, 3, 4]
}
group {
  label   = "Nashville voters"
  weight  = 26
  ranking = [4, 1, 2, 3]
}
group {
  label   = "Chattanooga voters"
  weight  = 15
  ranking = [4, 2, 1, 3]
}
group {
  label   = "Knoxville voters"
  weight  = 17
  ranking = [4, 3, 2, 1]
}
`

func TestBallots_WriteRead(t *testing.T) {
	want := ballot.Tennessee()

	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := MarshalBallots(want, format)
			if err != nil {
				t.Fatalf("MarshalBallots() error: %v", err)
			}
			got, err := ReadBallots(bytes.NewReader(data), format)
			if err != nil {
				t.Fatalf("ReadBallots() error: %v\n%s", err, data)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ReadBallots() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestReadBallots_HCL(t *testing.T) {
	got, err := ReadBallots(strings.NewReader(tennesseeHCL), FormatHCL)
	if err != nil {
		t.Fatalf("ReadBallots() error: %v", err)
	}
	if want := ballot.Tennessee(); !reflect.DeepEqual(got, want) {
		t.Errorf("ReadBallots() = %+v, want %+v", got, want)
	}
}

func TestReadBallots_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		check  func(error) bool
	}{
		{
			name:   "malformed json",
			format: FormatJSON,
			input:  `{"candidates": [`,
			check:  func(err error) bool { return errors.Is(err, ErrInvalidDocument) },
		},
		{
			name:   "unknown field",
			format: FormatJSON,
			input:  `{"candidates": [{"name": "A"}], "voters": 3}`,
			check:  func(err error) bool { return errors.Is(err, ErrInvalidDocument) },
		},
		{
			name:   "no candidates",
			format: FormatJSON,
			input:  `{"candidates": [], "groups": []}`,
			check:  func(err error) bool { return errors.Is(err, ErrInvalidDocument) },
		},
		{
			name:   "unnamed candidate",
			format: FormatYAML,
			input:  "candidates:\n  - short: A\ngroups:\n  - weight: 1\n    ranking: [1]\n",
			check:  func(err error) bool { return errors.Is(err, ErrInvalidDocument) },
		},
		{
			name:   "bad ranking",
			format: FormatTOML,
			input:  "[[candidates]]\nname = \"A\"\n[[candidates]]\nname = \"B\"\n[[groups]]\nweight = 1.0\nranking = [1, 1]\n",
			check: func(err error) bool {
				var mb *ballot.MalformedBallotError
				return errors.As(err, &mb)
			},
		},
		{
			name:   "zero weight",
			format: FormatJSON,
			input:  `{"candidates": [{"name": "A"}], "groups": [{"weight": 0, "ranking": [1]}]}`,
			check: func(err error) bool {
				var iw *ballot.InvalidWeightError
				return errors.As(err, &iw)
			},
		},
		{
			name:   "empty electorate",
			format: FormatJSON,
			input:  `{"candidates": [{"name": "A"}], "groups": []}`,
			check:  func(err error) bool { return errors.Is(err, ballot.ErrEmptyElectorate) },
		},
		{
			name:   "bad hcl",
			format: FormatHCL,
			input:  `candidate {`,
			check:  func(err error) bool { return errors.Is(err, ErrInvalidDocument) },
		},
		{
			name:   "unknown format",
			format: Format("xml"),
			input:  `<ballots/>`,
			check:  func(err error) bool { return errors.Is(err, ErrUnsupportedFormat) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBallots(strings.NewReader(tt.input), tt.format)
			if !tt.check(err) {
				t.Errorf("ReadBallots() error = %v", err)
			}
		})
	}
}

func TestWriteBallots_HCLUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBallots(ballot.Tennessee(), &buf, FormatHCL); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WriteBallots(hcl) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"ballots.json", FormatJSON, false},
		{"dir/ballots.TOML", FormatTOML, false},
		{"ballots.yml", FormatYAML, false},
		{"ballots.yaml", FormatYAML, false},
		{"ballots.hcl", FormatHCL, false},
		{"ballots.csv", "", true},
		{"ballots", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestImportBallots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tennessee.hcl")
	if err := os.WriteFile(path, []byte(tennesseeHCL), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := ImportBallots(path)
	if err != nil {
		t.Fatalf("ImportBallots() error: %v", err)
	}
	if set.N() != 4 || set.TotalWeight() != 100 {
		t.Errorf("ImportBallots() = %d candidates, weight %v", set.N(), set.TotalWeight())
	}

	if _, err := ImportBallots(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportBallots(missing) error = %v, want ErrNotExist", err)
	}
}

func TestWriteResult_Deterministic(t *testing.T) {
	a, _ := tideman.Run(ballot.Tennessee())
	b, _ := tideman.Run(ballot.Tennessee())

	first, err := MarshalResult(a)
	if err != nil {
		t.Fatalf("MarshalResult() error: %v", err)
	}
	second, _ := MarshalResult(b)
	if !bytes.Equal(first, second) {
		t.Error("MarshalResult() differs between identical runs")
	}

	for _, want := range []string{`"status": "lock"`, `"winner": 1`, `"kind": "equal_margin"`, `"short": "NSH"`} {
		if !bytes.Contains(first, []byte(want)) {
			t.Errorf("export missing %s", want)
		}
	}
}

func TestResult_ExportRead(t *testing.T) {
	res, _ := tideman.Run(ballot.Tennessee())
	path := filepath.Join(t.TempDir(), "result.json")
	if err := ExportResult(res, path); err != nil {
		t.Fatalf("ExportResult() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := ReadResult(f)
	if err != nil {
		t.Fatalf("ReadResult() error: %v", err)
	}

	again, _ := MarshalResult(got)
	want, _ := MarshalResult(res)
	if !bytes.Equal(again, want) {
		t.Errorf("re-export differs:\n%s\nwant\n%s", again, want)
	}
}

func TestReadResult_RejectsCycle(t *testing.T) {
	doc := `{
  "candidates": [{"index": 0, "name": "A"}, {"index": 1, "name": "B"}, {"index": 2, "name": "C"}],
  "matrix": [[0, 0, 0], [0, 0, 0], [0, 0, 0]],
  "locks": [
    {"winner": 0, "loser": 1, "status": "lock"},
    {"winner": 1, "loser": 2, "status": "lock"},
    {"winner": 2, "loser": 0, "status": "lock"}
  ]
}`
	if _, err := ReadResult(strings.NewReader(doc)); err == nil {
		t.Error("ReadResult() = nil error, want cycle error")
	}

	bad := strings.Replace(doc, `"lock"}
  ]`, `"maybe"}
  ]`, 1)
	if _, err := ReadResult(strings.NewReader(bad)); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("ReadResult(bad status) error = %v, want ErrInvalidDocument", err)
	}
}
