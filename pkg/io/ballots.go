package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tideman/pkg/ballot"
)

var validate = validator.New()

type document struct {
	Title      string      `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Candidates []candidate `json:"candidates" toml:"candidates" yaml:"candidates" validate:"required,min=1,dive"`
	Groups     []group     `json:"groups" toml:"groups" yaml:"groups" validate:"dive"`
}

type candidate struct {
	Name  string `json:"name" toml:"name" yaml:"name" validate:"required"`
	Short string `json:"short,omitempty" toml:"short,omitempty" yaml:"short,omitempty"`
}

type group struct {
	Label   string  `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Weight  float64 `json:"weight" toml:"weight" yaml:"weight"`
	Ranking []int   `json:"ranking" toml:"ranking" yaml:"ranking" validate:"required"`
}

// HCL uses labelled blocks instead of arrays of objects:
//
//	title = "Tennessee capital"
//	candidate "Memphis" { short = "MEM" }
//	group { label = "Memphis voters" weight = 42 ranking = [1, 2, 3, 4] }
type hclDocument struct {
	Title      *string        `hcl:"title,optional"`
	Candidates []hclCandidate `hcl:"candidate,block"`
	Groups     []hclGroup     `hcl:"group,block"`
}

type hclCandidate struct {
	Name  string  `hcl:"name,label"`
	Short *string `hcl:"short,optional"`
}

type hclGroup struct {
	Label   *string `hcl:"label,optional"`
	Weight  float64 `hcl:"weight"`
	Ranking []int   `hcl:"ranking"`
}

func (d hclDocument) document() document {
	doc := document{Title: deref(d.Title)}
	for _, c := range d.Candidates {
		doc.Candidates = append(doc.Candidates, candidate{Name: c.Name, Short: deref(c.Short)})
	}
	for _, g := range d.Groups {
		doc.Groups = append(doc.Groups, group{Label: deref(g.Label), Weight: g.Weight, Ranking: g.Ranking})
	}
	return doc
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ReadBallots decodes a ballot document in the given format from r.
//
// The document must list at least one named candidate. Rankings, weights and
// the electorate are checked by [ballot.Set.Validate], and their typed errors
// are returned unchanged. ReadBallots does not close r.
func ReadBallots(r io.Reader, format Format) (ballot.Set, error) {
	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return ballot.Set{}, fmt.Errorf("%w: decode json: %w", ErrInvalidDocument, err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return ballot.Set{}, fmt.Errorf("%w: decode toml: %w", ErrInvalidDocument, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return ballot.Set{}, fmt.Errorf("%w: decode yaml: %w", ErrInvalidDocument, err)
		}
	case FormatHCL:
		src, err := io.ReadAll(r)
		if err != nil {
			return ballot.Set{}, fmt.Errorf("%w: read hcl: %w", ErrInvalidDocument, err)
		}
		file, diags := hclparse.NewParser().ParseHCL(src, "ballots.hcl")
		if diags.HasErrors() {
			return ballot.Set{}, fmt.Errorf("%w: parse hcl: %w", ErrInvalidDocument, diags)
		}
		var hd hclDocument
		if diags := gohcl.DecodeBody(file.Body, nil, &hd); diags.HasErrors() {
			return ballot.Set{}, fmt.Errorf("%w: decode hcl: %w", ErrInvalidDocument, diags)
		}
		doc = hd.document()
	default:
		return ballot.Set{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := validate.Struct(doc); err != nil {
		return ballot.Set{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	set := doc.set()
	if err := set.Validate(); err != nil {
		return ballot.Set{}, err
	}
	return set, nil
}

// ImportBallots reads a ballot file, choosing the format from its extension.
func ImportBallots(path string) (ballot.Set, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return ballot.Set{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return ballot.Set{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	set, err := ReadBallots(f, format)
	if err != nil {
		return ballot.Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// WriteBallots encodes set to w. JSON, TOML and YAML are supported; HCL is
// read-only.
func WriteBallots(set ballot.Set, w io.Writer, format Format) error {
	doc := newDocument(set)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: cannot write %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// MarshalBallots returns the encoded set.
func MarshalBallots(set ballot.Set, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBallots(set, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newDocument(set ballot.Set) document {
	doc := document{
		Title:      set.Title,
		Candidates: make([]candidate, len(set.Candidates)),
		Groups:     make([]group, len(set.Groups)),
	}
	for i, c := range set.Candidates {
		doc.Candidates[i] = candidate{Name: c.Name, Short: c.Short}
	}
	for i, g := range set.Groups {
		doc.Groups[i] = group{Label: g.Label, Weight: g.Weight, Ranking: g.Ranking}
	}
	return doc
}

func (d document) set() ballot.Set {
	set := ballot.Set{
		Title:      d.Title,
		Candidates: make([]ballot.Candidate, len(d.Candidates)),
		Groups:     make([]ballot.Group, len(d.Groups)),
	}
	for i, c := range d.Candidates {
		set.Candidates[i] = ballot.Candidate{Name: c.Name, Short: c.Short}
	}
	for i, g := range d.Groups {
		set.Groups[i] = ballot.Group{Label: g.Label, Weight: g.Weight, Ranking: g.Ranking}
	}
	return set
}
