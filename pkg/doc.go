// Package pkg provides the libraries behind the tideman Ranked Pairs
// tabulator.
//
// # Overview
//
// Ranked Pairs (Tideman's method) elects the candidate who wins the
// strongest set of head-to-head matchups that can be taken together without
// contradiction. The pkg directory is organized into these areas:
//
//  1. [ballot] - Candidates, weighted ballot groups and their validation
//  2. [tideman] - The tabulation engine (tally → pairs → lock → result)
//  3. [dag] - The lock graph arena and its transformations
//  4. [io] - Ballot documents (JSON, TOML, YAML, HCL) and the result export
//  5. [render] - Lock graph drawings (DOT, SVG, PNG)
//  6. [pipeline] - Orchestration with caching (tabulate → render)
//  7. [cache], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Ballot file (JSON/TOML/YAML/HCL)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [tideman] package (pairwise matrix, sorted pairs, lock graph)
//	         ↓
//	    [render/lockgraph] package (DOT → SVG/PNG)
//	         ↓
//	    Result export, tables or images
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/tideman/pkg/ballot"
//	    "github.com/matzehuels/tideman/pkg/tideman"
//	)
//
//	res, err := tideman.Run(ballot.Tennessee())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Name(res.Winner)) // Nashville
//
// With caching and rendering, use the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	out, err := runner.Execute(ctx, set, pipeline.Options{Formats: []string{"svg"}})
//
// # Determinism
//
// Identical ballots always produce identical results, byte for byte in the
// JSON export. Every tie is broken by a fixed rule and recorded in
// Result.TieBreaks; see [tideman] for the rules.
package pkg
