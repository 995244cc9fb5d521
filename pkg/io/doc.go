// Package io reads and writes ballot files and exports tabulation results.
//
// # Ballot Files
//
// A ballot document lists the candidates and the weighted ballot groups. The
// same structure is accepted as JSON, TOML, YAML or HCL:
//
//	{
//	  "title": "Tennessee capital",
//	  "candidates": [
//	    {"name": "Memphis", "short": "MEM"},
//	    {"name": "Nashville", "short": "NSH"}
//	  ],
//	  "groups": [
//	    {"label": "Memphis voters", "weight": 42, "ranking": [1, 2]},
//	    {"label": "Nashville voters", "weight": 58, "ranking": [2, 1]}
//	  ]
//	}
//
// ranking[c] is the rank of candidate c, 1 being the most preferred. In HCL,
// candidates and groups are blocks:
//
//	candidate "Memphis" { short = "MEM" }
//	group {
//	  weight  = 42
//	  ranking = [1, 2]
//	}
//
// Use [ImportBallots] to read a file (the format follows the extension) or
// [ReadBallots] to read from any io.Reader. Both return the typed errors of
// [ballot.Set.Validate] for bad rankings and weights, and wrap
// [ErrInvalidDocument] for structurally incomplete documents.
//
// [WriteBallots] writes JSON, TOML or YAML. HCL is read-only.
//
// # Result Export
//
// [WriteResult] and [ExportResult] write every stage of a tabulation as
// indented JSON: matrix, sorted pairs, the lock sequence with "lock"/"skip"
// statuses, winner, ranking and tie-breaks. The export is deterministic and
// is the input of the artifact cache keys in the pipeline package.
// [ReadResult] reads it back.
package io
