package ballot

import (
	"errors"
	"fmt"
)

// ErrEmptyElectorate is returned when a set has no ballot groups or their
// total weight is zero. No winner can be determined.
var ErrEmptyElectorate = errors.New("empty electorate")

// MalformedBallotError reports a ranking that is not a permutation of 1..N,
// or a set with no candidates.
type MalformedBallotError struct {
	// Group is the index of the offending ballot group, or -1 when the
	// problem concerns the set as a whole.
	Group int
	// Reason describes what is wrong with the ranking.
	Reason string
}

func (e *MalformedBallotError) Error() string {
	if e.Group < 0 {
		return "malformed ballot set: " + e.Reason
	}
	return fmt.Sprintf("malformed ballot in group %d: %s", e.Group, e.Reason)
}

// InvalidWeightError reports a ballot group weight that is not a positive,
// finite number.
type InvalidWeightError struct {
	// Group is the index of the offending ballot group, or -1 when the total
	// weight of the set overflows.
	Group  int
	Weight float64
}

func (e *InvalidWeightError) Error() string {
	if e.Group < 0 {
		return fmt.Sprintf("invalid total weight %v", e.Weight)
	}
	return fmt.Sprintf("invalid weight %v in group %d: must be positive and finite", e.Weight, e.Group)
}
