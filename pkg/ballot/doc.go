// Package ballot defines the input model of a Ranked Pairs tabulation.
//
// A [Set] holds a fixed list of candidates and the weighted [Group]s of
// identical ballots cast over them. Every ballot ranks every candidate: the
// ranking is a permutation of 1..N, 1 being the most preferred, with no ties.
//
// [Set.Validate] enforces that shape and returns one of the typed errors
// [MalformedBallotError], [InvalidWeightError] or [ErrEmptyElectorate].
// Validation is all-or-nothing: a set with one bad group is rejected as a
// whole.
//
// [Tennessee] returns the textbook four-city example that the rest of the
// repository uses for demos and tests.
package ballot
