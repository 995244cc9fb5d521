// Package playback turns a tabulation result into a step-through
// presentation.
//
// [Frames] splits a [tideman.Result] into five phases (ballots, tally, sort,
// lock and winner), each frame carrying an English caption and indices into
// the result. [Player] walks those frames; the terminal player in the CLI is
// built on it.
package playback
