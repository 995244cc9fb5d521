// Package cli implements the tideman command-line interface.
//
// This package provides commands for tabulating ballot files, rendering lock
// graphs, stepping through a tabulation interactively, serving the HTTP API
// and managing the result cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - tally: Tabulate one or more ballot files and print the stages
//   - render: Render the lock graph to SVG, PNG, DOT or JSON
//   - play: Step through a tabulation in the terminal
//   - example: Print the Tennessee capital example ballot file
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tideman/pkg/tideman"
)

// newLogger creates the CLI logger. Timestamps use "15:04:05.00" and
// messages below level are dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// tallyProgress times a tally run over one or more ballot files.
type tallyProgress struct {
	logger *log.Logger
	start  time.Time
}

func newTallyProgress(l *log.Logger) *tallyProgress {
	return &tallyProgress{logger: l, start: time.Now()}
}

// done logs the number of files tabulated, how many came from the cache and
// the elapsed time, e.g. "Tabulated 3 file(s) cached=1 elapsed=12ms".
func (p *tallyProgress) done(results []tallied) {
	cached := 0
	for _, t := range results {
		if t.cached {
			cached++
		}
	}
	p.logger.Info(fmt.Sprintf("Tabulated %d file(s)", len(results)),
		"cached", cached,
		"elapsed", time.Since(p.start).Round(time.Millisecond))
}

// logOutcome writes a debug summary of one tabulation: the winner, the lock
// counts and every tie-break that decided an ordering.
func logOutcome(l *log.Logger, t tallied) {
	locked, skipped := 0, 0
	for _, e := range t.res.Edges {
		if e.Status == tideman.StatusLocked {
			locked++
		} else {
			skipped++
		}
	}
	l.Debug("Outcome", "file", t.path, "winner", t.res.Name(t.res.Winner), "locked", locked, "skipped", skipped)
	for _, tb := range t.res.TieBreaks {
		l.Debug("Tie-break", "file", t.path, "kind", string(tb.Kind), "candidates", tb.Candidates)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
