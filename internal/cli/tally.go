package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/matzehuels/tideman/pkg/errors"
	pkgio "github.com/matzehuels/tideman/pkg/io"
	"github.com/matzehuels/tideman/pkg/pipeline"
	"github.com/matzehuels/tideman/pkg/tideman"
)

// tallyOpts holds the command-line flags for the tally command.
type tallyOpts struct {
	output  string // write the JSON export here (single input only)
	json    bool   // print the JSON export instead of tables
	noCache bool   // bypass the result cache
	jobs    int    // files tabulated concurrently
}

// tallied is the outcome of one input file.
type tallied struct {
	path   string
	res    *tideman.Result
	cached bool
}

// tallyCommand creates the tally command.
func (c *CLI) tallyCommand() *cobra.Command {
	opts := tallyOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "tally [file...]",
		Short: "Tabulate ballot files with Ranked Pairs",
		Long: `Tabulate one or more ballot files (JSON, TOML, YAML or HCL) and print the
pairwise matrix, the lock sequence and the final ranking of each.

Several files are tabulated concurrently; output follows argument order.`,
		Example: `  tideman example > tennessee.toml
  tideman tally tennessee.toml
  tideman tally --json -o result.json tennessee.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output requires a single input file, got %d", len(args))
			}
			if opts.output != "" {
				if err := apperrors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			return c.runTally(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON result export to a file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the JSON result export instead of tables")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of files to tabulate concurrently")

	return cmd
}

// runTally tabulates every input and prints the results in argument order.
func (c *CLI) runTally(ctx context.Context, paths []string, opts tallyOpts) error {
	logger := loggerFromContext(ctx)
	prog := newTallyProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	results, err := tallyFiles(ctx, runner, paths, opts.jobs)
	if err != nil {
		return err
	}
	prog.done(results)

	for i, t := range results {
		logOutcome(logger, t)
		if opts.output != "" {
			if err := pkgio.ExportResult(t.res, opts.output); err != nil {
				return err
			}
			printSuccess("Exported result of %s", StyleHighlight.Render(t.path))
			printFile(opts.output)
			continue
		}
		if opts.json {
			if err := pkgio.WriteResult(t.res, stdout); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			printNewline()
		}
		printResult(t)
	}
	return nil
}

// tallyFiles reads and tabulates paths with at most jobs files in flight.
// The first error cancels the remaining work.
func tallyFiles(ctx context.Context, runner *pipeline.Runner, paths []string, jobs int) ([]tallied, error) {
	results := make([]tallied, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if jobs <= 0 {
		jobs = 1
	}
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := pkgio.ImportBallots(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, apperrors.FromTabulation(err))
			}
			res, cached, err := runner.TabulateWithCacheInfo(gctx, set, pipeline.Options{})
			if err != nil {
				return fmt.Errorf("%s: %w", path, apperrors.FromTabulation(err))
			}
			results[i] = tallied{path: path, res: res, cached: cached}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// printResult prints the stages of one tabulation.
func printResult(t tallied) {
	res := t.res
	title := res.Title
	if title == "" {
		title = t.path
	}
	locked, skipped := 0, 0
	for _, e := range res.Edges {
		if e.Status == tideman.StatusLocked {
			locked++
		} else {
			skipped++
		}
	}

	fmt.Fprintln(stdout, StyleTitle.Render(title))
	printStats(len(res.Candidates), len(res.Groups), skipped, t.cached)
	printNewline()

	printKeyValue("Voters", formatWeight(res.TotalWeight))
	printKeyValue("Winner", StyleWinner.Render(res.Name(res.Winner)))
	printNewline()

	fmt.Fprintln(stdout, StyleDim.Render("Pairwise matrix"))
	printBlock(matrixTable(res))
	fmt.Fprintln(stdout, StyleDim.Render(fmt.Sprintf("Lock sequence (%d locked, %d skipped)", locked, skipped)))
	printBlock(lockTable(res))
	fmt.Fprintln(stdout, StyleDim.Render("Ranking"))
	printBlock(rankingTable(res))

	if lines := tieBreakLines(res); len(lines) > 0 {
		printInfo("Tie-breaks applied")
		for _, l := range lines {
			printDetail("%s", l)
		}
	}
	printNextStep("Draw the lock graph", "tideman render "+t.path)
}
