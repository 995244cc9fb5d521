package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/tideman/pkg/errors"
	pkgio "github.com/matzehuels/tideman/pkg/io"
	"github.com/matzehuels/tideman/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "png", "dot", "json"
	reduce   bool     // drop locked edges implied by transitivity
	skipped  bool     // draw skipped pairs as dashed edges
	detailed bool     // full names and ranks in node labels
	noCache  bool     // bypass the result and artifact cache
	refresh  bool     // recompute and overwrite cached entries
}

// renderCommand creates the render command for drawing lock graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the lock graph of a ballot file",
		Long: `Tabulate a ballot file and render its lock graph: one box per candidate and
one arrow per locked pair, from winner to loser, labelled with the margin.

Use "-o -" to write a single format to stdout.`,
		Example: `  tideman render tennessee.toml
  tideman render tennessee.toml -f svg,png --reduce
  tideman render cycle.json -f dot --skipped -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid --format")
			}
			opts.formats = formats
			if len(opts.formats) == 0 {
				opts.formats = []string{pipeline.FormatSVG}
			}
			if opts.output != "" && opts.output != "-" {
				if err := apperrors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			if opts.output == "-" && len(opts.formats) > 1 {
				return fmt.Errorf("cannot write %d formats to stdout", len(opts.formats))
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "draw only edges not implied by transitivity")
	cmd.Flags().BoolVar(&opts.skipped, "skipped", false, "draw skipped pairs as dashed red edges")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show full names and ranks in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached entries")

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., election.svg, election.png).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file a format is written to.
func outputPath(opts *renderOpts, input, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

// runRender loads the ballots, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	set, err := pkgio.ImportBallots(input)
	if err != nil {
		return apperrors.FromTabulation(err)
	}
	logger.Debugf("Loaded %d candidates, %d groups", len(set.Candidates), len(set.Groups))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, set, pipeline.Options{
		Formats:     opts.formats,
		Reduce:      opts.reduce,
		ShowSkipped: opts.skipped,
		Detailed:    opts.detailed,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	if err != nil {
		return apperrors.FromTabulation(err)
	}

	if opts.output == "-" {
		return writeFile("", result.Artifacts[opts.formats[0]])
	}

	printSuccess("Winner: %s", StyleWinner.Render(result.Tabulation.Name(result.Tabulation.Winner)))
	printStats(result.Stats.Candidates, result.Stats.Groups, result.Stats.Skipped, result.CacheInfo.RenderHit)
	for _, format := range opts.formats {
		path := outputPath(opts, input, format)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", path, len(result.Artifacts[format]))
		printFile(path)
	}
	return nil
}

// writeFile writes data to path, or to stdout when path is empty.
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
