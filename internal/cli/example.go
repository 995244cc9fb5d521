package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tideman/pkg/ballot"
	pkgio "github.com/matzehuels/tideman/pkg/io"
)

// exampleCommand creates the example command, which prints the Tennessee
// capital election as a ballot file.
func (c *CLI) exampleCommand() *cobra.Command {
	format := string(pkgio.FormatTOML)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example ballot file",
		Long: `Print the classic Tennessee capital election as a ballot file: four cities,
voters grouped by where they live, each group ranking the cities by distance.
Nashville wins.`,
		Example: `  tideman example > tennessee.toml
  tideman example -f yaml > tennessee.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pkgio.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == pkgio.FormatHCL {
				return fmt.Errorf("%w: hcl is read-only", pkgio.ErrUnsupportedFormat)
			}
			return pkgio.WriteBallots(ballot.Tennessee(), cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "ballot format: toml (default), json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"toml", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
