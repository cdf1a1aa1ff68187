package command

import (
	"os"
	"strings"

	"github.com/frantjc/bundo"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
)

// NewBundo returns the root command for
// bundo which acts as its CLI entrypoint.
func NewBundo() *cobra.Command {
	var (
		verbosity int
		cmd       = &cobra.Command{
			Use:           "bundo",
			Version:       bundo.SemVer(),
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRun: func(cmd *cobra.Command, _ []string) {
				if verbose := os.Getenv("BUNDO_VERBOSE"); verbose != "" && xslice.Some([]string{"1", "y", "yes", "true", "t"}, func(s string, _ int) bool {
					return strings.EqualFold(s, verbose)
				}) {
					verbosity = 2
				}

				cmd.SetContext(
					bundo.WithLogger(
						cmd.Context(), bundo.NewLogger().V(2-verbosity),
					),
				)
			},
		}
	)

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more verbose logging")
	cmd.AddCommand(NewBuild(), NewVariants())

	return cmd
}
