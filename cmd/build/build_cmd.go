package build

import (
	"fmt"

	"github.com/LegacyCodeHQ/amalgam/amalgamation"
	"github.com/LegacyCodeHQ/amalgam/cmd/options"
	"github.com/spf13/cobra"
)

// Cmd represents the build command.
var Cmd = NewCommand()

// NewCommand returns a new build command instance.
func NewCommand() *cobra.Command {
	opts := &options.Amalgamation{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Merge a C project into one header and one source file",
		Long: `Merge every header and source under the root into a single header and a
single source file.

Headers are emitted in dependency order with standard library includes
collected at the top. Sources follow in discovery order after an include of
the merged header. Nothing is written unless every step succeeds.

Examples:
  amalgam build
  amalgam build -r src -o dist -n EmbedDB
  amalgam build --system-header sys/types.h
  amalgam build -c HEAD~3                     # tree as of a commit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	opts.AddConfigFlag(cmd)
	opts.AddTreeFlags(cmd, true)
	opts.AddOutputFlags(cmd)
	opts.AddRegistryFlags(cmd)

	return cmd
}

func runBuild(cmd *cobra.Command, opts *options.Amalgamation) error {
	runOpts, err := opts.Options(cmd)
	if err != nil {
		return err
	}

	result, err := amalgamation.Run(cmd.Context(), runOpts)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s (%d headers, %d sources, %d system headers)\n",
		runOpts.HeaderPath, runOpts.SourcePath, len(result.Headers), len(result.Sources), len(result.Externals))
	return err
}
