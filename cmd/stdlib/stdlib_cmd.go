package stdlib

import (
	"fmt"

	"github.com/LegacyCodeHQ/amalgam/cmd/options"
	"github.com/spf13/cobra"
)

// Cmd represents the stdlib command.
var Cmd = NewCommand()

// NewCommand returns a new stdlib command instance.
func NewCommand() *cobra.Command {
	opts := &options.Amalgamation{}

	cmd := &cobra.Command{
		Use:   "stdlib",
		Short: "List the headers treated as system headers",
		Long: `List every header name the classifier treats as an external system header:
the C standard headers plus anything added through the configuration file,
--system-header or --system-header-file.

Examples:
  amalgam stdlib
  amalgam stdlib --system-header sys/types.h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdlib(cmd, opts)
		},
	}

	opts.AddConfigFlag(cmd)
	opts.AddRegistryFlags(cmd)

	return cmd
}

func runStdlib(cmd *cobra.Command, opts *options.Amalgamation) error {
	runOpts, err := opts.Options(cmd)
	if err != nil {
		return err
	}

	for _, name := range runOpts.Registry.Names() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return err
		}
	}
	return nil
}
