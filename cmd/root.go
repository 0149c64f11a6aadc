package cmd

import (
	"context"
	"os"

	"github.com/LegacyCodeHQ/amalgam/cmd/build"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph"
	"github.com/LegacyCodeHQ/amalgam/cmd/order"
	"github.com/LegacyCodeHQ/amalgam/cmd/stdlib"
	"github.com/LegacyCodeHQ/amalgam/cmd/watch"
	"github.com/LegacyCodeHQ/amalgam/cmd/why"
	"github.com/LegacyCodeHQ/amalgam/internal/logging"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand(
	build.Cmd,
	order.Cmd,
	graph.Cmd,
	why.Cmd,
	watch.Cmd,
	stdlib.Cmd,
)

// NewRootCommand returns the amalgam command with subcommands attached.
func NewRootCommand(subcommands ...*cobra.Command) *cobra.Command {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   "amalgam",
		Short: "Merge a C project into one header and one source file",
		Long: `Amalgam merges the headers of a C project into a single header, ordered so
that every header appears after the headers it includes, and concatenates the
sources into a single file that includes it.

System headers such as <stdint.h> are hoisted to the top of the merged
header. Include cycles and includes of missing headers stop the build.

Use 'amalgam <command> --help' for details about a specific command.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := logging.New(cmd.ErrOrStderr(), logging.Level(verbose, quiet))
			cmd.SetContext(logging.WithLogger(ctx, logger))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every classified file")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")

	root.AddCommand(subcommands...)

	if root.Annotations == nil {
		root.Annotations = make(map[string]string)
	}
	root.Annotations["buildDate"] = buildDate
	root.Annotations["commit"] = commit

	// Customize version template to show additional build info
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
