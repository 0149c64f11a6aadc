package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/amalgam/amalgamation"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/amalgam/cmd/options"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/spf13/cobra"
)

type graphOptions struct {
	options.Amalgamation
	format  string
	between []string
}

// Cmd represents the graph command.
var Cmd = NewCommand()

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{format: formatters.OutputFormatDOT.String()}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the header dependency graph",
		Long: `Render the dependency graph between headers.

The graph is drawn even when it contains cycles or includes of files that
were not found, which makes it the place to look when a build fails. Cycle
edges are highlighted and missing files are drawn dashed.

Examples:
  amalgam graph                          # DOT
  amalgam graph -f mermaid
  amalgam graph --between db.h,spline.h   # only paths joining these headers
  amalgam graph -r src -c HEAD~1 | dot -Tsvg > graph.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	opts.AddConfigFlag(cmd)
	opts.AddTreeFlags(cmd, true)
	opts.AddRegistryFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().StringSliceVar(&opts.between, "between", nil, "Limit the graph to headers on include paths between these headers")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	formatter, err := NewFormatter(opts.format)
	if err != nil {
		return err
	}

	runOpts, err := opts.Options(cmd)
	if err != nil {
		return err
	}

	graph, err := amalgamation.Graph(cmd.Context(), runOpts)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}

	if len(opts.between) > 0 {
		for _, name := range opts.between {
			if _, ok := graph[name]; !ok {
				return fmt.Errorf("header not found in dependency graph: %s", name)
			}
		}
		graph = depgraph.Subgraph(graph, opts.between)
	}

	cycles, err := depgraph.FindCycles(graph)
	if err != nil {
		return fmt.Errorf("failed to find cycles: %w", err)
	}

	output, err := formatter.Format(graph, formatters.RenderOptions{
		Label:  graphLabel(runOpts),
		Cycles: cycles,
	})
	if err != nil {
		return err
	}

	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}

func graphLabel(opts amalgamation.Options) string {
	name := filepath.Base(opts.Root)
	if abs, err := filepath.Abs(opts.Root); err == nil {
		name = filepath.Base(abs)
	}
	if opts.Commit != "" {
		return fmt.Sprintf("%s @ %s", name, opts.Commit)
	}
	return name
}
