package why

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LegacyCodeHQ/amalgam/amalgamation"
	"github.com/LegacyCodeHQ/amalgam/cmd/options"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type whyOptions struct {
	options.Amalgamation
	format string
}

// explanation is the answer to "why does one header precede another".
type explanation struct {
	First  string   `json:"first"`
	Second string   `json:"second"`
	Path   []string `json:"path"`
}

// Cmd represents the why command.
var Cmd = NewCommand()

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{format: formatText}

	cmd := &cobra.Command{
		Use:   "why <a.h> <b.h>",
		Short: "Explain the relative order of two headers",
		Long: `Explain why one header is merged before another.

Prints the shortest include chain that forces the order. Headers with no
chain between them in either direction are ordered by name.

Examples:
  amalgam why embedDB.h spline.h
  amalgam why -f json embedDB.h spline.h`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1])
		},
	}

	opts.AddConfigFlag(cmd)
	opts.AddTreeFlags(cmd, true)
	opts.AddRegistryFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "Output format (text, json)")

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, a, b string) error {
	if opts.format != formatText && opts.format != formatJSON {
		return fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.format, formatText, formatJSON)
	}

	runOpts, err := opts.Options(cmd)
	if err != nil {
		return err
	}

	graph, err := amalgamation.Graph(cmd.Context(), runOpts)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	for _, name := range []string{a, b} {
		if _, ok := graph[name]; !ok {
			return fmt.Errorf("header not found in dependency graph: %s", name)
		}
	}

	result, err := explain(graph, a, b)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), textOutput(result))
	return err
}

// explain looks for an include chain in both directions. The header at the
// end of the chain is merged first.
func explain(graph depgraph.DependencyGraph, a, b string) (explanation, error) {
	path, err := depgraph.DependencyPath(graph, a, b)
	if err == nil {
		return explanation{First: b, Second: a, Path: path}, nil
	}
	if !errors.Is(err, depgraph.ErrNoPath) {
		return explanation{}, err
	}

	path, err = depgraph.DependencyPath(graph, b, a)
	if err == nil {
		return explanation{First: a, Second: b, Path: path}, nil
	}
	if !errors.Is(err, depgraph.ErrNoPath) {
		return explanation{}, err
	}

	first, second := a, b
	if second < first {
		first, second = second, first
	}
	return explanation{First: first, Second: second, Path: []string{}}, nil
}

func textOutput(e explanation) string {
	var sb strings.Builder
	if len(e.Path) == 0 {
		fmt.Fprintf(&sb, "%s and %s do not include each other; %s comes first by name\n", e.First, e.Second, e.First)
		return sb.String()
	}

	if len(e.Path) == 2 {
		fmt.Fprintf(&sb, "%s comes before %s because %s includes it directly\n", e.First, e.Second, e.Second)
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s comes before %s through %d includes:\n", e.First, e.Second, len(e.Path)-1)
	for i, name := range e.Path {
		if i == 0 {
			fmt.Fprintf(&sb, "  %s\n", name)
			continue
		}
		fmt.Fprintf(&sb, "  -> %s\n", name)
	}
	return sb.String()
}

func writeJSON(w io.Writer, e explanation) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
