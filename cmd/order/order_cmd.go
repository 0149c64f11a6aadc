package order

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/amalgam/amalgamation"
	"github.com/LegacyCodeHQ/amalgam/cmd/options"
	"github.com/spf13/cobra"
)

type orderOptions struct {
	options.Amalgamation
	format string
}

// Cmd represents the order command.
var Cmd = NewCommand()

// NewCommand returns a new order command instance.
func NewCommand() *cobra.Command {
	opts := &orderOptions{format: "text"}

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the order headers would be merged in",
		Long: `Print the header emission order without writing anything.

Output formats:
  - text: one header name per line (default)
  - json: order, sources and system headers

Examples:
  amalgam order
  amalgam order -r src -f json
  amalgam order -c HEAD`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOrder(cmd, opts)
		},
	}

	opts.AddConfigFlag(cmd)
	opts.AddTreeFlags(cmd, true)
	opts.AddRegistryFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "Output format (text, json)")

	return cmd
}

func runOrder(cmd *cobra.Command, opts *orderOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format: %s (valid options: text, json)", opts.format)
	}

	runOpts, err := opts.Options(cmd)
	if err != nil {
		return err
	}

	result, err := amalgamation.Plan(cmd.Context(), runOpts)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	for _, name := range result.Order {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return err
		}
	}
	return nil
}

type orderJSON struct {
	Commit    string   `json:"commit,omitempty"`
	Headers   []string `json:"headers"`
	Sources   []string `json:"sources"`
	Externals []string `json:"externals"`
}

func writeJSON(w io.Writer, result *amalgamation.Result) error {
	out := orderJSON{
		Commit:    result.Commit,
		Headers:   result.Order,
		Sources:   make([]string, 0, len(result.Sources)),
		Externals: result.Externals,
	}
	for _, source := range result.Sources {
		out.Sources = append(out.Sources, source.Name)
	}
	if out.Externals == nil {
		out.Externals = []string{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
