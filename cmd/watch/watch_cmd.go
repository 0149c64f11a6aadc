package watch

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/LegacyCodeHQ/amalgam/amalgamation"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters/dot"
	"github.com/LegacyCodeHQ/amalgam/cmd/options"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	options.Amalgamation
	serve bool
	port  int
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: 4900,
	}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the amalgamation whenever a header or source changes",
		Long: `Build the amalgamation, then watch the root directory and rebuild after
every burst of header or source changes. A failed build is reported and the
watcher keeps running, so a cycle can be fixed without restarting.

With --serve, the current header graph is also served as a live-updating
page at localhost.

Examples:
  amalgam watch
  amalgam watch -r src -o dist -n EmbedDB
  amalgam watch --serve -P 4900`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	opts.AddConfigFlag(cmd)
	opts.AddTreeFlags(cmd, false)
	opts.AddOutputFlags(cmd)
	opts.AddRegistryFlags(cmd)
	cmd.Flags().BoolVar(&opts.serve, "serve", false, "Serve a live view of the header graph")
	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port for --serve")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	runOpts, err := opts.Options(cmd)
	if err != nil {
		return err
	}
	logger := runOpts.Logger

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var b *broker
	if opts.serve {
		b = newBroker()
		srv := newServer(b, opts.port)

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
		if err != nil {
			return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
		}
		go srv.Serve(ln)
		defer srv.Close()
	}

	watcher, err := newWatcher(runOpts.Root)
	if err != nil {
		return err
	}
	defer watcher.Close()

	extensions := append(append([]string(nil), runOpts.HeaderExtensions...), runOpts.SourceExtensions...)
	filter := newChangeFilter(extensions, runOpts.HeaderPath, runOpts.SourcePath)

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		rebuildOnce(ctx, runOpts, b)
	}

	rebuild()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", runOpts.Root)
	if opts.serve {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return watchAndRebuild(ctx, watcher, filter, rebuild, logger)
}

// rebuildOnce runs the pipeline and, when b is set, publishes the outcome.
// Failures are logged and the graph is still published, so a cycle that
// broke the build shows up in the viewer.
func rebuildOnce(ctx context.Context, opts amalgamation.Options, b *broker) {
	logger := opts.Logger

	result, buildErr := amalgamation.Run(ctx, opts)
	if buildErr != nil {
		logger.Error("Build failed", "err", buildErr)
	}

	if b == nil {
		return
	}

	var s snapshot
	if buildErr != nil {
		s = snapshot{Status: buildErr.Error(), Failed: true}
	} else {
		s = snapshot{Status: fmt.Sprintf("%d headers, %d sources", len(result.Headers), len(result.Sources))}
	}

	graphDOT, err := renderGraph(ctx, opts)
	if err != nil {
		logger.Error("Graph rebuild failed", "err", err)
	} else {
		s.Graph = graphDOT
	}
	b.publish(s)
}

func renderGraph(ctx context.Context, opts amalgamation.Options) (string, error) {
	graph, err := amalgamation.Graph(ctx, opts)
	if err != nil {
		return "", err
	}
	cycles, err := depgraph.FindCycles(graph)
	if err != nil {
		return "", err
	}
	return (&dot.Formatter{}).Format(graph, formatters.RenderOptions{Cycles: cycles})
}
