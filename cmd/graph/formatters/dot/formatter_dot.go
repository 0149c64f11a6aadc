package dot

import (
	"bytes"
	"fmt"

	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

const cycleColor = "#d62728"

// Formatter formats dependency graphs as Graphviz DOT.
type Formatter struct{}

// Format converts the dependency graph to DOT. Files that are included but
// were not discovered are drawn dashed; edges inside a cycle are drawn red.
func (f *Formatter) Format(g depgraph.DependencyGraph, opts formatters.RenderOptions) (string, error) {
	converted, err := depgraph.ToGraph(g)
	if err != nil {
		return "", err
	}

	membership := formatters.CycleMembership(opts.Cycles)
	for _, node := range g.Nodes() {
		for _, dep := range g[node] {
			if !formatters.InCycle(membership, node, dep) {
				continue
			}
			if err := converted.UpdateEdge(node, dep,
				graphlib.EdgeAttribute("color", cycleColor),
				graphlib.EdgeAttribute("penwidth", "2"),
			); err != nil {
				return "", fmt.Errorf("failed to mark cycle edge %s -> %s: %w", node, dep, err)
			}
		}
	}

	var buf bytes.Buffer
	if opts.Label != "" {
		err = draw.DOT(converted, &buf,
			draw.GraphAttribute("rankdir", "LR"),
			draw.GraphAttribute("label", opts.Label),
		)
	} else {
		err = draw.DOT(converted, &buf, draw.GraphAttribute("rankdir", "LR"))
	}
	if err != nil {
		return "", fmt.Errorf("failed to render DOT: %w", err)
	}

	return buf.String(), nil
}
