package mermaid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
)

// Formatter formats dependency graphs as Mermaid.js flowcharts.
type Formatter struct{}

// Format converts the dependency graph to Mermaid.js flowchart format.
func (f *Formatter) Format(g depgraph.DependencyGraph, opts formatters.RenderOptions) (string, error) {
	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	// Cycle groups list their members, not a path: a group of three or more
	// need not contain an edge between neighbours in lexical order.
	for i, cycle := range opts.Cycles {
		if len(cycle) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%%%% C%d: %s\n", i+1, strings.Join(cycle, ", ")))
	}

	// Discovered files first, then names that were included but never found.
	nodes := g.Nodes()
	missing := g.MissingDependencies()
	all := append(append([]string(nil), nodes...), missing...)

	// Mermaid node IDs can't have dots or special characters.
	nodeIDs := make(map[string]string, len(all))
	for i, name := range all {
		nodeIDs[name] = fmt.Sprintf("n%d", i)
	}

	for _, name := range all {
		label := strings.ReplaceAll(name, "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeIDs[name], label))
	}

	membership := formatters.CycleMembership(opts.Cycles)
	var edgesSB strings.Builder
	edgeIndex := 0
	var cycleEdgeIndices []int
	for _, source := range nodes {
		deps := append([]string(nil), g[source]...)
		sort.Strings(deps)
		for _, dep := range deps {
			edgesSB.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[source], nodeIDs[dep]))
			if formatters.InCycle(membership, source, dep) {
				cycleEdgeIndices = append(cycleEdgeIndices, edgeIndex)
			}
			edgeIndex++
		}
	}

	var stylesSB strings.Builder
	if len(missing) > 0 {
		ids := make([]string, 0, len(missing))
		for _, name := range missing {
			ids = append(ids, nodeIDs[name])
		}
		stylesSB.WriteString("    classDef missing fill:#FFFFFF,stroke:#999999,stroke-dasharray: 5 5,color:#666666\n")
		stylesSB.WriteString(fmt.Sprintf("    class %s missing\n", strings.Join(ids, ",")))
	}
	for _, name := range nodes {
		if _, ok := membership[name]; ok {
			stylesSB.WriteString(fmt.Sprintf("    style %s stroke:#d62728,stroke-width:3px\n", nodeIDs[name]))
		}
	}
	for _, idx := range cycleEdgeIndices {
		stylesSB.WriteString(fmt.Sprintf("    linkStyle %d stroke:#d62728,stroke-width:3px,stroke-dasharray: 5 5\n", idx))
	}

	if edgeIndex > 0 {
		sb.WriteString("\n")
		sb.WriteString(edgesSB.String())
	}
	if stylesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(stylesSB.String())
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}
