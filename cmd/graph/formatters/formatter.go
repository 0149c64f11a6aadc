package formatters

import "github.com/LegacyCodeHQ/amalgam/depgraph"

// RenderOptions contains optional parameters for rendering dependency graphs.
type RenderOptions struct {
	// Label is an optional title for the graph.
	Label string
	// Cycles are groups of files that depend on each other. Edges inside a
	// group are highlighted.
	Cycles [][]string
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts a dependency graph to a formatted string representation.
	Format(g depgraph.DependencyGraph, opts RenderOptions) (string, error)
}

// CycleMembership maps each file in a cycle to the index of its group.
func CycleMembership(cycles [][]string) map[string]int {
	membership := make(map[string]int)
	for i, group := range cycles {
		for _, name := range group {
			membership[name] = i
		}
	}
	return membership
}

// InCycle reports whether the edge from -> to lies inside one cycle group.
func InCycle(membership map[string]int, from, to string) bool {
	fromGroup, ok := membership[from]
	if !ok {
		return false
	}
	toGroup, ok := membership[to]
	return ok && fromGroup == toGroup
}
