package depgraph

import "sort"

// DependencyGraph maps a file name to the names it depends on.
type DependencyGraph map[string][]string

// Nodes returns the graph's node names in lexical order.
func (g DependencyGraph) Nodes() []string {
	nodes := make([]string, 0, len(g))
	for node := range g {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// EdgeCount returns the number of dependency edges in the graph.
func (g DependencyGraph) EdgeCount() int {
	count := 0
	for _, deps := range g {
		count += len(deps)
	}
	return count
}

// MissingDependencies returns every dependency name that has no node of its
// own, sorted. The sorter reports only the first one it reaches.
func (g DependencyGraph) MissingDependencies() []string {
	seen := make(map[string]bool)
	var missing []string
	for _, deps := range g {
		for _, dep := range deps {
			if _, ok := g[dep]; ok || seen[dep] {
				continue
			}
			seen[dep] = true
			missing = append(missing, dep)
		}
	}
	sort.Strings(missing)
	return missing
}

func sortedStrings(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
