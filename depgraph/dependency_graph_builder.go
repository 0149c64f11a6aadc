package depgraph

// BuildDependencyGraph turns records into an adjacency map from each record's
// name to its local dependencies. Missing dependencies are carried through
// untouched; they surface when the graph is sorted.
func BuildDependencyGraph(records []FileRecord) DependencyGraph {
	graph := make(DependencyGraph, len(records))
	for _, record := range records {
		graph[record.Name] = deduplicate(record.LocalDependencies)
	}
	return graph
}

// deduplicate removes duplicate entries and returns them in lexical order.
func deduplicate(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}
	return sortedStrings(result)
}
