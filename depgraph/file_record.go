package depgraph

// FileRecord is one discovered header or source file. Records are built once
// by LoadFileRecords and never mutated afterwards.
type FileRecord struct {
	// Name is the file's base name and its identity in the graph.
	Name string
	// Path is where the file was read from. It plays no part in ordering.
	Path string
	// Content is the file text with include directives stripped.
	Content string
	// LocalDependencies are names of project files this file includes,
	// sorted and unique. A self-include is kept so the sorter can flag it.
	LocalDependencies []string
	// ExternalDependencies are system header names, sorted and unique.
	ExternalDependencies []string
	// Unregistered is the subset of ExternalDependencies written with angle
	// brackets but absent from the system header registry.
	Unregistered []string
}

// ExternalDependencies aggregates the system headers referenced by every
// record in groups into one sorted, duplicate-free list.
func ExternalDependencies(groups ...[]FileRecord) []string {
	seen := make(map[string]bool)
	var result []string
	for _, records := range groups {
		for _, record := range records {
			for _, dep := range record.ExternalDependencies {
				if !seen[dep] {
					seen[dep] = true
					result = append(result, dep)
				}
			}
		}
	}
	return sortedStrings(result)
}
