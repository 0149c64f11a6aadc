package depgraph

// TopologicalSort orders every node of g so that each node comes after all of
// its dependencies. It is a depth-first post-order walk driven by an explicit
// stack, so chain length is bounded by memory rather than goroutine stack.
//
// Roots are visited in lexical order and each node's dependencies are walked
// in lexical order, which makes the result deterministic for a given graph.
//
// A dependency that is still on the active path is a cycle and aborts the
// sort with *CycleError; a self-include counts. A dependency with no entry in
// g aborts with *MissingDependencyError. Nothing is returned on failure.
//
// All tracking state is local to the call.
func TopologicalSort(g DependencyGraph) ([]string, error) {
	visited := make(map[string]bool, len(g))
	onPath := make(map[string]bool)
	order := make([]string, 0, len(g))
	var stack []sortFrame

	enter := func(node, requiredBy string) error {
		deps, ok := g[node]
		if !ok {
			return &MissingDependencyError{Name: node, RequiredBy: requiredBy}
		}
		onPath[node] = true
		stack = append(stack, sortFrame{node: node, deps: sortedStrings(deps)})
		return nil
	}

	for _, root := range g.Nodes() {
		if visited[root] {
			continue
		}
		if err := enter(root, ""); err != nil {
			return nil, err
		}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.next < len(top.deps) {
				dep := top.deps[top.next]
				top.next++

				if onPath[dep] {
					return nil, &CycleError{Node: dep, Path: activePathFrom(stack, dep)}
				}
				if visited[dep] {
					continue
				}
				if err := enter(dep, top.node); err != nil {
					return nil, err
				}
				continue
			}

			delete(onPath, top.node)
			visited[top.node] = true
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	return order, nil
}

// sortFrame is one node being explored; next indexes the dependency to
// visit when control returns to it.
type sortFrame struct {
	node string
	deps []string
	next int
}

// activePathFrom returns the names on the stack from the frame holding node to
// the top, closed with node again.
func activePathFrom(stack []sortFrame, node string) []string {
	start := 0
	for i, f := range stack {
		if f.node == node {
			start = i
			break
		}
	}

	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node)
	}
	return append(path, node)
}

// IsTopologicalOrder reports whether order lists every node of g exactly once
// with each dependency placed before its dependents.
func IsTopologicalOrder(g DependencyGraph, order []string) bool {
	if len(order) != len(g) {
		return false
	}

	position := make(map[string]int, len(order))
	for i, node := range order {
		if _, dup := position[node]; dup {
			return false
		}
		if _, ok := g[node]; !ok {
			return false
		}
		position[node] = i
	}

	for node, deps := range g {
		for _, dep := range deps {
			depPos, ok := position[dep]
			if !ok || depPos >= position[node] {
				return false
			}
		}
	}
	return true
}
