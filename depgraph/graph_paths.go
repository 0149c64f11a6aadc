package depgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// ErrNoPath is returned by DependencyPath when the target cannot be reached.
var ErrNoPath = errors.New("no dependency path")

// DependencyPath returns the shortest chain of includes leading from from to
// to, both ends included. It explains why to is emitted before from.
func DependencyPath(g DependencyGraph, from, to string) ([]string, error) {
	for _, name := range []string{from, to} {
		if _, ok := g[name]; !ok {
			return nil, fmt.Errorf("%q is not a node of the graph", name)
		}
	}
	if from == to {
		return []string{from}, nil
	}

	converted, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	path, err := graphlib.ShortestPath(converted, from, to)
	if errors.Is(err, graphlib.ErrTargetNotReachable) {
		return nil, fmt.Errorf("%w from %q to %q", ErrNoPath, from, to)
	}
	if err != nil {
		return nil, err
	}
	return path, nil
}

// Subgraph keeps the targets plus every node lying on a directed path
// between any two of them, in either direction. Targets missing from g are
// ignored. Edges survive only when both ends are kept.
func Subgraph(g DependencyGraph, targets []string) DependencyGraph {
	var present []string
	for _, name := range targets {
		if _, ok := g[name]; ok {
			present = append(present, name)
		}
	}

	keep := make(map[string]bool, len(present))
	for _, name := range present {
		keep[name] = true
	}

	reverse := reverseEdges(g)
	for i := range present {
		for j := range present {
			if i == j {
				continue
			}
			downstream := reachable(g, present[i])
			upstream := reachable(reverse, present[j])
			for node := range downstream {
				if upstream[node] {
					keep[node] = true
				}
			}
		}
	}

	result := make(DependencyGraph, len(keep))
	for node := range keep {
		deps := []string{}
		for _, dep := range g[node] {
			if keep[dep] {
				deps = append(deps, dep)
			}
		}
		sort.Strings(deps)
		result[node] = deps
	}
	return result
}

func reverseEdges(g DependencyGraph) DependencyGraph {
	reverse := make(DependencyGraph, len(g))
	for node, deps := range g {
		if _, ok := reverse[node]; !ok {
			reverse[node] = nil
		}
		for _, dep := range deps {
			reverse[dep] = append(reverse[dep], node)
		}
	}
	return reverse
}

// reachable returns every node reachable from start, start included.
func reachable(g DependencyGraph, start string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g[current] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}
