package depgraph

import (
	"errors"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// ToGraph converts g into a directed graphlib graph keyed by file name.
// Dependencies without a node of their own are added as dashed vertices so
// renderers can show them.
func ToGraph(g DependencyGraph) (graphlib.Graph[string, string], error) {
	out := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, node := range g.Nodes() {
		if err := out.AddVertex(node); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, err
		}
	}

	for _, node := range g.Nodes() {
		for _, dep := range g[node] {
			if _, ok := g[dep]; !ok {
				err := out.AddVertex(dep, graphlib.VertexAttribute("style", "dashed"))
				if err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
					return nil, err
				}
			}
			if err := out.AddEdge(node, dep); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}

	return out, nil
}

// FindCycles returns every group of nodes that depend on each other, one
// sorted slice per strongly connected component, plus single nodes that
// include themselves. Groups are ordered by their first name.
//
// TopologicalSort stops at the first back edge it meets; FindCycles is the
// full report used when that happens.
func FindCycles(g DependencyGraph) ([][]string, error) {
	converted, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	components, err := graphlib.StronglyConnectedComponents(converted)
	if err != nil {
		return nil, err
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) == 1 && !dependsOnItself(g, component[0]) {
			continue
		}
		cycles = append(cycles, sortedStrings(component))
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

func dependsOnItself(g DependencyGraph, node string) bool {
	for _, dep := range g[node] {
		if dep == node {
			return true
		}
	}
	return false
}
