package depgraph_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSort_Chain(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {"c.h"},
		"c.h": {},
	}

	order, err := depgraph.TopologicalSort(graph)

	require.NoError(t, err)
	assert.Equal(t, []string{"c.h", "b.h", "a.h"}, order)
}

func TestTopologicalSort_TwoNodeCycle(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"x.h": {"y.h"},
		"y.h": {"x.h"},
	}

	order, err := depgraph.TopologicalSort(graph)

	require.Error(t, err)
	assert.Nil(t, order)

	var cycleErr *depgraph.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, "x.h", cycleErr.Node)
	assert.Equal(t, []string{"x.h", "y.h", "x.h"}, cycleErr.Path)
}

func TestTopologicalSort_MissingDependency(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"d.h": {"z.h"},
	}

	order, err := depgraph.TopologicalSort(graph)

	require.Error(t, err)
	assert.Nil(t, order)

	var missingErr *depgraph.MissingDependencyError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, "z.h", missingErr.Name)
	assert.Equal(t, "d.h", missingErr.RequiredBy)

	var cycleErr *depgraph.CycleError
	assert.False(t, errors.As(err, &cycleErr))
}

func TestTopologicalSort_Diamond(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h", "c.h"},
		"b.h": {"d.h"},
		"c.h": {"d.h"},
		"d.h": {},
	}

	order, err := depgraph.TopologicalSort(graph)

	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.Equal(t, "d.h", order[0])
	assert.Equal(t, "a.h", order[3])
	assert.ElementsMatch(t, []string{"b.h", "c.h"}, order[1:3])
	assert.True(t, depgraph.IsTopologicalOrder(graph, order))
}

func TestTopologicalSort_SelfIncludeIsCycle(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"self.h": {"self.h"},
	}

	_, err := depgraph.TopologicalSort(graph)

	var cycleErr *depgraph.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, "self.h", cycleErr.Node)
	assert.Equal(t, []string{"self.h", "self.h"}, cycleErr.Path)
}

func TestTopologicalSort_LongCycleReportsActivePath(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"entry.h": {"a.h"},
		"a.h":     {"b.h"},
		"b.h":     {"c.h"},
		"c.h":     {"a.h"},
	}

	_, err := depgraph.TopologicalSort(graph)

	var cycleErr *depgraph.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, "a.h", cycleErr.Node)
	assert.Equal(t, []string{"a.h", "b.h", "c.h", "a.h"}, cycleErr.Path)
	assert.Contains(t, err.Error(), "a.h -> b.h -> c.h -> a.h")
}

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	order, err := depgraph.TopologicalSort(depgraph.DependencyGraph{})

	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestTopologicalSort_DisconnectedNodesAreLexical(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"zeta.h":  {},
		"alpha.h": {},
		"mid.h":   {},
	}

	order, err := depgraph.TopologicalSort(graph)

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.h", "mid.h", "zeta.h"}, order)
}

func TestTopologicalSort_IsDeterministic(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"app.h":    {"net.h", "log.h", "buffer.h"},
		"net.h":    {"buffer.h", "log.h"},
		"log.h":    {"buffer.h"},
		"buffer.h": {},
		"extra.h":  {},
	}

	first, err := depgraph.TopologicalSort(graph)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := depgraph.TopologicalSort(graph)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTopologicalSort_DeepChainDoesNotExhaustStack(t *testing.T) {
	const depth = 200000

	graph := make(depgraph.DependencyGraph, depth)
	for i := 0; i < depth; i++ {
		name := fmt.Sprintf("n%06d.h", i)
		if i == depth-1 {
			graph[name] = []string{}
			continue
		}
		graph[name] = []string{fmt.Sprintf("n%06d.h", i+1)}
	}

	order, err := depgraph.TopologicalSort(graph)

	require.NoError(t, err)
	require.Len(t, order, depth)
	assert.Equal(t, fmt.Sprintf("n%06d.h", depth-1), order[0])
	assert.Equal(t, "n000000.h", order[depth-1])
}

func TestTopologicalSort_RandomAcyclicGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		graph := randomDAG(rng, 1+rng.Intn(40))

		order, err := depgraph.TopologicalSort(graph)

		require.NoError(t, err, "round %d", round)
		require.True(t, depgraph.IsTopologicalOrder(graph, order), "round %d: %v", round, order)
	}
}

func TestTopologicalSort_RandomGraphsWithInjectedCycle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		size := 2 + rng.Intn(30)
		graph := randomDAG(rng, size)

		// Edges in randomDAG always point from a higher index to a lower one,
		// so one edge pointing upward closes a cycle.
		low := rng.Intn(size - 1)
		high := low + 1 + rng.Intn(size-low-1)
		graph[nodeName(high)] = append(graph[nodeName(high)], nodeName(low))
		graph[nodeName(low)] = append(graph[nodeName(low)], nodeName(high))

		order, err := depgraph.TopologicalSort(graph)

		var cycleErr *depgraph.CycleError
		require.True(t, errors.As(err, &cycleErr), "round %d: err = %v", round, err)
		assert.Nil(t, order)
	}
}

func TestIsTopologicalOrder(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {},
	}

	assert.True(t, depgraph.IsTopologicalOrder(graph, []string{"b.h", "a.h"}))
	assert.False(t, depgraph.IsTopologicalOrder(graph, []string{"a.h", "b.h"}))
	assert.False(t, depgraph.IsTopologicalOrder(graph, []string{"b.h"}))
	assert.False(t, depgraph.IsTopologicalOrder(graph, []string{"b.h", "b.h"}))
}

func nodeName(i int) string {
	return fmt.Sprintf("node%02d.h", i)
}

// randomDAG builds a graph whose edges only point from higher to lower
// indexes, which rules out cycles.
func randomDAG(rng *rand.Rand, size int) depgraph.DependencyGraph {
	graph := make(depgraph.DependencyGraph, size)
	for i := 0; i < size; i++ {
		deps := []string{}
		for j := 0; j < i; j++ {
			if rng.Intn(4) == 0 {
				deps = append(deps, nodeName(j))
			}
		}
		graph[nodeName(i)] = deps
	}
	return graph
}
