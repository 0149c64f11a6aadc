package depgraph_test

import (
	"errors"
	"testing"

	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyPath_Chain(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {"c.h"},
		"c.h": {},
	}

	path, err := depgraph.DependencyPath(graph, "a.h", "c.h")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.h", "b.h", "c.h"}, path)
}

func TestDependencyPath_PrefersShortest(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h", "d.h"},
		"b.h": {"c.h"},
		"c.h": {"d.h"},
		"d.h": {},
	}

	path, err := depgraph.DependencyPath(graph, "a.h", "d.h")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.h", "d.h"}, path)
}

func TestDependencyPath_NotReachable(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {},
	}

	_, err := depgraph.DependencyPath(graph, "b.h", "a.h")

	assert.True(t, errors.Is(err, depgraph.ErrNoPath))
}

func TestDependencyPath_UnknownNode(t *testing.T) {
	graph := depgraph.DependencyGraph{"a.h": {}}

	_, err := depgraph.DependencyPath(graph, "a.h", "zzz.h")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"zzz.h" is not a node`)
}

func TestDependencyPath_SameNode(t *testing.T) {
	graph := depgraph.DependencyGraph{"a.h": {}}

	path, err := depgraph.DependencyPath(graph, "a.h", "a.h")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.h"}, path)
}

func TestSubgraph_Linear(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {"c.h"},
		"c.h": {"d.h"},
		"d.h": {},
	}

	result := depgraph.Subgraph(graph, []string{"a.h", "c.h"})

	assert.Equal(t, depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {"c.h"},
		"c.h": {},
	}, result)
}

func TestSubgraph_Diamond(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h", "c.h"},
		"b.h": {"d.h"},
		"c.h": {"d.h"},
		"d.h": {},
		"e.h": {"a.h"},
	}

	result := depgraph.Subgraph(graph, []string{"d.h", "a.h"})

	assert.ElementsMatch(t, []string{"a.h", "b.h", "c.h", "d.h"}, result.Nodes())
}

func TestSubgraph_Disconnected(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h"},
		"b.h": {},
		"c.h": {"d.h"},
		"d.h": {},
	}

	result := depgraph.Subgraph(graph, []string{"a.h", "c.h", "missing.h"})

	assert.Equal(t, depgraph.DependencyGraph{
		"a.h": {},
		"c.h": {},
	}, result)
}

func TestSubgraph_KeepsCycleBetweenTargets(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"x.h": {"y.h"},
		"y.h": {"x.h"},
		"z.h": {},
	}

	result := depgraph.Subgraph(graph, []string{"x.h", "y.h"})

	assert.Equal(t, depgraph.DependencyGraph{
		"x.h": {"y.h"},
		"y.h": {"x.h"},
	}, result)
}
