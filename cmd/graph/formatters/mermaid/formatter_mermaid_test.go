package mermaid_test

import (
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters/mermaid"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mermaidGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}

func TestMermaidFormatter_BasicFlowchart(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"b.h", "c.h"},
		"b.h": {"c.h"},
		"c.h": {},
	}

	output, err := (&mermaid.Formatter{}).Format(graph, formatters.RenderOptions{})
	require.NoError(t, err)

	g := mermaidGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestMermaidFormatter_WithLabel(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"only.h": {},
	}

	output, err := (&mermaid.Formatter{}).Format(graph, formatters.RenderOptions{Label: "src"})
	require.NoError(t, err)

	g := mermaidGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestMermaidFormatter_CyclesAndMissingFiles(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"x.h"},
		"x.h": {"y.h"},
		"y.h": {"x.h", "z.h"},
	}

	output, err := (&mermaid.Formatter{}).Format(graph, formatters.RenderOptions{
		Cycles: [][]string{{"x.h", "y.h"}},
	})
	require.NoError(t, err)

	g := mermaidGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestMermaidFormatter_CycleCommentListsMembers(t *testing.T) {
	graph := depgraph.DependencyGraph{
		"a.h": {"c.h"},
		"c.h": {"b.h"},
		"b.h": {"a.h"},
	}

	output, err := (&mermaid.Formatter{}).Format(graph, formatters.RenderOptions{
		Cycles: [][]string{{"a.h", "b.h", "c.h"}},
	})
	require.NoError(t, err)

	lines := strings.Split(output, "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "%% C1: a.h, b.h, c.h", lines[1])
	assert.NotContains(t, output, "a.h -> b.h")
}
