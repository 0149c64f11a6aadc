package order

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func diamond(t *testing.T) string {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.h":    "#include \"b.h\"\n#include \"c.h\"\n",
		"b.h":    "#include \"d.h\"\n",
		"c.h":    "#include \"d.h\"\n#include <stdint.h>\n",
		"d.h":    "",
		"main.c": "#include <stdio.h>\n",
	})
	return root
}

func TestOrderCommand_Text(t *testing.T) {
	root := diamond(t)

	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-r", root})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "d.h\nb.h\nc.h\na.h\n", out.String())
}

func TestOrderCommand_JSON(t *testing.T) {
	root := diamond(t)

	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-r", root, "-f", "json"})

	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `{
		"headers": ["d.h", "b.h", "c.h", "a.h"],
		"sources": ["main.c"],
		"externals": ["stdint.h", "stdio.h"]
	}`, out.String())
}

func TestOrderCommand_UnknownFormat(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-f", "yaml"})

	err := cmd.Execute()

	assert.EqualError(t, err, "unknown format: yaml (valid options: text, json)")
}

func TestOrderCommand_MissingDependency(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"d.h":    "#include \"z.h\"\n",
		"main.c": "",
	})

	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-r", root})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing dependency "z.h"`)
}
