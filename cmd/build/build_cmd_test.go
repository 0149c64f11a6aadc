package build

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/amalgam/depgraph"
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

func TestBuildCommand_WritesAmalgamation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.h":    "#include \"b.h\"\n#include <stdio.h>\nvoid a(void);\n",
		"src/b.h":    "int b(void);\n",
		"src/main.c": "#include \"a.h\"\nint main(void) { a(); return b(); }\n",
	})
	out := filepath.Join(root, "dist")

	cmd := NewCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"-r", filepath.Join(root, "src"), "-o", out, "-n", "merged"})

	require.NoError(t, cmd.Execute())

	header, err := os.ReadFile(filepath.Join(out, "merged.h"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(header, []byte("#include <stdio.h>\n")))
	assert.Less(t, bytes.Index(header, []byte("int b(void);")), bytes.Index(header, []byte("void a(void);")))

	source, err := os.ReadFile(filepath.Join(out, "merged.c"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(source, []byte("#include \"merged.h\"\n")))

	assert.Contains(t, stdout.String(), "2 headers, 1 sources, 1 system headers")
}

func TestBuildCommand_CycleFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"x.h":    "#include \"y.h\"\n",
		"y.h":    "#include \"x.h\"\n",
		"main.c": "",
	})

	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-r", root, "-o", filepath.Join(root, "out")})

	err := cmd.Execute()

	var cycleErr *depgraph.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.NoDirExists(t, filepath.Join(root, "out"))
}

func TestBuildCommand_RejectsArguments(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
