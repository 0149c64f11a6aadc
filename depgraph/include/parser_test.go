package include

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncludes(t *testing.T) {
	source := `
#include <stdio.h>
#include "foo/bar.h"
#include "utils"
`
	includes, err := ParseIncludes([]byte(source))

	require.NoError(t, err)
	require.Len(t, includes, 3)

	assert.Equal(t, KindSystem, includes[0].Kind)
	assert.Equal(t, "stdio.h", includes[0].Path)

	assert.Equal(t, KindLocal, includes[1].Kind)
	assert.Equal(t, "foo/bar.h", includes[1].Path)
	assert.Equal(t, KindLocal, includes[2].Kind)
	assert.Equal(t, "utils", includes[2].Path)
}

func TestParseIncludes_InsideConditionalBlocks(t *testing.T) {
	source := `#ifndef CORE_H
#define CORE_H
#ifdef USE_SPLINE
#include "spline.h"
#endif
int core(void);
#endif
`
	includes, err := ParseIncludes([]byte(source))

	require.NoError(t, err)
	require.Len(t, includes, 1)
	assert.Equal(t, "spline.h", includes[0].Path)
}

func TestParseIncludes_NoTrailingNewline(t *testing.T) {
	includes, err := ParseIncludes([]byte(`#include "last.h"`))

	require.NoError(t, err)
	require.Len(t, includes, 1)
	assert.Equal(t, "last.h", includes[0].Path)
}

func TestParseIncludes_IgnoresIncludeTextInComments(t *testing.T) {
	source := `// #include "commented.h"
/* #include <stdlib.h> */
#include "real.h"
`
	includes, err := ParseIncludes([]byte(source))

	require.NoError(t, err)
	require.Len(t, includes, 1)
	assert.Equal(t, "real.h", includes[0].Path)
}

func TestStrip_RemovesDirectivesAndKeepsLineBreaks(t *testing.T) {
	source := []byte("#include <stdio.h>\n#include \"a.h\"\nint x;\n")
	includes, err := ParseIncludes(source)
	require.NoError(t, err)

	assert.Equal(t, "\n\nint x;\n", Strip(source, includes))
}

func TestStrip_NoDirectives(t *testing.T) {
	source := []byte("int x;\n")
	assert.Equal(t, "int x;\n", Strip(source, nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "local", KindLocal.String())
	assert.Equal(t, "system", KindSystem.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
