package include

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// Kind distinguishes between system and local includes.
type Kind int

const (
	KindLocal Kind = iota
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Directive is one #include found in a file. Start and End delimit the
// directive's bytes in the parsed source, trailing line break included.
type Directive struct {
	Path  string
	Kind  Kind
	Start int
	End   int
}

// ParseIncludes parses C source code and extracts its include directives in
// source order.
func ParseIncludes(sourceCode []byte) ([]Directive, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, terminated(sourceCode))
	if err != nil {
		return nil, fmt.Errorf("failed to parse C code: %w", err)
	}
	defer tree.Close()

	return extractIncludes(tree.RootNode(), sourceCode), nil
}

// terminated guarantees a final newline; the grammar only closes a
// preprocessor directive at a line break.
func terminated(sourceCode []byte) []byte {
	if len(sourceCode) == 0 || bytes.HasSuffix(sourceCode, []byte("\n")) {
		return sourceCode
	}
	out := make([]byte, len(sourceCode), len(sourceCode)+1)
	copy(out, sourceCode)
	return append(out, '\n')
}

func extractIncludes(rootNode *sitter.Node, sourceCode []byte) []Directive {
	var includes []Directive

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		if n.Type() == "preproc_include" {
			if inc := extractIncludeFromNode(n, sourceCode); inc.Path != "" {
				includes = append(includes, inc)
			}
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return includes
}

func extractIncludeFromNode(node *sitter.Node, sourceCode []byte) Directive {
	end := int(node.EndByte())
	if end > len(sourceCode) {
		end = len(sourceCode)
	}
	span := Directive{Start: int(node.StartByte()), End: end}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "string_literal":
			span.Path = cleanStringLiteral(child.Content(sourceCode))
			span.Kind = KindLocal
			return span
		case "system_lib_string":
			span.Path = cleanSystemInclude(child.Content(sourceCode))
			span.Kind = KindSystem
			return span
		}
	}

	return Directive{}
}

func cleanStringLiteral(raw string) string {
	return strings.Trim(raw, "\"' ")
}

func cleanSystemInclude(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "<")
	trimmed = strings.TrimSuffix(trimmed, ">")
	return strings.TrimSpace(trimmed)
}

// Strip removes every directive from sourceCode. Each directive is replaced
// by a single line break so surrounding lines keep their positions relative
// to each other.
func Strip(sourceCode []byte, directives []Directive) string {
	var sb strings.Builder
	sb.Grow(len(sourceCode))

	cursor := 0
	for _, d := range directives {
		if d.Start < cursor || d.End > len(sourceCode) {
			continue
		}
		sb.Write(sourceCode[cursor:d.Start])
		if d.End > d.Start && sourceCode[d.End-1] == '\n' {
			sb.WriteByte('\n')
		}
		cursor = d.End
	}
	sb.Write(sourceCode[cursor:])

	return sb.String()
}
