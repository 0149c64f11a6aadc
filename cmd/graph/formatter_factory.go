package graph

import (
	"fmt"

	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters/dot"
	"github.com/LegacyCodeHQ/amalgam/cmd/graph/formatters/mermaid"
)

// headerGraphFormatters maps each -f value to the renderer for the header
// include graph. DOT feeds Graphviz and the watch viewer; Mermaid pastes
// into Markdown.
var headerGraphFormatters = map[formatters.OutputFormat]func() formatters.Formatter{
	formatters.OutputFormatDOT:     func() formatters.Formatter { return &dot.Formatter{} },
	formatters.OutputFormatMermaid: func() formatters.Formatter { return &mermaid.Formatter{} },
}

// NewFormatter returns the header graph renderer for a -f value, matched
// without regard to case.
func NewFormatter(format string) (formatters.Formatter, error) {
	if f, ok := formatters.ParseOutputFormat(format); ok {
		if newFormatter, ok := headerGraphFormatters[f]; ok {
			return newFormatter(), nil
		}
	}
	return nil, fmt.Errorf("unknown graph format: %s (valid options: %s)", format, formatters.SupportedFormats())
}
