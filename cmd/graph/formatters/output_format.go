package formatters

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatMermaid OutputFormat = "mermaid"
)

var supportedFormats = []OutputFormat{OutputFormatDOT, OutputFormatMermaid}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat matches name against the supported formats, ignoring case.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	for _, f := range supportedFormats {
		if strings.EqualFold(name, f.String()) {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats lists the format names for help and error messages.
func SupportedFormats() string {
	names := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
