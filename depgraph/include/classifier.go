package include

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
)

// Classification is the classifier's view of one file.
type Classification struct {
	// Content is the file text with every include directive removed.
	Content string
	// Local holds the base names of project includes, sorted and unique.
	Local []string
	// External holds system header names, sorted and unique.
	External []string
	// Unregistered lists angle-bracket includes missing from the registry.
	// They are still part of External.
	Unregistered []string
}

// Classifier splits include directives into local and external references.
type Classifier struct {
	registry *Registry
}

// NewClassifier creates a classifier backed by registry. A nil registry
// falls back to DefaultRegistry.
func NewClassifier(registry *Registry) *Classifier {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Classifier{registry: registry}
}

// Registry returns the registry the classifier consults.
func (c *Classifier) Registry() *Registry {
	return c.registry
}

// Classify parses sourceCode, classifies its includes and strips them.
func (c *Classifier) Classify(sourceCode []byte) (Classification, error) {
	directives, err := ParseIncludes(sourceCode)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to parse includes: %w", err)
	}

	local := make(map[string]bool)
	external := make(map[string]bool)
	unregistered := make(map[string]bool)

	for _, d := range directives {
		switch {
		case c.registry.Contains(d.Path):
			external[filepath.ToSlash(d.Path)] = true
		case d.Kind == KindSystem:
			external[filepath.ToSlash(d.Path)] = true
			unregistered[filepath.ToSlash(d.Path)] = true
		default:
			local[LocalName(d.Path)] = true
		}
	}

	return Classification{
		Content:      Strip(sourceCode, directives),
		Local:        sortedKeys(local),
		External:     sortedKeys(external),
		Unregistered: sortedKeys(unregistered),
	}, nil
}

// LocalName normalizes a project include path to the short name used as
// graph identity: "../core/buffer.h" becomes "buffer.h".
func LocalName(includePath string) string {
	return path.Base(filepath.ToSlash(includePath))
}

// Declaration renders the include line emitted for a system header.
func Declaration(name string) string {
	return fmt.Sprintf("#include <%s>", name)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
