package depgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFiles is returned when discovery finds no file of the requested kind.
var ErrNoFiles = errors.New("no matching files found")

// ReadError reports a file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DuplicateNameError reports two or more files sharing one short name.
type DuplicateNameError struct {
	Name  string
	Paths []string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate file name %q: %s", e.Name, strings.Join(e.Paths, ", "))
}

// MissingDependencyError reports a dependency name with no node in the graph.
type MissingDependencyError struct {
	Name       string
	RequiredBy string
}

func (e *MissingDependencyError) Error() string {
	if e.RequiredBy == "" {
		return fmt.Sprintf("missing dependency %q", e.Name)
	}
	return fmt.Sprintf("missing dependency %q (required by %q)", e.Name, e.RequiredBy)
}

// CycleError reports a back edge found while sorting. Node is the dependency
// that closed the cycle; which node gets blamed depends on traversal order.
// Path runs from Node's position on the active path back to Node.
type CycleError struct {
	Node string
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("dependency cycle detected at %q", e.Node)
	}
	return fmt.Sprintf("dependency cycle detected at %q: %s", e.Node, strings.Join(e.Path, " -> "))
}
