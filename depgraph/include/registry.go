package include

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// standardCHeaders is the C standard library as of C11.
var standardCHeaders = []string{
	"assert.h",
	"complex.h",
	"ctype.h",
	"errno.h",
	"fenv.h",
	"float.h",
	"inttypes.h",
	"iso646.h",
	"limits.h",
	"locale.h",
	"math.h",
	"setjmp.h",
	"signal.h",
	"stdalign.h",
	"stdarg.h",
	"stdatomic.h",
	"stdbool.h",
	"stddef.h",
	"stdint.h",
	"stdio.h",
	"stdlib.h",
	"stdnoreturn.h",
	"string.h",
	"tgmath.h",
	"threads.h",
	"time.h",
	"uchar.h",
	"wchar.h",
	"wctype.h",
}

// Registry is the flat set of header names treated as system headers.
// A Registry is read-only once built.
type Registry struct {
	names map[string]bool
}

// NewRegistry builds a registry from header names such as "stdio.h".
func NewRegistry(names ...string) *Registry {
	r := &Registry{names: make(map[string]bool, len(names))}
	for _, name := range names {
		if name = normalizeRegistryEntry(name); name != "" {
			r.names[name] = true
		}
	}
	return r
}

// DefaultRegistry returns a registry holding the C standard library headers.
func DefaultRegistry() *Registry {
	return NewRegistry(standardCHeaders...)
}

// With returns a new registry holding r's names plus extra.
func (r *Registry) With(extra ...string) *Registry {
	return NewRegistry(append(r.Names(), extra...)...)
}

// Contains reports whether path names a registered system header.
func (r *Registry) Contains(path string) bool {
	return r.names[filepath.ToSlash(strings.TrimSpace(path))]
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.names)
}

// ReadRegistryEntries parses a registry listing. Each line is either a bare
// header name or an include directive; blank lines and lines starting with
// "//" or a "#" that is not "#include" are ignored.
func ReadRegistryEntries(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "#") && !isIncludeLine(line) {
			continue
		}
		if entry := normalizeRegistryEntry(line); entry != "" {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadRegistryFile reads registry entries from path.
func LoadRegistryFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open system header list: %w", err)
	}
	defer f.Close()

	entries, err := ReadRegistryEntries(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read system header list %s: %w", path, err)
	}
	return entries, nil
}

func isIncludeLine(line string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	return strings.HasPrefix(rest, "include")
}

func normalizeRegistryEntry(entry string) string {
	entry = strings.TrimSpace(entry)
	if isIncludeLine(entry) {
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "#"))
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "include"))
	}
	entry = strings.Trim(entry, "<>\" \t")
	return filepath.ToSlash(entry)
}
