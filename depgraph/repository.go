package depgraph

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/amalgam/depgraph/include"
	"github.com/LegacyCodeHQ/amalgam/vcs"
)

// Classifier turns raw file content into stripped content plus its local and
// external references.
type Classifier interface {
	Classify(sourceCode []byte) (include.Classification, error)
}

var skippedDirs = map[string]bool{
	".git":    true,
	".hg":     true,
	".svn":    true,
	".idea":   true,
	".vscode": true,
}

// IsSkippedDir reports whether a directory with this base name is left out
// of discovery. Watchers use the same list so every discovered file is
// watched.
func IsSkippedDir(name string) bool {
	return skippedDirs[name]
}

// Discover walks root recursively and returns every file whose extension is
// in extensions, in lexical walk order. Extensions may be given with or
// without the leading dot. ErrNoFiles is returned when nothing matches.
func Discover(root string, extensions []string) ([]string, error) {
	wanted := normalizeExtensions(extensions)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if wanted[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s files under %s", ErrNoFiles, describeExtensions(extensions), root)
	}
	return files, nil
}

func inSkippedDir(rel string) bool {
	parts := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")
	for _, part := range parts {
		if skippedDirs[part] {
			return true
		}
	}
	return false
}

// Select filters an existing listing (for example a git tree) down to the
// files under root with a wanted extension, sorted by path.
func Select(paths []string, root string, extensions []string) ([]string, error) {
	wanted := normalizeExtensions(extensions)
	root = filepath.Clean(root)

	var files []string
	for _, p := range paths {
		if !wanted[filepath.Ext(p)] {
			continue
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if inSkippedDir(rel) {
			continue
		}
		files = append(files, p)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s files under %s", ErrNoFiles, describeExtensions(extensions), root)
	}
	return files, nil
}

// LoadFileRecords reads and classifies each path into a FileRecord. Records
// are returned in the order of paths. Any read failure aborts the load, and
// two paths sharing a base name are rejected with DuplicateNameError.
func LoadFileRecords(paths []string, contentReader vcs.ContentReader, classifier Classifier) ([]FileRecord, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if err := checkUniqueNames(paths); err != nil {
		return nil, err
	}

	records := make([]FileRecord, 0, len(paths))
	for _, path := range paths {
		content, err := contentReader(path)
		if err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}

		classification, err := classifier.Classify(content)
		if err != nil {
			return nil, fmt.Errorf("failed to classify %s: %w", path, err)
		}

		records = append(records, FileRecord{
			Name:                 filepath.Base(path),
			Path:                 path,
			Content:              classification.Content,
			LocalDependencies:    classification.Local,
			ExternalDependencies: classification.External,
			Unregistered:         classification.Unregistered,
		})
	}

	return records, nil
}

// IndexByName maps each record's name to the record.
func IndexByName(records []FileRecord) (map[string]FileRecord, error) {
	index := make(map[string]FileRecord, len(records))
	for _, record := range records {
		if existing, ok := index[record.Name]; ok {
			return nil, &DuplicateNameError{Name: record.Name, Paths: []string{existing.Path, record.Path}}
		}
		index[record.Name] = record
	}
	return index, nil
}

// OrderRecords arranges records to follow order, a list of record names.
func OrderRecords(records []FileRecord, order []string) ([]FileRecord, error) {
	index, err := IndexByName(records)
	if err != nil {
		return nil, err
	}

	ordered := make([]FileRecord, 0, len(order))
	for _, name := range order {
		record, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("no file record for %q", name)
		}
		ordered = append(ordered, record)
	}
	return ordered, nil
}

func checkUniqueNames(paths []string) error {
	byName := make(map[string][]string)
	for _, p := range paths {
		name := filepath.Base(p)
		byName[name] = append(byName[name], p)
	}

	names := make([]string, 0, len(byName))
	for name, group := range byName {
		if len(group) > 1 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	sort.Strings(names)
	return &DuplicateNameError{Name: names[0], Paths: byName[names[0]]}
}

func normalizeExtensions(extensions []string) map[string]bool {
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = true
	}
	return wanted
}

func describeExtensions(extensions []string) string {
	parts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		parts = append(parts, "*."+strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	return strings.Join(parts, ", ")
}
