package amalgamation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/amalgam/config"
	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/LegacyCodeHQ/amalgam/depgraph/include"
	"github.com/LegacyCodeHQ/amalgam/internal/logging"
	"github.com/LegacyCodeHQ/amalgam/vcs"
	"github.com/LegacyCodeHQ/amalgam/vcs/git"
	"github.com/charmbracelet/log"
)

// Options configures a pipeline run.
type Options struct {
	// Root is the directory whose headers and sources are merged.
	Root             string
	HeaderExtensions []string
	SourceExtensions []string

	// Registry decides which includes are system headers. Nil means
	// include.DefaultRegistry.
	Registry *include.Registry

	// HeaderFileName is what the merged source includes.
	HeaderFileName string
	// HeaderPath and SourcePath are where Run writes. Files at these paths
	// are never read as input, so a rerun does not merge its own output.
	HeaderPath string
	SourcePath string

	// Commit, when set, reads the tree as of that commit instead of the
	// working tree. Root must be inside a git repository.
	Commit string

	Logger *log.Logger
}

// Result holds everything a run computed.
type Result struct {
	// Headers are the header records in emission order.
	Headers []depgraph.FileRecord
	// Sources are the source records in discovery order.
	Sources []depgraph.FileRecord
	Graph   depgraph.DependencyGraph
	// Order is the header emission order by name.
	Order []string
	// Externals is the sorted union of system headers from both kinds.
	Externals []string
	// UnmatchedIncludes maps a source name to local includes that match no
	// header.
	UnmatchedIncludes map[string][]string

	Header string
	Source string

	// Commit is the short hash when the run read from git.
	Commit string
}

// OptionsFromConfig turns a loaded configuration into pipeline options,
// reading the extra registry file if one is configured.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	registry := include.DefaultRegistry().With(cfg.SystemHeaders...)
	if cfg.SystemHeaderFile != "" {
		entries, err := include.LoadRegistryFile(cfg.SystemHeaderFile)
		if err != nil {
			return Options{}, err
		}
		registry = registry.With(entries...)
	}

	return Options{
		Root:             cfg.Root,
		HeaderExtensions: cfg.HeaderExtensions,
		SourceExtensions: cfg.SourceExtensions,
		Registry:         registry,
		HeaderFileName:   cfg.HeaderFileName(),
		HeaderPath:       cfg.HeaderPath(),
		SourcePath:       cfg.SourcePath(),
	}, nil
}

func (o *Options) setDefaults() {
	defaults := config.Default()
	if o.Root == "" {
		o.Root = defaults.Root
	}
	if len(o.HeaderExtensions) == 0 {
		o.HeaderExtensions = defaults.HeaderExtensions
	}
	if len(o.SourceExtensions) == 0 {
		o.SourceExtensions = defaults.SourceExtensions
	}
	if o.Registry == nil {
		o.Registry = include.DefaultRegistry()
	}
	if o.HeaderFileName == "" {
		o.HeaderFileName = defaults.HeaderFileName()
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
}

// Plan runs every stage except writing. Nothing touches the output paths.
func Plan(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults()
	logger := opts.Logger

	tree, err := load(ctx, opts)
	if err != nil {
		return nil, err
	}

	order, err := depgraph.TopologicalSort(tree.graph)
	if err != nil {
		reportSortFailure(logger, tree.graph, err)
		return nil, fmt.Errorf("failed to order headers: %w", err)
	}

	ordered, err := depgraph.OrderRecords(tree.headers, order)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Headers:           ordered,
		Sources:           tree.sources,
		Graph:             tree.graph,
		Order:             order,
		Externals:         depgraph.ExternalDependencies(tree.headers, tree.sources),
		UnmatchedIncludes: unmatchedIncludes(tree.graph, tree.sources),
		Commit:            tree.commit,
	}
	for _, source := range tree.sources {
		if missing, ok := result.UnmatchedIncludes[source.Name]; ok {
			logger.Warn("Source includes a file that is not a discovered header", "file", source.Name, "includes", missing)
		}
	}

	result.Header = AssembleHeader(result.Externals, result.Headers)
	result.Source = AssembleSource(opts.HeaderFileName, result.Sources)
	return result, nil
}

// Graph discovers and classifies the tree and returns the header dependency
// graph without sorting it, so graphs with cycles or missing files can still
// be inspected.
func Graph(ctx context.Context, opts Options) (depgraph.DependencyGraph, error) {
	opts.setDefaults()

	tree, err := load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tree.graph, nil
}

type loadedTree struct {
	headers []depgraph.FileRecord
	sources []depgraph.FileRecord
	graph   depgraph.DependencyGraph
	commit  string
}

func load(ctx context.Context, opts Options) (*loadedTree, error) {
	logger := opts.Logger

	in, err := openInput(opts)
	if err != nil {
		return nil, err
	}

	outputs := newOutputSet(opts.HeaderPath, opts.SourcePath)
	headerPaths, err := in.list(opts.HeaderExtensions, outputs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to discover headers: %w", err)
	}
	sourcePaths, err := in.list(opts.SourceExtensions, outputs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to discover sources: %w", err)
	}
	logger.Info("Discovered files", "root", opts.Root, "headers", len(headerPaths), "sources", len(sourcePaths))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classifier := include.NewClassifier(opts.Registry)
	headers, err := depgraph.LoadFileRecords(headerPaths, in.reader, classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load headers: %w", err)
	}
	sources, err := depgraph.LoadFileRecords(sourcePaths, in.reader, classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	logRecords(logger, headers)
	logRecords(logger, sources)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph := depgraph.BuildDependencyGraph(headers)
	logger.Debug("Built dependency graph", "nodes", len(graph), "edges", graph.EdgeCount())

	return &loadedTree{headers: headers, sources: sources, graph: graph, commit: in.commit}, nil
}

// Run plans the amalgamation and writes the merged header and source. The
// files are written only after every stage succeeded. Either both land or
// neither does, and a failed write restores any previous outputs.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults()
	if opts.HeaderPath == "" || opts.SourcePath == "" {
		return nil, errors.New("output paths are required")
	}

	progress := logging.NewProgress(opts.Logger)

	result, err := Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := writeOutputs([]outputFile{
		{path: opts.HeaderPath, content: result.Header},
		{path: opts.SourcePath, content: result.Source},
	}); err != nil {
		return nil, err
	}

	progress.Done("Wrote amalgamation", "header", opts.HeaderPath, "source", opts.SourcePath)
	return result, nil
}

type input struct {
	root   string
	reader vcs.ContentReader
	// listing is the commit tree; nil means walk the working tree.
	listing []string
	commit  string
}

func openInput(opts Options) (*input, error) {
	if opts.Commit == "" {
		return &input{root: opts.Root, reader: vcs.FilesystemContentReader()}, nil
	}

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", opts.Root, err)
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	repoRoot, err := git.GetRepositoryRoot(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to find git repository for %s: %w", opts.Root, err)
	}
	if err := git.ValidateCommit(repoRoot, opts.Commit); err != nil {
		return nil, err
	}
	listing, err := git.GetCommitTreeFiles(repoRoot, opts.Commit)
	if err != nil {
		return nil, fmt.Errorf("failed to list files in commit %s: %w", opts.Commit, err)
	}
	short, err := git.GetShortCommitHash(repoRoot, opts.Commit)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("Reading from commit", "commit", short, "repository", repoRoot)
	return &input{
		root:    absRoot,
		reader:  vcs.GitCommitContentReader(repoRoot, opts.Commit),
		listing: listing,
		commit:  short,
	}, nil
}

func (in *input) list(extensions []string, outputs outputSet, logger *log.Logger) ([]string, error) {
	var (
		paths []string
		err   error
	)
	if in.listing != nil {
		paths, err = depgraph.Select(in.listing, in.root, extensions)
	} else {
		paths, err = depgraph.Discover(in.root, extensions)
	}
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if outputs.contains(p) {
			logger.Debug("Skipping previous output", "file", p)
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: only previous output found under %s", depgraph.ErrNoFiles, in.root)
	}
	return kept, nil
}

// outputSet holds the absolute forms of the output paths. Both the plain
// absolute path and the one with its directory's symlinks resolved are
// kept, since git listings are rooted at the resolved repository path.
type outputSet map[string]bool

func newOutputSet(paths ...string) outputSet {
	set := make(outputSet, 2*len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		for _, form := range pathForms(p) {
			set[form] = true
		}
	}
	return set
}

func (s outputSet) contains(path string) bool {
	for _, form := range pathForms(path) {
		if s[form] {
			return true
		}
	}
	return false
}

func pathForms(p string) []string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return []string{filepath.Clean(p)}
	}
	forms := []string{abs}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil && dir != filepath.Dir(abs) {
		forms = append(forms, filepath.Join(dir, filepath.Base(abs)))
	}
	return forms
}

func logRecords(logger *log.Logger, records []depgraph.FileRecord) {
	for _, record := range records {
		logger.Debug("Classified file",
			"file", record.Name,
			"local", record.LocalDependencies,
			"external", record.ExternalDependencies)
		if len(record.Unregistered) > 0 {
			logger.Warn("Angle-bracket include is not a registered system header",
				"file", record.Name,
				"includes", record.Unregistered)
		}
	}
}

// reportSortFailure logs every problem in graph, not only the first one the
// sorter hit.
func reportSortFailure(logger *log.Logger, graph depgraph.DependencyGraph, err error) {
	var cycleErr *depgraph.CycleError
	if errors.As(err, &cycleErr) {
		cycles, findErr := depgraph.FindCycles(graph)
		if findErr != nil {
			logger.Debug("Could not collect cycles", "err", findErr)
			return
		}
		for _, group := range cycles {
			logger.Error("Dependency cycle", "files", group)
		}
		return
	}

	var missingErr *depgraph.MissingDependencyError
	if errors.As(err, &missingErr) {
		for _, name := range graph.MissingDependencies() {
			logger.Error("Missing dependency", "name", name)
		}
	}
}

func unmatchedIncludes(graph depgraph.DependencyGraph, sources []depgraph.FileRecord) map[string][]string {
	unmatched := make(map[string][]string)
	for _, source := range sources {
		for _, dep := range source.LocalDependencies {
			if _, ok := graph[dep]; !ok {
				unmatched[source.Name] = append(unmatched[source.Name], dep)
			}
		}
	}
	return unmatched
}

// renameFile moves a finished temp file over its target.
var renameFile = os.Rename

type outputFile struct {
	path    string
	content string
}

// committed is an output already renamed into place, plus the file it
// replaced, if any.
type committed struct {
	path   string
	backup string
}

// writeOutputs writes every file or none. Contents go to temp files next to
// their targets first. Targets are then replaced in order, and earlier
// replacements are rolled back if a later one fails.
func writeOutputs(files []outputFile) error {
	temps := make([]string, 0, len(files))
	removeTemps := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, file := range files {
		if info, err := os.Lstat(file.path); err == nil && info.IsDir() {
			removeTemps()
			return fmt.Errorf("failed to save %s: path is a directory", file.path)
		}

		tmp, err := writeTemp(file)
		if err != nil {
			removeTemps()
			return err
		}
		temps = append(temps, tmp)
	}

	var done []committed
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			_ = os.Remove(done[i].path)
			if done[i].backup != "" {
				_ = os.Rename(done[i].backup, done[i].path)
			}
		}
	}

	for i, file := range files {
		backup, err := backupExisting(file.path)
		if err != nil {
			rollback()
			removeTemps()
			return err
		}
		if err := renameFile(temps[i], file.path); err != nil {
			if backup != "" {
				_ = os.Rename(backup, file.path)
			}
			rollback()
			removeTemps()
			return fmt.Errorf("failed to save %s: %w", file.path, err)
		}
		done = append(done, committed{path: file.path, backup: backup})
	}

	for _, c := range done {
		if c.backup != "" {
			_ = os.Remove(c.backup)
		}
	}
	return nil
}

func writeTemp(file outputFile) (string, error) {
	dir := filepath.Dir(file.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(file.path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", file.path, err)
	}
	name := tmp.Name()

	if _, err := tmp.WriteString(file.content); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", file.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", file.path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to set permissions on %s: %w", file.path, err)
	}
	return name, nil
}

// backupExisting moves an existing regular file at path aside and returns
// where it went. It returns "" when there is nothing to keep.
func backupExisting(path string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}

	backup := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".bak")
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return backup, nil
}
