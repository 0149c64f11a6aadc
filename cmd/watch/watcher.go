package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

// changeFilter decides which file events should trigger a rebuild.
type changeFilter struct {
	extensions map[string]bool
	// ignored holds output files, which must not retrigger the build that
	// wrote them.
	ignored map[string]bool
}

func newChangeFilter(extensions []string, ignoredPaths ...string) *changeFilter {
	f := &changeFilter{
		extensions: make(map[string]bool, len(extensions)),
		ignored:    make(map[string]bool, len(ignoredPaths)),
	}
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions[ext] = true
	}
	for _, p := range ignoredPaths {
		if abs, err := filepath.Abs(p); err == nil {
			f.ignored[abs] = true
		}
	}
	return f
}

func (f *changeFilter) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && f.ignored[abs] {
		return false
	}
	return f.extensions[filepath.Ext(event.Name)]
}

// watchAndRebuild calls rebuild once per burst of relevant changes until ctx
// is cancelled. Watcher errors are logged and do not stop the loop.
func watchAndRebuild(ctx context.Context, watcher *fsnotify.Watcher, filter *changeFilter, rebuild func(), logger *log.Logger) error {
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}

			if !filter.isRelevant(event) {
				continue
			}
			logger.Debug("Change detected", "file", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, rebuild)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "err", err)
		}
	}
}

func newWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := addWatchDirs(watcher, root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directories: %w", err)
	}
	return watcher, nil
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder walks root and passes every directory to add.
// Directories that vanish mid-walk are skipped.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root && os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && depgraph.IsSkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
