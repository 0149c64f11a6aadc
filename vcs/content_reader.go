package vcs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/amalgam/vcs/git"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, git, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader returns a ContentReader that reads from the working tree.
func FilesystemContentReader() ContentReader {
	return os.ReadFile
}

// GitCommitContentReader returns a ContentReader that reads absolute paths
// as they existed at commitID. Paths must live under repoRoot.
func GitCommitContentReader(repoRoot, commitID string) ContentReader {
	return func(filePath string) ([]byte, error) {
		relPath, err := filepath.Rel(repoRoot, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", filePath, err)
		}
		return git.GetFileContentFromCommit(repoRoot, commitID, relPath)
	}
}
