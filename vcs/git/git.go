package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsRepository reports whether path is inside a git work tree.
func IsRepository(path string) bool {
	_, _, err := runGitCommand(path, "rev-parse", "--git-dir")
	return err == nil
}

// GetRepositoryRoot returns the absolute path to the repository root
func GetRepositoryRoot(repoPath string) (string, error) {
	out, stderr, err := runGitCommand(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", gitCommandError(err, stderr)
	}

	return strings.TrimSpace(string(out)), nil
}

// ValidateCommit checks if the given commit reference exists in the repository.
func ValidateCommit(repoPath, commitID string) error {
	if err := validateGitRef(commitID); err != nil {
		return err
	}

	_, stderr, err := runGitCommand(repoPath, "rev-parse", "--verify", commitID+"^{commit}")
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("invalid commit reference '%s': %s", commitID, stderr)
		}
		return fmt.Errorf("invalid commit reference '%s'", commitID)
	}

	return nil
}

// GetShortCommitHash returns the short version of a given commit hash
func GetShortCommitHash(repoPath, commitID string) (string, error) {
	if err := validateGitRef(commitID); err != nil {
		return "", err
	}

	out, stderr, err := runGitCommand(repoPath, "rev-parse", "--short", commitID)
	if err != nil {
		return "", gitCommandError(err, stderr)
	}

	return strings.TrimSpace(string(out)), nil
}

// GetCommitTreeFiles returns all files that exist in a commit's tree as
// absolute paths rooted at the repository root.
func GetCommitTreeFiles(repoPath, commitID string) ([]string, error) {
	if _, err := os.Stat(repoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("repository path does not exist: %s", repoPath)
	}

	if !IsRepository(repoPath) {
		return nil, fmt.Errorf("%s is not a git repository (use 'git init' to initialize)", repoPath)
	}

	if err := ValidateCommit(repoPath, commitID); err != nil {
		return nil, err
	}

	repoRoot, err := GetRepositoryRoot(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository root: %w", err)
	}

	out, stderr, err := runGitCommand(repoPath, "ls-tree", "-r", "--name-only", "--full-tree", commitID)
	if err != nil {
		return nil, gitCommandError(err, stderr)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}

	return toAbsolutePaths(repoRoot, files), nil
}

// GetFileContentFromCommit reads the content of a file at a specific commit
// using 'git show commit:path'. The filePath should be relative to the repository root.
func GetFileContentFromCommit(repoPath, commitID, filePath string) ([]byte, error) {
	if err := validateGitRef(commitID); err != nil {
		return nil, err
	}
	if err := validateGitRelPath(filePath); err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("%s:%s", commitID, filepath.ToSlash(filePath))

	out, stderr, err := runGitCommand(repoPath, "show", ref)
	if err != nil {
		if stderr != "" {
			return nil, fmt.Errorf("git show failed: %s", stderr)
		}
		return nil, err
	}

	return out, nil
}

// toAbsolutePaths converts relative paths to absolute paths based on the repository root
func toAbsolutePaths(repoRoot string, relativePaths []string) []string {
	absolutePaths := make([]string, 0, len(relativePaths))
	for _, relPath := range relativePaths {
		absolutePaths = append(absolutePaths, filepath.Join(repoRoot, filepath.FromSlash(relPath)))
	}
	return absolutePaths
}

func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git reference cannot start with '-': %q", ref)
	}
	if strings.ContainsAny(ref, "\x00\n\r\t ") {
		return fmt.Errorf("git reference contains whitespace or NUL: %q", ref)
	}
	return nil
}

func validateGitRelPath(path string) error {
	if path == "" {
		return fmt.Errorf("git path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("git path must be relative: %q", path)
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("git path contains NUL: %q", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("git path escapes repository: %q", path)
	}
	return nil
}
