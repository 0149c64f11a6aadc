package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// setupGitRepo initializes a git repository in a temporary directory
func setupGitRepo(t *testing.T, dir string) {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	require.NoError(t, cmd.Run(), "failed to initialize git repository")

	gitConfig(t, dir, "user.name", "Test User")
	gitConfig(t, dir, "user.email", "test@example.com")
}

func gitConfig(t *testing.T, repoDir, key, value string) {
	cmd := exec.Command("git", "config", key, value)
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run(), "failed to set git config %s", key)
}

func createFile(t *testing.T, dir, name, content string) string {
	filePath := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
	err := os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err, "failed to create file %s", name)
	return filePath
}

func gitAdd(t *testing.T, repoDir, file string) {
	cmd := exec.Command("git", "add", file)
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run(), "failed to git add %s", file)
}

func gitCommit(t *testing.T, repoDir, message string) {
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run(), "failed to git commit")
}

func gitRevParse(t *testing.T, repoDir, ref string) string {
	cmd := exec.Command("git", "rev-parse", ref)
	cmd.Dir = repoDir
	out, err := cmd.Output()
	require.NoError(t, err, "failed to resolve %s", ref)
	return strings.TrimSpace(string(out))
}

func gitGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}

// normalizeFilePaths replaces the temp directory with a $REPO placeholder
// so listings can be compared against golden files.
func normalizeFilePaths(tmpDir string, paths []string) string {
	if len(paths) == 0 {
		return "(empty)"
	}
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)
	var normalized []string
	for _, p := range paths {
		relPath := strings.TrimPrefix(filepath.ToSlash(p), filepath.ToSlash(resolvedTmpDir)+"/")
		normalized = append(normalized, "$REPO/"+relPath)
	}
	sort.Strings(normalized)
	return strings.Join(normalized, "\n")
}
