package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds a single git invocation. Reading a large blob from
// an old commit is the slowest call amalgam makes.
const commandTimeout = 10 * time.Second

// runGitCommand runs git in repoPath and returns stdout and trimmed stderr.
// Prompts are disabled and messages are forced to English so stderr can be
// surfaced to the user as-is.
func runGitCommand(repoPath string, args ...string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	stderrText := strings.TrimSpace(stderr.String())
	if err == nil {
		return stdout.Bytes(), stderrText, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, stderrText, fmt.Errorf("git %s timed out after %s", subcommand(args), commandTimeout)
	}
	return nil, stderrText, err
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// gitCommandError prefers git's own message over the exit status.
func gitCommandError(err error, stderr string) error {
	if err == nil {
		return nil
	}
	if stderr != "" {
		return fmt.Errorf("git command failed: %s", stderr)
	}
	return err
}
