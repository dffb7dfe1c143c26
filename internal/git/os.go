package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/shah/vscode-team/internal/shell"
)

// OSGitClient implements GitClient by running git through a shell.Runner.
type OSGitClient struct {
	runner shell.Runner
}

// NewOSGitClient creates a client that runs the real git binary.
func NewOSGitClient() *OSGitClient {
	return &OSGitClient{runner: shell.NewOSRunner()}
}

// NewGitClient creates a client on top of runner, usually a shell.MockRunner
// in tests.
func NewGitClient(runner shell.Runner) *OSGitClient {
	return &OSGitClient{runner: runner}
}

func (g *OSGitClient) output(ctx context.Context, dir string, args ...string) (string, int, error) {
	res, err := g.runner.Run(ctx, shell.New(dir, append([]string{"git"}, args...)...))
	if err != nil {
		return "", 0, err
	}
	if res.ExitCode != 0 {
		return strings.TrimSpace(string(res.Stderr)), res.ExitCode, nil
	}
	return strings.TrimSpace(string(res.Stdout)), 0, nil
}

// IsGitRepo checks if dir is inside a git repository
func (g *OSGitClient) IsGitRepo(ctx context.Context, dir string) (bool, error) {
	_, code, err := g.output(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		return false, fmt.Errorf("failed to check git repo %s: %w", dir, err)
	}
	return code == 0, nil
}

// GetCurrentBranch returns the current git branch name
func (g *OSGitClient) GetCurrentBranch(ctx context.Context, dir string) (string, error) {
	out, code, err := g.output(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("failed to get current branch: %s", out)
	}
	return out, nil
}

// GetLatestTag returns the highest v* tag merged into HEAD.
func (g *OSGitClient) GetLatestTag(ctx context.Context, dir string) (string, error) {
	out, code, err := g.output(ctx, dir, "tag", "-l", "v*", "--sort=-version:refname", "--merged", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("failed to list tags: %s", out)
	}
	if out == "" {
		return "", fmt.Errorf("no version tags found in %s", dir)
	}

	lines := strings.Split(out, "\n")
	return strings.TrimSpace(lines[0]), nil
}
