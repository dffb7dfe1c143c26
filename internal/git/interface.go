package git

import (
	"context"
)

// GitClient answers questions about a local repository. Commands that change
// a work tree are built with WorkTree and run through a shell.Executor so
// they honour dry-run.
type GitClient interface {
	// IsGitRepo reports whether dir is inside a git work tree.
	IsGitRepo(ctx context.Context, dir string) (bool, error)
	// GetCurrentBranch returns the checked out branch of dir.
	GetCurrentBranch(ctx context.Context, dir string) (string, error)
	// GetLatestTag returns the newest version tag reachable from HEAD.
	GetLatestTag(ctx context.Context, dir string) (string, error)
}
