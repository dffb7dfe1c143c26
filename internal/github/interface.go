package github

import (
	"context"
)

// GitHubClient provides an abstraction over GitHub API operations
type GitHubClient interface {
	// Repository operations
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)

	// Content operations. ref may be a branch, tag or commit; empty means the
	// default branch.
	DownloadContents(ctx context.Context, owner, repo, ref, path string) ([]byte, error)
}

// Repository represents a GitHub repository
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	URL           string
	DefaultBranch string
}

// ContentRef points at one file in a repository at a ref.
type ContentRef struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

func (r ContentRef) String() string {
	return r.Owner + "/" + r.Repo + "@" + r.Ref + ":" + r.Path
}
