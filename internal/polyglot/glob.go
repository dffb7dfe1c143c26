package polyglot

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"

	"github.com/shah/vscode-team/internal/filesystem"
)

// GlobOptions controls GuessGlob traversal.
type GlobOptions struct {
	// Ignore, when set, prunes every path it matches.
	Ignore gitignore.GitIgnore
	// SkipDirs are directory names never descended into.
	SkipDirs []string
}

// DefaultSkipDirs are pruned unless the caller overrides SkipDirs.
var DefaultSkipDirs = []string{".git", "node_modules"}

// GuessGlob walks root and classifies every regular file whose slash-separated
// path relative to root matches pattern. Patterns support "**".
func GuessGlob(fsys filesystem.FileSystem, root, pattern string, opts GlobOptions) ([]File, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	skip := make(map[string]struct{})
	for _, name := range opts.SkipDirs {
		skip[name] = struct{}{}
	}

	var results []File
	err := fsys.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if _, ok := skip[d.Name()]; ok {
				return filepath.SkipDir
			}
		}
		if opts.Ignore != nil {
			if match := opts.Ignore.Relative(rel, d.IsDir()); match != nil && match.Ignore() {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}

		if !doublestar.MatchUnvalidated(pattern, filepath.ToSlash(rel)) {
			return nil
		}
		file, err := Guess(fsys, path)
		if err != nil {
			return err
		}
		results = append(results, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s under %s: %w", pattern, root, err)
	}
	return results, nil
}

// LoadGitIgnore reads root/.gitignore. It returns nil when there is none.
func LoadGitIgnore(fsys filesystem.FileSystem, root string) (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(root, ".gitignore")
	if !fsys.Exists(ignorePath) {
		return nil, nil
	}

	data, err := fsys.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), root, nil), nil
}
