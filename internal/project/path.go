package project

import (
	"fmt"
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
)

// Path is an absolute project location. Exists is captured once, when the
// Path is prepared, and never refreshed.
type Path struct {
	AbsPath string
	Exists  bool
}

// Prepare resolves path against the working directory and records whether it
// exists. A missing path is not an error.
func Prepare(fsys filesystem.FileSystem, path string) (Path, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		cwd, err := fsys.Getwd()
		if err != nil {
			return Path{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		abs = filepath.Join(cwd, path)
	}
	abs = filepath.Clean(abs)

	exists, err := filesystem.Probe(fsys, abs)
	if err != nil {
		return Path{}, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	return Path{AbsPath: abs, Exists: exists}, nil
}

// FindInPath returns the first dir/target that exists, scanning dirs in order.
func FindInPath(fsys filesystem.FileSystem, target string, dirs []string) (string, bool) {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, target)
		if fsys.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
