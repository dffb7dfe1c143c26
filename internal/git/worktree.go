package git

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/shah/vscode-team/internal/shell"
)

// WorkTree addresses git commands at a repository explicitly, so they can be
// run from any directory.
type WorkTree struct {
	Path   string
	GitDir string
}

// Command builds `git --git-dir=<GitDir> --work-tree=<Path> args...`.
func (w WorkTree) Command(args ...string) shell.Command {
	full := append([]string{
		"git",
		"--git-dir=" + w.GitDir,
		"--work-tree=" + w.Path,
	}, args...)
	return shell.New(w.Path, full...)
}

func dryRunFlag(args []string, dryRun bool) []string {
	if dryRun {
		return append(args, "--dry-run")
	}
	return args
}

func (w WorkTree) Status() shell.Command {
	return w.Command("status", "-s")
}

func (w WorkTree) Fetch(dryRun bool) shell.Command {
	return w.Command(dryRunFlag([]string{"fetch"}, dryRun)...)
}

// Pull returns the pull command, followed by a recursive submodule update
// when recurseSubmodules is set.
func (w WorkTree) Pull(recurseSubmodules, dryRun bool) []shell.Command {
	args := []string{"pull"}
	if recurseSubmodules {
		args = append(args, "--recurse-submodules")
	}
	cmds := []shell.Command{w.Command(dryRunFlag(args, dryRun)...)}
	if recurseSubmodules && !dryRun {
		cmds = append(cmds, w.Command("submodule", "update", "--recursive"))
	}
	return cmds
}

func (w WorkTree) AddAll(dryRun bool) shell.Command {
	return w.Command(append(dryRunFlag([]string{"add"}, dryRun), ".")...)
}

// Commit commits all tracked changes with message.
func (w WorkTree) Commit(message string, dryRun bool) shell.Command {
	return w.Command(append(dryRunFlag([]string{"commit"}, dryRun), "-am", message)...)
}

func (w WorkTree) Push(dryRun bool) shell.Command {
	return w.Command(dryRunFlag([]string{"push"}, dryRun)...)
}

// CloneURL maps a workspace folder path such as github.com/owner/repo to the
// repository it is cloned from.
func CloneURL(folderPath string) string {
	return "https://" + strings.TrimPrefix(folderPath, "/")
}

// Clone builds `git clone --quiet [--recurse-submodules] <url> <dest>`.
func Clone(url, dest string, recurseSubmodules bool) shell.Command {
	args := []string{"git", "clone", "--quiet"}
	if recurseSubmodules {
		args = append(args, "--recurse-submodules")
	}
	return shell.New("", append(args, url, dest)...)
}

// SemtagGetFinal prints the next final version git-semtag would tag.
func SemtagGetFinal(dir string) shell.Command {
	return shell.New(dir, "git-semtag", "getfinal")
}

// SemtagFinal tags the final version, or version when given. With dryRun
// git-semtag only prints the tag it would create.
func SemtagFinal(dir, version string, dryRun bool) shell.Command {
	args := []string{"git-semtag", "final"}
	if version != "" {
		args = append(args, "-v", version)
	}
	if dryRun {
		args = append(args, "-o")
	}
	return shell.New(dir, args...)
}

// ValidateVersion accepts semantic versions with or without the leading v.
func ValidateVersion(version string) error {
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid semantic version %q", version)
	}
	return nil
}
