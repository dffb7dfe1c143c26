package workspace

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/git"
)

// Recovery is what a MissingReposHome handler managed to do.
type Recovery int

const (
	Recovered Recovery = iota
	Unrecoverable
)

// ErrUnrecoverable is returned when the repositories home does not exist and
// could not be created. The handler has already told the user.
var ErrUnrecoverable = errors.New("repositories home does not exist")

// GitReposContext is the directory repositories are cloned into.
type GitReposContext struct {
	ReposHome string
	// OnMissing runs when ReposHome does not exist. Nil means Unrecoverable.
	OnMissing func() Recovery
}

// Validate checks that ReposHome exists, giving OnMissing a chance to fix it.
func (c GitReposContext) Validate(fsys filesystem.FileSystem) error {
	exists, err := filesystem.Probe(fsys, c.ReposHome)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", c.ReposHome, err)
	}
	if exists {
		return nil
	}
	if c.OnMissing != nil && c.OnMissing() == Recovered {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnrecoverable, c.ReposHome)
}

// SetupOptions configures SetupWorkspaces.
type SetupOptions struct {
	MasterRepo string
	Repos      GitReposContext
	DryRun     bool
	Verbose    bool
}

// SetupWorkspaces symlinks every *.code-workspace file at the top of the
// master repo into the repositories home, replacing whatever was there.
func SetupWorkspaces(fsys filesystem.FileSystem, out io.Writer, opts SetupOptions) error {
	if err := opts.Repos.Validate(fsys); err != nil {
		return err
	}

	master := opts.MasterRepo
	if !filepath.IsAbs(master) {
		cwd, err := fsys.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		master = filepath.Join(cwd, master)
	}

	if opts.Verbose {
		fmt.Fprintf(out, "Setting up %s *.code-workspace files into %s\n", opts.MasterRepo, opts.Repos.ReposHome)
	}

	entries, err := fsys.ReadDir(master)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", master, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".code-workspace") {
			continue
		}
		src := filepath.Join(master, entry.Name())
		dest := filepath.Join(opts.Repos.ReposHome, entry.Name())

		if opts.DryRun {
			fmt.Fprintf(out, "rm -f %s\n", dest)
			fmt.Fprintf(out, "ln -s %s %s\n", src, dest)
			continue
		}

		if _, err := fsys.Lstat(dest); err == nil {
			if err := fsys.RemoveAll(dest); err != nil {
				return fmt.Errorf("failed to remove %s: %w", dest, err)
			}
			if opts.Verbose {
				fmt.Fprintf(out, "Removed %s\n", dest)
			}
		}
		if err := fsys.Symlink(src, dest); err != nil {
			return fmt.Errorf("failed to link %s: %w", dest, err)
		}
		if opts.Verbose {
			fmt.Fprintf(out, "Created symlink %s -> %s\n", dest, src)
		}
	}
	return nil
}

// Clone is the plan for one workspace folder: its source repository and
// where it lands below the repositories home.
type Clone struct {
	Folder FolderContext
	URL    string
	Target string
	// Rel is Target relative to the repositories home.
	Rel    string
	Exists bool
}

// ClonePlan maps every folder to https://<folder.path> cloned into
// reposHome/<folder.path>.
func ClonePlan(fsys filesystem.FileSystem, reposHome string, folders []FolderContext) ([]Clone, error) {
	plan := make([]Clone, 0, len(folders))
	for _, f := range folders {
		target := filepath.Join(reposHome, f.Folder.Path)
		exists, err := filesystem.Probe(fsys, target)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", target, err)
		}
		rel, err := filepath.Rel(reposHome, target)
		if err != nil {
			rel = target
		}
		plan = append(plan, Clone{
			Folder: f,
			URL:    git.CloneURL(f.Folder.Path),
			Target: target,
			Rel:    rel,
			Exists: exists,
		})
	}
	return plan, nil
}

// EnsureParent creates the directory the clone goes into. In dry-run mode
// the mkdir is printed instead.
func (c Clone) EnsureParent(fsys filesystem.FileSystem, out io.Writer, dryRun bool) error {
	parent := filepath.Dir(c.Target)
	exists, err := filesystem.Probe(fsys, parent)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", parent, err)
	}
	if exists {
		return nil
	}
	if dryRun {
		fmt.Fprintf(out, "mkdir -p %s\n", parent)
		return nil
	}
	if err := fsys.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}
	return nil
}
