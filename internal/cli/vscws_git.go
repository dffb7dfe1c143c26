package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/shah/vscode-team/internal/git"
	"github.com/shah/vscode-team/internal/project"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/tui"
	"github.com/shah/vscode-team/internal/workspace"
)

func newVscwsGitCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Run git in every folder that is a Git work tree",
	}

	cmd.AddCommand(newCloneCommand(a))

	var recurse bool
	fetch := &cobra.Command{
		Use:   "fetch <file.code-workspace>...",
		Short: "git fetch in every work tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.gitEach(cmd.Context(), args, false, func(wt git.WorkTree) []shell.Command {
				return []shell.Command{wt.Fetch(a.dryRun)}
			})
		},
	}
	bindDryRun(fetch, a)

	pull := &cobra.Command{
		Use:   "pull <file.code-workspace>...",
		Short: "git pull in every work tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.gitEach(cmd.Context(), args, false, func(wt git.WorkTree) []shell.Command {
				return wt.Pull(recurse, a.dryRun)
			})
		},
	}
	pull.Flags().BoolVar(&recurse, "recurse-submodules", false, "Also update submodules recursively")
	bindDryRun(pull, a)

	status := &cobra.Command{
		Use:   "status <file.code-workspace>...",
		Short: "git status -s in every work tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.gitEach(cmd.Context(), args, a.dryRun, func(wt git.WorkTree) []shell.Command {
				return []shell.Command{wt.Status()}
			})
		},
	}
	bindDryRun(status, a)

	cmd.AddCommand(fetch, pull, status)
	cmd.AddCommand(newCommitCommand(a, "commit", false, false))
	cmd.AddCommand(newCommitCommand(a, "add-commit", true, false))
	cmd.AddCommand(newCommitCommand(a, "add-commit-push", true, true))
	return cmd
}

func workTree(f workspace.FolderContext) git.WorkTree {
	return git.WorkTree{Path: f.Project.Git.WorkTree, GitDir: f.Project.Git.GitDir}
}

func gitFolders(folders []workspace.FolderContext) []workspace.FolderContext {
	return workspace.Filter(folders, func(f workspace.FolderContext) bool {
		return f.Project.Is(project.GitWorkTree)
	})
}

func folderHandlers(f workspace.FolderContext) shell.Handlers {
	heading := tui.HeadingStyle.Render(f.Project.AbsPath)
	return shell.Handlers{
		OnSuccess: shell.BlockReporter(heading),
		OnFailure: shell.BlockReporter(heading),
	}
}

// folderJob runs cmds one after the other for a folder, stopping at the
// first failure.
func (a *app) folderJob(f workspace.FolderContext, exec *shell.Executor, cmds []shell.Command) shell.Job {
	return shell.Job{
		Name: f.Project.AbsPath,
		Run: func(ctx context.Context) error {
			for _, c := range cmds {
				if err := exec.Run(ctx, c, folderHandlers(f)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// gitEach runs the commands built for each Git work tree concurrently.
// dryRun prints the commands instead; git subcommands with their own
// --dry-run are built with it and run with dryRun false.
func (a *app) gitEach(ctx context.Context, wsFiles []string, dryRun bool, build func(git.WorkTree) []shell.Command) error {
	folders, err := a.folders(wsFiles)
	if err != nil {
		return err
	}
	return a.runJobs(ctx, a.gitJobs(gitFolders(folders), dryRun, build))
}

func (a *app) gitJobs(folders []workspace.FolderContext, dryRun bool, build func(git.WorkTree) []shell.Command) []shell.Job {
	exec := a.executor(dryRun)
	jobs := make([]shell.Job, 0, len(folders))
	for _, f := range folders {
		jobs = append(jobs, a.folderJob(f, exec, build(workTree(f))))
	}
	return jobs
}

// CommitCommand commits, optionally stages first and pushes after
type CommitCommand struct {
	app  *app
	add  bool
	push bool
	yes  bool
}

func newCommitCommand(a *app, use string, add, push bool) *cobra.Command {
	c := &CommitCommand{app: a, add: add, push: push}
	short := "git commit -am <message> in every work tree"
	switch {
	case push:
		short = "git add, commit and push in every work tree"
	case add:
		short = "git add . and commit in every work tree"
	}

	cmd := &cobra.Command{
		Use:   use + " <message> <file.code-workspace>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.Run,
	}
	if push {
		cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Push without asking for confirmation")
	}
	bindDryRun(cmd, a)
	return cmd
}

func (c *CommitCommand) Run(cmd *cobra.Command, args []string) error {
	message := args[0]
	folders, err := c.app.folders(args[1:])
	if err != nil {
		return err
	}
	folders = gitFolders(folders)

	ctx := cmd.Context()
	dryRun := c.app.dryRun
	commitErr := c.app.runJobs(ctx, c.app.gitJobs(folders, false, func(wt git.WorkTree) []shell.Command {
		var cmds []shell.Command
		if c.add {
			cmds = append(cmds, wt.AddAll(dryRun))
		}
		return append(cmds, wt.Commit(message, dryRun))
	}))

	if !c.push || len(folders) == 0 {
		return commitErr
	}

	if !c.yes && !dryRun {
		paths := workspace.Paths(folders)
		ok, err := c.app.Prompter.Confirm(fmt.Sprintf("Push %d repositories?", len(paths)), paths)
		if err != nil {
			return multierr.Append(commitErr, err)
		}
		if !ok {
			fmt.Fprintln(c.app.Out, "Push cancelled.")
			return commitErr
		}
	}

	pushErr := c.app.runJobs(ctx, c.app.gitJobs(folders, false, func(wt git.WorkTree) []shell.Command {
		return []shell.Command{wt.Push(dryRun)}
	}))
	return multierr.Append(commitErr, pushErr)
}

// CloneCommand clones every folder of a workspace below the repos home
type CloneCommand struct {
	app        *app
	recurse    bool
	createHome bool
}

func newCloneCommand(a *app) *cobra.Command {
	c := &CloneCommand{app: a}
	cmd := &cobra.Command{
		Use:   "clone <file.code-workspace> <repos-home>",
		Short: "Clone https://<folder> into <repos-home>/<folder> for every missing folder",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
	cmd.Flags().BoolVar(&c.recurse, "recurse-submodules", false, "Clone submodules too")
	cmd.Flags().BoolVar(&c.createHome, "create-repos-path", false, "Create <repos-home> when it does not exist")
	bindDryRun(cmd, a)
	return cmd
}

func (c *CloneCommand) Run(cmd *cobra.Command, args []string) error {
	wsFile, reposHome := args[0], args[1]
	a := c.app

	repos := workspace.GitReposContext{
		ReposHome: reposHome,
		OnMissing: a.reposHomeHandler(reposHome, c.createHome),
	}
	if err := repos.Validate(a.FS); err != nil {
		if errors.Is(err, workspace.ErrUnrecoverable) {
			return nil
		}
		return err
	}

	folders, err := a.folders([]string{wsFile})
	if err != nil {
		return err
	}
	plan, err := workspace.ClonePlan(a.FS, reposHome, folders)
	if err != nil {
		return err
	}

	exec := a.executor(a.dryRun)
	var jobs []shell.Job
	for _, clone := range plan {
		if clone.Exists {
			if a.verbose {
				fmt.Fprintf(a.Out, "Repo %s already exists in %s\n", clone.Rel, reposHome)
			}
			continue
		}
		if err := clone.EnsureParent(a.FS, a.Out, a.dryRun); err != nil {
			return err
		}

		clone := clone
		heading := tui.HeadingStyle.Render(fmt.Sprintf("Cloned %s into %s", clone.URL, clone.Target))
		jobs = append(jobs, shell.Job{
			Name: clone.Target,
			Run: func(ctx context.Context) error {
				return exec.Run(ctx, git.Clone(clone.URL, clone.Target, c.recurse), shell.Handlers{
					OnSuccess: shell.BlockReporter(heading),
				})
			},
		})
	}
	return a.runJobs(cmd.Context(), jobs)
}
