package cli

import (
	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/project"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/workspace"
)

// ExecCommand runs a user supplied command line in workspace folders
type ExecCommand struct {
	app     *app
	gitOnly bool
}

func newVscwsExecCommand(a *app) *cobra.Command {
	c := &ExecCommand{app: a}
	cmd := &cobra.Command{
		Use:   "exec <command> <file.code-workspace>...",
		Short: "Run a command in every existing folder",
		Long: `Run a command in every folder of the workspace files that exists on disk.

The command is split with shell quoting rules and run without a shell, so
pipes, redirects and substitutions are rejected and $VARIABLES are passed
through unexpanded.`,
		Example: `  wsctl vscws exec "make test" team.code-workspace
  wsctl vscws exec --git "git log -1 --format=%h" team.code-workspace`,
		Args: cobra.MinimumNArgs(2),
		RunE: c.Run,
	}
	cmd.Flags().BoolVar(&c.gitOnly, "git", false, "Only run in folders that are Git work trees")
	bindDryRun(cmd, a)
	return cmd
}

func (c *ExecCommand) Run(cmd *cobra.Command, args []string) error {
	cmdline := args[0]
	if _, err := shell.Split(cmdline); err != nil {
		return err
	}

	folders, err := c.app.folders(args[1:])
	if err != nil {
		return err
	}
	want := project.VsCodeWorkTree
	if c.gitOnly {
		want |= project.GitWorkTree
	}
	folders = workspace.Filter(folders, func(f workspace.FolderContext) bool {
		return f.Project.Is(want)
	})

	exec := c.app.executor(c.app.dryRun)
	jobs := make([]shell.Job, 0, len(folders))
	for _, f := range folders {
		run, err := shell.Parse(f.Project.AbsPath, cmdline)
		if err != nil {
			return err
		}
		jobs = append(jobs, c.app.folderJob(f, exec, []shell.Command{run}))
	}
	return c.app.runJobs(cmd.Context(), jobs)
}
