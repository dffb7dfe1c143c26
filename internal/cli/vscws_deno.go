package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/project"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/workspace"
)

var denoTasks = []struct {
	name  string
	short string
	args  []string
}{
	{"lint", "deno lint in every Deno project", []string{"deno", "lint", "--unstable"}},
	{"fmt", "deno fmt in every Deno project", []string{"deno", "fmt", "--unstable"}},
	{"test", "deno test in every Deno project", []string{"deno", "test", "--unstable", "-A"}},
}

func newVscwsDenoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deno",
		Short: "Run deno in every folder that is a Deno project",
	}

	for _, task := range denoTasks {
		task := task
		sub := &cobra.Command{
			Use:   task.name + " <file.code-workspace>...",
			Short: task.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.denoEach(cmd.Context(), args, a.dryRun, func(p project.Project) (shell.Command, bool, error) {
					return shell.New(p.AbsPath, task.args...), true, nil
				})
			},
		}
		bindDryRun(sub, a)
		cmd.AddCommand(sub)
	}

	update := &cobra.Command{
		Use:   "update <file.code-workspace>...",
		Short: "udd the dependency files of every Deno project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.denoEach(cmd.Context(), args, false, func(p project.Project) (shell.Command, bool, error) {
				candidates, err := p.Deno.CandidatePaths()
				if err != nil || len(candidates) == 0 {
					return shell.Command{}, false, err
				}
				return uddCommand(p.AbsPath, candidates, a.dryRun), true, nil
			})
		},
	}
	bindDryRun(update, a)
	cmd.AddCommand(update)

	return cmd
}

// denoEach runs the command built for every Deno folder. build may skip a
// folder by returning false.
func (a *app) denoEach(ctx context.Context, wsFiles []string, dryRun bool, build func(project.Project) (shell.Command, bool, error)) error {
	folders, err := a.folders(wsFiles)
	if err != nil {
		return err
	}
	folders = workspace.Filter(folders, func(f workspace.FolderContext) bool {
		return f.Project.Is(project.DenoProject)
	})

	exec := a.executor(dryRun)
	var jobs []shell.Job
	for _, f := range folders {
		c, ok, err := build(f.Project)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		jobs = append(jobs, a.folderJob(f, exec, []shell.Command{c}))
	}
	return a.runJobs(ctx, jobs)
}
