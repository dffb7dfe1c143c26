package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/git"
	"github.com/shah/vscode-team/internal/project"
	"github.com/shah/vscode-team/internal/settings"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/tui"
	"github.com/shah/vscode-team/internal/workspace"
)

// NewWsctlCommand creates the wsctl root command
func NewWsctlCommand(deps Deps) *cobra.Command {
	a := newApp(deps)

	rootCmd := &cobra.Command{
		Use:   "wsctl",
		Short: "Visual Studio Team Workspaces Controller",
		Long: `Set up and operate on every folder of one or more *.code-workspace files.

Folder paths double as repository locations: the folder github.com/org/repo
is cloned from https://github.com/org/repo.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.bindRootFlags(rootCmd)

	rootCmd.AddCommand(newWsSetupCommand(a))
	rootCmd.AddCommand(newVscwsCommand(a))

	return rootCmd
}

// ExecuteWsctl runs wsctl against the real environment
func ExecuteWsctl() error {
	deps := DefaultDeps("wsctl")
	return execute(NewWsctlCommand(deps), deps.Logger)
}

func newVscwsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vscws",
		Short: "Operate on the folders of VS Code workspace files",
	}

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect workspace files",
	}
	inspect.AddCommand(newInspectFoldersCommand(a))

	cmd.AddCommand(inspect)
	cmd.AddCommand(newSettingsCommand(a))
	cmd.AddCommand(newVscwsGitCommand(a))
	cmd.AddCommand(newVscwsNpmCommand(a))
	cmd.AddCommand(newVscwsDenoCommand(a))
	cmd.AddCommand(newVscwsExecCommand(a))
	return cmd
}

// reposHomeHandler creates a missing repositories home when allowed to.
func (a *app) reposHomeHandler(reposHome string, create bool) func() workspace.Recovery {
	return func() workspace.Recovery {
		if !create {
			fmt.Fprintf(a.ErrOut, "%s does not exist\n", reposHome)
			return workspace.Unrecoverable
		}
		if a.dryRun {
			fmt.Fprintf(a.Out, "mkdir -p %s\n", reposHome)
			return workspace.Recovered
		}
		if err := a.FS.MkdirAll(reposHome, 0755); err != nil {
			fmt.Fprintf(a.ErrOut, "failed to create %s: %v\n", reposHome, err)
			return workspace.Unrecoverable
		}
		return workspace.Recovered
	}
}

// WsSetupCommand links the workspace files of a master repo into the repos home
type WsSetupCommand struct {
	app        *app
	createHome bool
	noPull     bool
}

func newWsSetupCommand(a *app) *cobra.Command {
	c := &WsSetupCommand{app: a}
	cmd := &cobra.Command{
		Use:   "setup <workspaces-home> <repos-home>",
		Short: "Symlink the *.code-workspace files of the workspaces repo into the repos home",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Run,
	}
	cmd.Flags().BoolVar(&c.createHome, "create-repos-path", false, "Create <repos-home> when it does not exist")
	cmd.Flags().BoolVar(&c.noPull, "no-pull", false, "Do not pull the workspaces repo first")
	bindDryRun(cmd, a)
	return cmd
}

func (c *WsSetupCommand) Run(cmd *cobra.Command, args []string) error {
	master, reposHome := args[0], args[1]

	if !c.noPull {
		if err := c.app.pullMaster(cmd.Context(), master); err != nil {
			return err
		}
	}

	err := workspace.SetupWorkspaces(c.app.FS, c.app.Out, workspace.SetupOptions{
		MasterRepo: master,
		Repos: workspace.GitReposContext{
			ReposHome: reposHome,
			OnMissing: c.app.reposHomeHandler(reposHome, c.createHome),
		},
		DryRun:  c.app.dryRun,
		Verbose: c.app.verbose,
	})
	if errors.Is(err, workspace.ErrUnrecoverable) {
		return nil
	}
	return err
}

func (a *app) pullMaster(ctx context.Context, master string) error {
	p, err := project.Detect(a.FS, master, project.Only(project.VsCodeWorkTree|project.GitWorkTree))
	if err != nil {
		return err
	}
	if !p.Is(project.GitWorkTree) {
		a.Logger.Debug("workspaces repo is not a git work tree, not pulling", "path", p.AbsPath)
		return nil
	}
	wt := git.WorkTree{Path: p.Git.WorkTree, GitDir: p.Git.GitDir}
	for _, pull := range wt.Pull(false, a.dryRun) {
		h := shell.Handlers{OnSuccess: shell.BlockReporter(tui.HeadingStyle.Render("Pulled " + p.AbsPath))}
		if err := a.executor(false).Run(ctx, pull, h); err != nil {
			return err
		}
	}
	return nil
}

// InspectFoldersCommand prints the folders of workspace files with their
// detected projects
type InspectFoldersCommand struct {
	app *app
}

func newInspectFoldersCommand(a *app) *cobra.Command {
	c := &InspectFoldersCommand{app: a}
	return &cobra.Command{
		Use:   "folders <file.code-workspace>...",
		Short: "Show every folder and what was detected for it",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Run,
	}
}

func (c *InspectFoldersCommand) Run(cmd *cobra.Command, args []string) error {
	folders, err := c.app.folders(args)
	if err != nil {
		return err
	}
	if folders == nil {
		folders = []workspace.FolderContext{}
	}
	data, err := json.MarshalIndent(folders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal folders: %w", err)
	}
	fmt.Fprintln(c.app.Out, string(data))
	return nil
}

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the VS Code settings of workspace folders",
	}

	c := &SettingsSyncCommand{app: a}
	sync := &cobra.Command{
		Use:       "sync (deno|auto) <file.code-workspace>...",
		Short:     "Copy the shared VS Code settings into every matching folder",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"deno", "auto"},
		RunE:      c.Run,
	}
	sync.Flags().StringVar(&c.tag, "tag", "", "A specific version of the settings to use (default: config templates.ref)")
	sync.Flags().BoolVar(&c.selectFolders, "select", false, "Pick the folders to update interactively")
	bindDryRun(sync, a)

	cmd.AddCommand(sync)
	return cmd
}

// SettingsSyncCommand copies template settings into workspace folders
type SettingsSyncCommand struct {
	app           *app
	tag           string
	selectFolders bool
}

func (c *SettingsSyncCommand) Run(cmd *cobra.Command, args []string) error {
	mode := args[0]
	if mode != "deno" && mode != "auto" {
		return fmt.Errorf("unknown settings source %q (expected deno or auto)", mode)
	}

	folders, err := c.app.folders(args[1:])
	if err != nil {
		return err
	}
	// Deno is the only shared template so far, for both modes.
	folders = workspace.Filter(folders, func(f workspace.FolderContext) bool {
		return f.Project.Is(project.DenoProject)
	})

	paths := workspace.Paths(folders)
	if c.selectFolders && len(paths) > 0 {
		paths, err = c.app.Prompter.SelectFolders("Sync Deno VS Code settings", paths)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	jobs := make([]shell.Job, 0, len(paths))
	for _, path := range paths {
		path := path
		jobs = append(jobs, shell.Job{
			Name: path,
			Run: func(ctx context.Context) error {
				return c.app.copyTemplateSettings(ctx, string(settings.KindDeno), path, c.tag, c.app.dryRun)
			},
		})
	}
	return c.app.runJobs(ctx, jobs)
}
