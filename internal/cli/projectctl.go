package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/git"
	"github.com/shah/vscode-team/internal/project"
	"github.com/shah/vscode-team/internal/settings"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/tui"
)

// NewProjectctlCommand creates the projectctl root command
func NewProjectctlCommand(deps Deps) *cobra.Command {
	a := newApp(deps)

	rootCmd := &cobra.Command{
		Use:   "projectctl",
		Short: "Visual Studio Team Projects Controller",
		Long: `Inspect and maintain a single project folder.

<project-home> is the root of the project folder and defaults to ".".`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.bindRootFlags(rootCmd)

	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newProjectVersionCommand(a))
	rootCmd.AddCommand(newPublishCommand(a))
	rootCmd.AddCommand(newProjectDenoCommand(a))
	rootCmd.AddCommand(newProjectSetupCommand(a))
	rootCmd.AddCommand(newHooksCommand(a))
	rootCmd.AddCommand(newCICommand(a))

	return rootCmd
}

// ExecuteProjectctl runs projectctl against the real environment
func ExecuteProjectctl() error {
	deps := DefaultDeps("projectctl")
	return execute(NewProjectctlCommand(deps), deps.Logger)
}

func projectHome(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// detect runs the detection chain. ok is false, and the message printed,
// when the path does not exist.
func (a *app) detect(args []string) (project.Project, bool, error) {
	p, err := project.Detect(a.FS, projectHome(args))
	if err != nil {
		return project.Project{}, false, err
	}
	if !p.Exists {
		fmt.Fprintf(a.ErrOut, "Path %s does not exist.\n", p.AbsPath)
		return p, false, nil
	}
	return p, true, nil
}

func (a *app) gitWorkTree(args []string) (project.Project, bool, error) {
	p, ok, err := a.detect(args)
	if err != nil || !ok {
		return p, false, err
	}
	if !p.Is(project.GitWorkTree) {
		fmt.Fprintf(a.ErrOut, "%s is not a Git Work Tree\n", p.AbsPath)
		return p, false, nil
	}
	return p, true, nil
}

// InspectCommand prints what was detected for a project
type InspectCommand struct {
	app  *app
	json bool
}

func newInspectCommand(a *app) *cobra.Command {
	c := &InspectCommand{app: a}
	cmd := &cobra.Command{
		Use:   "inspect [project-home]",
		Short: "Show the capabilities detected for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Run,
	}
	cmd.Flags().BoolVar(&c.json, "json", false, "Print the full project as JSON")
	return cmd
}

func (c *InspectCommand) Run(cmd *cobra.Command, args []string) error {
	p, ok, err := c.app.detect(args)
	if err != nil || !ok {
		return err
	}

	out := c.app.Out
	if c.json {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, tui.TitleStyle.Render(p.AbsPath))
	for _, marker := range p.Capabilities.Markers() {
		fmt.Fprintf(out, "  %s\n", tui.MarkerStyle.Render(marker))
	}

	if p.Is(project.GitWorkTree) {
		ctx := cmd.Context()
		branch, err := c.app.Git.GetCurrentBranch(ctx, p.AbsPath)
		if err != nil {
			branch = "-"
		}
		tag, err := c.app.Git.GetLatestTag(ctx, p.AbsPath)
		if err != nil {
			tag = "-"
		}
		fmt.Fprintf(out, "\n  branch:     %s\n  latest tag: %s\n", branch, tag)
	}

	if p.Is(project.DenoProject) {
		candidates, err := p.Deno.CandidatePaths()
		if err != nil {
			return err
		}
		if len(candidates) > 0 {
			fmt.Fprintf(out, "\n  deps:       %s\n", strings.Join(candidates, " "))
		}
	}
	return nil
}

func newProjectVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version [project-home]",
		Short: "Show the next final version computed by git-semtag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := a.gitWorkTree(args)
			if err != nil || !ok {
				return err
			}
			return a.executor(false).Run(cmd.Context(), git.SemtagGetFinal(p.AbsPath), shell.Handlers{})
		},
	}
}

// PublishCommand tags the final version and pushes it
type PublishCommand struct {
	app    *app
	semtag string
}

func newPublishCommand(a *app) *cobra.Command {
	c := &PublishCommand{app: a}
	cmd := &cobra.Command{
		Use:   "publish [project-home]",
		Short: "Tag the final semantic version with git-semtag and push",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Run,
	}
	cmd.Flags().StringVar(&c.semtag, "semtag", "", "A specific semantic version to apply as a tag")
	bindDryRun(cmd, a)
	return cmd
}

func (c *PublishCommand) Run(cmd *cobra.Command, args []string) error {
	if c.semtag != "" {
		if err := git.ValidateVersion(c.semtag); err != nil {
			return err
		}
	}

	p, ok, err := c.app.gitWorkTree(args)
	if err != nil || !ok {
		return err
	}

	ctx := cmd.Context()
	exec := c.app.executor(false)
	if err := exec.Run(ctx, git.SemtagFinal(p.AbsPath, c.semtag, c.app.dryRun), shell.Handlers{}); err != nil {
		return err
	}
	wt := git.WorkTree{Path: p.Git.WorkTree, GitDir: p.Git.GitDir}
	return exec.Run(ctx, wt.Push(c.app.dryRun), shell.Handlers{})
}

func newProjectDenoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deno",
		Short: "Deno project maintenance",
	}

	var tag string
	for _, use := range []string{"setup", "upgrade"} {
		sub := &cobra.Command{
			Use:   use + " [project-home]",
			Short: "Copy the shared Deno VS Code settings into the project",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.denoSetup(cmd.Context(), projectHome(args), tag)
			},
		}
		sub.Flags().StringVar(&tag, "tag", "", "A specific version of the settings to use (default: config templates.ref)")
		bindDryRun(sub, a)
		cmd.AddCommand(sub)
	}

	update := &cobra.Command{
		Use:   "update [project-home]",
		Short: "Update dependencies of mod.ts, deps.ts and deps-test.ts with udd",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := a.detect(args)
			if err != nil || !ok {
				return err
			}
			if !p.Is(project.DenoProject) {
				fmt.Fprintf(a.ErrOut, "Not a Deno project: %s\n", p.AbsPath)
				return nil
			}
			candidates, err := p.Deno.CandidatePaths()
			if err != nil {
				return err
			}
			return a.executor(false).Run(cmd.Context(), uddCommand(p.AbsPath, candidates, a.dryRun), shell.Handlers{})
		},
	}
	bindDryRun(update, a)
	cmd.AddCommand(update)

	return cmd
}

func (a *app) denoSetup(ctx context.Context, home, tag string) error {
	pp, err := project.Prepare(a.FS, home)
	if err != nil {
		return err
	}
	if !pp.Exists {
		fmt.Fprintf(a.ErrOut, "%s does not exist.\n", pp.AbsPath)
		return nil
	}

	if err := a.copyTemplateSettings(ctx, string(settings.KindDeno), pp.AbsPath, tag, a.dryRun); err != nil {
		return err
	}
	if a.dryRun {
		return nil
	}

	upgraded, err := project.Detect(a.FS, pp.AbsPath)
	if err != nil {
		return err
	}
	if a.verbose {
		data, err := json.MarshalIndent(upgraded, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}
		fmt.Fprintln(a.Out, string(data))
	}
	if !upgraded.Is(project.DenoProject) {
		fmt.Fprintln(a.ErrOut, "ERROR: Copied VS Code settings but Deno detection failed.")
	}
	return nil
}

// uddCommand builds `udd [--dry-run] <candidates>` run in dir. udd has its
// own dry-run mode.
func uddCommand(dir string, candidates []string, dryRun bool) shell.Command {
	args := []string{"udd"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	return shell.New(dir, append(args, candidates...)...)
}

// settingsKind picks the settings family for the most specific capability.
func settingsKind(p project.Project) settings.Kind {
	switch {
	case p.Is(project.DenoProject):
		return settings.KindDeno
	case p.Is(project.HugoProject):
		return settings.KindHugo
	case p.Is(project.ReactProject):
		return settings.KindReact
	case p.Is(project.NodeProject):
		return settings.KindNode
	case p.Is(project.PythonProject):
		return settings.KindPython
	default:
		return settings.KindCommon
	}
}

type writeStep struct {
	path  string
	write func() error
}

// runSteps prints "write <path>" in dry-run mode, otherwise writes.
func (a *app) runSteps(steps []writeStep) error {
	for _, s := range steps {
		if a.dryRun {
			fmt.Fprintf(a.Out, "write %s\n", s.path)
			continue
		}
		if err := s.write(); err != nil {
			return fmt.Errorf("failed to write %s: %w", s.path, err)
		}
		if a.verbose {
			fmt.Fprintf(a.Out, "Wrote %s\n", s.path)
		}
	}
	return nil
}

func newProjectSetupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup [project-home]",
		Short: "Write the editor and lint settings matching the detected project type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := a.detect(args)
			if err != nil || !ok {
				return err
			}

			kind := settingsKind(p)
			s, exts, err := settings.ForKind(kind)
			if err != nil {
				return err
			}
			a.Logger.Debug("writing settings", "kind", kind, "path", p.AbsPath)

			steps := []writeStep{
				{p.VsCode.SettingsPath, func() error { return p.VsCode.WriteVSCodeSettings(s) }},
				{p.VsCode.ExtensionsPath, func() error { return p.VsCode.WriteVSCodeExtensions(exts) }},
			}
			if p.Is(project.NodeProject) && !p.Is(project.DenoProject) {
				steps = append(steps, writeStep{p.Node.ESLintPath, func() error {
					return p.Node.WriteLintSettings(settings.DefaultESLintSettings(), settings.DefaultESLintIgnoreDirs)
				}})
			}
			return a.runSteps(steps)
		},
	}
	bindDryRun(cmd, a)
	return cmd
}

func preCommitScript(p project.Project) (settings.ShellScript, bool) {
	switch {
	case p.Is(project.DenoProject):
		return settings.DenoPreCommit(), true
	case p.Is(project.NodeProject):
		return settings.NodePreCommit(), true
	case p.Is(project.PythonProject):
		return settings.PythonPreCommit(), true
	}
	return "", false
}

func newHooksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks [project-home]",
		Short: "Install the pre-commit hook for the detected project type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := a.gitWorkTree(args)
			if err != nil || !ok {
				return err
			}
			script, ok := preCommitScript(p)
			if !ok {
				fmt.Fprintf(a.ErrOut, "No pre-commit hook for %s (%s)\n", p.AbsPath, p.Capabilities)
				return nil
			}
			return a.runSteps([]writeStep{
				{p.Git.PreCommitHookPath, func() error { return p.Git.WritePreCommitScript(script) }},
			})
		},
	}
	bindDryRun(cmd, a)
	return cmd
}

func newCICommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Write CI pipeline definitions",
	}

	gitlab := &cobra.Command{
		Use:   "gitlab [project-home]",
		Short: "Write .gitlab-ci.yml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := a.gitWorkTree(args)
			if err != nil || !ok {
				return err
			}
			return a.runSteps([]writeStep{
				{p.Git.GitLabCIPath, func() error { return p.Git.WriteGitLabCI(settings.GitLabCIConfig(nil)) }},
			})
		},
	}
	bindDryRun(gitlab, a)

	var name string
	github := &cobra.Command{
		Use:   "github [project-home]",
		Short: "Write a GitHub Actions workflow",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := a.gitWorkTree(args)
			if err != nil || !ok {
				return err
			}
			path := filepath.Join(p.Git.WorkflowsPath, name+".yml")
			wf := settings.GitHubActionsConfig(settings.GitHubWorkflow{})
			return a.runSteps([]writeStep{
				{path, func() error { return p.Git.WriteGitHubWorkflow(name, wf) }},
			})
		},
	}
	github.Flags().StringVar(&name, "name", "deno", "Workflow file name without extension")
	bindDryRun(github, a)

	cmd.AddCommand(gitlab, github)
	return cmd
}
