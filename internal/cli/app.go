package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/config"
	"github.com/shah/vscode-team/internal/fetch"
	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/git"
	"github.com/shah/vscode-team/internal/github"
	"github.com/shah/vscode-team/internal/logging"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/tui"
	"github.com/shah/vscode-team/internal/tui/components"
	"github.com/shah/vscode-team/internal/workspace"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=v1.2.3".
var Version = "dev"

// Deps are the collaborators shared by every command. Tests swap in mocks.
type Deps struct {
	FS       filesystem.FileSystem
	Runner   shell.Runner
	Git      git.GitClient
	GitHub   github.GitHubClient
	HTTP     *http.Client
	Prompter tui.Prompter
	// Config skips loading from disk when set.
	Config *config.Config
	Out    io.Writer
	ErrOut io.Writer
	Logger *log.Logger
}

// DefaultDeps wires the real filesystem, git binary and terminal. GitHub
// downloads are authenticated when GH_TOKEN or GITHUB_TOKEN is set.
func DefaultDeps(prefix string) Deps {
	runner := shell.NewOSRunner()
	deps := Deps{
		FS:       filesystem.NewOSFileSystem(),
		Runner:   runner,
		Git:      git.NewGitClient(runner),
		HTTP:     http.DefaultClient,
		Prompter: &components.Terminal{In: os.Stdin, Out: os.Stderr},
		Out:      os.Stdout,
		ErrOut:   os.Stderr,
		Logger:   logging.New(os.Stderr, prefix, false),
	}
	if gh, err := github.NewClientFromEnv(); err == nil {
		deps.GitHub = gh
	}
	return deps
}

// syncWriter serializes writes from concurrent folder jobs.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type app struct {
	Deps

	configPath string
	verbose    bool
	dryRun     bool
}

func newApp(deps Deps) *app {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.ErrOut == nil {
		deps.ErrOut = io.Discard
	}
	if deps.Git == nil && deps.Runner != nil {
		deps.Git = git.NewGitClient(deps.Runner)
	}
	if deps.Prompter == nil {
		deps.Prompter = &tui.StaticPrompter{}
	}
	deps.Out = &syncWriter{w: deps.Out}
	deps.ErrOut = &syncWriter{w: deps.ErrOut}
	return &app{Deps: deps}
}

func (a *app) bindRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/vscode-team/config.yaml)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Be descriptive about what's going on")
	cmd.PersistentPreRunE = a.preRun
}

func bindDryRun(cmd *cobra.Command, a *app) {
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Show what will happen instead of executing")
}

func (a *app) preRun(cmd *cobra.Command, args []string) error {
	if a.Config == nil || a.configPath != "" {
		cfg, file, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.Config = cfg
		if file != "" {
			a.Logger.Debug("loaded config", "file", file)
		}
	}
	if a.Config.Verbose {
		a.verbose = true
	}
	logging.SetVerbose(a.Logger, a.verbose)
	return nil
}

func (a *app) executor(dryRun bool) *shell.Executor {
	e := shell.NewExecutor(a.Runner, dryRun)
	e.Out = a.Out
	e.ErrOut = a.ErrOut
	return e
}

func (a *app) copier() *fetch.Copier {
	c := fetch.NewCopier(a.FS, a.GitHub, a.Out, a.Logger)
	if a.HTTP != nil {
		c.HTTP = a.HTTP
	}
	return c
}

func (a *app) loader() *workspace.Loader {
	return workspace.NewLoader(a.FS, a.Logger)
}

func (a *app) folders(wsFiles []string) ([]workspace.FolderContext, error) {
	return a.loader().Folders(workspace.Options{FileNames: wsFiles})
}

// templateRef picks the settings template ref: the flag, then the config,
// then the template repository's default branch.
func (a *app) templateRef(ctx context.Context, tag string) string {
	if tag != "" {
		return tag
	}
	if a.Config.Templates.Ref != "" {
		return a.Config.Templates.Ref
	}
	if a.GitHub != nil {
		repo, err := a.GitHub.GetRepository(ctx, a.Config.Templates.Owner, a.Config.Templates.Repo)
		if err == nil && repo.DefaultBranch != "" {
			return repo.DefaultBranch
		}
		a.Logger.Debug("could not resolve template default branch", "err", err)
	}
	return "master"
}

// copyTemplateSettings copies <kind>.vscode/{settings,extensions}.json from
// the template repository into dir/.vscode. Inside a checkout of the
// template repository itself nothing is written.
func (a *app) copyTemplateSettings(ctx context.Context, kind, dir, tag string, dryRun bool) error {
	t := a.Config.Templates
	sources := fetch.VsCodeTemplateSources(t.Owner, t.Repo, a.templateRef(ctx, tag), kind)

	if cwd, err := a.FS.Getwd(); err == nil && fetch.IsTemplateRepo(cwd, t.Repo) {
		a.Logger.Warn("running inside the template repository, forcing dry run", "repo", t.Repo)
		dryRun = true
	}

	return a.copier().CopySourceToDest(ctx, sources, filepath.Join(dir, ".vscode"), fetch.Options{
		DryRun:  dryRun,
		Verbose: a.verbose,
	})
}

// runJobs runs one job per folder and reports each failure. The combined
// error makes the command exit non-zero.
func (a *app) runJobs(ctx context.Context, jobs []shell.Job) error {
	err := shell.RunAll(ctx, jobs)
	for _, e := range shell.Errors(err) {
		var exitErr *shell.ExitError
		if errors.As(e, &exitErr) {
			a.Logger.Debug("command failed", "err", e)
			continue
		}
		a.Logger.Error(e.Error())
	}
	if err != nil {
		return fmt.Errorf("%d of %d folders failed", len(shell.Errors(err)), len(jobs))
	}
	return nil
}

// execute runs root and logs the error the way every binary reports it.
func execute(root *cobra.Command, logger *log.Logger) error {
	if err := root.Execute(); err != nil {
		logger.Error(err.Error())
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}
