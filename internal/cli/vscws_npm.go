package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shah/vscode-team/internal/project"
	"github.com/shah/vscode-team/internal/shell"
	"github.com/shah/vscode-team/internal/workspace"
)

func newVscwsNpmCommand(a *app) *cobra.Command {
	var nodeHome string

	cmd := &cobra.Command{
		Use:   "npm",
		Short: "Run npm in every folder that is an npm project",
	}
	cmd.PersistentFlags().StringVar(&nodeHome, "node-home", "", "NodeJS installation containing bin/npm (default: config node.home)")

	simple := []struct {
		name        string
		short       string
		publishable bool
	}{
		{"install", "npm install in every npm project", false},
		{"update", "npm update in every npm project", false},
		{"test", "npm test in every npm project", false},
		{"publish", "npm publish in every publishable npm project", true},
	}
	for _, s := range simple {
		s := s
		sub := &cobra.Command{
			Use:   s.name + " <file.code-workspace>...",
			Short: s.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				caps := project.NpmProject
				if s.publishable {
					caps |= project.NpmPublishableProject
				}
				return a.npmEach(cmd.Context(), args, nodeHome, caps, s.name)
			},
		}
		bindDryRun(sub, a)
		cmd.AddCommand(sub)
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Manage package versions",
	}
	var noGitTag bool
	bump := &cobra.Command{
		Use:       "bump (major|minor|patch) <file.code-workspace>...",
		Short:     "npm version <level> in every npm project",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"major", "minor", "patch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			level := args[0]
			if level != "major" && level != "minor" && level != "patch" {
				return fmt.Errorf("unknown version level %q (expected major, minor or patch)", level)
			}
			var params []string
			if noGitTag {
				params = append(params, "--no-git-tag-version")
			}
			params = append(params, "version", level)
			return a.npmEach(cmd.Context(), args[1:], nodeHome, project.NpmProject, params...)
		},
	}
	bump.Flags().BoolVar(&noGitTag, "no-git-tag-version", false, "Do not create a git commit and tag")
	bindDryRun(bump, a)
	version.AddCommand(bump)
	cmd.AddCommand(version)

	return cmd
}

// validNodeHome reports whether nodeHome contains bin/npm.
func (a *app) validNodeHome(nodeHome string) bool {
	return a.FS.Exists(nodeHome) && a.FS.Exists(filepath.Join(nodeHome, "bin", "npm"))
}

// npmCommand runs npm from nodeHome in the folder.
func npmCommand(dir, nodeHome string, params ...string) shell.Command {
	return shell.New(dir, append([]string{"npm"}, params...)...).
		WithEnv("PATH", filepath.Join(nodeHome, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func (a *app) npmEach(ctx context.Context, wsFiles []string, nodeHome string, caps project.Capability, params ...string) error {
	if nodeHome == "" {
		nodeHome = a.Config.Node.Home
	}
	if !a.validNodeHome(nodeHome) {
		fmt.Fprintf(a.ErrOut, "%s is not a valid NodeJS Path (missing bin/npm)\n", nodeHome)
		return nil
	}

	folders, err := a.folders(wsFiles)
	if err != nil {
		return err
	}
	folders = workspace.Filter(folders, func(f workspace.FolderContext) bool {
		return f.Project.Is(caps)
	})

	exec := a.executor(a.dryRun)
	jobs := make([]shell.Job, 0, len(folders))
	for _, f := range folders {
		jobs = append(jobs, a.folderJob(f, exec, []shell.Command{npmCommand(f.Project.AbsPath, nodeHome, params...)}))
	}
	return a.runJobs(ctx, jobs)
}
