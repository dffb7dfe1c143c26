package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/settings"
)

// GitConfig locates the repository metadata and the CI files of a work tree.
type GitConfig struct {
	fsys filesystem.FileSystem

	WorkTree          string `json:"gitWorkTree"`
	GitDir            string `json:"gitDir"`
	PreCommitHookPath string `json:"preCommitHookFileName"`
	GitLabCIPath      string `json:"gitLabCIFileName"`
	WorkflowsPath     string `json:"gitHubWorkflowsPath"`
}

// WritePreCommitScript replaces the pre-commit hook and makes it executable.
func (g *GitConfig) WritePreCommitScript(script settings.ShellScript) error {
	return writeFile(g.fsys, g.PreCommitHookPath, []byte(script), scriptPerm)
}

// WriteGitLabCI replaces .gitlab-ci.yml.
func (g *GitConfig) WriteGitLabCI(cfg settings.GitLabCI) error {
	return writeYAML(g.fsys, g.GitLabCIPath, map[string]any(cfg))
}

// WriteGitHubWorkflow replaces .github/workflows/<name>.yml.
func (g *GitConfig) WriteGitHubWorkflow(name string, wf settings.GitHubWorkflow) error {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid workflow name %q", name)
	}
	return writeYAML(g.fsys, filepath.Join(g.WorkflowsPath, name+".yml"), wf)
}

// GitHubWorkflows lists the workflow files currently present.
func (g *GitConfig) GitHubWorkflows() ([]string, error) {
	exists, err := filesystem.IsDir(g.fsys, g.WorkflowsPath)
	if err != nil || !exists {
		return nil, err
	}

	entries, err := g.fsys.ReadDir(g.WorkflowsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", g.WorkflowsPath, err)
	}

	var files []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		files = append(files, filepath.Join(g.WorkflowsPath, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// EnrichGitWorkTree detects a .git entry under the project path.
func EnrichGitWorkTree(ec EnrichContext, p Project) (Project, error) {
	if guard(p, GitWorkTree) {
		return p, nil
	}

	gitDir := filepath.Join(p.AbsPath, ".git")
	found, err := filesystem.Probe(ec.FS, gitDir)
	if err != nil || !found {
		return p, err
	}

	result := p.with(GitWorkTree)
	result.Git = &GitConfig{
		fsys:              ec.FS,
		WorkTree:          p.AbsPath,
		GitDir:            gitDir,
		PreCommitHookPath: filepath.Join(gitDir, "hooks", "pre-commit"),
		GitLabCIPath:      filepath.Join(p.AbsPath, ".gitlab-ci.yml"),
		WorkflowsPath:     filepath.Join(p.AbsPath, ".github", "workflows"),
	}
	return result, nil
}
