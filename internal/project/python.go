package project

import (
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/settings"
)

type PythonConfig struct {
	vsCodeFiles

	PreCommitHookPath string `json:"gitPrecommitHook"`
}

// WritePreCommitScript replaces the git pre-commit hook.
func (c *PythonConfig) WritePreCommitScript(script settings.ShellScript) error {
	return writeFile(c.fsys, c.PreCommitHookPath, []byte(script), scriptPerm)
}

// EnrichPythonProject detects setup.py or requirements.txt.
func EnrichPythonProject(ec EnrichContext, p Project) (Project, error) {
	if guard(p, PythonProject) {
		return p, nil
	}

	found := false
	for _, marker := range []string{"setup.py", "requirements.txt"} {
		ok, err := filesystem.Probe(ec.FS, filepath.Join(p.AbsPath, marker))
		if err != nil {
			return p, err
		}
		found = found || ok
	}
	if !found {
		return p, nil
	}

	result := p.with(PythonProject)
	result.Python = &PythonConfig{
		vsCodeFiles:       newVsCodeFiles(ec.FS, p.AbsPath),
		PreCommitHookPath: filepath.Join(p.AbsPath, ".git", "hooks", "pre-commit"),
	}
	return result, nil
}
