package project

import (
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/settings"
)

// NodeConfig writes the tooling configuration of a Node project.
type NodeConfig struct {
	vsCodeFiles

	TSConfigPath      string `json:"tsConfigPath"`
	PackagePath       string `json:"pkgConfigPath"`
	ESLintPath        string `json:"esLintSettings"`
	ESLintIgnorePath  string `json:"esLintIgnore"`
	PreCommitHookPath string `json:"gitPrecommitHook"`
}

func (n *NodeConfig) ConfigPathExists() bool {
	return n.fsys.Exists(n.TSConfigPath)
}

// WritePackageConfig replaces package.json.
func (n *NodeConfig) WritePackageConfig(pkg settings.PackageConfig) error {
	return writeJSON(n.fsys, n.PackagePath, pkg)
}

// WriteTypeScriptConfig replaces tsconfig.json.
func (n *NodeConfig) WriteTypeScriptConfig(cfg settings.TypeScriptCompilerConfig) error {
	return writeJSON(n.fsys, n.TSConfigPath, cfg)
}

// WriteLintSettings replaces .eslintrc and writes one ignored directory per
// line to .eslintignore.
func (n *NodeConfig) WriteLintSettings(lint settings.ESLintSettings, ignoreDirs []string) error {
	if err := writeJSON(n.fsys, n.ESLintPath, lint); err != nil {
		return err
	}
	return writeLines(n.fsys, n.ESLintIgnorePath, ignoreDirs)
}

// WritePreCommitScript replaces the git pre-commit hook.
func (n *NodeConfig) WritePreCommitScript(script settings.ShellScript) error {
	return writeFile(n.fsys, n.PreCommitHookPath, []byte(script), scriptPerm)
}

// EnrichNodeProject detects tsconfig.json, the same trigger as TypeScript.
func EnrichNodeProject(ec EnrichContext, p Project) (Project, error) {
	if guard(p, NodeProject) {
		return p, nil
	}

	tsConfig := filepath.Join(p.AbsPath, "tsconfig.json")
	found, err := filesystem.Probe(ec.FS, tsConfig)
	if err != nil || !found {
		return p, err
	}

	result := p.with(NodeProject)
	result.Node = &NodeConfig{
		vsCodeFiles:       newVsCodeFiles(ec.FS, p.AbsPath),
		TSConfigPath:      tsConfig,
		PackagePath:       filepath.Join(p.AbsPath, "package.json"),
		ESLintPath:        filepath.Join(p.AbsPath, ".eslintrc"),
		ESLintIgnorePath:  filepath.Join(p.AbsPath, ".eslintignore"),
		PreCommitHookPath: filepath.Join(p.AbsPath, ".git", "hooks", "pre-commit"),
	}
	return result, nil
}
