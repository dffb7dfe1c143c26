package project

import (
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/settings"
)

// vsCodeFiles are the .vscode documents shared by several bundles.
type vsCodeFiles struct {
	fsys filesystem.FileSystem

	ConfigPath     string `json:"absConfigPath"`
	SettingsPath   string `json:"settingsFileName"`
	ExtensionsPath string `json:"extensionsFileName"`
}

func newVsCodeFiles(fsys filesystem.FileSystem, root string) vsCodeFiles {
	configPath := filepath.Join(root, ".vscode")
	return vsCodeFiles{
		fsys:           fsys,
		ConfigPath:     configPath,
		SettingsPath:   filepath.Join(configPath, "settings.json"),
		ExtensionsPath: filepath.Join(configPath, "extensions.json"),
	}
}

func (v *vsCodeFiles) SettingsExists() bool {
	return v.fsys.Exists(v.SettingsPath)
}

func (v *vsCodeFiles) ExtensionsExists() bool {
	return v.fsys.Exists(v.ExtensionsPath)
}

// WriteVSCodeSettings replaces .vscode/settings.json.
func (v *vsCodeFiles) WriteVSCodeSettings(s settings.Settings) error {
	if err := ensureDir(v.fsys, v.ConfigPath); err != nil {
		return err
	}
	return writeJSON(v.fsys, v.SettingsPath, s)
}

// WriteVSCodeExtensions replaces .vscode/extensions.json with the
// recommendations for extensions.
func (v *vsCodeFiles) WriteVSCodeExtensions(extensions []settings.Extension) error {
	if err := ensureDir(v.fsys, v.ConfigPath); err != nil {
		return err
	}
	return writeJSON(v.fsys, v.ExtensionsPath, settings.Recommendations(extensions))
}

// VsCodeConfig is attached to every existing project path.
type VsCodeConfig struct {
	vsCodeFiles
}

func (c *VsCodeConfig) ConfigPathExists() bool {
	return c.fsys.Exists(c.ConfigPath)
}

// EnrichVsCodeWorkTree treats every existing directory as a VS Code work tree.
func EnrichVsCodeWorkTree(ec EnrichContext, p Project) (Project, error) {
	if guard(p, VsCodeWorkTree) {
		return p, nil
	}

	result := p.with(VsCodeWorkTree)
	result.VsCode = &VsCodeConfig{vsCodeFiles: newVsCodeFiles(ec.FS, p.AbsPath)}
	return result, nil
}
