package project

import (
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
)

// TypeScriptConfig points at tsconfig.json. TSConfigPath is empty for Deno
// projects that have none.
type TypeScriptConfig struct {
	TSConfigPath string `json:"tsConfigFileName,omitempty"`
}

func EnrichTypeScriptProject(ec EnrichContext, p Project) (Project, error) {
	if guard(p, TypeScriptProject) {
		return p, nil
	}

	tsConfig := filepath.Join(p.AbsPath, "tsconfig.json")
	found, err := filesystem.Probe(ec.FS, tsConfig)
	if err != nil || !found {
		return p, err
	}

	result := p.with(TypeScriptProject)
	result.TypeScript = &TypeScriptConfig{TSConfigPath: tsConfig}
	return result, nil
}
