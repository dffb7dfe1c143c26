package project

import (
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/shah/vscode-team/internal/polyglot"
)

// ReactConfig writes the editor settings of a React project.
type ReactConfig struct {
	vsCodeFiles

	TSConfigPath string `json:"tsConfigPath"`
}

func (r *ReactConfig) ConfigPathExists() bool {
	return r.fsys.Exists(r.TSConfigPath)
}

// EnrichReactProject detects tsconfig.json with compilerOptions.jsx set to
// "react". Any other value, or a malformed tsconfig, is not React.
func EnrichReactProject(ec EnrichContext, p Project) (Project, error) {
	if guard(p, ReactProject) {
		return p, nil
	}

	tsConfig, err := polyglot.NewJSONFile(ec.FS, filepath.Join(p.AbsPath, "tsconfig.json"))
	if err != nil || !tsConfig.Exists() {
		return p, err
	}
	jsx, ok, err := tsConfig.Lookup("compilerOptions.jsx")
	if err != nil || !ok || jsx.Type != gjson.String || jsx.Str != "react" {
		return p, err
	}

	result := p.with(ReactProject)
	result.React = &ReactConfig{
		vsCodeFiles:  newVsCodeFiles(ec.FS, p.AbsPath),
		TSConfigPath: tsConfig.Path(),
	}
	return result, nil
}
