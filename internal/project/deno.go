package project

import (
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/polyglot"
)

// DepsCandidatePatterns are the files udd is pointed at.
var DepsCandidatePatterns = []string{"**/mod.ts", "**/deps.ts", "**/deps-test.ts"}

// DenoConfig is attached to Deno projects however they were detected.
type DenoConfig struct {
	fsys filesystem.FileSystem

	Root string `json:"-"`
}

// UpdateDepsCandidates finds every mod.ts, deps.ts and deps-test.ts below the
// project, skipping node_modules and anything the root .gitignore excludes.
func (d *DenoConfig) UpdateDepsCandidates() ([]polyglot.File, error) {
	ignore, err := polyglot.LoadGitIgnore(d.fsys, d.Root)
	if err != nil {
		return nil, err
	}
	opts := polyglot.GlobOptions{Ignore: ignore, SkipDirs: polyglot.DefaultSkipDirs}

	var files []polyglot.File
	for _, pattern := range DepsCandidatePatterns {
		matched, err := polyglot.GuessGlob(d.fsys, d.Root, pattern, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, matched...)
	}
	return files, nil
}

// CandidatePaths returns UpdateDepsCandidates relative to the project root.
func (d *DenoConfig) CandidatePaths() ([]string, error) {
	files, err := d.UpdateDepsCandidates()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if !f.Exists() {
			continue
		}
		rel, err := f.RelativeTo(d.Root)
		if err != nil {
			return nil, err
		}
		paths = append(paths, rel)
	}
	return paths, nil
}

// ForceDeno marks p as a Deno project, and therefore a TypeScript project,
// without looking for any trigger. via records how the caller decided.
func ForceDeno(ec EnrichContext, p Project, via ...Capability) (Project, error) {
	result := p.with(DenoProject | TypeScriptProject)
	for _, c := range via {
		result = result.with(c)
	}

	if result.TypeScript == nil {
		tsConfig := filepath.Join(p.AbsPath, "tsconfig.json")
		found, err := filesystem.Probe(ec.FS, tsConfig)
		if err != nil {
			return p, err
		}
		result.TypeScript = &TypeScriptConfig{}
		if found {
			result.TypeScript.TSConfigPath = tsConfig
		}
	}
	if result.Deno == nil {
		result.Deno = &DenoConfig{fsys: ec.FS, Root: p.AbsPath}
	}
	return result, nil
}

// EnrichDenoProjectByVsCodePlugin detects "deno.enable" in the VS Code
// settings. It depends on the VS Code bundle being attached first.
func EnrichDenoProjectByVsCodePlugin(ec EnrichContext, p Project) (Project, error) {
	if guard(p, DenoProjectByVsCodePlugin) || p.VsCode == nil {
		return p, nil
	}

	configDir, err := filesystem.Probe(ec.FS, p.VsCode.ConfigPath)
	if err != nil || !configDir {
		return p, err
	}

	settingsFile, err := polyglot.NewJSONFile(ec.FS, p.VsCode.SettingsPath)
	if err != nil {
		return p, err
	}
	enabled, err := settingsFile.Truthy(polyglot.Key("deno.enable"))
	if err != nil || !enabled {
		return p, err
	}

	return ForceDeno(ec, p, DenoProjectByVsCodePlugin)
}
