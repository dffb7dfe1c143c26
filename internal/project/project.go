// Package project detects what kind of software project lives at a path and
// exposes typed accessors for the configuration files of each kind.
package project

import (
	"encoding/json"

	"github.com/shah/vscode-team/internal/filesystem"
)

// Project is a Path plus every capability detected for it so far. Each
// capability owns an optional bundle which is non-nil exactly when the
// capability is present. Values are copied, never mutated, by enrichment.
type Project struct {
	Path
	Capabilities Capability

	VsCode     *VsCodeConfig
	Git        *GitConfig
	TypeScript *TypeScriptConfig
	Deno       *DenoConfig
	Npm        *NpmConfig
	Hugo       *HugoConfig
	React      *ReactConfig
	Node       *NodeConfig
	Python     *PythonConfig
}

// New wraps a prepared path with no capabilities.
func New(path Path) Project {
	return Project{Path: path}
}

// Is reports whether p carries all of caps.
func (p Project) Is(caps Capability) bool {
	return p.Capabilities.Has(caps)
}

func (p Project) with(caps Capability) Project {
	p.Capabilities |= caps
	return p
}

// MarshalJSON renders the project with one literal true field per marker.
func (p Project) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"isProjectPath":        true,
		"absProjectPath":       p.AbsPath,
		"absProjectPathExists": p.Exists,
	}
	for _, marker := range p.Capabilities.Markers() {
		out[marker] = true
	}

	addBundle(out, "vsCodeConfig", p.VsCode, p.VsCode == nil)
	addBundle(out, "gitConfig", p.Git, p.Git == nil)
	addBundle(out, "typeScriptConfig", p.TypeScript, p.TypeScript == nil)
	addBundle(out, "denoConfig", p.Deno, p.Deno == nil)
	addBundle(out, "npmConfig", p.Npm, p.Npm == nil)
	addBundle(out, "hugoConfig", p.Hugo, p.Hugo == nil)
	addBundle(out, "reactConfig", p.React, p.React == nil)
	addBundle(out, "nodeConfig", p.Node, p.Node == nil)
	addBundle(out, "pythonConfig", p.Python, p.Python == nil)
	return json.Marshal(out)
}

func addBundle(out map[string]any, key string, bundle any, isNil bool) {
	if !isNil {
		out[key] = bundle
	}
}

// EnrichContext carries what every enricher needs besides the project value.
type EnrichContext struct {
	FS      filesystem.FileSystem
	AbsPath string
}

// NewContext builds the context for enriching path.
func NewContext(fsys filesystem.FileSystem, path Path) EnrichContext {
	return EnrichContext{FS: fsys, AbsPath: path.AbsPath}
}
