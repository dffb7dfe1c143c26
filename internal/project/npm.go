package project

import (
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/polyglot"
)

// NpmConfig gives access to package.json.
type NpmConfig struct {
	fsys filesystem.FileSystem

	PackagePath string `json:"packageFileName"`
}

// IsValid reports whether package.json is present.
func (n *NpmConfig) IsValid() bool {
	return n.fsys.Exists(n.PackagePath)
}

// IsPublishable reports whether scripts.prepublishOnly is truthy. A malformed
// package.json is not publishable.
func (n *NpmConfig) IsPublishable() (bool, error) {
	pkg, err := n.PackageFile()
	if err != nil {
		return false, err
	}
	return pkg.Truthy("scripts.prepublishOnly")
}

// PackageFile opens package.json for lazy reading.
func (n *NpmConfig) PackageFile() (*polyglot.JSONFile, error) {
	return polyglot.NewJSONFile(n.fsys, n.PackagePath)
}

// EnrichNpmProject detects package.json and, through its prepublishOnly
// script, whether the package is meant to be published.
func EnrichNpmProject(ec EnrichContext, p Project) (Project, error) {
	if guard(p, NpmProject) {
		return p, nil
	}

	cfg := &NpmConfig{fsys: ec.FS, PackagePath: filepath.Join(p.AbsPath, "package.json")}
	found, err := filesystem.Probe(ec.FS, cfg.PackagePath)
	if err != nil || !found {
		return p, err
	}

	publishable, err := cfg.IsPublishable()
	if err != nil {
		return p, err
	}

	result := p.with(NpmProject)
	if publishable {
		result = result.with(NpmPublishableProject)
	}
	result.Npm = cfg
	return result, nil
}
