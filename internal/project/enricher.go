package project

import (
	"fmt"

	"github.com/shah/vscode-team/internal/filesystem"
)

// EnrichFunc inspects the filesystem and returns p, possibly with one more
// capability attached. A capability that is absent is not an error; only
// filesystem failures other than "does not exist" are returned.
type EnrichFunc func(ec EnrichContext, p Project) (Project, error)

// Enricher is one named step of the detection chain.
type Enricher struct {
	Capability Capability
	Name       string
	Apply      EnrichFunc
}

// DefaultEnrichers returns the detection chain in its canonical order. Later
// steps read bundles attached by earlier ones.
func DefaultEnrichers() []Enricher {
	return []Enricher{
		{VsCodeWorkTree, "vscode", EnrichVsCodeWorkTree},
		{GitWorkTree, "git", EnrichGitWorkTree},
		{DenoProjectByVsCodePlugin, "deno", EnrichDenoProjectByVsCodePlugin},
		{NpmProject, "npm", EnrichNpmProject},
		{TypeScriptProject, "typescript", EnrichTypeScriptProject},
		{HugoProject, "hugo", EnrichHugoProject},
		{ReactProject, "react", EnrichReactProject},
		{NodeProject, "node", EnrichNodeProject},
		{PythonProject, "python", EnrichPythonProject},
	}
}

// Option configures Enrich.
type Option func(*options)

type options struct {
	transform func([]Enricher) []Enricher
}

// WithEnrichers lets the caller filter or reorder the default chain.
func WithEnrichers(transform func(suggested []Enricher) []Enricher) Option {
	return func(o *options) {
		o.transform = transform
	}
}

// Only keeps the enrichers whose capability is in caps, preserving order.
func Only(caps Capability) Option {
	return WithEnrichers(func(suggested []Enricher) []Enricher {
		var kept []Enricher
		for _, e := range suggested {
			if caps&e.Capability != 0 {
				kept = append(kept, e)
			}
		}
		return kept
	})
}

// Enrich folds the chain over start: the output of each enricher is the input
// of the next.
func Enrich(ec EnrichContext, start Project, opts ...Option) (Project, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	chain := DefaultEnrichers()
	if o.transform != nil {
		chain = o.transform(chain)
	}

	result := start
	for _, e := range chain {
		next, err := e.Apply(ec, result)
		if err != nil {
			return start, fmt.Errorf("%s detection failed for %s: %w", e.Name, start.AbsPath, err)
		}
		result = next
	}
	return result, nil
}

// Detect prepares path and runs the chain over it.
func Detect(fsys filesystem.FileSystem, path string, opts ...Option) (Project, error) {
	pp, err := Prepare(fsys, path)
	if err != nil {
		return Project{}, err
	}
	return Enrich(NewContext(fsys, pp), New(pp), opts...)
}

// guard implements the checks shared by every enricher: already enriched, or
// nothing on disk to inspect.
func guard(p Project, c Capability) bool {
	return p.Is(c) || !p.Exists
}
