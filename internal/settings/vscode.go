// Package settings holds the configuration documents written into projects:
// VS Code settings and extension recommendations, tsconfig, ESLint, package
// manifests, git hooks and CI pipelines.
package settings

import (
	"fmt"

	"dario.cat/mergo"
)

// Settings is the content of a .vscode/settings.json file.
type Settings map[string]any

// Extension identifies a VS Code marketplace extension.
type Extension struct {
	MarketplaceID string `json:"marketplaceId"`
}

// ExtensionRecommendations is the content of a .vscode/extensions.json file.
type ExtensionRecommendations struct {
	Recommendations []string `json:"recommendations"`
}

// Recommendations converts extensions to the extensions.json shape.
func Recommendations(extensions []Extension) ExtensionRecommendations {
	ids := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ids = append(ids, ext.MarketplaceID)
	}
	return ExtensionRecommendations{Recommendations: ids}
}

const fontFamily = "CascadianCode NF"

// CommonSettings applies to every VS Code work tree.
func CommonSettings() Settings {
	return Settings{
		"editor.fontFamily":              fontFamily,
		"explorer.openEditors.visible":   0,
		"terminal.integrated.fontFamily": fontFamily,
		"editor.formatOnSave":            true,
		"git.autofetch":                  true,
	}
}

// DenoSettings enables the Deno language server.
func DenoSettings() Settings {
	return mustLayer(CommonSettings(), Settings{
		"deno.autoFmtOnSave": true,
		"deno.enable":        true,
		"deno.unstable":      true,
		"deno.lint":          true,
		"[typescript]": map[string]any{
			"editor.defaultFormatter": "denoland.vscode-deno",
		},
		"[typescriptreact]": map[string]any{
			"editor.defaultFormatter": "denoland.vscode-deno",
		},
	})
}

// HugoSettings are the common settings; Hugo only adds extensions.
func HugoSettings() Settings {
	return CommonSettings()
}

func CommonExtensions() []Extension {
	return extensions(
		"christian-kohler.path-intellisense",
		"coenraads.bracket-pair-colorizer-2",
		"shd101wyy.markdown-preview-enhanced",
		"visualstudioexptteam.vscodeintellicode",
		"quicktype.quicktype",
		"axetroy.vscode-changelog-generator",
		"humao.rest-client",
	)
}

func DenoExtensions() []Extension {
	return append(CommonExtensions(), extensions("denoland.vscode-deno")...)
}

func HugoExtensions() []Extension {
	return append(CommonExtensions(), extensions(
		"rusnasonov.vscode-hugo",
		"eliostruyf.vscode-hugo-themer",
		"akmittal.hugofy",
		"budparr.language-hugo-vscode",
		"ms-edgedevtools.vscode-edge-devtools",
	)...)
}

// Layer merges overrides onto a copy of base. Later layers win and nested
// objects such as "[typescript]" are merged key by key. None of the inputs
// are modified.
func Layer(base Settings, overrides ...Settings) (Settings, error) {
	result := clone(base)
	for _, o := range overrides {
		if err := mergo.Merge(&result, clone(o), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to layer settings: %w", err)
		}
	}
	return result, nil
}

func clone(s Settings) Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Settings:
		return clone(t)
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

func mustLayer(base Settings, overrides ...Settings) Settings {
	s, err := Layer(base, overrides...)
	if err != nil {
		panic(err)
	}
	return s
}

func extensions(ids ...string) []Extension {
	out := make([]Extension, 0, len(ids))
	for _, id := range ids {
		out = append(out, Extension{MarketplaceID: id})
	}
	return out
}
