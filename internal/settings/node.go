package settings

import (
	"fmt"

	"dario.cat/mergo"
)

// TypeScriptCompilerConfig is the content of a tsconfig.json file.
type TypeScriptCompilerConfig struct {
	CompilerOptions CompilerOptions `json:"compilerOptions"`
	Include         []string        `json:"include"`
	Exclude         []string        `json:"exclude"`
}

type CompilerOptions struct {
	OutDir                           string   `json:"outDir"`
	Declaration                      bool     `json:"declaration"`
	SourceMap                        bool     `json:"sourceMap"`
	Target                           string   `json:"target"`
	Lib                              []string `json:"lib"`
	AllowJs                          bool     `json:"allowJs"`
	SkipLibCheck                     bool     `json:"skipLibCheck"`
	EsModuleInterop                  bool     `json:"esModuleInterop"`
	AllowSyntheticDefaultImports     bool     `json:"allowSyntheticDefaultImports"`
	Strict                           bool     `json:"strict"`
	AlwaysStrict                     bool     `json:"alwaysStrict"`
	NoImplicitAny                    bool     `json:"noImplicitAny"`
	ForceConsistentCasingInFileNames bool     `json:"forceConsistentCasingInFileNames"`
	Module                           string   `json:"module"`
	ModuleResolution                 string   `json:"moduleResolution"`
	ResolveJsonModule                bool     `json:"resolveJsonModule"`
	IsolatedModules                  bool     `json:"isolatedModules"`
	NoEmit                           bool     `json:"noEmit"`
	Jsx                              string   `json:"jsx"`
	TypeRoots                        []string `json:"typeRoots"`
	EmitDecoratorMetadata            bool     `json:"emitDecoratorMetadata"`
	ExperimentalDecorators           bool     `json:"experimentalDecorators"`
}

func defaultTSConfig() TypeScriptCompilerConfig {
	return TypeScriptCompilerConfig{
		CompilerOptions: CompilerOptions{
			OutDir:                           "dist",
			Declaration:                      true,
			SourceMap:                        true,
			Target:                           "es6",
			Lib:                              []string{"dom", "dom.iterable", "esnext"},
			AllowJs:                          true,
			SkipLibCheck:                     true,
			EsModuleInterop:                  true,
			AllowSyntheticDefaultImports:     true,
			Strict:                           true,
			AlwaysStrict:                     true,
			NoImplicitAny:                    true,
			ForceConsistentCasingInFileNames: true,
			Module:                           "umd",
			ModuleResolution:                 "node",
			IsolatedModules:                  true,
			Jsx:                              "preserve",
			TypeRoots:                        []string{"./node_modules/@types"},
			EmitDecoratorMetadata:            true,
			ExperimentalDecorators:           true,
		},
		Include: []string{"**/*.ts"},
		Exclude: []string{"**/node_modules", "dist", "**/.*/"},
	}
}

// TSConfig fills every zero field of partial with the defaults. Boolean
// options can therefore only be switched on, never off.
func TSConfig(partial TypeScriptCompilerConfig) (TypeScriptCompilerConfig, error) {
	cfg := partial
	if err := mergo.Merge(&cfg, defaultTSConfig()); err != nil {
		return TypeScriptCompilerConfig{}, fmt.Errorf("failed to build tsconfig: %w", err)
	}
	return cfg, nil
}

// ESLintSettings is the content of an .eslintrc file.
type ESLintSettings map[string]any

func DefaultESLintSettings() ESLintSettings {
	return ESLintSettings{
		"root":   true,
		"parser": "@typescript-eslint/parser",
		"plugins": []any{
			"@typescript-eslint",
		},
		"extends": []any{
			"eslint:recommended",
			"plugin:@typescript-eslint/eslint-recommended",
			"plugin:@typescript-eslint/recommended",
		},
	}
}

// DefaultESLintIgnoreDirs become the lines of .eslintignore.
var DefaultESLintIgnoreDirs = []string{"node_modules", "dist"}

// PackageConfig is the content of a package.json file.
type PackageConfig struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Main            string            `json:"main,omitempty"`
	Types           string            `json:"types,omitempty"`
	License         string            `json:"license,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// DefaultPackageConfig describes a TypeScript library compiled to dist/.
func DefaultPackageConfig(name string) PackageConfig {
	return PackageConfig{
		Name:    name,
		Version: "0.1.0",
		Main:    "dist/index.js",
		Types:   "dist/index.d.ts",
		Scripts: map[string]string{
			"build":          "tsc",
			"lint":           "eslint . --ext .ts",
			"test":           "jest",
			"prepublishOnly": "npm run build",
		},
		DevDependencies: map[string]string{
			"typescript":                       "^4.0.0",
			"eslint":                           "^7.0.0",
			"@typescript-eslint/parser":        "^4.0.0",
			"@typescript-eslint/eslint-plugin": "^4.0.0",
		},
	}
}
