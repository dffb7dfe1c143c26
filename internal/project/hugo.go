package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/shah/vscode-team/internal/filesystem"
)

// hugoConfigNames are checked in order; the first one present wins.
var hugoConfigNames = []string{
	"hugo.toml", "hugo.yaml", "hugo.yml", "hugo.json",
	"config.toml", "config.yaml", "config.yml", "config.json",
}

// HugoConfig describes a Hugo site.
type HugoConfig struct {
	fsys filesystem.FileSystem

	Root        string `json:"-"`
	ThemesPath  string `json:"themesPath"`
	LayoutsPath string `json:"layoutsPath"`
	ContentPath string `json:"contentPath"`
}

// SiteConfig holds the site-wide keys used for reporting.
type SiteConfig struct {
	Title   string `toml:"title" yaml:"title" json:"title"`
	BaseURL string `toml:"baseURL" yaml:"baseURL" json:"baseURL"`
	Theme   string `toml:"theme" yaml:"theme" json:"theme"`
}

// ContentPage is a markdown page below content/.
type ContentPage struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Draft bool   `json:"draft"`
}

// ConfigFile returns the site configuration file, if any.
func (h *HugoConfig) ConfigFile() (string, bool) {
	return FindInPath(h.fsys, "", configCandidates(h.Root))
}

func configCandidates(root string) []string {
	paths := make([]string, 0, len(hugoConfigNames))
	for _, name := range hugoConfigNames {
		paths = append(paths, filepath.Join(root, name))
	}
	return paths
}

// SiteConfig decodes the site configuration. It returns a zero value when
// the site has no configuration file.
func (h *HugoConfig) SiteConfig() (SiteConfig, error) {
	var cfg SiteConfig
	path, ok := h.ConfigFile()
	if !ok {
		return cfg, nil
	}

	data, err := h.fsys.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return SiteConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

type pageMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
	Draft bool   `yaml:"draft" toml:"draft" json:"draft"`
}

// ContentPages reads the front matter of every markdown file below content/.
// Pages without front matter are listed with empty fields.
func (h *HugoConfig) ContentPages() ([]ContentPage, error) {
	exists, err := filesystem.IsDir(h.fsys, h.ContentPath)
	if err != nil || !exists {
		return nil, err
	}

	var pages []ContentPage
	err = h.fsys.WalkDir(h.ContentPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		data, err := h.fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var matter pageMatter
		if _, err := frontmatter.Parse(bytes.NewReader(data), &matter); err != nil {
			return fmt.Errorf("failed to parse front matter in %s: %w", path, err)
		}

		rel, err := filepath.Rel(h.ContentPath, path)
		if err != nil {
			return err
		}
		pages = append(pages, ContentPage{Path: rel, Title: matter.Title, Draft: matter.Draft})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
	return pages, nil
}

// EnrichHugoProject detects a themes/ or layouts/ directory.
func EnrichHugoProject(ec EnrichContext, p Project) (Project, error) {
	if guard(p, HugoProject) {
		return p, nil
	}

	cfg := &HugoConfig{
		fsys:        ec.FS,
		Root:        p.AbsPath,
		ThemesPath:  filepath.Join(p.AbsPath, "themes"),
		LayoutsPath: filepath.Join(p.AbsPath, "layouts"),
		ContentPath: filepath.Join(p.AbsPath, "content"),
	}

	hasThemes, err := filesystem.Probe(ec.FS, cfg.ThemesPath)
	if err != nil {
		return p, err
	}
	hasLayouts, err := filesystem.Probe(ec.FS, cfg.LayoutsPath)
	if err != nil {
		return p, err
	}
	if !hasThemes && !hasLayouts {
		return p, nil
	}

	result := p.with(HugoProject)
	result.Hugo = cfg
	return result, nil
}
