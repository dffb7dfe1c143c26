package project

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shah/vscode-team/internal/filesystem"
)

const (
	dirPerm    fs.FileMode = 0755
	filePerm   fs.FileMode = 0644
	scriptPerm fs.FileMode = 0755
)

// ensureDir creates dir unless something already answers to that name; a
// symlinked .vscode must be left alone.
func ensureDir(fsys filesystem.FileSystem, dir string) error {
	exists, err := filesystem.Probe(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if exists {
		return nil
	}
	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

func writeFile(fsys filesystem.FileSystem, path string, data []byte, perm fs.FileMode) error {
	if err := ensureDir(fsys, filepath.Dir(path)); err != nil {
		return err
	}
	if err := fsys.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeJSON(fsys filesystem.FileSystem, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(fsys, path, append(data, '\n'), filePerm)
}

func writeYAML(fsys filesystem.FileSystem, path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(fsys, path, data, filePerm)
}

func writeLines(fsys filesystem.FileSystem, path string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return writeFile(fsys, path, []byte(b.String()), filePerm)
}
