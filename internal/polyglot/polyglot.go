// Package polyglot classifies files found under a project by extension and
// gives lazy access to the content of the ones it understands.
package polyglot

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/shah/vscode-team/internal/filesystem"
)

// File is a classified filesystem entry.
type File interface {
	Path() string
	Ext() string
	Exists() bool
	RelativeTo(base string) (string, error)
}

// PlainFile carries only metadata; it is what every non-JSON file becomes.
type PlainFile struct {
	path   string
	ext    string
	exists bool
}

func (f *PlainFile) Path() string { return f.path }
func (f *PlainFile) Ext() string  { return f.ext }
func (f *PlainFile) Exists() bool { return f.exists }

func (f *PlainFile) RelativeTo(base string) (string, error) {
	return filepath.Rel(base, f.path)
}

// JSONFile reads and parses its content on first use.
type JSONFile struct {
	PlainFile

	fsys filesystem.FileSystem
	once sync.Once
	raw  []byte
	err  error
}

// NewJSONFile builds a JSONFile for path. A missing file is not an error.
func NewJSONFile(fsys filesystem.FileSystem, path string) (*JSONFile, error) {
	exists, err := filesystem.Probe(fsys, path)
	if err != nil {
		return nil, err
	}
	return &JSONFile{
		PlainFile: PlainFile{path: path, ext: filepath.Ext(path), exists: exists},
		fsys:      fsys,
	}, nil
}

// Bytes returns the raw file content, or nil when the file does not exist.
func (f *JSONFile) Bytes() ([]byte, error) {
	f.once.Do(func() {
		if !f.exists {
			return
		}
		f.raw, f.err = f.fsys.ReadFile(f.path)
		if f.err != nil {
			f.err = fmt.Errorf("failed to read %s: %w", f.path, f.err)
		}
	})
	return f.raw, f.err
}

// Valid reports whether the file exists and holds well-formed JSON.
func (f *JSONFile) Valid() (bool, error) {
	data, err := f.Bytes()
	if err != nil || data == nil {
		return false, err
	}
	return gjson.ValidBytes(data), nil
}

// Content decodes the whole document. It returns nil for a missing file.
func (f *JSONFile) Content() (any, error) {
	data, err := f.Bytes()
	if err != nil || data == nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return v, nil
}

// ContentDict decodes the document as an object. It returns nil when the
// file is missing or its top level is not an object.
func (f *JSONFile) ContentDict() (map[string]any, error) {
	v, err := f.Content()
	if err != nil {
		return nil, err
	}
	dict, _ := v.(map[string]any)
	return dict, nil
}

// Lookup evaluates a gjson path against the document. ok is false when the
// file is missing or malformed; err is reserved for read failures.
func (f *JSONFile) Lookup(path string) (res gjson.Result, ok bool, err error) {
	valid, err := f.Valid()
	if err != nil || !valid {
		return gjson.Result{}, false, err
	}
	return gjson.GetBytes(f.raw, path), true, nil
}

// Truthy evaluates path using JavaScript truthiness. Malformed or missing
// documents are never truthy.
func (f *JSONFile) Truthy(path string) (bool, error) {
	res, ok, err := f.Lookup(path)
	if err != nil || !ok {
		return false, err
	}
	return Truthy(res), nil
}

// Truthy applies JavaScript truthiness to a JSON value.
func Truthy(res gjson.Result) bool {
	switch res.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return res.Num != 0
	case gjson.String:
		return res.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// Key escapes a literal object key so it can be used in a gjson path.
// VS Code settings keys such as "deno.enable" contain dots.
func Key(name string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(name)
}

// Guess classifies path by extension. Only .json files get content access.
func Guess(fsys filesystem.FileSystem, path string) (File, error) {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".json") {
		return NewJSONFile(fsys, path)
	}
	exists, err := filesystem.Probe(fsys, path)
	if err != nil {
		return nil, err
	}
	return &PlainFile{path: path, ext: ext, exists: exists}, nil
}
