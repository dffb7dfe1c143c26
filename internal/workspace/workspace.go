// Package workspace reads VS Code *.code-workspace files and turns each of
// their folders into a detected project.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/shah/vscode-team/internal/filesystem"
	"github.com/shah/vscode-team/internal/logging"
	"github.com/shah/vscode-team/internal/project"
)

// File is the content of a .code-workspace file. Only the fields this tool
// reads are modelled.
type File struct {
	Folders  []Folder       `json:"folders"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Folder is one entry of a workspace's folders list. Path is relative to the
// directory holding the workspace file unless it is absolute.
type Folder struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// FolderContext ties a folder to the workspace file it came from and to the
// project detected at its location.
type FolderContext struct {
	WorkspaceFile string          `json:"wsFileName"`
	Workspace     *File           `json:"-"`
	Folder        Folder          `json:"folder"`
	Project       project.Project `json:"project"`
}

// MissingHandler is told about workspace files that do not exist.
type MissingHandler func(fileName string)

// ParseErrorHandler may supply a replacement for a workspace file that could
// not be parsed. Returning false skips the file.
type ParseErrorHandler func(fileName string, err error) (*File, bool)

// FolderEnricher detects the project behind one folder of wsFileName.
type FolderEnricher func(ec project.EnrichContext, wsFileName string, p project.Project, opts ...project.Option) (project.Project, error)

// Options selects the workspace files to read and how to react to problems.
type Options struct {
	FileNames      []string
	OnMissing      MissingHandler
	OnParseError   ParseErrorHandler
	FolderEnricher FolderEnricher
	ProjectOptions []project.Option
}

var denoWorkspaceName = regexp.MustCompile(`\.deno\.code-workspace$`)

// IsDenoWorkspace reports whether fileName follows the abc.deno.code-workspace
// naming convention.
func IsDenoWorkspace(fileName string) bool {
	return denoWorkspaceName.MatchString(fileName)
}

// EnrichFolder runs the detection chain and then, for folders that are not
// already Deno projects, applies the *.deno.code-workspace convention.
func EnrichFolder(ec project.EnrichContext, wsFileName string, p project.Project, opts ...project.Option) (project.Project, error) {
	enriched, err := project.Enrich(ec, p, opts...)
	if err != nil {
		return p, err
	}
	if enriched.Is(project.DenoProject) || !IsDenoWorkspace(wsFileName) {
		return enriched, nil
	}
	return project.ForceDeno(ec, enriched, project.DenoProjectByConvention)
}

// ParseError is returned by Read when a workspace file is not valid JSON.
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Loader reads workspace files from a filesystem.
type Loader struct {
	fs     filesystem.FileSystem
	logger *log.Logger
}

// NewLoader creates a Loader. A nil logger discards messages.
func NewLoader(fsys filesystem.FileSystem, logger *log.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{fs: fsys, logger: logger}
}

// Read parses a single workspace file.
func (l *Loader) Read(fileName string) (*File, error) {
	data, err := l.fs.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	var ws File
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, &ParseError{FileName: fileName, Err: err}
	}
	return &ws, nil
}

// Folders returns one context per folder of every readable workspace file, in
// file order then folder order. Missing and unparsable files are reported to
// the handlers and skipped; only environment failures are returned.
func (l *Loader) Folders(opts Options) ([]FolderContext, error) {
	enrich := opts.FolderEnricher
	if enrich == nil {
		enrich = EnrichFolder
	}

	var result []FolderContext
	for _, name := range opts.FileNames {
		abs, err := l.absPath(name)
		if err != nil {
			return nil, err
		}

		exists, err := filesystem.Probe(l.fs, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if !exists {
			l.missing(opts, name)
			continue
		}

		ws, err := l.Read(abs)
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			replacement, ok := l.parseError(opts, name, err)
			if !ok {
				continue
			}
			ws = replacement
		} else if err != nil {
			return nil, err
		}

		for _, folder := range ws.Folders {
			pp, err := project.Prepare(l.fs, ResolveFolder(abs, folder.Path))
			if err != nil {
				return nil, fmt.Errorf("failed to prepare folder %s of %s: %w", folder.Path, name, err)
			}
			p, err := enrich(project.NewContext(l.fs, pp), name, project.New(pp), opts.ProjectOptions...)
			if err != nil {
				return nil, fmt.Errorf("failed to detect folder %s of %s: %w", folder.Path, name, err)
			}
			result = append(result, FolderContext{
				WorkspaceFile: name,
				Workspace:     ws,
				Folder:        folder,
				Project:       p,
			})
		}
	}
	return result, nil
}

func (l *Loader) missing(opts Options, name string) {
	if opts.OnMissing != nil {
		opts.OnMissing(name)
		return
	}
	l.logger.Warn("workspace file does not exist", "file", name)
}

func (l *Loader) parseError(opts Options, name string, err error) (*File, bool) {
	if opts.OnParseError != nil {
		if ws, ok := opts.OnParseError(name, err); ok && ws != nil {
			return ws, true
		}
	}
	l.logger.Error("unable to parse workspace file", "file", name, "err", err)
	return nil, false
}

func (l *Loader) absPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	cwd, err := l.fs.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, name), nil
}

// ResolveFolder returns the absolute location of folderPath as seen from the
// workspace file wsAbsPath.
func ResolveFolder(wsAbsPath, folderPath string) string {
	if filepath.IsAbs(folderPath) {
		return filepath.Clean(folderPath)
	}
	return filepath.Join(filepath.Dir(wsAbsPath), folderPath)
}

// Paths lists the absolute project paths of folders.
func Paths(folders []FolderContext) []string {
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		out = append(out, f.Project.AbsPath)
	}
	return out
}

// Filter keeps the folders for which keep returns true.
func Filter(folders []FolderContext, keep func(FolderContext) bool) []FolderContext {
	var out []FolderContext
	for _, f := range folders {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
