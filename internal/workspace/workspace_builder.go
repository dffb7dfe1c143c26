package workspace

import (
	"encoding/json"
	"path/filepath"

	"github.com/shah/vscode-team/internal/filesystem"
)

// WorkspaceBuilder helps create test workspaces
type WorkspaceBuilder struct {
	fs         *filesystem.MockFileSystem
	root       string
	workspaces map[string]*File
	order      []string
}

// NewWorkspaceBuilder creates a new WorkspaceBuilder. Workspace files are
// written into root, which also becomes the working directory.
func NewWorkspaceBuilder(root string) *WorkspaceBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.SetCurrentDir(root)

	return &WorkspaceBuilder{
		fs:         fs,
		root:       root,
		workspaces: map[string]*File{},
	}
}

// AddFolder lists folderPath in the workspace file name, creating the
// workspace on first use. The folder itself is not created.
func (wb *WorkspaceBuilder) AddFolder(name, folderPath string) *WorkspaceBuilder {
	ws, ok := wb.workspaces[name]
	if !ok {
		ws = &File{Folders: []Folder{}}
		wb.workspaces[name] = ws
		wb.order = append(wb.order, name)
	}
	ws.Folders = append(ws.Folders, Folder{Path: folderPath})
	return wb
}

// AddProjectFile writes a file below folderPath, resolved from the root.
func (wb *WorkspaceBuilder) AddProjectFile(folderPath, relPath, content string) *WorkspaceBuilder {
	abs := ResolveFolder(filepath.Join(wb.root, "x.code-workspace"), folderPath)
	wb.fs.AddFile(filepath.Join(abs, relPath), []byte(content))
	return wb
}

// AddProjectDir creates the folder folderPath.
func (wb *WorkspaceBuilder) AddProjectDir(folderPath string) *WorkspaceBuilder {
	wb.fs.AddDir(ResolveFolder(filepath.Join(wb.root, "x.code-workspace"), folderPath))
	return wb
}

// AddRaw writes a workspace file verbatim, for parse error cases.
func (wb *WorkspaceBuilder) AddRaw(name, content string) *WorkspaceBuilder {
	wb.fs.AddFile(filepath.Join(wb.root, name), []byte(content))
	return wb
}

// Build writes the workspace files and returns the filesystem
func (wb *WorkspaceBuilder) Build() *filesystem.MockFileSystem {
	for _, name := range wb.order {
		data, err := json.MarshalIndent(wb.workspaces[name], "", "  ")
		if err != nil {
			panic(err)
		}
		wb.fs.AddFile(filepath.Join(wb.root, name), data)
	}
	return wb.fs
}

// FileSystem returns the mock filesystem
func (wb *WorkspaceBuilder) FileSystem() *filesystem.MockFileSystem {
	return wb.fs
}
