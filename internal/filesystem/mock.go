package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// MockFileSystem provides in-memory filesystem for testing. It is safe for
// concurrent use.
type MockFileSystem struct {
	mu         sync.Mutex
	files      map[string]*MockFile
	currentDir string

	// StatErrors forces Stat/Lstat/ReadFile on a path to fail, e.g. with fs.ErrPermission.
	StatErrors map[string]error
}

// MockFile represents a file in the mock filesystem
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
	// Link is the symlink target when the entry is a symlink.
	Link string
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry
type mockDirEntry struct {
	info fs.FileInfo
}

func (m *mockDirEntry) Name() string               { return m.info.Name() }
func (m *mockDirEntry) IsDir() bool                { return m.info.IsDir() }
func (m *mockDirEntry) Type() fs.FileMode          { return m.info.Mode().Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return m.info, nil }

// NewMockFileSystem creates a new MockFileSystem rooted at /home/dev
func NewMockFileSystem() *MockFileSystem {
	mfs := &MockFileSystem{
		files:      make(map[string]*MockFile),
		currentDir: "/home/dev",
		StatErrors: make(map[string]error),
	}
	mfs.AddDir(mfs.currentDir)
	return mfs
}

// AddFile adds a file to the mock filesystem
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := filepath.Clean(path)
	mfs.files[cleanPath] = &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: time.Now(),
	}
	mfs.addParents(cleanPath)
}

// AddDir adds a directory to the mock filesystem
func (mfs *MockFileSystem) AddDir(path string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := filepath.Clean(path)
	if _, exists := mfs.files[cleanPath]; !exists {
		mfs.files[cleanPath] = &MockFile{
			Mode:    0755 | fs.ModeDir,
			ModTime: time.Now(),
			IsDir:   true,
		}
	}
	mfs.addParents(cleanPath)
}

func (mfs *MockFileSystem) addParents(cleanPath string) {
	dir := filepath.Dir(cleanPath)
	for dir != "." && dir != "/" && dir != cleanPath {
		if _, exists := mfs.files[dir]; !exists {
			mfs.files[dir] = &MockFile{
				Mode:    0755 | fs.ModeDir,
				ModTime: time.Now(),
				IsDir:   true,
			}
		}
		dir = filepath.Dir(dir)
	}
}

// resolve follows symlinks in every component of path.
func (mfs *MockFileSystem) resolve(path string) string {
	cleanPath := filepath.Clean(path)
	for hops := 0; hops < 16; hops++ {
		next, changed := mfs.resolveOnce(cleanPath)
		if !changed {
			return cleanPath
		}
		cleanPath = next
	}
	return cleanPath
}

func (mfs *MockFileSystem) resolveOnce(cleanPath string) (string, bool) {
	parts := strings.Split(cleanPath, string(filepath.Separator))
	current := ""
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				current = string(filepath.Separator)
			}
			continue
		}
		current = filepath.Join(current, part)

		file, exists := mfs.files[current]
		if !exists || file.Link == "" {
			continue
		}
		target := file.Link
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		return filepath.Join(append([]string{target}, parts[i+1:]...)...), true
	}
	return cleanPath, false
}

// resolveParent follows symlinks in the directories leading to path but not
// in path itself.
func (mfs *MockFileSystem) resolveParent(path string) string {
	cleanPath := filepath.Clean(path)
	return filepath.Join(mfs.resolve(filepath.Dir(cleanPath)), filepath.Base(cleanPath))
}

func (mfs *MockFileSystem) forcedError(op, path string) error {
	if err, ok := mfs.StatErrors[filepath.Clean(path)]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	if err := mfs.forcedError("open", path); err != nil {
		return nil, err
	}
	file, exists := mfs.files[mfs.resolve(path)]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if file.IsDir {
		return nil, errors.New("is a directory")
	}
	return file.Content, nil
}

func (mfs *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := mfs.resolve(path)

	dir := filepath.Dir(cleanPath)
	if dir != "." && dir != "/" {
		parent, exists := mfs.files[mfs.resolve(dir)]
		if !exists || !parent.IsDir {
			return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
	}

	mfs.files[cleanPath] = &MockFile{
		Content: append([]byte(nil), data...),
		Mode:    perm,
		ModTime: time.Now(),
	}
	return nil
}

func (mfs *MockFileSystem) Rename(oldPath, newPath string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	oldClean := mfs.resolveParent(oldPath)
	file, exists := mfs.files[oldClean]
	if !exists {
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	newClean := mfs.resolveParent(newPath)
	if _, exists := mfs.files[filepath.Dir(newClean)]; !exists {
		return &fs.PathError{Op: "rename", Path: newPath, Err: fs.ErrNotExist}
	}
	delete(mfs.files, oldClean)
	mfs.files[newClean] = file
	return nil
}

func (mfs *MockFileSystem) Remove(path string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := mfs.resolveParent(path)
	if _, exists := mfs.files[cleanPath]; !exists {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(mfs.files, cleanPath)
	return nil
}

func (mfs *MockFileSystem) RemoveAll(path string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := filepath.Clean(path)
	for p := range mfs.files {
		if p == cleanPath || strings.HasPrefix(p, cleanPath+string(filepath.Separator)) {
			delete(mfs.files, p)
		}
	}
	return nil
}

func (mfs *MockFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := mfs.resolve(path)

	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if !file.IsDir {
		return nil, errors.New("not a directory")
	}

	var entries []fs.DirEntry
	for p := range mfs.files {
		if p != cleanPath && filepath.Dir(p) == cleanPath {
			entries = append(entries, &mockDirEntry{info: mfs.info(p)})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

func (mfs *MockFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanPath := filepath.Clean(path)
	parts := strings.Split(cleanPath, string(filepath.Separator))

	current := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if current == "" {
			current = string(filepath.Separator) + part
		} else {
			current = filepath.Join(current, part)
		}

		target := mfs.resolve(current)
		existing, exists := mfs.files[target]
		if !exists {
			mfs.files[target] = &MockFile{
				Mode:    perm | fs.ModeDir,
				ModTime: time.Now(),
				IsDir:   true,
			}
			continue
		}
		if !existing.IsDir {
			return &fs.PathError{Op: "mkdir", Path: current, Err: errors.New("not a directory")}
		}
	}
	return nil
}

func (mfs *MockFileSystem) Symlink(target, link string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	cleanLink := filepath.Clean(link)
	if _, exists := mfs.files[cleanLink]; exists {
		return &fs.PathError{Op: "symlink", Path: link, Err: fs.ErrExist}
	}
	if _, exists := mfs.files[filepath.Dir(cleanLink)]; !exists {
		return &fs.PathError{Op: "symlink", Path: link, Err: fs.ErrNotExist}
	}
	mfs.files[cleanLink] = &MockFile{
		Mode:    0777 | fs.ModeSymlink,
		ModTime: time.Now(),
		Link:    target,
	}
	return nil
}

func (mfs *MockFileSystem) info(cleanPath string) *mockFileInfo {
	file := mfs.files[cleanPath]
	return &mockFileInfo{
		name:    filepath.Base(cleanPath),
		size:    int64(len(file.Content)),
		mode:    file.Mode,
		modTime: file.ModTime,
		isDir:   file.IsDir,
	}
}

func (mfs *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	if err := mfs.forcedError("stat", path); err != nil {
		return nil, err
	}
	target := mfs.resolve(path)
	if _, exists := mfs.files[target]; !exists {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: mfs.missingErr(target)}
	}
	info := mfs.info(target)
	info.name = filepath.Base(path)
	return info, nil
}

// missingErr is ENOTDIR when an ancestor of path is a regular file, as on
// a real filesystem.
func (mfs *MockFileSystem) missingErr(cleanPath string) error {
	for dir := filepath.Dir(cleanPath); dir != "." && dir != "/" && dir != cleanPath; dir = filepath.Dir(dir) {
		if file, exists := mfs.files[dir]; exists {
			if !file.IsDir && file.Link == "" {
				return syscall.ENOTDIR
			}
			break
		}
	}
	return fs.ErrNotExist
}

func (mfs *MockFileSystem) Lstat(path string) (fs.FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	if err := mfs.forcedError("lstat", path); err != nil {
		return nil, err
	}
	cleanPath := filepath.Clean(path)
	if _, exists := mfs.files[cleanPath]; !exists {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return mfs.info(cleanPath), nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	_, err := mfs.Stat(path)
	return err == nil
}

func (mfs *MockFileSystem) Getwd() (string, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	return mfs.currentDir, nil
}

// WalkDir visits root and everything below it in lexical order. Symlinks are
// reported but not followed, matching filepath.WalkDir.
func (mfs *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	cleanRoot := filepath.Clean(root)

	mfs.mu.Lock()
	if _, exists := mfs.files[cleanRoot]; !exists {
		mfs.mu.Unlock()
		return fn(root, nil, &fs.PathError{Op: "lstat", Path: root, Err: fs.ErrNotExist})
	}

	var paths []string
	entries := make(map[string]*mockDirEntry)
	for p := range mfs.files {
		if p == cleanRoot || strings.HasPrefix(p, cleanRoot+string(filepath.Separator)) {
			paths = append(paths, p)
			entries[p] = &mockDirEntry{info: mfs.info(p)}
		}
	}
	mfs.mu.Unlock()
	sort.Strings(paths)

	var skipped []string
	for _, p := range paths {
		if isUnderAny(p, skipped) {
			continue
		}

		entry := entries[p]

		if err := fn(p, entry, nil); err != nil {
			if errors.Is(err, fs.SkipAll) {
				return nil
			}
			if errors.Is(err, fs.SkipDir) {
				if entry.IsDir() {
					skipped = append(skipped, p)
				} else {
					skipped = append(skipped, filepath.Dir(p))
				}
				continue
			}
			return err
		}
	}

	return nil
}

func isUnderAny(p string, dirs []string) bool {
	for _, d := range dirs {
		if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (mfs *MockFileSystem) Glob(pattern string) ([]string, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	var matches []string

	for p := range mfs.files {
		matched, err := filepath.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, p)
		}
	}

	sort.Strings(matches)
	return matches, nil
}

// SetCurrentDir sets the current working directory for the mock
func (mfs *MockFileSystem) SetCurrentDir(dir string) {
	mfs.AddDir(dir)
	mfs.mu.Lock()
	mfs.currentDir = dir
	mfs.mu.Unlock()
}

// GetFiles returns all files in the mock filesystem (for debugging)
func (mfs *MockFileSystem) GetFiles() map[string]*MockFile {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	return mfs.files
}

// PrintTree prints the filesystem tree (for debugging)
func (mfs *MockFileSystem) PrintTree() {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	var paths []string
	for p := range mfs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		file := mfs.files[p]
		switch {
		case file.Link != "":
			fmt.Printf("L %s -> %s\n", p, file.Link)
		case file.IsDir:
			fmt.Printf("D %s\n", p)
		default:
			fmt.Printf("F %s\n", p)
		}
	}
}
