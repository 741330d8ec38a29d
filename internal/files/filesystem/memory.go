package filesystem

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// MemoryFileSystem implements Provider with an in-memory file map, keyed by
// slash-separated absolute paths. Intended for tests; safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
	}
}

// AddFile registers a file with the given content. Parent directories are
// implied; they do not need to be added separately.
func (m *MemoryFileSystem) AddFile(p string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = content
}

// RemoveFile deletes a file, if present.
func (m *MemoryFileSystem) RemoveFile(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path.Clean(p))
}

// ReadFile returns the content of a registered file, or fs.ErrNotExist.
func (m *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// ReadDir lists the immediate children of the given directory, sorted by name.
func (m *MemoryFileSystem) ReadDir(p string) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := path.Clean(p)
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}

	seen := make(map[string]FileInfo)
	for filePath, content := range m.files {
		if !strings.HasPrefix(filePath, prefix) {
			continue
		}
		rest := strings.TrimPrefix(filePath, prefix)
		if rest == "" {
			continue
		}
		if idx := strings.Index(rest, "/"); idx >= 0 {
			// Indirect child: surface the intermediate directory once.
			name := rest[:idx]
			if _, ok := seen[name]; !ok {
				seen[name] = &memoryFileInfo{name: name, mode: fs.ModeDir | 0o755, isDir: true}
			}
			continue
		}
		seen[rest] = &memoryFileInfo{name: rest, size: int64(len(content)), mode: 0o644}
	}

	if len(seen) == 0 {
		if _, ok := m.files[dir]; !ok {
			return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrInvalid}
	}

	infos := make([]FileInfo, 0, len(seen))
	for _, info := range seen {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

// Stat returns file information for a registered file or implied directory.
func (m *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clean := path.Clean(p)
	if content, ok := m.files[clean]; ok {
		return &memoryFileInfo{name: path.Base(clean), size: int64(len(content)), mode: 0o644}, nil
	}

	prefix := clean + "/"
	for filePath := range m.files {
		if strings.HasPrefix(filePath, prefix) {
			return &memoryFileInfo{name: path.Base(clean), mode: fs.ModeDir | 0o755, isDir: true}, nil
		}
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}
