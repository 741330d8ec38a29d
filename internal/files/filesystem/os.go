package filesystem

import (
	"fmt"
	"os"
)

// OSFileSystem implements Provider using the operating system's filesystem.
// It is stateless and safe for concurrent use.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile reads a file from the OS filesystem.
func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir reads the directory entries at the given path, sorted by name.
func (o *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Stat returns file information for the given path.
func (o *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}
