package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// Provider abstracts the read-only filesystem operations pgextgate performs
// against the server's share directory: reading individual control files and
// listing the extension subdirectory. Implementations must report missing
// paths with errors satisfying errors.Is(err, fs.ErrNotExist) so callers can
// distinguish "no such control file" from genuine I/O failure.
type Provider interface {
	// ReadFile reads the file at the given path.
	ReadFile(path string) ([]byte, error)

	// ReadDir reads the directory entries at the given path, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)
}
