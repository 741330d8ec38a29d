package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pgops-dev/pgextgate/internal/control"
	"github.com/pgops-dev/pgextgate/internal/files/filesystem"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Available discovers installable extensions by scanning the share
// directory's extension/ subdirectory for primary control files.
type Available struct {
	sharePath  string
	fsProvider filesystem.Provider
	resolver   *control.Resolver
}

// NewAvailable creates a share-directory scanner rooted at the given share
// path. Uses the OS filesystem. Panics if sharePath is empty.
func NewAvailable(sharePath string) *Available {
	return NewAvailableWithFS(sharePath, filesystem.NewOSFileSystem())
}

// NewAvailableWithFS creates a scanner with a custom filesystem provider.
// Panics if sharePath is empty or fsProvider is nil.
func NewAvailableWithFS(sharePath string, fsProvider filesystem.Provider) *Available {
	if sharePath == "" {
		panic("sharePath cannot be empty")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Available{
		sharePath:  sharePath,
		fsProvider: fsProvider,
		resolver:   control.NewResolverWithFS(sharePath, fsProvider),
	}
}

// List returns every installable extension found in the share directory,
// sorted by name. Auxiliary version-specific control files
// (name--version.control) describe upgrade paths, not extensions, and are
// skipped. A control file that cannot be parsed fails the listing; a broken
// descriptor means the server's extension inventory cannot be trusted.
func (a *Available) List() ([]pgextgate.AvailableExtension, error) {
	dir := filepath.Join(a.sharePath, pgextgate.ControlDir)

	entries, err := a.fsProvider.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extension directory %s: %w", dir, err)
	}

	var extensions []pgextgate.AvailableExtension
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := extensionName(entry.Name())
		if !ok {
			continue
		}

		meta, err := a.resolver.Resolve(name)
		if err != nil {
			return nil, err
		}

		extensions = append(extensions, pgextgate.AvailableExtension{
			Name:           name,
			DefaultVersion: meta.DefaultVersion,
			DefaultSchema:  meta.DefaultSchema,
		})
	}

	sort.Slice(extensions, func(i, j int) bool {
		return extensions[i].Name < extensions[j].Name
	})

	return extensions, nil
}

// extensionName extracts the extension name from a primary control file name.
// Returns false for non-control files and auxiliary (versioned) control files.
func extensionName(filename string) (string, bool) {
	if !strings.HasSuffix(filename, pgextgate.ControlSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(filename, pgextgate.ControlSuffix)
	if name == "" || strings.Contains(name, "--") {
		return "", false
	}
	return name, true
}
