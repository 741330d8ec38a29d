package control

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pgops-dev/pgextgate/internal/checksum"
	"github.com/pgops-dev/pgextgate/internal/files/filesystem"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Resolver reads extension control files from a server share directory.
// Resolver is stateless between calls and safe for concurrent use as long as
// the provided filesystem provider is.
type Resolver struct {
	sharePath  string
	fsProvider filesystem.Provider
	calculator checksum.Calculator
}

// NewResolver creates a control-metadata resolver rooted at the given share
// path (the directory returned by pg_config --sharedir). Uses the OS
// filesystem. Panics if sharePath is empty.
func NewResolver(sharePath string) *Resolver {
	return NewResolverWithFS(sharePath, filesystem.NewOSFileSystem())
}

// NewResolverWithFS creates a resolver with a custom filesystem provider.
// Panics if sharePath is empty or fsProvider is nil.
func NewResolverWithFS(sharePath string, fsProvider filesystem.Provider) *Resolver {
	if sharePath == "" {
		panic("sharePath cannot be empty")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Resolver{
		sharePath:  sharePath,
		fsProvider: fsProvider,
		calculator: checksum.New(),
	}
}

// ControlPath returns the location of the primary control file for the named
// extension: <share>/extension/<name>.control.
func (r *Resolver) ControlPath(extension string) string {
	return filepath.Join(r.sharePath, pgextgate.ControlDir, extension+pgextgate.ControlSuffix)
}

// AuxControlPath returns the location of the auxiliary, version-specific
// control file: <share>/extension/<name>--<version>.control. Auxiliary files
// override the primary descriptor for a single version.
func (r *Resolver) AuxControlPath(extension, version string) string {
	return filepath.Join(r.sharePath, pgextgate.ControlDir, extension+"--"+version+pgextgate.ControlSuffix)
}

// Resolve reads and parses the primary control file for the named extension,
// extracting default_version and schema on a first-occurrence-wins basis.
//
// A missing control file is ErrControlFileNotFound: once a lookup is
// attempted there is no silent "extension has no metadata" case. Content that
// cannot be parsed is ErrMalformedControlFile. Both carry the offending path.
func (r *Resolver) Resolve(extension string) (pgextgate.ControlMetadata, error) {
	if err := validateName(extension); err != nil {
		return pgextgate.ControlMetadata{}, err
	}

	path := r.ControlPath(extension)

	content, err := r.fsProvider.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pgextgate.ControlMetadata{}, fmt.Errorf("extension %q has no control file at %s: %w",
				extension, path, pgextgate.ErrControlFileNotFound)
		}
		return pgextgate.ControlMetadata{}, fmt.Errorf("could not read control file %s: %w", path, err)
	}

	entries, err := Parse(content)
	if err != nil {
		return pgextgate.ControlMetadata{}, fmt.Errorf("%s: %w", path, err)
	}

	meta := pgextgate.ControlMetadata{
		Path:     path,
		Checksum: r.calculator.CalculateRaw(content),
	}
	var sawVersion, sawSchema bool
	for _, entry := range entries {
		switch entry.Key {
		case pgextgate.ControlKeyDefaultVersion:
			if !sawVersion {
				meta.DefaultVersion = entry.Value
				sawVersion = true
			}
		case pgextgate.ControlKeySchema:
			if !sawSchema {
				meta.DefaultSchema = entry.Value
				sawSchema = true
			}
		}
	}

	return meta, nil
}

// validateName rejects names that are empty or would escape the extension
// directory when spliced into a path.
func validateName(extension string) error {
	if extension == "" {
		return fmt.Errorf("extension name cannot be empty: %w", pgextgate.ErrInvalidConfig)
	}
	if strings.ContainsAny(extension, `/\`) || strings.Contains(extension, "..") {
		return fmt.Errorf("extension name %q contains path separators: %w", extension, pgextgate.ErrInvalidConfig)
	}
	return nil
}
