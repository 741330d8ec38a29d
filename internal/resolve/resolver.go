package resolve

import (
	"context"
	"fmt"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// ControlResolver reads an extension's control metadata. Implemented by
// internal/control.Resolver; an interface here so the pipeline can be unit
// tested without a filesystem.
type ControlResolver interface {
	Resolve(extension string) (pgextgate.ControlMetadata, error)
}

// Resolution is the outcome of one property resolution.
type Resolution struct {
	// Properties is the fully defaulted tuple.
	Properties pgextgate.ResolvedProperties

	// Control holds the metadata that was consulted. Zero when the statement
	// options supplied both schema and new_version, in which case the control
	// file was never read.
	Control pgextgate.ControlMetadata

	// ControlConsulted reports whether the control file was read.
	ControlConsulted bool
}

// Resolver implements the defaulting pipeline. It holds no per-call state and
// is safe for concurrent use as long as its collaborators are.
type Resolver struct {
	control    ControlResolver
	catalog    pgextgate.CatalogLookup
	searchPath pgextgate.SearchPathProvider
	namespaces pgextgate.NamespaceResolver
}

// NewResolver creates a property resolver from its collaborators.
// Panics if any collaborator is nil.
func NewResolver(
	control ControlResolver,
	catalog pgextgate.CatalogLookup,
	searchPath pgextgate.SearchPathProvider,
	namespaces pgextgate.NamespaceResolver,
) *Resolver {
	if control == nil {
		panic("control resolver cannot be nil")
	}
	if catalog == nil {
		panic("catalog lookup cannot be nil")
	}
	if searchPath == nil {
		panic("search path provider cannot be nil")
	}
	if namespaces == nil {
		panic("namespace resolver cannot be nil")
	}
	return &Resolver{
		control:    control,
		catalog:    catalog,
		searchPath: searchPath,
		namespaces: namespaces,
	}
}

// Resolve produces the resolved property tuple for one extension statement.
//
// The pipeline, each step running only for values the prior steps left unset:
//  1. Take schema, old_version and new_version from the statement options.
//     Unrecognized option keys are ignored; the server validates those.
//  2. Read the control file and fill new_version from default_version and
//     schema from the schema key. Control errors propagate verbatim.
//  3. Take the first entry of the explicit search path as the schema, and
//     resolve it to a name. An empty search path and an entry whose schema
//     was concurrently dropped are the same failure: ErrNoSchemaSelected.
//
// OldVersion stays empty unless the statement supplied it; callers that need
// the installed version use CurrentVersion separately, since fetching it
// eagerly would cost a catalog round trip on every statement.
func (r *Resolver) Resolve(ctx context.Context, extension string, opts pgextgate.Options) (Resolution, error) {
	if extension == "" {
		return Resolution{}, fmt.Errorf("extension name cannot be empty: %w", pgextgate.ErrInvalidConfig)
	}

	var res Resolution
	schema, haveSchema := opts.Schema()
	oldVersion, _ := opts.OldVersion()
	newVersion, haveNewVersion := opts.NewVersion()

	if !haveNewVersion || !haveSchema {
		meta, err := r.control.Resolve(extension)
		if err != nil {
			return Resolution{}, err
		}
		res.Control = meta
		res.ControlConsulted = true

		if !haveNewVersion {
			newVersion = meta.DefaultVersion
		}
		if !haveSchema && meta.DefaultSchema != "" {
			schema = meta.DefaultSchema
			haveSchema = true
		}
	}

	if newVersion == "" {
		return Resolution{}, fmt.Errorf("extension %q: %w", extension, pgextgate.ErrNoDefaultVersion)
	}

	if !haveSchema {
		var err error
		schema, err = r.defaultCreationSchema(ctx)
		if err != nil {
			return Resolution{}, err
		}
	}

	res.Properties = pgextgate.ResolvedProperties{
		Schema:     schema,
		OldVersion: oldVersion,
		NewVersion: newVersion,
	}
	return res, nil
}

// CurrentVersion returns the installed version of the named extension from
// the catalog. Fails with ErrNotInstalled when there is no pg_extension row.
func (r *Resolver) CurrentVersion(ctx context.Context, extension string) (string, error) {
	if extension == "" {
		return "", fmt.Errorf("extension name cannot be empty: %w", pgextgate.ErrInvalidConfig)
	}
	return r.catalog.CurrentVersion(ctx, extension)
}

// defaultCreationSchema returns the name of the current default creation
// namespace: the first explicit entry of the search path.
func (r *Resolver) defaultCreationSchema(ctx context.Context) (string, error) {
	path, err := r.searchPath.Fetch(ctx, false)
	if err != nil {
		return "", fmt.Errorf("could not fetch search path: %w", err)
	}
	if len(path) == 0 {
		return "", pgextgate.ErrNoSchemaSelected
	}

	name, found, err := r.namespaces.NameFor(ctx, path[0])
	if err != nil {
		return "", fmt.Errorf("could not resolve schema %d: %w", path[0], err)
	}
	if !found {
		// The schema was dropped between fetching the search path and the
		// name lookup. Indistinguishable from an empty search path.
		return "", pgextgate.ErrNoSchemaSelected
	}
	return name, nil
}
