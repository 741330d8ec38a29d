package pgextgate

import "context"

// CatalogLookup reads the registry of currently-installed extensions. The
// implementation is responsible for providing a self-consistent snapshot of
// the row being inspected; the resolver imposes no isolation of its own.
type CatalogLookup interface {
	// CurrentVersion returns the installed version of the named extension.
	// Fails with ErrNotInstalled if the extension has no catalog row.
	CurrentVersion(ctx context.Context, extension string) (string, error)
}

// SearchPathProvider exposes the session's effective schema search path.
type SearchPathProvider interface {
	// Fetch returns the search path as an ordered sequence of schema
	// identifiers. When includeImplicit is false, implicitly-searched
	// schemas (pg_temp, pg_catalog) are excluded, matching the set of
	// schemas eligible as a default creation target.
	Fetch(ctx context.Context, includeImplicit bool) ([]SchemaID, error)
}

// NamespaceResolver maps schema identifiers back to schema names.
type NamespaceResolver interface {
	// NameFor returns the name of the schema with the given identifier.
	// found is false if the schema no longer exists (concurrently dropped).
	NameFor(ctx context.Context, id SchemaID) (name string, found bool, err error)
}

// Policy is the administrator-defined whitelist consulted by the gate.
// Implementations decide how entries are stored; the gate only asks whether
// a name (and optionally a specific version of it) is permitted.
type Policy interface {
	// Allows reports whether the named extension is whitelisted at all.
	Allows(extension string) bool

	// AllowsVersion reports whether the given version of the named extension
	// is whitelisted. Extensions listed without version pins allow any version.
	AllowsVersion(extension, version string) bool
}
