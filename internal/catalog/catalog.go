package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Querier is the subset of pgxpool.Pool the catalog readers need.
// Narrowing to this interface keeps the readers testable without a server.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Lookup reads installed-extension state from pg_catalog.pg_extension.
type Lookup struct {
	q Querier
}

// NewLookup creates a Lookup backed by the given querier.
// Panics if q is nil.
func NewLookup(q Querier) *Lookup {
	if q == nil {
		panic("catalog: querier cannot be nil")
	}
	return &Lookup{q: q}
}

// CurrentVersion returns the installed version of the named extension.
// Fails with ErrNotInstalled if the extension has no pg_extension row.
func (l *Lookup) CurrentVersion(ctx context.Context, extension string) (string, error) {
	var version string
	err := l.q.QueryRow(ctx,
		`SELECT extversion FROM pg_catalog.pg_extension WHERE extname = $1`,
		extension,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("extension %q: %w", extension, pgextgate.ErrNotInstalled)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query pg_extension for %q: %w", extension, err)
	}
	return version, nil
}

// SearchPath exposes the session's effective schema search path.
type SearchPath struct {
	q Querier
}

// NewSearchPath creates a SearchPath backed by the given querier.
// Panics if q is nil.
func NewSearchPath(q Querier) *SearchPath {
	if q == nil {
		panic("catalog: querier cannot be nil")
	}
	return &SearchPath{q: q}
}

// Fetch returns the search path as an ordered sequence of schema OIDs.
// When includeImplicit is false, implicitly-searched schemas (pg_temp,
// pg_catalog) are excluded via current_schemas(false). Entries naming a
// schema that does not exist resolve to 0.
func (s *SearchPath) Fetch(ctx context.Context, includeImplicit bool) ([]pgextgate.SchemaID, error) {
	rows, err := s.q.Query(ctx, `
		SELECT COALESCE(n.oid, 0::oid)
		FROM unnest(pg_catalog.current_schemas($1)) WITH ORDINALITY AS s(nspname, ord)
		LEFT JOIN pg_catalog.pg_namespace n ON n.nspname = s.nspname
		ORDER BY s.ord`,
		includeImplicit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query search path: %w", err)
	}
	defer rows.Close()

	var path []pgextgate.SchemaID
	for rows.Next() {
		var oid uint32
		if err := rows.Scan(&oid); err != nil {
			return nil, fmt.Errorf("failed to scan search path entry: %w", err)
		}
		path = append(path, pgextgate.SchemaID(oid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search path: %w", err)
	}

	return path, nil
}

// Namespaces maps schema OIDs back to schema names via pg_namespace.
type Namespaces struct {
	q Querier
}

// NewNamespaces creates a Namespaces resolver backed by the given querier.
// Panics if q is nil.
func NewNamespaces(q Querier) *Namespaces {
	if q == nil {
		panic("catalog: querier cannot be nil")
	}
	return &Namespaces{q: q}
}

// NameFor returns the name of the schema with the given OID.
// found is false if the schema no longer exists (concurrently dropped).
func (n *Namespaces) NameFor(ctx context.Context, id pgextgate.SchemaID) (string, bool, error) {
	var name string
	err := n.q.QueryRow(ctx,
		`SELECT nspname FROM pg_catalog.pg_namespace WHERE oid = $1`,
		uint32(id),
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query pg_namespace for oid %d: %w", id, err)
	}
	return name, true, nil
}
