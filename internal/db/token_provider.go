package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
// Cloud-hosted PostgreSQL (RDS, Azure Database, Cloud SQL) accepts short-lived
// tokens in place of a password; each provider implements this interface.
type TokenProvider interface {
	// GetToken acquires an authentication token for database access.
	// The token is used as the password when connecting.
	// Returns the token string and its expiry time.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Must NOT include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
// This is the resource identifier that Azure AD uses to issue tokens for PostgreSQL access.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
