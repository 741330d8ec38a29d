// Package testinfra starts throwaway PostgreSQL containers for integration
// tests. Tests using it must be guarded behind PGEXTGATE_INTEGRATION=1 so the
// default test run stays Docker-free.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"
)

// PostgresContainer is a running throwaway server plus its connection string.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// SkipUnlessIntegration skips the test unless PGEXTGATE_INTEGRATION=1.
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("PGEXTGATE_INTEGRATION") != "1" {
		t.Skip("integration test; set PGEXTGATE_INTEGRATION=1 to run")
	}
}

// StartPostgres launches a plain PostgreSQL container and waits until it
// accepts connections.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
