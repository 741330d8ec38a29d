package db

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Session lazily materializes a connection pool from a Connector on first
// query. Gate checks that never touch the catalog (drop statements, fully
// specified creates) then complete without a server round trip.
//
// Safe for concurrent use.
type Session struct {
	connector pgextgate.Connector

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewSession creates a lazy session over the given connector.
// Panics if connector is nil.
func NewSession(connector pgextgate.Connector) *Session {
	if connector == nil {
		panic("db: connector cannot be nil")
	}
	return &Session{connector: connector}
}

func (s *Session) acquire(ctx context.Context) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		return s.pool, nil
	}

	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return pool, nil
}

// Query runs a query, connecting first if no pool exists yet.
func (s *Session) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pool.Query(ctx, sql, args...)
}

// QueryRow runs a single-row query, connecting first if no pool exists yet.
// A connection failure surfaces from the returned row's Scan.
func (s *Session) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := s.acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

// Close releases the pool if one was ever established.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
