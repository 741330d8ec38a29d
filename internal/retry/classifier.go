package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// Transient PostgreSQL error codes outside the class-prefix checks below.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001" // Class 40 - Transaction Rollback
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03" // Class 55 - Object Not In Prerequisite State
)

// PostgreSQLErrorClassifier implements pgextgate.ErrorClassifier for
// PostgreSQL-specific errors.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
// Context cancellation is never transient: the caller gave up.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgCode(pgErr.Code)
	}

	return c.isNetworkError(err) || c.isConnectionError(err)
}

// isTransientPgCode checks PostgreSQL error codes for transient conditions.
func isTransientPgCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"): // Connection Exception
		return true
	case strings.HasPrefix(code, "53"): // Insufficient Resources
		return true
	case strings.HasPrefix(code, "57"): // Operator Intervention
		return true
	}

	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}
	return false
}

// isNetworkError checks for network-level errors.
func (c *PostgreSQLErrorClassifier) isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
		return errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET)
	}

	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// isConnectionError falls back to message inspection for driver errors that
// reach us as plain strings.
func (c *PostgreSQLErrorClassifier) isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"failed to connect",
		"i/o timeout",
		"the database system is starting up",
		"the database system is shutting down",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
