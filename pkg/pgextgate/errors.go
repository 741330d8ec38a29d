package pgextgate

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	props, err := resolver.Resolve(ctx, name, opts)
//	if errors.Is(err, pgextgate.ErrControlFileNotFound) {
//	    // Extension is not installable on this server
//	}
var (
	// ErrControlFileNotFound indicates no control file exists for the
	// requested extension in the server's share directory.
	ErrControlFileNotFound = errors.New("extension control file not found")

	// ErrMalformedControlFile indicates a control file exists but could not
	// be parsed as key = value lines.
	ErrMalformedControlFile = errors.New("malformed extension control file")

	// ErrNoDefaultVersion indicates the statement supplied no version and the
	// control file declares no default_version to fall back on.
	ErrNoDefaultVersion = errors.New("extension has no default version")

	// ErrNoSchemaSelected indicates no usable schema could be determined from
	// the statement options, the control file, or the search path.
	ErrNoSchemaSelected = errors.New("no schema has been selected to create in")

	// ErrNotInstalled indicates a catalog lookup was requested for an
	// extension that has no pg_extension row.
	ErrNotInstalled = errors.New("extension is not installed")

	// ErrDenied indicates the gate resolved the statement cleanly but the
	// whitelist forbids it.
	ErrDenied = errors.New("extension not whitelisted")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrControlFileNotFound):
		return ExitControlFileMissing
	case errors.Is(err, ErrMalformedControlFile):
		return ExitControlFileMalformed
	case errors.Is(err, ErrNoSchemaSelected):
		return ExitResolutionFailed
	case errors.Is(err, ErrNoDefaultVersion):
		return ExitResolutionFailed
	case errors.Is(err, ErrNotInstalled):
		return ExitNotInstalled
	case errors.Is(err, ErrDenied):
		return ExitDenied
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
