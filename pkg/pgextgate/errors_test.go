package pgextgate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pgextgate.ExitSuccess},
		{"control file not found", pgextgate.ErrControlFileNotFound, pgextgate.ExitControlFileMissing},
		{"malformed control file", pgextgate.ErrMalformedControlFile, pgextgate.ExitControlFileMalformed},
		{"no schema selected", pgextgate.ErrNoSchemaSelected, pgextgate.ExitResolutionFailed},
		{"no default version", pgextgate.ErrNoDefaultVersion, pgextgate.ExitResolutionFailed},
		{"not installed", pgextgate.ErrNotInstalled, pgextgate.ExitNotInstalled},
		{"denied", pgextgate.ErrDenied, pgextgate.ExitDenied},
		{"invalid config", pgextgate.ErrInvalidConfig, pgextgate.ExitConfigError},
		{"unsupported auth method", pgextgate.ErrUnsupportedAuthMethod, pgextgate.ExitConfigError},
		{"connection failed", pgextgate.ErrConnectionFailed, pgextgate.ExitConnectionError},
		{"unclassified error", errors.New("something broke"), pgextgate.ExitGeneralError},
		{"connection refused pattern", errors.New("dial tcp: connection refused"), pgextgate.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgextgate.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("could not open control file %q: %w", "/usr/share/extension/hstore.control", pgextgate.ErrControlFileNotFound)
	if got := pgextgate.ExitCodeForError(err); got != pgextgate.ExitControlFileMissing {
		t.Errorf("wrapped sentinel: got exit code %d, want %d", got, pgextgate.ExitControlFileMissing)
	}
}
