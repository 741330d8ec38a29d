package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pgops-dev/pgextgate/internal/policy"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func TestPrintAvailable_WithWhitelist(t *testing.T) {
	extensions := []pgextgate.AvailableExtension{
		{Name: "hstore", DefaultVersion: "1.8"},
		{Name: "pg_trgm", DefaultVersion: "1.6", DefaultSchema: "public"},
	}
	whitelist := policy.NewWhitelist([]pgextgate.WhitelistEntry{{Name: "hstore"}})

	var buf bytes.Buffer
	printAvailable(&buf, extensions, whitelist)
	out := buf.String()

	if !strings.Contains(out, "WHITELISTED") {
		t.Error("output missing WHITELISTED column")
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "hstore") || !strings.Contains(lines[1], "yes") {
		t.Errorf("hstore row = %q, want whitelisted yes", lines[1])
	}
	if !strings.Contains(lines[2], "pg_trgm") || !strings.Contains(lines[2], "no") {
		t.Errorf("pg_trgm row = %q, want whitelisted no", lines[2])
	}
}

func TestPrintAvailable_NoWhitelist(t *testing.T) {
	extensions := []pgextgate.AvailableExtension{
		{Name: "hstore"},
	}

	var buf bytes.Buffer
	printAvailable(&buf, extensions, nil)
	out := buf.String()

	if strings.Contains(out, "WHITELISTED") {
		t.Error("output must not have WHITELISTED column without a config")
	}
	if !strings.Contains(out, "hstore") {
		t.Error("output missing hstore row")
	}
	// Missing version and schema render as placeholders.
	if !strings.Contains(out, "-") {
		t.Error("output missing placeholder for empty default version")
	}
}
