package control

import (
	"errors"
	"strings"
	"testing"

	"github.com/pgops-dev/pgextgate/internal/files/filesystem"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

const sharePath = "/usr/share/postgresql"

func newTestResolver(files map[string]string) *Resolver {
	mfs := filesystem.NewMemoryFileSystem()
	for path, content := range files {
		mfs.AddFile(path, []byte(content))
	}
	return NewResolverWithFS(sharePath, mfs)
}

func TestResolver_ControlPath(t *testing.T) {
	r := newTestResolver(nil)

	if got := r.ControlPath("hstore"); got != "/usr/share/postgresql/extension/hstore.control" {
		t.Errorf("ControlPath() = %q", got)
	}
	if got := r.AuxControlPath("hstore", "1.8"); got != "/usr/share/postgresql/extension/hstore--1.8.control" {
		t.Errorf("AuxControlPath() = %q", got)
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver(map[string]string{
		"/usr/share/postgresql/extension/hstore.control": "# hstore\ncomment = 'data type for (key, value) pairs'\ndefault_version = '1.8'\nmodule_pathname = '$libdir/hstore'\nrelocatable = true\n",
		"/usr/share/postgresql/extension/citext.control": "default_version = '1.6'\nschema = 'citext'\n",
	})

	meta, err := r.Resolve("hstore")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.DefaultVersion != "1.8" {
		t.Errorf("DefaultVersion = %q, want \"1.8\"", meta.DefaultVersion)
	}
	if meta.DefaultSchema != "" {
		t.Errorf("DefaultSchema = %q, want unset", meta.DefaultSchema)
	}
	if meta.Path != "/usr/share/postgresql/extension/hstore.control" {
		t.Errorf("Path = %q", meta.Path)
	}
	if meta.Checksum == "" {
		t.Error("Checksum should be recorded")
	}

	meta, err = r.Resolve("citext")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.DefaultVersion != "1.6" || meta.DefaultSchema != "citext" {
		t.Errorf("Resolve(citext) = %+v", meta)
	}
}

func TestResolver_Resolve_FirstOccurrenceWins(t *testing.T) {
	r := newTestResolver(map[string]string{
		"/usr/share/postgresql/extension/dup.control": "default_version = '1.0'\nschema = 'first'\ndefault_version = '2.0'\nschema = 'second'\n",
	})

	meta, err := r.Resolve("dup")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.DefaultVersion != "1.0" {
		t.Errorf("DefaultVersion = %q, want first occurrence \"1.0\"", meta.DefaultVersion)
	}
	if meta.DefaultSchema != "first" {
		t.Errorf("DefaultSchema = %q, want first occurrence \"first\"", meta.DefaultSchema)
	}
}

func TestResolver_Resolve_FirstEmptyOccurrenceWins(t *testing.T) {
	r := newTestResolver(map[string]string{
		"/usr/share/postgresql/extension/e.control": "schema = ''\nschema = 'late'\n",
	})

	meta, err := r.Resolve("e")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.DefaultSchema != "" {
		t.Errorf("DefaultSchema = %q, first occurrence was empty and must win", meta.DefaultSchema)
	}
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	r := newTestResolver(nil)

	_, err := r.Resolve("hstore")
	if !errors.Is(err, pgextgate.ErrControlFileNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrControlFileNotFound", err)
	}
	if !strings.Contains(err.Error(), "/usr/share/postgresql/extension/hstore.control") {
		t.Errorf("Resolve() error should carry the offending path: %v", err)
	}
}

func TestResolver_Resolve_Malformed(t *testing.T) {
	r := newTestResolver(map[string]string{
		"/usr/share/postgresql/extension/bad.control": "default_version '1.8'\n",
	})

	_, err := r.Resolve("bad")
	if !errors.Is(err, pgextgate.ErrMalformedControlFile) {
		t.Errorf("Resolve() error = %v, want ErrMalformedControlFile", err)
	}
}

func TestResolver_Resolve_InvalidName(t *testing.T) {
	r := newTestResolver(nil)

	for _, name := range []string{"", "../hstore", "a/b", `a\b`} {
		if _, err := r.Resolve(name); !errors.Is(err, pgextgate.ErrInvalidConfig) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidConfig", name, err)
		}
	}
}

func TestResolver_Resolve_NoCachingBetweenCalls(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem()
	mfs.AddFile("/usr/share/postgresql/extension/hot.control", []byte("default_version = '1.0'\n"))
	r := NewResolverWithFS(sharePath, mfs)

	meta, err := r.Resolve("hot")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.DefaultVersion != "1.0" {
		t.Fatalf("DefaultVersion = %q", meta.DefaultVersion)
	}

	// Simulate a package upgrade between statements.
	mfs.AddFile("/usr/share/postgresql/extension/hot.control", []byte("default_version = '2.0'\n"))

	meta, err = r.Resolve("hot")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta.DefaultVersion != "2.0" {
		t.Errorf("DefaultVersion = %q, want fresh parse result \"2.0\"", meta.DefaultVersion)
	}
}
