package catalog

import (
	"errors"
	"testing"

	"github.com/pgops-dev/pgextgate/internal/files/filesystem"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func TestAvailable_List(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("/usr/share/postgresql/extension/hstore.control", []byte(
		"# hstore extension\ncomment = 'data type for storing sets of (key, value) pairs'\ndefault_version = '1.8'\nrelocatable = true\n"))
	fs.AddFile("/usr/share/postgresql/extension/pg_trgm.control", []byte(
		"default_version = '1.6'\nschema = 'public'\n"))
	fs.AddFile("/usr/share/postgresql/extension/hstore--1.7--1.8.sql", []byte("-- upgrade"))
	fs.AddFile("/usr/share/postgresql/extension/hstore--1.8.control", []byte("-- aux descriptor"))
	fs.AddFile("/usr/share/postgresql/extension/README", []byte("not a control file"))

	avail := NewAvailableWithFS("/usr/share/postgresql", fs)

	got, err := avail.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []pgextgate.AvailableExtension{
		{Name: "hstore", DefaultVersion: "1.8"},
		{Name: "pg_trgm", DefaultVersion: "1.6", DefaultSchema: "public"},
	}
	if len(got) != len(want) {
		t.Fatalf("List() returned %d extensions, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAvailable_List_EmptyDirectory(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("/share/extension/.keep", nil)

	avail := NewAvailableWithFS("/share", fs)

	got, err := avail.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() = %+v, want empty", got)
	}
}

func TestAvailable_List_MissingDirectory(t *testing.T) {
	avail := NewAvailableWithFS("/share", filesystem.NewMemoryFileSystem())

	if _, err := avail.List(); err == nil {
		t.Fatal("expected error for missing extension directory, got nil")
	}
}

func TestAvailable_List_MalformedControlFile(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("/share/extension/broken.control", []byte("default_version 1.0\n"))

	avail := NewAvailableWithFS("/share", fs)

	_, err := avail.List()
	if !errors.Is(err, pgextgate.ErrMalformedControlFile) {
		t.Fatalf("expected ErrMalformedControlFile, got %v", err)
	}
}

func TestAvailable_List_NoDeclaredVersion(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("/share/extension/bare.control", []byte("comment = 'nothing declared'\n"))

	avail := NewAvailableWithFS("/share", fs)

	got, err := avail.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "bare" || got[0].DefaultVersion != "" {
		t.Errorf("List() = %+v, want one entry with empty DefaultVersion", got)
	}
}

func TestExtensionName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"hstore.control", "hstore", true},
		{"pg_trgm.control", "pg_trgm", true},
		{"hstore--1.8.control", "", false},
		{"hstore--1.7--1.8.sql", "", false},
		{".control", "", false},
		{"README", "", false},
	}

	for _, tt := range tests {
		got, ok := extensionName(tt.filename)
		if got != tt.want || ok != tt.ok {
			t.Errorf("extensionName(%q) = (%q, %v), want (%q, %v)", tt.filename, got, ok, tt.want, tt.ok)
		}
	}
}
