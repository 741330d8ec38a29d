package control

import (
	"errors"
	"strings"
	"testing"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Entry
		wantErr bool
	}{
		{
			name:    "bare value",
			content: "default_version = 1.8\n",
			want:    []Entry{{Key: "default_version", Value: "1.8", Line: 1}},
		},
		{
			name:    "single quoted value",
			content: "default_version = '1.8'\n",
			want:    []Entry{{Key: "default_version", Value: "1.8", Line: 1}},
		},
		{
			name:    "double quoted value",
			content: `schema = "hstore"` + "\n",
			want:    []Entry{{Key: "schema", Value: "hstore", Line: 1}},
		},
		{
			name:    "whitespace tolerance",
			content: "   default_version   =    '2.0'   \n",
			want:    []Entry{{Key: "default_version", Value: "2.0", Line: 1}},
		},
		{
			name:    "no space around separator",
			content: "schema=public\n",
			want:    []Entry{{Key: "schema", Value: "public", Line: 1}},
		},
		{
			name:    "blank lines and comments ignored",
			content: "# hstore extension\n\ndefault_version = '1.8'\n   # trailing section\nschema = 'hstore'\n",
			want: []Entry{
				{Key: "default_version", Value: "1.8", Line: 3},
				{Key: "schema", Value: "hstore", Line: 5},
			},
		},
		{
			name:    "inline comment after value",
			content: "default_version = '1.8' # current release\n",
			want:    []Entry{{Key: "default_version", Value: "1.8", Line: 1}},
		},
		{
			name:    "hash inside quoted value is not a comment",
			content: "comment = 'issue #42 workaround'\n",
			want:    []Entry{{Key: "comment", Value: "issue #42 workaround", Line: 1}},
		},
		{
			name:    "doubled single quote escape",
			content: "comment = 'it''s relocatable'\n",
			want:    []Entry{{Key: "comment", Value: "it's relocatable", Line: 1}},
		},
		{
			name:    "empty value",
			content: "schema =\n",
			want:    []Entry{{Key: "schema", Value: "", Line: 1}},
		},
		{
			name:    "unrecognized keys preserved in order",
			content: "module_pathname = '$libdir/hstore'\nrelocatable = true\ndefault_version = '1.8'\n",
			want: []Entry{
				{Key: "module_pathname", Value: "$libdir/hstore", Line: 1},
				{Key: "relocatable", Value: "true", Line: 2},
				{Key: "default_version", Value: "1.8", Line: 3},
			},
		},
		{
			name:    "duplicate keys kept as separate entries",
			content: "default_version = '1.0'\ndefault_version = '2.0'\n",
			want: []Entry{
				{Key: "default_version", Value: "1.0", Line: 1},
				{Key: "default_version", Value: "2.0", Line: 2},
			},
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "comments only",
			content: "# nothing here\n# at all\n",
			want:    nil,
		},
		{
			name:    "missing separator",
			content: "default_version '1.8'\n",
			wantErr: true,
		},
		{
			name:    "empty key",
			content: " = '1.8'\n",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			content: "default_version = '1.8\n",
			wantErr: true,
		},
		{
			name:    "stray quote in single quoted value",
			content: "comment = 'it's broken'\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse() = %+v, want error", got)
				}
				if !errors.Is(err, pgextgate.ErrMalformedControlFile) {
					t.Errorf("Parse() error = %v, want ErrMalformedControlFile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Parse()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse_ErrorIncludesLineNumber(t *testing.T) {
	_, err := Parse([]byte("default_version = '1.8'\nbroken line\n"))
	if err == nil {
		t.Fatal("Parse() should fail")
	}
	if got := err.Error(); !strings.Contains(got, "line 2") {
		t.Errorf("Parse() error = %q, want it to name line 2", got)
	}
}
