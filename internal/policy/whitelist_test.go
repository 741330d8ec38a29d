package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func TestWhitelist_Allows(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{
		{Name: "hstore"},
		{Name: "pg_stat_statements", Versions: []string{"1.10"}},
	})

	assert.True(t, w.Allows("hstore"))
	assert.True(t, w.Allows("pg_stat_statements"))
	assert.False(t, w.Allows("plpython3u"))
	assert.False(t, w.Allows("HSTORE"), "names are case-sensitive")
}

func TestWhitelist_AllowsVersion(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{
		{Name: "hstore"},
		{Name: "pg_stat_statements", Versions: []string{"1.9", "1.10"}},
	})

	assert.True(t, w.AllowsVersion("hstore", "1.8"), "unpinned entries allow any version")
	assert.True(t, w.AllowsVersion("pg_stat_statements", "1.10"))
	assert.True(t, w.AllowsVersion("pg_stat_statements", "1.9"))
	assert.False(t, w.AllowsVersion("pg_stat_statements", "1.11"))
	assert.False(t, w.AllowsVersion("plpython3u", "1.0"))
}

func TestWhitelist_EmptyDeniesEverything(t *testing.T) {
	w := NewWhitelist(nil)

	assert.False(t, w.Allows("hstore"))
	assert.False(t, w.AllowsVersion("hstore", "1.8"))
	assert.Empty(t, w.Names())
}

func TestWhitelist_DuplicateEntriesMerge(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{
		{Name: "citext", Versions: []string{"1.5"}},
		{Name: "citext", Versions: []string{"1.6"}},
	})

	assert.True(t, w.AllowsVersion("citext", "1.5"))
	assert.True(t, w.AllowsVersion("citext", "1.6"))
	assert.False(t, w.AllowsVersion("citext", "1.7"))
}

func TestWhitelist_UnpinnedEntryStaysUnpinned(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{
		{Name: "citext"},
		{Name: "citext", Versions: []string{"1.6"}},
	})

	assert.True(t, w.AllowsVersion("citext", "0.1"), "a later pinned duplicate must not narrow an unpinned entry")
}

func TestWhitelist_BlankNamesSkipped(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{{Name: ""}})

	assert.Empty(t, w.Names())
	assert.False(t, w.Allows(""))
}

func TestWhitelist_NamesSorted(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{
		{Name: "pgcrypto"},
		{Name: "citext"},
		{Name: "hstore"},
	})

	assert.Equal(t, []string{"citext", "hstore", "pgcrypto"}, w.Names())
}

func TestWhitelist_Versions(t *testing.T) {
	w := NewWhitelist([]pgextgate.WhitelistEntry{
		{Name: "pg_stat_statements", Versions: []string{"1.10", "1.9"}},
		{Name: "hstore"},
	})

	assert.Equal(t, []string{"1.10", "1.9"}, w.Versions("pg_stat_statements"))
	assert.Nil(t, w.Versions("hstore"))
	assert.Nil(t, w.Versions("missing"))
}
