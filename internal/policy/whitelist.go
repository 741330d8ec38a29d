// Package policy implements the administrator-defined extension whitelist.
//
// Matching is exact-name only, optionally pinned to explicit versions; there
// is no pattern syntax. An empty whitelist denies everything: gatekeeping
// fails closed.
package policy

import (
	"sort"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Whitelist is a Policy backed by a fixed set of approved extensions.
// Immutable after construction and safe for concurrent use.
type Whitelist struct {
	entries map[string][]string
}

// NewWhitelist builds a whitelist from configuration entries. Duplicate
// entries for the same name merge their version pins; an entry without pins
// makes every version of that extension acceptable.
func NewWhitelist(entries []pgextgate.WhitelistEntry) *Whitelist {
	w := &Whitelist{entries: make(map[string][]string, len(entries))}
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		existing, seen := w.entries[entry.Name]
		if seen && len(existing) == 0 {
			// Already unpinned; adding pins would narrow it.
			continue
		}
		if len(entry.Versions) == 0 {
			w.entries[entry.Name] = nil
			continue
		}
		w.entries[entry.Name] = append(existing, entry.Versions...)
	}
	return w
}

// Allows reports whether the named extension is whitelisted at all.
func (w *Whitelist) Allows(extension string) bool {
	_, ok := w.entries[extension]
	return ok
}

// AllowsVersion reports whether the given version of the named extension is
// whitelisted. Extensions listed without version pins allow any version.
func (w *Whitelist) AllowsVersion(extension, version string) bool {
	pins, ok := w.entries[extension]
	if !ok {
		return false
	}
	if len(pins) == 0 {
		return true
	}
	for _, pin := range pins {
		if pin == version {
			return true
		}
	}
	return false
}

// Names returns the whitelisted extension names in sorted order.
func (w *Whitelist) Names() []string {
	names := make([]string, 0, len(w.entries))
	for name := range w.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns the version pins for the named extension, nil when the
// extension is unpinned or not listed.
func (w *Whitelist) Versions(extension string) []string {
	pins := w.entries[extension]
	if len(pins) == 0 {
		return nil
	}
	out := make([]string, len(pins))
	copy(out, pins)
	sort.Strings(out)
	return out
}
