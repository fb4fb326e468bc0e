// Package keymap implements the generic format adapter: a table from
// normalized fields to native identifiers, the native store it reads and
// writes through, and Tag, which turns the pair into a types.Editor.
package keymap

import (
	"strings"

	"github.com/simonhull/anytag/internal/types"
)

// Slot selects which part of a stored value a key addresses.
type Slot int

const (
	// Whole addresses the entire value.
	Whole Slot = iota
	// Number addresses n in an "n/m" value.
	Number
	// Total addresses m in an "n/m" value.
	Total
)

// Keys lists the native identifiers for one field. Reads try Canonical
// first, then Aliases in order; writes only ever touch Canonical.
type Keys struct {
	Canonical string
	Aliases   []string
	Slot      Slot
}

// Candidates returns the read precedence order.
func (k Keys) Candidates() []string {
	return append([]string{k.Canonical}, k.Aliases...)
}

// Map is a per-format key table. A field missing from the map cannot be
// represented by the format.
type Map map[types.Field]Keys

// Lookup returns the keys for f and whether the format represents it.
func (m Map) Lookup(f types.Field) (Keys, bool) {
	k, ok := m[f]
	return k, ok && k.Canonical != ""
}

// Store is the native tag store an adapter owns.
//
// Values returns nil for an absent key. Set replaces all values of key
// (deleting it when called with none), Add appends one value, and Delete
// removes the key.
type Store interface {
	Values(key string) []string
	Set(key string, values ...string)
	Add(key, value string)
	Delete(key string)
}

// Covers is the picture storage of a format. Formats without picture
// support pass a nil Covers to New.
type Covers interface {
	Cover() (types.Picture, bool)
	SetCover(p types.Picture) error
	RemoveCover()
}

// splitPair splits "n/m" into its halves, trimming whitespace.
func splitPair(v string) (n, m string) {
	n, m, _ = strings.Cut(v, "/")
	return strings.TrimSpace(n), strings.TrimSpace(m)
}

func joinPair(n, m string) string {
	if m == "" {
		return n
	}
	return n + "/" + m
}
