// Package registry maps container formats to the backends that read and
// create their tags.
package registry

import (
	"io"
	"slices"

	"github.com/simonhull/anytag/internal/types"
)

// Backend is the interface every format package implements.
type Backend interface {
	// Parse reads the tag of a file. Non-fatal problems are returned as
	// warnings alongside the tag.
	Parse(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (types.Tag, []types.Warning, error)

	// New returns an empty tag of the backend's format.
	New() types.Tag
}

// backends maps formats to their backends.
var backends = make(map[types.Format]Backend)

// Register registers a backend for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, b Backend) {
	backends[format] = b
}

// Get returns the backend for a given format.
// Returns nil if no backend is registered for the format.
func Get(format types.Format) Backend {
	return backends[format]
}

// Formats returns every registered format in ascending order.
func Formats() []types.Format {
	out := make([]types.Format, 0, len(backends))
	for f := range backends {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
