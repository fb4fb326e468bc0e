package anytag

import (
	"github.com/simonhull/anytag/internal/types"
)

// MalformedContainerError is an alias to types.MalformedContainerError.
// It reports a bad magic, a truncated record or a length past the end of
// the data.
type MalformedContainerError = types.MalformedContainerError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// UnsupportedValueError is an alias to types.UnsupportedValueError. It is
// returned when a format cannot hold a value, such as a cover in a WAV
// file.
type UnsupportedValueError = types.UnsupportedValueError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// Warning is an alias to types.Warning.
type Warning = types.Warning

// ErrNotAPicture is returned when artwork is in none of the supported
// image encodings.
var ErrNotAPicture = types.ErrNotAPicture
