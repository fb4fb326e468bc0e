package anytag

import (
	"io"

	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatWAV     = types.FormatWAV
	FormatMP3     = types.FormatMP3
	FormatFLAC    = types.FormatFLAC
	FormatM4A     = types.FormatM4A
	FormatM4B     = types.FormatM4B
	FormatOgg     = types.FormatOgg
	FormatOpus    = types.FormatOpus
	FormatAIFF    = types.FormatAIFF
)

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// FormatForPath guesses a format from the file extension.
func FormatForPath(path string) Format {
	return types.FormatForPath(path)
}

// Formats returns the formats that have a registered backend.
func Formats() []Format {
	return registry.Formats()
}
