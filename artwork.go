package anytag

import (
	"github.com/simonhull/anytag/internal/types"
)

// Picture is an alias to types.Picture.
type Picture = types.Picture

// MimeType is an alias to types.MimeType.
type MimeType = types.MimeType

// Re-export all picture encodings.
const (
	MimePng  = types.MimePng
	MimeJpeg = types.MimeJpeg
	MimeTiff = types.MimeTiff
	MimeBmp  = types.MimeBmp
	MimeGif  = types.MimeGif
)

// NewPicture builds a Picture from a media type and image bytes. An empty
// or unknown media type is sniffed from the data.
func NewPicture(mime string, data []byte) (Picture, error) {
	return types.NewPicture(mime, data)
}
