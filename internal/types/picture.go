package types

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
)

// MimeType is one of the image encodings a Picture may carry.
type MimeType int

const (
	MimePng MimeType = iota
	MimeJpeg
	MimeTiff
	MimeBmp
	MimeGif
)

var mimeStrings = [...]string{
	MimePng:  "image/png",
	MimeJpeg: "image/jpeg",
	MimeTiff: "image/tiff",
	MimeBmp:  "image/bmp",
	MimeGif:  "image/gif",
}

// String returns the IANA media type, e.g. "image/png".
func (m MimeType) String() string {
	if m < 0 || int(m) >= len(mimeStrings) {
		return "application/octet-stream"
	}
	return mimeStrings[m]
}

// ParseMimeType maps a media type string to a MimeType. Matching ignores
// case and parameters, and accepts the historical "image/jpg" spelling.
func ParseMimeType(s string) (MimeType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	switch s {
	case "image/png", "png":
		return MimePng, nil
	case "image/jpeg", "image/jpg", "jpeg", "jpg":
		return MimeJpeg, nil
	case "image/tiff", "tiff":
		return MimeTiff, nil
	case "image/bmp", "image/x-ms-bmp", "bmp":
		return MimeBmp, nil
	case "image/gif", "gif":
		return MimeGif, nil
	}
	return 0, fmt.Errorf("%w: media type %q", ErrNotAPicture, s)
}

// Picture is embedded cover art.
//
// Data returned by a tag getter aliases the tag's own storage and must not
// be modified; it stays valid until the next mutating call on that tag.
type Picture struct {
	Data     []byte
	MimeType MimeType
}

// NewPicture builds a Picture from a native artwork payload. When mime is
// empty or unrecognized the type is sniffed from the data. ErrNotAPicture
// is returned if neither yields a supported encoding.
func NewPicture(mime string, data []byte) (Picture, error) {
	if m, err := ParseMimeType(mime); err == nil {
		return Picture{MimeType: m, Data: data}, nil
	}
	return DetectPicture(data)
}

// DetectPicture builds a Picture by sniffing the encoding from data.
func DetectPicture(data []byte) (Picture, error) {
	if len(data) == 0 {
		return Picture{}, fmt.Errorf("%w: empty payload", ErrNotAPicture)
	}
	detected := mimetype.Detect(data)
	for mt := detected; mt != nil; mt = mt.Parent() {
		if m, err := ParseMimeType(mt.String()); err == nil {
			return Picture{MimeType: m, Data: data}, nil
		}
	}
	return Picture{}, fmt.Errorf("%w: detected %s", ErrNotAPicture, detected.String())
}

// Config decodes the image header and reports dimensions and color model.
func (p Picture) Config() (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		return image.Config{}, fmt.Errorf("decode %s header: %w", p.MimeType, err)
	}
	return cfg, nil
}

// Equal reports whether both pictures have the same type and bytes.
func (p Picture) Equal(o Picture) bool {
	return p.MimeType == o.MimeType && bytes.Equal(p.Data, o.Data)
}

// String returns a human-readable description of the picture.
//
// Example output: "1200x1200 JPEG, 245KB"
func (p Picture) String() string {
	dims := ""
	if cfg, err := p.Config(); err == nil && cfg.Width > 0 && cfg.Height > 0 {
		dims = fmt.Sprintf("%dx%d ", cfg.Width, cfg.Height)
	}
	return fmt.Sprintf("%s%s, %s", dims, mimeToFormat(p.MimeType), formatSize(len(p.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

func mimeToFormat(m MimeType) string {
	switch m {
	case MimeJpeg:
		return "JPEG"
	case MimePng:
		return "PNG"
	case MimeGif:
		return "GIF"
	case MimeBmp:
		return "BMP"
	case MimeTiff:
		return "TIFF"
	default:
		return "Image"
	}
}
