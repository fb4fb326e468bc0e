package m4a

import (
	"github.com/simonhull/anytag/internal/types"
)

// Well-known data atom types for covr images.
const (
	dataTypeJPEG = 0x0D
	dataTypePNG  = 0x0E
	dataTypeBMP  = 0x1B
)

// coverMIME converts a data atom type to a MIME string. Unknown types
// yield "" so the image is sniffed from its bytes.
func coverMIME(dataType uint32) string {
	switch dataType {
	case dataTypeJPEG:
		return types.MimeJpeg.String()
	case dataTypePNG:
		return types.MimePng.String()
	case dataTypeBMP:
		return types.MimeBmp.String()
	default:
		return ""
	}
}

// covrCovers holds the images of the covr item. The first one is the
// album cover.
type covrCovers struct {
	pictures []types.Picture
}

func (c *covrCovers) Cover() (types.Picture, bool) {
	if len(c.pictures) == 0 {
		return types.Picture{}, false
	}
	return c.pictures[0], true
}

func (c *covrCovers) SetCover(p types.Picture) error {
	if len(c.pictures) == 0 {
		c.pictures = []types.Picture{p}
		return nil
	}
	c.pictures[0] = p
	return nil
}

func (c *covrCovers) RemoveCover() {
	if len(c.pictures) > 0 {
		c.pictures = c.pictures[1:]
	}
}
