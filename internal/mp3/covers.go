package mp3

import (
	"github.com/bogem/id3v2/v2"

	"github.com/simonhull/anytag/internal/types"
)

const pictureID = "APIC"

// apicCovers stores the album cover as an attached picture frame of type
// front cover. Pictures of other types, such as the artist or the back
// cover, are kept untouched.
type apicCovers struct {
	store *frameStore
}

func (c *apicCovers) frames() []id3v2.PictureFrame {
	var out []id3v2.PictureFrame
	for _, f := range c.store.tag.GetFrames(pictureID) {
		if pf, ok := f.(id3v2.PictureFrame); ok {
			out = append(out, pf)
		}
	}
	return out
}

// isCover reports whether a picture type holds the album cover. Many
// taggers write the cover with type Other.
func isCover(pictureType byte) bool {
	return pictureType == id3v2.PTFrontCover || pictureType == id3v2.PTOther
}

// Cover returns the first front cover, or else the first picture of type
// Other.
func (c *apicCovers) Cover() (types.Picture, bool) {
	var fallback *types.Picture
	for _, pf := range c.frames() {
		if !isCover(pf.PictureType) {
			continue
		}
		p, err := types.NewPicture(pf.MimeType, pf.Picture)
		if err != nil {
			continue
		}
		if pf.PictureType == id3v2.PTFrontCover {
			return p, true
		}
		if fallback == nil {
			fallback = &p
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return types.Picture{}, false
}

func (c *apicCovers) SetCover(p types.Picture) error {
	c.RemoveCover()
	c.store.tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    c.store.encoding(),
		MimeType:    p.MimeType.String(),
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     p.Data,
	})
	return nil
}

func (c *apicCovers) RemoveCover() {
	keep := keepFrames(c.store.tag, pictureID, func(f id3v2.Framer) bool {
		pf, ok := f.(id3v2.PictureFrame)
		return ok && !isCover(pf.PictureType)
	})
	for _, f := range keep {
		c.store.tag.AddFrame(pictureID, f)
	}
}
