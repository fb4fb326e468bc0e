package vorbis

import (
	"encoding/base64"
	"fmt"

	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/anytag/internal/types"
)

// PictureKey is the comment that carries a base64 picture block in Ogg
// streams.
const PictureKey = "METADATA_BLOCK_PICTURE"

// DecodePicture parses a METADATA_BLOCK_PICTURE comment value.
func DecodePicture(value string) (*flacpicture.MetadataBlockPicture, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	pic, err := flacpicture.ParseFromMetaDataBlock(goflac.MetaDataBlock{Type: goflac.Picture, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("invalid picture block: %w", err)
	}
	return pic, nil
}

// Pictures stores the album cover as a picture block of type front
// cover. Pictures of other types are kept untouched.
type Pictures struct {
	List []*flacpicture.MetadataBlockPicture
}

func isCover(t flacpicture.PictureType) bool {
	return t == flacpicture.PictureTypeFrontCover || t == flacpicture.PictureTypeOther
}

// Cover returns the first front cover, or else the first picture of type
// Other.
func (c *Pictures) Cover() (types.Picture, bool) {
	var fallback *types.Picture
	for _, pic := range c.List {
		if !isCover(pic.PictureType) {
			continue
		}
		p, err := types.NewPicture(pic.MIME, pic.ImageData)
		if err != nil {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
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

// SetCover replaces every cover with p, placed first.
func (c *Pictures) SetCover(p types.Picture) error {
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front cover", p.Data, p.MimeType.String())
	if err != nil {
		// The library only measures JPEG and PNG.
		pic = &flacpicture.MetadataBlockPicture{
			PictureType: flacpicture.PictureTypeFrontCover,
			MIME:        p.MimeType.String(),
			Description: "Front cover",
			ImageData:   p.Data,
		}
		if cfg, err := p.Config(); err == nil {
			pic.Width = uint32(cfg.Width)
			pic.Height = uint32(cfg.Height)
		}
	}
	c.RemoveCover()
	c.List = append([]*flacpicture.MetadataBlockPicture{pic}, c.List...)
	return nil
}

func (c *Pictures) RemoveCover() {
	kept := c.List[:0]
	for _, pic := range c.List {
		if !isCover(pic.PictureType) {
			kept = append(kept, pic)
		}
	}
	c.List = kept
}
