package anytag

import (
	"fmt"

	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
)

// Editor is an alias to types.Editor, the uniform field contract every
// format implements.
type Editor = types.Editor

// Writer is an alias to types.Writer.
type Writer = types.Writer

// Tag is an alias to types.Tag: an Editor that can serialize itself.
type Tag = types.Tag

// AnyTag is an alias to types.AnyTag.
type AnyTag = types.AnyTag

// Album is an alias to types.Album.
type Album = types.Album

// FromEditor takes a format-independent snapshot of e.
func FromEditor(e Editor) AnyTag {
	return types.FromEditor(e)
}

// New returns an empty tag of the given format.
//
// Returns UnsupportedFormatError if no backend handles the format.
func New(format Format) (Tag, error) {
	b := registry.Get(format)
	if b == nil {
		return nil, &UnsupportedFormatError{
			Reason: fmt.Sprintf("no backend available for format %s", format),
		}
	}
	return b.New(), nil
}

// Transcribe copies the fields of src into a new tag of another format.
// Fields the target cannot represent are dropped. A cover the target
// cannot hold is reported as an UnsupportedValueError alongside the
// otherwise populated tag.
//
//	wav, _ := anytag.Open("song.wav")
//	mp3, err := anytag.Transcribe(wav, anytag.FormatMP3)
func Transcribe(src Editor, format Format) (Tag, error) {
	dst, err := New(format)
	if err != nil {
		return nil, err
	}
	if err := FromEditor(src).ApplyTo(dst); err != nil {
		return dst, fmt.Errorf("transcribe to %s: %w", format, err)
	}
	return dst, nil
}
