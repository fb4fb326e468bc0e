package m4a

import (
	"io"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
)

// Tag is the iTunes metadata of an M4A or M4B file.
type Tag struct {
	*keymap.Tag
	items  *keymap.Ordered
	covers *covrCovers

	// The file the tag was read from. A new tag has none and cannot be
	// written on its own.
	src  io.ReaderAt
	size int64
}

// New returns an empty tag of the given format, which must be FormatM4A
// or FormatM4B.
func New(format types.Format) *Tag {
	return newTag(format, &ilst{store: keymap.NewOrdered(), covers: &covrCovers{}})
}

func newTag(format types.Format, l *ilst) *Tag {
	return &Tag{
		Tag:    keymap.New(format, ilstKeys, l.store, l.covers),
		items:  l.store,
		covers: l.covers,
	}
}

// Read parses the moov/udta/meta/ilst metadata of an MP4 audio file. A
// file without an ilst yields an empty tag.
func Read(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*Tag, []types.Warning, error) {
	log := opts.Log()
	sr := binary.NewSafeReader(r, size, path)

	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return nil, nil, err
	}
	if format != types.FormatM4A && format != types.FormatM4B {
		return nil, nil, &types.UnsupportedFormatError{Path: path, Reason: "not an MP4 audio file"}
	}

	list, ok, err := findPath(sr, 0, size, "moov", "udta", "meta", "ilst")
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		log.Debug("m4a: no ilst", "path", path)
		t := New(format)
		t.src, t.size = r, size
		return t, nil, nil
	}

	l, warnings, err := readIlst(sr, list, opts, log)
	if err != nil {
		return nil, warnings, err
	}
	t := newTag(format, l)
	t.src, t.size = r, size
	return t, warnings, nil
}

type backend struct {
	format types.Format
}

func (b backend) Parse(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (types.Tag, []types.Warning, error) {
	t, warnings, err := Read(r, size, path, opts)
	if err != nil {
		return nil, warnings, err
	}
	return t, warnings, nil
}

func (b backend) New() types.Tag { return New(b.format) }

func init() {
	registry.Register(types.FormatM4A, backend{format: types.FormatM4A})
	registry.Register(types.FormatM4B, backend{format: types.FormatM4B})
}

var _ types.Tag = (*Tag)(nil)
