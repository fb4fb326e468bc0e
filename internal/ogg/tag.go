package ogg

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-flac/flacpicture"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
	"github.com/simonhull/anytag/internal/vorbis"
)

// Tag is the comment header of an Ogg Vorbis or Ogg Opus stream. It can
// be edited in memory and converted to other formats, but not written
// back.
type Tag struct {
	*keymap.Tag
	comments *keymap.Ordered
	covers   *vorbis.Pictures
	vendor   string
}

// New returns an empty tag of the given format, which must be FormatOgg
// or FormatOpus.
func New(format types.Format) *Tag {
	return newTag(format, vorbis.NewStore(), &vorbis.Pictures{})
}

func newTag(format types.Format, comments *keymap.Ordered, covers *vorbis.Pictures) *Tag {
	return &Tag{
		Tag:      keymap.New(format, vorbis.Keys, comments, covers),
		comments: comments,
		covers:   covers,
	}
}

// Vendor returns the encoder string of the comment header.
func (t *Tag) Vendor() string {
	return t.vendor
}

// Read parses the identification and comment headers of the first
// logical stream. METADATA_BLOCK_PICTURE comments become the tag's
// pictures and are removed from the comment store.
func Read(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*Tag, []types.Warning, error) {
	log := opts.Log()
	sr := binary.NewSafeReader(r, size, path)
	packets := newPacketReader(sr)

	id, err := packets.next("identification header")
	if err != nil {
		return nil, nil, err
	}
	c, ok := detectCodec(id)
	if !ok {
		return nil, nil, &types.UnsupportedFormatError{Path: path, Reason: "Ogg stream is neither Vorbis nor Opus"}
	}
	if len(id) < c.idMinSize {
		return nil, nil, malformed(sr, 0, fmt.Sprintf("%s identification header of %d bytes is too short", c.name, len(id)))
	}
	if err := c.checkIdentity(id); err != nil {
		return nil, nil, &types.MalformedContainerError{Err: err, Path: path, Reason: "invalid " + c.name + " identification header"}
	}

	packet, err := packets.next("comment header")
	if err != nil {
		return nil, nil, err
	}
	cmt, err := c.parseComments(packet)
	if err != nil {
		return nil, nil, &types.MalformedContainerError{Err: err, Path: path, Reason: "invalid " + c.name + " comment header"}
	}

	comments := vorbis.NewStore()
	warnings := vorbis.Load(cmt, comments)
	covers, w := readPictures(comments, opts, log)
	warnings = append(warnings, w...)
	log.Debug("ogg: read comments", "path", path, "codec", c.name, "keys", comments.Len(), "pictures", len(covers.List))

	t := newTag(c.format, comments, covers)
	t.vendor = cmt.Vendor
	return t, warnings, nil
}

func readPictures(comments *keymap.Ordered, opts types.ParseOptions, log *slog.Logger) (*vorbis.Pictures, []types.Warning) {
	covers := &vorbis.Pictures{}
	var warnings []types.Warning

	for i, value := range comments.Values(vorbis.PictureKey) {
		pic, err := vorbis.DecodePicture(value)
		if err != nil {
			log.Warn("ogg: unreadable picture", "index", i, "error", err)
			warnings = append(warnings, types.Warning{Stage: "artwork", Message: fmt.Sprintf("picture %d: %v", i, err)})
			continue
		}
		if w, ok := checkPictureSize(pic, opts, log); !ok {
			warnings = append(warnings, w)
			continue
		}
		covers.List = append(covers.List, pic)
	}
	comments.Delete(vorbis.PictureKey)
	return covers, warnings
}

func checkPictureSize(pic *flacpicture.MetadataBlockPicture, opts types.ParseOptions, log *slog.Logger) (types.Warning, bool) {
	if opts.MaxPictureSize <= 0 || len(pic.ImageData) <= opts.MaxPictureSize {
		return types.Warning{}, true
	}
	log.Warn("ogg: dropping oversized picture", "bytes", len(pic.ImageData), "limit", opts.MaxPictureSize)
	return types.Warning{
		Stage:   "artwork",
		Message: fmt.Sprintf("picture of %d bytes exceeds limit of %d", len(pic.ImageData), opts.MaxPictureSize),
	}, false
}

// WriteTo always fails: Ogg metadata is read-only.
func (t *Tag) WriteTo(io.Writer) (int64, error) {
	return 0, t.unsupported()
}

// WriteToPath always fails: Ogg metadata is read-only.
func (t *Tag) WriteToPath(string) error {
	return t.unsupported()
}

func (t *Tag) unsupported() error {
	return &types.UnsupportedWriteError{Format: t.Format(), Reason: "Ogg metadata is read-only"}
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
	registry.Register(types.FormatOgg, backend{format: types.FormatOgg})
	registry.Register(types.FormatOpus, backend{format: types.FormatOpus})
}

var _ types.Tag = (*Tag)(nil)
