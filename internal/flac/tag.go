package flac

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-flac/flacpicture"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/anytag/internal/atomicfile"
	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
	"github.com/simonhull/anytag/internal/vorbis"
)

// Tag is the Vorbis comment and picture metadata of a FLAC file.
type Tag struct {
	*keymap.Tag
	comments *keymap.Ordered
	covers   *vorbis.Pictures
	vendor   string

	// Blocks other than comments and pictures, and the audio after them.
	others []*goflac.MetaDataBlock
	audio  *io.SectionReader
}

// New returns an empty FLAC tag. Written on its own it produces a stream
// marker and metadata blocks without audio.
func New() *Tag {
	return newTag(vorbis.NewStore(), &vorbis.Pictures{}, defaultVendor)
}

func newTag(comments *keymap.Ordered, covers *vorbis.Pictures, vendor string) *Tag {
	return &Tag{
		Tag:      keymap.New(types.FormatFLAC, vorbis.Keys, comments, covers),
		comments: comments,
		covers:   covers,
		vendor:   vendor,
	}
}

// Read parses the metadata blocks of a FLAC file.
func Read(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*Tag, []types.Warning, error) {
	log := opts.Log()

	s, err := readStream(r, size, path)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("flac: parsed metadata", "path", path, "blocks", len(s.blocks))

	comments := vorbis.NewStore()
	covers := &vorbis.Pictures{}
	vendor := defaultVendor
	var (
		others   []*goflac.MetaDataBlock
		warnings []types.Warning
		seen     bool
	)

	for _, b := range s.blocks {
		switch b.Type {
		case goflac.VorbisComment:
			if seen {
				warnings = append(warnings, types.Warning{Stage: "metadata", Message: "extra VORBIS_COMMENT block merged"})
			}
			seen = true
			v, w, err := readComments(b, comments)
			if err != nil {
				return nil, warnings, &types.MalformedContainerError{Err: err, Path: path, Reason: "invalid VORBIS_COMMENT block"}
			}
			vendor = v
			warnings = append(warnings, w...)
		case goflac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*b)
			if err != nil {
				log.Warn("flac: unreadable picture", "path", path, "error", err)
				warnings = append(warnings, types.Warning{Stage: "artwork", Message: fmt.Sprintf("unreadable PICTURE block: %v", err)})
				others = append(others, b)
				continue
			}
			if w, ok := checkPictureSize(pic, opts, log); !ok {
				warnings = append(warnings, w)
				continue
			}
			covers.List = append(covers.List, pic)
		default:
			others = append(others, b)
		}
	}

	t := newTag(comments, covers, vendor)
	t.others = others
	t.audio = io.NewSectionReader(r, s.audioOffset, size-s.audioOffset)
	return t, warnings, nil
}

func checkPictureSize(pic *flacpicture.MetadataBlockPicture, opts types.ParseOptions, log *slog.Logger) (types.Warning, bool) {
	if opts.MaxPictureSize <= 0 || len(pic.ImageData) <= opts.MaxPictureSize {
		return types.Warning{}, true
	}
	log.Warn("flac: dropping oversized picture", "bytes", len(pic.ImageData), "limit", opts.MaxPictureSize)
	return types.Warning{
		Stage:   "artwork",
		Message: fmt.Sprintf("picture of %d bytes exceeds limit of %d", len(pic.ImageData), opts.MaxPictureSize),
	}, false
}

// blocks returns the metadata to write: the kept blocks in their original
// order, then the comments, then the pictures.
func (t *Tag) blocks(others []*goflac.MetaDataBlock) ([]*goflac.MetaDataBlock, error) {
	out := make([]*goflac.MetaDataBlock, 0, len(others)+1+len(t.covers.List))
	out = append(out, others...)

	cmt, err := commentBlock(t.vendor, t.comments)
	if err != nil {
		return nil, err
	}
	out = append(out, cmt)

	for _, pic := range t.covers.List {
		b := pic.Marshal()
		out = append(out, &b)
	}
	return out, nil
}

// WriteTo writes the metadata blocks followed by the audio of the source
// file.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	return t.writeWith(w, t.others, t.audio)
}

func (t *Tag) writeWith(w io.Writer, others []*goflac.MetaDataBlock, audio *io.SectionReader) (int64, error) {
	blocks, err := t.blocks(others)
	if err != nil {
		return 0, err
	}
	n, err := writeBlocks(w, blocks)
	if err != nil {
		return n, err
	}
	if audio == nil {
		return n, nil
	}
	m, err := io.Copy(w, io.NewSectionReader(audio, 0, audio.Size()))
	n += m
	if err != nil {
		return n, fmt.Errorf("copy audio: %w", err)
	}
	return n, nil
}

// WriteToPath replaces the comments and pictures of the FLAC file at path,
// keeping its other blocks and audio. If path does not exist a new file is
// written as by WriteTo.
func (t *Tag) WriteToPath(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return atomicfile.Write(path, func(w io.Writer) error {
			_, err := t.WriteTo(w)
			return err
		})
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	s, err := readStream(f, info.Size(), path)
	if err != nil {
		return err
	}

	var others []*goflac.MetaDataBlock
	for _, b := range s.blocks {
		if b.Type != goflac.VorbisComment && b.Type != goflac.Picture {
			others = append(others, b)
		}
	}
	audio := io.NewSectionReader(f, s.audioOffset, info.Size()-s.audioOffset)

	return atomicfile.Write(path, func(w io.Writer) error {
		_, err := t.writeWith(w, others, audio)
		return err
	})
}

type backend struct{}

func (backend) Parse(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (types.Tag, []types.Warning, error) {
	t, warnings, err := Read(r, size, path, opts)
	if err != nil {
		return nil, warnings, err
	}
	return t, warnings, nil
}

func (backend) New() types.Tag { return New() }

func init() {
	registry.Register(types.FormatFLAC, backend{})
}

var _ types.Tag = (*Tag)(nil)
