package mp3

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bogem/id3v2/v2"

	"github.com/simonhull/anytag/internal/atomicfile"
	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
)

// keysFor returns the key map of a tag version. ID3v2.3 keeps the year
// in TYER; ID3v2.4 replaced it with the TDRC timestamp.
func keysFor(version byte) keymap.Map {
	date, legacy := "TDRC", "TYER"
	if version < 4 {
		date, legacy = legacy, date
	}
	return keymap.Map{
		types.FieldTitle:       {Canonical: "TIT2"},
		types.FieldArtist:      {Canonical: "TPE1"},
		types.FieldYear:        {Canonical: date, Aliases: []string{legacy}},
		types.FieldDate:        {Canonical: date, Aliases: []string{legacy}},
		types.FieldGenre:       {Canonical: "TCON"},
		types.FieldCopyright:   {Canonical: "TCOP"},
		types.FieldComment:     {Canonical: commentID},
		types.FieldAlbumTitle:  {Canonical: "TALB"},
		types.FieldAlbumArtist: {Canonical: "TPE2"},
		types.FieldTrackNumber: {Canonical: "TRCK", Slot: keymap.Number},
		types.FieldTotalTracks: {Canonical: "TRCK", Slot: keymap.Total},
		types.FieldDiscNumber:  {Canonical: "TPOS", Slot: keymap.Number},
		types.FieldTotalDiscs:  {Canonical: "TPOS", Slot: keymap.Total},
	}
}

// Tag is the ID3v2 tag of an MP3 file.
type Tag struct {
	*keymap.Tag
	id3   *id3v2.Tag
	audio *io.SectionReader
}

// New returns an empty ID3v2.4 tag.
func New() *Tag {
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	return newTag(tag, nil)
}

func newTag(tag *id3v2.Tag, audio *io.SectionReader) *Tag {
	store := &frameStore{tag: tag}
	return &Tag{
		Tag:   keymap.New(types.FormatMP3, keysFor(tag.Version()), store, &apicCovers{store: store}),
		id3:   tag,
		audio: audio,
	}
}

// Read parses the ID3v2 tag at the start of an MP3 file. A file without a
// tag yields an empty ID3v2.4 tag.
func Read(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*Tag, []types.Warning, error) {
	log := opts.Log()
	sr := binary.NewSafeReader(r, size, path)

	header, ok, err := readHeader(sr)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		log.Debug("mp3: no ID3v2 tag", "path", path)
		t := New()
		t.audio = io.NewSectionReader(r, 0, size)
		return t, nil, nil
	}
	if header.Version < 3 || header.Version > 4 {
		return nil, nil, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", header.Version),
		}
	}

	tagSize := header.TotalSize()
	tag, err := id3v2.ParseReader(io.NewSectionReader(r, 0, tagSize), id3v2.Options{Parse: true})
	if err != nil {
		return nil, nil, &types.MalformedContainerError{
			Err:    err,
			Path:   path,
			Reason: "parse ID3v2 tag",
		}
	}
	log.Debug("mp3: parsed ID3v2 tag", "path", path, "version", header.Version, "frames", tag.Count())

	warnings := dropLargePictures(tag, opts, log)
	return newTag(tag, io.NewSectionReader(r, tagSize, size-tagSize)), warnings, nil
}

// WriteTo writes the tag followed by the audio of the source file.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	return t.writeWith(w, t.audio)
}

func (t *Tag) writeWith(w io.Writer, audio *io.SectionReader) (int64, error) {
	n, err := t.id3.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write ID3v2 tag: %w", err)
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

// WriteToPath replaces the ID3v2 tag of the file at path, keeping its
// audio. If path does not exist a new file is written as by WriteTo.
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

	sr := binary.NewSafeReader(f, info.Size(), path)
	header, ok, err := readHeader(sr)
	if err != nil {
		return err
	}
	var audioStart int64
	if ok {
		audioStart = header.TotalSize()
	}
	audio := io.NewSectionReader(f, audioStart, info.Size()-audioStart)

	return atomicfile.Write(path, func(w io.Writer) error {
		_, err := t.writeWith(w, audio)
		return err
	})
}

// dropLargePictures removes attached pictures over the configured limit.
func dropLargePictures(tag *id3v2.Tag, opts types.ParseOptions, log *slog.Logger) []types.Warning {
	if opts.MaxPictureSize <= 0 {
		return nil
	}
	var warnings []types.Warning
	keep := keepFrames(tag, pictureID, func(f id3v2.Framer) bool {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok || len(pf.Picture) <= opts.MaxPictureSize {
			return true
		}
		log.Warn("mp3: dropping oversized picture", "bytes", len(pf.Picture), "limit", opts.MaxPictureSize)
		warnings = append(warnings, types.Warning{
			Stage:   "artwork",
			Message: fmt.Sprintf("picture of %d bytes exceeds limit of %d", len(pf.Picture), opts.MaxPictureSize),
		})
		return false
	})
	for _, f := range keep {
		tag.AddFrame(pictureID, f)
	}
	return warnings
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
	registry.Register(types.FormatMP3, backend{})
}

var _ types.Tag = (*Tag)(nil)
