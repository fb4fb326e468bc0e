package m4a

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mp4tag "github.com/Sorrow446/go-mp4tag"

	"github.com/simonhull/anytag/internal/atomicfile"
	"github.com/simonhull/anytag/internal/types"
)

// replaceAll makes go-mp4tag drop every existing item and image before
// applying the new ones.
var replaceAll = []string{"alltags", "allpictures"}

// WriteTo writes the source file with its ilst replaced by the tag.
// Items go-mp4tag has no field for are not written.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	if t.src == nil {
		return 0, t.noAudio()
	}
	return t.render(w, io.NewSectionReader(t.src, 0, t.size))
}

// WriteToPath replaces the metadata of the MP4 file at path, keeping its
// audio. The file must already exist.
func (t *Tag) WriteToPath(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t.noAudio()
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only

	return atomicfile.Write(path, func(w io.Writer) error {
		_, err := t.render(w, f)
		return err
	})
}

func (t *Tag) noAudio() error {
	return &types.UnsupportedWriteError{Format: t.Format(), Reason: "cannot create an MP4 file without audio"}
}

// render copies src to a scratch file, rewrites its ilst in place with
// go-mp4tag and streams the result to w.
func (t *Tag) render(w io.Writer, src io.Reader) (int64, error) {
	dir, err := os.MkdirTemp("", "anytag-m4a-*")
	if err != nil {
		return 0, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck // Best effort cleanup

	scratch := filepath.Join(dir, "tagged.m4a")
	if err := copyToFile(scratch, src); err != nil {
		return 0, err
	}

	mp4, err := mp4tag.Open(scratch)
	if err != nil {
		return 0, t.writeError(err)
	}
	mp4.UpperCustom(false)
	err = mp4.Write(t.mp4Tags(), replaceAll)
	mp4.Close() //nolint:errcheck // Reopened read-only by Write
	if err != nil {
		return 0, t.writeError(err)
	}

	out, err := os.Open(scratch)
	if err != nil {
		return 0, fmt.Errorf("open tagged copy: %w", err)
	}
	defer out.Close() //nolint:errcheck // Read-only

	n, err := io.Copy(w, out)
	if err != nil {
		return n, fmt.Errorf("copy tagged file: %w", err)
	}
	return n, nil
}

func copyToFile(path string, src io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("copy source: %w", err)
	}
	return f.Close()
}

// writeError reports layouts go-mp4tag cannot rewrite as unsupported.
func (t *Tag) writeError(err error) error {
	var (
		missing *mp4tag.ErrBoxNotPresent
		brand   *mp4tag.ErrUnsupportedFtyp
		magic   *mp4tag.ErrInvalidMagic
		stco    *mp4tag.ErrInvalidStcoSize
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &brand),
		errors.As(err, &magic), errors.As(err, &stco):
		return &types.UnsupportedWriteError{Format: t.Format(), Reason: "cannot rewrite MP4 layout: " + err.Error()}
	}
	return fmt.Errorf("write MP4 metadata: %w", err)
}

// mp4Tags converts the item store and covers to go-mp4tag's fields.
func (t *Tag) mp4Tags() *mp4tag.MP4Tags {
	out := &mp4tag.MP4Tags{
		Custom:      map[string]string{},
		OtherCustom: map[string][]string{},
	}

	for key, values := range t.items.All() {
		if len(values) == 0 {
			continue
		}
		v := values[0]
		if field := textField(out, key); field != nil {
			*field = v
			continue
		}

		switch key {
		case "\xA9day":
			out.Year = yearOf(v)
		case "trkn":
			out.TrackNumber, out.TrackTotal = pairOf(v)
		case "disk":
			out.DiscNumber, out.DiscTotal = pairOf(v)
		case "tmpo":
			if n, err := strconv.ParseInt(v, 10, 16); err == nil && n > 0 {
				out.BPM = int16(n)
			}
		default:
			if name, ok := freeformName(key); ok {
				out.Custom[name] = v
				if len(values) > 1 {
					out.OtherCustom[name] = values[1:]
				}
			}
		}
	}

	for _, p := range t.covers.pictures {
		format := mp4tag.ImageTypeJPEG
		if p.MimeType == types.MimePng {
			format = mp4tag.ImageTypePNG
		}
		out.Pictures = append(out.Pictures, &mp4tag.MP4Picture{Format: format, Data: p.Data})
	}
	return out
}

// textField returns the go-mp4tag string field for an item atom.
func textField(tags *mp4tag.MP4Tags, key string) *string {
	switch key {
	case "\xA9nam":
		return &tags.Title
	case "\xA9ART":
		return &tags.Artist
	case "\xA9alb":
		return &tags.Album
	case "aART":
		return &tags.AlbumArtist
	case "\xA9gen":
		return &tags.CustomGenre
	case "\xA9cmt":
		return &tags.Comment
	case "cprt":
		return &tags.Copyright
	case "\xA9wrt":
		return &tags.Composer
	case "\xA9lyr":
		return &tags.Lyrics
	case "\xA9pub":
		return &tags.Publisher
	case "\xA9con":
		return &tags.Conductor
	case "desc":
		return &tags.Description
	case "sonm":
		return &tags.TitleSort
	case "soal":
		return &tags.AlbumSort
	case "soar":
		return &tags.ArtistSort
	case "soaa":
		return &tags.AlbumArtistSort
	case "soco":
		return &tags.ComposerSort
	}
	return nil
}

// yearOf returns the leading year of a ©day value. go-mp4tag writes ©day
// from the year alone.
func yearOf(v string) int32 {
	end := 0
	for end < len(v) && end < 4 && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(v[:end], 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

// pairOf parses "n/m", "n" or "/m".
func pairOf(v string) (n, m int16) {
	a, b, _ := strings.Cut(v, "/")
	return atoi16(a), atoi16(b)
}

func atoi16(s string) int16 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 16)
	if err != nil || n < 0 {
		return 0
	}
	return int16(n)
}

// freeformName returns the name of a "----:mean:name" key.
func freeformName(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "----:")
	if !ok {
		return "", false
	}
	_, name, ok := strings.Cut(rest, ":")
	return name, ok && name != ""
}
