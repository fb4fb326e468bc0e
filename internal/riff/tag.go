package riff

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/simonhull/anytag/internal/atomicfile"
	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/registry"
	"github.com/simonhull/anytag/internal/types"
)

// Tag is the INFO tag of a WAV file. Pictures are not representable.
type Tag struct {
	*keymap.Tag
	info *keymap.Ordered
	src  *Container
}

// New returns an empty WAV tag. Written on its own it produces a RIFF
// WAVE container holding only the INFO list.
func New() *Tag {
	return newTag(newInfoStore(), nil)
}

func newTag(info *keymap.Ordered, src *Container) *Tag {
	return &Tag{
		Tag:  keymap.New(types.FormatWAV, infoKeys, info, nil),
		info: info,
		src:  src,
	}
}

// Read reads a WAV file and its INFO metadata.
func Read(r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*Tag, []types.Warning, error) {
	log := opts.Log()

	c, err := parseWave(r, size, path)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("riff: parsed container", "path", path, "chunks", len(c.Chunks))

	info, warnings, err := readInfo(c, log)
	if err != nil {
		return nil, warnings, err
	}
	return newTag(info, c), warnings, nil
}

func parseWave(r io.ReaderAt, size int64, path string) (*Container, error) {
	c, err := Parse(r, size, path)
	if err != nil {
		return nil, err
	}
	if c.Form != IDWave {
		return nil, &types.MalformedContainerError{
			Path:   path,
			Offset: 8,
			Reason: fmt.Sprintf("form type %q is not WAVE", c.Form.String()),
		}
	}
	return c, nil
}

// Container returns the container as it would be written: the source
// chunks with the INFO list rebuilt from the current fields.
func (t *Tag) Container() *Container {
	base := t.src
	if base == nil {
		base = &Container{Form: IDWave}
	}
	return t.apply(base)
}

func (t *Tag) apply(base *Container) *Container {
	if list, ok := infoList(t.info); ok {
		return base.withInfo(&list)
	}
	return base.withInfo(nil)
}

// WriteTo writes the full container with the current INFO list.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	return t.Container().WriteTo(w)
}

// WriteToPath replaces the INFO list of the WAV file at path, keeping
// all its other chunks. If path does not exist a new file is written as
// by WriteTo.
func (t *Tag) WriteToPath(path string) error {
	target, err := readTarget(path)
	if errors.Is(err, fs.ErrNotExist) {
		return atomicfile.Write(path, func(w io.Writer) error {
			_, err := t.WriteTo(w)
			return err
		})
	}
	if err != nil {
		return err
	}

	out := t.apply(target)
	return atomicfile.Write(path, func(w io.Writer) error {
		_, err := out.WriteTo(w)
		return err
	})
}

func readTarget(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return parseWave(f, info.Size(), path)
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
	registry.Register(types.FormatWAV, backend{})
}

var _ types.Tag = (*Tag)(nil)
