package anytag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/anytag/internal/registry"
)

// File represents an opened audio file and its editable tag.
//
// File embeds the format's Tag, so every field accessor of Editor is
// available directly:
//
//	file, err := anytag.Open("song.wav")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	file.SetTitle("New Title")
//	if err := file.Save(); err != nil {
//		return err
//	}
//
// Audio content is never decoded. It is streamed from the source when the
// file is saved, so the File must stay open until then.
type File struct {
	Tag

	// Path to the audio file
	Path string

	// Detected format (WAV, MP3, FLAC, M4A, M4B)
	Format Format

	// File size in bytes
	Size int64

	// Warnings encountered during parsing (non-fatal issues)
	Warnings []Warning

	reader io.ReaderAt
	logger *slog.Logger
	opts   []Option
}

// Open opens an audio file and reads its tag.
//
// Supported formats: WAV, MP3, FLAC, M4A, M4B. M4A and M4B tags are read
// only.
//
// If the file has recoverable problems, such as text in a legacy
// encoding, Open returns the File with warnings instead of an error.
// Check File.Warnings for details.
//
// Example:
//
//	file, err := anytag.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//	artist, _ := file.Artist()
//	title, _ := file.Title()
//	fmt.Printf("%s - %s\n", artist, title)
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := Read(f, stat.Size(), path, opts...)
	if err != nil {
		f.Close() //nolint:errcheck // Already failing
		return nil, err
	}
	return file, nil
}

// Read reads the tag of an audio stream. path is used for error messages
// and as the default target of Save. If r implements io.Closer, Close
// closes it.
func Read(r io.ReaderAt, size int64, path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	parseOpts := options.parseOptions()
	log := parseOpts.Log()

	format, err := DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	backend := registry.Get(format)
	if backend == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no backend available for format %s", format),
		}
	}

	tag, warnings, err := backend.Parse(r, size, path, parseOpts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	log.Debug("anytag: opened file", "path", path, "format", format.String(), "warnings", len(warnings))

	if options.strictParsing && len(warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", warnings[0].Message)
	}
	if options.ignoreWarnings {
		warnings = nil
	}

	return &File{
		Tag:      tag,
		Path:     path,
		Format:   format,
		Size:     size,
		Warnings: warnings,
		reader:   r,
		logger:   log,
		opts:     opts,
	}, nil
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be saved.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenContext opens a file with context support for cancellation.
//
// Parsing itself is not interruptible; the context is checked before the
// file is opened and again before it is returned.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		file.Close() //nolint:errcheck // Discarding the result
		return nil, err
	}
	return file, nil
}

// OpenMany opens multiple audio files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. Each file
// gets its own tag, so the results can be edited independently.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	files, err := anytag.OpenMany(ctx, paths,
//	    anytag.WithIgnoreWarnings(),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close() //nolint:errcheck // Best effort cleanup
			}
		}
		return nil, err
	}

	return results, nil
}
