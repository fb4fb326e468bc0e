package anytag

import (
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/anytag/internal/atomicfile"
)

// Save writes the modified tag back to the original file.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the original path. If any step fails, the original file remains unchanged.
//
// Options can be provided to customize save behavior:
//
//	err := file.Save(
//	    anytag.WithBackup(".bak"),
//	    anytag.WithValidation(),
//	)
//
// Returns UnsupportedWriteError if the format cannot be written.
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs writes the tag and the audio of the opened file to outputPath.
//
// The write is atomic in the same way as Save. WithPreserveModTime and
// WithBackup apply to the file being replaced at outputPath, if any.
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error {
	if f.Tag == nil || f.reader == nil {
		return errors.New("file not open")
	}
	options := collectSaveOptions(opts)

	want := FromEditor(f)
	err := atomicfile.Write(outputPath, func(w io.Writer) error {
		_, err := f.Tag.WriteTo(w)
		return err
	}, options.write...)
	if err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}
	f.logger.Debug("anytag: saved file", "path", outputPath, "format", f.Format.String())

	if options.validate {
		if err := f.validateWrittenFile(outputPath, want); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// validateWrittenFile re-opens the file and compares every field.
func (f *File) validateWrittenFile(path string, want AnyTag) error {
	written, err := Open(path, f.opts...)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	if got := FromEditor(written); !got.Equal(want) {
		return fmt.Errorf("%s: fields read back differ from the saved tag", path)
	}
	return nil
}
