package types

import (
	"errors"
	"fmt"
)

// ErrNotAPicture is returned when an embedded artwork payload is not one
// of the supported image encodings.
var ErrNotAPicture = errors.New("not a picture")

// MalformedContainerError is returned when a container's structure is
// invalid: bad magic, a truncated chunk, or a declared length that
// overruns the data.
type MalformedContainerError struct {
	Err    error
	Path   string
	Reason string
	Offset int64
}

func (e *MalformedContainerError) Error() string {
	msg := fmt.Sprintf("%s: malformed container at offset %d: %s", e.Path, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedContainerError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned when a file's format is not
// recognized or has no registered backend.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// UnsupportedValueError is returned when a caller sets a value the target
// format cannot represent, such as cover art in an image encoding the
// format does not carry.
type UnsupportedValueError struct {
	Err    error
	Reason string
	Format Format
	Field  Field
}

func (e *UnsupportedValueError) Error() string {
	msg := fmt.Sprintf("%s cannot store %s", e.Format, e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnsupportedValueError) Unwrap() error {
	return e.Err
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - Text recovered through a legacy character set
//   - Artwork in an unsupported encoding
//   - Artwork larger than the configured limit
//
// Warnings are collected in File.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "metadata", "artwork"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
