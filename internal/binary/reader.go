// Package binary provides bounds-checked binary reading and writing
// primitives shared by the container codecs.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/anytag/internal/types"
)

// ErrOutOfBounds is wrapped by every SafeReader error caused by a read
// past the end of the underlying data.
var ErrOutOfBounds = errors.New("read out of bounds")

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian is used by MP4/M4A atoms and ID3v2 headers.
	BigEndian Endianness = iota

	// LittleEndian is used by RIFF chunk headers and Vorbis comments.
	LittleEndian
)

func (e Endianness) order() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
//
// A read past the end of the data, or one the underlying reader cuts
// short, fails with *types.MalformedContainerError wrapping
// ErrOutOfBounds or io.ErrUnexpectedEOF. Other read failures are
// returned wrapped as they are.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off > sr.size || (off == sr.size && len(b) > 0) {
		return sr.malformed(off, ErrOutOfBounds,
			"offset %d out of bounds (file size: %d) while reading %s", off, sr.size, what)
	}

	if off+int64(len(b)) > sr.size {
		return sr.malformed(off, ErrOutOfBounds,
			"read of %d bytes would exceed file size %d while reading %s", len(b), sr.size, what)
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return sr.malformed(off, io.ErrUnexpectedEOF,
			"short read for %s: got %d bytes, expected %d", what, n, len(b))
	}

	return nil
}

func (sr *SafeReader) malformed(off int64, err error, format string, args ...any) error {
	return &types.MalformedContainerError{
		Err:    err,
		Path:   sr.path,
		Offset: off,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Read reads a big-endian value of type T from the given offset.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadLE reads a little-endian value of type T from the given offset.
//
//	size, err := binary.ReadLE[uint32](sr, offset+4, "chunk size")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with the
// specified byte order.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	var zero T
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	order := endian.order()
	switch len(buf) {
	case 1:
		return T(buf[0]), nil
	case 2:
		return T(order.Uint16(buf)), nil
	case 4:
		return T(order.Uint32(buf)), nil
	default:
		return T(order.Uint64(buf)), nil
	}
}

func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// Cursor provides sequential reading with automatic offset tracking.
type Cursor struct {
	*SafeReader
	offset int64
}

// NewCursor creates a new Cursor starting at the given offset.
func NewCursor(sr *SafeReader, offset int64) *Cursor {
	return &Cursor{
		SafeReader: sr,
		offset:     offset,
	}
}

// Next reads a value in the given byte order and advances the offset.
func Next[T uint8 | uint16 | uint32 | uint64](c *Cursor, what string, endian Endianness) (T, error) {
	val, err := ReadEndian[T](c.SafeReader, c.offset, what, endian)
	if err != nil {
		var zero T
		return zero, err
	}
	c.offset += int64(sizeOf[T]())
	return val, nil
}

// Bytes reads n bytes and advances the offset.
func (c *Cursor) Bytes(n int64, what string) ([]byte, error) {
	if n < 0 {
		return nil, c.malformed(c.offset, ErrOutOfBounds, "negative length %d while reading %s", n, what)
	}
	buf := make([]byte, n)
	if err := c.SafeReader.ReadAt(buf, c.offset, what); err != nil {
		return nil, err
	}
	c.offset += n
	return buf, nil
}

// FourCC reads a 4-byte identifier and advances the offset.
func (c *Cursor) FourCC(what string) ([4]byte, error) {
	var id [4]byte
	if err := c.SafeReader.ReadAt(id[:], c.offset, what); err != nil {
		return id, err
	}
	c.offset += 4
	return id, nil
}

// Skip advances the offset by n bytes.
func (c *Cursor) Skip(n int64) {
	c.offset += n
}

// Offset returns the current offset.
func (c *Cursor) Offset() int64 {
	return c.offset
}
