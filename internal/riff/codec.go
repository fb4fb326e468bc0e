package riff

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

// headerSize is the RIFF magic plus the outer size field.
const headerSize = 8

// Container is a parsed RIFF file: its form type and top-level chunks in
// file order.
type Container struct {
	Chunks []Chunk
	Form   ID
}

// Parse reads a RIFF container. It fails with *types.MalformedContainerError
// if the magic is wrong or any declared length, the outer one included,
// runs past the end of the data.
func Parse(r io.ReaderAt, size int64, path string) (*Container, error) {
	if size < headerSize+4 {
		return nil, &types.MalformedContainerError{
			Path:   path,
			Reason: fmt.Sprintf("file too small for RIFF header (%d bytes)", size),
		}
	}

	sr := binary.NewSafeReader(r, size, path)
	c := binary.NewCursor(sr, 0)

	magic, err := c.FourCC("RIFF magic")
	if err != nil {
		return nil, err
	}
	if ID(magic) != IDRiff {
		return nil, &types.MalformedContainerError{
			Path:   path,
			Reason: fmt.Sprintf("bad magic %q, want %q", magic[:], IDRiff.String()),
		}
	}

	outer, err := binary.Next[uint32](c, "RIFF size", binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	end := headerSize + int64(outer)
	if end > size {
		return nil, &types.MalformedContainerError{
			Path:   path,
			Offset: 4,
			Reason: fmt.Sprintf("declared RIFF size %d exceeds file size %d", outer, size),
		}
	}
	if outer < 4 {
		return nil, &types.MalformedContainerError{
			Path:   path,
			Offset: 4,
			Reason: fmt.Sprintf("declared RIFF size %d leaves no room for the form type", outer),
		}
	}

	form, err := c.FourCC("RIFF form type")
	if err != nil {
		return nil, err
	}

	chunks, err := readChunks(c, end)
	if err != nil {
		return nil, err
	}

	return &Container{Form: ID(form), Chunks: chunks}, nil
}

// ParseBytes parses a RIFF container held in memory.
func ParseBytes(data []byte, path string) (*Container, error) {
	return Parse(bytes.NewReader(data), int64(len(data)), path)
}

// readChunks reads records from the cursor until end. Trailing bytes too
// short to hold a chunk header are ignored.
func readChunks(c *binary.Cursor, end int64) ([]Chunk, error) {
	var chunks []Chunk
	for end-c.Offset() >= 8 {
		start := c.Offset()

		id, err := c.FourCC("chunk id")
		if err != nil {
			return nil, err
		}
		length, err := binary.Next[uint32](c, "chunk size", binary.LittleEndian)
		if err != nil {
			return nil, err
		}

		if int64(length) > end-c.Offset() {
			return nil, &types.MalformedContainerError{
				Path:   c.Path(),
				Offset: start,
				Reason: fmt.Sprintf("chunk %q declares %d bytes but only %d remain", id[:], length, end-c.Offset()),
			}
		}

		data, err := c.Bytes(int64(length), "chunk "+string(id[:]))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, Chunk{ID: id, Data: data})

		if length%2 == 1 && c.Offset() < end {
			c.Skip(1)
		}
	}
	return chunks, nil
}

// Size returns the value of the outer size field: the form type plus every
// chunk with its header and padding.
func (c *Container) Size() int64 {
	return 4 + chunksSize(c.Chunks)
}

func chunksSize(chunks []Chunk) int64 {
	var n int64
	for _, ch := range chunks {
		n += ch.encodedSize()
	}
	return n
}

// WriteTo serializes the container. The outer size field is always
// computed from the chunks.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	size := c.Size()
	if size > math.MaxUint32 {
		return 0, &types.MalformedContainerError{
			Path:   "RIFF " + c.Form.String(),
			Offset: 4,
			Reason: fmt.Sprintf("RIFF container of %d bytes exceeds the 4 GiB format limit", size),
		}
	}

	sw := binary.NewSafeWriter(w)
	_ = sw.WriteBytes(IDRiff[:])
	_ = binary.WriteLE(sw, uint32(size))
	_ = sw.WriteBytes(c.Form[:])
	writeChunks(sw, c.Chunks)
	if err := sw.Err(); err != nil {
		return sw.Offset(), fmt.Errorf("write RIFF container: %w", err)
	}
	return sw.Offset(), nil
}

// Bytes returns the serialized container.
func (c *Container) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(headerSize + c.Size()))
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeChunks writes each chunk as id, little-endian length, payload and
// a pad byte after odd payloads. Errors are left on sw.
func writeChunks(sw *binary.SafeWriter, chunks []Chunk) {
	for _, ch := range chunks {
		_ = sw.WriteBytes(ch.ID[:])
		_ = binary.WriteLE(sw, uint32(len(ch.Data)))
		_ = sw.WriteBytes(ch.Data)
		if len(ch.Data)%2 == 1 {
			_ = binary.Write[uint8](sw, 0)
		}
	}
}

// Find returns the index of the first chunk with the given id, or -1.
func (c *Container) Find(id ID) int {
	for i, ch := range c.Chunks {
		if ch.ID == id {
			return i
		}
	}
	return -1
}
