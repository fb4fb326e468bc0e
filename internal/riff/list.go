package riff

import (
	"bytes"
	"fmt"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

// List is the content of a LIST chunk: a list type followed by nested
// chunks using the same record layout as the top level.
type List struct {
	Chunks []Chunk
	Type   ID
}

// ParseList decodes a LIST chunk. Offsets in errors are relative to the
// start of the chunk payload.
func ParseList(ch Chunk) (*List, error) {
	label := "LIST " + ch.ID.String()
	if ch.ID != IDList {
		return nil, &types.MalformedContainerError{Path: label, Reason: "not a LIST chunk"}
	}
	if len(ch.Data) < 4 {
		return nil, &types.MalformedContainerError{
			Path:   label,
			Reason: fmt.Sprintf("LIST payload of %d bytes has no list type", len(ch.Data)),
		}
	}

	typ := ID(ch.Data[:4])
	label = "LIST " + typ.String()
	sr := binary.NewSafeReader(bytes.NewReader(ch.Data), int64(len(ch.Data)), label)
	chunks, err := readChunks(binary.NewCursor(sr, 4), int64(len(ch.Data)))
	if err != nil {
		return nil, err
	}
	return &List{Type: typ, Chunks: chunks}, nil
}

// NewList builds a LIST chunk from a list type and its sub-chunks.
func NewList(typ ID, chunks []Chunk) Chunk {
	var buf bytes.Buffer
	buf.Grow(int(4 + chunksSize(chunks)))
	sw := binary.NewSafeWriter(&buf)
	_ = sw.WriteBytes(typ[:])
	writeChunks(sw, chunks)
	return Chunk{ID: IDList, Data: buf.Bytes()}
}

// Chunk serializes the list back into a LIST chunk.
func (l *List) Chunk() Chunk {
	return NewList(l.Type, l.Chunks)
}
