// Package flac provides the Vorbis comment backend for FLAC files.
package flac

import (
	"fmt"
	"io"

	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

const magic = "fLaC"

// stream is the metadata of a FLAC file. Audio frames start at
// audioOffset and are never decoded.
type stream struct {
	blocks      []*goflac.MetaDataBlock
	audioOffset int64
}

// readStream walks the metadata blocks that follow the stream marker.
func readStream(r io.ReaderAt, size int64, path string) (*stream, error) {
	sr := binary.NewSafeReader(r, size, path)

	head := make([]byte, 4)
	if err := sr.ReadAt(head, 0, "FLAC stream marker"); err != nil {
		return nil, err
	}
	if string(head) != magic {
		return nil, &types.MalformedContainerError{Path: path, Reason: "missing fLaC stream marker"}
	}

	s := &stream{}
	offset := int64(4)
	for {
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, err
		}

		last := header>>31 == 1
		blockType := goflac.BlockType((header >> 24) & 0x7F)
		length := int64(header & 0x00FFFFFF)
		offset += 4

		if offset+length > size {
			return nil, &types.MalformedContainerError{
				Path:   path,
				Offset: offset - 4,
				Reason: fmt.Sprintf("metadata block of %d bytes exceeds file size %d", length, size),
			}
		}

		data := make([]byte, length)
		if err := sr.ReadAt(data, offset, "metadata block"); err != nil {
			return nil, err
		}
		s.blocks = append(s.blocks, &goflac.MetaDataBlock{Type: blockType, Data: data})
		offset += length

		if last {
			break
		}
	}
	s.audioOffset = offset
	return s, nil
}

// writeBlocks writes the stream marker and blocks, flagging the final one.
func writeBlocks(w io.Writer, blocks []*goflac.MetaDataBlock) (int64, error) {
	n, err := io.WriteString(w, magic)
	total := int64(n)
	if err != nil {
		return total, err
	}
	for i, b := range blocks {
		n, err := w.Write(b.Marshal(i == len(blocks)-1))
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write metadata block: %w", err)
		}
	}
	return total, nil
}
