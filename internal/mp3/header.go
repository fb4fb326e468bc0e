// Package mp3 provides the ID3v2 tag backend for MP3 files.
package mp3

import (
	"fmt"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

// id3Header is the fixed 10-byte ID3v2 tag header.
type id3Header struct {
	Version  byte // Major version (2, 3 or 4)
	Revision byte
	Flags    byte
	Size     uint32 // Tag size excluding header and footer
}

const flagFooter = 0x10

// TotalSize returns the number of bytes the tag occupies at the start of
// the file, header and footer included.
func (h id3Header) TotalSize() int64 {
	n := int64(10) + int64(h.Size)
	if h.Version == 4 && h.Flags&flagFooter != 0 {
		n += 10
	}
	return n
}

// readHeader reads the ID3v2 header at the start of the file. ok is false
// when the file does not begin with a tag.
func readHeader(sr *binary.SafeReader) (h id3Header, ok bool, err error) {
	if sr.Size() < 10 {
		return h, false, nil
	}

	buf := make([]byte, 10)
	if err := sr.ReadAt(buf, 0, "ID3v2 header"); err != nil {
		return h, false, err
	}
	if string(buf[0:3]) != "ID3" {
		return h, false, nil
	}

	h = id3Header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     decodeSynchsafe(buf[6:10]),
	}

	if h.TotalSize() > sr.Size() {
		return h, true, &types.MalformedContainerError{
			Path:   sr.Path(),
			Offset: 6,
			Reason: fmt.Sprintf("ID3v2 tag size %d exceeds file size %d", h.TotalSize(), sr.Size()),
		}
	}
	return h, true, nil
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
// ID3v2 uses 7-bit encoding where bit 7 is always 0
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
