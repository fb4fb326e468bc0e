// Package ogg reads the comment headers of Ogg Vorbis and Ogg Opus
// streams. Writing is not supported.
package ogg

import (
	"fmt"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

const pageHeaderSize = 27

// Page is one Ogg page of a logical bitstream.
type Page struct {
	HeaderType     byte   // 0x01 continued, 0x02 first page, 0x04 last page
	SerialNumber   uint32 // Logical bitstream identifier
	SequenceNumber uint32
	Segments       []byte // Lacing values
	Data           []byte
}

// readPage reads the page at offset and returns it with the offset of
// the next page.
func readPage(sr *binary.SafeReader, offset int64) (*Page, int64, error) {
	c := binary.NewCursor(sr, offset)
	magic, err := c.FourCC("Ogg page magic")
	if err != nil {
		return nil, 0, err
	}
	if string(magic[:]) != "OggS" {
		return nil, 0, malformed(sr, offset, "missing OggS capture pattern")
	}
	version, err := binary.Next[uint8](c, "stream structure version", binary.LittleEndian)
	if err != nil {
		return nil, 0, err
	}
	if version != 0 {
		return nil, 0, malformed(sr, offset, fmt.Sprintf("unsupported Ogg version %d", version))
	}

	page := &Page{}
	if page.HeaderType, err = binary.Next[uint8](c, "header type", binary.LittleEndian); err != nil {
		return nil, 0, err
	}
	c.Skip(8) // granule position
	if page.SerialNumber, err = binary.Next[uint32](c, "serial number", binary.LittleEndian); err != nil {
		return nil, 0, err
	}
	if page.SequenceNumber, err = binary.Next[uint32](c, "sequence number", binary.LittleEndian); err != nil {
		return nil, 0, err
	}
	c.Skip(4) // CRC

	count, err := binary.Next[uint8](c, "segment count", binary.LittleEndian)
	if err != nil {
		return nil, 0, err
	}
	if page.Segments, err = c.Bytes(int64(count), "segment table"); err != nil {
		return nil, 0, err
	}

	size := 0
	for _, seg := range page.Segments {
		size += int(seg)
	}
	if page.Data, err = c.Bytes(int64(size), "page data"); err != nil {
		return nil, 0, err
	}
	return page, offset + pageHeaderSize + int64(count) + int64(size), nil
}

// packetReader reassembles the packets of the first logical stream in a
// file. Pages of other streams are skipped.
type packetReader struct {
	sr      *binary.SafeReader
	offset  int64
	serial  uint32
	started bool
	partial []byte
	queue   [][]byte
}

func newPacketReader(sr *binary.SafeReader) *packetReader {
	return &packetReader{sr: sr}
}

// next returns the next complete packet. A packet ends at the first
// lacing value below 255.
func (p *packetReader) next(what string) ([]byte, error) {
	for len(p.queue) == 0 {
		if p.offset >= p.sr.Size() {
			return nil, malformed(p.sr, p.offset, "stream ends before the "+what)
		}
		page, next, err := readPage(p.sr, p.offset)
		if err != nil {
			return nil, err
		}
		p.offset = next

		if !p.started {
			p.serial, p.started = page.SerialNumber, true
		}
		if page.SerialNumber != p.serial {
			continue
		}
		p.split(page)
	}

	packet := p.queue[0]
	p.queue = p.queue[1:]
	return packet, nil
}

func (p *packetReader) split(page *Page) {
	data := page.Data
	for _, seg := range page.Segments {
		p.partial = append(p.partial, data[:seg]...)
		data = data[seg:]
		if seg < 255 {
			p.queue = append(p.queue, p.partial)
			p.partial = nil
		}
	}
}

func malformed(sr *binary.SafeReader, offset int64, reason string) error {
	return &types.MalformedContainerError{Path: sr.Path(), Offset: offset, Reason: reason}
}
