package ogg

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/anytag/internal/types"
)

// codec describes the identification and comment headers of one Ogg
// mapping.
type codec struct {
	format        types.Format
	name          string
	idMagic       []byte
	idMinSize     int
	commentMagic  []byte
	checkIdentity func(id []byte) error
}

var codecs = []codec{
	{
		format:        types.FormatOgg,
		name:          "Vorbis",
		idMagic:       []byte("\x01vorbis"),
		idMinSize:     30,
		commentMagic:  []byte("\x03vorbis"),
		checkIdentity: checkVorbisIdentity,
	},
	{
		format:        types.FormatOpus,
		name:          "Opus",
		idMagic:       []byte("OpusHead"),
		idMinSize:     19,
		commentMagic:  []byte("OpusTags"),
		checkIdentity: checkOpusHead,
	},
}

// detectCodec picks the mapping from the first packet of a stream.
func detectCodec(id []byte) (codec, bool) {
	for _, c := range codecs {
		if bytes.HasPrefix(id, c.idMagic) {
			return c, true
		}
	}
	return codec{}, false
}

func checkVorbisIdentity(id []byte) error {
	if v := binary.LittleEndian.Uint32(id[7:11]); v != 0 {
		return fmt.Errorf("unsupported Vorbis version %d", v)
	}
	if id[11] == 0 {
		return fmt.Errorf("zero channels")
	}
	if binary.LittleEndian.Uint32(id[12:16]) == 0 {
		return fmt.Errorf("zero sample rate")
	}
	return nil
}

// checkOpusHead accepts every version with major version 0.
func checkOpusHead(id []byte) error {
	if v := id[8]; v>>4 != 0 {
		return fmt.Errorf("unsupported Opus version %d", v)
	}
	if id[9] == 0 {
		return fmt.Errorf("zero channels")
	}
	return nil
}

// parseComments decodes a comment header packet. The list after the
// magic has the same layout as a FLAC VORBIS_COMMENT block; a Vorbis
// framing bit or Opus padding after it is ignored.
func (c codec) parseComments(packet []byte) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	if !bytes.HasPrefix(packet, c.commentMagic) {
		return nil, fmt.Errorf("second packet is not a %s comment header", c.name)
	}
	body := packet[len(c.commentMagic):]
	if err := checkCommentLengths(body); err != nil {
		return nil, err
	}
	return flacvorbis.ParseFromMetaDataBlock(goflac.MetaDataBlock{Type: goflac.VorbisComment, Data: body})
}

// checkCommentLengths walks the length prefixes so that a corrupt count
// or length fails before anything is allocated for it.
func checkCommentLengths(body []byte) error {
	rest := body
	field := func(what string) ([]byte, error) {
		if len(rest) < 4 {
			return nil, fmt.Errorf("truncated %s length", what)
		}
		n := binary.LittleEndian.Uint32(rest)
		rest = rest[4:]
		if uint64(n) > uint64(len(rest)) {
			return nil, fmt.Errorf("%s length %d exceeds packet", what, n)
		}
		v := rest[:n]
		rest = rest[n:]
		return v, nil
	}

	if _, err := field("vendor"); err != nil {
		return err
	}
	if len(rest) < 4 {
		return fmt.Errorf("truncated comment count")
	}
	count := binary.LittleEndian.Uint32(rest)
	rest = rest[4:]
	if uint64(count)*4 > uint64(len(rest)) {
		return fmt.Errorf("comment count %d exceeds packet", count)
	}
	for i := range count {
		if _, err := field(fmt.Sprintf("comment %d", i)); err != nil {
			return err
		}
	}
	return nil
}
