package m4a

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/types"
)

// ilstKeys maps fields onto iTunes item atoms. In MP4, © is the byte 0xA9.
var ilstKeys = keymap.Map{
	types.FieldTitle:       {Canonical: "\xA9nam"},
	types.FieldArtist:      {Canonical: "\xA9ART"},
	types.FieldYear:        {Canonical: "\xA9day"},
	types.FieldDate:        {Canonical: "\xA9day"},
	types.FieldGenre:       {Canonical: "\xA9gen"},
	types.FieldCopyright:   {Canonical: "cprt"},
	types.FieldComment:     {Canonical: "\xA9cmt"},
	types.FieldAlbumTitle:  {Canonical: "\xA9alb"},
	types.FieldAlbumArtist: {Canonical: "aART"},
	types.FieldTrackNumber: {Canonical: "trkn", Slot: keymap.Number},
	types.FieldTotalTracks: {Canonical: "trkn", Slot: keymap.Total},
	types.FieldDiscNumber:  {Canonical: "disk", Slot: keymap.Number},
	types.FieldTotalDiscs:  {Canonical: "disk", Slot: keymap.Total},
}

// Data atom value types.
const (
	dataTypeUTF8    = 1
	dataTypeUTF16   = 2
	dataTypeInteger = 21
)

// dataAtom is one value of an ilst item.
type dataAtom struct {
	Type  uint32
	Value []byte
}

// ilst is the decoded iTunes metadata list.
type ilst struct {
	store  *keymap.Ordered
	covers *covrCovers
}

func readIlst(sr *binary.SafeReader, list *Atom, opts types.ParseOptions, log *slog.Logger) (*ilst, []types.Warning, error) {
	out := &ilst{store: keymap.NewOrdered(), covers: &covrCovers{}}
	var warnings []types.Warning

	for offset := list.DataOffset(); offset+8 <= list.End(); {
		item, err := readAtomHeader(sr, offset, list.End())
		if err != nil {
			return nil, warnings, err
		}
		offset = item.End()

		key, values, err := readItem(sr, item)
		if err != nil {
			return nil, warnings, err
		}

		switch key {
		case "covr":
			for _, v := range values {
				w, ok := out.addCover(v, opts, log)
				if !ok {
					warnings = append(warnings, w)
				}
			}
		case "trkn", "disk":
			if len(values) > 0 {
				if pair, ok := decodePair(values[0].Value); ok {
					out.store.Set(key, pair)
				}
			}
		default:
			for _, v := range values {
				text, ok := decodeValue(v)
				if !ok {
					log.Debug("m4a: skipping non-text value", "item", key, "type", v.Type)
					continue
				}
				if text == "" {
					continue
				}
				out.store.Add(key, text)
			}
		}
	}

	log.Debug("m4a: read ilst", "items", out.store.Len(), "covers", len(out.covers.pictures))
	return out, warnings, nil
}

// readItem returns the key and data atoms of an ilst item. Freeform items
// are keyed "----:mean:name".
func readItem(sr *binary.SafeReader, item *Atom) (string, []dataAtom, error) {
	key := item.Type
	var values []dataAtom
	var mean, name string

	for offset := item.DataOffset(); offset+8 <= item.End(); {
		child, err := readAtomHeader(sr, offset, item.End())
		if err != nil {
			return "", nil, err
		}
		offset = child.End()

		if child.DataSize() < 4 {
			continue
		}
		c := binary.NewCursor(sr, child.DataOffset())
		header, err := binary.Next[uint32](c, "data atom type", binary.BigEndian)
		if err != nil {
			return "", nil, err
		}

		switch child.Type {
		case "data":
			if child.DataSize() < 8 {
				continue
			}
			c.Skip(4) // locale
			value, err := c.Bytes(child.DataSize()-8, "data atom value")
			if err != nil {
				return "", nil, err
			}
			values = append(values, dataAtom{Type: header & 0x00FFFFFF, Value: value})
		case "mean", "name":
			text, err := c.Bytes(child.DataSize()-4, "freeform "+child.Type)
			if err != nil {
				return "", nil, err
			}
			if child.Type == "mean" {
				mean = string(text)
			} else {
				name = string(text)
			}
		}
	}

	if key == "----" {
		key = fmt.Sprintf("----:%s:%s", mean, name)
	}
	return key, values, nil
}

func (l *ilst) addCover(v dataAtom, opts types.ParseOptions, log *slog.Logger) (types.Warning, bool) {
	if opts.MaxPictureSize > 0 && len(v.Value) > opts.MaxPictureSize {
		log.Warn("m4a: dropping oversized picture", "bytes", len(v.Value), "limit", opts.MaxPictureSize)
		return types.Warning{
			Stage:   "artwork",
			Message: fmt.Sprintf("picture of %d bytes exceeds limit of %d", len(v.Value), opts.MaxPictureSize),
		}, false
	}
	p, err := types.NewPicture(coverMIME(v.Type), v.Value)
	if err != nil {
		log.Warn("m4a: unusable cover", "error", err)
		return types.Warning{Stage: "artwork", Message: err.Error()}, false
	}
	l.covers.pictures = append(l.covers.pictures, p)
	return types.Warning{}, true
}

// decodeValue returns the text of a data atom.
func decodeValue(v dataAtom) (string, bool) {
	switch v.Type {
	case dataTypeUTF8:
		if !utf8.Valid(v.Value) {
			return "", false
		}
		return strings.TrimRight(string(v.Value), "\x00"), true
	case dataTypeUTF16:
		text, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(v.Value)
		if err != nil {
			return "", false
		}
		return strings.TrimRight(string(text), "\x00"), true
	case dataTypeInteger:
		var n int64
		for _, b := range v.Value {
			n = n<<8 | int64(b)
		}
		if len(v.Value) > 0 && v.Value[0]&0x80 != 0 {
			n -= 1 << (8 * len(v.Value))
		}
		return strconv.FormatInt(n, 10), len(v.Value) > 0 && len(v.Value) <= 8
	}
	return "", false
}

// decodePair reads the binary trkn and disk layout: 2 reserved bytes, the
// number and the total as big-endian uint16.
func decodePair(b []byte) (string, bool) {
	if len(b) < 6 {
		return "", false
	}
	n := int(b[2])<<8 | int(b[3])
	m := int(b[4])<<8 | int(b[5])
	switch {
	case n == 0 && m == 0:
		return "", false
	case m == 0:
		return strconv.Itoa(n), true
	case n == 0:
		return "/" + strconv.Itoa(m), true
	}
	return strconv.Itoa(n) + "/" + strconv.Itoa(m), true
}
