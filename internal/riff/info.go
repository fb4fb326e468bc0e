package riff

import (
	"bytes"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/types"
)

// infoKeys maps fields onto INFO sub-chunk identifiers. INFO has no album
// artist or total discs, and DISC holds only the disc number.
var infoKeys = keymap.Map{
	types.FieldTitle:       {Canonical: "INAM"},
	types.FieldArtist:      {Canonical: "IART"},
	types.FieldYear:        {Canonical: "ICRD"},
	types.FieldDate:        {Canonical: "ICRD"},
	types.FieldGenre:       {Canonical: "IGNR"},
	types.FieldCopyright:   {Canonical: "ICOP"},
	types.FieldComment:     {Canonical: "ICMT"},
	types.FieldAlbumTitle:  {Canonical: "IPRD", Aliases: []string{"ALBU"}},
	types.FieldTrackNumber: {Canonical: "ITRK", Aliases: []string{"IPRT", "TRAC"}},
	types.FieldTotalTracks: {Canonical: "IFRM"},
	types.FieldDiscNumber:  {Canonical: "DISC"},
}

func newInfoStore() *keymap.Ordered {
	return keymap.NewOrdered(keymap.SingleValued())
}

// readInfo merges every LIST/INFO chunk of c into one store. Later
// duplicates of an identifier replace earlier ones.
func readInfo(c *Container, log *slog.Logger) (*keymap.Ordered, []types.Warning, error) {
	store := newInfoStore()
	var warnings []types.Warning

	for _, ch := range c.Chunks {
		if !ch.IsList(IDInfo) {
			continue
		}
		list, err := ParseList(ch)
		if err != nil {
			return nil, warnings, fmt.Errorf("parse INFO list: %w", err)
		}
		for _, sub := range list.Chunks {
			text, recovered := decodeText(sub.Data)
			if recovered {
				msg := fmt.Sprintf("%s is not valid UTF-8, decoded as Windows-1252", sub.ID)
				log.Warn("riff: legacy INFO text", "chunk", sub.ID.String())
				warnings = append(warnings, types.Warning{Stage: "metadata", Message: msg})
			}
			store.Set(sub.ID.String(), text)
		}
	}

	log.Debug("riff: read INFO", "entries", store.Len())
	return store, warnings, nil
}

// decodeText strips the NUL terminator and decodes the value. Text that
// is not UTF-8 is read as Windows-1252, which is what most legacy WAV
// writers produce; recovered reports that the fallback was used.
func decodeText(data []byte) (text string, recovered bool) {
	data = bytes.TrimRight(data, "\x00")
	if utf8.Valid(data) {
		return string(data), false
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�"))), true
	}
	return string(decoded), true
}

// infoList builds the LIST/INFO chunk for store. ok is false when the
// store is empty and no list should be written.
func infoList(store *keymap.Ordered) (list Chunk, ok bool) {
	var subs []Chunk
	for key, vals := range store.All() {
		id, valid := ParseID(key)
		if !valid || len(vals) == 0 {
			continue
		}
		data := make([]byte, 0, len(vals[0])+1)
		data = append(data, vals[0]...)
		data = append(data, 0)
		subs = append(subs, Chunk{ID: id, Data: data})
	}
	if len(subs) == 0 {
		return Chunk{}, false
	}
	return NewList(IDInfo, subs), true
}

// withInfo returns a copy of c whose INFO lists are replaced by info. The
// new list takes the position of the first existing one, or goes last.
// A nil info drops INFO entirely.
func (c *Container) withInfo(info *Chunk) *Container {
	out := &Container{Form: c.Form, Chunks: make([]Chunk, 0, len(c.Chunks)+1)}
	placed := false
	for _, ch := range c.Chunks {
		if !ch.IsList(IDInfo) {
			out.Chunks = append(out.Chunks, ch)
			continue
		}
		if !placed && info != nil {
			out.Chunks = append(out.Chunks, *info)
		}
		placed = true
	}
	if !placed && info != nil {
		out.Chunks = append(out.Chunks, *info)
	}
	return out
}
