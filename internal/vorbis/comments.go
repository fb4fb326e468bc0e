// Package vorbis holds the Vorbis comment field map and picture handling
// shared by FLAC and Ogg.
//
// Both containers carry the same comment list: a vendor string followed
// by "KEY=VALUE" entries whose names are case-insensitive.
package vorbis

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"

	"github.com/simonhull/anytag/internal/keymap"
	"github.com/simonhull/anytag/internal/types"
)

// Keys maps fields onto Vorbis comment names. The aliases are spellings
// written by older taggers.
var Keys = keymap.Map{
	types.FieldTitle:       {Canonical: flacvorbis.FIELD_TITLE},
	types.FieldArtist:      {Canonical: flacvorbis.FIELD_ARTIST},
	types.FieldYear:        {Canonical: flacvorbis.FIELD_DATE, Aliases: []string{"YEAR"}},
	types.FieldDate:        {Canonical: flacvorbis.FIELD_DATE},
	types.FieldGenre:       {Canonical: flacvorbis.FIELD_GENRE},
	types.FieldCopyright:   {Canonical: flacvorbis.FIELD_COPYRIGHT},
	types.FieldComment:     {Canonical: "COMMENT", Aliases: []string{flacvorbis.FIELD_DESCRIPTION}},
	types.FieldAlbumTitle:  {Canonical: flacvorbis.FIELD_ALBUM},
	types.FieldAlbumArtist: {Canonical: "ALBUMARTIST", Aliases: []string{"ALBUM ARTIST"}},
	types.FieldTrackNumber: {Canonical: flacvorbis.FIELD_TRACKNUMBER},
	types.FieldTotalTracks: {Canonical: "TRACKTOTAL", Aliases: []string{"TOTALTRACKS"}},
	types.FieldDiscNumber:  {Canonical: "DISCNUMBER"},
	types.FieldTotalDiscs:  {Canonical: "DISCTOTAL", Aliases: []string{"TOTALDISCS"}},
}

// NewStore returns an empty case-insensitive comment store.
func NewStore() *keymap.Ordered {
	return keymap.NewOrdered(keymap.FoldCase())
}

// Load adds the comments of cmt to store. Entries without a '='
// separator are skipped with a warning.
func Load(cmt *flacvorbis.MetaDataBlockVorbisComment, store *keymap.Ordered) []types.Warning {
	var warnings []types.Warning
	for i, c := range cmt.Comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok || key == "" {
			warnings = append(warnings, types.Warning{
				Stage:   "metadata",
				Message: fmt.Sprintf("comment %d has no field name", i),
			})
			continue
		}
		store.Add(key, value)
	}
	return warnings
}
