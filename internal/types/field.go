package types

// Field identifies a normalized metadata field.
type Field int

const (
	FieldTitle Field = iota
	FieldArtist
	FieldYear
	FieldDate
	FieldGenre
	FieldCopyright
	FieldComment
	FieldAlbumTitle
	FieldAlbumArtist
	FieldAlbumCover
	FieldTrackNumber
	FieldTotalTracks
	FieldDiscNumber
	FieldTotalDiscs
)

var fieldNames = [...]string{
	FieldTitle:       "title",
	FieldArtist:      "artist",
	FieldYear:        "year",
	FieldDate:        "date",
	FieldGenre:       "genre",
	FieldCopyright:   "copyright",
	FieldComment:     "comment",
	FieldAlbumTitle:  "album title",
	FieldAlbumArtist: "album artist",
	FieldAlbumCover:  "album cover",
	FieldTrackNumber: "track number",
	FieldTotalTracks: "total tracks",
	FieldDiscNumber:  "disc number",
	FieldTotalDiscs:  "total discs",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown field"
	}
	return fieldNames[f]
}
