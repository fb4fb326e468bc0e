package types

import "slices"

// AnyTag is a format-independent snapshot of a tag's fields.
//
// A nil pointer or nil slice means the field was absent in the source or
// cannot be represented by its format. A present multi-valued field is
// never an empty slice.
type AnyTag struct {
	Title       *string
	Artists     []string
	Year        *int
	Date        *string
	Genre       *string
	Copyright   *string
	Comment     *string
	Album       Album
	TrackNumber *int
	TotalTracks *int
	DiscNumber  *int
	TotalDiscs  *int
}

// Album groups the album-level fields of an AnyTag.
type Album struct {
	Title   *string
	Cover   *Picture
	Artists []string
}

// FromEditor reads every field of e through its getters.
func FromEditor(e Editor) AnyTag {
	var t AnyTag
	t.Title = opt(e.Title())
	t.Artists = nonEmpty(e.Artists())
	t.Year = opt(e.Year())
	t.Date = opt(e.Date())
	t.Genre = opt(e.Genre())
	t.Copyright = opt(e.Copyright())
	t.Comment = opt(e.Comment())
	t.Album.Title = opt(e.AlbumTitle())
	t.Album.Artists = nonEmpty(e.AlbumArtists())
	t.Album.Cover = opt(e.AlbumCover())
	t.TrackNumber = opt(e.TrackNumber())
	t.TotalTracks = opt(e.TotalTracks())
	t.DiscNumber = opt(e.DiscNumber())
	t.TotalDiscs = opt(e.TotalDiscs())
	return t
}

// ApplyTo sets every present field on e. Artists are applied one at a
// time with AddArtist and AddAlbumArtist, so e should normally be a fresh
// tag. The only possible error comes from SetAlbumCover; the remaining
// fields are applied before it.
func (t AnyTag) ApplyTo(e Editor) error {
	if t.Title != nil {
		e.SetTitle(*t.Title)
	}
	for _, a := range t.Artists {
		e.AddArtist(a)
	}
	if t.Year != nil {
		e.SetYear(*t.Year)
	}
	if t.Album.Title != nil {
		e.SetAlbumTitle(*t.Album.Title)
	}
	for _, a := range t.Album.Artists {
		e.AddAlbumArtist(a)
	}
	if t.TrackNumber != nil {
		e.SetTrackNumber(*t.TrackNumber)
	}
	if t.TotalTracks != nil {
		e.SetTotalTracks(*t.TotalTracks)
	}
	if t.DiscNumber != nil {
		e.SetDiscNumber(*t.DiscNumber)
	}
	if t.TotalDiscs != nil {
		e.SetTotalDiscs(*t.TotalDiscs)
	}
	if t.Date != nil {
		e.SetDate(*t.Date)
	}
	if t.Genre != nil {
		e.SetGenre(*t.Genre)
	}
	if t.Copyright != nil {
		e.SetCopyright(*t.Copyright)
	}
	if t.Comment != nil {
		e.SetComment(*t.Comment)
	}
	if t.Album.Cover != nil {
		return e.SetAlbumCover(*t.Album.Cover)
	}
	return nil
}

// Equal reports whether t and o hold the same fields.
func (t AnyTag) Equal(o AnyTag) bool {
	return eqPtr(t.Title, o.Title) &&
		slices.Equal(t.Artists, o.Artists) &&
		eqPtr(t.Year, o.Year) &&
		eqPtr(t.Date, o.Date) &&
		eqPtr(t.Genre, o.Genre) &&
		eqPtr(t.Copyright, o.Copyright) &&
		eqPtr(t.Comment, o.Comment) &&
		eqPtr(t.Album.Title, o.Album.Title) &&
		slices.Equal(t.Album.Artists, o.Album.Artists) &&
		eqCover(t.Album.Cover, o.Album.Cover) &&
		eqPtr(t.TrackNumber, o.TrackNumber) &&
		eqPtr(t.TotalTracks, o.TotalTracks) &&
		eqPtr(t.DiscNumber, o.DiscNumber) &&
		eqPtr(t.TotalDiscs, o.TotalDiscs)
}

// IsEmpty reports whether no field is present.
func (t AnyTag) IsEmpty() bool {
	return t.Equal(AnyTag{})
}

func opt[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqCover(a, b *Picture) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
