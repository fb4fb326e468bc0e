package types

import "io"

// Editor is the uniform field contract every format adapter implements.
//
// Getters report whether the field is present. A field the format cannot
// represent always reads as absent, and setting it is a no-op. Setters
// and removers only touch the adapter's in-memory store; nothing is
// written until WriteTo or WriteToPath is called.
type Editor interface {
	Title() (string, bool)
	SetTitle(title string)
	RemoveTitle()

	// Artist returns the first artist.
	Artist() (string, bool)
	// Artists returns every artist in order, or nil when there are none.
	Artists() []string
	SetArtist(artist string)
	AddArtist(artist string)
	RemoveArtist()

	Year() (int, bool)
	SetYear(year int)
	RemoveYear()

	Date() (string, bool)
	SetDate(date string)
	RemoveDate()

	Genre() (string, bool)
	SetGenre(genre string)
	RemoveGenre()

	Copyright() (string, bool)
	SetCopyright(copyright string)
	RemoveCopyright()

	Comment() (string, bool)
	SetComment(comment string)
	RemoveComment()

	AlbumTitle() (string, bool)
	SetAlbumTitle(title string)
	RemoveAlbumTitle()

	AlbumArtist() (string, bool)
	AlbumArtists() []string
	SetAlbumArtist(artist string)
	AddAlbumArtist(artist string)
	RemoveAlbumArtists()

	AlbumCover() (Picture, bool)
	// SetAlbumCover fails with *UnsupportedValueError when the format
	// cannot carry the picture.
	SetAlbumCover(p Picture) error
	RemoveAlbumCover()

	TrackNumber() (int, bool)
	SetTrackNumber(n int)
	RemoveTrackNumber()
	TotalTracks() (int, bool)
	SetTotalTracks(n int)
	RemoveTotalTracks()
	// RemoveTrack removes the track number and total tracks together.
	RemoveTrack()

	DiscNumber() (int, bool)
	SetDiscNumber(n int)
	RemoveDiscNumber()
	TotalDiscs() (int, bool)
	SetTotalDiscs(n int)
	RemoveTotalDiscs()
	// RemoveDisc removes the disc number and total discs together.
	RemoveDisc()
}

// Writer serializes a tag's current state.
//
// WriteTo emits a complete file. For formats whose tag lives alongside
// audio data, the audio of the file the tag was read from is carried
// over; a tag created empty produces a file with no audio.
//
// WriteToPath updates the file at path in place, keeping its audio and
// replacing its tag, or creates a new file if path does not exist.
type Writer interface {
	WriteTo(w io.Writer) (int64, error)
	WriteToPath(path string) error
}

// Tag is a format adapter: a uniform editor over one native tag store
// that can write itself back out.
type Tag interface {
	Editor
	Writer
	Format() Format
}
