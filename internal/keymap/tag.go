package keymap

import (
	"strconv"
	"strings"

	"github.com/simonhull/anytag/internal/types"
)

// Tag is the generic format adapter. Every format's tag type embeds one
// and adds only its own serialization.
type Tag struct {
	store  Store
	covers Covers
	keys   Map
	format types.Format
}

// New creates an adapter over store using keys. covers may be nil.
func New(format types.Format, keys Map, store Store, covers Covers) *Tag {
	return &Tag{
		format: format,
		keys:   keys,
		store:  store,
		covers: covers,
	}
}

// Format returns the container format the tag belongs to.
func (t *Tag) Format() types.Format {
	return t.format
}

// Store returns the native store.
func (t *Tag) Store() Store {
	return t.store
}

// Get returns the first present candidate for f.
func (t *Tag) Get(f types.Field) (string, bool) {
	keys, ok := t.keys.Lookup(f)
	if !ok {
		return "", false
	}
	for _, k := range keys.Candidates() {
		vals := t.store.Values(k)
		if len(vals) == 0 {
			continue
		}
		if keys.Slot == Whole {
			return vals[0], true
		}
		n, m := splitPair(vals[0])
		part := n
		if keys.Slot == Total {
			part = m
		}
		if part != "" {
			return part, true
		}
	}
	return "", false
}

// GetAll returns every value of the first present candidate for f, or nil.
func (t *Tag) GetAll(f types.Field) []string {
	keys, ok := t.keys.Lookup(f)
	if !ok || keys.Slot != Whole {
		if v, ok := t.Get(f); ok {
			return []string{v}
		}
		return nil
	}
	for _, k := range keys.Candidates() {
		if vals := t.store.Values(k); len(vals) > 0 {
			return vals
		}
	}
	return nil
}

// Set writes value under the canonical key of f. Other candidates are
// left alone.
func (t *Tag) Set(f types.Field, value string) {
	keys, ok := t.keys.Lookup(f)
	if !ok {
		return
	}
	if keys.Slot == Whole {
		t.store.Set(keys.Canonical, value)
		return
	}
	var n, m string
	if vals := t.store.Values(keys.Canonical); len(vals) > 0 {
		n, m = splitPair(vals[0])
	}
	if keys.Slot == Number {
		n = value
	} else {
		m = value
	}
	t.store.Set(keys.Canonical, joinPair(n, m))
}

// Add appends value under the canonical key of f.
func (t *Tag) Add(f types.Field, value string) {
	keys, ok := t.keys.Lookup(f)
	if !ok {
		return
	}
	if keys.Slot != Whole {
		t.Set(f, value)
		return
	}
	t.store.Add(keys.Canonical, value)
}

// Remove deletes the canonical entry of f. For a pair key only the
// addressed half is cleared.
func (t *Tag) Remove(f types.Field) {
	keys, ok := t.keys.Lookup(f)
	if !ok {
		return
	}
	if keys.Slot == Whole {
		t.store.Delete(keys.Canonical)
		return
	}
	vals := t.store.Values(keys.Canonical)
	if len(vals) == 0 {
		return
	}
	n, m := splitPair(vals[0])
	if keys.Slot == Number {
		n = ""
	} else {
		m = ""
	}
	if n == "" && m == "" {
		t.store.Delete(keys.Canonical)
		return
	}
	t.store.Set(keys.Canonical, joinPair(n, m))
}

// Purge deletes every candidate key of the given fields.
func (t *Tag) Purge(fields ...types.Field) {
	for _, f := range fields {
		keys, ok := t.keys.Lookup(f)
		if !ok {
			continue
		}
		for _, k := range keys.Candidates() {
			t.store.Delete(k)
		}
	}
}

func (t *Tag) getInt(f types.Field) (int, bool) {
	v, ok := t.Get(f)
	if !ok {
		return 0, false
	}
	// "3/12" in a whole-value key still reads as 3
	v, _, _ = strings.Cut(v, "/")
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (t *Tag) setInt(f types.Field, n int) {
	if n < 0 {
		return
	}
	t.Set(f, strconv.Itoa(n))
}

// Title accessors for FieldTitle.
func (t *Tag) Title() (string, bool) { return t.Get(types.FieldTitle) }
func (t *Tag) SetTitle(title string) { t.Set(types.FieldTitle, title) }
func (t *Tag) RemoveTitle()          { t.Remove(types.FieldTitle) }

// Artist accessors. Artist returns the first of Artists; AddArtist keeps
// the existing ones when the store allows several values.
func (t *Tag) Artist() (string, bool)  { return t.Get(types.FieldArtist) }
func (t *Tag) Artists() []string       { return t.GetAll(types.FieldArtist) }
func (t *Tag) SetArtist(artist string) { t.Set(types.FieldArtist, artist) }
func (t *Tag) AddArtist(artist string) { t.Add(types.FieldArtist, artist) }
func (t *Tag) RemoveArtist()           { t.Remove(types.FieldArtist) }

// Year reads the leading digits of the year field, so "2019-04-12"
// yields 2019.
func (t *Tag) Year() (int, bool) {
	v, ok := t.Get(types.FieldYear)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return y, true
}

// SetYear stores the year as decimal text. Negative years are ignored.
func (t *Tag) SetYear(year int) { t.setInt(types.FieldYear, year) }
func (t *Tag) RemoveYear()      { t.Remove(types.FieldYear) }

// Date accessors. In formats that share one key for year and date,
// SetDate also changes Year.
func (t *Tag) Date() (string, bool) { return t.Get(types.FieldDate) }
func (t *Tag) SetDate(date string)  { t.Set(types.FieldDate, date) }
func (t *Tag) RemoveDate()          { t.Remove(types.FieldDate) }

// Genre accessors.
func (t *Tag) Genre() (string, bool) { return t.Get(types.FieldGenre) }
func (t *Tag) SetGenre(genre string) { t.Set(types.FieldGenre, genre) }
func (t *Tag) RemoveGenre()          { t.Remove(types.FieldGenre) }

// Copyright accessors.
func (t *Tag) Copyright() (string, bool)     { return t.Get(types.FieldCopyright) }
func (t *Tag) SetCopyright(copyright string) { t.Set(types.FieldCopyright, copyright) }
func (t *Tag) RemoveCopyright()              { t.Remove(types.FieldCopyright) }

// Comment accessors.
func (t *Tag) Comment() (string, bool)   { return t.Get(types.FieldComment) }
func (t *Tag) SetComment(comment string) { t.Set(types.FieldComment, comment) }
func (t *Tag) RemoveComment()            { t.Remove(types.FieldComment) }

// AlbumTitle accessors.
func (t *Tag) AlbumTitle() (string, bool) { return t.Get(types.FieldAlbumTitle) }
func (t *Tag) SetAlbumTitle(title string) { t.Set(types.FieldAlbumTitle, title) }
func (t *Tag) RemoveAlbumTitle()          { t.Remove(types.FieldAlbumTitle) }

// AlbumArtist accessors, which behave like the Artist ones.
func (t *Tag) AlbumArtist() (string, bool)  { return t.Get(types.FieldAlbumArtist) }
func (t *Tag) AlbumArtists() []string       { return t.GetAll(types.FieldAlbumArtist) }
func (t *Tag) SetAlbumArtist(artist string) { t.Set(types.FieldAlbumArtist, artist) }
func (t *Tag) AddAlbumArtist(artist string) { t.Add(types.FieldAlbumArtist, artist) }
func (t *Tag) RemoveAlbumArtists()          { t.Remove(types.FieldAlbumArtist) }

// AlbumCover returns the front cover, if the format stores pictures.
func (t *Tag) AlbumCover() (types.Picture, bool) {
	if t.covers == nil {
		return types.Picture{}, false
	}
	return t.covers.Cover()
}

// SetAlbumCover replaces the front cover.
func (t *Tag) SetAlbumCover(p types.Picture) error {
	if t.covers == nil {
		return &types.UnsupportedValueError{
			Format: t.format,
			Field:  types.FieldAlbumCover,
			Reason: "format has no picture storage",
		}
	}
	return t.covers.SetCover(p)
}

// RemoveAlbumCover removes the front cover. Other pictures are kept.
func (t *Tag) RemoveAlbumCover() {
	if t.covers != nil {
		t.covers.RemoveCover()
	}
}

// Track accessors. Numbers are stored as decimal text; a negative value
// is ignored by the setters. In pair keys such as "5/12" each removal
// clears only its half.
func (t *Tag) TrackNumber() (int, bool) { return t.getInt(types.FieldTrackNumber) }
func (t *Tag) SetTrackNumber(n int)     { t.setInt(types.FieldTrackNumber, n) }
func (t *Tag) RemoveTrackNumber()       { t.Remove(types.FieldTrackNumber) }
func (t *Tag) TotalTracks() (int, bool) { return t.getInt(types.FieldTotalTracks) }
func (t *Tag) SetTotalTracks(n int)     { t.setInt(types.FieldTotalTracks, n) }
func (t *Tag) RemoveTotalTracks()       { t.Remove(types.FieldTotalTracks) }

// RemoveTrack removes track number and total tracks, including legacy keys.
func (t *Tag) RemoveTrack() { t.Purge(types.FieldTrackNumber, types.FieldTotalTracks) }

// Disc accessors, which behave like the track ones.
func (t *Tag) DiscNumber() (int, bool) { return t.getInt(types.FieldDiscNumber) }
func (t *Tag) SetDiscNumber(n int)     { t.setInt(types.FieldDiscNumber, n) }
func (t *Tag) RemoveDiscNumber()       { t.Remove(types.FieldDiscNumber) }
func (t *Tag) TotalDiscs() (int, bool) { return t.getInt(types.FieldTotalDiscs) }
func (t *Tag) SetTotalDiscs(n int)     { t.setInt(types.FieldTotalDiscs, n) }
func (t *Tag) RemoveTotalDiscs()       { t.Remove(types.FieldTotalDiscs) }

// RemoveDisc removes disc number and total discs, including legacy keys.
func (t *Tag) RemoveDisc() { t.Purge(types.FieldDiscNumber, types.FieldTotalDiscs) }

var _ types.Editor = (*Tag)(nil)
