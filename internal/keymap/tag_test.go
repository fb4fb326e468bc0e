package keymap

import (
	"errors"
	"slices"
	"testing"

	"github.com/simonhull/anytag/internal/types"
)

var testKeys = Map{
	types.FieldTitle:       {Canonical: "TITLE"},
	types.FieldArtist:      {Canonical: "ARTIST"},
	types.FieldYear:        {Canonical: "DATE", Aliases: []string{"YEAR"}},
	types.FieldDate:        {Canonical: "DATE"},
	types.FieldAlbumTitle:  {Canonical: "ALBUM", Aliases: []string{"PRODUCT"}},
	types.FieldAlbumArtist: {Canonical: "ALBUMARTIST"},
	types.FieldTrackNumber: {Canonical: "TRACK", Aliases: []string{"TRK", "TRAC"}, Slot: Number},
	types.FieldTotalTracks: {Canonical: "TRACK", Slot: Total},
	types.FieldDiscNumber:  {Canonical: "DISC"},
}

func newTestTag() (*Tag, *Ordered) {
	store := NewOrdered()
	return New(types.FormatFLAC, testKeys, store, nil), store
}

func TestTag_Precedence(t *testing.T) {
	tag, store := newTestTag()
	store.Set("PRODUCT", "Legacy")
	store.Set("ALBUM", "Canonical")

	if got, _ := tag.AlbumTitle(); got != "Canonical" {
		t.Errorf("AlbumTitle() = %q, want canonical value", got)
	}

	store.Delete("ALBUM")
	if got, _ := tag.AlbumTitle(); got != "Legacy" {
		t.Errorf("AlbumTitle() = %q, want alias fallback", got)
	}
}

func TestTag_AliasOrder(t *testing.T) {
	tag, store := newTestTag()
	store.Set("TRAC", "9")
	store.Set("TRK", "4")

	if n, ok := tag.TrackNumber(); !ok || n != 4 {
		t.Errorf("TrackNumber() = %d, %v; want first alias in declared order", n, ok)
	}
}

func TestTag_SetWritesCanonicalOnly(t *testing.T) {
	tag, store := newTestTag()
	store.Set("PRODUCT", "Legacy")

	tag.SetAlbumTitle("New")

	if got := store.Values("ALBUM"); !slices.Equal(got, []string{"New"}) {
		t.Errorf("ALBUM = %v, want [New]", got)
	}
	if got := store.Values("PRODUCT"); !slices.Equal(got, []string{"Legacy"}) {
		t.Errorf("PRODUCT = %v, alias should be untouched", got)
	}

	tag.RemoveAlbumTitle()
	if got, _ := tag.AlbumTitle(); got != "Legacy" {
		t.Errorf("after remove, AlbumTitle() = %q; alias should remain readable", got)
	}
}

func TestTag_NumericSoftFail(t *testing.T) {
	tag, store := newTestTag()
	store.Set("DISC", "one")

	if n, ok := tag.DiscNumber(); ok {
		t.Errorf("DiscNumber() = %d, true; want absent for unparseable text", n)
	}

	store.Set("DISC", " 2 ")
	if n, ok := tag.DiscNumber(); !ok || n != 2 {
		t.Errorf("DiscNumber() = %d, %v; want 2", n, ok)
	}

	store.Set("DISC", "2/3")
	if n, ok := tag.DiscNumber(); !ok || n != 2 {
		t.Errorf("DiscNumber() = %d, %v; want 2 from pair text", n, ok)
	}

	tag.SetDiscNumber(-1)
	if n, _ := tag.DiscNumber(); n != 2 {
		t.Errorf("negative set should be ignored, got %d", n)
	}
}

func TestTag_Year(t *testing.T) {
	tests := []struct {
		stored string
		want   int
		ok     bool
	}{
		{"2019", 2019, true},
		{"2019-04-12", 2019, true},
		{" 1987 ", 1987, true},
		{"circa 1990", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			tag, store := newTestTag()
			store.Set("DATE", tt.stored)
			got, ok := tag.Year()
			if ok != tt.ok || got != tt.want {
				t.Errorf("Year() = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTag_PairSlots(t *testing.T) {
	tag, store := newTestTag()

	tag.SetTrackNumber(5)
	tag.SetTotalTracks(12)
	if got := store.Values("TRACK"); !slices.Equal(got, []string{"5/12"}) {
		t.Fatalf("TRACK = %v, want [5/12]", got)
	}

	tag.SetTrackNumber(6)
	if got := store.Values("TRACK"); !slices.Equal(got, []string{"6/12"}) {
		t.Errorf("TRACK = %v, want [6/12]", got)
	}

	tag.RemoveTotalTracks()
	if got := store.Values("TRACK"); !slices.Equal(got, []string{"6"}) {
		t.Errorf("TRACK = %v, want [6]", got)
	}
	if _, ok := tag.TotalTracks(); ok {
		t.Error("TotalTracks() should be absent")
	}

	tag.RemoveTrackNumber()
	if store.Values("TRACK") != nil {
		t.Errorf("TRACK should be deleted once both halves are gone")
	}
}

func TestTag_RemoveTrackPurgesAliases(t *testing.T) {
	tag, store := newTestTag()
	store.Set("TRACK", "1/10")
	store.Set("TRK", "1")
	store.Set("TRAC", "1")

	tag.RemoveTrack()

	if _, ok := tag.TrackNumber(); ok {
		t.Error("TrackNumber() should be absent after RemoveTrack")
	}
	if _, ok := tag.TotalTracks(); ok {
		t.Error("TotalTracks() should be absent after RemoveTrack")
	}
	if store.Len() != 0 {
		t.Errorf("store has %d keys, want 0", store.Len())
	}
}

func TestTag_Artists(t *testing.T) {
	tag, _ := newTestTag()

	if got := tag.Artists(); got != nil {
		t.Errorf("Artists() = %#v, want nil", got)
	}
	if _, ok := tag.Artist(); ok {
		t.Error("Artist() should be absent")
	}

	tag.AddArtist("A")
	tag.AddArtist("B")
	if got := tag.Artists(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Artists() = %v, want [A B]", got)
	}
	if got, _ := tag.Artist(); got != "A" {
		t.Errorf("Artist() = %q, want first artist", got)
	}

	tag.SetArtist("C")
	if got := tag.Artists(); !slices.Equal(got, []string{"C"}) {
		t.Errorf("SetArtist should replace, got %v", got)
	}

	tag.RemoveArtist()
	if got := tag.Artists(); got != nil {
		t.Errorf("Artists() after remove = %#v, want nil", got)
	}
}

func TestTag_UnmappedField(t *testing.T) {
	tag, store := newTestTag()

	tag.SetTotalDiscs(3)
	tag.SetGenre("Jazz")
	if store.Len() != 0 {
		t.Errorf("setting unmapped fields wrote %d keys", store.Len())
	}
	if _, ok := tag.TotalDiscs(); ok {
		t.Error("TotalDiscs() should be absent for an unmapped field")
	}
	tag.RemoveTotalDiscs()
	tag.RemoveDisc()
}

func TestTag_NoCovers(t *testing.T) {
	tag, _ := newTestTag()

	if _, ok := tag.AlbumCover(); ok {
		t.Error("AlbumCover() should be absent")
	}

	err := tag.SetAlbumCover(types.Picture{MimeType: types.MimePng, Data: []byte{1}})
	var uve *types.UnsupportedValueError
	if !errors.As(err, &uve) {
		t.Fatalf("expected UnsupportedValueError, got %v", err)
	}
	if uve.Field != types.FieldAlbumCover || uve.Format != types.FormatFLAC {
		t.Errorf("unexpected error fields: %+v", uve)
	}
	tag.RemoveAlbumCover()
}

type memCovers struct {
	pic *types.Picture
}

func (m *memCovers) Cover() (types.Picture, bool) {
	if m.pic == nil {
		return types.Picture{}, false
	}
	return *m.pic, true
}

func (m *memCovers) SetCover(p types.Picture) error {
	if p.MimeType == types.MimeTiff {
		return &types.UnsupportedValueError{Field: types.FieldAlbumCover}
	}
	m.pic = &p
	return nil
}

func (m *memCovers) RemoveCover() { m.pic = nil }

func TestAnyTag_RoundTrip(t *testing.T) {
	src := New(types.FormatFLAC, testKeys, NewOrdered(), &memCovers{})
	src.SetTitle("Song")
	src.AddArtist("A")
	src.AddArtist("B")
	src.SetDate("2001-02-03")
	src.SetAlbumTitle("Record")
	src.AddAlbumArtist("Various")
	src.SetTrackNumber(5)
	src.SetTotalTracks(12)
	src.SetDiscNumber(1)
	if err := src.SetAlbumCover(types.Picture{MimeType: types.MimePng, Data: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("SetAlbumCover() error = %v", err)
	}

	first := types.FromEditor(src)
	if first.Year == nil || *first.Year != 2001 {
		t.Errorf("Year = %v, want 2001 derived from date", first.Year)
	}
	if first.TotalDiscs != nil {
		t.Errorf("TotalDiscs = %v, want nil for an unmapped field", *first.TotalDiscs)
	}

	dst := New(types.FormatFLAC, testKeys, NewOrdered(), &memCovers{})
	if err := first.ApplyTo(dst); err != nil {
		t.Fatalf("ApplyTo() error = %v", err)
	}

	second := types.FromEditor(dst)
	if !first.Equal(second) {
		t.Errorf("round trip changed tag:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAnyTag_ApplyToReportsCoverError(t *testing.T) {
	cover := types.Picture{MimeType: types.MimeTiff, Data: []byte{1}}
	title := "Song"
	src := types.AnyTag{Title: &title, Album: types.Album{Cover: &cover}}

	dst := New(types.FormatFLAC, testKeys, NewOrdered(), &memCovers{})
	err := src.ApplyTo(dst)

	var uve *types.UnsupportedValueError
	if !errors.As(err, &uve) {
		t.Fatalf("expected UnsupportedValueError, got %v", err)
	}
	if got, _ := dst.Title(); got != "Song" {
		t.Errorf("fields before the cover should still be applied, Title() = %q", got)
	}
}
