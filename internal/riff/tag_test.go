package riff

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/simonhull/anytag/internal/types"
)

// wavWith builds a WAV file with a fmt chunk, an optional INFO list and a
// small data chunk.
func wavWith(t *testing.T, info ...Chunk) []byte {
	t.Helper()
	chunks := []Chunk{{ID: id("fmt "), Data: make([]byte, 16)}}
	if len(info) > 0 {
		chunks = append(chunks, NewList(IDInfo, info))
	}
	chunks = append(chunks, Chunk{ID: id("data"), Data: []byte{1, 2, 3, 4, 5}})
	data, err := (&Container{Form: IDWave, Chunks: chunks}).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func text(key, value string) Chunk {
	return Chunk{ID: id(key), Data: append([]byte(value), 0)}
}

func readTag(t *testing.T, data []byte) *Tag {
	t.Helper()
	tag, _, err := Read(bytes.NewReader(data), int64(len(data)), "test.wav", types.ParseOptions{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return tag
}

func infoIDs(t *testing.T, data []byte) []string {
	t.Helper()
	c, err := ParseBytes(data, "out.wav")
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	var ids []string
	for _, ch := range c.Chunks {
		if !ch.IsList(IDInfo) {
			continue
		}
		list, err := ParseList(ch)
		if err != nil {
			t.Fatal(err)
		}
		for _, sub := range list.Chunks {
			ids = append(ids, sub.ID.String())
		}
	}
	return ids
}

func serialize(t *testing.T, tag *Tag) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	return buf.Bytes()
}

func TestTag_ReadFields(t *testing.T) {
	tag := readTag(t, wavWith(t, text("INAM", "Song"), text("IART", "Band"), text("ITRK", "3")))

	if got, _ := tag.Title(); got != "Song" {
		t.Errorf("Title() = %q, want Song", got)
	}
	if got, _ := tag.Artist(); got != "Band" {
		t.Errorf("Artist() = %q, want Band", got)
	}
	if n, ok := tag.TrackNumber(); !ok || n != 3 {
		t.Errorf("TrackNumber() = %d, %v; want 3", n, ok)
	}

	tag.RemoveTitle()
	if _, ok := tag.Title(); ok {
		t.Error("Title() should be absent after RemoveTitle")
	}

	ids := infoIDs(t, serialize(t, tag))
	if slices.Contains(ids, "INAM") {
		t.Errorf("INAM still serialized: %v", ids)
	}
	if !slices.Equal(ids, []string{"IART", "ITRK"}) {
		t.Errorf("INFO ids = %v, want [IART ITRK]", ids)
	}
}

func TestTag_TrackAndTotal(t *testing.T) {
	tag := New()
	tag.SetTrackNumber(5)
	tag.SetTotalTracks(12)

	data := serialize(t, tag)
	ids := infoIDs(t, data)
	if !slices.Equal(ids, []string{"ITRK", "IFRM"}) {
		t.Errorf("INFO ids = %v, want exactly one ITRK and one IFRM", ids)
	}

	again := readTag(t, data)
	if n, _ := again.TrackNumber(); n != 5 {
		t.Errorf("TrackNumber() = %d, want 5", n)
	}
	if n, _ := again.TotalTracks(); n != 12 {
		t.Errorf("TotalTracks() = %d, want 12", n)
	}
}

func TestTag_LegacyKeys(t *testing.T) {
	tag := readTag(t, wavWith(t, text("ALBU", "Old Album"), text("TRAC", "7"), text("IPRT", "8")))

	if got, _ := tag.AlbumTitle(); got != "Old Album" {
		t.Errorf("AlbumTitle() = %q, want legacy ALBU value", got)
	}
	if n, _ := tag.TrackNumber(); n != 8 {
		t.Errorf("TrackNumber() = %d, want IPRT ahead of TRAC", n)
	}

	tag.SetAlbumTitle("New Album")
	ids := infoIDs(t, serialize(t, tag))
	if !slices.Contains(ids, "IPRD") || !slices.Contains(ids, "ALBU") {
		t.Errorf("set should add IPRD and leave ALBU, got %v", ids)
	}
	if got, _ := tag.AlbumTitle(); got != "New Album" {
		t.Errorf("AlbumTitle() = %q, want canonical IPRD", got)
	}

	tag.RemoveTrack()
	ids = infoIDs(t, serialize(t, tag))
	for _, legacy := range []string{"ITRK", "IPRT", "TRAC", "IFRM"} {
		if slices.Contains(ids, legacy) {
			t.Errorf("RemoveTrack left %s: %v", legacy, ids)
		}
	}
}

func TestTag_DuplicateLastWins(t *testing.T) {
	tag := readTag(t, wavWith(t, text("INAM", "First"), text("INAM", "Second")))
	if got, _ := tag.Title(); got != "Second" {
		t.Errorf("Title() = %q, want last duplicate", got)
	}
}

func TestTag_IdempotentNormalization(t *testing.T) {
	src := readTag(t, wavWith(t,
		text("INAM", "Song"),
		text("IART", "Band"),
		text("ICRD", "1999-12-31"),
		text("IGNR", "Rock"),
		text("ICOP", "(c) Label"),
		text("ICMT", "Live"),
		text("IPRD", "Album"),
		text("ITRK", "2"),
		text("IFRM", "10"),
		text("DISC", "1"),
	))

	first := types.FromEditor(src)
	dst := New()
	if err := first.ApplyTo(dst); err != nil {
		t.Fatalf("ApplyTo() error = %v", err)
	}
	second := types.FromEditor(dst)

	if !first.Equal(second) {
		t.Errorf("normalization not idempotent:\n%+v\n%+v", first, second)
	}
	if first.Year == nil || *first.Year != 1999 {
		t.Errorf("Year = %v, want 1999", first.Year)
	}
}

func TestTag_Unrepresentable(t *testing.T) {
	tag := New()

	tag.SetTotalDiscs(3)
	if _, ok := tag.TotalDiscs(); ok {
		t.Error("TotalDiscs() should be absent in INFO")
	}
	tag.AddAlbumArtist("Various")
	if got := tag.AlbumArtists(); got != nil {
		t.Errorf("AlbumArtists() = %v, want nil", got)
	}

	err := tag.SetAlbumCover(types.Picture{MimeType: types.MimeJpeg, Data: []byte{0xFF, 0xD8}})
	var uve *types.UnsupportedValueError
	if !errors.As(err, &uve) || uve.Format != types.FormatWAV {
		t.Errorf("SetAlbumCover() error = %v, want UnsupportedValueError for WAV", err)
	}
}

func TestTag_SingleArtist(t *testing.T) {
	tag := New()
	tag.AddArtist("A")
	tag.AddArtist("B")

	if got := tag.Artists(); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Artists() = %v, want first added only", got)
	}
	tag.RemoveArtist()
	if got := tag.Artists(); got != nil {
		t.Errorf("Artists() = %#v, want nil", got)
	}
}

func TestTag_PreservesOtherChunksAndOrder(t *testing.T) {
	data := wavWith(t, text("INAM", "Song"), text("ISFT", "Recorder 1.0"))
	tag := readTag(t, data)
	tag.SetGenre("Jazz")

	out := serialize(t, tag)
	c, err := ParseBytes(out, "out.wav")
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, ch := range c.Chunks {
		ids = append(ids, ch.ID.String())
	}
	if !slices.Equal(ids, []string{"fmt ", "LIST", "data"}) {
		t.Errorf("top-level chunks = %v, want INFO kept in place", ids)
	}
	if got := infoIDs(t, out); !slices.Equal(got, []string{"INAM", "ISFT", "IGNR"}) {
		t.Errorf("INFO ids = %v, want unknown ISFT preserved", got)
	}
	if !bytes.Equal(c.Chunks[2].Data, []byte{1, 2, 3, 4, 5}) {
		t.Error("audio data changed")
	}
}

func TestTag_MergesMultipleInfoLists(t *testing.T) {
	chunks := []Chunk{
		NewList(IDInfo, []Chunk{text("INAM", "Song")}),
		{ID: id("data"), Data: []byte{0, 0}},
		NewList(IDInfo, []Chunk{text("IART", "Band")}),
	}
	data, _ := (&Container{Form: IDWave, Chunks: chunks}).Bytes()

	tag := readTag(t, data)
	if got, _ := tag.Artist(); got != "Band" {
		t.Errorf("Artist() = %q, want value from second list", got)
	}

	c := tag.Container()
	if len(c.Chunks) != 2 || !c.Chunks[0].IsList(IDInfo) {
		t.Errorf("expected one merged INFO list in first position, got %d chunks", len(c.Chunks))
	}
}

func TestTag_EmptyDropsInfo(t *testing.T) {
	tag := readTag(t, wavWith(t, text("INAM", "Song")))
	tag.RemoveTitle()

	c := tag.Container()
	for _, ch := range c.Chunks {
		if ch.IsList(IDInfo) {
			t.Fatal("empty tag should not write an INFO list")
		}
	}
}

func TestTag_NewWritesBareContainer(t *testing.T) {
	tag := New()
	tag.SetTitle("Odd")

	data := serialize(t, tag)
	c, err := ParseBytes(data, "new.wav")
	if err != nil {
		t.Fatal(err)
	}
	if c.Form != IDWave || len(c.Chunks) != 1 {
		t.Fatalf("New() container = %q with %d chunks", c.Form, len(c.Chunks))
	}
	if !bytes.Equal(c.Chunks[0].Data, []byte("INFOINAM\x04\x00\x00\x00Odd\x00")) {
		t.Errorf("INFO payload = %q", c.Chunks[0].Data)
	}
}

func TestTag_Windows1252Fallback(t *testing.T) {
	data := wavWith(t, Chunk{ID: id("IART"), Data: []byte("Bj\xf6rk\x00")})
	tag, warnings, err := Read(bytes.NewReader(data), int64(len(data)), "legacy.wav", types.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := tag.Artist(); got != "Björk" {
		t.Errorf("Artist() = %q, want Björk", got)
	}
	if len(warnings) != 1 || warnings[0].Stage != "metadata" {
		t.Errorf("warnings = %v, want one metadata warning", warnings)
	}
}

func TestRead_RejectsOtherForms(t *testing.T) {
	data, _ := (&Container{Form: id("AVI ")}).Bytes()
	_, _, err := Read(bytes.NewReader(data), int64(len(data)), "movie.avi", types.ParseOptions{})

	var mce *types.MalformedContainerError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
}

func TestTag_WriteToPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.wav")
	if err := os.WriteFile(target, wavWith(t, text("INAM", "Old")), 0o644); err != nil {
		t.Fatal(err)
	}

	tag := New()
	tag.SetTitle("New")
	tag.SetArtist("Someone")
	if err := tag.WriteToPath(target); err != nil {
		t.Fatalf("WriteToPath() error = %v", err)
	}

	written, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	got := readTag(t, written)
	if title, _ := got.Title(); title != "New" {
		t.Errorf("Title() = %q, want New", title)
	}
	c, _ := ParseBytes(written, target)
	if i := c.Find(id("data")); i < 0 || !bytes.Equal(c.Chunks[i].Data, []byte{1, 2, 3, 4, 5}) {
		t.Error("target audio not preserved")
	}

	fresh := filepath.Join(dir, "fresh.wav")
	if err := tag.WriteToPath(fresh); err != nil {
		t.Fatalf("WriteToPath(new file) error = %v", err)
	}
	freshData, _ := os.ReadFile(fresh)
	if artist, _ := readTag(t, freshData).Artist(); artist != "Someone" {
		t.Errorf("new file Artist() = %q", artist)
	}
}

func TestTag_WriteToPathMalformedTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(target, []byte("not a riff file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New().WriteToPath(target)
	var mce *types.MalformedContainerError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "not a riff file at all" {
		t.Error("malformed target should be left untouched")
	}
}
