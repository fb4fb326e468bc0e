// Package anytag reads and writes descriptive audio metadata through one
// normalized model.
//
// Title, artists, album, track and disc numbers and cover art are edited
// the same way whether the file stores them as RIFF INFO chunks, ID3v2
// frames, Vorbis comments or iTunes atoms.
//
// # Quick Start
//
// Reading and editing a tag:
//
//	file, err := anytag.Open("song.wav")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	title, _ := file.Title()
//	fmt.Println(title)
//
//	file.SetTrackNumber(5)
//	file.SetTotalTracks(12)
//	if err := file.Save(); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Formats
//
//   - WAV: RIFF LIST/INFO chunks, parsed and rewritten by an in-tree codec
//   - MP3: ID3v2.3 and ID3v2.4 tags
//   - FLAC: Vorbis comments and PICTURE blocks
//   - M4A/M4B: iTunes metadata atoms, rewritten through go-mp4tag
//   - Ogg Vorbis and Opus: comment headers and embedded pictures (read only)
//
// # Absent Values
//
// Every getter reports whether the value is present. A field the format
// cannot represent, such as album artist in RIFF INFO, always reads as
// absent and its setter does nothing. Numeric fields that hold text which
// is not a number also read as absent. Absence is never an error.
//
// Cover art is the exception: SetAlbumCover returns an
// UnsupportedValueError when the format cannot store the picture.
//
// # Converting Between Formats
//
// AnyTag is a format-independent snapshot of a tag:
//
//	snapshot := anytag.FromEditor(wavFile)
//	dst, _ := anytag.New(anytag.FormatMP3)
//	if err := snapshot.ApplyTo(dst); err != nil {
//		var uve *anytag.UnsupportedValueError
//		if !errors.As(err, &uve) {
//			return err
//		}
//	}
//	err := dst.WriteToPath("song.mp3")
//
// Transcribe does the same in one call.
//
// # Error Handling
//
// Fatal errors stop parsing: a malformed container is reported as
// MalformedContainerError, an unknown format as UnsupportedFormatError,
// and I/O errors are wrapped so errors.Is(err, fs.ErrNotExist) works.
// Recoverable problems are collected in File.Warnings:
//
//	for _, w := range file.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// # Concurrency
//
// A tag is not safe for concurrent use. Separate tags share no state, so
// OpenMany parses files in parallel.
package anytag
