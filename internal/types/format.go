package types

import (
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Format represents a detected audio container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatWAV represents RIFF/WAVE files tagged with an INFO list.
	FormatWAV
	// FormatMP3 represents MP3 files tagged with ID3v2.
	FormatMP3
	// FormatFLAC represents FLAC files tagged with Vorbis comments.
	FormatFLAC
	// FormatM4A represents M4A audio files.
	FormatM4A
	// FormatM4B represents M4B audiobook files.
	FormatM4B
	// FormatOgg represents Ogg Vorbis audio files.
	FormatOgg
	// FormatOpus represents Opus audio files.
	FormatOpus
	// FormatAIFF represents AIFF audio files.
	FormatAIFF
)

var formatNames = [...]string{
	FormatUnknown: "Unknown",
	FormatWAV:     "WAV",
	FormatMP3:     "MP3",
	FormatFLAC:    "FLAC",
	FormatM4A:     "M4A",
	FormatM4B:     "M4B",
	FormatOgg:     "Ogg Vorbis",
	FormatOpus:    "Opus",
	FormatAIFF:    "AIFF",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
	return formatNames[f]
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatWAV:
		return []string{".wav", ".wave"}
	case FormatMP3:
		return []string{".mp3"}
	case FormatFLAC:
		return []string{".flac"}
	case FormatM4A:
		return []string{".m4a", ".mp4", ".m4p"}
	case FormatM4B:
		return []string{".m4b"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatOpus:
		return []string{".opus"}
	case FormatAIFF:
		return []string{".aiff", ".aif"}
	default:
		return nil
	}
}

// FormatForPath guesses a format from a file extension. It is used when a
// tag is written to a path that does not exist yet.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return FormatUnknown
	}
	for f := FormatWAV; f <= FormatAIFF; f++ {
		if slices.Contains(f.Extensions(), ext) {
			return f
		}
	}
	return FormatUnknown
}

// sniffSize covers the largest signature DetectFormat inspects: an Ogg
// page header with a full segment table followed by the codec magic.
const sniffSize = 27 + 255 + 8

// DetectFormat determines the audio file format by examining magic bytes.
//
// Detection is based on file signatures at the beginning of the file and
// does not validate the entire file structure.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	head := make([]byte, min(size, sniffSize))
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, int64(len(head))), head); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}
	if f := detectMagic(head); f != FormatUnknown {
		return f, nil
	}
	return detectMP4(head, path)
}

func detectMagic(head []byte) Format {
	magic := string(head[:4])
	switch {
	case magic == "RIFF" && len(head) >= 12 && string(head[8:12]) == "WAVE":
		return FormatWAV
	case magic == "fLaC":
		return FormatFLAC
	case magic[:3] == "ID3":
		return FormatMP3
	case head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// MP3 frame sync catches files without an ID3 tag
		return FormatMP3
	case magic == "OggS":
		// 27-byte page header, segment table, then the codec magic
		if len(head) > 26 {
			packet := 27 + int(head[26])
			if len(head) >= packet+8 && string(head[packet:packet+8]) == "OpusHead" {
				return FormatOpus
			}
		}
		return FormatOgg
	case magic == "FORM" && len(head) >= 12:
		if form := string(head[8:12]); form == "AIFF" || form == "AIFC" {
			return FormatAIFF
		}
	}
	return FormatUnknown
}

// detectMP4 checks for an ftyp atom and classifies its major brand.
func detectMP4(head []byte, path string) (Format, error) {
	if len(head) < 8 || string(head[4:8]) != "ftyp" {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "unsupported file format"}
	}

	// size + type + brand + version
	if be32(head) < 16 || len(head) < 12 {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "ftyp atom too small"}
	}

	switch string(head[8:12]) {
	case "M4B ":
		return FormatM4B, nil
	case "M4A ", "mp42", "isom":
		return FormatM4A, nil
	}

	return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "unsupported file brand"}
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
