package m4a

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	audiobinary "github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

// createMockAtom creates a test atom with given type and data.
func createMockAtom(atomType string, data ...[]byte) []byte {
	payload := bytes.Join(data, nil)
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(atomType)
	buf.Write(payload)
	return buf.Bytes()
}

func reader(data []byte) *audiobinary.SafeReader {
	return audiobinary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.m4a")
}

func TestReadAtomHeader_Success(t *testing.T) {
	data := createMockAtom("moov", []byte{0x01, 0x02, 0x03, 0x04})

	atom, err := readAtomHeader(reader(data), 0, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atom.Size != 12 || atom.Type != "moov" || atom.Offset != 0 {
		t.Errorf("atom = %+v, want 12-byte moov at 0", atom)
	}
	if atom.DataSize() != 4 {
		t.Errorf("expected data size 4, got %d", atom.DataSize())
	}
	if atom.DataOffset() != 8 {
		t.Errorf("expected data offset 8, got %d", atom.DataOffset())
	}
}

func TestReadAtomHeader_Extended(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(1))
	buf.WriteString("mdat")
	binary.Write(buf, binary.BigEndian, uint64(24))
	buf.Write(make([]byte, 8))
	data := buf.Bytes()

	atom, err := readAtomHeader(reader(data), 0, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atom.Size != 24 || !atom.Extended {
		t.Errorf("atom = %+v, want extended 24-byte atom", atom)
	}
	if atom.DataOffset() != 16 {
		t.Errorf("expected data offset 16, got %d", atom.DataOffset())
	}
}

func TestReadAtomHeader_ZeroSizeExtendsToLimit(t *testing.T) {
	data := append([]byte{0, 0, 0, 0, 'm', 'd', 'a', 't'}, make([]byte, 12)...)

	atom, err := readAtomHeader(reader(data), 0, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atom.End() != int64(len(data)) {
		t.Errorf("End() = %d, want %d", atom.End(), len(data))
	}
}

func TestReadAtomHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"size below header", []byte{0, 0, 0, 4, 't', 'e', 's', 't'}},
		{"size past limit", []byte{0, 0, 0, 64, 'm', 'o', 'o', 'v'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAtomHeader(reader(tt.data), 0, int64(len(tt.data)))
			var mce *types.MalformedContainerError
			if !errors.As(err, &mce) {
				t.Errorf("expected MalformedContainerError, got %v", err)
			}
		})
	}
}

func TestReadAtomHeader_Truncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short size field", []byte{0x00, 0x00, 0x00}},
		{"missing type", []byte{0x00, 0x00, 0x00, 0x10, 'm', 'o'}},
		{"missing extended size", []byte{0x00, 0x00, 0x00, 0x01, 'm', 'o', 'o', 'v'}},
		{"short extended size", []byte{0x00, 0x00, 0x00, 0x01, 'm', 'o', 'o', 'v', 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAtomHeader(reader(tt.data), 0, int64(len(tt.data)))
			var mce *types.MalformedContainerError
			if !errors.As(err, &mce) {
				t.Fatalf("expected MalformedContainerError, got %T: %v", err, err)
			}
			if mce.Path != "test.m4a" {
				t.Errorf("Path = %q, want test.m4a", mce.Path)
			}
		})
	}
}

func TestRead_TruncatedExtendedSize(t *testing.T) {
	ftyp := createMockAtom("ftyp", []byte("M4A "), []byte{0, 0, 0, 0})
	file := append(ftyp, 0x00, 0x00, 0x00, 0x01, 'm', 'o', 'o', 'v')

	_, _, err := Read(bytes.NewReader(file), int64(len(file)), "cut.m4a", types.ParseOptions{})
	var mce *types.MalformedContainerError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MalformedContainerError, got %T: %v", err, err)
	}
	if mce.Offset != int64(len(ftyp))+8 {
		t.Errorf("Offset = %d, want %d", mce.Offset, len(ftyp)+8)
	}
}

func TestFindAtom(t *testing.T) {
	atom1 := createMockAtom("free", []byte{0x00, 0x00})
	atom2 := createMockAtom("moov", []byte{0x01, 0x02, 0x03})
	atom3 := createMockAtom("mdat", []byte{0x04, 0x05})
	data := bytes.Join([][]byte{atom1, atom2, atom3}, nil)

	atom, ok, err := findAtom(reader(data), 0, int64(len(data)), "moov")
	if err != nil || !ok {
		t.Fatalf("findAtom() = %v, %v", ok, err)
	}
	if atom.Offset != int64(len(atom1)) {
		t.Errorf("expected offset %d, got %d", len(atom1), atom.Offset)
	}

	if _, ok, err := findAtom(reader(data), 0, int64(len(data)), "udta"); ok || err != nil {
		t.Errorf("missing atom: ok=%v err=%v, want not found without error", ok, err)
	}
}

func TestFindPath_SkipsMetaHeader(t *testing.T) {
	ilst := createMockAtom("ilst")
	meta := createMockAtom("meta", []byte{0, 0, 0, 0}, createMockAtom("hdlr", make([]byte, 4)), ilst)
	data := createMockAtom("moov", createMockAtom("udta", meta))

	atom, ok, err := findPath(reader(data), 0, int64(len(data)), "moov", "udta", "meta", "ilst")
	if err != nil || !ok {
		t.Fatalf("findPath() = %v, %v", ok, err)
	}
	if atom.Type != "ilst" || atom.End() != int64(len(data)) {
		t.Errorf("atom = %+v, want ilst at the end of moov", atom)
	}
}
