package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/simonhull/anytag/internal/types"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.wav")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 0, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected [0x01, 0x02], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.wav")

	tests := []struct {
		name   string
		offset int64
		length int
	}{
		{"offset past end", 10, 2},
		{"read overruns end", 3, 2},
		{"negative offset", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.length), tt.offset, "chunk header")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("error should wrap ErrOutOfBounds: %v", err)
			}
			var mce *types.MalformedContainerError
			if !errors.As(err, &mce) {
				t.Fatalf("expected *MalformedContainerError, got %T", err)
			}
			if mce.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", mce.Offset, tt.offset)
			}
			msg := err.Error()
			if !strings.Contains(msg, "test.wav") || !strings.Contains(msg, "chunk header") {
				t.Errorf("error should name file and context: %v", msg)
			}
		})
	}
}

func TestSafeReader_ReadAt_ShortRead(t *testing.T) {
	// declared size is larger than what the reader holds
	sr := NewSafeReader(&mockReader{data: []byte{0x01, 0x02}}, 8, "cut.wav")

	err := sr.ReadAt(make([]byte, 4), 0, "chunk header")
	var mce *types.MalformedContainerError
	if !errors.As(err, &mce) {
		t.Fatalf("expected *MalformedContainerError, got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error should wrap io.ErrUnexpectedEOF: %v", err)
	}
}

func TestSafeReader_ReadAt_IOErrorNotMalformed(t *testing.T) {
	boom := errors.New("disk gone")
	sr := NewSafeReader(failingReader{boom}, 8, "bad.wav")

	err := sr.ReadAt(make([]byte, 4), 0, "chunk header")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped I/O error, got %v", err)
	}
	var mce *types.MalformedContainerError
	if errors.As(err, &mce) {
		t.Error("I/O failure should not be reported as malformed")
	}
}

func TestSafeReader_ReadAt_UnexpectedEOF(t *testing.T) {
	sr := NewSafeReader(failingReader{io.ErrUnexpectedEOF}, 8, "cut.m4a")

	err := sr.ReadAt(make([]byte, 4), 0, "atom header")
	var mce *types.MalformedContainerError
	if !errors.As(err, &mce) {
		t.Fatalf("expected *MalformedContainerError, got %v", err)
	}
	if mce.Path != "cut.m4a" || mce.Offset != 0 {
		t.Errorf("error = %+v, want path cut.m4a at offset 0", mce)
	}
}

type failingReader struct{ err error }

func (f failingReader) ReadAt([]byte, int64) (int, error) { return 0, f.err }

func TestSafeReader_ReadAt_EmptyAtEnd(t *testing.T) {
	data := []byte{0x01}
	sr := NewSafeReader(&mockReader{data: data}, 1, "test.wav")

	if err := sr.ReadAt(nil, 1, "empty payload"); err != nil {
		t.Errorf("zero-length read at end should succeed: %v", err)
	}
}

func TestReadEndian(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint16(513))
	binary.Write(buf, binary.LittleEndian, uint32(67305985))
	binary.Write(buf, binary.BigEndian, uint32(1000))
	binary.Write(buf, binary.BigEndian, uint64(72623859790382856))

	data := buf.Bytes()
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test")

	tests := []struct {
		readFunc func() (uint64, error)
		name     string
		want     uint64
	}{
		{
			name: "uint16 little-endian",
			want: 513,
			readFunc: func() (uint64, error) {
				v, err := ReadLE[uint16](sr, 0, "uint16")
				return uint64(v), err
			},
		},
		{
			name: "uint32 little-endian",
			want: 67305985,
			readFunc: func() (uint64, error) {
				v, err := ReadLE[uint32](sr, 2, "uint32")
				return uint64(v), err
			},
		},
		{
			name: "uint32 big-endian",
			want: 1000,
			readFunc: func() (uint64, error) {
				v, err := Read[uint32](sr, 6, "uint32")
				return uint64(v), err
			},
		},
		{
			name: "uint64 big-endian",
			want: 72623859790382856,
			readFunc: func() (uint64, error) {
				return ReadEndian[uint64](sr, 10, "uint64", BigEndian)
			},
		},
		{
			name: "uint8 ignores byte order",
			want: 0x01,
			readFunc: func() (uint64, error) {
				v, err := ReadLE[uint8](sr, 0, "uint8")
				return uint64(v), err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.readFunc()
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCursor_Sequential(t *testing.T) {
	data := []byte{'L', 'I', 'S', 'T', 0x04, 0x00, 0x00, 0x00, 'I', 'N', 'F', 'O'}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.wav")
	c := NewCursor(sr, 0)

	id, err := c.FourCC("chunk id")
	if err != nil {
		t.Fatalf("FourCC failed: %v", err)
	}
	if string(id[:]) != "LIST" {
		t.Errorf("id = %q, want LIST", id)
	}

	size, err := Next[uint32](c, "chunk size", LittleEndian)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if size != 4 {
		t.Errorf("size = %d, want 4", size)
	}

	payload, err := c.Bytes(int64(size), "payload")
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if string(payload) != "INFO" {
		t.Errorf("payload = %q, want INFO", payload)
	}

	if c.Offset() != 12 {
		t.Errorf("offset = %d, want 12", c.Offset())
	}

	if _, err := c.Bytes(1, "past end"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestCursor_Skip(t *testing.T) {
	data := make([]byte, 100)
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.wav")
	c := NewCursor(sr, 10)

	c.Skip(20)
	if c.Offset() != 30 {
		t.Errorf("expected offset 30 after skip, got %d", c.Offset())
	}
}

func BenchmarkReadLE_Uint32(b *testing.B) {
	data := make([]byte, 1024*1024)
	for i := 0; i < len(data); i += 4 {
		binary.LittleEndian.PutUint32(data[i:], uint32(i))
	}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "bench.wav")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		offset := int64((i % (len(data) / 4)) * 4)
		_, _ = ReadLE[uint32](sr, offset, "benchmark")
	}
}
