// Package riff reads and writes RIFF containers and the INFO list that
// carries WAV metadata.
package riff

// ID is a four-character chunk identifier.
type ID [4]byte

// Well-known identifiers.
var (
	IDRiff = ID{'R', 'I', 'F', 'F'}
	IDList = ID{'L', 'I', 'S', 'T'}
	IDInfo = ID{'I', 'N', 'F', 'O'}
	IDWave = ID{'W', 'A', 'V', 'E'}
)

// ParseID converts a four-byte string to an ID.
func ParseID(s string) (ID, bool) {
	var id ID
	if len(s) != len(id) {
		return id, false
	}
	copy(id[:], s)
	return id, true
}

func (id ID) String() string {
	return string(id[:])
}

// Chunk is one record of a RIFF container: an identifier and its payload.
// The pad byte that follows odd-length payloads on disk is not part of Data.
type Chunk struct {
	Data []byte
	ID   ID
}

// encodedSize is the number of bytes the chunk occupies when serialized,
// including its header and pad byte.
func (c Chunk) encodedSize() int64 {
	n := int64(8 + len(c.Data))
	if len(c.Data)%2 == 1 {
		n++
	}
	return n
}

// IsList reports whether c is a LIST chunk of the given list type.
func (c Chunk) IsList(typ ID) bool {
	return c.ID == IDList && len(c.Data) >= 4 && ID(c.Data[:4]) == typ
}
