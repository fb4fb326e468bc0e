// Package m4a reads and writes the iTunes metadata of M4A/M4B files.
// Atoms are parsed in-tree; writes go through go-mp4tag.
package m4a

import (
	"fmt"

	"github.com/simonhull/anytag/internal/binary"
	"github.com/simonhull/anytag/internal/types"
)

// Atom represents an MP4/M4A/M4B atom (box)
type Atom struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in file
	Extended bool   // Whether this uses 64-bit extended size
}

func (a *Atom) headerSize() int64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the atom's data (excluding header)
func (a *Atom) DataSize() int64 {
	return int64(a.Size) - a.headerSize()
}

// DataOffset returns the file offset where the atom's data starts
func (a *Atom) DataOffset() int64 {
	return a.Offset + a.headerSize()
}

// End returns the offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// readAtomHeader reads the atom header at offset. The atom must end at or
// before limit. A size of zero extends the atom to limit.
func readAtomHeader(sr *binary.SafeReader, offset, limit int64) (*Atom, error) {
	c := binary.NewCursor(sr, offset)
	size32, err := binary.Next[uint32](c, "atom size", binary.BigEndian)
	if err != nil {
		return nil, err
	}
	typ, err := c.FourCC("atom type")
	if err != nil {
		return nil, err
	}

	atom := &Atom{Type: string(typ[:]), Offset: offset}
	switch size32 {
	case 0:
		atom.Size = uint64(limit - offset)
	case 1:
		size64, err := binary.Next[uint64](c, "extended atom size", binary.BigEndian)
		if err != nil {
			return nil, err
		}
		atom.Size = size64
		atom.Extended = true
	default:
		atom.Size = uint64(size32)
	}

	if int64(atom.Size) < atom.headerSize() || atom.Size > uint64(limit-offset) {
		return nil, &types.MalformedContainerError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("atom %q has invalid size %d", atom.Type, atom.Size),
		}
	}
	return atom, nil
}

// findAtom returns the first atom of the given type between start and
// end. ok is false when there is none.
func findAtom(sr *binary.SafeReader, start, end int64, atomType string) (atom *Atom, ok bool, err error) {
	for offset := start; offset+8 <= end; offset = atom.End() {
		atom, err = readAtomHeader(sr, offset, end)
		if err != nil {
			return nil, false, err
		}
		if atom.Type == atomType {
			return atom, true, nil
		}
	}
	return nil, false, nil
}

// findPath descends through nested atoms. The children of meta follow
// its 4-byte version and flags.
func findPath(sr *binary.SafeReader, start, end int64, path ...string) (*Atom, bool, error) {
	var atom *Atom
	for _, typ := range path {
		found, ok, err := findAtom(sr, start, end, typ)
		if err != nil || !ok {
			return nil, false, err
		}
		atom = found
		start, end = atom.DataOffset(), atom.End()
		if typ == "meta" {
			start += 4
		}
	}
	return atom, atom != nil, nil
}
