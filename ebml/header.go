package ebml

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// Header is a parsed EBML element header: its ID and its declared data
// size (SizeUnknown when the size field was all-ones).
type Header struct {
	ID          ElementID
	Size        uint64
	SizeUnknown bool
}

// ReadHeader reads an element header and fails unless its ID matches
// expected.
func ReadHeader(r *bitio.BitReader, expected ElementID) (Header, error) {
	id, err := ReadElementID(r)
	if err != nil {
		return Header{}, err
	}
	if id != expected {
		return Header{}, bmlerr.New(bmlerr.MalformedWire, "element ID mismatch: got %#x, want %#x", uint32(id), uint32(expected))
	}
	size, _, unknown, err := ReadVIntSize(r)
	if err != nil {
		return Header{}, err
	}
	return Header{ID: id, Size: size, SizeUnknown: unknown}, nil
}

// PeekElementID peeks the next element's ID without consuming any bits.
// Used by master framing to decide dispatch before committing to a parse.
func PeekElementID(r *bitio.BitReader) (ElementID, error) {
	width, err := peekIDWidth(r)
	if err != nil {
		return 0, err
	}
	raw, err := peekBytes(r, width)
	if err != nil {
		return 0, err
	}
	return ElementID(raw), nil
}

func peekIDWidth(r *bitio.BitReader) (int, error) {
	leadBits, err := r.Peek(8)
	if err != nil {
		return 0, err
	}
	return vintWidthFromLeadByte(byte(leadBits))
}

func peekBytes(r *bitio.BitReader, numBytes int) (uint64, error) {
	return r.Peek(sizes.ByteCount(numBytes).Bits())
}

// WriteHeader writes an element header: id, then either the unknown-size
// marker or a size VINT for size.
func WriteHeader(w *bitio.BitWriter, id ElementID, size uint64, unknown bool) error {
	if err := WriteElementID(w, id); err != nil {
		return err
	}
	if unknown {
		return WriteUnknownSizeVInt(w)
	}
	return WriteVIntSize(w, size)
}
