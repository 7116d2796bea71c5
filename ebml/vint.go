// Package ebml implements the generic EBML (RFC 8794) primitives the
// Matroska schema is built on: VINT encoding, element headers, leaf value
// codecs, master-element framing (including CRC-32 validation and a
// resumable chunked reader), and skip/copy helpers for unknown elements.
package ebml

import (
	"math/bits"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// ElementID is an EBML element ID, including its class-width marker bit
// (e.g. 0x1A45DFA3, the 4-byte EBML header ID).
type ElementID uint32

// UnknownSize is the sentinel a master's data size takes when its size
// field read as all-ones (RFC 8794 §6.2's "unknown data size").
const UnknownSize uint64 = ^uint64(0)

func vintWidthFromLeadByte(b byte) (int, error) {
	lz := bits.LeadingZeros8(b)
	if lz >= 8 {
		return 0, bmlerr.New(bmlerr.MalformedWire, "VINT lead byte %#02x has no marker bit", b)
	}
	return lz + 1, nil
}

func requiredIDWidth(id uint64) int {
	w := bits.Len64(id)
	n := (w + 7) / 8
	if n == 0 {
		n = 1
	}
	return n
}

func requiredVIntWidth(v uint64) int {
	w := bits.Len64(v)
	n := (w + 6) / 7
	if n == 0 {
		n = 1
	}
	return n
}

// ReadElementID reads a raw EBML element ID (marker bit included in the
// returned value, matching §4.G's "read one VINT including its prefix").
func ReadElementID(r *bitio.BitReader) (ElementID, error) {
	leadBits, err := r.Peek(8)
	if err != nil {
		return 0, err
	}
	width, err := vintWidthFromLeadByte(byte(leadBits))
	if err != nil {
		return 0, err
	}
	raw, err := r.ReadBytes(sizes.ByteCount(width))
	if err != nil {
		return 0, err
	}
	return ElementID(raw), nil
}

// WriteElementID writes id as its canonical number of raw bytes, MSB
// first, with no additional marker manipulation (the ID's own bits already
// carry the marker).
func WriteElementID(w *bitio.BitWriter, id ElementID) error {
	width := requiredIDWidth(uint64(id))
	return w.WriteBytes(uint64(id), sizes.ByteCount(width))
}

// ReadVIntSize reads a generic size/length VINT, stripping the marker bit
// and reporting whether the payload is all-ones (the "unknown size"
// sentinel). width is the number of bytes consumed, needed by EBML-laced
// signed VINT decoding in the block package.
func ReadVIntSize(r *bitio.BitReader) (value uint64, width int, unknown bool, err error) {
	leadBits, err := r.Peek(8)
	if err != nil {
		return 0, 0, false, err
	}
	width, err = vintWidthFromLeadByte(byte(leadBits))
	if err != nil {
		return 0, 0, false, err
	}
	raw, err := r.ReadBytes(sizes.ByteCount(width))
	if err != nil {
		return 0, 0, false, err
	}
	payloadBits := sizes.BitCount(7 * width)
	mask := sizes.Mask(payloadBits)
	payload := raw & mask
	return payload, width, payload == mask, nil
}

// WriteVIntSize writes v as a size/length VINT. If v happens to collide
// with the all-ones "unknown size" sentinel at its natural width, the
// width is bumped by one byte with zero padding, per §4.G.
func WriteVIntSize(w *bitio.BitWriter, v uint64) error {
	width := requiredVIntWidth(v)
	if v == sizes.Mask(sizes.BitCount(7*width)) {
		width++
	}
	return writeVIntFixedWidth(w, v, width)
}

// WriteUnknownSizeVInt writes the canonical 8-byte all-ones unknown-size
// marker.
func WriteUnknownSizeVInt(w *bitio.BitWriter) error {
	const width = 8
	return writeVIntFixedWidth(w, sizes.Mask(sizes.BitCount(7*width)), width)
}

func writeVIntFixedWidth(w *bitio.BitWriter, payload uint64, width int) error {
	marker := uint64(1) << uint(7*width)
	total := marker | payload
	return w.WriteBytes(total, sizes.ByteCount(width))
}

// RequiredBytes implements §4.G's requiredBytes(u): the minimum number of
// bytes needed to hold an unsigned value, at least 1.
func RequiredBytes(v uint64) int {
	w := bits.Len64(v)
	n := (w + 7) / 8
	if n == 0 {
		n = 1
	}
	return n
}

// RequiredSignedBytes is RequiredBytes for a two's-complement signed value:
// for non-negative values it counts one extra bit so the sign bit stays
// clear (200 needs 2 bytes); for negative values it accounts for the
// leading one-bits run that two's-complement encoding implies.
func RequiredSignedBytes(v int64) int {
	if v >= 0 {
		return (bits.Len64(uint64(v)) + 1 + 7) / 8 // +1 for the sign bit
	}
	u := uint64(v)
	leadingOnes := bits.LeadingZeros64(^u)
	significantBits := 64 - leadingOnes + 1 // +1 to keep the sign bit
	n := (significantBits + 7) / 8
	if n == 0 {
		n = 1
	}
	return n
}
