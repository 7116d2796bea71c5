package block

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/ebml"
	"github.com/arvidsson/bml/sizes"
)

// LacingType is a Block's two-bit lacing field.
type LacingType int

const (
	LacingNone      LacingType = iota // 00
	LacingXiph                        // 01
	LacingFixedSize                   // 10
	LacingEBML                        // 11
)

// BlockHeader is a Block/SimpleBlock's fixed prefix: track number (VINT),
// a 16-bit signed timestamp offset relative to the cluster, and a packed
// flags byte.
type BlockHeader struct {
	TrackNumber     uint64
	TimestampOffset int16
	Keyframe        bool
	Invisible       bool
	Lacing          LacingType
	Discardable     bool
}

// ReadBlockHeader reads a BlockHeader from r, which must be positioned at
// the first byte of a Block/SimpleBlock's payload.
func ReadBlockHeader(r *bitio.BitReader) (BlockHeader, error) {
	trackNumber, _, _, err := ebml.ReadVIntSize(r)
	if err != nil {
		return BlockHeader{}, err
	}
	tsRaw, err := r.ReadBytes(2)
	if err != nil {
		return BlockHeader{}, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return BlockHeader{}, err
	}
	var lacing LacingType
	switch (flags >> 1) & 0x3 {
	case 0b00:
		lacing = LacingNone
	case 0b01:
		lacing = LacingXiph
	case 0b10:
		lacing = LacingFixedSize
	case 0b11:
		lacing = LacingEBML
	}
	return BlockHeader{
		TrackNumber:     trackNumber,
		TimestampOffset: int16(uint16(tsRaw)),
		Keyframe:        flags&0x80 != 0,
		Invisible:       flags&0x08 != 0,
		Lacing:          lacing,
		Discardable:     flags&0x01 != 0,
	}, nil
}

// WriteBlockHeader writes a BlockHeader.
func WriteBlockHeader(w *bitio.BitWriter, h BlockHeader) error {
	if err := ebml.WriteVIntSize(w, h.TrackNumber); err != nil {
		return err
	}
	if err := w.WriteBytes(uint64(uint16(h.TimestampOffset)), 2); err != nil {
		return err
	}
	var flags byte
	if h.Keyframe {
		flags |= 0x80
	}
	if h.Invisible {
		flags |= 0x08
	}
	flags |= byte(h.Lacing&0x3) << 1
	if h.Discardable {
		flags |= 0x01
	}
	return w.WriteBytes(uint64(flags), 1)
}

// DecodeLacing reads a block's lacing metadata (if any) from r — positioned
// immediately after the BlockHeader — and returns the absolute byte ranges
// of each frame within the block's enclosing byte source. payloadBase is
// r's current byte offset within that source; payloadSize is the number of
// payload bytes remaining (the block's declared size minus the header's).
func DecodeLacing(r *bitio.BitReader, lacing LacingType, payloadBase, payloadSize uint64) ([]ByteRange, error) {
	switch lacing {
	case LacingNone:
		return []ByteRange{{Offset: payloadBase, Size: payloadSize}}, nil
	case LacingFixedSize:
		return decodeFixedSizeLacing(r, payloadBase, payloadSize)
	case LacingXiph:
		return decodeXiphLacing(r, payloadBase, payloadSize)
	case LacingEBML:
		return decodeEBMLLacing(r, payloadBase, payloadSize)
	default:
		return nil, bmlerr.New(bmlerr.LogicError, "unknown lacing type %d", lacing)
	}
}

func decodeFixedSizeLacing(r *bitio.BitReader, payloadBase, payloadSize uint64) ([]ByteRange, error) {
	nMinus1, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	numFrames := int(nMinus1) + 1
	consumed := uint64(1)
	remaining := payloadSize - consumed
	frameSize := remaining / uint64(numFrames)

	ranges := make([]ByteRange, numFrames)
	offset := payloadBase + consumed
	for i := 0; i < numFrames; i++ {
		ranges[i] = ByteRange{Offset: offset, Size: frameSize}
		offset += frameSize
	}
	return ranges, nil
}

func decodeXiphLacing(r *bitio.BitReader, payloadBase, payloadSize uint64) ([]ByteRange, error) {
	nMinus1, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	numFrames := int(nMinus1) + 1
	consumed := uint64(1)

	frameSizes := make([]uint64, numFrames-1)
	for i := 0; i < numFrames-1; i++ {
		var size uint64
		for {
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			consumed++
			size += uint64(b)
			if b != 0xFF {
				break
			}
		}
		frameSizes[i] = size
	}

	ranges := make([]ByteRange, numFrames)
	offset := payloadBase + consumed
	var sum uint64
	for i, sz := range frameSizes {
		ranges[i] = ByteRange{Offset: offset, Size: sz}
		offset += sz
		sum += sz
	}
	ranges[numFrames-1] = ByteRange{Offset: offset, Size: payloadSize - consumed - sum}
	return ranges, nil
}

func decodeEBMLLacing(r *bitio.BitReader, payloadBase, payloadSize uint64) ([]ByteRange, error) {
	nMinus1, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	numFrames := int(nMinus1) + 1
	consumed := uint64(1)

	firstSize, width, _, err := ebml.ReadVIntSize(r)
	if err != nil {
		return nil, err
	}
	consumed += uint64(width)

	frameSizes := make([]uint64, 0, numFrames-1)
	frameSizes = append(frameSizes, firstSize)

	prev := int64(firstSize)
	for i := 0; i < numFrames-2; i++ {
		raw, w, _, err := ebml.ReadVIntSize(r)
		if err != nil {
			return nil, err
		}
		consumed += uint64(w)
		bias := int64(sizes.Mask(sizes.BitCount(7*w - 1)))
		prev += int64(raw) - bias
		frameSizes = append(frameSizes, uint64(prev))
	}

	ranges := make([]ByteRange, numFrames)
	offset := payloadBase + consumed
	var sum uint64
	for i, sz := range frameSizes {
		ranges[i] = ByteRange{Offset: offset, Size: sz}
		offset += sz
		sum += sz
	}
	ranges[numFrames-1] = ByteRange{Offset: offset, Size: payloadSize - consumed - sum}
	return ranges, nil
}
