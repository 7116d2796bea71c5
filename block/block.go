package block

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// Block is a parsed SimpleBlock or BlockGroup.Block payload: the fixed
// header, plus the laced frames it contains. For a Block from ParseBlock,
// FrameRanges are offsets relative to the block's own payload (0 is the
// first byte after the header), not to any whole-file position, since raw
// already holds the whole block's bytes in memory. A Block from
// ParseBlockStreaming instead carries absolute offsets into the reader's
// source (see there).
type Block struct {
	Header      BlockHeader
	PayloadSize uint64
	FrameRanges []ByteRange
	FrameData   []byte // nil unless keepData was requested
}

// ParseBlock decodes a SimpleBlock/Block payload (raw, the full bytes of
// that element's content) into a Block. When keepData is true, the frame
// bytes are retained in FrameData so Frame.Data can slice them directly;
// otherwise FrameRanges still describes the frame layout but Frame.Data
// returns nil until filled from elsewhere (see FillFrameData).
func ParseBlock(raw []byte, keepData bool) (Block, error) {
	r := bitio.NewBitReader(bitio.NewSliceSource(raw))

	header, err := ReadBlockHeader(r)
	if err != nil {
		return Block{}, err
	}

	headerBytes, ok := r.Position().Bytes()
	if !ok {
		return Block{}, bmlerr.New(bmlerr.LogicError, "block header did not end on a byte boundary")
	}
	payloadSize := uint64(len(raw)) - uint64(headerBytes)

	ranges, err := DecodeLacing(r, header.Lacing, uint64(headerBytes), payloadSize)
	if err != nil {
		return Block{}, err
	}

	// DecodeLacing's ranges are relative to the whole raw buffer (payloadBase
	// was headerBytes); re-base them to be relative to the payload itself so
	// a Block never needs to know its own header length again.
	rebased := make([]ByteRange, len(ranges))
	for i, rg := range ranges {
		rebased[i] = ByteRange{Offset: rg.Offset - uint64(headerBytes), Size: rg.Size}
	}

	out := Block{
		Header:      header,
		PayloadSize: payloadSize,
		FrameRanges: rebased,
	}
	if keepData {
		out.FrameData = raw[headerBytes:]
	}
	return out, nil
}

// Frame returns a read-only view of the data range for the i'th laced
// frame, or nil if the Block was parsed without keepData.
func (b Block) Frame(i int) []byte {
	if b.FrameData == nil {
		return nil
	}
	rg := b.FrameRanges[i]
	return b.FrameData[rg.Offset : rg.Offset+rg.Size]
}

// FillFrameData materialises the i'th frame's bytes from source, which must
// address the same byte space as FrameRanges (typically the block's own raw
// payload wrapped in a MemorySource, when the Block was parsed with
// keepData=false).
func FillFrameData(b Block, i int, source Source, targetMode string) (DataRange, error) {
	known := KnownRange(b.FrameRanges[i])
	return FillDataRange(known, source, targetMode)
}

// ParseBlockStreaming decodes a SimpleBlock/Block element's header and
// lacing table directly off r — which must be positioned at the first byte
// of the element's payload, with elementSize the element's declared data
// size — without copying the frame bytes themselves into memory. r is left
// positioned immediately after the element once this returns.
//
// Unlike ParseBlock, the returned Block's FrameRanges are absolute byte
// offsets into r's own underlying source (typically the whole file), not
// relative to the block's payload, since no local copy of that payload
// exists to index into. FrameData is always nil; callers recover frame
// bytes later via FillFrameData against a Source over that same file.
func ParseBlockStreaming(r *bitio.BitReader, elementSize uint64) (Block, error) {
	startBytes, ok := r.Position().Bytes()
	if !ok {
		return Block{}, bmlerr.New(bmlerr.LogicError, "block element did not start on a byte boundary")
	}

	header, err := ReadBlockHeader(r)
	if err != nil {
		return Block{}, err
	}

	headerBytes, ok := r.Position().Bytes()
	if !ok {
		return Block{}, bmlerr.New(bmlerr.LogicError, "block header did not end on a byte boundary")
	}
	headerSize := uint64(headerBytes) - uint64(startBytes)
	if headerSize > elementSize {
		return Block{}, bmlerr.New(bmlerr.MalformedWire, "block header (%d bytes) exceeds element size %d", headerSize, elementSize)
	}
	payloadSize := elementSize - headerSize

	ranges, err := DecodeLacing(r, header.Lacing, uint64(headerBytes), payloadSize)
	if err != nil {
		return Block{}, err
	}

	var framesConsumed uint64
	for _, rg := range ranges {
		framesConsumed += rg.Size
	}
	laceTableBytes, ok := r.Position().Bytes()
	if !ok {
		return Block{}, bmlerr.New(bmlerr.LogicError, "block lacing table did not end on a byte boundary")
	}
	if uint64(laceTableBytes)-uint64(headerBytes)+framesConsumed != payloadSize {
		return Block{}, bmlerr.New(bmlerr.MalformedWire, "lacing table accounts for %d bytes, want %d", uint64(laceTableBytes)-uint64(headerBytes)+framesConsumed, payloadSize)
	}

	if err := r.Skip(sizes.ByteCount(framesConsumed).Bits()); err != nil {
		return Block{}, err
	}

	return Block{
		Header:      header,
		PayloadSize: payloadSize,
		FrameRanges: ranges,
	}, nil
}

