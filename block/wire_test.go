package block

import (
	"testing"

	"github.com/arvidsson/bml/bitio"
	"github.com/stretchr/testify/require"
)

func encodeBlockHeader(trackNumber uint64, tsOffset int16, flags byte) ([]byte, error) {
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	h := BlockHeader{
		TrackNumber:     trackNumber,
		TimestampOffset: tsOffset,
		Keyframe:        flags&0x80 != 0,
		Invisible:       flags&0x08 != 0,
		Discardable:     flags&0x01 != 0,
	}
	switch (flags >> 1) & 0x3 {
	case 0b00:
		h.Lacing = LacingNone
	case 0b01:
		h.Lacing = LacingXiph
	case 0b10:
		h.Lacing = LacingFixedSize
	case 0b11:
		h.Lacing = LacingEBML
	}
	if err := WriteBlockHeader(w, h); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

func blockHeaderBytes(t *testing.T, trackNumber uint64, tsOffset int16, flags byte) []byte {
	t.Helper()
	raw, err := encodeBlockHeader(trackNumber, tsOffset, flags)
	require.NoError(t, err)
	return raw
}

func TestBlockHeaderRoundTrip(t *testing.T) {
	raw := blockHeaderBytes(t, 3, -7, 0x80|0x08|0x01)
	r := bitio.NewBitReader(bitio.NewSliceSource(raw))
	h, err := ReadBlockHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint64(3), h.TrackNumber)
	require.Equal(t, int16(-7), h.TimestampOffset)
	require.True(t, h.Keyframe)
	require.True(t, h.Invisible)
	require.True(t, h.Discardable)
	require.Equal(t, LacingNone, h.Lacing)
}

func TestDecodeLacingNone(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	r := bitio.NewBitReader(bitio.NewSliceSource(payload))
	ranges, err := DecodeLacing(r, LacingNone, 0, uint64(len(payload)))
	require.NoError(t, err)
	require.Equal(t, []ByteRange{{Offset: 0, Size: 4}}, ranges)
}

func TestDecodeLacingFixedSize(t *testing.T) {
	// 2 frames (nMinus1=1), 8 bytes of frame data -> 4 each.
	payload := append([]byte{0x01}, make([]byte, 8)...)
	r := bitio.NewBitReader(bitio.NewSliceSource(payload))
	ranges, err := DecodeLacing(r, LacingFixedSize, 0, uint64(len(payload)))
	require.NoError(t, err)
	require.Equal(t, []ByteRange{{Offset: 1, Size: 4}, {Offset: 5, Size: 4}}, ranges)
}

func TestDecodeLacingXiph(t *testing.T) {
	// From the spec's worked example: 3 frames, sizes 4, 2, 6.
	payload := []byte{
		0x02,                   // nMinus1 -> 3 frames
		0x04,                   // size of frame 0: 4
		0x02,                   // size of frame 1: 2
		0xDE, 0xAD, 0xBE, 0xEF, // frame 0
		0xB0, 0x0B, // frame 1
		0xDE, 0xAD, 0xBE, 0xEF, 0xF0, 0x0B, // frame 2 (remainder, 6 bytes)
	}
	r := bitio.NewBitReader(bitio.NewSliceSource(payload))
	ranges, err := DecodeLacing(r, LacingXiph, 0, uint64(len(payload)))
	require.NoError(t, err)
	require.Len(t, ranges, 3)
	require.Equal(t, uint64(4), ranges[0].Size)
	require.Equal(t, uint64(2), ranges[1].Size)
	require.Equal(t, uint64(6), ranges[2].Size)
	require.Equal(t, uint64(3), ranges[0].Offset)
	require.Equal(t, uint64(7), ranges[1].Offset)
	require.Equal(t, uint64(9), ranges[2].Offset)
}

func TestDecodeLacingXiphWithContinuation(t *testing.T) {
	// A frame size of 256, coded as 0xFF 0x01 (255 + 1), then a second
	// (remainder) frame.
	payload := append([]byte{0x01, 0xFF, 0x01}, make([]byte, 256+3)...)
	r := bitio.NewBitReader(bitio.NewSliceSource(payload))
	ranges, err := DecodeLacing(r, LacingXiph, 0, uint64(len(payload)))
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	require.Equal(t, uint64(256), ranges[0].Size)
	require.Equal(t, uint64(3), ranges[1].Size)
}

func TestDecodeLacingEBML(t *testing.T) {
	// 3 frames; first frame size VINT-encoded as 4 (1-byte VINT: 0x84);
	// one signed delta of 0 (1-byte VINT 0xBF, bias 2^6-1=63, so raw 63
	// decodes to delta 0) giving frame 1 size 4 too; remainder is frame 2.
	payload := []byte{
		0x02,       // nMinus1 -> 3 frames
		0x84,       // first frame size VINT: 4
		0x80 | 63,  // signed delta VINT, 1-byte width, value 63 -> delta 0
		0, 0, 0, 0, // frame 0 (4 bytes)
		0, 0, 0, 0, // frame 1 (4 bytes)
		0, 0, // frame 2, remainder (2 bytes)
	}
	r := bitio.NewBitReader(bitio.NewSliceSource(payload))
	ranges, err := DecodeLacing(r, LacingEBML, 0, uint64(len(payload)))
	require.NoError(t, err)
	require.Len(t, ranges, 3)
	require.Equal(t, uint64(4), ranges[0].Size)
	require.Equal(t, uint64(4), ranges[1].Size)
	require.Equal(t, uint64(2), ranges[2].Size)
}
