package ebml

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/bml/bitio"
)

const testLeafID ElementID = 0xCD
const testUnknownID ElementID = 0x99

func buildChild(t *testing.T, id ElementID, payload []byte) []byte {
	t.Helper()
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteHeader(w, id, uint64(len(payload)), false))
	require.NoError(t, w.WriteRawBytes(payload))
	require.NoError(t, w.Flush())
	return sink.Bytes()
}

func TestChunkedReaderDispatchAndSkip(t *testing.T) {
	child1 := buildChild(t, testLeafID, []byte{0x07})
	child2 := buildChild(t, testUnknownID, []byte{0xFF})
	data := append(append([]byte{}, child1...), child2...)

	var gotValue uint64
	var warnings []ElementID
	dispatch := DispatchTable{
		testLeafID: func(r *bitio.BitReader, id ElementID) error {
			hdr, err := ReadHeader(r, id)
			if err != nil {
				return err
			}
			v, err := ReadUintLeaf(r, hdr.Size)
			if err != nil {
				return err
			}
			gotValue = v
			return nil
		},
	}
	warn := func(id ElementID, msg string) { warnings = append(warnings, id) }

	r := bitio.NewBitReader(bitio.NewSliceSource(data))
	hdr := Header{Size: uint64(len(data))}
	cr := NewChunkedReader(r, hdr, dispatch, nil, warn, nil)

	var seen []ElementID
	require.NoError(t, Drain(cr, func(id ElementID) { seen = append(seen, id) }))

	assert.Equal(t, uint64(7), gotValue)
	assert.Equal(t, []ElementID{testLeafID, testUnknownID}, seen)
	assert.Equal(t, []ElementID{testUnknownID}, warnings)
	assert.False(t, cr.HasNext())
}

func TestChunkedReaderUnknownSizeTerminator(t *testing.T) {
	child1 := buildChild(t, testLeafID, []byte{0x01})
	terminatorBytes := buildChild(t, testUnknownID, nil) // acts as the next sibling's header
	data := append(append([]byte{}, child1...), terminatorBytes...)

	r := bitio.NewBitReader(bitio.NewSliceSource(data))
	hdr := Header{SizeUnknown: true}
	terminators := map[ElementID]struct{}{testUnknownID: {}}
	cr := NewChunkedReader(r, hdr, DispatchTable{
		testLeafID: func(r *bitio.BitReader, id ElementID) error {
			_, err := ReadHeader(r, id)
			if err != nil {
				return err
			}
			_, err = ReadUintLeaf(r, 1)
			return err
		},
	}, terminators, nil, nil)

	var seen []ElementID
	require.NoError(t, Drain(cr, func(id ElementID) { seen = append(seen, id) }))
	assert.Equal(t, []ElementID{testLeafID}, seen)

	// The terminator itself must not have been consumed.
	gotID, err := PeekElementID(r)
	require.NoError(t, err)
	assert.Equal(t, testUnknownID, gotID)
}

func TestChunkedReaderCRCValidation(t *testing.T) {
	children := buildChild(t, testLeafID, []byte{0x2A})
	sum := crc32.ChecksumIEEE(children)

	crcSink := bitio.NewSliceSink()
	cw := bitio.NewBitWriter(crcSink)
	require.NoError(t, WriteHeader(cw, CRCElementID, 4, false))
	require.NoError(t, cw.WriteRawBytes([]byte{byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24)}))
	require.NoError(t, cw.Flush())

	data := append(append([]byte{}, crcSink.Bytes()...), children...)

	tap := bitio.NewCRCTapSource(bitio.NewSliceSource(data))
	r := bitio.NewBitReader(tap)
	hdr := Header{Size: uint64(len(data))}
	cr := NewChunkedReader(r, hdr, DispatchTable{
		testLeafID: func(r *bitio.BitReader, id ElementID) error {
			hr, err := ReadHeader(r, id)
			if err != nil {
				return err
			}
			_, err = ReadUintLeaf(r, hr.Size)
			return err
		},
	}, nil, nil, tap)

	require.NoError(t, Drain(cr, nil))
}

func TestChunkedReaderCRCMismatch(t *testing.T) {
	children := buildChild(t, testLeafID, []byte{0x2A})
	badSum := crc32.ChecksumIEEE(children) ^ 0xFFFFFFFF

	crcSink := bitio.NewSliceSink()
	cw := bitio.NewBitWriter(crcSink)
	require.NoError(t, WriteHeader(cw, CRCElementID, 4, false))
	require.NoError(t, cw.WriteRawBytes([]byte{byte(badSum), byte(badSum >> 8), byte(badSum >> 16), byte(badSum >> 24)}))
	require.NoError(t, cw.Flush())

	data := append(append([]byte{}, crcSink.Bytes()...), children...)

	tap := bitio.NewCRCTapSource(bitio.NewSliceSource(data))
	r := bitio.NewBitReader(tap)
	hdr := Header{Size: uint64(len(data))}
	cr := NewChunkedReader(r, hdr, DispatchTable{
		testLeafID: func(r *bitio.BitReader, id ElementID) error {
			hr, err := ReadHeader(r, id)
			if err != nil {
				return err
			}
			_, err = ReadUintLeaf(r, hr.Size)
			return err
		},
	}, nil, nil, tap)

	err := Drain(cr, nil)
	assert.Error(t, err)
}

func TestBufferedMasterWriterRoundTrip(t *testing.T) {
	bw := NewBufferedMasterWriter()
	require.NoError(t, WriteHeader(bw.Writer(), testLeafID, 1, false))
	require.NoError(t, bw.Writer().WriteRawBytes([]byte{0x09}))

	outSink := bitio.NewSliceSink()
	out := bitio.NewBitWriter(outSink)
	require.NoError(t, bw.Finish(out, 0xA0))
	require.NoError(t, out.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(outSink.Bytes()))
	hdr, err := ReadHeader(r, 0xA0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), hdr.Size)
}

func TestSkipElementKnownSize(t *testing.T) {
	data := buildChild(t, testUnknownID, []byte{1, 2, 3})
	data = append(data, buildChild(t, testLeafID, []byte{9})...)

	r := bitio.NewBitReader(bitio.NewSliceSource(data))
	n, err := SkipElement(r, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), uint64(n))

	hdr, err := ReadHeader(r, testLeafID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), hdr.Size)
}

func TestCopyElement(t *testing.T) {
	data := buildChild(t, testLeafID, []byte{1, 2, 3})

	r := bitio.NewBitReader(bitio.NewSliceSource(data))
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	_, err := CopyElement(r, w, nil)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	assert.Equal(t, data, sink.Bytes())
}
