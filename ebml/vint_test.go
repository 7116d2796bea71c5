package ebml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/bml/bitio"
)

func TestElementIDRoundTrip(t *testing.T) {
	ids := []ElementID{0xA0, 0xBF, 0xEC, 0x1A45DFA3, 0x18538067}
	for _, id := range ids {
		sink := bitio.NewSliceSink()
		w := bitio.NewBitWriter(sink)
		require.NoError(t, WriteElementID(w, id))
		require.NoError(t, w.Flush())

		r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
		got, err := ReadElementID(r)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestElementIDKnownEncoding(t *testing.T) {
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteElementID(w, 0x1A45DFA3))
	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{0x1A, 0x45, 0xDF, 0xA3}, sink.Bytes())
}

func TestVIntSizeRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 126, 127, 128, 1000, 16383, 16384, 1 << 20}
	for _, v := range values {
		sink := bitio.NewSliceSink()
		w := bitio.NewBitWriter(sink)
		require.NoError(t, WriteVIntSize(w, v))
		require.NoError(t, w.Flush())

		r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
		got, _, unknown, err := ReadVIntSize(r)
		require.NoError(t, err)
		assert.False(t, unknown)
		assert.Equal(t, v, got, "value %d", v)
	}
}

func TestVIntSizeCollisionBump(t *testing.T) {
	// A 1-byte VINT's max representable payload (0x7F, all ones) collides
	// with the unknown-size sentinel at width 1 and must bump to width 2.
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteVIntSize(w, 0x7F))
	require.NoError(t, w.Flush())
	assert.Len(t, sink.Bytes(), 2)

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	got, _, unknown, err := ReadVIntSize(r)
	require.NoError(t, err)
	assert.False(t, unknown)
	assert.Equal(t, uint64(0x7F), got)
}

func TestUnknownSizeVInt(t *testing.T) {
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteUnknownSizeVInt(w))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	_, _, unknown, err := ReadVIntSize(r)
	require.NoError(t, err)
	assert.True(t, unknown)
}

func TestHeaderRoundTrip(t *testing.T) {
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteHeader(w, 0xA0, 42, false))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	hdr, err := ReadHeader(r, 0xA0)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), hdr.Size)
	assert.False(t, hdr.SizeUnknown)
}

func TestHeaderMismatch(t *testing.T) {
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteHeader(w, 0xA0, 1, false))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	_, err := ReadHeader(r, 0xBF)
	assert.Error(t, err)
}

func TestRequiredBytes(t *testing.T) {
	assert.Equal(t, 1, RequiredBytes(0))
	assert.Equal(t, 1, RequiredBytes(0xFF))
	assert.Equal(t, 2, RequiredBytes(0x100))
	assert.Equal(t, 8, RequiredBytes(^uint64(0)))
}

func TestRequiredSignedBytes(t *testing.T) {
	assert.Equal(t, 1, RequiredSignedBytes(0))
	assert.Equal(t, 1, RequiredSignedBytes(-1))
	assert.Equal(t, 1, RequiredSignedBytes(-128))
	assert.Equal(t, 2, RequiredSignedBytes(-129))
	assert.Equal(t, 2, RequiredSignedBytes(200))
}
