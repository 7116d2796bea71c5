package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/bml/sizes"
)

func TestBitWriterReaderRoundTripBits(t *testing.T) {
	cases := []struct {
		value   uint64
		numBits sizes.BitCount
	}{
		{0, 1},
		{1, 1},
		{0b101, 3},
		{0xFF, 8},
		{0x1234, 16},
		{0xDEADBEEF, 32},
		{^uint64(0), 64},
		{0x1FF, 9},
		{0x3FFFF, 18},
	}
	for _, c := range cases {
		sink := NewSliceSink()
		w := NewBitWriter(sink)
		require.NoError(t, w.Write(c.value, c.numBits))
		_, err := w.FillToAlignment(8, false)
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		r := NewBitReader(NewSliceSource(sink.Bytes()))
		got, err := r.ReadBits(c.numBits)
		require.NoError(t, err)
		assert.Equal(t, c.value&sizes.Mask(c.numBits), got, "value=%#x numBits=%d", c.value, c.numBits)
	}
}

func TestBitWriterSplitAcrossCache(t *testing.T) {
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	// Twenty 5-bit writes, many of which straddle a byte boundary in the
	// cache.
	for i := 0; i < 20; i++ {
		require.NoError(t, w.Write(uint64(i), 5))
	}
	_, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewBitReader(NewSliceSource(sink.Bytes()))
	for i := 0; i < 20; i++ {
		got, err := r.ReadBits(5)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), got)
	}
}

func TestBitWriterExpGolombRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 7, 8, 100, 1000, 1 << 20}
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	for _, v := range values {
		require.NoError(t, w.WriteExpGolomb(v))
	}
	_, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewBitReader(NewSliceSource(sink.Bytes()))
	for _, v := range values {
		got, err := r.ReadExpGolomb()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestBitWriterSignedExpGolombRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 1000, -1000}
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	for _, v := range values {
		require.NoError(t, w.WriteSignedExpGolomb(v))
	}
	_, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewBitReader(NewSliceSource(sink.Bytes()))
	for _, v := range values {
		got, err := r.ReadSignedExpGolomb()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestBitWriterFibonacciRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 4, 7, 8, 100, 1000, 50000}
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	for _, v := range values {
		require.NoError(t, w.WriteFibonacci(v))
	}
	_, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewBitReader(NewSliceSource(sink.Bytes()))
	for _, v := range values {
		got, err := r.ReadFibonacci()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestBitWriterSignedFibonacciRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 1000, -1000}
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	for _, v := range values {
		require.NoError(t, w.WriteSignedFibonacci(v))
	}
	_, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewBitReader(NewSliceSource(sink.Bytes()))
	for _, v := range values {
		got, err := r.ReadSignedFibonacci()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestBitWriterUTF8RoundTrip(t *testing.T) {
	runes := []rune{'A', 'é', '中', '\U0001F600', 0, 0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, 0x10FFFF}
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	for _, r := range runes {
		require.NoError(t, w.WriteUTF8CodePoint(r))
	}
	require.NoError(t, w.Flush())

	reader := NewBitReader(NewSliceSource(sink.Bytes()))
	for _, want := range runes {
		got, err := reader.ReadUTF8CodePoint()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBitWriterUTF16RoundTrip(t *testing.T) {
	runes := []rune{'A', 0xFFFF - 1, 0x10000, 0x1F600, 0x10FFFF}
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	for _, r := range runes {
		require.NoError(t, w.WriteUTF16CodePoint(r))
	}
	require.NoError(t, w.Flush())

	reader := NewBitReader(NewSliceSource(sink.Bytes()))
	for _, want := range runes {
		got, err := reader.ReadUTF16CodePoint()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBitWriterAlignment(t *testing.T) {
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	require.NoError(t, w.Write(0b101, 3))
	assert.Error(t, w.AssertAlignment(8))
	n, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	assert.Equal(t, sizes.BitCount(5), n)
	assert.NoError(t, w.AssertAlignment(8))
}

func TestBitWriterRawBytesRequiresAlignment(t *testing.T) {
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	require.NoError(t, w.Write(0b1, 1))
	err := w.WriteRawBytes([]byte{0xAA})
	assert.Error(t, err)
}

func TestBitWriterEndOfStream(t *testing.T) {
	w := NewBitWriter(&DiscardButFull{limit: 1})
	require.NoError(t, w.Write(0xFF, 8))
	err := w.Write(0xFF, 8)
	assert.Error(t, err)
}

// DiscardButFull is a ByteSink that accepts only the first `limit` bytes.
type DiscardButFull struct {
	limit int
	seen  int
}

func (d *DiscardButFull) PutByte(byte) bool {
	if d.seen >= d.limit {
		return false
	}
	d.seen++
	return true
}
