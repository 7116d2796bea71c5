package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

func TestBitReaderPeekDoesNotAdvance(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0xAB, 0xCD}))
	peeked, err := r.Peek(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB), peeked)

	got, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB), got)

	got, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xCD), got)
}

func TestBitReaderHasMoreBytes(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0x01}))
	assert.True(t, r.HasMoreBytes())
	_, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.False(t, r.HasMoreBytes())
}

func TestBitReaderEndOfStream(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0x01}))
	_, err := r.ReadBits(16)
	require.Error(t, err)
	assert.True(t, bmlerr.IsKind(err, bmlerr.EndOfStream))
}

func TestBitReaderPosition(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0xFF, 0xFF}))
	assert.Equal(t, sizes.BitCount(0), r.Position())
	_, err := r.ReadBits(5)
	require.NoError(t, err)
	assert.Equal(t, sizes.BitCount(5), r.Position())
}

func TestBitReaderSkipAndAlignment(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0xFF, 0xAB}))
	require.NoError(t, r.Skip(3))
	skipped, err := r.SkipToAlignment(8)
	require.NoError(t, err)
	assert.Equal(t, sizes.BitCount(5), skipped)

	got, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB), got)
}

func TestBitReaderAssertAlignmentFailsWhenUnaligned(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0xFF}))
	require.NoError(t, r.Skip(3))
	err := r.AssertAlignment(8)
	assert.Error(t, err)
}

func TestBitReaderAssertAlignmentPassesWhenAligned(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0xFF, 0xAA}))
	require.NoError(t, r.Skip(8))
	assert.NoError(t, r.AssertAlignment(8))
}

func TestBitReaderReadBytesInto(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{1, 2, 3, 4}))
	buf := make([]byte, 4)
	require.NoError(t, r.ReadBytesInto(buf))
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
}

func TestBitReaderReadBytesIntoRequiresAlignment(t *testing.T) {
	r := NewBitReader(NewSliceSource([]byte{0xFF, 0x01}))
	require.NoError(t, r.Skip(3))
	buf := make([]byte, 1)
	err := r.ReadBytesInto(buf)
	assert.Error(t, err)
}

func TestBitReaderExpGolombMatchesKnownEncoding(t *testing.T) {
	// ue(v)=0 is a single "1" bit.
	r := NewBitReader(NewSliceSource([]byte{0b10000000}))
	v, err := r.ReadExpGolomb()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestBitReaderFibonacciTwoOnesTerminator(t *testing.T) {
	sink := NewSliceSink()
	w := NewBitWriter(sink)
	require.NoError(t, w.WriteFibonacci(1))
	require.NoError(t, w.WriteFibonacci(2))
	_, err := w.FillToAlignment(8, false)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewBitReader(NewSliceSource(sink.Bytes()))
	v1, err := r.ReadFibonacci()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1)
	v2, err := r.ReadFibonacci()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v2)
}
