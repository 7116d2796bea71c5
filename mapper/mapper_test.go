package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/sizes"
)

func roundTrip[T any](t *testing.T, m Mapper[T], v T) T {
	t.Helper()
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, m.Write(w, v))
	require.NoError(t, w.Flush())
	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	got, err := m.Read(r)
	require.NoError(t, err)
	return got
}

func TestMapBitsRoundTrip(t *testing.T) {
	m := MapBits(8, func(v uint64) uint8 { return uint8(v) }, func(v uint8) uint64 { return uint64(v) })
	assert.Equal(t, uint8(0xAB), roundTrip(t, m, uint8(0xAB)))
	sz, ok := m.FixedSize()
	assert.True(t, ok)
	assert.Equal(t, sizes.BitCount(8), sz)
}

func TestMapBytesRoundTrip(t *testing.T) {
	m := MapBytes(2, func(v uint64) uint16 { return uint16(v) }, func(v uint16) uint64 { return uint64(v) })
	assert.Equal(t, uint16(0x1234), roundTrip(t, m, uint16(0x1234)))
}

func TestMapExpGolombBitsRoundTrip(t *testing.T) {
	m := MapExpGolombBits()
	assert.Equal(t, uint64(42), roundTrip(t, m, uint64(42)))
	_, ok := m.FixedSize()
	assert.False(t, ok)
}

func TestMapFixedBitsChecked(t *testing.T) {
	m := MapCheckedFixedBits(0x5, 4)
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, w.Write(0x3, 4))
	require.NoError(t, w.Flush())
	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	_, err := m.Read(r)
	assert.Error(t, err)
}

func TestMapMemberArrayRoundTrip(t *testing.T) {
	elem := MapBits(8, func(v uint64) byte { return byte(v) }, func(v byte) uint64 { return uint64(v) })
	m := MapMemberArray(3, elem)
	got := roundTrip(t, m, []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, got)
	sz, ok := m.FixedSize()
	assert.True(t, ok)
	assert.Equal(t, sizes.BitCount(24), sz)
}

func TestCompoundFixedSize(t *testing.T) {
	m1 := MapBits(8, func(v uint64) byte { return byte(v) }, func(v byte) uint64 { return uint64(v) })
	c := Compound(m1, m1, m1)
	got := roundTrip(t, c, []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, got)
	sz, ok := c.FixedSize()
	assert.True(t, ok)
	assert.Equal(t, sizes.BitCount(24), sz)
}

func TestAssertByteAligned(t *testing.T) {
	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, w.Write(0b1, 1))
	m := AssertByteAligned()
	assert.Error(t, m.Write(w, struct{}{}))
}
