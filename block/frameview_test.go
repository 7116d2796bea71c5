package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func simpleBlock(track uint64, offset int16, payload []byte) Block {
	raw, err := encodeBlockHeader(track, offset, 0)
	if err != nil {
		panic(err)
	}
	raw = append(raw, payload...)
	b, err := ParseBlock(raw, true)
	if err != nil {
		panic(err)
	}
	return b
}

func TestFrameViewOrdersByClusterThenOffset(t *testing.T) {
	c0 := ClusterInput{
		Timestamp: 1000,
		SimpleBlocks: []Block{
			simpleBlock(1, 10, []byte("BBBB")),
			simpleBlock(1, 0, []byte("AAAA")),
		},
	}
	c1 := ClusterInput{
		Timestamp: 2000,
		SimpleBlocks: []Block{
			simpleBlock(1, 0, []byte("CCCC")),
		},
	}

	view := NewFrameView([]ClusterInput{c0, c1}, 1, 1)

	var got [][]byte
	for {
		f, ok := view.Next()
		if !ok {
			break
		}
		got = append(got, f.Data())
	}
	require.Equal(t, [][]byte{[]byte("AAAA"), []byte("BBBB"), []byte("CCCC")}, got)
}

func TestFrameViewFiltersByTrack(t *testing.T) {
	c0 := ClusterInput{
		Timestamp: 0,
		SimpleBlocks: []Block{
			simpleBlock(1, 0, []byte("T1")),
			simpleBlock(2, 0, []byte("T2")),
		},
	}
	view := NewFrameView([]ClusterInput{c0}, 2, 1)
	f, ok := view.Next()
	require.True(t, ok)
	require.Equal(t, []byte("T2"), f.Data())
	_, ok = view.Next()
	require.False(t, ok)
}

func TestFrameViewSimpleBlockPrecedesGroupOnTie(t *testing.T) {
	c0 := ClusterInput{
		Timestamp:    0,
		GroupBlocks:  []Block{simpleBlock(1, 5, []byte("G"))},
		SimpleBlocks: []Block{simpleBlock(1, 5, []byte("S"))},
	}
	view := NewFrameView([]ClusterInput{c0}, 1, 1)
	first, ok := view.Next()
	require.True(t, ok)
	require.Equal(t, []byte("S"), first.Data())
	second, ok := view.Next()
	require.True(t, ok)
	require.Equal(t, []byte("G"), second.Data())
}

func TestFrameViewSeek(t *testing.T) {
	c0 := ClusterInput{Timestamp: 1000, SimpleBlocks: []Block{simpleBlock(1, 0, []byte("A"))}}
	c1 := ClusterInput{Timestamp: 2000, SimpleBlocks: []Block{simpleBlock(1, 0, []byte("B"))}}
	view := NewFrameView([]ClusterInput{c0, c1}, 1, 1)

	view.Seek(1500)
	f, ok := view.Next()
	require.True(t, ok)
	require.Equal(t, []byte("B"), f.Data())
}

func TestFrameViewFirstFrameOfLaceCarriesTimestamp(t *testing.T) {
	raw, err := encodeBlockHeader(1, 0, 0x04) // lacing bits 10 -> FixedSize
	require.NoError(t, err)
	raw = append(raw, 0x01) // nMinus1 -> 2 frames
	raw = append(raw, []byte("AAAABBBB")...)
	b, err := ParseBlock(raw, true)
	require.NoError(t, err)

	c0 := ClusterInput{Timestamp: 5, SimpleBlocks: []Block{b}}
	view := NewFrameView([]ClusterInput{c0}, 1, 1)

	first, ok := view.Next()
	require.True(t, ok)
	require.NotNil(t, first.Timestamp)
	require.Equal(t, int64(5), *first.Timestamp)

	second, ok := view.Next()
	require.True(t, ok)
	require.Nil(t, second.Timestamp)
}
