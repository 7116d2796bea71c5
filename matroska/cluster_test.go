package matroska

import (
	"testing"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
	"github.com/stretchr/testify/require"
)

// testParseCtx builds a root parseCtx for tests that call Parse* functions
// directly, outside the ParseFile entry point.
func testParseCtx(opts ReadOptions) *parseCtx {
	return newParseCtx(opts, nil)
}

func TestClusterRoundTripSimpleBlocks(t *testing.T) {
	in := Cluster{
		Timestamp:    1000,
		Position:     4096,
		SimpleBlocks: []RawBlock{{Bytes: []byte{0x81, 0x00, 0x00, 0x80, 'f', 'r', 'a', 'm', 'e'}}},
	}

	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteCluster(w, in))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	hdr, err := ebml.ReadHeader(r, IDCluster)
	require.NoError(t, err)

	ctx := testParseCtx(NewReadOptions(WithReadMediaData(true)))
	out, err := ParseCluster(r, hdr, ctx)
	require.NoError(t, err)

	require.Equal(t, in.Timestamp, out.Timestamp)
	require.Equal(t, in.Position, out.Position)
	require.Equal(t, in.SimpleBlocks, out.SimpleBlocks)
	require.Empty(t, out.BlockGroups)
}

func TestClusterRoundTripBlockGroup(t *testing.T) {
	in := Cluster{
		Timestamp: 2000,
		BlockGroups: []BlockGroup{
			{
				Block:             RawBlock{Bytes: []byte{0x81, 0x00, 0x00, 0x00, 'x'}},
				BlockDuration:     40,
				ReferencePriority: 1,
				ReferenceBlocks:   []int64{-40, 40},
				DiscardPadding:    -5,
				Additions: []BlockMore{
					{AddID: 4, Additional: []byte{0x01, 0x02}},
				},
			},
		},
	}

	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteCluster(w, in))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	hdr, err := ebml.ReadHeader(r, IDCluster)
	require.NoError(t, err)

	ctx := testParseCtx(NewReadOptions(WithReadMediaData(true)))
	out, err := ParseCluster(r, hdr, ctx)
	require.NoError(t, err)

	require.Len(t, out.BlockGroups, 1)
	bg := out.BlockGroups[0]
	require.Equal(t, in.BlockGroups[0].Block, bg.Block)
	require.Equal(t, in.BlockGroups[0].BlockDuration, bg.BlockDuration)
	require.Equal(t, in.BlockGroups[0].ReferencePriority, bg.ReferencePriority)
	require.Equal(t, in.BlockGroups[0].ReferenceBlocks, bg.ReferenceBlocks)
	require.Equal(t, in.BlockGroups[0].DiscardPadding, bg.DiscardPadding)
	require.Len(t, bg.Additions, 1)
	require.EqualValues(t, 4, bg.Additions[0].AddID)
	require.Equal(t, []byte{0x01, 0x02}, bg.Additions[0].Additional)
}
