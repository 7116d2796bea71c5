package block

import (
	"bytes"
	"testing"

	"github.com/arvidsson/bml/bmlerr"
	"github.com/stretchr/testify/require"
)

func TestDataRangeKnownToBorrowed(t *testing.T) {
	source := MemorySource([]byte("DEADBEEF"))
	known := KnownRange(ByteRange{Offset: 0, Size: 4})
	got, err := FillDataRange(known, source, "borrowed")
	require.NoError(t, err)
	require.True(t, got.HasData())
	require.Equal(t, []byte("DEAD"), got.Bytes())
}

func TestDataRangeKnownToOwned(t *testing.T) {
	source := MemorySource([]byte("DEADBEEF"))
	known := KnownRange(ByteRange{Offset: 4, Size: 4})
	got, err := FillDataRange(known, source, "owned")
	require.NoError(t, err)
	require.Equal(t, []byte("BEEF"), got.Bytes())

	// Mutating the source must not affect the owned copy.
	source[4] = 'X'
	require.Equal(t, []byte("BEEF"), got.Bytes())
}

func TestDataRangeBorrowedToOwned(t *testing.T) {
	borrowed := BorrowedRange([]byte("abcd"))
	got, err := FillDataRange(borrowed, MemorySource(nil), "owned")
	require.NoError(t, err)
	require.Equal(t, []byte("abcd"), got.Bytes())
}

func TestDataRangeOwnedNoop(t *testing.T) {
	owned := OwnedRange([]byte("abcd"))
	got, err := FillDataRange(owned, MemorySource(nil), "owned")
	require.NoError(t, err)
	require.Equal(t, []byte("abcd"), got.Bytes())
}

func TestDataRangeOutOfRangeIsEndOfStream(t *testing.T) {
	source := MemorySource([]byte("DEAD"))
	known := KnownRange(ByteRange{Offset: 0, Size: 8})
	_, err := FillDataRange(known, source, "owned")
	require.Error(t, err)
	require.True(t, bmlerr.IsKind(err, bmlerr.EndOfStream))
}

func TestDataRangeStreamSourceAlwaysPromotesToOwned(t *testing.T) {
	stream := StreamSource{R: bytes.NewReader([]byte("DEADBEEFDEADBEEFFF00BABEFFFFFFDEADBEEFB00BDEADBEEFF00B"))}
	known := KnownRange(ByteRange{Offset: 0, Size: 4})
	got, err := FillDataRange(known, stream, "borrowed")
	require.NoError(t, err)
	require.Equal(t, []byte("DEAD"), got.Bytes())
}

func TestDataRangeBorrowFromOwned(t *testing.T) {
	owned := OwnedRange([]byte("abcd"))
	borrowed := owned.Borrow()
	require.Equal(t, []byte("abcd"), borrowed.Bytes())
}
