package contentcodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var samplePayload = []byte("the quick brown fox jumps over the lazy dog, repeatedly, to give the compressor something to chew on: the quick brown fox jumps over the lazy dog")

func TestZlibCodecRoundTrip(t *testing.T) {
	c, err := NewCodec(AlgoZlib, nil)
	require.NoError(t, err)

	compressed, err := c.Compress(samplePayload)
	require.NoError(t, err)

	got, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, samplePayload, got)
}

func TestZstdCodecRoundTrip(t *testing.T) {
	c, err := NewCodec(AlgoZstd, nil)
	require.NoError(t, err)

	compressed, err := c.Compress(samplePayload)
	require.NoError(t, err)

	got, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, samplePayload, got)
}

func TestLZ4CodecRoundTrip(t *testing.T) {
	c, err := NewCodec(AlgoLZO1X, nil)
	require.NoError(t, err)

	compressed, err := c.Compress(samplePayload)
	require.NoError(t, err)

	got, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, samplePayload, got)
}

func TestLZ4CodecRoundTripEmpty(t *testing.T) {
	c, err := NewCodec(AlgoLZO1X, nil)
	require.NoError(t, err)

	compressed, err := c.Compress(nil)
	require.NoError(t, err)
	require.Empty(t, compressed)

	got, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestHeaderStripCodecRoundTrip(t *testing.T) {
	header := []byte{0x00, 0x00, 0x00, 0x01}
	c, err := NewCodec(AlgoHeaderStrip, header)
	require.NoError(t, err)

	frame := append(append([]byte{}, header...), []byte("payload")...)

	stripped, err := c.Compress(frame)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), stripped)

	restored, err := c.Decompress(stripped)
	require.NoError(t, err)
	require.Equal(t, frame, restored)
}

func TestHeaderStripCodecRejectsMismatchedHeader(t *testing.T) {
	c, err := NewCodec(AlgoHeaderStrip, []byte{0x00, 0x00, 0x00, 0x01})
	require.NoError(t, err)

	_, err = c.Compress([]byte("no matching header here"))
	require.Error(t, err)
}

func TestBzlibCodecIsRejected(t *testing.T) {
	_, err := NewCodec(AlgoBzlib, nil)
	require.Error(t, err)
}

func TestUnknownAlgorithmIsRejected(t *testing.T) {
	_, err := NewCodec(Algorithm(99), nil)
	require.Error(t, err)
}
