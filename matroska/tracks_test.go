package matroska

import (
	"testing"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
	"github.com/stretchr/testify/require"
)

func roundTripTrackEntry(t *testing.T, in TrackEntry) TrackEntry {
	t.Helper()

	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteTrackEntry(w, in))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	hdr, err := ebml.ReadHeader(r, IDTrackEntry)
	require.NoError(t, err)

	out, err := ParseTrackEntry(r, hdr, testParseCtx(NewReadOptions()))
	require.NoError(t, err)
	return out
}

func TestTrackEntryRoundTripVideo(t *testing.T) {
	in := TrackEntry{
		Number:      1,
		UID:         0xDEADBEEF,
		Type:        1,
		FlagEnabled: true,
		FlagDefault: true,
		FlagLacing:  false,
		Name:        "Video Track",
		Language:    "eng",
		CodecID:     "V_MPEG4/ISO/AVC",
		CodecPriv:   []byte{0x01, 0x42, 0x00, 0x1f},
		Video: &Video{
			PixelWidth:    1920,
			PixelHeight:   1080,
			DisplayWidth:  1920,
			DisplayHeight: 1080,
			Colour: &Colour{
				MatrixCoefficients: 1,
				Range:              1,
				Mastering: &MasteringMetadata{
					LuminanceMax: 1000,
					LuminanceMin: 0.005,
				},
			},
		},
	}

	out := roundTripTrackEntry(t, in)

	require.Equal(t, in.Number, out.Number)
	require.Equal(t, in.UID, out.UID)
	require.Equal(t, in.Type, out.Type)
	require.False(t, out.FlagLacing)
	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.CodecID, out.CodecID)
	require.Equal(t, in.CodecPriv, out.CodecPriv)
	require.NotNil(t, out.Video)
	require.Equal(t, in.Video.PixelWidth, out.Video.PixelWidth)
	require.Equal(t, in.Video.PixelHeight, out.Video.PixelHeight)
	require.NotNil(t, out.Video.Colour)
	require.Equal(t, in.Video.Colour.MatrixCoefficients, out.Video.Colour.MatrixCoefficients)
	require.NotNil(t, out.Video.Colour.Mastering)
	require.InDelta(t, in.Video.Colour.Mastering.LuminanceMax, out.Video.Colour.Mastering.LuminanceMax, 1e-9)
}

func TestTrackEntryRoundTripAudio(t *testing.T) {
	in := TrackEntry{
		Number:   2,
		UID:      7,
		Type:     2,
		CodecID:  "A_OPUS",
		Language: "jpn",
		Audio: &Audio{
			SamplingFrequency: 48000,
			Channels:          2,
			BitDepth:          16,
		},
	}

	out := roundTripTrackEntry(t, in)

	require.NotNil(t, out.Audio)
	require.InDelta(t, 48000.0, out.Audio.SamplingFrequency, 1e-6)
	require.InDelta(t, 48000.0, out.Audio.OutputSamplingFrequency, 1e-6)
	require.EqualValues(t, 2, out.Audio.Channels)
	require.EqualValues(t, 16, out.Audio.BitDepth)
}

func TestTrackEntryDefaultsWhenFieldsOmitted(t *testing.T) {
	// FlagEnabled/FlagLacing default to true only when the wire element is
	// absent entirely; WriteTrackEntry only omits them when the Go value
	// already matches that default, so the literal must say so explicitly.
	in := TrackEntry{Number: 3, UID: 1, Type: 1, CodecID: "V_VP9", FlagEnabled: true, FlagLacing: true}

	out := roundTripTrackEntry(t, in)

	require.True(t, out.FlagEnabled)
	require.True(t, out.FlagLacing)
	require.False(t, out.FlagForced)
}

func TestTrackEntryRoundTripContentEncodings(t *testing.T) {
	in := TrackEntry{
		Number:  4,
		UID:     9,
		Type:    1,
		CodecID: "V_MPEG4/ISO/AVC",
		ContentEncodings: []ContentEncoding{
			{
				Order: 0,
				Scope: 1,
				Type:  0,
				Compression: &ContentCompression{
					Algo:     0,
					Settings: nil,
				},
			},
		},
	}

	out := roundTripTrackEntry(t, in)

	require.Len(t, out.ContentEncodings, 1)
	require.NotNil(t, out.ContentEncodings[0].Compression)
	require.EqualValues(t, 0, out.ContentEncodings[0].Compression.Algo)
}
