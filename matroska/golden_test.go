package matroska

import (
	"testing"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// expectedInfo mirrors the fields of Info a golden fixture cares about; it
// exists so test fixtures can be authored as plain YAML instead of Go
// struct literals, matching the scenario tables in the source spec.
type expectedInfo struct {
	Title          string `yaml:"title"`
	MuxingApp      string `yaml:"muxing_app"`
	WritingApp     string `yaml:"writing_app"`
	TimestampScale uint64 `yaml:"timestamp_scale"`
}

const infoGoldenYAML = `
title: "Example Segment"
muxing_app: "bml-mux"
writing_app: "bml-mux 1.0"
timestamp_scale: 1000000
`

func TestInfoRoundTripMatchesGoldenFixture(t *testing.T) {
	var want expectedInfo
	require.NoError(t, yaml.Unmarshal([]byte(infoGoldenYAML), &want))

	in := Info{
		Title:          want.Title,
		MuxingApp:      want.MuxingApp,
		WritingApp:     want.WritingApp,
		TimestampScale: want.TimestampScale,
	}

	sink := bitio.NewSliceSink()
	w := bitio.NewBitWriter(sink)
	require.NoError(t, WriteInfo(w, in))
	require.NoError(t, w.Flush())

	r := bitio.NewBitReader(bitio.NewSliceSource(sink.Bytes()))
	hdr, err := ebml.ReadHeader(r, IDSegmentInfo)
	require.NoError(t, err)

	got, err := ParseInfo(r, hdr, testParseCtx(NewReadOptions()))
	require.NoError(t, err)

	require.Equal(t, want.Title, got.Title)
	require.Equal(t, want.MuxingApp, got.MuxingApp)
	require.Equal(t, want.WritingApp, got.WritingApp)
	require.Equal(t, want.TimestampScale, got.TimestampScale)
}
