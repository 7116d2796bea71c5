package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseTracks reads a Tracks element's TrackEntry children.
func ParseTracks(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Tracks, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Tracks{}, err
	}

	var out Tracks

	dispatch := ebml.DispatchTable{
		IDTrackEntry: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var entry TrackEntry
			entry, err = ParseTrackEntry(r, h, ctx)
			if err != nil {
				return err
			}
			out.Entries = append(out.Entries, entry)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Tracks{}, e
	}
	return out, nil
}

// ParseTrackEntry reads one TrackEntry element's children.
func ParseTrackEntry(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (TrackEntry, error) {
	ctx, err := ctx.child()
	if err != nil {
		return TrackEntry{}, err
	}

	out := TrackEntry{FlagEnabled: true, FlagLacing: true}

	dispatch := ebml.DispatchTable{
		IDTrackNum:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Number, err = readUint(r, id); return err },
		IDTrackUID:  func(r *bitio.BitReader, id ebml.ElementID) error { out.UID, err = readUint(r, id); return err },
		IDTrackType: func(r *bitio.BitReader, id ebml.ElementID) error { out.Type, err = readUint(r, id); return err },
		IDFlagEnabled: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagEnabled, err = readBool(r, id, true)
			return err
		},
		IDFlagDefault: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagDefault, err = readBool(r, id, true)
			return err
		},
		IDFlagForced: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagForced, err = readBool(r, id, false)
			return err
		},
		IDFlagLacing: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagLacing, err = readBool(r, id, true)
			return err
		},
		IDTrackName: func(r *bitio.BitReader, id ebml.ElementID) error { out.Name, err = readString(r, id); return err },
		IDLanguage:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Language, err = readString(r, id); return err },
		IDCodecID:   func(r *bitio.BitReader, id ebml.ElementID) error { out.CodecID, err = readString(r, id); return err },
		IDCodecPriv: func(r *bitio.BitReader, id ebml.ElementID) error { out.CodecPriv, err = readBinary(r, id); return err },
		IDCodecName: func(r *bitio.BitReader, id ebml.ElementID) error { out.CodecName, err = readString(r, id); return err },
		IDCodecDelay: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.CodecDelay, err = readUint(r, id)
			return err
		},
		IDSeekPreRoll: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.SeekPreRoll, err = readUint(r, id)
			return err
		},
		IDVideo: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			v, e := ParseVideo(r, h, ctx)
			if e != nil {
				return e
			}
			out.Video = &v
			return nil
		},
		IDAudio: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			a, e := ParseAudio(r, h, ctx)
			if e != nil {
				return e
			}
			out.Audio = &a
			return nil
		},
		IDContentEncodings: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.ContentEncodings, err = ParseContentEncodings(r, h, ctx)
			return err
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return TrackEntry{}, e
	}
	return out, nil
}

// ParseVideo reads a Video element's children, including the supplemented
// Colour and Projection sub-trees.
func ParseVideo(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Video, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Video{}, err
	}

	var out Video

	dispatch := ebml.DispatchTable{
		IDFlagInterlaced: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagInterlaced, err = readBool(r, id, false)
			return err
		},
		IDPixelWidth:    func(r *bitio.BitReader, id ebml.ElementID) error { out.PixelWidth, err = readUint(r, id); return err },
		IDPixelHeight:   func(r *bitio.BitReader, id ebml.ElementID) error { out.PixelHeight, err = readUint(r, id); return err },
		IDDisplayWidth:  func(r *bitio.BitReader, id ebml.ElementID) error { out.DisplayWidth, err = readUint(r, id); return err },
		IDDisplayHeight: func(r *bitio.BitReader, id ebml.ElementID) error { out.DisplayHeight, err = readUint(r, id); return err },
		IDDisplayUnit:   func(r *bitio.BitReader, id ebml.ElementID) error { out.DisplayUnit, err = readUint(r, id); return err },
		IDColour: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			c, e := ParseColour(r, h, ctx)
			if e != nil {
				return e
			}
			out.Colour = &c
			return nil
		},
		IDProjection: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			p, e := ParseProjection(r, h, ctx)
			if e != nil {
				return e
			}
			out.Projection = &p
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Video{}, e
	}
	return out, nil
}

// ParseColour reads a Colour element's children.
func ParseColour(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Colour, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Colour{}, err
	}

	var out Colour

	dispatch := ebml.DispatchTable{
		IDMatrixCoefficients:      func(r *bitio.BitReader, id ebml.ElementID) error { out.MatrixCoefficients, err = readUint(r, id); return err },
		IDBitsPerChannel:          func(r *bitio.BitReader, id ebml.ElementID) error { out.BitsPerChannel, err = readUint(r, id); return err },
		IDChromaSubsamplingHorz:   func(r *bitio.BitReader, id ebml.ElementID) error { out.ChromaSubsamplingHorz, err = readUint(r, id); return err },
		IDChromaSubsamplingVert:   func(r *bitio.BitReader, id ebml.ElementID) error { out.ChromaSubsamplingVert, err = readUint(r, id); return err },
		IDCbSubsamplingHorz:       func(r *bitio.BitReader, id ebml.ElementID) error { out.CbSubsamplingHorz, err = readUint(r, id); return err },
		IDCbSubsamplingVert:       func(r *bitio.BitReader, id ebml.ElementID) error { out.CbSubsamplingVert, err = readUint(r, id); return err },
		IDChromaSitingHorz:        func(r *bitio.BitReader, id ebml.ElementID) error { out.ChromaSitingHorz, err = readUint(r, id); return err },
		IDChromaSitingVert:        func(r *bitio.BitReader, id ebml.ElementID) error { out.ChromaSitingVert, err = readUint(r, id); return err },
		IDRange:                   func(r *bitio.BitReader, id ebml.ElementID) error { out.Range, err = readUint(r, id); return err },
		IDTransferCharacteristics: func(r *bitio.BitReader, id ebml.ElementID) error { out.TransferCharacteristics, err = readUint(r, id); return err },
		IDPrimaries:               func(r *bitio.BitReader, id ebml.ElementID) error { out.Primaries, err = readUint(r, id); return err },
		IDMaxCLL:                  func(r *bitio.BitReader, id ebml.ElementID) error { out.MaxCLL, err = readUint(r, id); return err },
		IDMaxFALL:                 func(r *bitio.BitReader, id ebml.ElementID) error { out.MaxFALL, err = readUint(r, id); return err },
		IDMasteringMetadata: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			m, e := ParseMasteringMetadata(r, h, ctx)
			if e != nil {
				return e
			}
			out.Mastering = &m
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Colour{}, e
	}
	return out, nil
}

// ParseMasteringMetadata reads a MasteringMetadata element's children;
// every field is a float leaf, read at whatever width its header declares
// (writeMasteringMetadata writes 8-byte floats).
func ParseMasteringMetadata(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (MasteringMetadata, error) {
	ctx, err := ctx.child()
	if err != nil {
		return MasteringMetadata{}, err
	}

	var out MasteringMetadata

	field := func(dst *float64, id ebml.ElementID) ebml.ChildHandler {
		return func(r *bitio.BitReader, id ebml.ElementID) error {
			*dst, err = readFloat(r, id, 0)
			return err
		}
	}

	dispatch := ebml.DispatchTable{
		IDPrimaryRChromaticityX:   field(&out.PrimaryRChromaticityX, IDPrimaryRChromaticityX),
		IDPrimaryRChromaticityY:   field(&out.PrimaryRChromaticityY, IDPrimaryRChromaticityY),
		IDPrimaryGChromaticityX:   field(&out.PrimaryGChromaticityX, IDPrimaryGChromaticityX),
		IDPrimaryGChromaticityY:   field(&out.PrimaryGChromaticityY, IDPrimaryGChromaticityY),
		IDPrimaryBChromaticityX:   field(&out.PrimaryBChromaticityX, IDPrimaryBChromaticityX),
		IDPrimaryBChromaticityY:   field(&out.PrimaryBChromaticityY, IDPrimaryBChromaticityY),
		IDWhitePointChromaticityX: field(&out.WhitePointChromaticityX, IDWhitePointChromaticityX),
		IDWhitePointChromaticityY: field(&out.WhitePointChromaticityY, IDWhitePointChromaticityY),
		IDLuminanceMax:            field(&out.LuminanceMax, IDLuminanceMax),
		IDLuminanceMin:            field(&out.LuminanceMin, IDLuminanceMin),
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return MasteringMetadata{}, e
	}
	return out, nil
}

// ParseProjection reads a Projection element's children.
func ParseProjection(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Projection, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Projection{}, err
	}

	var out Projection

	dispatch := ebml.DispatchTable{
		IDProjectionType:    func(r *bitio.BitReader, id ebml.ElementID) error { out.Type, err = readUint(r, id); return err },
		IDProjectionPrivate: func(r *bitio.BitReader, id ebml.ElementID) error { out.Private, err = readBinary(r, id); return err },
		IDProjectionPoseYaw: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.PoseYaw, err = readFloat(r, id, 0)
			return err
		},
		IDProjectionPosePitch: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.PosePitch, err = readFloat(r, id, 0)
			return err
		},
		IDProjectionPoseRoll: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.PoseRoll, err = readFloat(r, id, 0)
			return err
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Projection{}, e
	}
	return out, nil
}

// ParseAudio reads an Audio element's children.
func ParseAudio(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Audio, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Audio{}, err
	}

	out := Audio{SamplingFrequency: 8000, Channels: 1}

	dispatch := ebml.DispatchTable{
		IDSamplingFrequency: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.SamplingFrequency, err = readFloat(r, id, 8000)
			return err
		},
		IDOutputSamplingFrequency: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.OutputSamplingFrequency, err = readFloat(r, id, out.SamplingFrequency)
			return err
		},
		IDChannels:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Channels, err = readUint(r, id); return err },
		IDBitDepth:  func(r *bitio.BitReader, id ebml.ElementID) error { out.BitDepth, err = readUint(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Audio{}, e
	}
	if out.OutputSamplingFrequency == 0 {
		out.OutputSamplingFrequency = out.SamplingFrequency
	}
	return out, nil
}

// ParseContentEncodings reads a ContentEncodings element's
// ContentEncoding children.
func ParseContentEncodings(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) ([]ContentEncoding, error) {
	ctx, err := ctx.child()
	if err != nil {
		return nil, err
	}

	var out []ContentEncoding

	dispatch := ebml.DispatchTable{
		IDContentEncoding: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var enc ContentEncoding
			enc, err = parseContentEncoding(r, h, ctx)
			if err != nil {
				return err
			}
			out = append(out, enc)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return nil, e
	}
	return out, nil
}

func parseContentEncoding(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ContentEncoding, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ContentEncoding{}, err
	}

	out := ContentEncoding{Scope: 1}

	dispatch := ebml.DispatchTable{
		IDContentEncodingOrder: func(r *bitio.BitReader, id ebml.ElementID) error { out.Order, err = readUint(r, id); return err },
		IDContentEncodingScope: func(r *bitio.BitReader, id ebml.ElementID) error { out.Scope, err = readUint(r, id); return err },
		IDContentEncodingType:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Type, err = readUint(r, id); return err },
		IDContentCompression: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			c, e := parseContentCompression(r, h, ctx)
			if e != nil {
				return e
			}
			out.Compression = &c
			return nil
		},
		IDContentEncryption: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			enc, e := parseContentEncryption(r, h, ctx)
			if e != nil {
				return e
			}
			out.Encryption = &enc
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ContentEncoding{}, e
	}
	return out, nil
}

func parseContentCompression(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ContentCompression, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ContentCompression{}, err
	}

	var out ContentCompression

	dispatch := ebml.DispatchTable{
		IDContentCompAlgo:     func(r *bitio.BitReader, id ebml.ElementID) error { out.Algo, err = readUint(r, id); return err },
		IDContentCompSettings: func(r *bitio.BitReader, id ebml.ElementID) error { out.Settings, err = readBinary(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ContentCompression{}, e
	}
	return out, nil
}

func parseContentEncryption(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ContentEncryption, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ContentEncryption{}, err
	}

	var out ContentEncryption

	dispatch := ebml.DispatchTable{
		IDContentEncAlgo:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Algo, err = readUint(r, id); return err },
		IDContentEncKeyID: func(r *bitio.BitReader, id ebml.ElementID) error { out.KeyID, err = readBinary(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ContentEncryption{}, e
	}
	return out, nil
}

// WriteTrackEntry writes one complete TrackEntry element.
func WriteTrackEntry(w *bitio.BitWriter, t TrackEntry) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDTrackNum, t.Number); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDTrackUID, t.UID); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDTrackType, t.Type); err != nil {
		return err
	}
	if !t.FlagEnabled {
		if err := writeBoolChildExplicit(bwr, IDFlagEnabled, false); err != nil {
			return err
		}
	}
	if err := writeBoolChild(bwr, IDFlagDefault, t.FlagDefault); err != nil {
		return err
	}
	if err := writeBoolChild(bwr, IDFlagForced, t.FlagForced); err != nil {
		return err
	}
	if !t.FlagLacing {
		if err := writeBoolChildExplicit(bwr, IDFlagLacing, false); err != nil {
			return err
		}
	}
	if err := writeStringChild(bwr, IDTrackName, t.Name); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDLanguage, t.Language); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDCodecID, t.CodecID); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDCodecPriv, t.CodecPriv); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDCodecName, t.CodecName); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDCodecDelay, t.CodecDelay); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDSeekPreRoll, t.SeekPreRoll); err != nil {
		return err
	}
	if t.Video != nil {
		if err := writeVideo(bwr, *t.Video); err != nil {
			return err
		}
	}
	if t.Audio != nil {
		if err := writeAudio(bwr, *t.Audio); err != nil {
			return err
		}
	}
	if len(t.ContentEncodings) > 0 {
		if err := writeContentEncodings(bwr, t.ContentEncodings); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDTrackEntry)
}

// writeBoolChildExplicit writes a bool leaf unconditionally, used for
// fields whose Matroska default is true (FlagEnabled, FlagLacing) so a
// false value must be emitted rather than omitted.
func writeBoolChildExplicit(w *bitio.BitWriter, id ebml.ElementID, v bool) error {
	if err := ebml.WriteHeader(w, id, 1, false); err != nil {
		return err
	}
	return ebml.WriteBoolLeaf(w, v, !v)
}

func writeVideo(w *bitio.BitWriter, v Video) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeBoolChild(bwr, IDFlagInterlaced, v.FlagInterlaced); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDPixelWidth, v.PixelWidth); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDPixelHeight, v.PixelHeight); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDDisplayWidth, v.DisplayWidth); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDDisplayHeight, v.DisplayHeight); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDDisplayUnit, v.DisplayUnit); err != nil {
		return err
	}
	if v.Colour != nil {
		if err := writeColour(bwr, *v.Colour); err != nil {
			return err
		}
	}
	if v.Projection != nil {
		if err := writeProjection(bwr, *v.Projection); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDVideo)
}

func writeColour(w *bitio.BitWriter, c Colour) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	fields := []struct {
		id ebml.ElementID
		v  uint64
	}{
		{IDMatrixCoefficients, c.MatrixCoefficients},
		{IDBitsPerChannel, c.BitsPerChannel},
		{IDChromaSubsamplingHorz, c.ChromaSubsamplingHorz},
		{IDChromaSubsamplingVert, c.ChromaSubsamplingVert},
		{IDCbSubsamplingHorz, c.CbSubsamplingHorz},
		{IDCbSubsamplingVert, c.CbSubsamplingVert},
		{IDChromaSitingHorz, c.ChromaSitingHorz},
		{IDChromaSitingVert, c.ChromaSitingVert},
		{IDRange, c.Range},
		{IDTransferCharacteristics, c.TransferCharacteristics},
		{IDPrimaries, c.Primaries},
		{IDMaxCLL, c.MaxCLL},
		{IDMaxFALL, c.MaxFALL},
	}
	for _, f := range fields {
		if err := writeUintChild(bwr, f.id, f.v); err != nil {
			return err
		}
	}
	if c.Mastering != nil {
		if err := writeMasteringMetadata(bwr, *c.Mastering); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDColour)
}

func writeMasteringMetadata(w *bitio.BitWriter, m MasteringMetadata) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	fields := []struct {
		id ebml.ElementID
		v  float64
	}{
		{IDPrimaryRChromaticityX, m.PrimaryRChromaticityX},
		{IDPrimaryRChromaticityY, m.PrimaryRChromaticityY},
		{IDPrimaryGChromaticityX, m.PrimaryGChromaticityX},
		{IDPrimaryGChromaticityY, m.PrimaryGChromaticityY},
		{IDPrimaryBChromaticityX, m.PrimaryBChromaticityX},
		{IDPrimaryBChromaticityY, m.PrimaryBChromaticityY},
		{IDWhitePointChromaticityX, m.WhitePointChromaticityX},
		{IDWhitePointChromaticityY, m.WhitePointChromaticityY},
		{IDLuminanceMax, m.LuminanceMax},
		{IDLuminanceMin, m.LuminanceMin},
	}
	for _, f := range fields {
		if err := writeFloatChild(bwr, f.id, f.v); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDMasteringMetadata)
}

func writeProjection(w *bitio.BitWriter, p Projection) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDProjectionType, p.Type); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDProjectionPrivate, p.Private); err != nil {
		return err
	}
	if err := writeFloatChild(bwr, IDProjectionPoseYaw, p.PoseYaw); err != nil {
		return err
	}
	if err := writeFloatChild(bwr, IDProjectionPosePitch, p.PosePitch); err != nil {
		return err
	}
	if err := writeFloatChild(bwr, IDProjectionPoseRoll, p.PoseRoll); err != nil {
		return err
	}
	return bw.Finish(w, IDProjection)
}

func writeAudio(w *bitio.BitWriter, a Audio) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := ebml.WriteHeader(bwr, IDSamplingFrequency, 8, false); err != nil {
		return err
	}
	if err := ebml.WriteFloatLeaf(bwr, a.SamplingFrequency); err != nil {
		return err
	}
	if err := writeFloatChild(bwr, IDOutputSamplingFrequency, a.OutputSamplingFrequency); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDChannels, a.Channels); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDBitDepth, a.BitDepth); err != nil {
		return err
	}
	return bw.Finish(w, IDAudio)
}

func writeContentEncodings(w *bitio.BitWriter, encs []ContentEncoding) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	for _, enc := range encs {
		if err := writeContentEncoding(bwr, enc); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDContentEncodings)
}

func writeContentEncoding(w *bitio.BitWriter, enc ContentEncoding) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDContentEncodingOrder, enc.Order); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDContentEncodingScope, enc.Scope); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDContentEncodingType, enc.Type); err != nil {
		return err
	}
	if enc.Compression != nil {
		if err := writeContentCompression(bwr, *enc.Compression); err != nil {
			return err
		}
	}
	if enc.Encryption != nil {
		if err := writeContentEncryption(bwr, *enc.Encryption); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDContentEncoding)
}

func writeContentCompression(w *bitio.BitWriter, c ContentCompression) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDContentCompAlgo, c.Algo); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDContentCompSettings, c.Settings); err != nil {
		return err
	}
	return bw.Finish(w, IDContentCompression)
}

func writeContentEncryption(w *bitio.BitWriter, c ContentEncryption) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDContentEncAlgo, c.Algo); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDContentEncKeyID, c.KeyID); err != nil {
		return err
	}
	return bw.Finish(w, IDContentEncryption)
}
