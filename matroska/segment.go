package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseSeekHead reads a SeekHead element's Seek children.
func ParseSeekHead(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (SeekHead, error) {
	ctx, err := ctx.child()
	if err != nil {
		return SeekHead{}, err
	}

	var out SeekHead

	dispatch := ebml.DispatchTable{
		IDSeek: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var s Seek
			s, err = parseSeek(r, h, ctx)
			if err != nil {
				return err
			}
			out.Seeks = append(out.Seeks, s)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return SeekHead{}, e
	}
	return out, nil
}

func parseSeek(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Seek, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Seek{}, err
	}

	var out Seek

	dispatch := ebml.DispatchTable{
		IDSeekID:  func(r *bitio.BitReader, id ebml.ElementID) error { out.ID, err = readBinary(r, id); return err },
		IDSeekPos: func(r *bitio.BitReader, id ebml.ElementID) error { out.Position, err = readUint(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Seek{}, e
	}
	return out, nil
}

// ParseSegment reads a complete Segment element, including every Cluster:
// it is the whole-file, in-memory counterpart to the streaming ReadPacket
// loop the root Demuxer exposes (see DESIGN.md for why clusters are parsed
// eagerly here rather than indexed and re-visited lazily).
func ParseSegment(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Segment, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Segment{}, err
	}

	out := Segment{Info: Info{TimestampScale: 1000000}}

	dispatch := ebml.DispatchTable{
		IDSeekHead: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			sh, e := ParseSeekHead(r, h, ctx)
			if e != nil {
				return e
			}
			out.SeekHead = &sh
			return nil
		},
		IDSegmentInfo: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.Info, err = ParseInfo(r, h, ctx)
			return err
		},
		IDTracks: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.Tracks, err = ParseTracks(r, h, ctx)
			return err
		},
		IDCues: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			cues, e := ParseCues(r, h, ctx)
			if e != nil {
				return e
			}
			out.Cues = &cues
			return nil
		},
		IDChapters: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			ch, e := ParseChapters(r, h, ctx)
			if e != nil {
				return e
			}
			out.Chapters = &ch
			return nil
		},
		IDTags: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			tags, e := ParseTags(r, h, ctx)
			if e != nil {
				return e
			}
			out.Tags = &tags
			return nil
		},
		IDAttachments: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			att, e := ParseAttachments(r, h, ctx)
			if e != nil {
				return e
			}
			out.Attachments = &att
			return nil
		},
		IDCluster: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			c, e := ParseCluster(r, h, ctx)
			if e != nil {
				return e
			}
			out.Clusters = append(out.Clusters, c)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, segmentTerminators, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Segment{}, e
	}
	return out, nil
}

// ParseFile reads an entire Matroska/WebM stream: the EBMLHeader followed
// by the Segment. crcTap is the CRC-tapping decorator already wrapping r's
// underlying byte source — the caller owns its construction, since it has
// to wrap the source before r itself is built (see DESIGN.md) — and is
// only actually consulted when opts.ValidateCRC32 is set.
func ParseFile(r *bitio.BitReader, crcTap *bitio.CRCTapSource, opts ReadOptions) (EBMLHeader, Segment, error) {
	ctx := newParseCtx(opts, crcTap)

	hdr, err := ebml.ReadHeader(r, IDEBMLHeader)
	if err != nil {
		return EBMLHeader{}, Segment{}, err
	}
	ebmlHdr, err := ParseEBMLHeader(r, hdr, ctx)
	if err != nil {
		return EBMLHeader{}, Segment{}, err
	}

	segHdr, err := ebml.ReadHeader(r, IDSegment)
	if err != nil {
		return EBMLHeader{}, Segment{}, err
	}
	seg, err := ParseSegment(r, segHdr, ctx)
	if err != nil {
		return EBMLHeader{}, Segment{}, err
	}
	return ebmlHdr, seg, nil
}
