package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/block"
	"github.com/arvidsson/bml/ebml"
)

// readRawBlock reads one SimpleBlock/Block element's header at id, then
// either materialises the whole payload (ctx.readMedia) or parses just the
// block header and lacing table, leaving frame bytes on the wire as a
// Known byte range (see RawBlock and block.ParseBlockStreaming).
func readRawBlock(r *bitio.BitReader, id ebml.ElementID, ctx *parseCtx) (RawBlock, error) {
	hdr, err := ebml.ReadHeader(r, id)
	if err != nil {
		return RawBlock{}, err
	}
	if ctx.readMedia {
		raw, err := ebml.ReadBinaryLeaf(r, hdr.Size)
		if err != nil {
			return RawBlock{}, err
		}
		return RawBlock{Bytes: raw}, nil
	}
	blk, err := block.ParseBlockStreaming(r, hdr.Size)
	if err != nil {
		return RawBlock{}, err
	}
	return RawBlock{Parsed: blk}, nil
}

// ParseCluster reads a Cluster element's children. Cluster is one of the
// elements that legally carries an unknown size, so hdr.SizeUnknown drives
// the ChunkedReader into byte-exhaustion mode bounded by clusterTerminators.
func ParseCluster(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Cluster, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Cluster{}, err
	}

	var out Cluster

	dispatch := ebml.DispatchTable{
		IDTimestamp: func(r *bitio.BitReader, id ebml.ElementID) error { out.Timestamp, err = readUint(r, id); return err },
		IDPosition:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Position, err = readUint(r, id); return err },
		IDPrevSize:  func(r *bitio.BitReader, id ebml.ElementID) error { out.PrevSize, err = readUint(r, id); return err },
		IDSimpleBlock: func(r *bitio.BitReader, id ebml.ElementID) error {
			rb, e := readRawBlock(r, id, ctx)
			if e != nil {
				return e
			}
			out.SimpleBlocks = append(out.SimpleBlocks, rb)
			return nil
		},
		IDBlockGroup: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			bg, e := ParseBlockGroup(r, h, ctx)
			if e != nil {
				return e
			}
			out.BlockGroups = append(out.BlockGroups, bg)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, clusterTerminators, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Cluster{}, e
	}
	return out, nil
}

// ParseBlockGroup reads a BlockGroup element's children.
func ParseBlockGroup(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (BlockGroup, error) {
	ctx, err := ctx.child()
	if err != nil {
		return BlockGroup{}, err
	}

	out := BlockGroup{ReferencePriority: 0}

	dispatch := ebml.DispatchTable{
		IDBlock: func(r *bitio.BitReader, id ebml.ElementID) error {
			rb, e := readRawBlock(r, id, ctx)
			if e != nil {
				return e
			}
			out.Block = rb
			return nil
		},
		IDBlockDuration: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.BlockDuration, err = readUint(r, id)
			return err
		},
		IDReferencePriority: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.ReferencePriority, err = readUint(r, id)
			return err
		},
		IDReferenceBlock: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v int64
			v, err = readInt(r, id)
			if err != nil {
				return err
			}
			out.ReferenceBlocks = append(out.ReferenceBlocks, v)
			return nil
		},
		IDCodecState: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.CodecState, err = readBinary(r, id)
			return err
		},
		IDDiscardPadding: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.DiscardPadding, err = readInt(r, id)
			return err
		},
		IDBlockAdditions: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.Additions, err = parseBlockAdditions(r, h, ctx)
			return err
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return BlockGroup{}, e
	}
	return out, nil
}

func parseBlockAdditions(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) ([]BlockMore, error) {
	ctx, err := ctx.child()
	if err != nil {
		return nil, err
	}

	var out []BlockMore

	dispatch := ebml.DispatchTable{
		IDBlockMore: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var bm BlockMore
			bm, err = parseBlockMore(r, h, ctx)
			if err != nil {
				return err
			}
			out = append(out, bm)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return nil, e
	}
	return out, nil
}

func parseBlockMore(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (BlockMore, error) {
	ctx, err := ctx.child()
	if err != nil {
		return BlockMore{}, err
	}

	out := BlockMore{AddID: 1}

	dispatch := ebml.DispatchTable{
		IDBlockAddID:      func(r *bitio.BitReader, id ebml.ElementID) error { out.AddID, err = readUint(r, id); return err },
		IDBlockAdditional: func(r *bitio.BitReader, id ebml.ElementID) error { out.Additional, err = readBinary(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return BlockMore{}, e
	}
	return out, nil
}

// WriteCluster writes a complete Cluster element with a known size (the
// unknown-size streaming form is a muxer-time choice left to the caller via
// ebml.WriteHeader directly). Only RawBlock.Bytes is written: a RawBlock
// whose Bytes is nil (as parsed with ReadMediaData=false) is omitted from
// the output, and block.FillFrameData does not change that, since it
// returns the frame bytes without setting Bytes.
func WriteCluster(w *bitio.BitWriter, c Cluster) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDTimestamp, c.Timestamp); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDPosition, c.Position); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDPrevSize, c.PrevSize); err != nil {
		return err
	}
	for _, sb := range c.SimpleBlocks {
		if err := writeBinaryChild(bwr, IDSimpleBlock, sb.Bytes); err != nil {
			return err
		}
	}
	for _, bg := range c.BlockGroups {
		if err := writeBlockGroup(bwr, bg); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDCluster)
}

func writeBlockGroup(w *bitio.BitWriter, bg BlockGroup) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeBinaryChild(bwr, IDBlock, bg.Block.Bytes); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDBlockDuration, bg.BlockDuration); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDReferencePriority, bg.ReferencePriority); err != nil {
		return err
	}
	for _, ref := range bg.ReferenceBlocks {
		if err := writeIntChild(bwr, IDReferenceBlock, ref); err != nil {
			return err
		}
	}
	if err := writeBinaryChild(bwr, IDCodecState, bg.CodecState); err != nil {
		return err
	}
	if bg.DiscardPadding != 0 {
		if err := writeIntChild(bwr, IDDiscardPadding, bg.DiscardPadding); err != nil {
			return err
		}
	}
	if len(bg.Additions) > 0 {
		abw := ebml.NewBufferedMasterWriter()
		abwr := abw.Writer()
		for _, add := range bg.Additions {
			if err := writeBlockMore(abwr, add); err != nil {
				return err
			}
		}
		if err := abw.Finish(bwr, IDBlockAdditions); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDBlockGroup)
}

func writeBlockMore(w *bitio.BitWriter, bm BlockMore) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDBlockAddID, bm.AddID); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDBlockAdditional, bm.Additional); err != nil {
		return err
	}
	return bw.Finish(w, IDBlockMore)
}
