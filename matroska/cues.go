package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseCues reads a Cues element's CuePoint children.
func ParseCues(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Cues, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Cues{}, err
	}

	var out Cues

	dispatch := ebml.DispatchTable{
		IDCuePoint: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var cp CuePoint
			cp, err = parseCuePoint(r, h, ctx)
			if err != nil {
				return err
			}
			out.Points = append(out.Points, cp)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Cues{}, e
	}
	return out, nil
}

func parseCuePoint(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (CuePoint, error) {
	ctx, err := ctx.child()
	if err != nil {
		return CuePoint{}, err
	}

	var out CuePoint

	dispatch := ebml.DispatchTable{
		IDCueTime: func(r *bitio.BitReader, id ebml.ElementID) error { out.Time, err = readUint(r, id); return err },
		IDCueTrackPositions: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var pos CueTrackPositions
			pos, err = parseCueTrackPositions(r, h, ctx)
			if err != nil {
				return err
			}
			out.Positions = append(out.Positions, pos)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return CuePoint{}, e
	}
	return out, nil
}

func parseCueTrackPositions(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (CueTrackPositions, error) {
	ctx, err := ctx.child()
	if err != nil {
		return CueTrackPositions{}, err
	}

	var out CueTrackPositions

	dispatch := ebml.DispatchTable{
		IDCueTrack:           func(r *bitio.BitReader, id ebml.ElementID) error { out.Track, err = readUint(r, id); return err },
		IDCueClusterPosition: func(r *bitio.BitReader, id ebml.ElementID) error { out.ClusterPosition, err = readUint(r, id); return err },
		IDCueRelativePosition: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.RelativePosition, err = readUint(r, id)
			return err
		},
		IDCueDuration:     func(r *bitio.BitReader, id ebml.ElementID) error { out.Duration, err = readUint(r, id); return err },
		IDCueBlockNumber:  func(r *bitio.BitReader, id ebml.ElementID) error { out.BlockNumber, err = readUint(r, id); return err },
		IDCueReference: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var ref CueReference
			ref, err = parseCueReference(r, h, ctx)
			if err != nil {
				return err
			}
			out.References = append(out.References, ref)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return CueTrackPositions{}, e
	}
	return out, nil
}

func parseCueReference(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (CueReference, error) {
	ctx, err := ctx.child()
	if err != nil {
		return CueReference{}, err
	}

	var out CueReference

	dispatch := ebml.DispatchTable{
		IDCueRefTime: func(r *bitio.BitReader, id ebml.ElementID) error { out.RefTime, err = readUint(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return CueReference{}, e
	}
	return out, nil
}

// WriteCues writes a complete Cues element.
func WriteCues(w *bitio.BitWriter, cues Cues) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	for _, p := range cues.Points {
		if err := writeCuePoint(bwr, p); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDCues)
}

func writeCuePoint(w *bitio.BitWriter, p CuePoint) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDCueTime, p.Time); err != nil {
		return err
	}
	for _, pos := range p.Positions {
		if err := writeCueTrackPositions(bwr, pos); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDCuePoint)
}

func writeCueTrackPositions(w *bitio.BitWriter, pos CueTrackPositions) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDCueTrack, pos.Track); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDCueClusterPosition, pos.ClusterPosition); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDCueRelativePosition, pos.RelativePosition); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDCueDuration, pos.Duration); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDCueBlockNumber, pos.BlockNumber); err != nil {
		return err
	}
	for _, ref := range pos.References {
		rbw := ebml.NewBufferedMasterWriter()
		if err := writeUintChild(rbw.Writer(), IDCueRefTime, ref.RefTime); err != nil {
			return err
		}
		if err := rbw.Finish(bwr, IDCueReference); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDCueTrackPositions)
}
