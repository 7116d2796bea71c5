package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseInfo reads a SegmentInfo element's children.
func ParseInfo(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Info, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Info{}, err
	}

	out := Info{TimestampScale: 1000000}

	dispatch := ebml.DispatchTable{
		IDSegmentUID:      func(r *bitio.BitReader, id ebml.ElementID) error { out.SegmentUID, err = readBinary(r, id); return err },
		IDSegmentFilename: func(r *bitio.BitReader, id ebml.ElementID) error { out.SegmentFilename, err = readString(r, id); return err },
		IDPrevUID:         func(r *bitio.BitReader, id ebml.ElementID) error { out.PrevUID, err = readBinary(r, id); return err },
		IDPrevFilename:    func(r *bitio.BitReader, id ebml.ElementID) error { out.PrevFilename, err = readString(r, id); return err },
		IDNextUID:         func(r *bitio.BitReader, id ebml.ElementID) error { out.NextUID, err = readBinary(r, id); return err },
		IDNextFilename:    func(r *bitio.BitReader, id ebml.ElementID) error { out.NextFilename, err = readString(r, id); return err },
		IDSegmentFamily:   func(r *bitio.BitReader, id ebml.ElementID) error { out.SegmentFamily, err = readBinary(r, id); return err },
		IDTimestampScale:  func(r *bitio.BitReader, id ebml.ElementID) error { out.TimestampScale, err = readUint(r, id); return err },
		IDDuration: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.Duration, err = readFloat(r, id, 0)
			return err
		},
		IDDateUTC: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.DateUTC, err = ebml.ReadDateLeaf(r, h.Size)
			return err
		},
		IDTitle:      func(r *bitio.BitReader, id ebml.ElementID) error { out.Title, err = readString(r, id); return err },
		IDMuxingApp:  func(r *bitio.BitReader, id ebml.ElementID) error { out.MuxingApp, err = readString(r, id); return err },
		IDWritingApp: func(r *bitio.BitReader, id ebml.ElementID) error { out.WritingApp, err = readString(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Info{}, e
	}
	return out, nil
}

// WriteInfo writes a complete SegmentInfo element.
func WriteInfo(w *bitio.BitWriter, info Info) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeBinaryChild(bwr, IDSegmentUID, info.SegmentUID); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDSegmentFilename, info.SegmentFilename); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDPrevUID, info.PrevUID); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDPrevFilename, info.PrevFilename); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDNextUID, info.NextUID); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDNextFilename, info.NextFilename); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDSegmentFamily, info.SegmentFamily); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDTimestampScale, info.TimestampScale); err != nil {
		return err
	}
	if err := writeFloatChild(bwr, IDDuration, info.Duration); err != nil {
		return err
	}
	if !info.DateUTC.IsZero() {
		if err := ebml.WriteHeader(bwr, IDDateUTC, 8, false); err != nil {
			return err
		}
		if err := ebml.WriteDateLeaf(bwr, info.DateUTC); err != nil {
			return err
		}
	}
	if err := writeStringChild(bwr, IDTitle, info.Title); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDMuxingApp, info.MuxingApp); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDWritingApp, info.WritingApp); err != nil {
		return err
	}
	return bw.Finish(w, IDSegmentInfo)
}
