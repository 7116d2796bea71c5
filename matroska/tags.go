package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseTags reads a Tags element's Tag children.
func ParseTags(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Tags, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Tags{}, err
	}

	var out Tags

	dispatch := ebml.DispatchTable{
		IDTag: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var tag Tag
			tag, err = parseTag(r, h, ctx)
			if err != nil {
				return err
			}
			out.Tags = append(out.Tags, tag)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Tags{}, e
	}
	return out, nil
}

func parseTag(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Tag, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Tag{}, err
	}

	var out Tag

	dispatch := ebml.DispatchTable{
		IDTargets: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.Targets, err = parseTargets(r, h, ctx)
			return err
		},
		IDSimpleTag: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var st SimpleTag
			st, err = parseSimpleTag(r, h, ctx)
			if err != nil {
				return err
			}
			out.Simple = append(out.Simple, st)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Tag{}, e
	}
	return out, nil
}

func parseTargets(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Targets, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Targets{}, err
	}

	out := Targets{TypeValue: 50}

	dispatch := ebml.DispatchTable{
		IDTargetTypeValue: func(r *bitio.BitReader, id ebml.ElementID) error { out.TypeValue, err = readUint(r, id); return err },
		IDTargetType:      func(r *bitio.BitReader, id ebml.ElementID) error { out.Type, err = readString(r, id); return err },
		IDTagTrackUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			if err != nil {
				return err
			}
			out.TrackUIDs = append(out.TrackUIDs, v)
			return nil
		},
		IDTagEditionUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			if err != nil {
				return err
			}
			out.EditionUIDs = append(out.EditionUIDs, v)
			return nil
		},
		IDTagChapterUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			if err != nil {
				return err
			}
			out.ChapterUIDs = append(out.ChapterUIDs, v)
			return nil
		},
		IDTagAttachmentUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			if err != nil {
				return err
			}
			out.AttachmentUIDs = append(out.AttachmentUIDs, v)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Targets{}, e
	}
	return out, nil
}

func parseSimpleTag(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (SimpleTag, error) {
	ctx, err := ctx.child()
	if err != nil {
		return SimpleTag{}, err
	}

	out := SimpleTag{Default: true}

	dispatch := ebml.DispatchTable{
		IDTagName:     func(r *bitio.BitReader, id ebml.ElementID) error { out.Name, err = readString(r, id); return err },
		IDTagLanguage: func(r *bitio.BitReader, id ebml.ElementID) error { out.Language, err = readString(r, id); return err },
		IDTagDefault: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.Default, err = readBool(r, id, true)
			return err
		},
		IDTagString: func(r *bitio.BitReader, id ebml.ElementID) error { out.String, err = readString(r, id); return err },
		IDTagBinary: func(r *bitio.BitReader, id ebml.ElementID) error { out.Binary, err = readBinary(r, id); return err },
		// SimpleTag may nest further SimpleTag children (a name/value group).
		IDSimpleTag: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var nested SimpleTag
			nested, err = parseSimpleTag(r, h, ctx)
			if err != nil {
				return err
			}
			out.Nested = append(out.Nested, nested)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return SimpleTag{}, e
	}
	return out, nil
}

// WriteTags writes a complete Tags element.
func WriteTags(w *bitio.BitWriter, tags Tags) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	for _, t := range tags.Tags {
		if err := writeTag(bwr, t); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDTags)
}

func writeTag(w *bitio.BitWriter, t Tag) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeTargets(bwr, t.Targets); err != nil {
		return err
	}
	for _, st := range t.Simple {
		if err := writeSimpleTag(bwr, st); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDTag)
}

func writeTargets(w *bitio.BitWriter, t Targets) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDTargetTypeValue, t.TypeValue); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDTargetType, t.Type); err != nil {
		return err
	}
	for _, v := range t.TrackUIDs {
		if err := writeUintChild(bwr, IDTagTrackUID, v); err != nil {
			return err
		}
	}
	for _, v := range t.EditionUIDs {
		if err := writeUintChild(bwr, IDTagEditionUID, v); err != nil {
			return err
		}
	}
	for _, v := range t.ChapterUIDs {
		if err := writeUintChild(bwr, IDTagChapterUID, v); err != nil {
			return err
		}
	}
	for _, v := range t.AttachmentUIDs {
		if err := writeUintChild(bwr, IDTagAttachmentUID, v); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDTargets)
}

func writeSimpleTag(w *bitio.BitWriter, st SimpleTag) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeStringChild(bwr, IDTagName, st.Name); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDTagLanguage, st.Language); err != nil {
		return err
	}
	if !st.Default {
		if err := writeBoolChildExplicit(bwr, IDTagDefault, false); err != nil {
			return err
		}
	}
	if err := writeStringChild(bwr, IDTagString, st.String); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDTagBinary, st.Binary); err != nil {
		return err
	}
	for _, n := range st.Nested {
		if err := writeSimpleTag(bwr, n); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDSimpleTag)
}
