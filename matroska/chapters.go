package matroska

import (
	"time"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseChapters reads a Chapters element's EditionEntry children.
func ParseChapters(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Chapters, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Chapters{}, err
	}

	var out Chapters

	dispatch := ebml.DispatchTable{
		IDEditionEntry: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var ed EditionEntry
			ed, err = parseEditionEntry(r, h, ctx)
			if err != nil {
				return err
			}
			out.Editions = append(out.Editions, ed)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Chapters{}, e
	}
	return out, nil
}

func parseEditionEntry(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (EditionEntry, error) {
	ctx, err := ctx.child()
	if err != nil {
		return EditionEntry{}, err
	}

	var out EditionEntry

	dispatch := ebml.DispatchTable{
		IDEditionUID: func(r *bitio.BitReader, id ebml.ElementID) error { out.UID, err = readUint(r, id); return err },
		IDEditionFlagHidden: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagHidden, err = readBool(r, id, false)
			return err
		},
		IDEditionFlagDefault: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagDefault, err = readBool(r, id, false)
			return err
		},
		IDEditionFlagOrdered: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagOrdered, err = readBool(r, id, false)
			return err
		},
		IDChapterAtom: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var atom ChapterAtom
			atom, err = parseChapterAtom(r, h, ctx)
			if err != nil {
				return err
			}
			out.Atoms = append(out.Atoms, atom)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return EditionEntry{}, e
	}
	return out, nil
}

func parseChapterAtom(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ChapterAtom, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ChapterAtom{}, err
	}

	out := ChapterAtom{FlagEnabled: true}

	dispatch := ebml.DispatchTable{
		IDChapterUID:       func(r *bitio.BitReader, id ebml.ElementID) error { out.UID, err = readUint(r, id); return err },
		IDChapterStringUID: func(r *bitio.BitReader, id ebml.ElementID) error { out.StringUID, err = readString(r, id); return err },
		IDChapterTimeStart: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			out.TimeStart = time.Duration(v)
			return err
		},
		IDChapterTimeEnd: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			out.TimeEnd = time.Duration(v)
			return err
		},
		IDChapterFlagHidden: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagHidden, err = readBool(r, id, false)
			return err
		},
		IDChapterFlagEnabled: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.FlagEnabled, err = readBool(r, id, true)
			return err
		},
		IDChapterSegmentUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.SegmentUID, err = readBinary(r, id)
			return err
		},
		IDChapterSegmentEditionUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			out.SegmentEditionUID, err = readUint(r, id)
			return err
		},
		IDChapterTrack: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			out.Tracks, err = parseChapterTrack(r, h, ctx)
			return err
		},
		IDChapterDisplay: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var d ChapterDisplay
			d, err = parseChapterDisplay(r, h, ctx)
			if err != nil {
				return err
			}
			out.Displays = append(out.Displays, d)
			return nil
		},
		IDChapProcess: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var p ChapProcess
			p, err = parseChapProcess(r, h, ctx)
			if err != nil {
				return err
			}
			out.Process = append(out.Process, p)
			return nil
		},
		// A ChapterAtom may itself contain child ChapterAtoms; this shares
		// the same element ID as its parent, so the dispatch handler
		// recurses directly rather than going through EditionEntry.
		IDChapterAtom: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var child ChapterAtom
			child, err = parseChapterAtom(r, h, ctx)
			if err != nil {
				return err
			}
			out.Children = append(out.Children, child)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ChapterAtom{}, e
	}
	return out, nil
}

func parseChapterTrack(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) ([]uint64, error) {
	ctx, err := ctx.child()
	if err != nil {
		return nil, err
	}

	var out []uint64

	dispatch := ebml.DispatchTable{
		IDChapterTrackUID: func(r *bitio.BitReader, id ebml.ElementID) error {
			var v uint64
			v, err = readUint(r, id)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return nil, e
	}
	return out, nil
}

func parseChapterDisplay(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ChapterDisplay, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ChapterDisplay{}, err
	}

	var out ChapterDisplay

	dispatch := ebml.DispatchTable{
		IDChapString:   func(r *bitio.BitReader, id ebml.ElementID) error { out.String, err = readString(r, id); return err },
		IDChapLanguage: func(r *bitio.BitReader, id ebml.ElementID) error { out.Language, err = readString(r, id); return err },
		IDChapCountry:  func(r *bitio.BitReader, id ebml.ElementID) error { out.Country, err = readString(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ChapterDisplay{}, e
	}
	return out, nil
}

func parseChapProcess(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ChapProcess, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ChapProcess{}, err
	}

	var out ChapProcess

	dispatch := ebml.DispatchTable{
		IDChapProcessCodecID: func(r *bitio.BitReader, id ebml.ElementID) error { out.CodecID, err = readUint(r, id); return err },
		IDChapProcessPrivate: func(r *bitio.BitReader, id ebml.ElementID) error { out.Private, err = readBinary(r, id); return err },
		IDChapProcessCommand: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var cmd ChapProcessCommand
			cmd, err = parseChapProcessCommand(r, h, ctx)
			if err != nil {
				return err
			}
			out.Commands = append(out.Commands, cmd)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ChapProcess{}, e
	}
	return out, nil
}

func parseChapProcessCommand(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (ChapProcessCommand, error) {
	ctx, err := ctx.child()
	if err != nil {
		return ChapProcessCommand{}, err
	}

	var out ChapProcessCommand

	dispatch := ebml.DispatchTable{
		IDChapProcessTime: func(r *bitio.BitReader, id ebml.ElementID) error { out.Time, err = readUint(r, id); return err },
		IDChapProcessData: func(r *bitio.BitReader, id ebml.ElementID) error { out.Data, err = readBinary(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return ChapProcessCommand{}, e
	}
	return out, nil
}

// WriteChapters writes a complete Chapters element.
func WriteChapters(w *bitio.BitWriter, ch Chapters) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	for _, ed := range ch.Editions {
		if err := writeEditionEntry(bwr, ed); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDChapters)
}

func writeEditionEntry(w *bitio.BitWriter, ed EditionEntry) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDEditionUID, ed.UID); err != nil {
		return err
	}
	if err := writeBoolChild(bwr, IDEditionFlagHidden, ed.FlagHidden); err != nil {
		return err
	}
	if err := writeBoolChild(bwr, IDEditionFlagDefault, ed.FlagDefault); err != nil {
		return err
	}
	if err := writeBoolChild(bwr, IDEditionFlagOrdered, ed.FlagOrdered); err != nil {
		return err
	}
	for _, atom := range ed.Atoms {
		if err := writeChapterAtom(bwr, atom); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDEditionEntry)
}

func writeChapterAtom(w *bitio.BitWriter, a ChapterAtom) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDChapterUID, a.UID); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDChapterStringUID, a.StringUID); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDChapterTimeStart, uint64(a.TimeStart)); err != nil {
		return err
	}
	if a.TimeEnd != 0 {
		if err := writeUintChild(bwr, IDChapterTimeEnd, uint64(a.TimeEnd)); err != nil {
			return err
		}
	}
	if err := writeBoolChild(bwr, IDChapterFlagHidden, a.FlagHidden); err != nil {
		return err
	}
	if !a.FlagEnabled {
		if err := writeBoolChildExplicit(bwr, IDChapterFlagEnabled, false); err != nil {
			return err
		}
	}
	if err := writeBinaryChild(bwr, IDChapterSegmentUID, a.SegmentUID); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDChapterSegmentEditionUID, a.SegmentEditionUID); err != nil {
		return err
	}
	if len(a.Tracks) > 0 {
		tbw := ebml.NewBufferedMasterWriter()
		for _, uid := range a.Tracks {
			if err := writeUintChild(tbw.Writer(), IDChapterTrackUID, uid); err != nil {
				return err
			}
		}
		if err := tbw.Finish(bwr, IDChapterTrack); err != nil {
			return err
		}
	}
	for _, d := range a.Displays {
		if err := writeChapterDisplay(bwr, d); err != nil {
			return err
		}
	}
	for _, p := range a.Process {
		if err := writeChapProcess(bwr, p); err != nil {
			return err
		}
	}
	for _, child := range a.Children {
		if err := writeChapterAtom(bwr, child); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDChapterAtom)
}

func writeChapterDisplay(w *bitio.BitWriter, d ChapterDisplay) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeStringChild(bwr, IDChapString, d.String); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDChapLanguage, d.Language); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDChapCountry, d.Country); err != nil {
		return err
	}
	return bw.Finish(w, IDChapterDisplay)
}

func writeChapProcess(w *bitio.BitWriter, p ChapProcess) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDChapProcessCodecID, p.CodecID); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDChapProcessPrivate, p.Private); err != nil {
		return err
	}
	for _, cmd := range p.Commands {
		cbw := ebml.NewBufferedMasterWriter()
		cbwr := cbw.Writer()
		if err := writeUintChild(cbwr, IDChapProcessTime, cmd.Time); err != nil {
			return err
		}
		if err := writeBinaryChild(cbwr, IDChapProcessData, cmd.Data); err != nil {
			return err
		}
		if err := cbw.Finish(bwr, IDChapProcessCommand); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDChapProcess)
}
