package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseAttachments reads an Attachments element's AttachedFile children.
func ParseAttachments(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (Attachments, error) {
	ctx, err := ctx.child()
	if err != nil {
		return Attachments{}, err
	}

	var out Attachments

	dispatch := ebml.DispatchTable{
		IDAttachedFile: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, e := ebml.ReadHeader(r, id)
			if e != nil {
				return e
			}
			var f AttachedFile
			f, err = parseAttachedFile(r, h, ctx)
			if err != nil {
				return err
			}
			out.Files = append(out.Files, f)
			return nil
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return Attachments{}, e
	}
	return out, nil
}

func parseAttachedFile(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (AttachedFile, error) {
	ctx, err := ctx.child()
	if err != nil {
		return AttachedFile{}, err
	}

	var out AttachedFile

	dispatch := ebml.DispatchTable{
		IDFileDescription: func(r *bitio.BitReader, id ebml.ElementID) error { out.Description, err = readString(r, id); return err },
		IDFileName:        func(r *bitio.BitReader, id ebml.ElementID) error { out.Name, err = readString(r, id); return err },
		IDFileMimeType:    func(r *bitio.BitReader, id ebml.ElementID) error { out.MimeType, err = readString(r, id); return err },
		IDFileData:        func(r *bitio.BitReader, id ebml.ElementID) error { out.Data, err = readBinary(r, id); return err },
		IDFileUID:         func(r *bitio.BitReader, id ebml.ElementID) error { out.UID, err = readUint(r, id); return err },
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if e := ebml.Drain(cr, nil); e != nil {
		return AttachedFile{}, e
	}
	return out, nil
}

// WriteAttachments writes a complete Attachments element.
func WriteAttachments(w *bitio.BitWriter, att Attachments) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	for _, f := range att.Files {
		if err := writeAttachedFile(bwr, f); err != nil {
			return err
		}
	}
	return bw.Finish(w, IDAttachments)
}

func writeAttachedFile(w *bitio.BitWriter, f AttachedFile) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeStringChild(bwr, IDFileDescription, f.Description); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDFileName, f.Name); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDFileMimeType, f.MimeType); err != nil {
		return err
	}
	if err := writeBinaryChild(bwr, IDFileData, f.Data); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDFileUID, f.UID); err != nil {
		return err
	}
	return bw.Finish(w, IDAttachedFile)
}
