package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// ParseEBMLHeader reads the EBMLHeader element's children, hdr having
// already consumed the EBMLHeader element's own header.
func ParseEBMLHeader(r *bitio.BitReader, hdr ebml.Header, ctx *parseCtx) (EBMLHeader, error) {
	ctx, err := ctx.child()
	if err != nil {
		return EBMLHeader{}, err
	}

	out := EBMLHeader{
		Version:            1,
		ReadVersion:        1,
		MaxIDLength:        4,
		MaxSizeLength:      8,
		DocType:            "matroska",
		DocTypeVersion:     1,
		DocTypeReadVersion: 1,
	}

	dispatch := ebml.DispatchTable{
		IDEBMLVersion: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.Version, err = ebml.ReadUintLeaf(r, h.Size)
			return err
		},
		IDEBMLReadVersion: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.ReadVersion, err = ebml.ReadUintLeaf(r, h.Size)
			return err
		},
		IDEBMLMaxIDLength: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.MaxIDLength, err = ebml.ReadUintLeaf(r, h.Size)
			return err
		},
		IDEBMLMaxSizeLength: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.MaxSizeLength, err = ebml.ReadUintLeaf(r, h.Size)
			return err
		},
		IDEBMLDocType: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.DocType, err = ebml.ReadStringLeaf(r, h.Size, out.DocType)
			return err
		},
		IDEBMLDocTypeVersion: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.DocTypeVersion, err = ebml.ReadUintLeaf(r, h.Size)
			return err
		},
		IDEBMLDocTypeReadVersion: func(r *bitio.BitReader, id ebml.ElementID) error {
			h, err := ebml.ReadHeader(r, id)
			if err != nil {
				return err
			}
			out.DocTypeReadVersion, err = ebml.ReadUintLeaf(r, h.Size)
			return err
		},
	}

	cr := ebml.NewChunkedReader(r, hdr, dispatch, nil, ctx.warn, ctx.crcTap)
	if err := ebml.Drain(cr, nil); err != nil {
		return EBMLHeader{}, err
	}
	return out, nil
}

// WriteEBMLHeader writes a complete EBMLHeader element.
func WriteEBMLHeader(w *bitio.BitWriter, h EBMLHeader) error {
	bw := ebml.NewBufferedMasterWriter()
	bwr := bw.Writer()
	if err := writeUintChild(bwr, IDEBMLVersion, h.Version); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDEBMLReadVersion, h.ReadVersion); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDEBMLMaxIDLength, h.MaxIDLength); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDEBMLMaxSizeLength, h.MaxSizeLength); err != nil {
		return err
	}
	if err := writeStringChild(bwr, IDEBMLDocType, h.DocType); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDEBMLDocTypeVersion, h.DocTypeVersion); err != nil {
		return err
	}
	if err := writeUintChild(bwr, IDEBMLDocTypeReadVersion, h.DocTypeReadVersion); err != nil {
		return err
	}
	return bw.Finish(w, IDEBMLHeader)
}
