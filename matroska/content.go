package matroska

import "github.com/arvidsson/bml/contentcodec"

// DecodeFrame runs a track's ContentEncodings pipeline (in ascending Order)
// over one compressed frame, returning the original payload. Encryption
// stages are not reversed (see DESIGN.md: no key material is modeled) —
// a track with any ContentEncryption stage returns the data unchanged past
// that point, since this library has nothing to decrypt with.
func DecodeFrame(t TrackEntry, frame []byte) ([]byte, error) {
	encs := orderedEncodings(t.ContentEncodings)
	data := frame
	for _, enc := range encs {
		if enc.Encryption != nil {
			return data, nil
		}
		if enc.Compression == nil {
			continue
		}
		codec, err := contentcodec.NewCodec(contentcodec.Algorithm(enc.Compression.Algo), enc.Compression.Settings)
		if err != nil {
			return nil, err
		}
		data, err = codec.Decompress(data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func orderedEncodings(encs []ContentEncoding) []ContentEncoding {
	out := make([]ContentEncoding, len(encs))
	copy(out, encs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Order < out[j-1].Order; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
