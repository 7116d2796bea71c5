package ebml

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/sizes"
)

// ReadAnyHeader reads the next element's header without checking its ID
// against an expectation, used by skip/copy where the ID is whatever
// happens to be there.
func ReadAnyHeader(r *bitio.BitReader) (Header, error) {
	id, err := ReadElementID(r)
	if err != nil {
		return Header{}, err
	}
	size, _, unknown, err := ReadVIntSize(r)
	if err != nil {
		return Header{}, err
	}
	return Header{ID: id, Size: size, SizeUnknown: unknown}, nil
}

func skipOneElement(r *bitio.BitReader) error {
	_, err := SkipElement(r, nil)
	return err
}

// SkipElement reads one element's header and discards its payload. If its
// size is known, it skips exactly that many bytes. If unknown, it
// recursively skips children until a terminator ID is peeked (from
// terminators) or the source is exhausted. Returns the number of payload
// bytes processed (not counting the header itself).
func SkipElement(r *bitio.BitReader, terminators map[ElementID]struct{}) (sizes.ByteCount, error) {
	hdr, err := ReadAnyHeader(r)
	if err != nil {
		return 0, err
	}
	if !hdr.SizeUnknown {
		if err := r.Skip(sizes.ByteCount(hdr.Size).Bits()); err != nil {
			return 0, err
		}
		return sizes.ByteCount(hdr.Size), nil
	}
	var total sizes.ByteCount
	for r.HasMoreBytes() {
		id, err := PeekElementID(r)
		if err != nil {
			return total, err
		}
		if _, isTerminator := terminators[id]; isTerminator {
			break
		}
		childStart := r.Position()
		if _, err := SkipElement(r, terminators); err != nil {
			return total, err
		}
		n, _ := (r.Position() - childStart).Bytes()
		total += n
	}
	return total, nil
}

// CopyElement is SkipElement's write-through twin: it copies every byte of
// one element (header and payload, recursing the same way for
// unknown-size masters) from r to w. Returns the number of payload bytes
// processed.
func CopyElement(r *bitio.BitReader, w *bitio.BitWriter, terminators map[ElementID]struct{}) (sizes.ByteCount, error) {
	hdr, err := ReadAnyHeader(r)
	if err != nil {
		return 0, err
	}
	if err := WriteHeader(w, hdr.ID, hdr.Size, hdr.SizeUnknown); err != nil {
		return 0, err
	}
	if !hdr.SizeUnknown {
		buf := make([]byte, hdr.Size)
		if err := r.ReadBytesInto(buf); err != nil {
			return 0, err
		}
		if err := w.WriteRawBytes(buf); err != nil {
			return 0, err
		}
		return sizes.ByteCount(hdr.Size), nil
	}
	var total sizes.ByteCount
	for r.HasMoreBytes() {
		id, err := PeekElementID(r)
		if err != nil {
			return total, err
		}
		if _, isTerminator := terminators[id]; isTerminator {
			break
		}
		childStart := r.Position()
		if _, err := CopyElement(r, w, terminators); err != nil {
			return total, err
		}
		n, _ := (r.Position() - childStart).Bytes()
		total += n
	}
	return total, nil
}
