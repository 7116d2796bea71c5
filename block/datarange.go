// Package block implements the Matroska Block wire format, its four
// lacing schemes, and the lazy, seekable FrameView over a track's frames
// (spec components "Block + Frame view" and "DataRange").
package block

import (
	"io"

	"github.com/arvidsson/bml/bmlerr"
)

// ByteRange is an absolute offset/size pair into some byte source.
type ByteRange struct {
	Offset uint64
	Size   uint64
}

// rangeMode orders DataRange's three variants for comparison and
// promotion: Known < Borrowed < Owned.
type rangeMode int

const (
	ModeKnown rangeMode = iota
	ModeBorrowed
	ModeOwned
)

// DataRange is the tagged union named in §4.K: a block payload that hasn't
// been read yet (Known, just its offset/size), a slice borrowed from an
// in-memory source (Borrowed), or a copy the DataRange owns (Owned).
type DataRange struct {
	mode  rangeMode
	known ByteRange
	bytes []byte
}

// KnownRange builds a Known DataRange: nothing read yet.
func KnownRange(r ByteRange) DataRange { return DataRange{mode: ModeKnown, known: r} }

// BorrowedRange wraps a slice the DataRange does not own.
func BorrowedRange(b []byte) DataRange { return DataRange{mode: ModeBorrowed, bytes: b} }

// OwnedRange copies b into a new DataRange-owned buffer.
func OwnedRange(b []byte) DataRange {
	owned := make([]byte, len(b))
	copy(owned, b)
	return DataRange{mode: ModeOwned, bytes: owned}
}

// HasData reports whether the range carries materialised bytes; false only
// for Known.
func (d DataRange) HasData() bool { return d.mode != ModeKnown }

// Size returns the range's length in bytes regardless of variant.
func (d DataRange) Size() uint64 {
	if d.mode == ModeKnown {
		return d.known.Size
	}
	return uint64(len(d.bytes))
}

// Bytes returns the materialised bytes, or nil for Known.
func (d DataRange) Bytes() []byte { return d.bytes }

// Borrow produces a Borrowed view over an Owned range's bytes, or returns
// Known/Borrowed ranges unchanged.
func (d DataRange) Borrow() DataRange {
	if d.mode == ModeOwned {
		return DataRange{mode: ModeBorrowed, bytes: d.bytes}
	}
	return d
}

// Source supplies bytes for a Known range's promotion.
type Source interface {
	ReadRange(offset, size uint64) ([]byte, error)
}

// MemorySource is an in-memory Source; offsets are slice indices.
type MemorySource []byte

func (m MemorySource) ReadRange(offset, size uint64) ([]byte, error) {
	if offset > uint64(len(m)) || size > uint64(len(m))-offset {
		return nil, bmlerr.New(bmlerr.EndOfStream, "byte range [%d,%d) exceeds source of %d bytes", offset, offset+size, len(m))
	}
	return m[offset : offset+size], nil
}

// StreamSource is a seekable Source; ReadRange seeks then reads.
type StreamSource struct {
	R io.ReadSeeker
}

func (s StreamSource) ReadRange(offset, size uint64) ([]byte, error) {
	if _, err := s.R.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(s.R, buf); err != nil {
		return nil, bmlerr.New(bmlerr.EndOfStream, "short read filling byte range [%d,%d): %v", offset, offset+size, err)
	}
	return buf, nil
}

// FillDataRange promotes d toward targetMode using source, per §4.K:
// Known can become Borrowed or Owned from a MemorySource; any variant
// promotes only to Owned from a StreamSource (seek+copy); a range already
// at or above targetMode is returned unchanged.
func FillDataRange(d DataRange, source Source, targetMode string) (DataRange, error) {
	target := ModeBorrowed
	if targetMode == "owned" {
		target = ModeOwned
	}
	if _, stream := source.(StreamSource); stream {
		target = ModeOwned
	}
	if d.mode >= target {
		return d, nil
	}
	switch d.mode {
	case ModeKnown:
		b, err := source.ReadRange(d.known.Offset, d.known.Size)
		if err != nil {
			return DataRange{}, err
		}
		if target == ModeOwned {
			return OwnedRange(b), nil
		}
		return DataRange{mode: ModeBorrowed, bytes: b}, nil
	case ModeBorrowed:
		return OwnedRange(d.bytes), nil
	default:
		return d, nil
	}
}
