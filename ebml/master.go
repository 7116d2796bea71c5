package ebml

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// CRCElementID and VoidElementID are the two children every master
// implicitly accepts regardless of schema (§4.H).
const (
	CRCElementID  ElementID = 0xBF
	VoidElementID ElementID = 0xEC
)

// ChildHandler consumes one child element (header and payload) already
// known to start at the reader's current position, for a given ElementID
// dispatch entry.
type ChildHandler func(r *bitio.BitReader, id ElementID) error

// DispatchTable maps a master's known child IDs to the handler that parses
// them.
type DispatchTable map[ElementID]ChildHandler

// WarnFunc is called once per unknown child ID encountered under a known
// master, carrying the raw ID for the caller's own log/metrics.
type WarnFunc func(id ElementID, msg string)

// ChunkedReaderState is the state machine described in §4.H.
type ChunkedReaderState int

const (
	StateInitial ChunkedReaderState = iota
	StateReading
	StateFinished
)

// ChunkedReader is the resumable, cooperative iterator over a master
// element's children. Between calls it holds only the master's dataSize,
// its startPos, the dispatch table, the terminator set, and (when CRC
// validation is armed) an incremental accumulator — never a partially
// consumed byte buffer.
type ChunkedReader struct {
	r           *bitio.BitReader
	dataSize    uint64
	sizeUnknown bool
	startPos    sizes.BitCount
	dispatch    DispatchTable
	terminators map[ElementID]struct{}
	warn        WarnFunc
	state       ChunkedReaderState
	crcTap      *bitio.CRCTapSource
	crcExpected uint32
	crcArmed    bool
}

// NewChunkedReader constructs a ChunkedReader over a master whose header
// has already been consumed (hdr describes that header). crcTap, if
// non-nil, is the CRC-tapping decorator wrapping r's ultimate byte source;
// passing nil disables CRC validation for this master regardless of
// whether it declares a CRC-32 child.
func NewChunkedReader(r *bitio.BitReader, hdr Header, dispatch DispatchTable, terminators map[ElementID]struct{}, warn WarnFunc, crcTap *bitio.CRCTapSource) *ChunkedReader {
	return &ChunkedReader{
		r:           r,
		dataSize:    hdr.Size,
		sizeUnknown: hdr.SizeUnknown,
		startPos:    r.Position(),
		dispatch:    dispatch,
		terminators: terminators,
		warn:        warnOnce(warn),
		state:       StateInitial,
		crcTap:      crcTap,
	}
}

// HasNext reports whether another child can be attempted. Idempotent; does
// not consume any bits.
func (c *ChunkedReader) HasNext() bool {
	if c.state == StateFinished {
		return false
	}
	return c.continueCond()
}

func (c *ChunkedReader) continueCond() bool {
	if c.sizeUnknown {
		return c.r.HasMoreBytes()
	}
	return c.r.Position() < c.startPos+sizes.ByteCount(c.dataSize).Bits()
}

// Next reads exactly one child. It returns the ID of the child just read,
// or 0 when the master is finished (after which HasNext becomes false). A
// source that runs out mid-child surfaces the underlying EndOfStream error
// and transitions to Finished.
func (c *ChunkedReader) Next() (ElementID, error) {
	if c.state == StateInitial {
		c.state = StateReading
	}
	if !c.continueCond() {
		return c.finish()
	}
	id, err := PeekElementID(c.r)
	if err != nil {
		c.state = StateFinished
		return 0, err
	}
	if handler, ok := c.dispatch[id]; ok {
		if err := handler(c.r, id); err != nil {
			c.state = StateFinished
			return 0, err
		}
		return id, nil
	}
	if id == CRCElementID {
		if err := c.readCRCChild(); err != nil {
			c.state = StateFinished
			return 0, err
		}
		return id, nil
	}
	if id == VoidElementID {
		if err := skipOneElement(c.r); err != nil {
			c.state = StateFinished
			return 0, err
		}
		return id, nil
	}
	if c.sizeUnknown {
		if _, isTerminator := c.terminators[id]; isTerminator {
			c.state = StateFinished
			return 0, nil
		}
	}
	if c.warn != nil {
		c.warn(id, "unknown element, skipping")
	}
	if err := skipOneElement(c.r); err != nil {
		c.state = StateFinished
		return 0, err
	}
	return id, nil
}

func (c *ChunkedReader) finish() (ElementID, error) {
	c.state = StateFinished
	if c.crcArmed {
		got := c.crcTap.Sum32()
		if got != c.crcExpected {
			return 0, bmlerr.Wrap(bmlerr.InconsistentData, bmlerr.ErrChecksumMismatch, "CRC-32 mismatch: got %#08x, want %#08x", got, c.crcExpected)
		}
	}
	return 0, nil
}

func (c *ChunkedReader) readCRCChild() error {
	hdr, err := ReadHeader(c.r, CRCElementID)
	if err != nil {
		return err
	}
	raw, err := ReadBinaryLeaf(c.r, hdr.Size)
	if err != nil {
		return err
	}
	if c.crcTap != nil {
		var v uint32
		for i := len(raw) - 1; i >= 0; i-- {
			v = v<<8 | uint32(raw[i])
		}
		c.crcExpected = v
		c.crcArmed = true
		c.crcTap.Enable()
	}
	return nil
}

// Drain runs the chunked reader to completion, calling fn for every child
// ID encountered (including CRC and Void). It's the non-cooperative
// convenience wrapper most master Read methods use.
func Drain(c *ChunkedReader, fn func(ElementID)) error {
	for c.state != StateFinished {
		id, err := c.Next()
		if err != nil {
			return err
		}
		if id != 0 && fn != nil {
			fn(id)
		}
	}
	return nil
}

// BufferedMasterWriter buffers a master's children into an owned byte
// buffer via a temporary BitWriter, per §4.H's write protocol: the caller
// writes children through the returned *bitio.BitWriter, then Finish emits
// the real header (id, computed length) followed by the buffered bytes.
type BufferedMasterWriter struct {
	sink *bitio.SliceSink
	w    *bitio.BitWriter
}

// NewBufferedMasterWriter starts buffering a new master's children.
func NewBufferedMasterWriter() *BufferedMasterWriter {
	sink := bitio.NewSliceSink()
	return &BufferedMasterWriter{sink: sink, w: bitio.NewBitWriter(sink)}
}

// Writer returns the BitWriter children should be written to.
func (b *BufferedMasterWriter) Writer() *bitio.BitWriter { return b.w }

// Finish flushes the buffer and writes id, the buffered length, and the
// buffered bytes to out.
func (b *BufferedMasterWriter) Finish(out *bitio.BitWriter, id ElementID) error {
	if err := b.w.Flush(); err != nil {
		return err
	}
	data := b.sink.Bytes()
	if err := WriteHeader(out, id, uint64(len(data)), false); err != nil {
		return err
	}
	return out.WriteRawBytes(data)
}
