package bitio

import (
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// halfCache is half the cache width, the split point used when a write
// would otherwise overflow the cache.
const halfCache = cacheWidth / 2

// BitWriter pushes bits (not bytes) to a ByteSink, buffering partial bytes
// between calls.
type BitWriter struct {
	sink         ByteSink
	cache        cache
	bytesWritten sizes.ByteCount
}

// NewBitWriter constructs a BitWriter over sink.
func NewBitWriter(sink ByteSink) *BitWriter {
	return &BitWriter{sink: sink}
}

// Position returns the number of bits written (including cached-but-not-
// yet-flushed bits).
func (w *BitWriter) Position() sizes.BitCount {
	return w.bytesWritten.Bits() + w.cache.size
}

// Write writes the low numBits bits of value.
func (w *BitWriter) Write(value uint64, numBits sizes.BitCount) error {
	if numBits > 64 {
		return bmlerr.Wrap(bmlerr.LogicError, nil, "cannot write %d bits at once, maximum is 64", numBits)
	}
	if numBits == 0 {
		return nil
	}
	if numBits+w.cache.size > cacheWidth {
		upper := value >> uint(halfCache)
		if err := w.Write(upper, numBits-halfCache); err != nil {
			return err
		}
		lower := value & sizes.Mask(halfCache)
		return w.Write(lower, halfCache)
	}
	w.cache.insertLow(value, numBits)
	return w.flushFullBytes()
}

// WriteBit writes a single bit.
func (w *BitWriter) WriteBit(v bool) error {
	if v {
		return w.Write(1, 1)
	}
	return w.Write(0, 1)
}

// WriteBytes writes numBytes bytes taken from the low bits of value.
// Requires the writer to currently be byte-aligned.
func (w *BitWriter) WriteBytes(value uint64, numBytes sizes.ByteCount) error {
	if err := w.AssertAlignment(byteSize); err != nil {
		return err
	}
	return w.Write(value, numBytes.Bits())
}

// WriteRawBytes writes a byte slice directly to the sink, bypassing the
// cache. Requires the writer to currently be byte-aligned with an empty
// cache.
func (w *BitWriter) WriteRawBytes(data []byte) error {
	if err := w.AssertAlignment(byteSize); err != nil {
		return err
	}
	if err := w.flushFullBytes(); err != nil {
		return err
	}
	if w.cache.size != 0 {
		return bmlerr.New(bmlerr.LogicError, "output bit stream is not properly aligned")
	}
	for _, b := range data {
		if !w.sink.PutByte(b) {
			return bmlerr.Wrap(bmlerr.EndOfStream, nil, "cannot write more bytes, end of output reached")
		}
		w.bytesWritten++
	}
	return nil
}

func (w *BitWriter) flushFullBytes() error {
	for w.cache.size >= byteSize {
		b := w.cache.popByte()
		if !w.sink.PutByte(b) {
			return bmlerr.Wrap(bmlerr.EndOfStream, nil, "cannot write more bytes, end of output reached")
		}
		w.bytesWritten++
	}
	return nil
}

// Flush drains every full byte currently cached. If Position() is not byte
// aligned afterwards, the trailing partial byte remains cached and is lost
// unless the caller subsequently fills to a byte boundary (FillToAlignment)
// before discarding the writer.
func (w *BitWriter) Flush() error {
	return w.flushFullBytes()
}

// AssertAlignment fails if Position() is not a multiple of bitAlignment.
// Unlike the reader's AssertAlignment, this never consumes bits.
func (w *BitWriter) AssertAlignment(bitAlignment sizes.BitCount) error {
	if w.Position()%bitAlignment != 0 {
		return bmlerr.New(bmlerr.LogicError, "output bit stream is not properly aligned")
	}
	return nil
}

// FillToAlignment writes 0 (or, if bit is true, 1) bits until Position() is
// a multiple of bitAlignment, returning how many bits were written.
func (w *BitWriter) FillToAlignment(bitAlignment sizes.BitCount, bit bool) (sizes.BitCount, error) {
	rem := w.Position() % bitAlignment
	numBits := sizes.BitCount(0)
	if rem != 0 {
		numBits = bitAlignment - rem
	}
	value := uint64(0)
	if bit {
		value = ^uint64(0)
	}
	if err := w.Write(value, numBits); err != nil {
		return 0, err
	}
	return numBits, nil
}

// WriteExpGolomb writes an unsigned Exponential-Golomb coded value.
func (w *BitWriter) WriteExpGolomb(value uint64) error {
	encoded, numBits := EncodeExpGolomb(value)
	return w.Write(encoded, numBits)
}

// WriteSignedExpGolomb writes a zig-zag signed Exponential-Golomb value.
func (w *BitWriter) WriteSignedExpGolomb(value int64) error {
	encoded, numBits := EncodeSignedExpGolomb(value)
	return w.Write(encoded, numBits)
}

// WriteFibonacci writes an unsigned Fibonacci (Zeckendorf) coded value.
func (w *BitWriter) WriteFibonacci(value uint64) error {
	encoded, numBits := EncodeFibonacci(value)
	return w.Write(InvertBits(encoded, numBits), numBits)
}

// WriteSignedFibonacci writes a signed Fibonacci coded value.
func (w *BitWriter) WriteSignedFibonacci(value int64) error {
	encoded, numBits := EncodeSignedFibonacci(value)
	return w.Write(InvertBits(encoded, numBits), numBits)
}

// WriteUTF8CodePoint encodes and writes one UTF-8 code point.
func (w *BitWriter) WriteUTF8CodePoint(r rune) error {
	return w.WriteRawBytes(EncodeUTF8(r))
}

// WriteUTF16CodePoint encodes and writes one UTF-16 (big-endian) code
// point, as one or two 16-bit units.
func (w *BitWriter) WriteUTF16CodePoint(r rune) error {
	v := uint32(r)
	if v < 0x10000 {
		return w.WriteBytes(uint64(v), 2)
	}
	v -= 0x10000
	if err := w.WriteBytes(uint64(0xD800+((v>>10)&0x3FF)), 2); err != nil {
		return err
	}
	return w.WriteBytes(uint64(0xDC00+(v&0x3FF)), 2)
}
