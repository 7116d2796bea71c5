package bitio

import (
	"math/bits"

	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// byteSize is one byte, expressed in bits.
const byteSize = sizes.BitCount(8)

// splitThreshold is CACHE_SIZE - BYTE_SIZE: filling the cache with more
// bits than this in one go risks needing a partial byte from the source,
// which isn't possible (the source only ever yields whole bytes), so reads
// above the threshold are split in two and combined.
const splitThreshold = cacheWidth - byteSize

// BitReader pulls bits (not bytes) from a ByteSource, caching partially
// consumed bytes between calls.
type BitReader struct {
	source    ByteSource
	cache     cache
	bytesRead sizes.ByteCount
}

// NewBitReader constructs a BitReader over src.
func NewBitReader(src ByteSource) *BitReader {
	return &BitReader{source: src}
}

// Position returns the number of bits already consumed by read operations
// (bits sitting unread in the cache don't count).
func (r *BitReader) Position() sizes.BitCount {
	return r.bytesRead.Bits() - r.cache.size
}

// HasMoreBytes attempts to refill the cache to at least one byte and
// reports whether that succeeded. It never fails on an empty source.
func (r *BitReader) HasMoreBytes() bool {
	r.makeAvailable(byteSize, false)
	return r.cache.size >= byteSize
}

// makeAvailable pulls bytes from the source until the cache holds at least
// numBits, or the source is exhausted. If throwOnEOS, an exhausted source
// before numBits is available returns an EndOfStream error.
func (r *BitReader) makeAvailable(numBits sizes.BitCount, throwOnEOS bool) error {
	for r.cache.size < numBits {
		b, ok := r.source.NextByte()
		if !ok {
			if throwOnEOS {
				return bmlerr.Wrap(bmlerr.EndOfStream, nil, "cannot read more bytes, end of input reached")
			}
			return nil
		}
		r.cache.pushByte(b)
		r.bytesRead++
	}
	return nil
}

// Read reads a single bit.
func (r *BitReader) Read() (bool, error) {
	v, err := r.ReadBits(1)
	return v != 0, err
}

// ReadBits reads numBits bits (numBits in [0,64]) and returns them
// right-justified in a uint64.
func (r *BitReader) ReadBits(numBits sizes.BitCount) (uint64, error) {
	if numBits > 64 {
		return 0, bmlerr.Wrap(bmlerr.LogicError, nil, "cannot read %d bits at once, maximum is 64", numBits)
	}
	if numBits == 0 {
		return 0, nil
	}
	if r.cache.size > 0 && numBits > r.cache.size && (numBits+r.cache.size) > splitThreshold {
		// Filling a non-empty cache with this many bits could need a
		// partial final byte, which the source can't supply. Split in two.
		half := numBits / 2
		upper, err := r.ReadBits(half)
		if err != nil {
			return 0, err
		}
		lower, err := r.ReadBits(numBits - half)
		if err != nil {
			return 0, err
		}
		return upper<<uint(numBits-half) | lower, nil
	}
	if err := r.makeAvailable(numBits, true); err != nil {
		return 0, err
	}
	return r.cache.extract(numBits), nil
}

// Peek reads numBits bits without advancing the reader.
func (r *BitReader) Peek(numBits sizes.BitCount) (uint64, error) {
	if numBits > 64 {
		return 0, bmlerr.Wrap(bmlerr.LogicError, nil, "cannot peek %d bits at once, maximum is 64", numBits)
	}
	if err := r.makeAvailable(numBits, true); err != nil {
		return 0, err
	}
	return r.cache.peek(numBits), nil
}

// ReadBytes reads numBytes bytes, returning them right-justified in a
// uint64 (so it only works for numBytes <= 8).
func (r *BitReader) ReadBytes(numBytes sizes.ByteCount) (uint64, error) {
	return r.ReadBits(numBytes.Bits())
}

// ReadByte reads a single byte.
func (r *BitReader) ReadByte() (byte, error) {
	v, err := r.ReadBits(byteSize)
	return byte(v), err
}

// ReadBytesInto fills buf directly from the source, bypassing the cache.
// Requires the reader to currently be byte-aligned with an empty cache.
func (r *BitReader) ReadBytesInto(buf []byte) error {
	if err := r.AssertAlignment(byteSize); err != nil {
		return err
	}
	if r.cache.size != 0 {
		return bmlerr.New(bmlerr.LogicError, "input bit stream is not properly aligned")
	}
	for i := range buf {
		b, ok := r.source.NextByte()
		if !ok {
			return bmlerr.Wrap(bmlerr.EndOfStream, nil, "cannot read more bytes, end of input reached")
		}
		buf[i] = b
		r.bytesRead++
	}
	return nil
}

// Skip discards numBits bits.
func (r *BitReader) Skip(numBits sizes.BitCount) error {
	skipped := sizes.BitCount(0)
	for skipped < numBits {
		chunk := numBits - skipped
		if chunk > cacheWidth {
			chunk = cacheWidth
		}
		if _, err := r.ReadBits(chunk); err != nil {
			return err
		}
		skipped += chunk
	}
	return nil
}

// SkipToAlignment skips bits until Position() is a multiple of
// bitAlignment, returning how many bits were skipped.
func (r *BitReader) SkipToAlignment(bitAlignment sizes.BitCount) (sizes.BitCount, error) {
	rem := r.Position() % bitAlignment
	numBits := sizes.BitCount(0)
	if rem != 0 {
		numBits = bitAlignment - rem
	}
	if err := r.Skip(numBits); err != nil {
		return 0, err
	}
	return numBits, nil
}

// AssertAlignment skips to the next alignment boundary and fails if the
// reader was not already aligned.
func (r *BitReader) AssertAlignment(bitAlignment sizes.BitCount) error {
	skipped, err := r.SkipToAlignment(bitAlignment)
	if err != nil {
		return err
	}
	if skipped != 0 {
		return bmlerr.New(bmlerr.LogicError, "input bit stream is not properly aligned")
	}
	return nil
}

// readLeadingZeroes counts (and consumes) the run of zero bits up to and
// excluding the next set bit.
func (r *BitReader) readLeadingZeroes() (sizes.BitCount, error) {
	numBits := sizes.BitCount(0)
	for r.cache.value == 0 {
		if r.cache.size > 0 {
			numBits += r.cache.size
			if _, err := r.ReadBits(r.cache.size); err != nil {
				return 0, err
			}
		}
		if err := r.makeAvailable(byteSize, true); err != nil {
			return 0, err
		}
	}
	numRemaining := sizes.BitCount(bits.LeadingZeros64(r.cache.value))
	if _, err := r.ReadBits(numRemaining); err != nil {
		return 0, err
	}
	numBits += numRemaining
	return numBits, nil
}

// ReadExpGolomb reads an unsigned Exponential-Golomb coded value.
func (r *BitReader) ReadExpGolomb() (uint64, error) {
	exponent, err := r.readLeadingZeroes()
	if err != nil {
		return 0, err
	}
	v, err := r.ReadBits(exponent + 1)
	if err != nil {
		return 0, err
	}
	return DecodeExpGolomb(v), nil
}

// ReadSignedExpGolomb reads a zig-zag signed Exponential-Golomb value.
func (r *BitReader) ReadSignedExpGolomb() (int64, error) {
	exponent, err := r.readLeadingZeroes()
	if err != nil {
		return 0, err
	}
	v, err := r.ReadBits(exponent + 1)
	if err != nil {
		return 0, err
	}
	return DecodeSignedExpGolomb(v), nil
}

// readUntilTwoOnes accumulates bits (MSB first) until two consecutive 1
// bits are observed, returning the accumulated value and its bit width
// (including the terminating "1").
func (r *BitReader) readUntilTwoOnes() (uint64, sizes.BitCount, error) {
	var result uint64
	var numBits sizes.BitCount
	for (r.cache.value & (r.cache.value >> 1)) == 0 {
		if r.cache.size > 0 {
			n := r.cache.size - 1
			v, err := r.ReadBits(n)
			if err != nil {
				return 0, 0, err
			}
			numBits += n
			result = result<<uint(n) | v
		}
		if err := r.makeAvailable(byteSize, true); err != nil {
			return 0, 0, err
		}
	}
	lastBitSet := false
	for {
		bit, err := r.Read()
		if err != nil {
			return 0, 0, err
		}
		numBits++
		result <<= 1
		if bit {
			result |= 1
		}
		if bit && lastBitSet {
			break
		}
		lastBitSet = bit
	}
	return result, numBits, nil
}

// ReadFibonacci reads an unsigned Fibonacci (Zeckendorf) coded value.
func (r *BitReader) ReadFibonacci() (uint64, error) {
	v, n, err := r.readUntilTwoOnes()
	if err != nil {
		return 0, err
	}
	return DecodeFibonacci(InvertBits(v, n)), nil
}

// ReadSignedFibonacci reads a signed Fibonacci coded value (see codec.go
// for the zig-zag convention used).
func (r *BitReader) ReadSignedFibonacci() (int64, error) {
	v, n, err := r.readUntilTwoOnes()
	if err != nil {
		return 0, err
	}
	return DecodeSignedFibonacci(InvertBits(v, n)), nil
}

// ReadUTF8CodePoint decodes one UTF-8 encoded code point.
func (r *BitReader) ReadUTF8CodePoint() (rune, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	leadingOnes := sizes.BitCount(bits.LeadingZeros8(^first))
	if leadingOnes == 1 || leadingOnes > 4 {
		return 0, bmlerr.New(bmlerr.MalformedWire, "invalid UTF-8 lead byte %#02x", first)
	}
	if leadingOnes == 0 {
		return rune(first), nil
	}
	numCont := int(leadingOnes - 1)
	var cont uint64
	for i := 0; i < numCont; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b&0xC0 != 0x80 {
			return 0, bmlerr.New(bmlerr.MalformedWire, "invalid UTF-8 continuation byte %#02x", b)
		}
		cont = cont<<6 | uint64(b&0x3F)
	}
	firstBits := uint64(first) & sizes.Mask(byteSize-leadingOnes-1)
	return rune(firstBits<<uint(6*numCont) | cont), nil
}

// ReadUTF16CodePoint decodes one UTF-16 (big-endian) encoded code point,
// including surrogate pairs.
func (r *BitReader) ReadUTF16CodePoint() (rune, error) {
	units, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	high := uint16(units)
	if high < 0xD800 || high > 0xDBFF {
		return rune(high), nil
	}
	lowBits, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	low := uint16(lowBits)
	if low < 0xDC00 || low > 0xDFFF {
		return 0, bmlerr.New(bmlerr.MalformedWire, "invalid UTF-16 low surrogate %#04x", low)
	}
	return rune(0x10000 + (uint32(high)-0xD800)<<10 + (uint32(low) - 0xDC00)), nil
}
