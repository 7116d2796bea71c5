// Package sizes provides distinct bit- and byte-count types.
//
// BitCount and ByteCount are kept as separate Go types on purpose: a large
// share of the bugs in hand-rolled bit readers/writers come from silently
// mixing bit and byte offsets. Every conversion between the two is explicit.
package sizes

import "fmt"

// BitCount is a non-negative count of bits.
type BitCount uint64

// ByteCount is a non-negative count of bytes.
type ByteCount uint64

// Bits converts a byte count to the equivalent bit count.
func (b ByteCount) Bits() BitCount { return BitCount(b) * 8 }

// Bytes converts a bit count to a byte count, only when c is a multiple of
// 8. ok is false otherwise and the returned ByteCount is 0.
func (c BitCount) Bytes() (bytes ByteCount, ok bool) {
	if c%8 != 0 {
		return 0, false
	}
	return ByteCount(c / 8), true
}

// Add returns a+b.
func (a BitCount) Add(b BitCount) BitCount { return a + b }

// Sub returns a-b. The caller must ensure a >= b; BitCount has no negative
// representation.
func (a BitCount) Sub(b BitCount) BitCount { return a - b }

// Mul returns a multiplied by the given non-negative scalar.
func (a BitCount) Mul(n uint64) BitCount { return a * BitCount(n) }

// Div integer-divides a by b, returning the quotient as a plain scalar.
func (a BitCount) Div(b BitCount) uint64 { return uint64(a) / uint64(b) }

// Mod returns a modulo b, as a BitCount.
func (a BitCount) Mod(b BitCount) BitCount { return a % b }

func (a ByteCount) Add(b ByteCount) ByteCount { return a + b }
func (a ByteCount) Sub(b ByteCount) ByteCount { return a - b }
func (a ByteCount) Mul(n uint64) ByteCount    { return a * ByteCount(n) }
func (a ByteCount) Div(b ByteCount) uint64    { return uint64(a) / uint64(b) }
func (a ByteCount) Mod(b ByteCount) ByteCount { return a % b }

func (a BitCount) String() string  { return fmt.Sprintf("%dbits", uint64(a)) }
func (a ByteCount) String() string { return fmt.Sprintf("%dbytes", uint64(a)) }

// WordWidth is the width, in bits, of the widest integer these helpers
// operate on (a uint64 cache word).
const WordWidth = 64

// Mask returns a uint64 with the low numBits bits set. numBits >= WordWidth
// returns all-ones; numBits == 0 returns 0.
func Mask(numBits BitCount) uint64 {
	if numBits >= WordWidth {
		return ^uint64(0)
	}
	if numBits == 0 {
		return 0
	}
	return (uint64(1) << uint(numBits)) - 1
}
