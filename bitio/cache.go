package bitio

import "github.com/arvidsson/bml/sizes"

// cache is the left-justified bit buffer shared by BitReader and BitWriter:
// the top `size` bits of `value` hold valid data, the rest are zero.
type cache struct {
	value uint64
	size  sizes.BitCount
}

const cacheWidth = sizes.BitCount(64)

// extract removes and returns the top n bits of the cache.
func (c *cache) extract(n sizes.BitCount) uint64 {
	if n == 0 {
		return 0
	}
	bits := c.value >> uint(cacheWidth-n)
	if n >= cacheWidth {
		c.value = 0
	} else {
		c.value <<= uint(n)
	}
	c.size -= n
	return bits
}

// peek returns the top n bits of the cache without removing them.
func (c *cache) peek(n sizes.BitCount) uint64 {
	if n == 0 {
		return 0
	}
	return c.value >> uint(cacheWidth-n)
}

// pushByte appends a full byte onto the low side of the valid region.
// Requires size+8 <= 64.
func (c *cache) pushByte(b byte) {
	c.value |= uint64(b) << uint(cacheWidth-c.size-8)
	c.size += 8
}

// insertLow writes the low n bits of v into the cache immediately after the
// current valid region (used by BitWriter). Requires size+n <= 64.
func (c *cache) insertLow(v uint64, n sizes.BitCount) {
	if n == 0 {
		return
	}
	masked := v & sizes.Mask(n)
	c.value |= masked << uint(cacheWidth-c.size-n)
	c.size += n
}

// popByte removes and returns the top byte of the cache. Requires size>=8.
func (c *cache) popByte() byte {
	b := byte(c.value >> uint(cacheWidth-8))
	c.value <<= 8
	c.size -= 8
	return b
}
