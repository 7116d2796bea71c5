package bitio

import "hash/crc32"

// CRCTapSource wraps a ByteSource, optionally feeding every byte that
// passes through into a running CRC-32/IEEE accumulator. The tap can be
// enabled and disabled mid-stream, which is what lets a master-element
// reader start CRC coverage only after its CRC-32 child has been consumed
// (see ebml's master framing).
type CRCTapSource struct {
	inner   ByteSource
	crc     uint32
	enabled bool
}

// NewCRCTapSource wraps src. The tap starts disabled.
func NewCRCTapSource(src ByteSource) *CRCTapSource {
	return &CRCTapSource{inner: src, crc: 0}
}

func (t *CRCTapSource) NextByte() (byte, bool) {
	b, ok := t.inner.NextByte()
	if ok && t.enabled {
		t.crc = crc32.Update(t.crc, crc32.IEEETable, []byte{b})
	}
	return b, ok
}

// Enable starts (or resumes) accumulating bytes into the CRC.
func (t *CRCTapSource) Enable() { t.enabled = true }

// Disable stops accumulating without resetting the accumulator.
func (t *CRCTapSource) Disable() { t.enabled = false }

// Sum32 returns the CRC-32/IEEE checksum of every byte seen while enabled.
func (t *CRCTapSource) Sum32() uint32 { return t.crc }
