package sizes

import "testing"

func TestByteCountBits(t *testing.T) {
	if got := ByteCount(3).Bits(); got != 24 {
		t.Errorf("Bits() = %d, want 24", got)
	}
}

func TestBitCountBytes(t *testing.T) {
	if b, ok := BitCount(16).Bytes(); !ok || b != 2 {
		t.Errorf("Bytes() = (%d, %v), want (2, true)", b, ok)
	}
	if _, ok := BitCount(15).Bytes(); ok {
		t.Errorf("Bytes() on non-multiple of 8 should report ok=false")
	}
}

func TestMask(t *testing.T) {
	cases := []struct {
		n    BitCount
		want uint64
	}{
		{0, 0},
		{1, 0x1},
		{8, 0xFF},
		{64, ^uint64(0)},
		{100, ^uint64(0)},
	}
	for _, c := range cases {
		if got := Mask(c.n); got != c.want {
			t.Errorf("Mask(%d) = %#x, want %#x", c.n, got, c.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	if BitCount(10).Add(5) != 15 {
		t.Error("Add failed")
	}
	if BitCount(10).Sub(5) != 5 {
		t.Error("Sub failed")
	}
	if BitCount(10).Mul(3) != 30 {
		t.Error("Mul failed")
	}
	if BitCount(10).Div(3) != 3 {
		t.Error("Div failed")
	}
	if BitCount(10).Mod(3) != 1 {
		t.Error("Mod failed")
	}
}
