package ebml

import (
	"math"
	"time"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/sizes"
)

// epoch is the EBML/Matroska date reference point, 2001-01-01T00:00:00Z.
var epoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// ReadBoolLeaf reads a 0-or-1-byte boolean payload (empty payload means the
// default value).
func ReadBoolLeaf(r *bitio.BitReader, size uint64, def bool) (bool, error) {
	if size == 0 {
		return def, nil
	}
	if size != 1 {
		return false, bmlerr.New(bmlerr.MalformedWire, "bool leaf has %d-byte payload, want 0 or 1", size)
	}
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// WriteBoolLeaf writes nothing if v equals def (payload omission), else one
// byte.
func WriteBoolLeaf(w *bitio.BitWriter, v, def bool) error {
	if v == def {
		return nil
	}
	if v {
		return w.WriteBytes(1, 1)
	}
	return w.WriteBytes(0, 1)
}

// ReadUintLeaf reads an unsigned integer from a size-byte big-endian
// payload (size in [0,8]).
func ReadUintLeaf(r *bitio.BitReader, size uint64) (uint64, error) {
	if size == 0 {
		return 0, nil
	}
	if size > 8 {
		return 0, bmlerr.New(bmlerr.MalformedWire, "uint leaf payload of %d bytes exceeds 8", size)
	}
	return r.ReadBytes(sizes.ByteCount(size))
}

// WriteUintLeaf writes v in RequiredBytes(v) bytes.
func WriteUintLeaf(w *bitio.BitWriter, v uint64) error {
	n := RequiredBytes(v)
	return w.WriteBytes(v, sizes.ByteCount(n))
}

// ReadIntLeaf reads a two's-complement signed integer from a size-byte
// big-endian payload, sign-extending from bit 8*size-1.
func ReadIntLeaf(r *bitio.BitReader, size uint64) (int64, error) {
	if size == 0 {
		return 0, nil
	}
	if size > 8 {
		return 0, bmlerr.New(bmlerr.MalformedWire, "int leaf payload of %d bytes exceeds 8", size)
	}
	raw, err := r.ReadBytes(sizes.ByteCount(size))
	if err != nil {
		return 0, err
	}
	signBit := uint64(1) << (8*size - 1)
	if raw&signBit != 0 {
		raw |= ^uint64(0) << (8 * size)
	}
	return int64(raw), nil
}

// WriteIntLeaf writes v in RequiredSignedBytes(v) bytes, two's complement.
func WriteIntLeaf(w *bitio.BitWriter, v int64) error {
	n := RequiredSignedBytes(v)
	return w.WriteBytes(uint64(v)&sizes.Mask(sizes.ByteCount(n).Bits()), sizes.ByteCount(n))
}

// ReadFloatLeaf reads a 4- or 8-byte IEEE-754 float; any other payload
// length reads as the default (per §4.G).
func ReadFloatLeaf(r *bitio.BitReader, size uint64, def float64) (float64, error) {
	switch size {
	case 4:
		raw, err := r.ReadBytes(4)
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(uint32(raw))), nil
	case 8:
		raw, err := r.ReadBytes(8)
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(raw), nil
	default:
		if err := r.Skip(sizes.ByteCount(size).Bits()); err != nil {
			return 0, err
		}
		return def, nil
	}
}

// WriteFloatLeaf always writes the full 8-byte double form.
func WriteFloatLeaf(w *bitio.BitWriter, v float64) error {
	return w.WriteBytes(math.Float64bits(v), 8)
}

// ReadStringLeaf reads a raw string payload (ASCII or UTF-8, caller's
// choice which ElementID it's attached to); empty payload yields def.
func ReadStringLeaf(r *bitio.BitReader, size uint64, def string) (string, error) {
	if size == 0 {
		return def, nil
	}
	buf := make([]byte, size)
	if err := r.ReadBytesInto(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteStringLeaf writes nothing if v equals the empty default, else the
// raw bytes of v.
func WriteStringLeaf(w *bitio.BitWriter, v string) error {
	if v == "" {
		return nil
	}
	return w.WriteRawBytes([]byte(v))
}

// ReadBinaryLeaf reads a raw binary payload of exactly size bytes.
func ReadBinaryLeaf(r *bitio.BitReader, size uint64) ([]byte, error) {
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}
	if err := r.ReadBytesInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteBinaryLeaf writes v verbatim.
func WriteBinaryLeaf(w *bitio.BitWriter, v []byte) error {
	if len(v) == 0 {
		return nil
	}
	return w.WriteRawBytes(v)
}

// ReadDateLeaf reads an 8-byte int64 nanosecond offset from the EBML epoch.
func ReadDateLeaf(r *bitio.BitReader, size uint64) (time.Time, error) {
	if size == 0 {
		return epoch, nil
	}
	if size != 8 {
		return time.Time{}, bmlerr.New(bmlerr.MalformedWire, "date leaf payload of %d bytes, want 8", size)
	}
	raw, err := r.ReadBytes(8)
	if err != nil {
		return time.Time{}, err
	}
	return epoch.Add(time.Duration(int64(raw))), nil
}

// WriteDateLeaf writes v as nanoseconds since the EBML epoch.
func WriteDateLeaf(w *bitio.BitWriter, v time.Time) error {
	offset := v.Sub(epoch)
	return w.WriteBytes(uint64(int64(offset)), 8)
}

// ReadUUIDLeaf reads exactly 16 raw bytes; any other length fails.
func ReadUUIDLeaf(r *bitio.BitReader, size uint64) ([16]byte, error) {
	var out [16]byte
	if size != 16 {
		return out, bmlerr.New(bmlerr.MalformedWire, "UUID leaf payload of %d bytes, want 16", size)
	}
	if err := r.ReadBytesInto(out[:]); err != nil {
		return out, err
	}
	return out, nil
}

// WriteUUIDLeaf writes the 16 raw bytes of v.
func WriteUUIDLeaf(w *bitio.BitWriter, v [16]byte) error {
	return w.WriteRawBytes(v[:])
}

