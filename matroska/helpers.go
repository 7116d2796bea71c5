package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/ebml"
)

// writeUintChild writes id's header and a uint leaf payload, in
// RequiredBytes(v) bytes. Zero values are still written: unlike bool/string
// leaves, uint leaves have no implicit default-omission rule here, matching
// the source library's habit of always emitting numeric fields it knows.
func writeUintChild(w *bitio.BitWriter, id ebml.ElementID, v uint64) error {
	n := ebml.RequiredBytes(v)
	if err := ebml.WriteHeader(w, id, uint64(n), false); err != nil {
		return err
	}
	return ebml.WriteUintLeaf(w, v)
}

func writeIntChild(w *bitio.BitWriter, id ebml.ElementID, v int64) error {
	n := ebml.RequiredSignedBytes(v)
	if err := ebml.WriteHeader(w, id, uint64(n), false); err != nil {
		return err
	}
	return ebml.WriteIntLeaf(w, v)
}

func writeBoolChild(w *bitio.BitWriter, id ebml.ElementID, v bool) error {
	if !v {
		return nil
	}
	if err := ebml.WriteHeader(w, id, 1, false); err != nil {
		return err
	}
	return ebml.WriteBoolLeaf(w, v, false)
}

func writeStringChild(w *bitio.BitWriter, id ebml.ElementID, v string) error {
	if v == "" {
		return nil
	}
	if err := ebml.WriteHeader(w, id, uint64(len(v)), false); err != nil {
		return err
	}
	return ebml.WriteStringLeaf(w, v)
}

func writeBinaryChild(w *bitio.BitWriter, id ebml.ElementID, v []byte) error {
	if len(v) == 0 {
		return nil
	}
	if err := ebml.WriteHeader(w, id, uint64(len(v)), false); err != nil {
		return err
	}
	return ebml.WriteBinaryLeaf(w, v)
}

func writeFloatChild(w *bitio.BitWriter, id ebml.ElementID, v float64) error {
	if v == 0 {
		return nil
	}
	if err := ebml.WriteHeader(w, id, 8, false); err != nil {
		return err
	}
	return ebml.WriteFloatLeaf(w, v)
}

func readUint(r *bitio.BitReader, id ebml.ElementID) (uint64, error) {
	h, err := ebml.ReadHeader(r, id)
	if err != nil {
		return 0, err
	}
	return ebml.ReadUintLeaf(r, h.Size)
}

func readInt(r *bitio.BitReader, id ebml.ElementID) (int64, error) {
	h, err := ebml.ReadHeader(r, id)
	if err != nil {
		return 0, err
	}
	return ebml.ReadIntLeaf(r, h.Size)
}

func readBool(r *bitio.BitReader, id ebml.ElementID, def bool) (bool, error) {
	h, err := ebml.ReadHeader(r, id)
	if err != nil {
		return false, err
	}
	return ebml.ReadBoolLeaf(r, h.Size, def)
}

func readString(r *bitio.BitReader, id ebml.ElementID) (string, error) {
	h, err := ebml.ReadHeader(r, id)
	if err != nil {
		return "", err
	}
	return ebml.ReadStringLeaf(r, h.Size, "")
}

func readBinary(r *bitio.BitReader, id ebml.ElementID) ([]byte, error) {
	h, err := ebml.ReadHeader(r, id)
	if err != nil {
		return nil, err
	}
	return ebml.ReadBinaryLeaf(r, h.Size)
}

func readFloat(r *bitio.BitReader, id ebml.ElementID, def float64) (float64, error) {
	h, err := ebml.ReadHeader(r, id)
	if err != nil {
		return 0, err
	}
	return ebml.ReadFloatLeaf(r, h.Size, def)
}
