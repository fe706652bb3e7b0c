package bitvec

import (
	"encoding/binary"
	"io"

	"github.com/eseiler/fmindex-collection/fmerrors"
)

// SerializeRaw writes the vector using the raw-blob codec: a version byte,
// a length prefix, and the superblocks written as fixed-width binary
// fields back to back, all little-endian. It is faster to read back than
// the field-wise codec.
func (b *BitVector) SerializeRaw(w io.Writer) error {
	if _, err := w.Write([]byte{versionRawBlob}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(b.length)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(b.superblocks))); err != nil {
		return err
	}
	for _, s := range b.superblocks {
		if err := binary.Write(w, binary.LittleEndian, s.total); err != nil {
			return err
		}
		if _, err := w.Write(s.blocks[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, s.bits); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeRaw reads a BitVector written by SerializeRaw, starting with
// its leading version byte, which must be the raw-blob version.
// deserializeRawAfterVersion reads the rest; Deserialize hands off to it
// after reading a raw-blob version byte itself.
func DeserializeRaw(r io.Reader) (*BitVector, error) {
	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, err
	}
	if version[0] != versionRawBlob {
		return nil, fmerrors.NewSerializationError("bitvec.DeserializeRaw", "expected raw-blob version byte, got %d", version[0])
	}
	return deserializeRawAfterVersion(r)
}

func deserializeRawAfterVersion(r io.Reader) (*BitVector, error) {
	var length, n uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	bv := &BitVector{length: int(length), superblocks: make([]superblock, n)}
	for i := range bv.superblocks {
		var s superblock
		if err := binary.Read(r, binary.LittleEndian, &s.total); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(r, s.blocks[:]); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &s.bits); err != nil {
			return nil, err
		}
		bv.superblocks[i] = s
	}
	return bv, nil
}
