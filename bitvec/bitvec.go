// Package bitvec implements a three-level rank/access bit dictionary: the
// single-bit rank/access primitive every OccTable layout is built from.
//
// Bits are grouped into 256-bit superblocks, each holding a cumulative rank
// from the start of the vector, four per-64-bit-block partial counts
// (relative to the superblock), and the four raw 64-bit chunks themselves.
// rank(i) is the sum of the superblock total, the block's partial count,
// and a popcount of the bits in the current block below i. Both rank and
// value run in O(1).
package bitvec

import (
	"math/bits"

	"github.com/eseiler/fmindex-collection/fmerrors"
)

const (
	bitsPerBlock      = 64
	blocksPerSuper    = 4
	bitsPerSuperblock = bitsPerBlock * blocksPerSuper // 256
)

// superblock packs one 256-bit span: a cumulative rank up to its start, the
// per-block partial counts relative to the superblock, and the raw bits.
type superblock struct {
	total  uint64
	blocks [blocksPerSuper]uint8 // blocks[0] is always 0 by construction
	bits   [blocksPerSuper]uint64
}

func (s *superblock) rank(bitID int) uint64 {
	blockID := bitID / bitsPerBlock
	within := bitID % bitsPerBlock
	mask := uint64(1)<<uint(within) - 1
	return s.total + uint64(s.blocks[blockID]) + uint64(bits.OnesCount64(s.bits[blockID]&mask))
}

func (s *superblock) value(bitID int) bool {
	blockID := bitID / bitsPerBlock
	within := bitID % bitsPerBlock
	return (s.bits[blockID]>>uint(within))&1 == 1
}

// BitVector is a length-N sequence of bits supporting O(1) Rank and Value.
type BitVector struct {
	length      int
	superblocks []superblock
}

// Builder accumulates bits one at a time before freezing them into a
// BitVector. Use Build for a producer callback style instead when the
// length is known up front.
type Builder struct {
	length int
	bits   []bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Push appends a single bit.
func (b *Builder) Push(bit bool) {
	b.bits = append(b.bits, bit)
	b.length++
}

// Build freezes the accumulated bits into a BitVector.
func (b *Builder) Build() *BitVector {
	return Build(b.length, func(i int) bool { return b.bits[i] })
}

// Build constructs a BitVector of the given length from a producer
// callback, matching the contract of the teacher's skip-list builder: one
// linear pass, superblock/block running totals maintained as we go.
func Build(length int, producer func(i int) bool) *BitVector {
	numSuper := length/bitsPerSuperblock + 1
	bv := &BitVector{
		length:      length,
		superblocks: make([]superblock, 0, numSuper),
	}

	var cur superblock
	var sblockAcc uint64
	var blockAcc uint16 // cumulative count within the current superblock

	for i := 0; i < length; i++ {
		if i%bitsPerSuperblock == 0 {
			if i != 0 {
				bv.superblocks = append(bv.superblocks, cur)
			}
			cur = superblock{total: sblockAcc}
			blockAcc = 0
		} else if i%bitsPerBlock == 0 {
			blockID := (i % bitsPerSuperblock) / bitsPerBlock
			cur.blocks[blockID] = uint8(blockAcc)
		}

		if producer(i) {
			blockID := (i % bitsPerSuperblock) / bitsPerBlock
			bitID := i % bitsPerBlock
			cur.bits[blockID] |= 1 << uint(bitID)
			blockAcc++
			sblockAcc++
		}
	}
	// A length that ends on a block boundary inside a superblock still needs
	// that block's partial count for Rank(length).
	if length%bitsPerSuperblock != 0 && length%bitsPerBlock == 0 {
		cur.blocks[(length%bitsPerSuperblock)/bitsPerBlock] = uint8(blockAcc)
	}
	bv.superblocks = append(bv.superblocks, cur)
	// Rank(length) must be answerable even when length lands exactly on a
	// superblock boundary: pad with one trailing, bit-free superblock that
	// only carries the final cumulative total.
	if length > 0 && length%bitsPerSuperblock == 0 {
		bv.superblocks = append(bv.superblocks, superblock{total: sblockAcc})
	}
	return bv
}

// Len returns the number of bits in the vector.
func (b *BitVector) Len() int { return b.length }

// Rank returns the number of set bits in positions [0, i).
func (b *BitVector) Rank(i int) uint64 {
	superID := i / bitsPerSuperblock
	within := i % bitsPerSuperblock
	return b.superblocks[superID].rank(within)
}

// Value returns the bit at position i.
func (b *BitVector) Value(i int) bool {
	superID := i / bitsPerSuperblock
	within := i % bitsPerSuperblock
	return b.superblocks[superID].value(within)
}

// MemoryUsage returns an approximate byte count for the vector's storage.
func (b *BitVector) MemoryUsage() int {
	return len(b.superblocks) * (8 + blocksPerSuper + blocksPerSuper*8)
}

// archive version bytes: field-wise (varint-encoded) vs. raw-blob
// (fixed-width little-endian fields, faster to read back).
const (
	versionFieldwise byte = 0
	versionRawBlob   byte = 1
)

// ByteWriter is the minimal sink Serialize needs.
type ByteWriter interface {
	WriteByte(byte) error
	Write(p []byte) (int, error)
}

// ByteReader is the minimal source Deserialize needs.
type ByteReader interface {
	ReadByte() (byte, error)
	Read(p []byte) (int, error)
}

// Serialize writes the vector using the field-wise (varint) codec. Callers
// that want the fixed-width raw-blob codec use SerializeRaw instead.
func (b *BitVector) Serialize(w ByteWriter) error {
	if err := w.WriteByte(versionFieldwise); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(b.length)); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(len(b.superblocks))); err != nil {
		return err
	}
	for _, s := range b.superblocks {
		if err := writeUvarint(w, s.total); err != nil {
			return err
		}
		if _, err := w.Write(s.blocks[:]); err != nil {
			return err
		}
		for _, word := range s.bits {
			if err := writeUvarint(w, word); err != nil {
				return err
			}
		}
	}
	return nil
}

// Deserialize reads a BitVector written by Serialize or SerializeRaw,
// dispatching on the version byte. Unknown versions are rejected with a
// descriptive SerializationError rather than silently misreading data.
func Deserialize(r ByteReader) (*BitVector, error) {
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch version {
	case versionFieldwise:
		return deserializeFieldwise(r)
	case versionRawBlob:
		return deserializeRawAfterVersion(r)
	default:
		return nil, fmerrors.NewSerializationError("bitvec.Deserialize", "unknown bitvector version %d", version)
	}
}

func deserializeFieldwise(r ByteReader) (*BitVector, error) {
	length, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	bv := &BitVector{length: int(length), superblocks: make([]superblock, n)}
	for i := range bv.superblocks {
		total, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		var blocks [blocksPerSuper]byte
		if _, err := r.Read(blocks[:]); err != nil {
			return nil, err
		}
		var s superblock
		s.total = total
		for j, bl := range blocks {
			s.blocks[j] = uint8(bl)
		}
		for j := range s.bits {
			word, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			s.bits[j] = word
		}
		bv.superblocks[i] = s
	}
	return bv, nil
}
