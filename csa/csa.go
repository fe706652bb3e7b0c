// Package csa implements the sampled (compressed) suffix array: a bit
// dictionary marking which suffix-array positions were retained, plus the
// retained values themselves packed as (seqId, pos) pairs in a single
// 64-bit word. It is the bridge between an SA-interval returned by the
// FM-index and concrete (sequence, offset) hits.
package csa

import (
	"fmt"
	"sort"

	"github.com/eseiler/fmindex-collection/bitvec"
	"github.com/eseiler/fmindex-collection/fmerrors"
)

// SequenceLength describes one input sequence for CSA construction: its
// length plus how many delimiter symbols were appended after it (mirrors
// the original's (len, delimCount) pair, which matters for reverse
// indexes built over a doubled alphabet).
type SequenceLength struct {
	Len        uint64
	DelimCount uint64
}

// CSA is the sampled suffix array: bv marks retained SA positions, ssa
// holds their packed (seqId, pos) values in the order the bit dictionary
// visits them.
type CSA struct {
	bv           *bitvec.BitVector
	ssa          []uint64
	samplingRate uint64
	bitsForPos   uint
	posMask      uint64
	seqCount     int
	accSeqLens   []uint64 // accumulated sequence start offsets, length seqCount+1
}

// Value decodes the suffix-array entry at position idx. ok is false when
// idx was not a sampled position.
func (c *CSA) Value(idx int) (seqID uint64, pos uint64, ok bool) {
	if !c.bv.Value(idx) {
		return 0, 0, false
	}
	v := c.ssa[c.bv.Rank(idx)]
	return v >> c.bitsForPos, v & c.posMask, true
}

// IsSampled reports whether idx is a retained suffix-array position,
// without paying for the decode.
func (c *CSA) IsSampled(idx int) bool { return c.bv.Value(idx) }

// SamplingRate returns the sampling rate the CSA was built with.
func (c *CSA) SamplingRate() uint64 { return c.samplingRate }

// SeqCount returns the number of input sequences.
func (c *CSA) SeqCount() int { return c.seqCount }

// MemoryUsage reports the CSA's actual memory footprint in bytes.
func (c *CSA) MemoryUsage() int {
	return len(c.ssa)*8 + c.bv.MemoryUsage()
}

// Build constructs a CSA from a full suffix array over the concatenated,
// sentinel-delimited multi-sequence text, the per-sequence lengths used to
// resolve SA offsets back to (seqId, pos), and a sampling rate: positions
// i with SA[i] mod samplingRate == 0 are retained, and so is the position
// whose SA value is the first symbol of each sequence, so that a locate
// walk never LF-steps across a sentinel into the previous sequence.
//
// When reverse is true, retained positions are remapped as the original
// does for reverse indexes: pos within a sequence becomes len-pos, and any
// offset that already lies at or past the sequence's stored length — the
// sentinel itself — maps to len+1, a sentinel marker position Locate never
// reports as a real hit.
//
// Build returns a *fmerrors.ConfigError if seqId and position cannot be
// packed into a single 64-bit word.
func Build(sa []uint64, seqLens []SequenceLength, samplingRate uint64, reverse bool) (*CSA, error) {
	if samplingRate == 0 {
		return nil, fmerrors.NewConfigError("csa.Build", "samplingRate must be > 0")
	}

	var longest uint64
	accSeqLens := make([]uint64, len(seqLens)+1)
	for i, sl := range seqLens {
		total := sl.Len + sl.DelimCount
		if total > longest {
			longest = total
		}
		accSeqLens[i+1] = accSeqLens[i] + total
	}

	maxPos := longest
	if reverse {
		// the sentinel marker len+1 can reach longest itself
		maxPos = longest + 1
	}
	bitsForPos := bitsForValue(maxPos)
	bitsForSeq := bitsForValue(uint64(len(seqLens)))
	if bitsForSeq < 1 {
		bitsForSeq = 1
	}
	if uint64(bitsForPos)+uint64(bitsForSeq) > 64 {
		return nil, fmerrors.NewConfigError("csa.Build",
			"sequence count and length require %d+%d > 64 bits to pack", bitsForPos, bitsForSeq)
	}

	posMask := uint64(1)<<bitsForPos - 1

	retain := func(v uint64) bool {
		return v%samplingRate == 0 || accSeqLens[upperBound(accSeqLens, v)-1] == v
	}
	bv := bitvec.Build(len(sa), func(i int) bool { return retain(sa[i]) })

	ssa := make([]uint64, 0, bv.Rank(len(sa)))
	for _, v := range sa {
		if !retain(v) {
			continue
		}
		seqID := upperBound(accSeqLens, v) - 1
		pos := v - accSeqLens[seqID]
		if reverse {
			sl := seqLens[seqID]
			if pos < sl.Len {
				pos = sl.Len - pos
			} else {
				pos = sl.Len + 1
			}
		}
		ssa = append(ssa, uint64(seqID)<<bitsForPos|(pos&posMask))
	}

	return &CSA{
		bv:           bv,
		ssa:          ssa,
		samplingRate: samplingRate,
		bitsForPos:   bitsForPos,
		posMask:      posMask,
		seqCount:     len(seqLens),
		accSeqLens:   accSeqLens,
	}, nil
}

// bitsForValue returns ceil(log2(v)), treating v<=1 as needing 1 bit (the
// original's std::ceil(std::log2(...)) degenerates the same way for
// single-sequence, single-length inputs).
func bitsForValue(v uint64) uint {
	if v <= 1 {
		return 1
	}
	n := uint(0)
	for p := uint64(1); p < v; p <<= 1 {
		n++
	}
	return n
}

// upperBound returns the index of the first element of acc strictly
// greater than v (sort.Search-based analogue of std::upper_bound).
func upperBound(acc []uint64, v uint64) int {
	return sort.Search(len(acc), func(i int) bool { return acc[i] > v })
}

func (c *CSA) String() string {
	return fmt.Sprintf("csa.CSA{seqCount=%d, samplingRate=%d, samples=%d}", c.seqCount, c.samplingRate, len(c.ssa))
}
