// Package sabuild constructs the full suffix array and BWT the rest of the
// collection is built from: the spec treats this as a black box ("built
// once from an immutable text"), but a complete index needs a concrete
// builder. Multiple rank-alphabet sequences are concatenated behind a
// shared sentinel symbol (0) and sorted as a single string, the same
// approach the teacher's BWT construction takes for a single sequence,
// generalized to many.
package sabuild

import (
	"golang.org/x/exp/slices"

	"github.com/eseiler/fmindex-collection/csa"
	"github.com/eseiler/fmindex-collection/fmerrors"
)

// Sentinel is the rank-alphabet symbol reserved to terminate every
// sequence. Input sequences must not contain it.
const Sentinel uint8 = 0

// Result is the full suffix array, BWT, concatenated text, and
// per-sequence length bookkeeping sabuild produces from a set of
// sequences.
type Result struct {
	Text    []uint8
	SA      []uint64
	BWT     []uint8
	SeqLens []csa.SequenceLength
}

// Build concatenates sequences (each a slice of symbols in [1, sigma)),
// appending Sentinel after every one, then builds the full suffix array by
// sorting all N suffixes of the concatenation and derives the BWT from it.
//
// Where two suffixes are equal up to and including their terminating
// sentinel — i.e. both are the single-sentinel suffix of their own
// sequence, or otherwise indistinguishable up to that point — they are
// ordered by ascending originating sequence index; spec.md leaves this
// case unspecified.
func Build(sequences [][]uint8) (*Result, error) {
	seqOf := make([]int, 0)
	text := make([]uint8, 0)
	seqLens := make([]csa.SequenceLength, len(sequences))

	for s, seq := range sequences {
		for _, sym := range seq {
			if sym == Sentinel {
				return nil, fmerrors.NewConfigError("sabuild.Build",
					"sequence %d contains reserved sentinel symbol %d", s, Sentinel)
			}
			text = append(text, sym)
			seqOf = append(seqOf, s)
		}
		text = append(text, Sentinel)
		seqOf = append(seqOf, s)
		seqLens[s] = csa.SequenceLength{Len: uint64(len(seq)), DelimCount: 1}
	}

	n := len(text)
	sa := make([]uint64, n)
	for i := range sa {
		sa[i] = uint64(i)
	}

	compare := func(i, j uint64) int {
		si, sj := seqOf[i], seqOf[j]
		ti, tj := int(i), int(j)
		for {
			a, c := text[ti], text[tj]
			if a != c {
				if a < c {
					return -1
				}
				return 1
			}
			if a == Sentinel {
				return si - sj
			}
			ti++
			tj++
		}
	}
	slices.SortFunc(sa, compare)

	bwt := make([]uint8, n)
	for k, pos := range sa {
		prev := int(pos) - 1
		if prev < 0 {
			prev = n - 1
		}
		bwt[k] = text[prev]
	}

	return &Result{Text: text, SA: sa, BWT: bwt, SeqLens: seqLens}, nil
}
