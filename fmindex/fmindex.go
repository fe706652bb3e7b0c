// Package fmindex implements the forward, reverse, and bidirectional
// FM-index over a BWT and its occurrence table: the LF-mapping and the
// bidirectional extension formula every cursor and the search driver build
// on.
package fmindex

import (
	"github.com/eseiler/fmindex-collection/csa"
	"github.com/eseiler/fmindex-collection/fmerrors"
	"github.com/eseiler/fmindex-collection/occtable"
)

// TableConstructor builds an occtable.Table from a BWT; callers pick one
// of occtable's layouts (or any custom one satisfying the interface) and
// pass its constructor here, so the index is agnostic to which layout it
// was built with.
type TableConstructor func(bwt []uint8, sigma int) occtable.Table

// FMIndex is the forward index: BWT occurrence table, C array, and the
// sampled suffix array for locate.
type FMIndex struct {
	occ   occtable.Table
	c     []uint64
	sa    *csa.CSA
	sigma int
}

// NewFMIndex builds an FMIndex from a BWT using the given table layout.
func NewFMIndex(bwt []uint8, sigma int, newTable TableConstructor, sa *csa.CSA) *FMIndex {
	occ := newTable(bwt, sigma)
	c := make([]uint64, sigma+1)
	ranks, _ := occ.AllRanks(int(occ.Size()))
	for i := 0; i < sigma; i++ {
		c[i+1] = c[i] + ranks[i]
	}
	return &FMIndex{occ: occ, c: c, sa: sa, sigma: sigma}
}

// Size returns N, the length of the indexed BWT.
func (f *FMIndex) Size() uint64 { return f.occ.Size() }

// CArray returns the C array: C[c] is the count of symbols strictly less
// than c in the BWT, C[Σ] = N.
func (f *FMIndex) CArray() []uint64 { return f.c }

// CSA returns the sampled suffix array used to locate terminal intervals.
func (f *FMIndex) CSA() *csa.CSA { return f.sa }

// LF applies the LF-mapping: the SA-interval boundary i for pattern P
// becomes the boundary for cP.
func (f *FMIndex) LF(i int, c uint8) int {
	return int(f.c[c]) + int(f.occ.Rank(i, c))
}

// AllRanks computes rank and prefix-rank for every symbol at position i in
// a single call.
func (f *FMIndex) AllRanks(i int) (ranks, prefixRanks []uint64) {
	return f.occ.AllRanks(i)
}

// Symbol returns BWT[i].
func (f *FMIndex) Symbol(i int) uint8 { return f.occ.Symbol(i) }

// LFAt LF-steps from position i using whatever symbol is actually stored
// there, the primitive locate needs to walk an SA position backward one
// step at a time without the caller naming a character.
func (f *FMIndex) LFAt(i int) int {
	return f.LF(i, f.occ.Symbol(i))
}

// ReverseFMIndex is the identical contract built over reverse(text),
// letting a search extend a pattern to the right by LF-stepping on the
// reversed BWT.
type ReverseFMIndex struct {
	*FMIndex
}

// NewReverseFMIndex builds a ReverseFMIndex from the BWT of the reversed
// text.
func NewReverseFMIndex(bwtRev []uint8, sigma int, newTable TableConstructor, sa *csa.CSA) *ReverseFMIndex {
	return &ReverseFMIndex{NewFMIndex(bwtRev, sigma, newTable, sa)}
}

// BiFMIndex owns a forward OccTable, a reverse OccTable, one shared C
// array, and one CSA — the defining property is that a BiCursor tracks
// equal-length intervals on both indexes at once.
type BiFMIndex struct {
	Forward *FMIndex
	Reverse *ReverseFMIndex
	sa      *csa.CSA
	sigma   int
}

// NewBiFMIndex builds a BiFMIndex from a BWT and its reverse-text
// counterpart. Both must index the same underlying text (and therefore
// agree on length and per-symbol counts); NewBiFMIndex returns a
// *fmerrors.ConfigError if they don't.
func NewBiFMIndex(bwt, bwtRev []uint8, sigma int, newTable TableConstructor, sa *csa.CSA) (*BiFMIndex, error) {
	fwd := NewFMIndex(bwt, sigma, newTable, sa)
	rev := NewReverseFMIndex(bwtRev, sigma, newTable, sa)
	if fwd.Size() != rev.Size() {
		return nil, fmerrors.NewConfigError("fmindex.NewBiFMIndex",
			"forward BWT length %d does not match reverse BWT length %d", fwd.Size(), rev.Size())
	}
	for c := range fwd.c {
		if fwd.c[c] != rev.c[c] {
			return nil, fmerrors.NewConfigError("fmindex.NewBiFMIndex",
				"forward and reverse BWT symbol counts differ at C[%d]: %d vs %d", c, fwd.c[c], rev.c[c])
		}
	}
	return &BiFMIndex{Forward: fwd, Reverse: rev, sa: sa, sigma: sigma}, nil
}

// Size returns N, the length of the indexed text.
func (b *BiFMIndex) Size() uint64 { return b.Forward.Size() }

// Sigma returns the alphabet size.
func (b *BiFMIndex) Sigma() int { return b.sigma }

// CArray returns the shared C array.
func (b *BiFMIndex) CArray() []uint64 { return b.Forward.CArray() }

// CSA returns the sampled suffix array used to locate terminal intervals.
func (b *BiFMIndex) CSA() *csa.CSA { return b.sa }
