package occtable

import "github.com/eseiler/fmindex-collection/bitvec"

// PerSymbol holds one bitvec.BitVector per alphabet symbol: rank(i,c) is
// bv[c].Rank(i). Simple, at Sigma times the memory of a single bit
// dictionary. Grounded on spec.md 4.B.2.
type PerSymbol struct {
	sigma int
	bv    []*bitvec.BitVector
}

// NewPerSymbol builds a PerSymbol table from a BWT of values in [0, sigma).
func NewPerSymbol(bwt []uint8, sigma int) *PerSymbol {
	bvs := make([]*bitvec.BitVector, sigma)
	for c := 0; c < sigma; c++ {
		sym := uint8(c)
		bvs[c] = bitvec.Build(len(bwt), func(i int) bool { return bwt[i] == sym })
	}
	return &PerSymbol{sigma: sigma, bv: bvs}
}

// PerSymbolExpectedMemoryUsage is the closed-form estimate: Sigma bit
// dictionaries, each roughly 1.375 bits/input-bit like the underlying
// three-level bit dictionary layout.
func PerSymbolExpectedMemoryUsage(sigma int, length uint64) uint64 {
	return uint64(sigma) * (length/8 + length/8*3/8 + 64)
}

func (t *PerSymbol) Sigma() int { return t.sigma }

func (t *PerSymbol) Size() uint64 {
	var n uint64
	for c := 0; c < t.sigma; c++ {
		n += t.bv[c].Rank(t.bv[c].Len())
	}
	return n
}

func (t *PerSymbol) Rank(i int, c uint8) uint64 { return t.bv[c].Rank(i) }

func (t *PerSymbol) PrefixRank(i int, c uint8) uint64 {
	var a uint64
	for s := uint8(0); s <= c; s++ {
		a += t.bv[s].Rank(i)
	}
	return a
}

func (t *PerSymbol) Symbol(i int) uint8 {
	for c := 0; c < t.sigma; c++ {
		if t.bv[c].Value(i) {
			return uint8(c)
		}
	}
	panic("occtable: PerSymbol.Symbol: no symbol bitvector set at position")
}

func (t *PerSymbol) AllRanks(i int) (ranks, prefixRanks []uint64) {
	ranks = make([]uint64, t.sigma)
	prefixRanks = make([]uint64, t.sigma)
	var acc uint64
	for c := 0; c < t.sigma; c++ {
		ranks[c] = t.bv[c].Rank(i)
		acc += ranks[c]
		prefixRanks[c] = acc
	}
	return
}

func (t *PerSymbol) MemoryUsage() int {
	n := 0
	for _, b := range t.bv {
		n += b.MemoryUsage()
	}
	return n
}
