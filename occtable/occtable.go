// Package occtable implements the pluggable occurrence-table (OccTable)
// layouts every FM-index step consults: "how many times did symbol c occur
// in BWT[0..i)?", answered in O(1), plus the derived prefix-rank and
// inverse-access (symbol) queries.
//
// Every layout in the educational set is implemented: Naive (the test
// oracle), PerSymbol (one bit dictionary per symbol), Wavelet (a balanced
// binary wavelet tree of bit dictionaries), EPR (bit-parallel planes with a
// block/superblock hierarchy), and InterleavedEPR (packed-word planes).
// A layout is chosen when an index is built; package fmindex holds it as a
// Table interface value, so every query goes through interface method
// dispatch.
//
// Rank here is the raw occurrence count within the BWT; it deliberately
// does not fold in the C-array offset (unlike the C-array-fused rank some
// FM-index implementations expose), so that the invariant
// "sum_c rank(i,c) == i" holds exactly as specified. Callers that need the
// absolute suffix-array offset add C[c] themselves (see package fmindex).
package occtable

// Table is the contract every OccTable layout satisfies.
type Table interface {
	// Sigma returns the alphabet size.
	Sigma() int
	// Size returns N, the length of the BWT the table was built from.
	Size() uint64
	// Rank returns the number of occurrences of symbol c in BWT[0, i).
	Rank(i int, c uint8) uint64
	// PrefixRank returns the number of occurrences of any symbol c' <= c
	// in BWT[0, i).
	PrefixRank(i int, c uint8) uint64
	// Symbol returns BWT[i].
	Symbol(i int) uint8
	// AllRanks computes Rank and PrefixRank for every symbol at once; it
	// is always at least as cheap as Sigma independent Rank/PrefixRank
	// calls, and for several layouts it is strictly cheaper.
	AllRanks(i int) (ranks []uint64, prefixRanks []uint64)
	// MemoryUsage reports the table's actual memory footprint in bytes.
	MemoryUsage() int
}

// RankSymboler is an optional capability: the combined "what symbol is at
// i, and what is its rank" query the EPR family can answer in a single
// pass, recovered from the original's rank_symbol.
type RankSymboler interface {
	RankSymbol(i int) (rank uint64, symb uint8)
}

// NaiveTable, PerSymbolTable, WaveletTable, EPRTable, and
// InterleavedEPRTable adapt each layout's constructor to return the Table
// interface directly, so they can be passed wherever a layout is selected
// by value (e.g. fmindex.TableConstructor) without each call site writing
// its own wrapper closure.
func NaiveTable(bwt []uint8, sigma int) Table { return NewNaive(bwt, sigma) }

func PerSymbolTable(bwt []uint8, sigma int) Table { return NewPerSymbol(bwt, sigma) }

func WaveletTable(bwt []uint8, sigma int) Table { return NewWavelet(bwt, sigma) }

func EPRTable(bwt []uint8, sigma int) Table { return NewEPR(bwt, sigma) }

func InterleavedEPRTable(bwt []uint8, sigma int) Table { return NewInterleavedEPR(bwt, sigma) }

// bitsForSigma returns ceil(log2(sigma)), the number of bit-planes/tree
// levels needed to distinguish sigma symbols.
func bitsForSigma(sigma int) int {
	if sigma <= 1 {
		return 1
	}
	n := 0
	for v := sigma - 1; v > 0; v >>= 1 {
		n++
	}
	return n
}
