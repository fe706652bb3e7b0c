package occtable

import "github.com/eseiler/fmindex-collection/bitvec"

// Wavelet is a balanced binary wavelet tree of bit dictionaries: rank
// descends ceil(log2(Sigma)) levels, one bit dictionary query per level.
// Grounded on spec.md 4.B.3 and the call contract the teacher's bwt.go
// fixes for its wavelet tree (Rank(symbol, i), Access(i)) — the teacher
// repo referenced this type without shipping its body, so the tree itself
// is built fresh from the standard wavelet-tree algorithm.
type Wavelet struct {
	sigma int
	bits  int
	// nodes[id] is the bit dictionary at tree node id, in a complete
	// binary tree laid out as a flat array (id*2+1, id*2+2 are children).
	nodes []*bitvec.BitVector
	size  uint64
}

// NewWavelet builds a Wavelet table from a BWT of values in [0, sigma).
func NewWavelet(bwt []uint8, sigma int) *Wavelet {
	bits := bitsForSigma(sigma)
	numNodes := (1 << uint(bits)) - 1
	w := &Wavelet{sigma: sigma, bits: bits, nodes: make([]*bitvec.BitVector, numNodes), size: uint64(len(bwt))}
	if numNodes == 0 {
		return w
	}
	w.build(0, 0, bwt)
	return w
}

func (w *Wavelet) build(id, depth int, symbols []uint8) {
	if depth == w.bits {
		return
	}
	shift := uint(w.bits - 1 - depth)
	w.nodes[id] = bitvec.Build(len(symbols), func(i int) bool {
		return (symbols[i]>>shift)&1 == 1
	})

	left := make([]uint8, 0, len(symbols))
	right := make([]uint8, 0, len(symbols))
	for _, s := range symbols {
		if (s>>shift)&1 == 1 {
			right = append(right, s)
		} else {
			left = append(left, s)
		}
	}
	if len(left) > 0 {
		w.build(id*2+1, depth+1, left)
	}
	if len(right) > 0 {
		w.build(id*2+2, depth+1, right)
	}
}

// WaveletExpectedMemoryUsage is the closed-form estimate: ceil(log2 Sigma)
// bit dictionaries of length N, like the per-symbol layout but independent
// of Sigma's magnitude beyond its log.
func WaveletExpectedMemoryUsage(sigma int, length uint64) uint64 {
	bits := uint64(bitsForSigma(sigma))
	return bits * (length/8 + length/8*3/8 + 64)
}

func (t *Wavelet) Sigma() int   { return t.sigma }
func (t *Wavelet) Size() uint64 { return t.size }

func (t *Wavelet) Rank(i int, c uint8) uint64 {
	pos := i
	id := 0
	for depth := 0; depth < t.bits; depth++ {
		node := t.nodes[id]
		if node == nil {
			return 0
		}
		shift := uint(t.bits - 1 - depth)
		bit := (c >> shift) & 1
		r := node.Rank(pos)
		if bit == 1 {
			pos = r
			id = id*2 + 2
		} else {
			pos = pos - r
			id = id*2 + 1
		}
	}
	return uint64(pos)
}

func (t *Wavelet) PrefixRank(i int, c uint8) uint64 {
	var a uint64
	for s := uint8(0); s <= c; s++ {
		a += t.Rank(i, s)
	}
	return a
}

func (t *Wavelet) Symbol(i int) uint8 {
	pos := i
	id := 0
	var symb uint8
	for depth := 0; depth < t.bits; depth++ {
		node := t.nodes[id]
		bit := node.Value(pos)
		r := node.Rank(pos)
		symb <<= 1
		if bit {
			symb |= 1
			pos = r
			id = id*2 + 2
		} else {
			pos = pos - r
			id = id*2 + 1
		}
	}
	return symb
}

func (t *Wavelet) AllRanks(i int) (ranks, prefixRanks []uint64) {
	ranks = make([]uint64, t.sigma)
	prefixRanks = make([]uint64, t.sigma)
	var acc uint64
	for c := 0; c < t.sigma; c++ {
		ranks[c] = t.Rank(i, uint8(c))
		acc += ranks[c]
		prefixRanks[c] = acc
	}
	return
}

func (t *Wavelet) MemoryUsage() int {
	n := 0
	for _, node := range t.nodes {
		if node != nil {
			n += node.MemoryUsage()
		}
	}
	return n
}
