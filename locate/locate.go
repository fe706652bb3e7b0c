// Package locate translates a terminal SA interval into concrete
// (seqId, pos) hits by walking backward through the forward FM-index to a
// sampled suffix-array position, per spec.md 4.H.
package locate

import "github.com/eseiler/fmindex-collection/fmindex"

// Position is one resolved hit: the sequence it falls in and the offset
// within that sequence.
type Position struct {
	SeqID uint64
	Pos   uint64
}

// Linear resolves every position in the half-open interval [lb, lb+length)
// independently: for each one, repeatedly LF-step until landing on a
// sampled suffix-array entry, then add back the number of steps taken.
// Worst case, this queries the occurrence table r times per element,
// where r is the sampling rate.
func Linear(idx *fmindex.BiFMIndex, lb, length int) []Position {
	fwd := idx.Forward
	sa := idx.CSA()

	out := make([]Position, length)
	for k := 0; k < length; k++ {
		pos := lb + k
		var steps uint64
		for {
			if seqID, p, ok := sa.Value(pos); ok {
				out[k] = Position{SeqID: seqID, Pos: p + steps}
				break
			}
			pos = fwd.LFAt(pos)
			steps++
		}
	}
	return out
}

// FMTree resolves the same interval as Linear but keeps every
// still-unresolved element together as one batch and advances the whole
// batch one LF-step per round, with a Symbol query and an AllRanks query
// per active element. Elements that land on a sampled position drop out of
// the batch immediately, so a batch with a mix of near and far positions
// shrinks as it goes. Elements are not grouped by their preceding symbol:
// each one is stepped on its own, so the occurrence table is queried at
// least as often as in Linear.
func FMTree(idx *fmindex.BiFMIndex, lb, length int) []Position {
	fwd := idx.Forward
	sa := idx.CSA()
	c := idx.CArray()

	type elem struct {
		out   int
		pos   int
		steps uint64
	}
	active := make([]elem, length)
	for k := 0; k < length; k++ {
		active[k] = elem{out: k, pos: lb + k}
	}

	out := make([]Position, length)
	for len(active) > 0 {
		next := active[:0]
		for _, e := range active {
			if seqID, p, ok := sa.Value(e.pos); ok {
				out[e.out] = Position{SeqID: seqID, Pos: p + e.steps}
				continue
			}
			ranks, _ := fwd.AllRanks(e.pos)
			sym := fwd.Symbol(e.pos)
			newPos := int(c[sym]) + int(ranks[sym])
			next = append(next, elem{out: e.out, pos: newPos, steps: e.steps + 1})
		}
		active = next
	}
	return out
}
