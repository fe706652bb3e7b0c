package fmindex

// FMCursor is a single SA-interval over a forward FMIndex, navigable only
// by LF-stepping (prepending a symbol).
type FMCursor struct {
	idx     *FMIndex
	Lb, Len int
}

// NewFMCursor returns a cursor over the whole index, the empty pattern.
func NewFMCursor(idx *FMIndex) FMCursor {
	return FMCursor{idx: idx, Lb: 0, Len: int(idx.Size())}
}

// Count returns the interval length.
func (c FMCursor) Count() int { return c.Len }

// Extend prepends sym to the pattern this cursor represents.
func (c FMCursor) Extend(sym uint8) FMCursor {
	lb := c.idx.LF(c.Lb, sym)
	ub := c.idx.LF(c.Lb+c.Len, sym)
	return FMCursor{idx: c.idx, Lb: lb, Len: ub - lb}
}

// ReverseFMCursor is the mirror of FMCursor over a ReverseFMIndex:
// LF-stepping on the reverse text appends sym to the original pattern.
type ReverseFMCursor struct {
	idx     *ReverseFMIndex
	Lb, Len int
}

// NewReverseFMCursor returns a cursor over the whole reverse index.
func NewReverseFMCursor(idx *ReverseFMIndex) ReverseFMCursor {
	return ReverseFMCursor{idx: idx, Lb: 0, Len: int(idx.Size())}
}

// Count returns the interval length.
func (c ReverseFMCursor) Count() int { return c.Len }

// Extend appends sym to the pattern this cursor represents.
func (c ReverseFMCursor) Extend(sym uint8) ReverseFMCursor {
	lb := c.idx.LF(c.Lb, sym)
	ub := c.idx.LF(c.Lb+c.Len, sym)
	return ReverseFMCursor{idx: c.idx, Lb: lb, Len: ub - lb}
}

// BiCursor carries equal-length intervals on both the forward and reverse
// index of a BiFMIndex, and can extend the pattern on either side.
type BiCursor struct {
	idx              *BiFMIndex
	Lb, LbRev, Len int
}

// NewBiCursor returns a cursor over the whole index, the empty pattern.
func NewBiCursor(idx *BiFMIndex) BiCursor {
	return BiCursor{idx: idx, Lb: 0, LbRev: 0, Len: int(idx.Size())}
}

// Count returns the interval length.
func (c BiCursor) Count() int { return c.Len }

// ExtendLeft prepends sym to the pattern, updating both intervals per the
// bidirectional extension formula: the new forward interval comes directly
// from the forward OccTable's ranks at the current bounds, and the reverse
// lower bound shifts by the count of symbols strictly less than sym that
// fall inside the current interval.
func (c BiCursor) ExtendLeft(sym uint8) BiCursor {
	cArr := c.idx.CArray()
	r, pr := c.idx.Forward.AllRanks(c.Lb)
	r2, pr2 := c.idx.Forward.AllRanks(c.Lb + c.Len)

	newLb := int(cArr[sym]) + int(r[sym])
	newLen := int(r2[sym]) - int(r[sym])
	newLbRev := c.LbRev + int(prefixBelow(pr2, sym)-prefixBelow(pr, sym))

	return BiCursor{idx: c.idx, Lb: newLb, LbRev: newLbRev, Len: newLen}
}

// ExtendRight appends sym to the pattern; symmetric to ExtendLeft using
// the reverse OccTable.
func (c BiCursor) ExtendRight(sym uint8) BiCursor {
	cArr := c.idx.CArray()
	r, pr := c.idx.Reverse.AllRanks(c.LbRev)
	r2, pr2 := c.idx.Reverse.AllRanks(c.LbRev + c.Len)

	newLbRev := int(cArr[sym]) + int(r[sym])
	newLen := int(r2[sym]) - int(r[sym])
	newLb := c.Lb + int(prefixBelow(pr2, sym)-prefixBelow(pr, sym))

	return BiCursor{idx: c.idx, Lb: newLb, LbRev: newLbRev, Len: newLen}
}

// ToLeftOnly projects a BiCursor onto its forward interval, for a search
// that has committed to left-only extension and no longer needs the
// reverse bookkeeping.
func (c BiCursor) ToLeftOnly() LeftBiCursor {
	return LeftBiCursor{idx: c.idx, Lb: c.Lb, Len: c.Len}
}

// prefixBelow returns prefixRanks[sym-1], or 0 when sym is the smallest
// symbol (there is nothing strictly below it).
func prefixBelow(prefixRanks []uint64, sym uint8) uint64 {
	if sym == 0 {
		return 0
	}
	return prefixRanks[sym-1]
}

// LeftBiCursor is a BiCursor projected onto its forward interval only: it
// can still extend left (plain backward search) but has given up the
// reverse interval needed for extendRight.
type LeftBiCursor struct {
	idx     *BiFMIndex
	Lb, Len int
}

// Count returns the interval length.
func (c LeftBiCursor) Count() int { return c.Len }

// ExtendLeft prepends sym to the pattern.
func (c LeftBiCursor) ExtendLeft(sym uint8) LeftBiCursor {
	cArr := c.idx.CArray()
	r, _ := c.idx.Forward.AllRanks(c.Lb)
	r2, _ := c.idx.Forward.AllRanks(c.Lb + c.Len)
	newLb := int(cArr[sym]) + int(r[sym])
	return LeftBiCursor{idx: c.idx, Lb: newLb, Len: int(r2[sym]) - int(r[sym])}
}
