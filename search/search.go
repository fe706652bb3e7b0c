// Package search implements the backtracking approximate-search driver:
// recursion over an expanded Search's positions, extending a BiCursor one
// symbol at a time and branching on match/substitution (Hamming mode) or
// match/substitution/deletion/insertion (edit-distance mode).
package search

import (
	"github.com/eseiler/fmindex-collection/fmindex"
	"github.com/eseiler/fmindex-collection/scheme"
)

// Hit is one terminal cursor the driver reports: the pattern matched
// within the search's error bounds, with the bidirectional interval still
// attached so the caller can locate it (or extend the search further).
type Hit struct {
	Cursor fmindex.BiCursor
	Errors int
}

// Delegate receives one Hit. Returning true is the cooperative abort
// signal: the driver stops recursing for the rest of this query
// (max-hits-per-query), unwinding without panicking or using an
// exception-as-control-flow device.
type Delegate func(Hit) (stop bool)

// Run executes one already-expanded Search against query, starting from
// the whole-index cursor. editDistance selects Levenshtein-style
// deletion/insertion branches in addition to match/substitution; false
// restricts the driver to Hamming distance. Run returns true if delegate
// requested an abort.
func Run(idx *fmindex.BiFMIndex, query []uint8, exp scheme.Expanded, editDistance bool, delegate Delegate) bool {
	d := &driver{
		sigma:    idx.Sigma(),
		pi:       exp.Pi,
		l:        exp.L,
		u:        exp.U,
		query:    query,
		delegate: delegate,
	}
	cur := fmindex.NewBiCursor(idx)
	if editDistance {
		return d.searchDistance(cur, 0, 0)
	}
	return d.searchHamming(cur, 0, 0)
}

type driver struct {
	sigma    int
	pi, l, u []int
	query    []uint8
	delegate Delegate
}

// direction reports whether position pos extends the cursor to the right
// (appends) rather than to the left (prepends): right at the very first
// position, or whenever pi keeps climbing.
func (d *driver) direction(pos int) bool {
	return pos == 0 || d.pi[pos-1] < d.pi[pos]
}

func (d *driver) extend(cur fmindex.BiCursor, sym uint8, pos int) fmindex.BiCursor {
	if d.direction(pos) {
		return cur.ExtendRight(sym)
	}
	return cur.ExtendLeft(sym)
}

// extendAll builds the per-symbol extended cursor table used by both
// modes: every symbol when the error budget can still absorb a
// substitution/deletion at pos, or only the expected symbol when it can't
// (an exact match is the only branch left).
func (d *driver) extendAll(cur fmindex.BiCursor, pos int, expected uint8, needAll bool) []fmindex.BiCursor {
	cursors := make([]fmindex.BiCursor, d.sigma)
	if needAll {
		for c := 1; c < d.sigma; c++ {
			cursors[c] = d.extend(cur, uint8(c), pos)
		}
	} else {
		cursors[expected] = d.extend(cur, expected, pos)
	}
	return cursors
}

func (d *driver) searchHamming(cur fmindex.BiCursor, e, pos int) bool {
	if cur.Count() == 0 {
		return false
	}
	n := len(d.pi)
	if pos == n {
		if d.l[pos-1] <= e && e <= d.u[pos-1] {
			return d.delegate(Hit{Cursor: cur, Errors: e})
		}
		return false
	}
	if e > d.u[pos] {
		return false
	}

	expected := d.query[d.pi[pos]]
	cursors := d.extendAll(cur, pos, expected, e+1 <= d.u[pos])

	if d.l[pos] <= e {
		if d.searchHamming(cursors[expected], e, pos+1) {
			return true
		}
	}
	if d.l[pos] <= e+1 && e+1 <= d.u[pos] {
		for c := 1; c < d.sigma; c++ {
			if uint8(c) == expected {
				continue
			}
			if d.searchHamming(cursors[c], e+1, pos+1) {
				return true
			}
		}
	}
	return false
}

func (d *driver) searchDistance(cur fmindex.BiCursor, e, pos int) bool {
	if cur.Count() == 0 {
		return false
	}
	n := len(d.pi)
	if pos == n {
		if d.l[pos-1] <= e && e <= d.u[pos-1] {
			return d.delegate(Hit{Cursor: cur, Errors: e})
		}
		return false
	}
	if e > d.u[pos] {
		return false
	}

	expected := d.query[d.pi[pos]]
	cursors := d.extendAll(cur, pos, expected, e+1 <= d.u[pos])

	// match
	if d.l[pos] <= e {
		if d.searchDistance(cursors[expected], e, pos+1) {
			return true
		}
	}
	// substitution
	if d.l[pos] <= e+1 && e+1 <= d.u[pos] {
		for c := 1; c < d.sigma; c++ {
			if uint8(c) == expected {
				continue
			}
			if d.searchDistance(cursors[c], e+1, pos+1) {
				return true
			}
		}
	}
	// deletion: consume an index symbol, the query position does not
	// advance.
	if e+1 <= d.u[pos] {
		for c := 1; c < d.sigma; c++ {
			if d.searchDistance(cursors[c], e+1, pos) {
				return true
			}
		}
	}
	// insertion: consume a query symbol without extending the cursor.
	if d.l[pos] <= e+1 && e+1 <= d.u[pos] {
		if d.searchDistance(cur, e+1, pos+1) {
			return true
		}
	}
	return false
}
