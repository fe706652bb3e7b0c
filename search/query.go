package search

import (
	"github.com/eseiler/fmindex-collection/fmindex"
	"github.com/eseiler/fmindex-collection/scheme"
)

// Mode selects the distance the driver searches under.
type Mode int

const (
	// ModeHamming restricts Run to match/substitution branches.
	ModeHamming Mode = iota
	// ModeEdit adds deletion/insertion branches (Levenshtein distance).
	ModeEdit
)

// QueryHit is one hit attributed back to the query that produced it, the
// shape a top-level batch query call emits to its caller before locate.
type QueryHit struct {
	QueryID int
	Cursor  fmindex.BiCursor
	Errors  int
}

// Options configures a single query's search: which named generator
// builds the Scheme, the error range, the distance mode, and the two
// cooperative policies from spec.md 4.G.
type Options struct {
	Generator       string
	MinK, MaxK      int
	Mode            Mode
	BestHits        bool
	MaxHitsPerQuery int // 0 = unbounded
}

// ForQuery runs one query under opts, calling emit for every Hit found
// (already tagged with queryID). It returns true if MaxHitsPerQuery cut
// the search short, and an error if the named generator or the resulting
// scheme is invalid.
func ForQuery(idx *fmindex.BiFMIndex, queryID int, query []uint8, opts Options, emit func(QueryHit)) (bool, error) {
	hitCount := 0
	aborted := false
	delegate := func(h Hit) bool {
		emit(QueryHit{QueryID: queryID, Cursor: h.Cursor, Errors: h.Errors})
		hitCount++
		if opts.MaxHitsPerQuery > 0 && hitCount >= opts.MaxHitsPerQuery {
			aborted = true
		}
		return aborted
	}

	runAt := func(minK, maxK int) (bool, error) {
		ss, err := scheme.Generate(opts.Generator, len(query), minK, maxK)
		if err != nil {
			return false, err
		}
		before := hitCount
		for _, s := range ss {
			exp, err := scheme.Expand(s, len(query))
			if err != nil {
				return false, err
			}
			if Run(idx, query, exp, opts.Mode == ModeEdit, delegate) {
				return true, nil
			}
		}
		return hitCount > before, nil
	}

	if !opts.BestHits {
		_, err := runAt(opts.MinK, opts.MaxK)
		return aborted, err
	}

	// Best-hits: one exact error budget k per outer iteration, smallest k
	// first, stopping as soon as one yields a hit — lower k values were
	// already tried and came up empty, so a hit at k never needs
	// re-checking against a looser bound.
	for k := opts.MinK; k <= opts.MaxK; k++ {
		found, err := runAt(k, k)
		if err != nil {
			return aborted, err
		}
		if found || aborted {
			break
		}
	}
	return aborted, nil
}
