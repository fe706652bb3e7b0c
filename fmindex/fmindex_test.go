package fmindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eseiler/fmindex-collection/csa"
	"github.com/eseiler/fmindex-collection/occtable"
	"github.com/eseiler/fmindex-collection/sabuild"
)

const sigma = 4

func buildBi(t *testing.T, sequences [][]uint8) (*BiFMIndex, *sabuild.Result) {
	t.Helper()
	res, err := sabuild.Build(sequences)
	require.NoError(t, err)

	reversed := make([][]uint8, len(sequences))
	for s, seq := range sequences {
		r := make([]uint8, len(seq))
		for i, c := range seq {
			r[len(seq)-1-i] = c
		}
		reversed[s] = r
	}
	revRes, err := sabuild.Build(reversed)
	require.NoError(t, err)

	sampler, err := csa.Build(res.SA, res.SeqLens, 1, false)
	require.NoError(t, err)

	idx, err := NewBiFMIndex(res.BWT, revRes.BWT, sigma, occtable.NaiveTable, sampler)
	require.NoError(t, err)
	return idx, res
}

func TestBiFMIndexSizeMatchesText(t *testing.T) {
	idx, res := buildBi(t, [][]uint8{{1, 2, 3, 1, 2}, {2, 1, 3}})
	require.EqualValues(t, len(res.Text), idx.Size())
}

// TestExtendLeftEqualsBruteForceCount checks extendLeft against a
// brute-force count of how many suffixes start with the extended pattern.
func TestExtendLeftEqualsBruteForceCount(t *testing.T) {
	seq := []uint8{1, 2, 3, 1, 2, 1, 3, 2}
	idx, res := buildBi(t, [][]uint8{seq})

	r := rand.New(rand.NewSource(21))
	for trial := 0; trial < 30; trial++ {
		patLen := 1 + r.Intn(3)
		pattern := make([]uint8, patLen)
		for i := range pattern {
			pattern[i] = uint8(1 + r.Intn(sigma-1))
		}

		cur := NewBiCursor(idx)
		for i := len(pattern) - 1; i >= 0; i-- {
			cur = cur.ExtendLeft(pattern[i])
		}

		want := bruteForceCount(res.Text, pattern)
		require.Equalf(t, want, cur.Count(), "pattern %v", pattern)
	}
}

// TestExtendRightMatchesExtendLeft checks the two directions produce the
// same interval length for the same pattern, confirming extendRight's
// symmetric formula is consistent with extendLeft.
func TestExtendRightMatchesExtendLeft(t *testing.T) {
	seq := []uint8{1, 2, 3, 1, 2, 1, 3, 2, 3, 1}
	idx, _ := buildBi(t, [][]uint8{seq})

	r := rand.New(rand.NewSource(22))
	for trial := 0; trial < 30; trial++ {
		patLen := 1 + r.Intn(3)
		pattern := make([]uint8, patLen)
		for i := range pattern {
			pattern[i] = uint8(1 + r.Intn(sigma-1))
		}

		left := NewBiCursor(idx)
		for i := len(pattern) - 1; i >= 0; i-- {
			left = left.ExtendLeft(pattern[i])
		}

		right := NewBiCursor(idx)
		for i := 0; i < len(pattern); i++ {
			right = right.ExtendRight(pattern[i])
		}

		require.Equalf(t, left.Count(), right.Count(), "pattern %v", pattern)
		require.Equalf(t, left.Lb, right.Lb, "pattern %v forward lb", pattern)
	}
}

func bruteForceCount(text []uint8, pattern []uint8) int {
	count := 0
	for i := 0; i+len(pattern) <= len(text); i++ {
		match := true
		for j, p := range pattern {
			if text[i+j] != p {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}

// TestExtendCompositionCommutes checks that extending a pattern by
// prepending one symbol and appending another lands on the same interval
// regardless of which extension is applied first.
func TestExtendCompositionCommutes(t *testing.T) {
	seq := []uint8{1, 2, 3, 1, 2, 1, 3, 2, 3, 1, 2, 1}
	idx, _ := buildBi(t, [][]uint8{seq})

	r := rand.New(rand.NewSource(23))
	for trial := 0; trial < 30; trial++ {
		base := make([]uint8, 1+r.Intn(2))
		for i := range base {
			base[i] = uint8(1 + r.Intn(sigma-1))
		}
		c1 := uint8(1 + r.Intn(sigma-1))
		c2 := uint8(1 + r.Intn(sigma-1))

		start := NewBiCursor(idx)
		for i := len(base) - 1; i >= 0; i-- {
			start = start.ExtendLeft(base[i])
		}

		leftThenRight := start.ExtendLeft(c1).ExtendRight(c2)
		rightThenLeft := start.ExtendRight(c2).ExtendLeft(c1)

		require.Equalf(t, leftThenRight.Count(), rightThenLeft.Count(), "base %v c1 %d c2 %d", base, c1, c2)
		require.Equalf(t, leftThenRight.Lb, rightThenLeft.Lb, "base %v c1 %d c2 %d", base, c1, c2)
		require.Equalf(t, leftThenRight.LbRev, rightThenLeft.LbRev, "base %v c1 %d c2 %d", base, c1, c2)
	}
}

// TestMixedExtensionOrderMatchesBruteForce checks that any legal interleaving
// of ExtendLeft/ExtendRight calls converges on the interval a brute-force
// scan of the assembled pattern would report, not just the pure-left or
// pure-right orderings TestExtendLeftEqualsBruteForceCount and
// TestExtendRightMatchesExtendLeft already cover.
func TestMixedExtensionOrderMatchesBruteForce(t *testing.T) {
	seq := []uint8{1, 2, 3, 1, 2, 1, 3, 2, 3, 1, 2, 1, 3, 2}
	idx, res := buildBi(t, [][]uint8{seq})

	r := rand.New(rand.NewSource(24))
	for trial := 0; trial < 30; trial++ {
		patLen := 3 + r.Intn(3)
		pattern := make([]uint8, patLen)
		for i := range pattern {
			pattern[i] = uint8(1 + r.Intn(sigma-1))
		}

		mid := patLen / 2
		cur := NewBiCursor(idx)
		for i := mid; i >= 0; i-- {
			cur = cur.ExtendLeft(pattern[i])
		}
		for i := mid + 1; i < patLen; i++ {
			cur = cur.ExtendRight(pattern[i])
		}

		want := bruteForceCount(res.Text, pattern)
		require.Equalf(t, want, cur.Count(), "pattern %v", pattern)
	}
}

func TestFMCursorExtendMatchesBiCursorLeft(t *testing.T) {
	seq := []uint8{1, 2, 1, 3, 2, 1}
	idx, _ := buildBi(t, [][]uint8{seq})

	fm := NewFMCursor(idx.Forward)
	bi := NewBiCursor(idx)
	for _, sym := range []uint8{2, 1, 3} {
		fm = fm.Extend(sym)
		bi = bi.ExtendLeft(sym)
		require.Equal(t, bi.Count(), fm.Count())
		require.Equal(t, bi.Lb, fm.Lb)
	}
}
