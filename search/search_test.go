package search

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eseiler/fmindex-collection/csa"
	"github.com/eseiler/fmindex-collection/fmindex"
	"github.com/eseiler/fmindex-collection/locate"
	"github.com/eseiler/fmindex-collection/occtable"
	"github.com/eseiler/fmindex-collection/sabuild"
	"github.com/eseiler/fmindex-collection/scheme"
)

const sigma = 5

// alphabet assigns consecutive rank-alphabet symbols (starting at 1, 0
// stays reserved for the sentinel) to runes in first-seen order, so a
// scenario's text and query share one consistent encoding.
type alphabet struct {
	ranks map[rune]uint8
	next  uint8
}

func newAlphabet() *alphabet { return &alphabet{ranks: map[rune]uint8{}, next: 1} }

func (a *alphabet) encode(s string) []uint8 {
	out := make([]uint8, len(s))
	for i, r := range s {
		v, ok := a.ranks[r]
		if !ok {
			v = a.next
			a.ranks[r] = v
			a.next++
		}
		out[i] = v
	}
	return out
}

func buildBi(t *testing.T, sequences [][]uint8) *fmindex.BiFMIndex {
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

	sampler, err := csa.Build(res.SA, res.SeqLens, 2, false)
	require.NoError(t, err)

	idx, err := fmindex.NewBiFMIndex(res.BWT, revRes.BWT, sigma, occtable.NaiveTable, sampler)
	require.NoError(t, err)
	return idx
}

type hitResult struct {
	SeqID, Pos uint64
	Errors     int
}

func sortHits(hs []hitResult) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].SeqID != hs[j].SeqID {
			return hs[i].SeqID < hs[j].SeqID
		}
		if hs[i].Pos != hs[j].Pos {
			return hs[i].Pos < hs[j].Pos
		}
		return hs[i].Errors < hs[j].Errors
	})
}

// collect runs a plain (non-best-hits, unbounded) backtracking search over
// [minK, maxK] and resolves every emitted cursor to concrete positions via
// locate, sorted for comparison.
func collect(t *testing.T, idx *fmindex.BiFMIndex, query []uint8, minK, maxK int, edit bool) []hitResult {
	t.Helper()
	mode := ModeHamming
	if edit {
		mode = ModeEdit
	}
	var out []hitResult
	_, err := ForQuery(idx, 0, query, Options{Generator: "backtracking", MinK: minK, MaxK: maxK, Mode: mode},
		func(h QueryHit) {
			for _, p := range locate.Linear(idx, h.Cursor.Lb, h.Cursor.Count()) {
				out = append(out, hitResult{SeqID: p.SeqID, Pos: p.Pos, Errors: h.Errors})
			}
		})
	require.NoError(t, err)
	sortHits(out)
	return out
}

func TestE1ExactHammingSingleHit(t *testing.T) {
	a := newAlphabet()
	text := a.encode("ACGT")
	query := a.encode("ACG")
	idx := buildBi(t, [][]uint8{text})

	got := collect(t, idx, query, 0, 0, false)
	require.Equal(t, []hitResult{{SeqID: 0, Pos: 0, Errors: 0}}, got)
}

func TestE2ExactHammingTwoHits(t *testing.T) {
	a := newAlphabet()
	text := a.encode("ACGTACGT")
	query := a.encode("CGT")
	idx := buildBi(t, [][]uint8{text})

	got := collect(t, idx, query, 0, 0, false)
	require.Equal(t, []hitResult{
		{SeqID: 0, Pos: 1, Errors: 0},
		{SeqID: 0, Pos: 5, Errors: 0},
	}, got)
}

func TestE3HammingKEqualsOne(t *testing.T) {
	a := newAlphabet()
	text := a.encode("AACCGGTT")
	query := a.encode("ACG")
	idx := buildBi(t, [][]uint8{text})

	got := collect(t, idx, query, 0, 1, false)

	want := bruteForceHamming(text, query, 1)
	require.Equal(t, want, got)
}

func TestE4BananaExactHamming(t *testing.T) {
	a := newAlphabet()
	text := a.encode("BANANA")
	query := a.encode("ANA")
	idx := buildBi(t, [][]uint8{text})

	got := collect(t, idx, query, 0, 0, false)
	require.Equal(t, []hitResult{
		{SeqID: 0, Pos: 1, Errors: 0},
		{SeqID: 0, Pos: 3, Errors: 0},
	}, got)
}

func TestE5TwoSequences(t *testing.T) {
	a := newAlphabet()
	s0 := a.encode("AC")
	s1 := a.encode("CA")
	query := a.encode("C")
	idx := buildBi(t, [][]uint8{s0, s1})

	got := collect(t, idx, query, 0, 0, false)
	require.Equal(t, []hitResult{
		{SeqID: 0, Pos: 1, Errors: 0},
		{SeqID: 1, Pos: 0, Errors: 0},
	}, got)
}

// TestE6EditVsHamming starts from the scenario in spec.md 9 (a deletion
// aligns "AGT" against "ACGT" with one error) but — per that section's own
// instruction to verify this case against an independent oracle rather
// than trust the prose — checks both modes against brute-force oracles
// instead of hard-coding the narrative's hit counts. Worked by hand: at
// k=1, edit mode actually accepts three alignments ("ACGT" at offset 0 via
// deleting C, "CGT" at offset 1 via one substitution, and "GT" at offset 2
// via treating the leading 'A' as an inserted query symbol), and Hamming
// mode accepts one ("CGT" at offset 1, one
// substitution) rather than the zero the prose suggests. See DESIGN.md's
// open-questions entry.
func TestE6EditVsHamming(t *testing.T) {
	a := newAlphabet()
	text := a.encode("ACGT")
	query := a.encode("AGT")
	idx := buildBi(t, [][]uint8{text})

	edit := collect(t, idx, query, 0, 1, true)
	editPositions := map[uint64]bool{}
	for _, h := range edit {
		editPositions[h.Pos] = true
	}
	wantEdit := map[uint64]bool{}
	for _, h := range bruteForceEdit(text, query, 1) {
		wantEdit[h.Pos] = true
	}
	require.Equal(t, wantEdit, editPositions)

	ham := collect(t, idx, query, 0, 1, false)
	require.Equal(t, bruteForceHamming(text, query, 1), ham)
}

// bruteForceHamming slides query across text at query's own length and
// reports every window within Hamming distance maxK, the independent
// oracle TestE3/TestE6 check the driver against.
func bruteForceHamming(text, query []uint8, maxK int) []hitResult {
	var out []hitResult
	for i := 0; i+len(query) <= len(text); i++ {
		e := 0
		for j, q := range query {
			if text[i+j] != q {
				e++
			}
		}
		if e <= maxK {
			out = append(out, hitResult{SeqID: 0, Pos: uint64(i), Errors: e})
		}
	}
	sortHits(out)
	return out
}

// bruteForceEdit slides a window of every length in
// [len(query)-maxK, len(query)+maxK] across text and reports every window
// whose Levenshtein distance to query is <= maxK, deduplicated to the
// minimal-error alignment per start position (matching the driver, which
// reports one terminal cursor per accepted error count along a given
// search path rather than every possible alignment length).
func bruteForceEdit(text, query []uint8, maxK int) []hitResult {
	best := map[uint64]int{}
	for length := len(query) - maxK; length <= len(query)+maxK; length++ {
		if length <= 0 {
			continue
		}
		for i := 0; i+length <= len(text); i++ {
			e := levenshtein(text[i:i+length], query)
			if e > maxK {
				continue
			}
			if cur, ok := best[uint64(i)]; !ok || e < cur {
				best[uint64(i)] = e
			}
		}
	}
	out := make([]hitResult, 0, len(best))
	for pos, e := range best {
		out = append(out, hitResult{SeqID: 0, Pos: pos, Errors: e})
	}
	sortHits(out)
	return out
}

func levenshtein(a, b []uint8) int {
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev = cur
	}
	return prev[len(b)]
}

func TestHammingSoundnessAndCompleteness(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for trial := 0; trial < 15; trial++ {
		text := randomRankSeq(r, 20)
		query := randomRankSeq(r, 3+r.Intn(3))
		idx := buildBi(t, [][]uint8{text})

		for k := 0; k <= 2; k++ {
			got := collect(t, idx, query, 0, k, false)
			want := bruteForceHamming(text, query, k)
			require.Equalf(t, want, got, "text=%v query=%v k=%d", text, query, k)
		}
	}
}

func TestEditDistanceSoundnessAndCompleteness(t *testing.T) {
	r := rand.New(rand.NewSource(100))
	for trial := 0; trial < 15; trial++ {
		text := randomRankSeq(r, 16)
		query := randomRankSeq(r, 3+r.Intn(3))
		idx := buildBi(t, [][]uint8{text})

		for k := 0; k <= 1; k++ {
			got := collect(t, idx, query, 0, k, true)
			want := bruteForceEdit(text, query, k)

			gotPositions := map[uint64]bool{}
			for _, h := range got {
				gotPositions[h.Pos] = true
			}
			wantPositions := map[uint64]bool{}
			for _, h := range want {
				wantPositions[h.Pos] = true
			}
			require.Equalf(t, wantPositions, gotPositions, "text=%v query=%v k=%d", text, query, k)
		}
	}
}

func randomRankSeq(r *rand.Rand, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(1 + r.Intn(sigma-1))
	}
	return out
}

func TestMaxHitsPerQueryAborts(t *testing.T) {
	// A hit is one terminal cursor, however many occurrences it covers.
	// The text holds CGT, CGA and CGC, so the k=1 search has three distinct
	// terminal cursors and the cap of two cuts it short.
	a := newAlphabet()
	text := a.encode("ACGTACGAACGCACGT")
	query := a.encode("CGT")
	idx := buildBi(t, [][]uint8{text})

	var count int
	aborted, err := ForQuery(idx, 0, query, Options{Generator: "backtracking", MinK: 0, MaxK: 1, MaxHitsPerQuery: 2},
		func(QueryHit) { count++ })
	require.NoError(t, err)
	require.True(t, aborted)
	require.Equal(t, 2, count)
}

func TestBestHitsStopsAtSmallestK(t *testing.T) {
	a := newAlphabet()
	text := a.encode("AACCGGTT")
	query := a.encode("ACG")
	idx := buildBi(t, [][]uint8{text})

	var errorsSeen []int
	_, err := ForQuery(idx, 0, query, Options{Generator: "backtracking", MinK: 0, MaxK: 3, BestHits: true},
		func(h QueryHit) { errorsSeen = append(errorsSeen, h.Errors) })
	require.NoError(t, err)
	require.NotEmpty(t, errorsSeen)
	for _, e := range errorsSeen {
		require.Equal(t, 1, e, "best-hits should stop at the smallest k that yields a hit")
	}
}

// TestExpansionGranularityDoesNotChangeHits checks that expanding a coarse
// scheme to the query's length finds the same hits as generating a scheme
// at that length directly: the expanded and directly-generated schemes
// carry the same L/U bounds profile (lower bound 0 except on the final
// part, which carries minK, here also 0; maxK as the ceiling throughout),
// so Run must accept exactly the same set of terminal cursors either way.
func TestExpansionGranularityDoesNotChangeHits(t *testing.T) {
	a := newAlphabet()
	text := a.encode("AACCGGTTAACCGGTT")
	query := a.encode("ACGTAC")
	idx := buildBi(t, [][]uint8{text})

	coarse := scheme.Backtracking(3, 0, 1)[0]
	expanded, err := scheme.Expand(coarse, len(query))
	require.NoError(t, err)

	direct := scheme.Backtracking(len(query), 0, 1)[0]

	collectWith := func(exp scheme.Expanded) []hitResult {
		var out []hitResult
		Run(idx, query, exp, false, func(h Hit) bool {
			for _, p := range locate.Linear(idx, h.Cursor.Lb, h.Cursor.Count()) {
				out = append(out, hitResult{SeqID: p.SeqID, Pos: p.Pos, Errors: h.Errors})
			}
			return false
		})
		sortHits(out)
		return out
	}

	require.Equal(t, collectWith(scheme.Expanded(direct)), collectWith(expanded))
}

func TestUnknownGeneratorIsError(t *testing.T) {
	a := newAlphabet()
	text := a.encode("ACGT")
	query := a.encode("AC")
	idx := buildBi(t, [][]uint8{text})

	_, err := ForQuery(idx, 0, query, Options{Generator: "pigeonhole", MinK: 0, MaxK: 1}, func(QueryHit) {})
	require.Error(t, err)
}
