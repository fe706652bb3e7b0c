package sabuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSuffixArrayIsSorted(t *testing.T) {
	res, err := Build([][]uint8{{1, 2, 1, 3}, {2, 1, 2}})
	require.NoError(t, err)
	require.Equal(t, len(res.Text), len(res.SA))

	seqOf := seqIDsFromText(res.Text)
	for k := 1; k < len(res.SA); k++ {
		a, b := res.SA[k-1], res.SA[k]
		require.True(t, suffixLess(res.Text, seqOf, a, b), "SA[%d]=%d should sort before SA[%d]=%d", k-1, a, k, b)
	}
}

// seqIDsFromText reconstructs which sequence each text position belongs to
// by splitting on the sentinel, the same segmentation Build performs going
// the other direction.
func seqIDsFromText(text []uint8) []int {
	seqOf := make([]int, len(text))
	seq := 0
	for i, c := range text {
		seqOf[i] = seq
		if c == Sentinel {
			seq++
		}
	}
	return seqOf
}

// suffixLess mirrors Build's own suffix comparator: walk forward until the
// symbols differ, or both sides simultaneously hit the sentinel, in which
// case the lower originating sequence index sorts first.
func suffixLess(text []uint8, seqOf []int, i, j uint64) bool {
	si, sj := seqOf[i], seqOf[j]
	ti, tj := int(i), int(j)
	for {
		a, b := text[ti], text[tj]
		if a != b {
			return a < b
		}
		if a == Sentinel {
			return si < sj
		}
		ti++
		tj++
	}
}

func TestBuildRejectsSentinelInInput(t *testing.T) {
	_, err := Build([][]uint8{{1, 0, 2}})
	require.Error(t, err)
}

func TestBWTIsPermutationOfText(t *testing.T) {
	res, err := Build([][]uint8{{1, 2, 3, 1, 2}, {3, 2, 1}})
	require.NoError(t, err)

	gotCounts := make(map[uint8]int)
	for _, c := range res.BWT {
		gotCounts[c]++
	}
	wantCounts := make(map[uint8]int)
	for _, c := range res.Text {
		wantCounts[c]++
	}
	require.Equal(t, wantCounts, gotCounts)
}

func TestSeqLensMatchInputs(t *testing.T) {
	res, err := Build([][]uint8{{1, 2, 3}, {1}})
	require.NoError(t, err)
	require.Len(t, res.SeqLens, 2)
	require.EqualValues(t, 3, res.SeqLens[0].Len)
	require.EqualValues(t, 1, res.SeqLens[0].DelimCount)
	require.EqualValues(t, 1, res.SeqLens[1].Len)

	acc := 0
	for _, sl := range res.SeqLens {
		acc += int(sl.Len + sl.DelimCount)
	}
	require.Equal(t, len(res.Text), acc)
}
