package scheme

import "github.com/eseiler/fmindex-collection/fmerrors"

// Expanded is a Search distributed down to per-position granularity: Pi
// lists the actual query positions in the order they are visited, L/U
// carry the originating part's error budget duplicated onto each of its
// positions.
type Expanded struct {
	Pi []int
	L  []int
	U  []int
}

// Expand distributes s's n parts evenly across a query of length
// queryLen (the first queryLen%n parts one symbol longer than the rest)
// and duplicates each part's (L,U) onto every position it covers. Within
// a part, positions are visited ascending when the search is extending
// right at that point and descending when extending left, so the
// resulting Pi is consistent with the direction rule the driver applies
// at position granularity (right if pos==0 or Pi[pos-1] < Pi[pos]).
func Expand(s Search, queryLen int) (Expanded, error) {
	starts, ends, err := evenSplit(s.NumParts(), queryLen)
	if err != nil {
		return Expanded{}, err
	}
	return expandWithBounds(s, starts, ends)
}

// ExpandDynamic distributes part lengths by the inverse-budget weighting of
// weightedSplit instead of splitting evenly, while remaining semantically
// equivalent to s (same set of parts, same per-part error budgets, same
// visiting order and per-part direction) — only the length each part
// covers changes. It does not evaluate ExpectedNodeCount, and it does not
// search for the split with the fewest expected nodes.
func ExpandDynamic(s Search, sigma, queryLen int) (Expanded, error) {
	starts, ends, err := weightedSplit(s, sigma, queryLen)
	if err != nil {
		return Expanded{}, err
	}
	return expandWithBounds(s, starts, ends)
}

func expandWithBounds(s Search, starts, ends []int) (Expanded, error) {
	pi := make([]int, 0, ends[len(ends)-1])
	l := make([]int, 0, cap(pi))
	u := make([]int, 0, cap(pi))

	minSeen, maxSeen := s.Pi[0], s.Pi[0]
	for i, p := range s.Pi {
		dir := +1
		switch {
		case i == 0:
			dir = +1
		case p == maxSeen+1:
			dir = +1
			maxSeen = p
		case p == minSeen-1:
			dir = -1
			minSeen = p
		default:
			return Expanded{}, fmerrors.NewConfigError("scheme.Expand",
				"search part order %v is not contiguous at index %d", s.Pi, i)
		}

		lo, hi := starts[p], ends[p]
		if dir == +1 {
			for pos := lo; pos < hi; pos++ {
				pi = append(pi, pos)
				l = append(l, s.L[i])
				u = append(u, s.U[i])
			}
		} else {
			for pos := hi - 1; pos >= lo; pos-- {
				pi = append(pi, pos)
				l = append(l, s.L[i])
				u = append(u, s.U[i])
			}
		}
	}
	return Expanded{Pi: pi, L: l, U: u}, nil
}

// evenSplit divides queryLen positions into numParts contiguous chunks as
// evenly as possible, the first queryLen%numParts chunks one longer.
func evenSplit(numParts, queryLen int) (starts, ends []int, err error) {
	if numParts <= 0 {
		return nil, nil, fmerrors.NewConfigError("scheme.Expand", "search has no parts")
	}
	if queryLen < numParts {
		return nil, nil, fmerrors.NewConfigError("scheme.Expand",
			"query length %d is shorter than the search's %d parts", queryLen, numParts)
	}
	base := queryLen / numParts
	rem := queryLen % numParts
	starts = make([]int, numParts)
	ends = make([]int, numParts)
	pos := 0
	for i := 0; i < numParts; i++ {
		length := base
		if i < rem {
			length++
		}
		starts[i] = pos
		pos += length
		ends[i] = pos
	}
	return starts, ends, nil
}

// ExpectedNodeCount is a closed-form heuristic for how many search-tree
// nodes a Search will visit once expanded to queryLen with the even split
// Expand uses: each part contributes its length, multiplied by
// (sigma-1)^U when its error budget U is positive. ExpandDynamic does not
// call it.
func ExpectedNodeCount(s Search, sigma, queryLen int) float64 {
	starts, ends, err := evenSplit(s.NumParts(), queryLen)
	if err != nil {
		return 0
	}
	var total float64
	for i, p := range s.Pi {
		length := ends[p] - starts[p]
		branching := 1.0
		if s.U[i] > 0 {
			branching = float64(sigma - 1)
		}
		total += float64(length) * pow(branching, s.U[i])
	}
	return total
}

func pow(base float64, exp int) float64 {
	if exp <= 0 {
		return 1
	}
	r := 1.0
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// weightedSplit allocates more of the query to parts with a tighter
// (smaller) error budget, which the search tree prunes harder, and less
// to parts that can branch into many substitutions: every part gets one
// position plus a share of the rest proportional to 1/(U+1).
func weightedSplit(s Search, sigma, queryLen int) (starts, ends []int, err error) {
	n := s.NumParts()
	if n <= 0 {
		return nil, nil, fmerrors.NewConfigError("scheme.ExpandDynamic", "search has no parts")
	}
	if queryLen < n {
		return nil, nil, fmerrors.NewConfigError("scheme.ExpandDynamic",
			"query length %d is shorter than the search's %d parts", queryLen, n)
	}

	weights := make([]float64, n)
	var weightSum float64
	for p := 0; p < n; p++ {
		// rank of part p within the visiting order, to read its budget.
		rank := indexOf(s.Pi, p)
		weights[p] = 1.0 / float64(s.U[rank]+1)
		weightSum += weights[p]
	}

	lengths := make([]int, n)
	assigned := 0
	for p := 0; p < n; p++ {
		lengths[p] = 1 + int((weights[p]/weightSum)*float64(queryLen-n))
		assigned += lengths[p]
	}
	// Truncation can leave the total a few positions short of queryLen;
	// the remainder goes to the last part, which therefore stays >= 1.
	lengths[n-1] += queryLen - assigned

	starts = make([]int, n)
	ends = make([]int, n)
	pos := 0
	for p := 0; p < n; p++ {
		starts[p] = pos
		pos += lengths[p]
		ends[p] = pos
	}
	return starts, ends, nil
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
