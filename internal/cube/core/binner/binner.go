// Package binner derives balanced numeric bins from a value distribution.
package binner

import (
	"math"
	"sort"

	"session-analytics-service/internal/cube/core/domain"
)

const (
	DefaultK = 8
	DefaultM = 30
	DefaultN = 8
)

// Binner holds the limits: distributions with at most K distinct values get
// one bin per value; otherwise candidates are coarsened to M and N cuts are
// chosen among them.
type Binner struct {
	K int
	M int
	N int
}

func New(k, m, n int) *Binner {
	if k <= 0 {
		k = DefaultK
	}
	if n <= 0 {
		n = DefaultN
	}
	if m <= 0 {
		m = DefaultM
	}
	// M must leave room for N cuts.
	if m <= n {
		m = n + 1
	}
	return &Binner{K: k, M: m, N: n}
}

type candidate struct {
	value uint64
	mass  uint64 // prefix sum of counts up to and including value
}

// BuildBins panics on a distribution without positive counts.
func (b *Binner) BuildBins(dist map[uint64]uint64) []domain.Bin {
	values := make([]uint64, 0, len(dist))
	for v, c := range dist {
		if c > 0 {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		panic("binner: empty distribution")
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	if len(values) <= b.K {
		bins := make([]domain.Bin, len(values))
		for i, v := range values {
			bins[i] = domain.ExactBin(v)
		}
		return bins
	}

	cands := make([]candidate, len(values))
	var total uint64
	for i, v := range values {
		total += dist[v]
		cands[i] = candidate{value: v, mass: total}
	}

	cands = coarsen(cands, b.M)
	cuts := chooseCuts(cands, b.N, total)

	start := uint64(1)
	if values[0] < start {
		start = values[0]
	}
	bins := make([]domain.Bin, 0, len(cuts)+1)
	lo := start
	for _, c := range cuts {
		bins = append(bins, domain.IntervalBin(lo, c))
		lo = c + 1
	}
	return append(bins, domain.GreaterBin(cuts[len(cuts)-1]))
}

// coarsen drops interior candidates until at most m remain. Each round
// removes the one whose neighbours end up closest in mass; ties go to the
// lowest index.
func coarsen(cands []candidate, m int) []candidate {
	if m < 2 {
		m = 2
	}
	for len(cands) > m {
		best, bestGap := 1, uint64(math.MaxUint64)
		for j := 1; j+1 < len(cands); j++ {
			if gap := cands[j+1].mass - cands[j-1].mass; gap < bestGap {
				best, bestGap = j, gap
			}
		}
		cands = append(cands[:best], cands[best+1:]...)
	}
	return cands
}

func penalty(mass uint64, rank int) float64 {
	m := float64(mass)
	return m * math.Log(m) / math.Sqrt(float64(rank))
}

// chooseCuts picks min(n, len(cands)-1) increasing cut values among all
// candidates but the last, minimizing the penalty over the closed buckets
// and the open tail. Among equal costs the lexicographically first cut
// sequence wins.
func chooseCuts(cands []candidate, n int, total uint64) []uint64 {
	slots := len(cands) - 1
	if n > slots {
		n = slots
	}

	// rest[k][j]: best cost of buckets k+2..n+1 given cut k+1 at slot j
	inf := math.Inf(1)
	rest := make([][]float64, n)
	next := make([][]int, n)
	for k := range rest {
		rest[k] = make([]float64, slots)
		next[k] = make([]int, slots)
		for j := range rest[k] {
			rest[k][j] = inf
			next[k][j] = -1
		}
	}
	for j := n - 1; j < slots; j++ {
		rest[n-1][j] = penalty(total-cands[j].mass, n+1)
	}
	for k := n - 2; k >= 0; k-- {
		// cut k+1 may sit at slots k..slots-(n-k)
		for j := k; j <= slots-(n-k); j++ {
			for i := j + 1; i < slots; i++ {
				if math.IsInf(rest[k+1][i], 1) {
					continue
				}
				cost := penalty(cands[i].mass-cands[j].mass, k+2) + rest[k+1][i]
				if cost < rest[k][j] {
					rest[k][j], next[k][j] = cost, i
				}
			}
		}
	}

	first, best := -1, inf
	for j := 0; j < slots; j++ {
		if math.IsInf(rest[0][j], 1) {
			continue
		}
		if cost := penalty(cands[j].mass, 1) + rest[0][j]; cost < best {
			first, best = j, cost
		}
	}

	cuts := make([]uint64, 0, n)
	for k, j := 0, first; k < n; k++ {
		cuts = append(cuts, cands[j].value)
		j = next[k][j]
	}
	return cuts
}
