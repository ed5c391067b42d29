package stattest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wonny/eventstudy/internal/contracts"
)

// ExactMaxN is the largest sample for which the exact null distribution is used
const ExactMaxN = 50

// SignedRankMethod identifies how the p-value was obtained
type SignedRankMethod string

const (
	MethodExact  SignedRankMethod = "exact"
	MethodNormal SignedRankMethod = "normal"
)

// SignedRankResult is a two-sided Wilcoxon signed-rank test against zero
type SignedRankResult struct {
	N            int // observations after dropping zeros
	ZerosDropped int
	RPlus        float64
	RMinus       float64
	Statistic    float64 // min(R+, R-)
	PValue       float64
	Method       SignedRankMethod
}

// SignedRank runs the Wilcoxon signed-rank test of x against zero.
//
// Zero values are discarded before ranking and tied magnitudes get the
// average rank. The p-value comes from the exact null distribution when
// n <= ExactMaxN and there are neither ties nor discarded zeros; otherwise
// from the normal approximation with tie correction.
func SignedRank(x []float64) (SignedRankResult, error) {
	d := make([]float64, 0, len(x))
	for _, v := range x {
		if v != 0 {
			d = append(d, v)
		}
	}

	res := SignedRankResult{N: len(d), ZerosDropped: len(x) - len(d)}
	if res.N == 0 {
		return res, fmt.Errorf("signed-rank: %w: no non-zero observations", contracts.ErrTestNotComputable)
	}

	ranks, tieGroups := averageRanks(d)
	for i, v := range d {
		if v > 0 {
			res.RPlus += ranks[i]
		} else {
			res.RMinus += ranks[i]
		}
	}
	res.Statistic = math.Min(res.RPlus, res.RMinus)

	if res.N <= ExactMaxN && len(tieGroups) == 0 && res.ZerosDropped == 0 {
		res.Method = MethodExact
		res.PValue = exactPValue(res.N, res.Statistic)
		return res, nil
	}

	n := float64(res.N)
	mean := n * (n + 1) / 4
	variance := n * (n + 1) * (2*n + 1) / 24
	for _, t := range tieGroups {
		variance -= (t*t*t - t) / 48
	}
	if variance <= 0 {
		return res, fmt.Errorf("signed-rank: %w: degenerate rank variance", contracts.ErrTestNotComputable)
	}

	z := (res.Statistic - mean) / math.Sqrt(variance)
	res.Method = MethodNormal
	res.PValue = clampProb(2 * distuv.UnitNormal.Survival(math.Abs(z)))
	return res, nil
}

// averageRanks ranks |d| ascending (1-based) and returns the size of every tie group
func averageRanks(d []float64) ([]float64, []float64) {
	order := make([]int, len(d))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(d[order[a]]) < math.Abs(d[order[b]])
	})

	ranks := make([]float64, len(d))
	var ties []float64
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && math.Abs(d[order[j]]) == math.Abs(d[order[i]]) {
			j++
		}
		// positions i..j-1 share ranks i+1..j
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		if j-i > 1 {
			ties = append(ties, float64(j-i))
		}
		i = j
	}
	return ranks, ties
}

// exactPValue returns 2·P(W <= stat) under H0, capped at 1.
// counts[k] is the number of subsets of {1..n} whose sum is k.
func exactPValue(n int, statistic float64) float64 {
	maxSum := n * (n + 1) / 2
	counts := make([]float64, maxSum+1)
	counts[0] = 1
	for i := 1; i <= n; i++ {
		for k := maxSum; k >= i; k-- {
			counts[k] += counts[k-i]
		}
	}

	limit := int(math.Floor(statistic))
	var tail float64
	for k := 0; k <= limit && k <= maxSum; k++ {
		tail += counts[k]
	}
	return clampProb(2 * tail / math.Pow(2, float64(n)))
}
