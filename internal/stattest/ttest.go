package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wonny/eventstudy/internal/contracts"
)

// TTestResult is a one-sample Student t-test
type TTestResult struct {
	N      int
	Mean   float64
	StdDev float64 // sample standard deviation (n-1)
	T      float64
	DF     float64
	PValue float64 // two-sided
}

// OneSampleT tests whether the mean of x differs from popMean.
// Needs at least two observations with non-zero spread.
func OneSampleT(x []float64, popMean float64) (TTestResult, error) {
	n := len(x)
	if n < 2 {
		return TTestResult{N: n}, fmt.Errorf("t-test: %w: need at least 2 observations, got %d", contracts.ErrTestNotComputable, n)
	}

	mean, sd := stat.MeanStdDev(x, nil)
	if sd == 0 || math.IsNaN(sd) {
		return TTestResult{N: n, Mean: mean}, fmt.Errorf("t-test: %w: zero variance", contracts.ErrTestNotComputable)
	}

	df := float64(n - 1)
	t := (mean - popMean) / (sd / math.Sqrt(float64(n)))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))

	return TTestResult{
		N:      n,
		Mean:   mean,
		StdDev: sd,
		T:      t,
		DF:     df,
		PValue: clampProb(p),
	}, nil
}

func clampProb(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
