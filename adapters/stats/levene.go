package stats

import (
	"math"

	"surveyflow/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// LeveneMean runs Levene's dispersion-homogeneity test with mean centering
// across the given groups, returning the W statistic and its p-value from
// the F(k-1, N-k) reference distribution.
func LeveneMean(groups ...[]float64) (TestResult, error) {
	k := len(groups)
	res := TestResult{Name: "levene-mean"}
	if k < 2 {
		return res, core.NewInsufficientSampleError("levene", k, 2)
	}

	total := 0
	for _, g := range groups {
		if len(g) < 2 {
			return res, core.NewInsufficientSampleError("levene", len(g), 2)
		}
		total += len(g)
	}
	res.NX = len(groups[0])
	res.NY = len(groups[1])

	// absolute deviations from each group mean
	devs := make([][]float64, k)
	for i, g := range groups {
		m := mean(g)
		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - m)
		}
		devs[i] = z
	}

	grand := 0.0
	for _, z := range devs {
		for _, v := range z {
			grand += v
		}
	}
	grand /= float64(total)

	between := 0.0
	within := 0.0
	for _, z := range devs {
		zbar := mean(z)
		between += float64(len(z)) * (zbar - grand) * (zbar - grand)
		for _, v := range z {
			within += (v - zbar) * (v - zbar)
		}
	}
	between /= float64(k - 1)
	within /= float64(total - k)

	if within == 0 {
		if between == 0 {
			// deviations identical across groups
			res.Statistic = 0
			res.PValue = 1
			return res, nil
		}
		return res, core.ErrDegenerateSample
	}

	res.Statistic = between / within
	res.Method = "f-distribution"
	fDist := distuv.F{D1: float64(k - 1), D2: float64(total - k)}
	res.PValue = fDist.Survival(res.Statistic)
	return res, nil
}

// LeveneOnRanks rank-transforms each sample independently and runs the
// mean-centered Levene test on the ranks. Ranking first blunts the
// sensitivity of the dispersion test to the bounded response scale, so
// this is never collapsed into a raw Levene test.
func LeveneOnRanks(x, y []float64) (TestResult, error) {
	res, err := LeveneMean(RankData(x), RankData(y))
	if err != nil {
		return res, err
	}
	res.Name = "levene-on-ranks"
	return res, nil
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range data {
		s += v
	}
	return s / float64(len(data))
}
