package stats

import (
	"sort"
)

// RankData assigns average ranks (1-based) to the sample, with tied values
// sharing the mean of the rank positions they occupy.
func RankData(data []float64) []float64 {
	n := len(data)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	i := 0
	for i < n {
		j := i
		for j+1 < n && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// tieTerm computes sum(t^3 - t) over groups of tied values in the pooled
// sample, used by the Mann-Whitney variance correction.
func tieTerm(pooled []float64) float64 {
	sorted := append([]float64(nil), pooled...)
	sort.Float64s(sorted)

	term := 0.0
	i := 0
	for i < len(sorted) {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		t := float64(j - i + 1)
		term += t*t*t - t
		i = j + 1
	}
	return term
}

// hasTies reports whether the pooled sample contains duplicate values.
func hasTies(pooled []float64) bool {
	seen := make(map[float64]bool, len(pooled))
	for _, v := range pooled {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
