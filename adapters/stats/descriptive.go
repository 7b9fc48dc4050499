package stats

import (
	"github.com/montanaflynn/stats"
)

// Descriptives summarizes one condition's score sample.
type Descriptives struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Describe computes the summary statistics used in the combined report.
// The standard deviation is the sample (n-1) estimate.
func Describe(data []float64) Descriptives {
	d := Descriptives{N: len(data)}
	if len(data) == 0 {
		return d
	}

	d.Mean, _ = stats.Mean(data)
	d.StdDev, _ = stats.StandardDeviationSample(data)
	d.Min, _ = stats.Min(data)
	d.Max, _ = stats.Max(data)
	d.Median, _ = stats.Median(data)
	return d
}
