package report

import (
	"github.com/montanaflynn/stats"
)

// Distribution describes how the tests are spread across the matched threads.
// An uneven spread is a hint to rebalance the parallel jobs.
type Distribution struct {
	Threads int     `yaml:"threads"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Mean    float64 `yaml:"mean"`
	Median  float64 `yaml:"median"`
	P90     float64 `yaml:"p90"`
	Stddev  float64 `yaml:"stddev"`
}

// NewDistribution computes the tests per thread statistics. It returns nil
// when no thread has a summary line.
func NewDistribution(threads []*Thread) *Distribution {
	values := stats.Float64Data{}
	for _, t := range threads {
		if !t.Matched() {
			continue
		}
		values = append(values, float64(t.Totals.Tests))
	}
	if len(values) == 0 {
		return nil
	}

	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	p90, _ := stats.Percentile(values, 90)
	stddev, _ := stats.StandardDeviationPopulation(values)

	return &Distribution{
		Threads: len(values),
		Min:     min,
		Max:     max,
		Mean:    mean,
		Median:  median,
		P90:     p90,
		Stddev:  stddev,
	}
}
