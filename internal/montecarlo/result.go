package montecarlo

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interval is a two-sided confidence interval computed with the percentile
// method over the empirical sample distribution.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns the interval width.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// Percentiles are the five standard summary percentiles of an empirical
// distribution.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// Result summarizes one Monte Carlo simulation. Samples are transient:
// they are scoped to the simulation call that produced them and may be
// discarded once the aggregate statistics have been read.
type Result struct {
	Mean               float64     `json:"mean"`
	StdDev             float64     `json:"std_dev"`
	ConfidenceInterval Interval    `json:"confidence_interval"`
	Percentiles        Percentiles `json:"percentiles"`
	Samples            []float64   `json:"-"`
}

// Summarize computes the empirical statistics of a sample slice at the
// given confidence level. The input slice is not modified.
func Summarize(samples []float64, confidenceLevel float64) *Result {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	alpha := 1 - confidenceLevel

	return &Result{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.PopStdDev(sorted, nil),
		ConfidenceInterval: Interval{
			Lower: quantile(sorted, alpha/2),
			Upper: quantile(sorted, 1-alpha/2),
		},
		Percentiles: Percentiles{
			P5:  quantile(sorted, 0.05),
			P25: quantile(sorted, 0.25),
			P50: quantile(sorted, 0.50),
			P75: quantile(sorted, 0.75),
			P95: quantile(sorted, 0.95),
		},
		Samples: samples,
	}
}

// quantile evaluates the empirical quantile of sorted data.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
