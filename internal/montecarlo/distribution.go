// Package montecarlo propagates parameter uncertainty into empirical score
// distributions. Scoring inputs are modeled as probability distributions,
// sampled from a single seeded stream, and summarized with percentile
// statistics. Fixed seed + fixed sample count + identical input yields
// bit-identical output.
package montecarlo

import (
	"github.com/zero-day-ai/maestro/internal/types"
)

// DistributionType selects the sampling distribution family.
type DistributionType string

const (
	// DistributionNormal is a normal distribution soft-clamped to its
	// bounds. Used for complexity and impact style quantities.
	DistributionNormal DistributionType = "normal"

	// DistributionBeta is a scaled beta distribution over [lower, upper].
	// Used for bounded exposure-like quantities.
	DistributionBeta DistributionType = "beta"

	// DistributionUniform is a uniform distribution over [lower, upper].
	// Used when no prior variance information is available.
	DistributionUniform DistributionType = "uniform"
)

// UncertaintyDistribution models the uncertainty of one scoring parameter.
// Mean is the Core Threat Matrix point value; StdDev is the heuristically
// derived spread. A StdDev of zero (or below) degenerates to a
// deterministic point mass at the clamped mean.
type UncertaintyDistribution struct {
	Mean    float64          `json:"mean"`
	StdDev  float64          `json:"std_dev"`
	Type    DistributionType `json:"distribution_type"`
	HasLow  bool             `json:"-"`
	Low     float64          `json:"lower_bound,omitempty"`
	HasHigh bool             `json:"-"`
	High    float64          `json:"upper_bound,omitempty"`
}

// Bounded returns a distribution clamped to [low, high].
func Bounded(mean, stdDev float64, t DistributionType, low, high float64) UncertaintyDistribution {
	return UncertaintyDistribution{
		Mean:    mean,
		StdDev:  stdDev,
		Type:    t,
		HasLow:  true,
		Low:     low,
		HasHigh: true,
		High:    high,
	}
}

// Unbounded returns a distribution with no clamping bounds.
func Unbounded(mean, stdDev float64, t DistributionType) UncertaintyDistribution {
	return UncertaintyDistribution{Mean: mean, StdDev: stdDev, Type: t}
}

// validate rejects distributions the sampler cannot draw from.
func (d UncertaintyDistribution) validate() error {
	switch d.Type {
	case DistributionNormal, DistributionBeta, DistributionUniform:
	default:
		return types.NewErrorf(types.INVALID_DISTRIBUTION,
			"unsupported distribution type %q", d.Type)
	}

	if (d.Type == DistributionBeta || d.Type == DistributionUniform) && (!d.HasLow || !d.HasHigh) {
		return types.NewErrorf(types.INVALID_DISTRIBUTION,
			"%s distribution requires lower and upper bounds", d.Type)
	}
	if d.HasLow && d.HasHigh && d.Low > d.High {
		return types.NewErrorf(types.INVALID_DISTRIBUTION,
			"lower bound %v exceeds upper bound %v", d.Low, d.High)
	}

	return nil
}

// clampToBounds forces a sample into the declared bounds, if any.
func (d UncertaintyDistribution) clampToBounds(x float64) float64 {
	if d.HasLow && x < d.Low {
		x = d.Low
	}
	if d.HasHigh && x > d.High {
		x = d.High
	}
	return x
}
