package montecarlo

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zero-day-ai/maestro/internal/config"
	"github.com/zero-day-ai/maestro/internal/types"
)

// Estimator runs Monte Carlo simulations with the configured sample count,
// confidence level, and seed. Estimators are cheap to construct; build one
// per assessment so concurrent assessments never share a random stream.
type Estimator struct {
	params config.SimulationConfig
}

// NewEstimator creates an Estimator with the given simulation parameters.
func NewEstimator(params config.SimulationConfig) *Estimator {
	return &Estimator{params: params}
}

// Params returns the simulation parameters.
func (e *Estimator) Params() config.SimulationConfig {
	return e.params
}

// Run draws NSimulations samples from the distribution, clamps them to the
// declared bounds, and summarizes the empirical result. Fails with an
// INVALID_PARAMETER error when NSimulations is not positive and an
// INVALID_DISTRIBUTION error for malformed distributions.
func (e *Estimator) Run(dist UncertaintyDistribution) (*Result, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := dist.validate(); err != nil {
		return nil, err
	}

	sampler := e.NewSampler()
	samples := make([]float64, e.params.NSimulations)
	for i := range samples {
		samples[i] = sampler.Sample(dist)
	}

	return Summarize(samples, e.params.ConfidenceInterval), nil
}

// Validate rejects unusable simulation configuration.
func (e *Estimator) Validate() error {
	if e.params.NSimulations <= 0 {
		return types.NewErrorf(types.INVALID_PARAMETER,
			"n_simulations must be positive (got %d)", e.params.NSimulations)
	}
	if e.params.ConfidenceInterval <= 0 || e.params.ConfidenceInterval >= 1 {
		return types.NewErrorf(types.INVALID_PARAMETER,
			"confidence_interval must be in (0,1) (got %v)", e.params.ConfidenceInterval)
	}
	return nil
}

// NewSampler returns a Sampler over a fresh stream seeded from the
// configured random seed. Callers performing joint per-draw sampling (all
// parameters of all vulnerabilities sampled per draw) pull every value from
// this single logically-ordered stream to preserve the determinism
// contract.
func (e *Estimator) NewSampler() *Sampler {
	return &Sampler{
		rng: rand.New(rand.NewSource(e.params.RandomSeed)),
	}
}

// Sampler draws individual values from uncertainty distributions using one
// seeded random stream. Not safe for concurrent use; a simulation owns its
// sampler exclusively.
type Sampler struct {
	rng *rand.Rand
}

// Sample draws one value from the distribution, clamped to its bounds.
// A non-positive standard deviation degenerates to a point mass at the
// clamped mean and consumes no randomness.
func (s *Sampler) Sample(dist UncertaintyDistribution) float64 {
	if dist.StdDev <= 0 && dist.Type != DistributionUniform {
		return dist.clampToBounds(dist.Mean)
	}

	switch dist.Type {
	case DistributionNormal:
		n := distuv.Normal{Mu: dist.Mean, Sigma: dist.StdDev, Src: s.rng}
		return dist.clampToBounds(n.Rand())

	case DistributionUniform:
		if dist.Low == dist.High {
			return dist.Low
		}
		u := distuv.Uniform{Min: dist.Low, Max: dist.High, Src: s.rng}
		return u.Rand()

	case DistributionBeta:
		return s.sampleBeta(dist)

	default:
		// validate() rejects unknown types before sampling starts.
		return dist.clampToBounds(dist.Mean)
	}
}

// sampleBeta draws from a beta distribution fitted to the mean and standard
// deviation on the normalized [0,1] scale, then rescales to the declared
// bounds. When the requested mean sits on a bound or the variance is
// infeasible for a beta shape, the sampler degrades to a clamped normal
// draw so the mean intent is preserved rather than failing.
func (s *Sampler) sampleBeta(dist UncertaintyDistribution) float64 {
	span := dist.High - dist.Low
	if span <= 0 {
		return dist.Low
	}

	m := (dist.Mean - dist.Low) / span
	v := (dist.StdDev / span) * (dist.StdDev / span)

	if m <= 0 || m >= 1 || v <= 0 || v >= m*(1-m) {
		n := distuv.Normal{Mu: dist.Mean, Sigma: dist.StdDev, Src: s.rng}
		return dist.clampToBounds(n.Rand())
	}

	common := m*(1-m)/v - 1
	b := distuv.Beta{Alpha: m * common, Beta: (1 - m) * common, Src: s.rng}
	return dist.Low + span*b.Rand()
}
