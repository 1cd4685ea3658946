package risk

import (
	"github.com/zero-day-ai/maestro/internal/montecarlo"
	"github.com/zero-day-ai/maestro/internal/threat"
)

// paramDistributions models the uncertainty of one vulnerability's scoring
// parameters. The Core Threat Matrix values are point estimates; these
// distributions quantify how far off they plausibly are.
type paramDistributions struct {
	attackComplexity montecarlo.UncertaintyDistribution
	impact           montecarlo.UncertaintyDistribution
	severity         montecarlo.UncertaintyDistribution
	coupling         montecarlo.UncertaintyDistribution
}

// Heuristic spread floors per parameter. The spread scales with the mean
// but never collapses below the floor, so even confident matrix entries
// carry some modeled uncertainty.
const (
	spreadFraction = 0.10
	acSpreadFloor  = 0.3
	impSpreadFloor = 0.5
	vsSpreadFloor  = 1.0
	pcSpreadFloor  = 0.3
)

// spread derives the heuristic standard deviation for a parameter mean.
func spread(mean, floor float64) float64 {
	s := mean * spreadFraction
	if s < floor {
		return floor
	}
	return s
}

// distributionsFor builds the per-parameter uncertainty distributions for
// one vulnerability. Attack complexity and impact are modeled as normals
// soft-clamped to their scales; severity as a normal on its wider scale;
// protocol coupling as a beta on its bounded scale (exposure-like
// quantity). The effective coupling mean is passed in because it may be
// topology-derived rather than explicit on the vulnerability.
func distributionsFor(v *threat.Vulnerability, couplingMean float64) paramDistributions {
	return paramDistributions{
		attackComplexity: montecarlo.Bounded(
			v.AttackComplexity, spread(v.AttackComplexity, acSpreadFloor),
			montecarlo.DistributionNormal,
			threat.MinAttackComplexity, threat.MaxAttackComplexity,
		),
		impact: montecarlo.Bounded(
			v.Impact, spread(v.Impact, impSpreadFloor),
			montecarlo.DistributionNormal,
			threat.MinImpact, threat.MaxImpact,
		),
		severity: montecarlo.Bounded(
			v.Severity, spread(v.Severity, vsSpreadFloor),
			montecarlo.DistributionNormal,
			threat.MinSeverity, threat.MaxSeverity,
		),
		coupling: montecarlo.Bounded(
			couplingMean, spread(couplingMean, pcSpreadFloor),
			montecarlo.DistributionBeta,
			threat.MinCoupling, threat.MaxCoupling,
		),
	}
}
