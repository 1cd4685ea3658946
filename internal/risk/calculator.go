// Package risk aggregates detected vulnerabilities into the two MAESTRO
// quantitative scores with uncertainty bands:
//
//   - WEI (Workflow Exploitability Index): how easily the workflow can be
//     exploited, normalized for workflow size.
//   - RPS (Risk Propagation Score): how vulnerability risk spreads across
//     the workflow topology.
//
// Point scores come from the Core Threat Matrix values; the uncertainty
// bands come from joint Monte Carlo propagation of every vulnerability
// parameter through the same formulas.
package risk

import (
	"log/slog"
	"math"

	"github.com/zero-day-ai/maestro/internal/config"
	"github.com/zero-day-ai/maestro/internal/montecarlo"
	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// Calculator computes WEI/RPS risk assessments. The layer weight and
// exposure vectors are injected via configuration, not hard-coded, so
// callers can recalibrate per assessment.
type Calculator struct {
	cfg       *config.Config
	estimator *montecarlo.Estimator
	logger    *slog.Logger
}

// NewCalculator creates a Calculator. A nil logger falls back to
// slog.Default().
func NewCalculator(cfg *config.Config, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		cfg:       cfg,
		estimator: montecarlo.NewEstimator(cfg.Simulation),
		logger:    logger,
	}
}

// CalculateRisk aggregates the vulnerability list into a full assessment
// result. The vulnerability slice is a read-only input; the workflow
// provides the size normalization and the topology used to derive protocol
// coupling where it is not explicit.
func (c *Calculator) CalculateRisk(pw *workflow.ParsedWorkflow, vulns []threat.Vulnerability) (*AssessmentResult, error) {
	if err := c.estimator.Validate(); err != nil {
		return nil, err
	}

	totalNodes := pw.TotalNodes()
	if totalNodes < 1 {
		totalNodes = 1
	}

	byLayer := groupByLayer(vulns)

	result := &AssessmentResult{
		WorkflowName:           pw.Name,
		VulnerabilitiesByLayer: byLayer,
	}

	if len(vulns) == 0 {
		// Never report absolute zero: undetected structural risk still
		// exists. The floor is a named, tunable constant.
		c.applyBaseline(result, totalNodes)
		result.Recommendations = baselineRecommendations()
		return result, nil
	}

	couplings := c.effectiveCouplings(pw, vulns)

	result.PointWEI, result.PointRPS = c.pointScores(vulns, couplings, totalNodes)

	weiQ, rpsQ, combinedQ := c.propagate(vulns, couplings, totalNodes)
	result.TotalWEI = weiQ
	result.TotalRPS = rpsQ
	result.CombinedRisk = combinedQ
	result.RiskLevel = c.band(combinedQ.Mean)
	result.Recommendations = c.recommend(byLayer, couplings, vulns)

	c.logger.Debug("risk calculation complete",
		"workflow", pw.Name,
		"wei", result.TotalWEI.Mean,
		"rps", result.TotalRPS.Mean,
		"risk_level", result.RiskLevel)

	return result, nil
}

// groupByLayer buckets vulnerabilities by their MAESTRO layer.
func groupByLayer(vulns []threat.Vulnerability) map[threat.Layer][]threat.Vulnerability {
	byLayer := make(map[threat.Layer][]threat.Vulnerability)
	for _, v := range vulns {
		byLayer[v.Layer] = append(byLayer[v.Layer], v)
	}
	return byLayer
}

// effectiveCouplings resolves the protocol coupling factor for every
// vulnerability, index-aligned with the input slice. Explicit values are
// used as-is; step-scoped vulnerabilities without one derive it from the
// dependency graph: log(1+connections)/log(1+max_connections), scaled onto
// the [1,3] coupling range.
func (c *Calculator) effectiveCouplings(pw *workflow.ParsedWorkflow, vulns []threat.Vulnerability) []float64 {
	couplings := make([]float64, len(vulns))

	maxConn := 0
	if pw.Graph != nil {
		maxConn = pw.Graph.MaxConnections()
	}

	for i, v := range vulns {
		if v.ProtocolCoupling > 0 {
			couplings[i] = v.ProtocolCoupling
			continue
		}

		ratio := 0.0
		if pw.Graph != nil && v.StepID != "" && maxConn > 0 {
			conn := pw.Graph.Connections(v.StepID)
			ratio = math.Log(1+float64(conn)) / math.Log(1+float64(maxConn))
		}

		couplings[i] = threat.MinCoupling + ratio*(threat.MaxCoupling-threat.MinCoupling)
	}

	return couplings
}

// pointScores evaluates the WEI and RPS formulas at the Core Threat Matrix
// point values:
//
//	WEI = Σ (1/AC) × Impact × LayerWeight / TotalNodes
//	RPS = Σ VS × PC × ExposureIndex
func (c *Calculator) pointScores(vulns []threat.Vulnerability, couplings []float64, totalNodes int) (wei, rps float64) {
	for i, v := range vulns {
		wei += (1 / v.AttackComplexity) * v.Impact * c.cfg.LayerWeight(v.Layer)
		rps += v.Severity * couplings[i] * c.cfg.Exposure(v.Layer)
	}
	wei /= float64(totalNodes)
	return wei, rps
}

// propagate jointly samples every vulnerability parameter per draw and
// evaluates the WEI/RPS formulas once per draw, so parameter correlations
// within a draw are preserved. All values come from one logically-ordered
// seeded stream: same seed, same simulation count, same vulnerabilities in,
// bit-identical percentiles out.
func (c *Calculator) propagate(vulns []threat.Vulnerability, couplings []float64, totalNodes int) (wei, rps, combined UncertaintyQuantity) {
	n := c.cfg.Simulation.NSimulations

	dists := make([]paramDistributions, len(vulns))
	for i := range vulns {
		dists[i] = distributionsFor(&vulns[i], couplings[i])
	}

	sampler := c.estimator.NewSampler()
	weiSamples := make([]float64, n)
	rpsSamples := make([]float64, n)
	combinedSamples := make([]float64, n)

	for draw := 0; draw < n; draw++ {
		var weiSum, rpsSum float64
		for i := range dists {
			ac := sampler.Sample(dists[i].attackComplexity)
			impact := sampler.Sample(dists[i].impact)
			vs := sampler.Sample(dists[i].severity)
			pc := sampler.Sample(dists[i].coupling)

			layer := vulns[i].Layer
			weiSum += (1 / ac) * impact * c.cfg.LayerWeight(layer)
			rpsSum += vs * pc * c.cfg.Exposure(layer)
		}

		weiSamples[draw] = weiSum / float64(totalNodes)
		rpsSamples[draw] = rpsSum
		combinedSamples[draw] = c.combine(weiSamples[draw], rpsSamples[draw])
	}

	level := c.cfg.Simulation.ConfidenceInterval
	wei = quantityFrom(montecarlo.Summarize(weiSamples, level))
	rps = quantityFrom(montecarlo.Summarize(rpsSamples, level))
	combined = quantityFrom(montecarlo.Summarize(combinedSamples, level))
	return wei, rps, combined
}

// combine blends WEI and RPS into the single score the risk level is
// banded from. RPS is normalized onto the WEI scale first.
func (c *Calculator) combine(wei, rps float64) float64 {
	s := c.cfg.Scoring
	return wei*s.WEIWeight + (rps/s.RPSNormalizer)*s.RPSWeight
}

// band maps a combined score onto a risk level using the configured
// monotonic thresholds. Banding on the distribution mean keeps the level
// stable against small perturbations near threshold boundaries.
func (c *Calculator) band(combined float64) Level {
	t := c.cfg.Scoring.Thresholds
	switch {
	case combined >= t.Critical:
		return LevelCritical
	case combined >= t.High:
		return LevelHigh
	case combined >= t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// applyBaseline fills the result with the non-zero baseline scores used
// when detection finds nothing. WEI keeps its per-node normalization; RPS
// scales with workflow size.
func (c *Calculator) applyBaseline(result *AssessmentResult, totalNodes int) {
	floor := c.cfg.Scoring.BaselineRiskFloor

	result.PointWEI = floor
	result.PointRPS = floor * float64(totalNodes)
	result.TotalWEI = pointMass(result.PointWEI)
	result.TotalRPS = pointMass(result.PointRPS)
	result.CombinedRisk = pointMass(c.combine(result.PointWEI, result.PointRPS))
	result.RiskLevel = c.band(result.CombinedRisk.Mean)
}
