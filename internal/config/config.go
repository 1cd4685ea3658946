// Package config defines the injectable assessment configuration: Monte
// Carlo simulation parameters, the MAESTRO layer weight and exposure index
// vectors, risk banding thresholds, and detection heuristics tuning.
//
// Constant tables are injected as immutable configuration objects at
// construction rather than read from global singletons, so tests and
// callers can override them per assessment.
package config

import (
	"github.com/zero-day-ai/maestro/internal/threat"
)

// SimulationConfig controls the Monte Carlo estimator.
type SimulationConfig struct {
	// NSimulations is the number of Monte Carlo draws per simulation.
	NSimulations int `mapstructure:"n_simulations" validate:"gt=0"`

	// ConfidenceInterval is the percentile-method confidence level (0,1).
	ConfidenceInterval float64 `mapstructure:"confidence_interval" validate:"gt=0,lt=1"`

	// RandomSeed seeds the sample stream. Fixed seed + fixed NSimulations
	// + identical input produce bit-identical results.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// RiskThresholds are the monotonic banding thresholds over the combined
// WEI/RPS score. Empirically calibrated and subject to recalibration;
// treat as configuration, not fixed law.
type RiskThresholds struct {
	Medium   float64 `mapstructure:"medium" validate:"gt=0"`
	High     float64 `mapstructure:"high" validate:"gt=0"`
	Critical float64 `mapstructure:"critical" validate:"gt=0"`
}

// ScoringConfig holds the WEI/RPS aggregation parameters.
type ScoringConfig struct {
	// LayerWeights is the per-layer criticality vector for WEI, indexed
	// L1..L7. Override-able; must have exactly seven non-negative entries.
	LayerWeights []float64 `mapstructure:"layer_weights" validate:"len=7,dive,gte=0"`

	// ExposureIndex is the per-layer exposure vector for RPS, indexed
	// L1..L7.
	ExposureIndex []float64 `mapstructure:"exposure_index" validate:"len=7,dive,gte=0"`

	// WEIWeight and RPSWeight blend the two scores into the combined
	// risk score used for banding.
	WEIWeight float64 `mapstructure:"wei_weight" validate:"gte=0"`
	RPSWeight float64 `mapstructure:"rps_weight" validate:"gte=0"`

	// RPSNormalizer scales RPS onto the WEI range before blending.
	RPSNormalizer float64 `mapstructure:"rps_normalizer" validate:"gt=0"`

	// BaselineRiskFloor is the named non-zero baseline applied when no
	// vulnerabilities are detected, so an undetected structural risk is
	// never reported as absolute zero. Heuristic and tunable.
	BaselineRiskFloor float64 `mapstructure:"baseline_risk_floor" validate:"gt=0"`

	// Thresholds band the combined score into low/medium/high/critical.
	Thresholds RiskThresholds `mapstructure:"thresholds"`
}

// DetectionConfig tunes the structural heuristics of detection Pass 2.
type DetectionConfig struct {
	// SupplyChainAgentThreshold is the agent count above which a workflow
	// with external dependencies is flagged for supply chain risk.
	SupplyChainAgentThreshold int `mapstructure:"supply_chain_agent_threshold" validate:"gte=1"`

	// MonitoringStepThreshold is the step count above which a workflow
	// without any monitoring step is flagged for a monitoring gap.
	MonitoringStepThreshold int `mapstructure:"monitoring_step_threshold" validate:"gte=1"`
}

// ReportConfig tunes report assembly.
type ReportConfig struct {
	// TopFindings is the number of ranked vulnerabilities in the
	// executive summary.
	TopFindings int `mapstructure:"top_findings" validate:"gte=1"`

	// Precision is the number of decimal places numeric report fields are
	// rounded to, for diff-stable serialized output.
	Precision int `mapstructure:"precision" validate:"gte=0,lte=10"`

	// MaxRecommendations caps the deduplicated recommendation list.
	MaxRecommendations int `mapstructure:"max_recommendations" validate:"gte=1"`
}

// Config is the complete assessment configuration. Treat instances as
// immutable after validation.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Report     ReportConfig     `mapstructure:"report"`
}

// LayerWeight returns the WEI weight for a MAESTRO layer. Layers outside
// L1..L7 weigh zero.
func (c *Config) LayerWeight(layer threat.Layer) float64 {
	if !layer.IsValid() || layer.Index() >= len(c.Scoring.LayerWeights) {
		return 0
	}
	return c.Scoring.LayerWeights[layer.Index()]
}

// Exposure returns the RPS exposure index for a MAESTRO layer. Layers
// outside L1..L7 carry zero exposure.
func (c *Config) Exposure(layer threat.Layer) float64 {
	if !layer.IsValid() || layer.Index() >= len(c.Scoring.ExposureIndex) {
		return 0
	}
	return c.Scoring.ExposureIndex[layer.Index()]
}
