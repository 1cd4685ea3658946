package config

// Default Monte Carlo parameters.
const (
	DefaultNSimulations       = 10000
	DefaultConfidenceInterval = 0.95
	DefaultRandomSeed         = 42
)

// DefaultConfig returns the calibrated default configuration. Layer weight
// and exposure vectors follow the CSA 2025 MAESTRO calibration; banding
// thresholds come from the same empirical study.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			NSimulations:       DefaultNSimulations,
			ConfidenceInterval: DefaultConfidenceInterval,
			RandomSeed:         DefaultRandomSeed,
		},
		Scoring: ScoringConfig{
			// L1..L7 criticality weights.
			LayerWeights: []float64{0.15, 0.10, 0.20, 0.18, 0.12, 0.15, 0.10},
			// L1..L7 exposure indices.
			ExposureIndex: []float64{0.30, 0.25, 0.45, 0.40, 0.35, 0.50, 0.20},
			WEIWeight:     0.7,
			RPSWeight:     0.3,
			RPSNormalizer: 30.0,
			// Non-zero floor so "no findings" never reads as "no risk".
			BaselineRiskFloor: 0.01,
			Thresholds: RiskThresholds{
				Medium:   0.219,
				High:     0.481,
				Critical: 0.527,
			},
		},
		Detection: DetectionConfig{
			SupplyChainAgentThreshold: 3,
			MonitoringStepThreshold:   7,
		},
		Report: ReportConfig{
			TopFindings:        5,
			Precision:          4,
			MaxRecommendations: 10,
		},
	}
}
