package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/zero-day-ai/maestro/internal/types"
)

// Loader handles loading configuration from files.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperLoader implements Loader using Viper.
type viperLoader struct {
	validator Validator
}

// NewLoader creates a new Loader instance.
func NewLoader(validator Validator) Loader {
	return &viperLoader{
		validator: validator,
	}
}

// Load loads configuration from the specified YAML file. Values not present
// in the file fall back to the calibrated defaults.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, returns the default configuration.
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return l.Load(path)
}

// setDefaults registers the calibrated defaults so partial config files
// only need to override what they change.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("simulation.n_simulations", def.Simulation.NSimulations)
	v.SetDefault("simulation.confidence_interval", def.Simulation.ConfidenceInterval)
	v.SetDefault("simulation.random_seed", def.Simulation.RandomSeed)

	v.SetDefault("scoring.layer_weights", def.Scoring.LayerWeights)
	v.SetDefault("scoring.exposure_index", def.Scoring.ExposureIndex)
	v.SetDefault("scoring.wei_weight", def.Scoring.WEIWeight)
	v.SetDefault("scoring.rps_weight", def.Scoring.RPSWeight)
	v.SetDefault("scoring.rps_normalizer", def.Scoring.RPSNormalizer)
	v.SetDefault("scoring.baseline_risk_floor", def.Scoring.BaselineRiskFloor)
	v.SetDefault("scoring.thresholds.medium", def.Scoring.Thresholds.Medium)
	v.SetDefault("scoring.thresholds.high", def.Scoring.Thresholds.High)
	v.SetDefault("scoring.thresholds.critical", def.Scoring.Thresholds.Critical)

	v.SetDefault("detection.supply_chain_agent_threshold", def.Detection.SupplyChainAgentThreshold)
	v.SetDefault("detection.monitoring_step_threshold", def.Detection.MonitoringStepThreshold)

	v.SetDefault("report.top_findings", def.Report.TopFindings)
	v.SetDefault("report.precision", def.Report.Precision)
	v.SetDefault("report.max_recommendations", def.Report.MaxRecommendations)
}
