package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/types"
)

// TestDefaultConfig tests that the calibrated defaults validate
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, NewValidator().Validate(cfg))

	assert.Equal(t, DefaultNSimulations, cfg.Simulation.NSimulations)
	assert.Equal(t, float64(DefaultConfidenceInterval), cfg.Simulation.ConfidenceInterval)
	assert.Equal(t, uint64(DefaultRandomSeed), cfg.Simulation.RandomSeed)
	assert.Len(t, cfg.Scoring.LayerWeights, 7)
	assert.Len(t, cfg.Scoring.ExposureIndex, 7)
	assert.Less(t, cfg.Scoring.Thresholds.Medium, cfg.Scoring.Thresholds.High)
	assert.Less(t, cfg.Scoring.Thresholds.High, cfg.Scoring.Thresholds.Critical)
}

// TestLayerAccessors tests the per-layer vector accessors
func TestLayerAccessors(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.15, cfg.LayerWeight(threat.LayerFoundationModels))
	assert.Equal(t, 0.10, cfg.LayerWeight(threat.LayerEcosystem))
	assert.Equal(t, 0.30, cfg.Exposure(threat.LayerFoundationModels))
	assert.Equal(t, 0.20, cfg.Exposure(threat.LayerEcosystem))

	// Out-of-range layers contribute nothing rather than panicking.
	assert.Zero(t, cfg.LayerWeight(threat.Layer(0)))
	assert.Zero(t, cfg.LayerWeight(threat.Layer(8)))
	assert.Zero(t, cfg.Exposure(threat.Layer(-1)))

	// A truncated weight vector leaves the missing layers weightless.
	short := DefaultConfig()
	short.Scoring.LayerWeights = short.Scoring.LayerWeights[:3]
	assert.Zero(t, short.LayerWeight(threat.LayerEcosystem))
}

// TestValidateRejectsBadValues tests the struct validation rules
func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"zero simulations", func(c *Config) { c.Simulation.NSimulations = 0 }},
		{"confidence out of range", func(c *Config) { c.Simulation.ConfidenceInterval = 1.5 }},
		{"short layer weights", func(c *Config) { c.Scoring.LayerWeights = []float64{0.5} }},
		{"negative exposure", func(c *Config) { c.Scoring.ExposureIndex[2] = -0.1 }},
		{"zero normalizer", func(c *Config) { c.Scoring.RPSNormalizer = 0 }},
		{"zero baseline floor", func(c *Config) { c.Scoring.BaselineRiskFloor = 0 }},
		{"non-monotonic thresholds", func(c *Config) { c.Scoring.Thresholds.High = 0.1 }},
		{"weightless blend", func(c *Config) {
			c.Scoring.WEIWeight = 0
			c.Scoring.RPSWeight = 0
		}},
		{"zero supply chain threshold", func(c *Config) { c.Detection.SupplyChainAgentThreshold = 0 }},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := v.Validate(cfg)
			require.Error(t, err)
			assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
		})
	}
}

// TestValidateNilConfig tests the nil guard
func TestValidateNilConfig(t *testing.T) {
	err := NewValidator().Validate(nil)
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
}

// TestLoadPartialFile tests that a partial config file overrides only what it names
func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maestro.yaml")
	content := `
simulation:
  n_simulations: 500
  random_seed: 7
scoring:
  thresholds:
    medium: 0.1
    high: 0.2
    critical: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader(NewValidator()).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Simulation.NSimulations)
	assert.Equal(t, uint64(7), cfg.Simulation.RandomSeed)
	assert.Equal(t, 0.2, cfg.Scoring.Thresholds.High)
	// Untouched values keep their defaults.
	assert.Equal(t, float64(DefaultConfidenceInterval), cfg.Simulation.ConfidenceInterval)
	assert.Len(t, cfg.Scoring.LayerWeights, 7)
	assert.Equal(t, DefaultConfig().Detection, cfg.Detection)
}

// TestLoadMissingFile tests the load error path
func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(NewValidator()).Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_LOAD_FAILED, types.CodeOf(err))
}

// TestLoadInvalidValues tests that a file with bad values fails validation
func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maestro.yaml")
	content := `
simulation:
  n_simulations: -10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewLoader(NewValidator()).Load(path)
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
}

// TestLoadWithDefaults tests the missing-file fallback
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := NewLoader(NewValidator()).LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
