// Package maestro statically assesses declaratively-described multi-agent
// AI workflows (MCP/A2A) against the MAESTRO seven-layer threat taxonomy.
// It parses a YAML workflow definition, detects vulnerabilities with a
// deterministic two-pass scan, and quantifies risk as a Workflow
// Exploitability Index (WEI) and Risk Propagation Score (RPS) with Monte
// Carlo uncertainty bands.
//
// The package is a facade over the internal pipeline:
//
//	assessor := maestro.New(maestro.DefaultConfig(), nil)
//	report, err := assessor.AssessWorkflow(yamlBytes)
package maestro

import (
	"log/slog"

	"github.com/zero-day-ai/maestro/internal/config"
	"github.com/zero-day-ai/maestro/internal/engine"
	"github.com/zero-day-ai/maestro/internal/risk"
	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// Re-exported pipeline types. Aliases keep the internal packages as the
// single source of truth while giving callers nameable types.
type (
	Config           = config.Config
	AssessmentReport = engine.AssessmentReport
	QuickResult      = engine.QuickResult
	AssessmentResult = risk.AssessmentResult
	RiskLevel        = risk.Level
	Vulnerability    = threat.Vulnerability
	Layer            = threat.Layer
	ParsedWorkflow   = workflow.ParsedWorkflow
)

// Risk levels.
const (
	RiskLow      = risk.LevelLow
	RiskMedium   = risk.LevelMedium
	RiskHigh     = risk.LevelHigh
	RiskCritical = risk.LevelCritical
)

// DefaultConfig returns the calibrated default assessment configuration.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig loads configuration from a YAML file, falling back to the
// defaults for any value the file does not set. A missing file yields the
// full default configuration.
func LoadConfig(path string) (*Config, error) {
	return config.NewLoader(config.NewValidator()).LoadWithDefaults(path)
}

// Assessor runs workflow risk assessments. Construct once and reuse;
// assessments are independent and safe to run concurrently.
type Assessor struct {
	engine *engine.Engine
}

// New creates an Assessor. A nil config uses DefaultConfig(); a nil logger
// falls back to slog.Default().
func New(cfg *Config, logger *slog.Logger) *Assessor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Assessor{engine: engine.NewEngine(cfg, logger)}
}

// AssessWorkflow runs the full assessment pipeline over a YAML workflow
// definition.
func (a *Assessor) AssessWorkflow(data []byte) (*AssessmentReport, error) {
	return a.engine.AssessWorkflow(data)
}

// AssessWorkflowFile assesses a workflow definition read from disk.
func (a *Assessor) AssessWorkflowFile(path string) (*AssessmentReport, error) {
	return a.engine.AssessWorkflowFile(path)
}

// QuickAssessment parses and detects without Monte Carlo scoring, for fast
// triage.
func (a *Assessor) QuickAssessment(data []byte) (*QuickResult, error) {
	return a.engine.QuickAssessment(data)
}

// ReportJSON serializes a report with the assessor's configured rounding
// precision.
func (a *Assessor) ReportJSON(report *AssessmentReport) ([]byte, error) {
	return a.engine.ReportJSON(report)
}

// ParseWorkflow parses and validates a workflow definition without running
// any detection or scoring.
func ParseWorkflow(data []byte) (*ParsedWorkflow, error) {
	return workflow.Parse(data)
}
