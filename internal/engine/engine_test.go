package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/maestro/internal/config"
	"github.com/zero-day-ai/maestro/internal/risk"
	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/types"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

const riskyWorkflowYAML = `
workflow:
  name: "payment_processing"
  protocol: "HYBRID"
  mcp_agents:
    - id: collector
      permission_level: admin
      tools:
        - name: db-writer
          sandboxed: false
    - id: enricher
  a2a_agents:
    - id: approver
    - id: notifier
  steps:
    - step_id: collect
      agent: collector
      action: collect_orders
      params:
        db_password: "plaintext"
    - step_id: enrich
      agent: enricher
      action: enrich
      depends_on: [collect]
      params:
        source: third_party_api
    - step_id: approve
      agent: approver
      action: approve
      depends_on: [enrich]
    - step_id: notify
      agent: notifier
      action: shell_exec
      depends_on: [approve]
  dataflows:
    - source: collect
      target: enrich
      encryption: none
`

const cleanWorkflowYAML = `
workflow:
  name: "doc-summarizer"
  protocol: "MCP"
  agents:
    - id: summarizer
      permission_level: standard
  steps:
    - step_id: summarize
      agent: summarizer
      action: condense_document
  dataflows:
    - source: summarizer
      target: summarize
      encryption: tls
`

func testEngine() *Engine {
	cfg := config.DefaultConfig()
	cfg.Simulation.NSimulations = 1500
	return NewEngine(cfg, nil)
}

// TestAssessWorkflow tests the full pipeline over a risky definition
func TestAssessWorkflow(t *testing.T) {
	report, err := testEngine().AssessWorkflow([]byte(riskyWorkflowYAML))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report.ID, "MAESTRO-"))
	assert.False(t, report.GeneratedAt.IsZero())

	assert.Equal(t, "payment_processing", report.Workflow.Name)
	assert.Equal(t, workflow.ProtocolHybrid, report.Workflow.Protocol)
	assert.Equal(t, 4, report.Workflow.AgentCount)
	assert.Equal(t, 4, report.Workflow.StepCount)
	assert.Equal(t, 8, report.Workflow.TotalNodes)

	// The dependency graph orders the summary's step references.
	assert.Equal(t, []string{"collect", "enrich", "approve", "notify"}, report.Workflow.ExecutionOrder)
	assert.Equal(t, []string{"collect"}, report.Workflow.EntryPoints)
	assert.Equal(t, []string{"notify"}, report.Workflow.ExitPoints)

	require.NotNil(t, report.Result)
	assert.Positive(t, report.Result.VulnerabilityCount())
	assert.Positive(t, report.Result.TotalWEI.Mean)
	assert.Positive(t, report.Result.TotalRPS.Mean)
	assert.NotEqual(t, risk.LevelLow, report.Result.RiskLevel)

	// The worst findings are ranked first.
	summary := report.ExecutiveSummary
	assert.Equal(t, report.Result.RiskLevel, summary.RiskLevel)
	assert.Equal(t, report.Result.VulnerabilityCount(), summary.VulnerabilityCount)
	require.NotEmpty(t, summary.TopFindings)
	assert.LessOrEqual(t, len(summary.TopFindings), 5)
	for i := 1; i < len(summary.TopFindings); i++ {
		assert.GreaterOrEqual(t, summary.TopFindings[i-1].Severity, summary.TopFindings[i].Severity)
	}
	for _, f := range summary.TopFindings {
		assert.Equal(t, f.Layer.Description(), f.LayerDescription)
		assert.NotEmpty(t, f.LayerDescription)
	}
	assert.NotEmpty(t, summary.Recommendations)
}

// TestAssessWorkflowExpectedFindings tests that known weaknesses appear
func TestAssessWorkflowExpectedFindings(t *testing.T) {
	report, err := testEngine().AssessWorkflow([]byte(riskyWorkflowYAML))
	require.NoError(t, err)

	byType := make(map[threat.VulnType]bool)
	for _, v := range report.Result.AllVulnerabilities() {
		byType[v.Type] = true
	}

	for _, expected := range []threat.VulnType{
		threat.TypePlaintextCredentials,
		threat.TypeDangerousAction,
		threat.TypeUnsandboxedTool,
		threat.TypePrivilegeEscalation,
		threat.TypeDataExposure,
		threat.TypeProtocolBridge,
		threat.TypeSupplyChain,
		threat.TypeComplianceViolation,
	} {
		assert.True(t, byType[expected], "expected finding %s", expected)
	}
}

// TestAssessCleanWorkflow tests the baseline path end to end
func TestAssessCleanWorkflow(t *testing.T) {
	report, err := testEngine().AssessWorkflow([]byte(cleanWorkflowYAML))
	require.NoError(t, err)

	assert.Zero(t, report.Result.VulnerabilityCount())
	assert.Positive(t, report.Result.TotalWEI.Mean, "risk never reads as absolute zero")
	assert.Equal(t, risk.LevelLow, report.Result.RiskLevel)
	assert.Empty(t, report.ExecutiveSummary.TopFindings)
	assert.NotEmpty(t, report.ExecutiveSummary.Recommendations)
}

// TestAssessWorkflowParseFailure tests error wrapping on bad input
func TestAssessWorkflowParseFailure(t *testing.T) {
	_, err := testEngine().AssessWorkflow([]byte("not: a: workflow"))
	require.Error(t, err)
	assert.Equal(t, types.SCHEMA_INVALID, types.CodeOf(err))

	var schemaErr *workflow.SchemaError
	assert.ErrorAs(t, err, &schemaErr, "the parse cause stays inspectable")

	cyclic := `
workflow:
  name: "loop"
  agents:
    - id: a1
  steps:
    - step_id: s1
      agent: a1
      action: run
      depends_on: [s2]
    - step_id: s2
      agent: a1
      action: run
      depends_on: [s1]
`
	_, err = testEngine().AssessWorkflow([]byte(cyclic))
	require.Error(t, err)
	assert.Equal(t, types.CYCLIC_DEPENDENCY, types.CodeOf(err))
}

// TestAssessWorkflowFile tests assessment from a file on disk
func TestAssessWorkflowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cleanWorkflowYAML), 0o644))

	report, err := testEngine().AssessWorkflowFile(path)
	require.NoError(t, err)
	assert.Equal(t, "doc-summarizer", report.Workflow.Name)

	_, err = testEngine().AssessWorkflowFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, types.SCHEMA_INVALID, types.CodeOf(err))
}

// TestQuickAssessment tests the triage path without Monte Carlo
func TestQuickAssessment(t *testing.T) {
	quick, err := testEngine().QuickAssessment([]byte(riskyWorkflowYAML))
	require.NoError(t, err)

	assert.Equal(t, "payment_processing", quick.WorkflowName)
	assert.Equal(t, workflow.ProtocolHybrid, quick.Protocol)
	assert.Equal(t, 4, quick.AgentCount)
	assert.Equal(t, 4, quick.StepCount)
	assert.Positive(t, quick.VulnerabilityCount)
	assert.Contains(t, []threat.SeverityBand{threat.BandHigh, threat.BandCritical}, quick.HighestSeverity)

	clean, err := testEngine().QuickAssessment([]byte(cleanWorkflowYAML))
	require.NoError(t, err)
	assert.Zero(t, clean.VulnerabilityCount)
	assert.Equal(t, threat.BandInfo, clean.HighestSeverity)
}

// TestAssessDeterministic tests that repeat assessments produce identical scores
func TestAssessDeterministic(t *testing.T) {
	first, err := testEngine().AssessWorkflow([]byte(riskyWorkflowYAML))
	require.NoError(t, err)
	second, err := testEngine().AssessWorkflow([]byte(riskyWorkflowYAML))
	require.NoError(t, err)

	assert.Equal(t, first.Result.TotalWEI, second.Result.TotalWEI)
	assert.Equal(t, first.Result.TotalRPS, second.Result.TotalRPS)
	assert.Equal(t, first.Result.CombinedRisk, second.Result.CombinedRisk)
	assert.Equal(t, first.Result.RiskLevel, second.Result.RiskLevel)
	assert.NotEqual(t, first.ID, second.ID, "assessment IDs stay unique")
}

// TestReportJSON tests precision-rounded serialization
func TestReportJSON(t *testing.T) {
	report, err := testEngine().AssessWorkflow([]byte(riskyWorkflowYAML))
	require.NoError(t, err)

	data, err := report.JSON(4)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.ID, decoded["assessment_id"])

	// Every numeric leaf is rounded to at most four decimals.
	var checkRounding func(v any)
	checkRounding = func(v any) {
		switch t2 := v.(type) {
		case map[string]any:
			for _, c := range t2 {
				checkRounding(c)
			}
		case []any:
			for _, c := range t2 {
				checkRounding(c)
			}
		case float64:
			assert.InDelta(t, roundTo(t2, 4), t2, 1e-12)
		}
	}
	checkRounding(decoded)
}

// TestEngineReportJSON tests that serialization picks up the configured
// rounding precision
func TestEngineReportJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.NSimulations = 1500
	cfg.Report.Precision = 2
	eng := NewEngine(cfg, nil)

	report, err := eng.AssessWorkflow([]byte(riskyWorkflowYAML))
	require.NoError(t, err)

	data, err := eng.ReportJSON(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	var checkRounding func(v any)
	checkRounding = func(v any) {
		switch t2 := v.(type) {
		case map[string]any:
			for _, c := range t2 {
				checkRounding(c)
			}
		case []any:
			for _, c := range t2 {
				checkRounding(c)
			}
		case float64:
			assert.InDelta(t, roundTo(t2, 2), t2, 1e-12)
		}
	}
	checkRounding(decoded)
}

// TestRoundTo tests the rounding helper boundaries
func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.1235, roundTo(0.12345, 4))
	assert.Equal(t, 3.0, roundTo(3.0, 4))
	assert.Equal(t, 0.12345, roundTo(0.12345, -1))
	assert.Equal(t, 0.0, roundTo(0.00004, 4))
}
