package engine

import (
	"encoding/json"
	"math"
	"time"

	"github.com/zero-day-ai/maestro/internal/risk"
	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// AssessmentReport is the serializable output of one full assessment.
type AssessmentReport struct {
	// ID is the unique assessment identifier ("MAESTRO-" + UUID), used to
	// correlate the report with log entries and wrapped errors.
	ID string `json:"assessment_id"`

	// GeneratedAt is the UTC timestamp the assessment started.
	GeneratedAt time.Time `json:"generated_at"`

	Workflow WorkflowSummary `json:"workflow"`

	// Result carries the full quantified scores and per-layer findings.
	Result *risk.AssessmentResult `json:"result"`

	ExecutiveSummary ExecutiveSummary `json:"executive_summary"`

	// Metadata carries the workflow's declared metadata map through to
	// report consumers.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Warnings surfaces non-fatal parse issues alongside the findings.
	Warnings []string `json:"warnings,omitempty"`
}

// WorkflowSummary describes the assessed workflow's shape and the step
// ordering derived from its dependency graph.
type WorkflowSummary struct {
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Protocol      workflow.Protocol `json:"protocol"`
	AgentCount    int               `json:"agent_count"`
	StepCount     int               `json:"step_count"`
	DataFlowCount int               `json:"dataflow_count"`
	TotalNodes    int               `json:"total_nodes"`

	// ExecutionOrder is the topological step order; ties break
	// lexicographically so repeated assessments serialize identically.
	ExecutionOrder []string `json:"execution_order,omitempty"`

	// EntryPoints and ExitPoints are the steps with no dependencies and no
	// dependents, the workflow's outer attack surface.
	EntryPoints []string `json:"entry_points,omitempty"`
	ExitPoints  []string `json:"exit_points,omitempty"`
}

// ExecutiveSummary is the top of the report: the headline numbers, the
// ranked worst findings, and the recommendation list.
type ExecutiveSummary struct {
	RiskLevel          risk.Level `json:"risk_level"`
	CombinedRisk       float64    `json:"combined_risk"`
	WEI                float64    `json:"wei"`
	RPS                float64    `json:"rps"`
	VulnerabilityCount int        `json:"vulnerability_count"`
	TopFindings        []Finding  `json:"top_findings"`
	Recommendations    []string   `json:"recommendations"`
}

// Finding is one ranked vulnerability in the executive summary.
type Finding struct {
	Type             threat.VulnType     `json:"type"`
	Layer            threat.Layer        `json:"maestro_layer"`
	LayerName        string              `json:"layer_name"`
	LayerDescription string              `json:"layer_description"`
	Severity         float64             `json:"severity"`
	Band             threat.SeverityBand `json:"band"`
	Location         string              `json:"location"`
	Description      string              `json:"description"`
}

// QuickResult is the lightweight triage output of QuickAssessment.
type QuickResult struct {
	WorkflowName       string              `json:"workflow_name"`
	Protocol           workflow.Protocol   `json:"protocol"`
	AgentCount         int                 `json:"agent_count"`
	StepCount          int                 `json:"step_count"`
	VulnerabilityCount int                 `json:"vulnerability_count"`
	HighestSeverity    threat.SeverityBand `json:"highest_severity"`
	Warnings           []string            `json:"warnings,omitempty"`
}

// JSON serializes the report with every numeric field rounded to the
// configured precision, so repeated assessments of the same input produce
// diff-stable output.
func (r *AssessmentReport) JSON(precision int) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}

	return json.MarshalIndent(roundTree(tree, precision), "", "  ")
}

// roundTree walks a decoded JSON tree and rounds every float to the given
// number of decimal places. Integral values survive unchanged because
// rounding an integer is the identity.
func roundTree(v any, precision int) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = roundTree(child, precision)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = roundTree(child, precision)
		}
		return t
	case float64:
		return roundTo(t, precision)
	default:
		return v
	}
}

func roundTo(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}
