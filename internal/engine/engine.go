// Package engine orchestrates a complete workflow risk assessment:
// parse, detect, score, report. It is the single entry point callers use;
// the pipeline stages live in their own packages.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/zero-day-ai/maestro/internal/config"
	"github.com/zero-day-ai/maestro/internal/detect"
	"github.com/zero-day-ai/maestro/internal/risk"
	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/types"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// Engine runs the assessment pipeline. Construct once and reuse; every
// stage it holds is safe for concurrent assessments because the Monte
// Carlo stream is created fresh per calculation.
type Engine struct {
	cfg        *config.Config
	detector   *detect.Detector
	calculator *risk.Calculator
	logger     *slog.Logger
}

// NewEngine creates an Engine over the given configuration. A nil logger
// falls back to slog.Default().
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:        cfg,
		detector:   detect.NewDetector(threat.NewMatrix(), cfg.Detection, logger),
		calculator: risk.NewCalculator(cfg, logger),
		logger:     logger,
	}
}

// AssessWorkflow runs the full pipeline over a YAML workflow definition
// and assembles the assessment report. Every error is wrapped with the
// assessment ID so failures can be correlated with partial logs.
func (e *Engine) AssessWorkflow(data []byte) (*AssessmentReport, error) {
	assessmentID := newAssessmentID()
	started := time.Now().UTC()

	e.logger.Info("assessment started", "assessment_id", assessmentID)

	pw, err := workflow.Parse(data)
	if err != nil {
		return nil, types.WrapError(workflow.ErrorCode(err),
			fmt.Sprintf("assessment %s: workflow parsing failed", assessmentID), err)
	}

	e.logWarnings(assessmentID, pw)
	vulns := e.detector.Detect(pw)

	result, err := e.calculator.CalculateRisk(pw, vulns)
	if err != nil {
		return nil, types.WrapError(types.ASSESSMENT_FAILED,
			fmt.Sprintf("assessment %s: risk calculation failed", assessmentID), err)
	}

	report := e.assembleReport(assessmentID, started, pw, result)

	e.logger.Info("assessment complete",
		"assessment_id", assessmentID,
		"workflow", pw.Name,
		"vulnerabilities", result.VulnerabilityCount(),
		"risk_level", result.RiskLevel,
		"duration", time.Since(started))

	return report, nil
}

// AssessWorkflowFile reads a workflow definition from disk and assesses it.
func (e *Engine) AssessWorkflowFile(path string) (*AssessmentReport, error) {
	pw, err := workflow.ParseFile(path)
	if err != nil {
		return nil, types.WrapError(workflow.ErrorCode(err),
			fmt.Sprintf("workflow file %s", path), err)
	}

	assessmentID := newAssessmentID()
	started := time.Now().UTC()

	e.logWarnings(assessmentID, pw)
	vulns := e.detector.Detect(pw)
	result, err := e.calculator.CalculateRisk(pw, vulns)
	if err != nil {
		return nil, types.WrapError(types.ASSESSMENT_FAILED,
			fmt.Sprintf("assessment %s: risk calculation failed", assessmentID), err)
	}

	return e.assembleReport(assessmentID, started, pw, result), nil
}

// QuickAssessment parses and detects without the Monte Carlo stage, for
// fast triage of workflow definitions. The point scores still come from
// the same formulas the full assessment uses.
func (e *Engine) QuickAssessment(data []byte) (*QuickResult, error) {
	pw, err := workflow.Parse(data)
	if err != nil {
		return nil, types.WrapError(workflow.ErrorCode(err), "workflow parsing failed", err)
	}

	vulns := e.detector.Detect(pw)

	highest := threat.SeverityBand(threat.BandInfo)
	for i := range vulns {
		if bandRank(vulns[i].Band()) > bandRank(highest) {
			highest = vulns[i].Band()
		}
	}

	return &QuickResult{
		WorkflowName:       pw.Name,
		Protocol:           pw.Protocol,
		AgentCount:         len(pw.Agents),
		StepCount:          len(pw.Steps),
		VulnerabilityCount: len(vulns),
		HighestSeverity:    highest,
		Warnings:           pw.Warnings,
	}, nil
}

// assembleReport builds the serializable report from the pipeline outputs.
func (e *Engine) assembleReport(assessmentID string, started time.Time, pw *workflow.ParsedWorkflow, result *risk.AssessmentResult) *AssessmentReport {
	summary := WorkflowSummary{
		Name:          pw.Name,
		Description:   pw.Description,
		Protocol:      pw.Protocol,
		AgentCount:    len(pw.Agents),
		StepCount:     len(pw.Steps),
		DataFlowCount: len(pw.DataFlows),
		TotalNodes:    pw.TotalNodes(),
	}
	if pw.Graph != nil {
		// The parser rejects cyclic workflows, so the sort always succeeds
		// for anything that reached this point.
		summary.ExecutionOrder = pw.Graph.TopologicalSort()
		summary.EntryPoints = pw.Graph.EntryPoints()
		summary.ExitPoints = pw.Graph.ExitPoints()
	}

	return &AssessmentReport{
		ID:               assessmentID,
		GeneratedAt:      started,
		Workflow:         summary,
		Result:           result,
		ExecutiveSummary: e.summarize(result),
		Metadata:         pw.Metadata,
		Warnings:         pw.Warnings,
	}
}

// ReportJSON serializes a report using the engine's configured rounding
// precision.
func (e *Engine) ReportJSON(report *AssessmentReport) ([]byte, error) {
	return report.JSON(e.cfg.Report.Precision)
}

// summarize ranks the findings for the executive summary: severity
// descending, then layer ascending for a stable order, truncated to the
// configured count.
func (e *Engine) summarize(result *risk.AssessmentResult) ExecutiveSummary {
	vulns := result.AllVulnerabilities()
	sort.SliceStable(vulns, func(i, j int) bool {
		if vulns[i].Severity != vulns[j].Severity {
			return vulns[i].Severity > vulns[j].Severity
		}
		return vulns[i].Layer < vulns[j].Layer
	})

	top := e.cfg.Report.TopFindings
	if top <= 0 || top > len(vulns) {
		top = len(vulns)
	}

	findings := make([]Finding, 0, top)
	for _, v := range vulns[:top] {
		findings = append(findings, Finding{
			Type:             v.Type,
			Layer:            v.Layer,
			LayerName:        v.Layer.String(),
			LayerDescription: v.Layer.Description(),
			Severity:         v.Severity,
			Band:             v.Band(),
			Location:         v.Location(),
			Description:      v.Description,
		})
	}

	return ExecutiveSummary{
		RiskLevel:          result.RiskLevel,
		CombinedRisk:       result.CombinedRisk.Mean,
		WEI:                result.TotalWEI.Mean,
		RPS:                result.TotalRPS.Mean,
		VulnerabilityCount: result.VulnerabilityCount(),
		TopFindings:        findings,
		Recommendations:    result.Recommendations,
	}
}

// logWarnings surfaces non-fatal parse issues before detection runs.
func (e *Engine) logWarnings(assessmentID string, pw *workflow.ParsedWorkflow) {
	for _, w := range pw.Warnings {
		e.logger.Warn("workflow warning",
			"assessment_id", assessmentID,
			"workflow", pw.Name,
			"warning", w)
	}
}

// newAssessmentID mints the correlatable assessment identifier.
func newAssessmentID() string {
	return "MAESTRO-" + types.NewID().String()
}

// bandRank orders severity bands for comparison.
func bandRank(b threat.SeverityBand) int {
	switch b {
	case threat.BandCritical:
		return 4
	case threat.BandHigh:
		return 3
	case threat.BandMedium:
		return 2
	case threat.BandLow:
		return 1
	default:
		return 0
	}
}
