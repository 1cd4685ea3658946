// Package detect implements the two-pass hybrid vulnerability scan over a
// parsed workflow.
//
// Pass 1 runs a fixed, ordered registry of static predicate rules against
// step parameters, tool declarations, and dataflow attributes. Pass 2
// applies workflow-wide structural heuristics that catch lexically clean
// but structurally risky patterns. Both passes are fully deterministic; no
// randomness occurs before the Monte Carlo stage. Results are deduplicated
// by vulnerability type and location.
package detect

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/zero-day-ai/maestro/internal/config"
	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/types"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// Detector performs the hybrid static+heuristic vulnerability scan.
// It is stateless across calls and safe for concurrent use.
type Detector struct {
	matrix *threat.Matrix
	cfg    config.DetectionConfig
	rules  []StepRule
	logger *slog.Logger
}

// NewDetector creates a Detector pricing its findings from the given Core
// Threat Matrix. A nil logger falls back to slog.Default().
func NewDetector(matrix *threat.Matrix, cfg config.DetectionConfig, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		matrix: matrix,
		cfg:    cfg,
		rules:  stepRules(),
		logger: logger,
	}
}

// Detect runs both detection passes and returns the deduplicated
// vulnerability list. The input workflow is treated as read-only.
func (d *Detector) Detect(pw *workflow.ParsedWorkflow) []threat.Vulnerability {
	dedup := newDeduplicator()

	d.runStaticPass(pw, dedup)
	d.runStructuralPass(pw, dedup)

	vulns := dedup.list()
	d.logger.Debug("vulnerability detection complete",
		"workflow", pw.Name,
		"vulnerabilities", len(vulns))
	return vulns
}

// runStaticPass is Pass 1: ordered static rules over steps, agent tool
// declarations, and dataflow attributes.
func (d *Detector) runStaticPass(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	// Step parameter and action rules, in registry order.
	for _, step := range pw.Steps {
		paramText := flattenParams(step.Params)
		for _, rule := range d.rules {
			desc, ok := rule.Match(step, paramText)
			if !ok {
				continue
			}
			v := d.matrix.NewVulnerability(rule.Type)
			v.ID = types.NewID()
			v.RuleID = rule.ID
			v.StepID = step.ID
			v.AgentID = step.Agent
			v.Description = desc
			// Step-scoped hits derive coupling from the dependency graph
			// instead of the matrix prior.
			v.ProtocolCoupling = 0
			dedup.add(v)
		}
	}

	// Tool declarations: unsandboxed tools and high-privilege agents.
	// Agent IDs are sorted so finding order never depends on map iteration.
	agentIDs := make([]string, 0, len(pw.Agents))
	for id := range pw.Agents {
		agentIDs = append(agentIDs, id)
	}
	sort.Strings(agentIDs)

	for _, id := range agentIDs {
		agent := pw.Agents[id]
		for _, tool := range agent.Tools {
			if tool.Sandboxed {
				continue
			}
			v := d.matrix.NewVulnerability(threat.TypeUnsandboxedTool)
			v.ID = types.NewID()
			v.RuleID = "agent-unsandboxed-tool"
			v.AgentID = agent.ID
			v.Description = fmt.Sprintf("agent %q declares unsandboxed tool %q", agent.ID, tool.Name)
			dedup.add(v)
		}

		if privilegedLevels[normalizeLevel(agent.PermissionLevel)] {
			v := d.matrix.NewVulnerability(threat.TypePrivilegeEscalation)
			v.ID = types.NewID()
			v.RuleID = "agent-high-privilege"
			v.AgentID = agent.ID
			v.Description = fmt.Sprintf("agent %q runs with %s privileges", agent.ID, agent.PermissionLevel)
			dedup.add(v)
		}
	}

	// Dataflow attributes: explicit encryption: none.
	for _, flow := range pw.DataFlows {
		if flow.Encryption != workflow.EncryptionNone {
			continue
		}
		v := d.matrix.NewVulnerability(threat.TypeDataExposure)
		v.ID = types.NewID()
		v.RuleID = "dataflow-unencrypted"
		attachFlowTarget(pw, flow.Target, &v)
		v.Description = fmt.Sprintf("dataflow %s -> %s declares no encryption", flow.Source, flow.Target)
		dedup.add(v)
	}
}

// attachFlowTarget locates a dataflow target, which may name either a step
// or an agent, and fills the matching origin field so Location() reports
// the right kind of node. Dangling endpoints are rejected during parsing,
// so an unresolved target leaves both fields empty only for hand-built
// workflows that skipped validation.
func attachFlowTarget(pw *workflow.ParsedWorkflow, target string, v *threat.Vulnerability) {
	if pw.GetStep(target) != nil {
		v.StepID = target
		return
	}
	if pw.GetAgent(target) != nil {
		v.AgentID = target
	}
}
