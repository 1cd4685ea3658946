package detect

import (
	"fmt"
	"strings"

	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/types"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// runStructuralPass is Pass 2: workflow-wide structural heuristics. It runs
// over the whole workflow regardless of Pass-1 hits, catching patterns that
// carry no lexical markers. Duplicates against Pass 1 are absorbed by the
// type+location deduplicator.
func (d *Detector) runStructuralPass(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	d.checkSupplyChain(pw, dedup)
	d.checkProtocolBridge(pw, dedup)
	d.checkUnencryptedFlows(pw, dedup)
	d.checkMonitoringGap(pw, dedup)
	d.checkComplianceSurface(pw, dedup)
}

// checkSupplyChain flags workflows whose agent count exceeds the configured
// threshold when combined with external dependencies or a complete absence
// of declared dataflow encryption. Many agents widen the supply chain attack
// surface even when every individual step looks clean.
func (d *Detector) checkSupplyChain(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	if len(pw.Agents) <= d.cfg.SupplyChainAgentThreshold {
		return
	}

	externalDeps := false
	for _, step := range pw.Steps {
		if externalPattern.MatchString(flattenParams(step.Params)) {
			externalDeps = true
			break
		}
	}

	encryptionDeclared := false
	for _, flow := range pw.DataFlows {
		if flow.Encryption != "" {
			encryptionDeclared = true
			break
		}
	}

	if !externalDeps && encryptionDeclared {
		return
	}

	v := d.matrix.NewVulnerability(threat.TypeSupplyChain)
	v.ID = types.NewID()
	v.RuleID = "workflow-supply-chain"
	v.Description = fmt.Sprintf(
		"%d agents with external dependencies or undeclared dataflow encryption widen the supply chain attack surface",
		len(pw.Agents))
	dedup.add(v)
}

// checkProtocolBridge flags hybrid workflows that bridge MCP and A2A agents
// without declaring a bridge-security control.
func (d *Detector) checkProtocolBridge(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	if pw.Protocol != workflow.ProtocolHybrid {
		return
	}
	if pw.Security.HasBridgeControl() {
		return
	}

	v := d.matrix.NewVulnerability(threat.TypeProtocolBridge)
	v.ID = types.NewID()
	v.RuleID = "workflow-protocol-bridge"
	v.Description = "hybrid MCP/A2A workflow declares no bridge-security control"
	dedup.add(v)
}

// checkUnencryptedFlows emits a data-exposure vulnerability for every
// dataflow with encryption: none. This deliberately overlaps with the
// Pass-1 dataflow rule; the deduplicator keeps one record per flow.
func (d *Detector) checkUnencryptedFlows(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	for _, flow := range pw.DataFlows {
		if flow.Encryption != workflow.EncryptionNone {
			continue
		}
		v := d.matrix.NewVulnerability(threat.TypeDataExposure)
		v.ID = types.NewID()
		v.RuleID = "workflow-unencrypted-flow"
		attachFlowTarget(pw, flow.Target, &v)
		v.Description = fmt.Sprintf("dataflow %s -> %s moves data in the clear", flow.Source, flow.Target)
		dedup.add(v)
	}
}

// checkMonitoringGap flags large workflows with no monitoring or audit step.
func (d *Detector) checkMonitoringGap(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	if len(pw.Steps) <= d.cfg.MonitoringStepThreshold {
		return
	}

	for _, step := range pw.Steps {
		action := strings.ToLower(step.Action)
		if strings.Contains(action, "monitor") || strings.Contains(action, "audit") {
			return
		}
	}

	v := d.matrix.NewVulnerability(threat.TypeMonitoringGap)
	v.ID = types.NewID()
	v.RuleID = "workflow-monitoring-gap"
	v.Description = fmt.Sprintf("%d-step workflow declares no monitoring or audit step", len(pw.Steps))
	dedup.add(v)
}

// complianceMarkers are workflow-name markers for regulated processing.
var complianceMarkers = []string{
	"payment_processing", "payment", "credit_card", "bank_transfer", "financial_transaction",
}

// checkComplianceSurface flags workflows whose name or metadata indicate
// regulated financial processing.
func (d *Detector) checkComplianceSurface(pw *workflow.ParsedWorkflow, dedup *deduplicator) {
	name := strings.ToLower(pw.Name)
	matched := false
	for _, marker := range complianceMarkers {
		if strings.Contains(name, marker) {
			matched = true
			break
		}
	}
	if !matched {
		return
	}

	v := d.matrix.NewVulnerability(threat.TypeComplianceViolation)
	v.ID = types.NewID()
	v.RuleID = "workflow-compliance-surface"
	v.Description = "financial processing workflow requires strict compliance controls"
	dedup.add(v)
}

// normalizeLevel canonicalizes a permission level for privilege matching.
func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
