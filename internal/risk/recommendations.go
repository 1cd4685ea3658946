package risk

import (
	"sort"

	"github.com/zero-day-ai/maestro/internal/threat"
)

// layerRecommendations maps each MAESTRO layer to its mitigation guidance.
// Emitted for the layers contributing the most propagated risk.
var layerRecommendations = map[threat.Layer]string{
	threat.LayerFoundationModels: "Harden model inputs: validate and sanitize all prompt content reaching foundation models, and isolate untrusted context from system instructions",
	threat.LayerDataOperations:   "Encrypt data in transit and at rest, and minimize sensitive data exposure across workflow steps",
	threat.LayerAgentFrameworks:  "Pin and verify agent framework and tool versions, and authenticate inter-agent messages",
	threat.LayerDeployment:       "Sandbox tool execution and enforce least-privilege permissions on deployment infrastructure",
	threat.LayerObservability:    "Add monitoring and audit steps so agent actions leave a reviewable trail",
	threat.LayerCompliance:       "Move credentials into a secrets manager and review the workflow against applicable compliance controls",
	threat.LayerEcosystem:        "Inventory and vet third-party agents and services the workflow depends on",
}

// typeRecommendations adds finding-specific guidance on top of the layer
// guidance for the vulnerability types that have a concrete fix.
var typeRecommendations = map[threat.VulnType]string{
	threat.TypePlaintextCredentials: "Remove plaintext credentials from step parameters; reference them via environment or a secrets manager",
	threat.TypeDangerousAction:      "Replace direct shell or eval execution with an allowlisted, parameterized action",
	threat.TypeUnsandboxedTool:      "Enable sandboxing on every declared tool or justify each exception",
	threat.TypeProtocolBridge:       "Add an authenticated security control on the MCP/A2A protocol bridge",
	threat.TypeDataExposure:         "Declare TLS or stronger encryption on every dataflow",
	threat.TypePrivilegeEscalation:  "Reduce agent permission levels to the minimum the workflow's steps require",
	threat.TypeSupplyChain:          "Pin versions and verify provenance for all external agent and tool dependencies",
	threat.TypeMonitoringGap:        "Insert an explicit monitoring or audit step into the workflow",
}

// recommend assembles a ranked, deduplicated recommendation list: layer
// guidance ordered by each layer's share of propagated risk, then
// finding-specific guidance, capped by the configured maximum.
func (c *Calculator) recommend(byLayer map[threat.Layer][]threat.Vulnerability, couplings []float64, vulns []threat.Vulnerability) []string {
	contribution := make(map[threat.Layer]float64)
	for i, v := range vulns {
		contribution[v.Layer] += v.Severity * couplings[i] * c.cfg.Exposure(v.Layer)
	}

	layers := make([]threat.Layer, 0, len(byLayer))
	for layer := range byLayer {
		layers = append(layers, layer)
	}
	sort.Slice(layers, func(i, j int) bool {
		if contribution[layers[i]] != contribution[layers[j]] {
			return contribution[layers[i]] > contribution[layers[j]]
		}
		return layers[i] < layers[j]
	})

	seen := make(map[string]bool)
	var recs []string
	add := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}
		seen[rec] = true
		recs = append(recs, rec)
	}

	for _, layer := range layers {
		add(layerRecommendations[layer])
	}
	for _, layer := range layers {
		for _, v := range byLayer[layer] {
			add(typeRecommendations[v.Type])
		}
	}

	if max := c.cfg.Report.MaxRecommendations; max > 0 && len(recs) > max {
		recs = recs[:max]
	}
	return recs
}

// baselineRecommendations is returned when the scan finds nothing; the
// workflow still warrants ongoing review.
func baselineRecommendations() []string {
	return []string{
		"No vulnerabilities detected by static analysis; re-assess after workflow changes",
		"Review agent permissions and dataflow encryption periodically",
	}
}
