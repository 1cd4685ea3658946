// Package threat defines the MAESTRO layer taxonomy, the vulnerability
// record produced by detection, and the Core Threat Matrix of baseline
// scoring parameters per vulnerability type.
package threat

// Layer is one of the seven MAESTRO security framework layers classifying
// where a vulnerability originates.
type Layer int

const (
	LayerFoundationModels Layer = 1 // L1: model security, prompt handling
	LayerDataOperations   Layer = 2 // L2: data pipelines, privacy
	LayerAgentFrameworks  Layer = 3 // L3: agent protocols, tools
	LayerDeployment       Layer = 4 // L4: runtime, sandboxing, network
	LayerObservability    Layer = 5 // L5: monitoring, audit trails
	LayerCompliance       Layer = 6 // L6: governance, regulation
	LayerEcosystem        Layer = 7 // L7: third parties, supply chain
)

// AllLayers lists the seven layers in ascending order.
var AllLayers = []Layer{
	LayerFoundationModels,
	LayerDataOperations,
	LayerAgentFrameworks,
	LayerDeployment,
	LayerObservability,
	LayerCompliance,
	LayerEcosystem,
}

// NumLayers is the number of MAESTRO layers.
const NumLayers = 7

var layerNames = map[Layer]string{
	LayerFoundationModels: "Foundation Models",
	LayerDataOperations:   "Data Operations",
	LayerAgentFrameworks:  "Agent Frameworks",
	LayerDeployment:       "Deployment",
	LayerObservability:    "Observability",
	LayerCompliance:       "Compliance",
	LayerEcosystem:        "Ecosystem",
}

var layerDescriptions = map[Layer]string{
	LayerFoundationModels: "Foundation model security, prompt injection protection, bias mitigation",
	LayerDataOperations:   "Data pipeline security, privacy protection, vector database hardening",
	LayerAgentFrameworks:  "Agent protocol security, tool validation, inter-agent communication",
	LayerDeployment:       "Runtime security, sandboxing, network isolation, infrastructure hardening",
	LayerObservability:    "Security monitoring, logging, anomaly detection, audit trails",
	LayerCompliance:       "Regulatory compliance, policy enforcement, governance frameworks",
	LayerEcosystem:        "Third-party integrations, supply chain security, dependency management",
}

// String returns the human-readable layer name (e.g. "L3 Agent Frameworks").
func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Description returns the layer's security scope description.
func (l Layer) Description() string {
	return layerDescriptions[l]
}

// IsValid reports whether the layer is one of L1..L7.
func (l Layer) IsValid() bool {
	return l >= LayerFoundationModels && l <= LayerEcosystem
}

// Index returns the zero-based index of the layer, for indexing the
// LayerWeight and ExposureIndex configuration vectors.
func (l Layer) Index() int {
	return int(l) - 1
}
