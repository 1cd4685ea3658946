package workflow

import (
	"time"
)

// Protocol identifies the agent communication protocol a workflow is built on.
type Protocol string

const (
	// ProtocolMCP is the Model Context Protocol (tool-centric agent workflows).
	ProtocolMCP Protocol = "MCP"

	// ProtocolA2A is the Agent-to-Agent protocol (peer agent workflows).
	ProtocolA2A Protocol = "A2A"

	// ProtocolHybrid marks workflows that bridge MCP and A2A agents.
	ProtocolHybrid Protocol = "HYBRID"

	// ProtocolUnknown is recorded when the declared protocol is not recognized.
	// Parsing continues best-effort with a warning.
	ProtocolUnknown Protocol = "unknown"
)

// String returns the string representation of the protocol.
func (p Protocol) String() string {
	return string(p)
}

// ParseProtocol normalizes a declared protocol value. The second return value
// is false when the value is not one of the recognized protocols.
func ParseProtocol(s string) (Protocol, bool) {
	switch Protocol(normalizeProtocol(s)) {
	case ProtocolMCP:
		return ProtocolMCP, true
	case ProtocolA2A:
		return ProtocolA2A, true
	case ProtocolHybrid:
		return ProtocolHybrid, true
	}
	return ProtocolUnknown, false
}

// Encryption describes the declared encryption of a dataflow.
type Encryption string

const (
	EncryptionNone   Encryption = "none"
	EncryptionTLS    Encryption = "tls"
	EncryptionAES256 Encryption = "aes256"
)

// IsEncrypted returns true unless the dataflow declares no encryption at all.
// Unrecognized non-empty values are treated as encrypted; the detector only
// flags explicit "none" declarations.
func (e Encryption) IsEncrypted() bool {
	return e != EncryptionNone && e != ""
}

// Tool is a capability declared on an agent. Unsandboxed tools are a
// deployment-layer risk marker for the detector.
type Tool struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Sandboxed bool   `json:"sandboxed"`
}

// Agent is a single agent participating in the workflow.
type Agent struct {
	// ID uniquely identifies the agent within the workflow.
	ID string `json:"id"`

	// Type is a free-form agent classification (e.g. "llm", "orchestrator").
	Type string `json:"type,omitempty"`

	// PermissionLevel is the declared privilege of the agent
	// (e.g. "standard", "elevated", "admin").
	PermissionLevel string `json:"permission_level,omitempty"`

	// Protocol records which protocol section the agent was declared in.
	// Empty for agents from a flat `agents` list.
	Protocol Protocol `json:"protocol,omitempty"`

	// Tools lists the capabilities available to the agent.
	Tools []Tool `json:"tools,omitempty"`
}

// Step is a single unit of work in the workflow, executed by one agent.
type Step struct {
	// ID uniquely identifies the step within the workflow.
	ID string `json:"step_id"`

	// Agent references the executing agent by ID.
	Agent string `json:"agent"`

	// Action names the operation the step performs.
	Action string `json:"action"`

	// Params holds the declared step parameters.
	Params map[string]any `json:"params,omitempty"`

	// DependsOn lists step IDs that must complete before this step.
	DependsOn []string `json:"depends_on,omitempty"`
}

// DataFlow describes data moving between two workflow components.
// Source and Target reference agent or step IDs.
type DataFlow struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Encryption Encryption `json:"encryption,omitempty"`
}

// SecuritySpec is the optional workflow-level security block. The detector
// consults it for declared controls (e.g. a bridge-security control on
// hybrid workflows).
type SecuritySpec struct {
	// BridgeSecurity declares a security control on the MCP/A2A bridge.
	BridgeSecurity string `json:"bridge_security,omitempty"`

	// Controls lists additional declared security controls.
	Controls []string `json:"controls,omitempty"`
}

// HasBridgeControl reports whether a bridge-security control is declared,
// either via the dedicated field or a control named for the bridge.
func (s *SecuritySpec) HasBridgeControl() bool {
	if s == nil {
		return false
	}
	if s.BridgeSecurity != "" {
		return true
	}
	for _, c := range s.Controls {
		if containsFold(c, "bridge") {
			return true
		}
	}
	return false
}

// ParsedWorkflow is the immutable result of parsing a workflow definition.
// It is built once per assessment and never mutated afterwards; downstream
// components treat it as read-only.
type ParsedWorkflow struct {
	// Workflow header
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Protocol    Protocol       `json:"protocol"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// Agents indexed by ID. Insertion order is not significant.
	Agents map[string]*Agent `json:"agents"`

	// Steps in declaration order.
	Steps []*Step `json:"steps"`

	// DataFlows in declaration order.
	DataFlows []DataFlow `json:"dataflows,omitempty"`

	// Security is the optional workflow-level security block.
	Security *SecuritySpec `json:"security,omitempty"`

	// Graph is the dependency graph derived from step depends_on edges.
	Graph *DependencyGraph `json:"-"`

	// Warnings collects non-fatal issues found during parsing
	// (e.g. an unrecognized protocol value).
	Warnings []string `json:"warnings,omitempty"`

	// Source metadata for debugging
	SourceFile string    `json:"-"`
	ParsedAt   time.Time `json:"-"`
}

// GetStep retrieves a step by its ID. Returns nil if not found.
func (p *ParsedWorkflow) GetStep(id string) *Step {
	for _, s := range p.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// GetAgent retrieves an agent by its ID. Returns nil if not found.
func (p *ParsedWorkflow) GetAgent(id string) *Agent {
	if p.Agents == nil {
		return nil
	}
	return p.Agents[id]
}

// TotalNodes returns the workflow size used to normalize WEI:
// the number of agents plus the number of steps.
func (p *ParsedWorkflow) TotalNodes() int {
	return len(p.Agents) + len(p.Steps)
}
