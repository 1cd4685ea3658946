// Package workflow provides the data model and YAML parser for declaratively
// described multi-agent workflows (MCP/A2A style).
//
// The parser converts raw YAML into an immutable ParsedWorkflow, validating
// structure (required fields), references (no dangling IDs), and the step
// dependency graph (acyclic). Errors carry source line numbers where the
// YAML node positions allow it.
package workflow

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlDocument is the root document shape: a single `workflow` key.
type yamlDocument struct {
	Workflow *yamlWorkflowData `yaml:"workflow"`
}

// yamlWorkflowData represents the complete workflow YAML structure.
type yamlWorkflowData struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Version     string            `yaml:"version"`
	Protocol    string            `yaml:"protocol"`
	Metadata    map[string]any    `yaml:"metadata,omitempty"`
	Agents      []yamlAgentData   `yaml:"agents,omitempty"`
	MCPAgents   []yamlAgentData   `yaml:"mcp_agents,omitempty"`
	A2AAgents   []yamlAgentData   `yaml:"a2a_agents,omitempty"`
	Steps       []yamlStepData    `yaml:"steps"`
	DataFlows   []yamlFlowData    `yaml:"dataflows,omitempty"`
	Security    *yamlSecurityData `yaml:"security,omitempty"`
}

// yamlAgentData represents a single agent declaration.
type yamlAgentData struct {
	ID              string         `yaml:"id"`
	Type            string         `yaml:"type,omitempty"`
	PermissionLevel string         `yaml:"permission_level,omitempty"`
	Tools           []yamlToolData `yaml:"tools,omitempty"`
}

// yamlToolData represents a tool declaration on an agent.
type yamlToolData struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version,omitempty"`
	Sandboxed *bool  `yaml:"sandboxed,omitempty"`
}

// yamlStepData represents a single step declaration.
type yamlStepData struct {
	StepID    string         `yaml:"step_id"`
	Agent     string         `yaml:"agent"`
	Action    string         `yaml:"action"`
	Params    map[string]any `yaml:"params,omitempty"`
	DependsOn []string       `yaml:"depends_on,omitempty"`
}

// yamlFlowData represents a dataflow declaration.
type yamlFlowData struct {
	Source     string `yaml:"source"`
	Target     string `yaml:"target"`
	Encryption string `yaml:"encryption,omitempty"`
}

// yamlSecurityData represents the optional security block.
type yamlSecurityData struct {
	BridgeSecurity string   `yaml:"bridge_security,omitempty"`
	Controls       []string `yaml:"controls,omitempty"`
}

// ParseFile parses a workflow definition from a YAML file on disk.
func ParseFile(path string) (*ParsedWorkflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{
			Field: "workflow",
			Err:   fmt.Errorf("failed to read workflow file: %w", err),
		}
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, err
	}

	parsed.SourceFile = path
	return parsed, nil
}

// Parse parses a workflow definition from raw YAML bytes.
//
// The parser performs comprehensive validation:
//   - Root `workflow` key and required fields (SchemaError)
//   - Unique agent and step IDs (SchemaError)
//   - depends_on, agent, and dataflow references resolve (ValidationError)
//   - The dependency graph is acyclic (CyclicDependencyError)
//
// An unrecognized `protocol` value is non-fatal: the workflow is parsed with
// Protocol set to "unknown" and a warning recorded on the result.
func Parse(data []byte) (*ParsedWorkflow, error) {
	// First pass: unmarshal into a yaml.Node to preserve position information.
	var rootNode yaml.Node
	if err := yaml.Unmarshal(data, &rootNode); err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("invalid YAML syntax: %w", err)}
	}

	// Second pass: unmarshal into the typed structure.
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("failed to parse workflow structure: %w", err)}
	}

	if doc.Workflow == nil {
		return nil, &SchemaError{Field: "workflow"}
	}
	wf := doc.Workflow

	if wf.Name == "" {
		return nil, &SchemaError{
			Field: "workflow.name",
			Line:  workflowFieldLine(&rootNode, "name"),
		}
	}
	if len(wf.Steps) == 0 {
		return nil, &SchemaError{
			Field: "workflow.steps",
			Line:  workflowFieldLine(&rootNode, "steps"),
		}
	}

	parsed := &ParsedWorkflow{
		Name:        wf.Name,
		Description: wf.Description,
		Version:     wf.Version,
		Metadata:    wf.Metadata,
		Agents:      make(map[string]*Agent),
		Steps:       make([]*Step, 0, len(wf.Steps)),
		ParsedAt:    time.Now(),
	}

	// Protocol: unrecognized values degrade to "unknown" with a warning.
	if wf.Protocol == "" {
		parsed.Protocol = ProtocolUnknown
	} else if proto, ok := ParseProtocol(wf.Protocol); ok {
		parsed.Protocol = proto
	} else {
		parsed.Protocol = ProtocolUnknown
		parsed.Warnings = append(parsed.Warnings,
			fmt.Sprintf("unrecognized protocol %q: continuing with best-effort layer mapping", wf.Protocol))
	}

	// Agents: a flat list, or protocol-specific lists for hybrid workflows.
	if err := collectAgents(parsed, wf.Agents, ""); err != nil {
		return nil, err
	}
	if err := collectAgents(parsed, wf.MCPAgents, ProtocolMCP); err != nil {
		return nil, err
	}
	if err := collectAgents(parsed, wf.A2AAgents, ProtocolA2A); err != nil {
		return nil, err
	}
	if len(parsed.Agents) == 0 {
		return nil, &SchemaError{
			Field: "workflow.agents",
			Line:  workflowFieldLine(&rootNode, "agents"),
		}
	}

	// Steps, preserving declaration order.
	stepIDs := make(map[string]bool, len(wf.Steps))
	for i, stepData := range wf.Steps {
		line := workflowSequenceLine(&rootNode, "steps", i)
		if stepData.StepID == "" {
			return nil, &SchemaError{Field: "step_id", Line: line}
		}
		if stepIDs[stepData.StepID] {
			return nil, &SchemaError{
				Field: "step_id",
				Line:  line,
				Err:   fmt.Errorf("duplicate step ID %q", stepData.StepID),
			}
		}
		stepIDs[stepData.StepID] = true

		parsed.Steps = append(parsed.Steps, &Step{
			ID:        stepData.StepID,
			Agent:     stepData.Agent,
			Action:    stepData.Action,
			Params:    stepData.Params,
			DependsOn: stepData.DependsOn,
		})
	}

	// Reference validation: agents, dependencies, dataflow endpoints.
	for i, step := range parsed.Steps {
		line := workflowSequenceLine(&rootNode, "steps", i)

		if step.Agent != "" && parsed.Agents[step.Agent] == nil {
			return nil, &ValidationError{
				StepID: step.ID,
				Ref:    step.Agent,
				Field:  "agent",
				Line:   line,
			}
		}

		for _, depID := range step.DependsOn {
			if !stepIDs[depID] {
				return nil, &ValidationError{
					StepID: step.ID,
					Ref:    depID,
					Field:  "depends_on",
					Line:   line,
				}
			}
		}
	}

	for i, flowData := range wf.DataFlows {
		line := workflowSequenceLine(&rootNode, "dataflows", i)

		for _, endpoint := range []struct{ field, ref string }{
			{"source", flowData.Source},
			{"target", flowData.Target},
		} {
			if endpoint.ref == "" || (!stepIDs[endpoint.ref] && parsed.Agents[endpoint.ref] == nil) {
				return nil, &ValidationError{
					Ref:   endpoint.ref,
					Field: "dataflows." + endpoint.field,
					Line:  line,
				}
			}
		}

		parsed.DataFlows = append(parsed.DataFlows, DataFlow{
			Source:     flowData.Source,
			Target:     flowData.Target,
			Encryption: Encryption(strings.ToLower(strings.TrimSpace(flowData.Encryption))),
		})
	}

	if wf.Security != nil {
		parsed.Security = &SecuritySpec{
			BridgeSecurity: wf.Security.BridgeSecurity,
			Controls:       wf.Security.Controls,
		}
	}

	// Dependency graph and acyclicity.
	parsed.Graph = NewDependencyGraph(parsed.Steps)
	if cycle := parsed.Graph.DetectCycles(); len(cycle) > 0 {
		return nil, &CyclicDependencyError{Cycle: cycle}
	}

	return parsed, nil
}

// collectAgents adds a list of agent declarations to the workflow, tagging
// them with the protocol section they were declared in.
func collectAgents(parsed *ParsedWorkflow, agents []yamlAgentData, proto Protocol) error {
	for _, agentData := range agents {
		if agentData.ID == "" {
			return &SchemaError{Field: "agents.id"}
		}
		if parsed.Agents[agentData.ID] != nil {
			return &SchemaError{
				Field: "agents.id",
				Err:   fmt.Errorf("duplicate agent ID %q", agentData.ID),
			}
		}

		agent := &Agent{
			ID:              agentData.ID,
			Type:            agentData.Type,
			PermissionLevel: agentData.PermissionLevel,
			Protocol:        proto,
		}
		for _, toolData := range agentData.Tools {
			// Tools default to sandboxed; only an explicit false marks the
			// tool as unsandboxed.
			sandboxed := true
			if toolData.Sandboxed != nil {
				sandboxed = *toolData.Sandboxed
			}
			agent.Tools = append(agent.Tools, Tool{
				Name:      toolData.Name,
				Version:   toolData.Version,
				Sandboxed: sandboxed,
			})
		}

		parsed.Agents[agent.ID] = agent
	}
	return nil
}

// normalizeProtocol canonicalizes a declared protocol value for comparison.
func normalizeProtocol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// workflowFieldLine finds the line number of a field inside the `workflow`
// mapping. Returns 0 when the position cannot be determined.
func workflowFieldLine(root *yaml.Node, fieldName string) int {
	mapping := workflowMapping(root)
	if mapping == nil {
		return 0
	}
	return findFieldInMapping(mapping, fieldName)
}

// workflowSequenceLine finds the line number of element index inside a
// sequence field of the `workflow` mapping (e.g. steps, dataflows).
func workflowSequenceLine(root *yaml.Node, fieldName string, index int) int {
	mapping := workflowMapping(root)
	if mapping == nil {
		return 0
	}

	for i := 0; i < len(mapping.Content)-1; i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]
		if key.Value == fieldName && value.Kind == yaml.SequenceNode {
			if index < len(value.Content) {
				return value.Content[index].Line
			}
		}
	}

	return 0
}

// workflowMapping returns the mapping node under the root `workflow` key.
func workflowMapping(root *yaml.Node) *yaml.Node {
	if root == nil || root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(doc.Content)-1; i += 2 {
		if doc.Content[i].Value == "workflow" && doc.Content[i+1].Kind == yaml.MappingNode {
			return doc.Content[i+1]
		}
	}

	return nil
}

// findFieldInMapping searches for a field in a YAML mapping node.
func findFieldInMapping(node *yaml.Node, fieldName string) int {
	if node == nil || node.Kind != yaml.MappingNode {
		return 0
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == fieldName {
			return node.Content[i].Line
		}
	}

	return 0
}
