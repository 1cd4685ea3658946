package threat

import (
	"github.com/zero-day-ai/maestro/internal/types"
)

// VulnType is the tag identifying a class of vulnerability. Each type maps
// to exactly one MAESTRO layer via the Core Threat Matrix.
type VulnType string

const (
	TypePromptInjection      VulnType = "prompt_injection"
	TypeModelPoisoning       VulnType = "model_poisoning"
	TypeDataLeakage          VulnType = "data_leakage"
	TypeDataExposure         VulnType = "data_exposure"
	TypePrivacyViolation     VulnType = "privacy_violation"
	TypePlaintextCredentials VulnType = "plaintext_credentials"
	TypeToolPoisoning        VulnType = "tool_poisoning"
	TypeAgentImpersonation   VulnType = "agent_impersonation"
	TypeProtocolBridge       VulnType = "protocol_bridge"
	TypeDangerousAction      VulnType = "dangerous_action"
	TypeUnsandboxedTool      VulnType = "unsandboxed_tool"
	TypePrivilegeEscalation  VulnType = "privilege_escalation"
	TypeMonitoringGap        VulnType = "monitoring_gap"
	TypeComplianceViolation  VulnType = "compliance_violation"
	TypeSupplyChain          VulnType = "supply_chain"
	TypeUnknown              VulnType = "unknown"
)

// String returns the string representation of the vulnerability type.
func (t VulnType) String() string {
	return string(t)
}

// Severity bands for reporting, derived from the 1-10 severity score.
type SeverityBand string

const (
	BandInfo     SeverityBand = "info"
	BandLow      SeverityBand = "low"
	BandMedium   SeverityBand = "medium"
	BandHigh     SeverityBand = "high"
	BandCritical SeverityBand = "critical"
)

// Parameter ranges for vulnerability scoring values. Out-of-range inputs
// are clamped to these bounds, never dropped.
const (
	MinAttackComplexity = 1.0
	MaxAttackComplexity = 3.0
	MinImpact           = 1.0
	MaxImpact           = 5.0
	MinSeverity         = 1.0
	MaxSeverity         = 10.0
	MinCoupling         = 1.0
	MaxCoupling         = 3.0
)

// Vulnerability is a single detected weakness, tagged with its MAESTRO layer
// and the baseline scoring parameters priced from the Core Threat Matrix.
// Vulnerability lists are generated once by the detector and are read-only
// inputs to the risk calculator.
type Vulnerability struct {
	// ID uniquely identifies this vulnerability instance.
	ID types.ID `json:"id"`

	// Type is the vulnerability class tag.
	Type VulnType `json:"type"`

	// Layer is the originating MAESTRO layer (1..7).
	Layer Layer `json:"maestro_layer"`

	// AttackComplexity in [1,3]: how hard the weakness is to exploit.
	AttackComplexity float64 `json:"attack_complexity"`

	// Impact in [1,5]: business impact when exploited.
	Impact float64 `json:"impact"`

	// Severity in [1,10]: technical severity of the weakness.
	Severity float64 `json:"vulnerability_severity"`

	// ProtocolCoupling in [1,3]: how many components connect to the
	// vulnerable one. Zero means "derive from topology" -- the risk
	// calculator substitutes a degree-based estimate.
	ProtocolCoupling float64 `json:"protocol_coupling,omitempty"`

	// StepID references the originating step, empty for workflow-level hits.
	StepID string `json:"step_id,omitempty"`

	// AgentID references the originating agent, when attributable.
	AgentID string `json:"agent_id,omitempty"`

	// RuleID names the detection rule that produced the vulnerability.
	RuleID string `json:"rule_id,omitempty"`

	// Description explains the weakness in one sentence.
	Description string `json:"description"`
}

// Location identifies where in the workflow the vulnerability originates.
// Workflow-level vulnerabilities report "workflow".
func (v *Vulnerability) Location() string {
	if v.StepID != "" {
		return v.StepID
	}
	if v.AgentID != "" {
		return v.AgentID
	}
	return "workflow"
}

// Band maps the 1-10 severity score onto a reporting band.
func (v *Vulnerability) Band() SeverityBand {
	switch {
	case v.Severity >= 9:
		return BandCritical
	case v.Severity >= 7:
		return BandHigh
	case v.Severity >= 4:
		return BandMedium
	case v.Severity >= 2:
		return BandLow
	default:
		return BandInfo
	}
}

// Clamp forces all scoring parameters into their declared ranges.
// A zero ProtocolCoupling is preserved as the "derive from topology" marker.
func (v *Vulnerability) Clamp() {
	v.AttackComplexity = clamp(v.AttackComplexity, MinAttackComplexity, MaxAttackComplexity)
	v.Impact = clamp(v.Impact, MinImpact, MaxImpact)
	v.Severity = clamp(v.Severity, MinSeverity, MaxSeverity)
	if v.ProtocolCoupling != 0 {
		v.ProtocolCoupling = clamp(v.ProtocolCoupling, MinCoupling, MaxCoupling)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
