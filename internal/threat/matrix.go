package threat

// MatrixEntry holds the baseline scoring parameters for one vulnerability
// type: attack complexity, business impact, technical severity, protocol
// coupling, and the owning MAESTRO layer.
type MatrixEntry struct {
	Layer            Layer   `json:"layer"`
	AttackComplexity float64 `json:"ac"`
	Impact           float64 `json:"impact"`
	Severity         float64 `json:"vs"`
	ProtocolCoupling float64 `json:"pc"`
}

// Matrix is the Core Threat Matrix: a static lookup table mapping
// vulnerability type to baseline parameter values. It is read-only after
// construction; inject one per assessment rather than sharing a mutable
// global.
type Matrix struct {
	entries      map[VulnType]MatrixEntry
	defaultEntry MatrixEntry
}

// NewMatrix returns the default Core Threat Matrix. Values follow the
// MAESTRO calibration: AC in [1,3], Impact in [1,5], VS in [1,10],
// PC in [1,3].
func NewMatrix() *Matrix {
	return &Matrix{
		entries: map[VulnType]MatrixEntry{
			TypePromptInjection:      {LayerFoundationModels, 1, 4, 8, 2},
			TypeModelPoisoning:       {LayerFoundationModels, 3, 5, 9, 2},
			TypeDataLeakage:          {LayerDataOperations, 2, 4, 7, 2},
			TypeDataExposure:         {LayerDataOperations, 1, 4, 7, 2},
			TypePrivacyViolation:     {LayerDataOperations, 2, 4, 6, 2},
			TypePlaintextCredentials: {LayerCompliance, 1, 4, 7, 2},
			TypeToolPoisoning:        {LayerAgentFrameworks, 2, 4, 7, 2},
			TypeAgentImpersonation:   {LayerAgentFrameworks, 2, 3, 5, 3},
			TypeProtocolBridge:       {LayerAgentFrameworks, 2, 4, 6, 3},
			TypeDangerousAction:      {LayerDeployment, 1, 5, 9, 3},
			TypeUnsandboxedTool:      {LayerDeployment, 2, 4, 7, 2},
			TypePrivilegeEscalation:  {LayerDeployment, 2, 5, 8, 2},
			TypeMonitoringGap:        {LayerObservability, 2, 2, 3, 1},
			TypeComplianceViolation:  {LayerCompliance, 2, 4, 6, 2},
			TypeSupplyChain:          {LayerEcosystem, 2, 4, 6, 2},
		},
		defaultEntry: MatrixEntry{LayerEcosystem, 2, 3, 5, 2},
	}
}

// Lookup returns the baseline entry for a vulnerability type. Unknown types
// fall back to the conservative default entry (L7 Ecosystem).
func (m *Matrix) Lookup(t VulnType) MatrixEntry {
	if entry, ok := m.entries[t]; ok {
		return entry
	}
	return m.defaultEntry
}

// LayerOf returns the MAESTRO layer owning a vulnerability type.
func (m *Matrix) LayerOf(t VulnType) Layer {
	return m.Lookup(t).Layer
}

// NewVulnerability prices a new vulnerability of the given type from the
// matrix, clamping all parameters into their declared ranges.
// ProtocolCoupling is left at the matrix value; rules that want topology
// derivation reset it to zero afterwards.
func (m *Matrix) NewVulnerability(t VulnType) Vulnerability {
	entry := m.Lookup(t)
	v := Vulnerability{
		Type:             t,
		Layer:            entry.Layer,
		AttackComplexity: entry.AttackComplexity,
		Impact:           entry.Impact,
		Severity:         entry.Severity,
		ProtocolCoupling: entry.ProtocolCoupling,
	}
	v.Clamp()
	return v
}
