package risk

import (
	"github.com/zero-day-ai/maestro/internal/montecarlo"
	"github.com/zero-day-ai/maestro/internal/threat"
)

// Level is the banded overall risk classification.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// String returns the string representation of the risk level.
func (l Level) String() string {
	return string(l)
}

// UncertaintyQuantity is the sample-free summary of an empirical score
// distribution: mean, spread, percentile confidence interval, and the five
// standard percentiles.
type UncertaintyQuantity struct {
	Mean               float64                `json:"mean"`
	StdDev             float64                `json:"std_dev"`
	ConfidenceInterval montecarlo.Interval    `json:"confidence_interval"`
	Percentiles        montecarlo.Percentiles `json:"percentiles"`
}

// quantityFrom summarizes a Monte Carlo result, dropping the transient
// sample array.
func quantityFrom(r *montecarlo.Result) UncertaintyQuantity {
	return UncertaintyQuantity{
		Mean:               r.Mean,
		StdDev:             r.StdDev,
		ConfidenceInterval: r.ConfidenceInterval,
		Percentiles:        r.Percentiles,
	}
}

// pointMass builds a degenerate quantity for deterministic values.
func pointMass(v float64) UncertaintyQuantity {
	return UncertaintyQuantity{
		Mean:               v,
		StdDev:             0,
		ConfidenceInterval: montecarlo.Interval{Lower: v, Upper: v},
		Percentiles:        montecarlo.Percentiles{P5: v, P25: v, P50: v, P75: v, P95: v},
	}
}

// AssessmentResult is the complete quantified risk picture for one
// workflow: point and uncertainty-banded WEI/RPS, the per-layer
// vulnerability grouping, the banded risk level, and layer-informed
// mitigation recommendations.
type AssessmentResult struct {
	WorkflowName string `json:"workflow_name"`

	// Point estimates from the Core Threat Matrix values.
	PointWEI float64 `json:"point_wei"`
	PointRPS float64 `json:"point_rps"`

	// Empirical distributions from joint Monte Carlo propagation.
	TotalWEI UncertaintyQuantity `json:"total_wei"`
	TotalRPS UncertaintyQuantity `json:"total_rps"`

	// CombinedRisk is the blended WEI/RPS score distribution that the
	// risk level is banded from.
	CombinedRisk UncertaintyQuantity `json:"combined_risk"`

	// VulnerabilitiesByLayer groups the detected vulnerabilities by their
	// MAESTRO layer. Layers with no findings are omitted.
	VulnerabilitiesByLayer map[threat.Layer][]threat.Vulnerability `json:"vulnerabilities_by_layer"`

	RiskLevel Level `json:"risk_level"`

	Recommendations []string `json:"recommendations"`
}

// VulnerabilityCount returns the total number of detected vulnerabilities.
func (r *AssessmentResult) VulnerabilityCount() int {
	n := 0
	for _, vulns := range r.VulnerabilitiesByLayer {
		n += len(vulns)
	}
	return n
}

// AllVulnerabilities flattens the layer grouping in ascending layer order.
func (r *AssessmentResult) AllVulnerabilities() []threat.Vulnerability {
	var all []threat.Vulnerability
	for _, layer := range threat.AllLayers {
		all = append(all, r.VulnerabilitiesByLayer[layer]...)
	}
	return all
}
