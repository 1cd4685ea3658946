package risk

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zero-day-ai/maestro/internal/threat"
)

func propertyConfig() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	parameters.Rng.Seed(1234)
	return gopter.NewProperties(parameters)
}

var allVulnTypes = []threat.VulnType{
	threat.TypePromptInjection, threat.TypeModelPoisoning, threat.TypeDataLeakage,
	threat.TypeDataExposure, threat.TypePrivacyViolation, threat.TypePlaintextCredentials,
	threat.TypeToolPoisoning, threat.TypeAgentImpersonation, threat.TypeProtocolBridge,
	threat.TypeDangerousAction, threat.TypeUnsandboxedTool, threat.TypePrivilegeEscalation,
	threat.TypeMonitoringGap, threat.TypeComplianceViolation, threat.TypeSupplyChain,
}

func genVulnSet() gopter.Gen {
	return gen.SliceOfN(4, gen.IntRange(0, len(allVulnTypes)-1)).Map(func(indices []int) []threat.Vulnerability {
		matrix := threat.NewMatrix()
		vulns := make([]threat.Vulnerability, 0, len(indices))
		for _, idx := range indices {
			vulns = append(vulns, matrix.NewVulnerability(allVulnTypes[idx]))
		}
		return vulns
	})
}

// TestScoreProperties tests score invariants over arbitrary vulnerability sets
func TestScoreProperties(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.NSimulations = 400
	calc := NewCalculator(cfg, nil)

	properties := propertyConfig()

	properties.Property("scores are non-negative and intervals ordered", prop.ForAll(
		func(vulns []threat.Vulnerability, agents, steps int) bool {
			pw := testWorkflow(agents, steps)
			result, err := calc.CalculateRisk(pw, vulns)
			if err != nil {
				return false
			}

			ordered := func(q UncertaintyQuantity) bool {
				return q.Mean >= 0 &&
					q.ConfidenceInterval.Lower <= q.ConfidenceInterval.Upper &&
					q.Percentiles.P5 <= q.Percentiles.P50 &&
					q.Percentiles.P50 <= q.Percentiles.P95
			}

			return result.PointWEI >= 0 && result.PointRPS >= 0 &&
				ordered(result.TotalWEI) && ordered(result.TotalRPS) && ordered(result.CombinedRisk)
		},
		genVulnSet(),
		gen.IntRange(1, 6),
		gen.IntRange(1, 6),
	))

	properties.Property("adding a vulnerability never lowers the point scores", prop.ForAll(
		func(vulns []threat.Vulnerability, extraIdx int) bool {
			pw := testWorkflow(2, 3)

			base, err := calc.CalculateRisk(pw, vulns)
			if err != nil {
				return false
			}

			extended := append(append([]threat.Vulnerability{}, vulns...),
				threat.NewMatrix().NewVulnerability(allVulnTypes[extraIdx]))
			grown, err := calc.CalculateRisk(pw, extended)
			if err != nil {
				return false
			}

			return grown.PointWEI >= base.PointWEI && grown.PointRPS >= base.PointRPS
		},
		genVulnSet(),
		gen.IntRange(0, len(allVulnTypes)-1),
	))

	properties.Property("risk level is monotone in the combined score", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return levelRank(calc.band(lo)) <= levelRank(calc.band(hi))
		},
		gen.Float64Range(0, 2),
		gen.Float64Range(0, 2),
	))

	properties.TestingRun(t)
}

func levelRank(l Level) int {
	switch l {
	case LevelCritical:
		return 3
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}
