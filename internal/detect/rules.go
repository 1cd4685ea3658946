package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zero-day-ai/maestro/internal/threat"
	"github.com/zero-day-ai/maestro/internal/workflow"
)

// StepRule is a Pass-1 static detection rule evaluated against a single
// step. Rules are registered in a fixed order and evaluated in that order,
// so detection output is independent of map iteration and fully
// deterministic. The rule's vulnerability type keys the Core Threat Matrix
// lookup that prices the resulting vulnerability.
type StepRule struct {
	// ID names the rule in vulnerability records.
	ID string

	// Type is the vulnerability class the rule detects.
	Type threat.VulnType

	// Match returns a one-sentence description when the rule fires.
	Match func(step *workflow.Step, paramText string) (string, bool)
}

var (
	credentialPattern = regexp.MustCompile(`(password|passwd|secret|api[_-]?key|access[_-]?token|private[_-]?key|credential)`)
	privacyPattern    = regexp.MustCompile(`(\bpii\b|\bssn\b|social_security|credit_card|card_number|personal|medical|patient|diagnosis)`)
	dangerousPattern  = regexp.MustCompile(`(^|[_\s])(shell|exec|eval|system|subprocess|spawn)([_\s]|$)`)
	externalPattern   = regexp.MustCompile(`(external|third[_-]?party|webhook|public[_-]?api)`)
	delegationPattern = regexp.MustCompile(`(oauth2?|a2a_|delegat|impersonat)`)
)

// stepRules is the fixed, ordered Pass-1 rule registry for step scanning.
// Order is documented and stable: credential exposure first, then execution
// risks, then model and data risks, then inter-agent risks.
func stepRules() []StepRule {
	return []StepRule{
		{
			ID:   "step-plaintext-credentials",
			Type: threat.TypePlaintextCredentials,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				if credentialPattern.MatchString(paramText) {
					return "step parameters contain plaintext-credential-like values", true
				}
				return "", false
			},
		},
		{
			ID:   "step-dangerous-action",
			Type: threat.TypeDangerousAction,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				action := strings.ToLower(step.Action)
				if dangerousPattern.MatchString(action) {
					return fmt.Sprintf("action %q performs unconstrained execution", step.Action), true
				}
				return "", false
			},
		},
		{
			ID:   "step-prompt-injection",
			Type: threat.TypePromptInjection,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				if strings.Contains(paramText, "prompt") {
					return "step feeds externally influenced text into a model prompt", true
				}
				return "", false
			},
		},
		{
			ID:   "step-model-poisoning",
			Type: threat.TypeModelPoisoning,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				action := strings.ToLower(step.Action)
				if strings.Contains(action, "inference") || strings.Contains(action, "train") ||
					strings.Contains(paramText, "model_weights") || strings.Contains(paramText, "fine_tune") {
					return "model processing may be vulnerable to poisoning", true
				}
				return "", false
			},
		},
		{
			ID:   "step-privacy-violation",
			Type: threat.TypePrivacyViolation,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				if privacyPattern.MatchString(paramText) {
					return "step processes PII or similarly sensitive data", true
				}
				return "", false
			},
		},
		{
			ID:   "step-tool-poisoning",
			Type: threat.TypeToolPoisoning,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				if externalPattern.MatchString(paramText) {
					return "step invokes external tooling that could be poisoned", true
				}
				return "", false
			},
		},
		{
			ID:   "step-agent-impersonation",
			Type: threat.TypeAgentImpersonation,
			Match: func(step *workflow.Step, paramText string) (string, bool) {
				if delegationPattern.MatchString(paramText) {
					return "delegated credentials allow agent impersonation", true
				}
				return "", false
			},
		},
	}
}

// privilegedLevels are the agent permission levels treated as
// high-privilege markers.
var privilegedLevels = map[string]bool{
	"admin":         true,
	"administrator": true,
	"root":          true,
	"elevated":      true,
	"privileged":    true,
}

// flattenParams renders a params map into a lowercased "key=value" text
// suitable for marker matching. Nested maps and lists are walked
// recursively; key order does not affect matching because rules only test
// substring presence.
func flattenParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	flattenValue(&b, params)
	return strings.ToLower(b.String())
}

func flattenValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			b.WriteString(k)
			b.WriteByte('=')
			flattenValue(b, inner)
			b.WriteByte(' ')
		}
	case []any:
		for _, inner := range val {
			flattenValue(b, inner)
			b.WriteByte(' ')
		}
	default:
		fmt.Fprintf(b, "%v", val)
	}
}
