package policy

import (
	"fmt"
	"strings"
)

// RiskTier is the coarse risk class of a user prompt.
type RiskTier string

const (
	TierHigh   RiskTier = "high"
	TierMedium RiskTier = "medium"
	TierLow    RiskTier = "low"
)

// PromptClass is the classification of a prompt with its working hints.
type PromptClass struct {
	Tier   RiskTier `json:"risk" yaml:"risk"`
	Budget string   `json:"budget" yaml:"budget"`
	Mode   string   `json:"mode" yaml:"mode"`
	Marker string   `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// ClassifyPrompt assigns a tier by lower-cased substring containment.
// HIGH markers win over LOW markers; no match is MEDIUM.
func ClassifyPrompt(prompt string) PromptClass {
	text := strings.ToLower(prompt)

	if marker, ok := containsAny(text, HighRiskMarkers); ok {
		return PromptClass{Tier: TierHigh, Budget: "deliberate", Mode: "verify-first", Marker: marker}
	}

	if marker, ok := containsAny(text, LowRiskMarkers); ok {
		return PromptClass{Tier: TierLow, Budget: "lean", Mode: "inspect-patch-verify", Marker: marker}
	}

	return PromptClass{Tier: TierMedium, Budget: "standard", Mode: "map-plan-patch-verify"}
}

// Context renders the preflight note shown to the agent.
func (c PromptClass) Context() string {
	head := fmt.Sprintf("Preflight: risk=%s, budget=%s, mode=%s.", c.Tier, c.Budget, c.Mode)

	switch c.Tier {
	case TierHigh:
		return head + " HIGH RISK detected. Name the proof plan and whether each tool call is necessary before acting."
	case TierLow:
		return head + " Lean workflow. Verify after patching."
	default:
		return head + " Before acting, name the proof plan and whether any tool call is actually necessary."
	}
}

func containsAny(text string, markers []string) (string, bool) {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return m, true
		}
	}

	return "", false
}
