// Package policy is the local fallback classifier used when the daemon has no opinion.
package policy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/metaygn/aletheia-hooks/internal/hookresponse"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

// DefaultMCPPrefix marks tools served by external integrations.
const DefaultMCPPrefix = "mcp__"

// Category names the rule family that produced a verdict.
type Category string

const (
	CategoryMCP         Category = "mcp"
	CategoryDestructive Category = "destructive"
	CategoryHighRisk    Category = "high-risk"
	CategorySensitive   Category = "sensitive-path"
)

// Verdict is a tool-use decision with the rule that produced it.
type Verdict struct {
	Decision hook.PermissionDecision `json:"decision" yaml:"decision"`
	Reason   string                  `json:"reason" yaml:"reason"`
	Category Category                `json:"category" yaml:"category"`
	Pattern  string                  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Rule describes one entry of the ordered rule table.
type Rule struct {
	Category Category
	Decision hook.PermissionDecision
	Pattern  string
}

// Engine classifies tool calls, prompts and commands. It holds only
// read-only tables and is safe for concurrent use.
type Engine struct {
	mcpPrefix    string
	destructive  []Pattern
	highRisk     []Pattern
	verification []string
	sensitive    *SensitiveGate
}

// Option configures an Engine.
type Option func(*Engine)

// WithMCPPrefix overrides the external-integration tool prefix.
func WithMCPPrefix(prefix string) Option {
	return func(e *Engine) {
		if prefix != "" {
			e.mcpPrefix = prefix
		}
	}
}

// WithExtraDestructive appends deny patterns after the built-ins.
func WithExtraDestructive(patterns ...Pattern) Option {
	return func(e *Engine) {
		e.destructive = append(e.destructive, patterns...)
	}
}

// WithExtraHighRisk appends ask patterns after the built-ins.
func WithExtraHighRisk(patterns ...Pattern) Option {
	return func(e *Engine) {
		e.highRisk = append(e.highRisk, patterns...)
	}
}

// WithVerificationKeywords appends verification keywords.
func WithVerificationKeywords(keywords ...string) Option {
	return func(e *Engine) {
		for _, k := range keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				e.verification = append(e.verification, k)
			}
		}
	}
}

// WithSensitiveGate enables the sensitive path check. A nil gate disables it.
func WithSensitiveGate(gate *SensitiveGate) Option {
	return func(e *Engine) {
		e.sensitive = gate
	}
}

// New creates an Engine with the built-in tables. The sensitive path gate is
// off unless WithSensitiveGate is given.
func New(opts ...Option) *Engine {
	e := &Engine{
		mcpPrefix:    DefaultMCPPrefix,
		destructive:  append([]Pattern(nil), DestructivePatterns...),
		highRisk:     append([]Pattern(nil), HighRiskPatterns...),
		verification: append([]string(nil), VerificationKeywords...),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ClassifyToolUse applies the ordered rules and returns the first match, or
// nil when no rule has an opinion.
func (e *Engine) ClassifyToolUse(toolName string, input *hook.ToolInput) *Verdict {
	if strings.HasPrefix(toolName, e.mcpPrefix) {
		return &Verdict{
			Decision: hook.DecisionAsk,
			Reason:   fmt.Sprintf("MCP tool %q requires user confirmation", toolName),
			Category: CategoryMCP,
		}
	}

	serialized := input.Serialize()

	for _, p := range e.destructive {
		if p.Match(serialized) {
			return &Verdict{
				Decision: hook.DecisionDeny,
				Reason:   "Blocked destructive pattern: " + p.Source,
				Category: CategoryDestructive,
				Pattern:  p.Source,
			}
		}
	}

	for _, p := range e.highRisk {
		if p.Match(serialized) {
			return &Verdict{
				Decision: hook.DecisionAsk,
				Reason:   "High-risk command detected: " + p.Source,
				Category: CategoryHighRisk,
				Pattern:  p.Source,
			}
		}
	}

	if e.sensitive != nil {
		if path, ok := e.sensitive.Match(input); ok {
			return &Verdict{
				Decision: hook.DecisionAsk,
				Reason:   "Sensitive path detected: " + path,
				Category: CategorySensitive,
				Pattern:  path,
			}
		}
	}

	return nil
}

// EvaluateToolUse returns the fallback output for a PreToolUse input.
func (e *Engine) EvaluateToolUse(in *hook.Input) *hook.Output {
	verdict := e.ClassifyToolUse(in.Tool(), in.ToolInput)
	if verdict == nil {
		return nil
	}

	return hookresponse.Decision(hook.EventPreToolUse, verdict.Decision, verdict.Reason)
}

// Rules lists the tool-use rule table in evaluation order.
func (e *Engine) Rules() []Rule {
	rules := []Rule{{Category: CategoryMCP, Decision: hook.DecisionAsk, Pattern: e.mcpPrefix + "*"}}

	for _, p := range e.destructive {
		rules = append(rules, Rule{Category: CategoryDestructive, Decision: hook.DecisionDeny, Pattern: p.Source})
	}

	for _, p := range e.highRisk {
		rules = append(rules, Rule{Category: CategoryHighRisk, Decision: hook.DecisionAsk, Pattern: p.Source})
	}

	if e.sensitive != nil {
		for _, glob := range e.sensitive.Patterns() {
			rules = append(rules, Rule{Category: CategorySensitive, Decision: hook.DecisionAsk, Pattern: glob})
		}
	}

	return rules
}

// VerificationKeywords returns the built-in and configured verification keywords.
func (e *Engine) VerificationKeywords() []string {
	return slices.Clone(e.verification)
}
