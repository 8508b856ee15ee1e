package hook

import "github.com/cockroachdb/errors"

// ErrMalformedOutput is returned when an output document violates the output contract.
var ErrMalformedOutput = errors.New("malformed hook output")

// Output is the JSON document a hook writes to stdout. A nil *Output means
// the hook emits nothing, which the host agent reads as an implicit allow.
type Output struct {
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
	SystemMessage      string          `json:"systemMessage,omitempty"`
}

// SpecificOutput carries the permission decision and context for the agent.
type SpecificOutput struct {
	HookEventName            Event              `json:"hookEventName,omitempty"`
	PermissionDecision       PermissionDecision `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string             `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string             `json:"additionalContext,omitempty"`
}

// Validate checks that the output carries a hookSpecificOutput block and, if
// present, a recognised permission decision.
func (o *Output) Validate() error {
	if o == nil || o.HookSpecificOutput == nil {
		return errors.Wrap(ErrMalformedOutput, "missing hookSpecificOutput")
	}

	decision := o.HookSpecificOutput.PermissionDecision
	if decision != "" && !decision.Valid() {
		return errors.Wrapf(ErrMalformedOutput, "unrecognized permissionDecision %q", string(decision))
	}

	return nil
}

// Decision returns the permission decision, or "" when the output only carries context.
func (o *Output) Decision() PermissionDecision {
	if o == nil || o.HookSpecificOutput == nil {
		return ""
	}

	return o.HookSpecificOutput.PermissionDecision
}

// Context returns the additional context, or "" when absent.
func (o *Output) Context() string {
	if o == nil || o.HookSpecificOutput == nil {
		return ""
	}

	return o.HookSpecificOutput.AdditionalContext
}
