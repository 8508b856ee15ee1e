package hookresponse

import (
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

// Decision builds an output carrying a permission decision.
func Decision(
	event hook.Event,
	decision hook.PermissionDecision,
	reason string,
) *hook.Output {
	return &hook.Output{
		HookSpecificOutput: &hook.SpecificOutput{
			HookEventName:            event,
			PermissionDecision:       decision,
			PermissionDecisionReason: reason,
		},
	}
}

// Context builds an informational output. Returns nil for empty text.
func Context(event hook.Event, text string) *hook.Output {
	if text == "" {
		return nil
	}

	return &hook.Output{
		HookSpecificOutput: &hook.SpecificOutput{
			HookEventName:     event,
			AdditionalContext: text,
		},
	}
}
