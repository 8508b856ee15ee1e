// Package hook provides the wire types exchanged with the host agent and the policy daemon.
package hook

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownEvent is returned when an event name is not one of the lifecycle events.
var ErrUnknownEvent = errors.New("unknown hook event")

// Event represents the lifecycle point at which a hook is invoked.
type Event string

const (
	// EventSessionStart is emitted when the agent session starts or resumes.
	EventSessionStart Event = "SessionStart"

	// EventUserPromptSubmit is emitted when the user submits a prompt.
	EventUserPromptSubmit Event = "UserPromptSubmit"

	// EventPreToolUse is emitted before a tool is executed.
	EventPreToolUse Event = "PreToolUse"

	// EventPostToolUse is emitted after a tool completed successfully.
	EventPostToolUse Event = "PostToolUse"

	// EventPostToolUseFailure is emitted after a tool failed.
	EventPostToolUseFailure Event = "PostToolUseFailure"

	// EventStop is emitted when the agent finishes responding.
	EventStop Event = "Stop"

	// EventPreCompact is emitted before the context window is compacted.
	EventPreCompact Event = "PreCompact"

	// EventSessionEnd is emitted when the session terminates.
	EventSessionEnd Event = "SessionEnd"
)

// Events lists every lifecycle event in invocation order.
var Events = []Event{
	EventSessionStart,
	EventUserPromptSubmit,
	EventPreToolUse,
	EventPostToolUse,
	EventPostToolUseFailure,
	EventStop,
	EventPreCompact,
	EventSessionEnd,
}

// String returns the canonical event name.
func (e Event) String() string {
	return string(e)
}

// Valid reports whether e is one of the known lifecycle events.
func (e Event) Valid() bool {
	for _, known := range Events {
		if e == known {
			return true
		}
	}

	return false
}

// Kebab returns the event name in kebab case (PreToolUse -> pre-tool-use).
func (e Event) Kebab() string {
	var b strings.Builder

	for i, r := range string(e) {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}

			r += 'a' - 'A'
		}

		b.WriteRune(r)
	}

	return b.String()
}

// ParseEvent parses a canonical (PreToolUse) or kebab-case (pre-tool-use) event name.
func ParseEvent(name string) (Event, error) {
	name = strings.TrimSpace(name)

	for _, e := range Events {
		if name == string(e) || name == e.Kebab() {
			return e, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownEvent, "%q", name)
}
