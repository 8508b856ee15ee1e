package policy

import (
	"fmt"
	"strings"

	"github.com/metaygn/aletheia-hooks/internal/hookresponse"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

const (
	// VerificationNote is emitted when a command produced verification evidence.
	VerificationNote = "Verification signal captured. " +
		"Treat test, build, lint, and typecheck results as stronger evidence than self-assessment. " +
		"If the check failed, diagnose root cause before editing."

	// StopReminder is the proof-packet advisory emitted on Stop.
	StopReminder = "Reminder: for non-trivial work, finish with a proof packet " +
		"(Goal, Changes, Evidence, Uncertainty, Next step) rather than unstructured narration."

	// CompactOutline is the fixed PreCompact guidance.
	CompactOutline = "Compact into: 1) Current goal, 2) Verified facts, 3) Failed approaches, " +
		"4) Open risks, 5) Next action"

	// GenericFailureHint is used when a failure event cannot be decoded.
	GenericFailureHint = "Tool failed. Diagnose: check error message, verify inputs, consider alternative approach."

	failureExcerptLimit = 120
	unknownTool         = "unknown"
	noErrorDetails      = "no error details"
)

// EvaluatePrompt always returns the preflight context for the prompt.
func (*Engine) EvaluatePrompt(in *hook.Input) *hook.Output {
	class := ClassifyPrompt(hook.Value(in.Prompt))

	return hookresponse.Context(hook.EventUserPromptSubmit, class.Context())
}

// DetectVerification returns the first verification keyword found in command.
func (e *Engine) DetectVerification(command string) (string, bool) {
	return containsAny(strings.ToLower(command), e.verification)
}

// EvaluatePostToolUse notes verification evidence, or returns nil.
func (e *Engine) EvaluatePostToolUse(in *hook.Input) *hook.Output {
	command, ok := in.Command()
	if !ok {
		return nil
	}

	if _, found := e.DetectVerification(command); !found {
		return nil
	}

	return hookresponse.Context(hook.EventPostToolUse, VerificationNote)
}

// EvaluateStop always returns the proof-packet reminder.
func (*Engine) EvaluateStop(*hook.Input) *hook.Output {
	return hookresponse.Context(hook.EventStop, StopReminder)
}

// EvaluatePreCompact always returns the compaction outline.
func (*Engine) EvaluatePreCompact() *hook.Output {
	return hookresponse.Context(hook.EventPreCompact, CompactOutline)
}

// EvaluateFailure never returns nil. A nil input yields the generic hint.
func (e *Engine) EvaluateFailure(in *hook.Input) *hook.Output {
	if in == nil {
		return hookresponse.Context(hook.EventPostToolUseFailure, GenericFailureHint)
	}

	return hookresponse.Context(hook.EventPostToolUseFailure, e.FailureDiagnostic(in))
}

// FailureDiagnostic names the tool and an error excerpt, plus a hint for the tool family.
func (e *Engine) FailureDiagnostic(in *hook.Input) string {
	name := in.Tool()
	if name == "" {
		name = unknownTool
	}

	excerpt := noErrorDetails
	if in.Error != nil && *in.Error != "" {
		excerpt = hookresponse.Excerpt(*in.Error, failureExcerptLimit)
	}

	head := fmt.Sprintf(
		"Tool %q failed (%s). Diagnose: check error message, verify inputs, consider alternative approach.",
		name, excerpt,
	)

	return hookresponse.JoinSentences(head, e.familyHint(name))
}

func (e *Engine) familyHint(name string) string {
	switch {
	case name == "Bash":
		return "Check: wrong directory, missing dependency, syntax error, or permission issue."
	case name == "Write" || name == "Edit" || name == "MultiEdit" || name == "NotebookEdit":
		return "Check: file exists, old_string matches exactly, correct indentation."
	case strings.HasPrefix(name, e.mcpPrefix):
		return "Check whether the MCP server is running and the input schema is correct. Fall back to a local CLI if possible."
	default:
		return ""
	}
}
