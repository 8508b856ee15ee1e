package hook

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

var (
	// ErrEmptyInput is returned when the hook received no payload.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidJSON is returned when the payload is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidInput is returned when the payload does not match the input schema.
	ErrInvalidInput = errors.New("invalid hook input")
)

// Input is the event document the host agent writes to a hook's stdin.
// Optional fields are pointers: nil means the agent did not send the field,
// which is not the same as an empty string.
type Input struct {
	// HookEventName identifies the lifecycle point. Required.
	HookEventName Event `json:"hook_event_name" jsonschema:"required,enum=SessionStart,enum=UserPromptSubmit,enum=PreToolUse,enum=PostToolUse,enum=PostToolUseFailure,enum=Stop,enum=PreCompact,enum=SessionEnd"`

	// SessionID is the agent session identifier.
	SessionID *string `json:"session_id,omitempty"`

	// CWD is the agent's working directory.
	CWD *string `json:"cwd,omitempty"`

	// ToolName is the name of the tool being invoked.
	ToolName *string `json:"tool_name,omitempty"`

	// ToolInput contains the tool's named arguments.
	ToolInput *ToolInput `json:"tool_input,omitempty"`

	// ToolResponse is the tool's output (PostToolUse).
	ToolResponse *ResponseText `json:"tool_response,omitempty"`

	// Prompt is the user prompt (UserPromptSubmit).
	Prompt *string `json:"prompt,omitempty"`

	// Error is the failure message (PostToolUseFailure).
	Error *string `json:"error,omitempty"`

	// LastAssistantMessage is the final assistant message (Stop).
	LastAssistantMessage *string `json:"last_assistant_message,omitempty"`

	// Source tells why the session started (startup, resume, clear, compact).
	Source *string `json:"source,omitempty"`

	// Reason tells why the session ended.
	Reason *string `json:"reason,omitempty"`

	// Trigger tells whether compaction is manual or auto.
	Trigger *string `json:"trigger,omitempty"`
}

// DecodeInput parses and validates a raw hook payload.
func DecodeInput(data []byte) (*Input, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, errors.CombineErrors(ErrInvalidJSON, err)
		}

		return nil, errors.CombineErrors(ErrInvalidInput, err)
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return &in, nil
}

// Validate checks the constraints the type system cannot express.
func (in *Input) Validate() error {
	if in.HookEventName == "" {
		return errors.Wrap(ErrInvalidInput, "hook_event_name is required")
	}

	if !in.HookEventName.Valid() {
		return errors.Wrapf(ErrInvalidInput, "hook_event_name %q", string(in.HookEventName))
	}

	return nil
}

// Tool returns the tool name, or "" when absent.
func (in *Input) Tool() string {
	return Value(in.ToolName)
}

// Command returns tool_input.command when it is a string.
func (in *Input) Command() (string, bool) {
	return in.ToolInput.String("command")
}

// Value dereferences an optional string field, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// ResponseText is a tool response rendered as text. JSON strings keep their
// value; any other JSON value is kept in compact form.
type ResponseText string

// UnmarshalJSON accepts a string or any other JSON value.
func (r *ResponseText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding tool_response")
		}

		*r = ResponseText(s)

		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return errors.Wrap(err, "decoding tool_response")
	}

	*r = ResponseText(compact.String())

	return nil
}

// JSONSchema describes tool_response as text or structured output.
func (ResponseText) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "Tool output; strings are kept verbatim, other values as compact JSON",
	}
}
