package hook

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ToolInput holds the named arguments of a tool invocation.
// Keys keep the order in which they appeared in the inbound document.
type ToolInput struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewToolInput creates an empty ToolInput.
func NewToolInput() *ToolInput {
	return &ToolInput{values: make(map[string]json.RawMessage)}
}

// Set stores value under key, appending the key if it is new.
func (t *ToolInput) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding tool_input.%s", key)
	}

	t.put(key, raw)

	return nil
}

func (t *ToolInput) put(key string, raw json.RawMessage) {
	if t.values == nil {
		t.values = make(map[string]json.RawMessage)
	}

	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}

	t.values[key] = raw
}

// Keys returns the argument names in arrival order.
func (t *ToolInput) Keys() []string {
	if t == nil {
		return nil
	}

	return append([]string(nil), t.keys...)
}

// Len returns the number of arguments.
func (t *ToolInput) Len() int {
	if t == nil {
		return 0
	}

	return len(t.keys)
}

// Raw returns the JSON value stored under key.
func (t *ToolInput) Raw(key string) (json.RawMessage, bool) {
	if t == nil {
		return nil, false
	}

	raw, ok := t.values[key]

	return raw, ok
}

// String returns the value under key when it is a JSON string.
func (t *ToolInput) String(key string) (string, bool) {
	raw, ok := t.Raw(key)
	if !ok || len(raw) == 0 || raw[0] != '"' {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// Serialize flattens all argument values into one string for pattern matching.
// Strings contribute their text, every other value its compact JSON form,
// joined by single spaces in key order.
func (t *ToolInput) Serialize() string {
	if t == nil {
		return ""
	}

	parts := make([]string, 0, len(t.keys))

	for _, key := range t.keys {
		if s, ok := t.String(key); ok {
			parts = append(parts, s)

			continue
		}

		parts = append(parts, string(t.values[key]))
	}

	return strings.Join(parts, " ")
}

// UnmarshalJSON decodes a JSON object while recording key order.
func (t *ToolInput) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "reading tool_input")
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Wrap(ErrInvalidInput, "tool_input must be an object")
	}

	t.keys = nil
	t.values = make(map[string]json.RawMessage)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "reading tool_input key")
		}

		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "reading tool_input.%s", key)
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return errors.Wrapf(err, "compacting tool_input.%s", key)
		}

		t.put(key, compact.Bytes())
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "closing tool_input")
	}

	return nil
}

// MarshalJSON encodes the arguments as an object in key order.
func (t *ToolInput) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	if t != nil {
		for i, key := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}

			name, err := json.Marshal(key)
			if err != nil {
				return nil, errors.Wrap(err, "encoding tool_input key")
			}

			buf.Write(name)
			buf.WriteByte(':')
			buf.Write(t.values[key])
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// JSONSchema describes tool_input as a free-form object.
func (ToolInput) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Named tool arguments; values of any JSON type",
	}
}
