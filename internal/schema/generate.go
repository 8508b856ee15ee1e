// Package schema generates JSON Schema for the hook input document and the
// configuration file.
package schema

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/metaygn/aletheia-hooks/pkg/config"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

const (
	schemaURI = "https://json-schema.org/draft/2020-12/schema"

	// ConfigSchemaURL is where the published config schema lives.
	ConfigSchemaURL = "https://raw.githubusercontent.com/metaygn/aletheia-hooks/main/schema/config.schema.json"
)

// Kind selects which document a schema describes.
type Kind string

const (
	KindConfig    Kind = "config"
	KindHookInput Kind = "hook-input"
	KindOutput    Kind = "hook-output"
)

// ErrUnknownKind is returned for an unsupported schema kind.
var ErrUnknownKind = errors.New("unknown schema kind")

// Kinds lists the supported schema kinds.
var Kinds = []Kind{KindConfig, KindHookInput, KindOutput}

// Generate produces a JSON Schema for kind.
func Generate(kind Kind) (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	var (
		s     *jsonschema.Schema
		title string
	)

	switch kind {
	case KindConfig:
		s, title = r.Reflect(&config.Config{}), "aletheia-hooks configuration"
	case KindHookInput:
		s, title = r.Reflect(&hook.Input{}), "aletheia-hooks event input"
	case KindOutput:
		s, title = r.Reflect(&hook.Output{}), "aletheia-hooks event output"
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", string(kind))
	}

	s.Version = schemaURI
	s.Title = title

	return s, nil
}

// GenerateJSON produces a JSON Schema as bytes.
// When indent is true, the output is pretty-printed.
func GenerateJSON(kind Kind, indent bool) ([]byte, error) {
	s, err := Generate(kind)
	if err != nil {
		return nil, err
	}

	var data []byte

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	// Append trailing newline for file output.
	return append(data, '\n'), nil
}

// SchemaDirective returns the taplo/Even Better TOML schema comment placed
// at the top of written config files.
func SchemaDirective() string {
	return "#:schema " + ConfigSchemaURL
}
