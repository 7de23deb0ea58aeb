package schema

import (
	json "github.com/SCP002/jsonexraw"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Shapes returns config shapes available for JSONSchema by name
func Shapes() map[string]any {
	return map[string]any{
		"routes":  IntentRoutes{},
		"route":   Route{},
		"formats": FormatConfig{},
	}
}

// JSONSchema returns indented JSON Schema document describing <v>
func JSONSchema(v any) ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	out, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "Marshal JSON schema")
	}
	return out, nil
}
