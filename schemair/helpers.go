package schemair

import (
	"encoding/json"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
)

// trueSchema returns a schema that validates everything (the Go binding of
// a bare JSON `true` used as a schema).
func trueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{}
}

// isTrueSchema reports whether s is the "validates everything" schema: nil
// (not specified, defaults to permitting anything) or the empty schema.
func isTrueSchema(s *jsonschema.Schema) bool {
	if s == nil {
		return true
	}

	return reflect.DeepEqual(s, trueSchema())
}

// isFalseSchema reports whether s is the "validates nothing" schema, the
// Go binding's representation of a bare JSON `false` used as a schema
// (additionalProperties: false, most commonly).
func isFalseSchema(s *jsonschema.Schema) bool {
	return s != nil && s.Not != nil && isTrueSchema(s.Not)
}

// ParseInputBytes decodes raw bytes — JSON, or YAML (a superset of JSON) —
// into a *jsonschema.Schema, for use by the CLI driver. YAML is decoded to
// a generic value first and re-encoded to JSON so the single decode target
// stays the jsonschema-go Schema type regardless of source syntax.
func ParseInputBytes(yamlUnmarshal func([]byte, any) error, data []byte) (*jsonschema.Schema, error) {
	var generic any

	if err := yamlUnmarshal(data, &generic); err != nil {
		return nil, err
	}

	b, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(b, &schema); err != nil {
		return nil, err
	}

	return &schema, nil
}
