// Package schema renders inferred types as JSON Schema documents and checks
// documents against them.
package schema

import (
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/mcncl/jsonshape/internal/shape"
)

// FromType converts t into a draft 2020-12 JSON Schema. Object members whose
// type cannot be null are listed as required.
func FromType(t shape.Type) *jsonschema.Schema {
	s := fromType(t)
	s.Version = jsonschema.Version
	return s
}

func fromType(t shape.Type) *jsonschema.Schema {
	switch t.Kind() {
	case shape.Null:
		return &jsonschema.Schema{Type: "null"}
	case shape.String:
		return &jsonschema.Schema{Type: "string"}
	case shape.Int:
		return &jsonschema.Schema{Type: "integer"}
	case shape.Float:
		return &jsonschema.Schema{Type: "number"}
	case shape.Bool:
		return &jsonschema.Schema{Type: "boolean"}
	case shape.Object:
		return objectSchema(t)
	case shape.Array:
		s := &jsonschema.Schema{Type: "array"}
		if elem := t.Elem(); !elem.IsUnknown() {
			s.Items = fromType(elem)
		}
		return s
	default:
		if t.IsUnknown() {
			return &jsonschema.Schema{}
		}
		anyOf := make([]*jsonschema.Schema, 0, len(t.Options()))
		for _, o := range t.Options() {
			anyOf = append(anyOf, fromType(o))
		}
		return &jsonschema.Schema{AnyOf: anyOf}
	}
}

func objectSchema(t shape.Type) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, f := range t.Fields() {
		s.Properties.Set(f.Name, fromType(f.Type))
		if !f.Type.IsNullable() {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// Marshal renders s as indented JSON
func Marshal(s *jsonschema.Schema) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
