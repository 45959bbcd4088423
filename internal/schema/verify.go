package schema

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/mcncl/jsonshape/internal/errors"
	"github.com/mcncl/jsonshape/internal/models"
	"github.com/mcncl/jsonshape/internal/shape"
)

const resourceURL = "schema.json"

// Verify compiles the schema for t and validates doc against it
func Verify(t shape.Type, doc models.JSONValue) error {
	compiled, err := compile(t)
	if err != nil {
		return errors.NewVerifyError("failed to compile inferred schema", err)
	}

	instance, err := roundTrip(models.ToPlain(doc))
	if err != nil {
		return errors.NewVerifyError("failed to prepare document for validation", err)
	}

	if err := compiled.Validate(instance); err != nil {
		return errors.NewVerifyError("document does not match the inferred schema", err)
	}

	slog.Debug("verified document against inferred schema")
	return nil
}

func compile(t shape.Type) (*jsonschema.Schema, error) {
	doc, err := roundTrip(FromType(t))
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	return compiler.Compile(resourceURL)
}

// roundTrip re-decodes v so numbers reach the validator as json.Number
func roundTrip(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
