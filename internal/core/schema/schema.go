// Package schema holds the JSON Schemas used to validate model output
// before it is decoded into domain types.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

// Classification returns the schema (draft 2020-12 subset) constraining the
// classifier's canonical single-object output.
func Classification(types []domain.DocumentType) map[string]any {
	enum := make([]any, len(types))
	for i, t := range types {
		enum[i] = string(t)
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document_type": map[string]any{"type": "string", "enum": enum},
			"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"titre":         map[string]any{"type": "string"},
			"date":          map[string]any{"type": "string"},
			"resume":        map[string]any{"type": "string"},
			"numero_ademe":  map[string]any{"type": "string"},
			"diagnostics_couverts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"document_type", "confidence"},
	}
}

// Validate checks doc against schema.
func Validate(schema map[string]any, doc []byte) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var value any
	if err := json.Unmarshal(doc, &value); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := compiled.Validate(value); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
