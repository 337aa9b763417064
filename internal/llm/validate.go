package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaMismatch marks a well-formed document the schema rejects.
var ErrSchemaMismatch = errors.New("document does not match schema")

// DocumentSchema is a compiled JSON Schema applied to model output.
type DocumentSchema struct {
	compiled *jsonschema.Schema
}

// CompileSchema compiles schemaMap once so many documents can be checked against it.
func CompileSchema(schemaMap map[string]any) (*DocumentSchema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	const url = "model-output.json"
	if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &DocumentSchema{compiled: compiled}, nil
}

// Decode parses data and checks it against the schema, returning the decoded value.
func (s *DocumentSchema) Decode(data []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks an already decoded document.
func (s *DocumentSchema) Validate(doc any) error {
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}
