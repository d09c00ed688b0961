package extract

import (
	"embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Variant selects the required-field schema for one upstream response shape.
// The two evaluators return structurally similar but independently evolving
// payloads; a single extraction routine parameterized by variant keeps the
// validation logic in one place.
type Variant string

const (
	// VariantTechnical validates the technical-scoring response shape.
	VariantTechnical Variant = "technical"
	// VariantConfidence validates the video confidence response shape.
	VariantConfidence Variant = "confidence"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	schemaCache   = make(map[Variant]*gojsonschema.Schema)
	schemaCacheMu sync.Mutex
)

// Validate checks an extracted object against the schema for its variant.
// On failure it returns a *SchemaError carrying the raw text for diagnostics.
func Validate(obj map[string]any, variant Variant, raw string) error {
	schema, err := loadSchema(variant)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", variant, err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &SchemaError{Variant: variant, Raw: raw, Fields: fields}
}

// VariantObject extracts and validates in one step.
func VariantObject(rawText string, variant Variant) (map[string]any, error) {
	obj, err := Object(rawText)
	if err != nil {
		return nil, err
	}
	if err := Validate(obj, variant, rawText); err != nil {
		return nil, err
	}
	return obj, nil
}

// loadSchema compiles and caches the embedded schema for a variant.
func loadSchema(variant Variant) (*gojsonschema.Schema, error) {
	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()

	if schema, ok := schemaCache[variant]; ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(fmt.Sprintf("schemas/%s.json", variant))
	if err != nil {
		return nil, fmt.Errorf("no schema for variant %q: %w", variant, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", variant, err)
	}

	schemaCache[variant] = schema
	return schema, nil
}
