package extract

import (
	"fmt"
	"strings"
)

// NotJSONError indicates the model output contained no parseable JSON object.
// Raw always carries the original text so prompt/format drift can be diagnosed.
type NotJSONError struct {
	Raw string
}

func (e *NotJSONError) Error() string {
	return "not-valid-json: response contained no parseable JSON object"
}

// SchemaError indicates the extracted object failed required-field validation
// for its variant.
type SchemaError struct {
	Variant Variant
	Raw     string
	Fields  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response failed %s schema validation: %s", e.Variant, strings.Join(e.Fields, "; "))
}
