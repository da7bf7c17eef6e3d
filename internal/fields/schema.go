package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
)

// BuildRecordJSONSchema describes a serialized Record: every field required,
// no extras, no empty strings.
func BuildRecordJSONSchema() map[string]any {
	props := map[string]any{}
	required := make([]string, 0, len(constants.FieldOrder))
	for _, name := range constants.FieldOrder {
		required = append(required, name)
		if name == constants.FieldNotInDocument {
			props[name] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			}
			continue
		}
		props[name] = map[string]any{"type": "string", "minLength": 1}
	}

	cat := func(values ...string) map[string]any {
		return map[string]any{"type": "string", "enum": values}
	}
	props[constants.FieldExcessMileageClause] = cat(constants.Present, constants.NotAvailable)
	props[constants.FieldMaintenanceIncluded] = cat(constants.Yes, constants.No, constants.NotAvailable)

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildRecordJSONSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("record.json")
	})
	return schema, schemaErr
}

// ValidateJSON checks serialized record bytes against the record schema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.KindError(common.ErrValidation, "unmarshal record", err)
	}
	if err := s.Validate(v); err != nil {
		return common.KindError(common.ErrValidation, "record does not match schema", err)
	}
	return nil
}

// Validate encodes r and checks it against the record schema.
func Validate(r Record) error {
	b, err := r.Encode()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return ValidateJSON(b)
}
