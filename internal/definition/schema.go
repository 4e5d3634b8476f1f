// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package definition

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the generated definition schema.
const SchemaID = "https://holomush.dev/schemas/propcore-collection.schema.json"

var compiledSchema = sync.OnceValues(compileSchema)

// GenerateSchema generates a JSON Schema from the Document struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Document{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Property Collection Definition"
	schema.Description = "Schema for property collection definition files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// ValidateSchema validates YAML data against the definition JSON Schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.Code(CodeInvalid).Errorf("definition data is empty")
	}

	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "invalid YAML")
	}

	sch, err := compiledSchema()
	if err != nil {
		return oops.Wrapf(err, "compile definition schema")
	}
	if err := sch.Validate(convertToJSONTypes(yamlData)); err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "schema validation failed")
	}
	return nil
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return c.Compile("schema.json")
}

// convertToJSONTypes normalizes YAML-decoded values into the types the
// validator understands.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertToJSONTypes(v)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[fmt.Sprint(k)] = convertToJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = convertToJSONTypes(v)
		}
		return result
	case string, int, int64, float64, bool, nil:
		return val
	case uint64:
		return float64(val)
	default:
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}
