package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema constrains the model's extraction output before it is
// unmarshalled into typed structs. Token types and required fields are
// pinned here so a drifting model response fails loudly instead of
// producing half-empty rules.
const resultSchema = `{
  "type": "object",
  "required": ["summary", "rules"],
  "properties": {
    "docType": {"type": "string"},
    "summary": {"type": "string"},
    "searchResults": {
      "type": "object",
      "properties": {
        "exhibitDFound": {"type": "boolean"},
        "tablesFound": {"type": "integer"},
        "revenueTermsFound": {"type": "array", "items": {"type": "string"}}
      }
    },
    "rules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "tokens"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "category": {"type": "string"},
          "source": {"type": "string"},
          "tokens": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "type", "value"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "type": {"enum": ["variable", "operator", "value", "keyword"]},
                "value": {"type": "string"},
                "editable": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", strings.NewReader(resultSchema)); err != nil {
		panic(fmt.Sprintf("extract: adding schema resource: %v", err))
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		panic(fmt.Sprintf("extract: compiling schema: %v", err))
	}
	return schema
}

// validateSchema checks raw model output against the extraction schema.
func validateSchema(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal extraction output: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("extraction output does not match schema: %w", err)
	}
	return nil
}
