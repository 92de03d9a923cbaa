package scenario

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://catsim-scenario.json"

// Definition is the JSON schema every scenario file must satisfy.
var Definition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":        "string",
			"description": "Label used in reports and batch output",
		},
		"bank": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"generate": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"count": map[string]any{"type": "integer", "minimum": 1},
						"seed":  map[string]any{"type": "integer"},
					},
					"required":             []any{"count", "seed"},
					"additionalProperties": false,
				},
				"items": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id": map[string]any{"type": "integer", "minimum": 0},
							"a":  map[string]any{"type": "number", "exclusiveMinimum": 0},
							"b":  map[string]any{"type": "number"},
							"c":  map[string]any{"type": "number", "minimum": 0, "exclusiveMaximum": 1},
						},
						"required":             []any{"id", "a", "b", "c"},
						"additionalProperties": false,
					},
				},
			},
			"oneOf": []any{
				map[string]any{"required": []any{"generate"}},
				map[string]any{"required": []any{"items"}},
			},
			"additionalProperties": false,
		},
		"initial_theta": map[string]any{"type": "number"},
		"bounds": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "number"},
			"minItems": 2,
			"maxItems": 2,
		},
		"total_questions": map[string]any{"type": "integer", "minimum": 1},
		"wrong_positions": positionList(),
		"force_correct":   positionList(),
		"force_incorrect": positionList(),
	},
	"required":             []any{"bank", "total_questions"},
	"additionalProperties": false,
}

func positionList() map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "integer", "minimum": 1},
		"description": "1-based question numbers",
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles Definition once.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a plain decoded JSON value.
		defBytes, err := json.Marshal(Definition)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
