package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildArtifactJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We validate artifact.json against it before decoding so a
// malformed artifact fails loudly at startup, not mid-request.
func buildArtifactJSONSchema() map[string]any {
	treeProp := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"split_feature": intArrayProp(),
			"threshold":     numArrayProp(),
			"left":          intArrayProp(),
			"right":         intArrayProp(),
			"value":         numArrayProp(),
		},
		"required": []string{"split_feature", "threshold", "left", "right", "value"},
	}

	props := map[string]any{
		"model_version": map[string]any{"type": "string", "minLength": 1},
		"feature_names": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"minItems": 1,
		},
		"numeric_features": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"mean":  map[string]any{"type": "number"},
					"scale": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
				},
				"required": []string{"mean", "scale"},
			},
		},
		"label_encoders": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
		},
		"feature_importance": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "number", "minimum": 0.0},
		},
		"metrics": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "number"},
		},
		"gbt": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"base_score":    map[string]any{"type": "number"},
				"learning_rate": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
				"trees":         map[string]any{"type": "array", "items": treeProp},
			},
			"required": []string{"learning_rate", "trees"},
		},
		"linear": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"weights": numArrayProp(),
				"bias":    map[string]any{"type": "number"},
			},
			"required": []string{"weights", "bias"},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required": []string{
			"model_version", "feature_names", "numeric_features",
			"label_encoders", "feature_importance",
		},
	}
}

func intArrayProp() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "integer"}}
}

func numArrayProp() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "number"}}
}

// validateArtifactJSON validates raw artifact bytes against the schema.
func validateArtifactJSON(raw []byte) error {
	b, err := json.Marshal(buildArtifactJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("artifact-schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	sch, err := compiler.Compile("artifact-schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal artifact: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("artifact does not match schema: %w", err)
	}
	return nil
}
