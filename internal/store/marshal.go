package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/tangent/internal/model"
)

// marshalVariables converts the run's input variables to canonical JSON
// TEXT for storage. An array of {name, value} objects preserves the
// declaration order that gradient indices align to.
func marshalVariables(vars []model.VariableDef) (string, error) {
	arr := make([]any, len(vars))
	for i, v := range vars {
		arr[i] = map[string]any{
			"name":  v.Name,
			"value": v.Value,
		}
	}
	data, err := model.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal variables: %w", err)
	}
	return string(data), nil
}

// unmarshalVariables parses canonical JSON TEXT back to variable
// definitions.
func unmarshalVariables(data string) ([]model.VariableDef, error) {
	if data == "" || data == "[]" {
		return []model.VariableDef{}, nil
	}
	var vars []model.VariableDef
	if err := json.Unmarshal([]byte(data), &vars); err != nil {
		return nil, fmt.Errorf("unmarshal variables: %w", err)
	}
	return vars, nil
}

// marshalPayload converts a result payload to canonical JSON TEXT.
// The same bytes feed the content-addressed result ID, so the stored
// payload can always be re-hashed and verified against the ID.
func marshalPayload(payload map[string]any) (string, error) {
	data, err := model.MarshalCanonical(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// payloadRecord is the stored shape of a result payload.
type payloadRecord struct {
	Value    float64            `json:"value"`
	Gradient map[string]float64 `json:"gradient"`
	Hessian  []float64          `json:"hessian,omitempty"`
}

// unmarshalPayload parses canonical JSON TEXT to a payload record.
func unmarshalPayload(data string) (payloadRecord, error) {
	var rec payloadRecord
	if data == "" || data == "{}" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return payloadRecord{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return rec, nil
}
