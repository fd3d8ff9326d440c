package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Bundle is the export envelope pairing a schema with the values a form was
// seeded with.
type Bundle struct {
	Schema        Definition     `json:"schema" yaml:"schema"`
	InitialValues map[string]any `json:"initialValues,omitempty" yaml:"initialValues,omitempty"`
}

// Parse decodes the document payload into a Definition.
func Parse(doc Document) (Definition, error) {
	var def Definition
	if err := decode(doc.raw, &def); err != nil {
		return Definition{}, fmt.Errorf("schema: parse %s: %w", doc.Location(), err)
	}
	return def, nil
}

// ParseBytes decodes a JSON or YAML payload into a Definition.
func ParseBytes(raw []byte) (Definition, error) {
	var def Definition
	if err := decode(raw, &def); err != nil {
		return Definition{}, fmt.Errorf("schema: parse: %w", err)
	}
	return def, nil
}

// ParseBundle decodes an export envelope.
func ParseBundle(raw []byte) (Bundle, error) {
	var bundle Bundle
	if err := decode(raw, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("schema: parse bundle: %w", err)
	}
	if bundle.InitialValues == nil {
		bundle.InitialValues = map[string]any{}
	}
	return bundle, nil
}

// ParseValues decodes a JSON or YAML object of form values.
func ParseValues(raw []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := decode(raw, &out); err != nil {
		return nil, fmt.Errorf("schema: parse values: %w", err)
	}
	return normalizeYAML(out).(map[string]any), nil
}

// MarshalBundle encodes an export envelope as indented JSON.
func MarshalBundle(bundle Bundle) ([]byte, error) {
	if bundle.InitialValues == nil {
		bundle.InitialValues = map[string]any{}
	}
	return json.MarshalIndent(bundle, "", "  ")
}

// decode tries JSON first and falls back to YAML. When both fail the JSON
// error is reported for payloads that look like JSON.
func decode(raw []byte, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ErrEmptyDocument
	}
	jsonErr := json.Unmarshal(trimmed, target)
	if jsonErr == nil {
		return nil
	}
	yamlErr := yaml.Unmarshal(trimmed, target)
	if yamlErr == nil {
		return nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return jsonErr
	}
	return yamlErr
}

// normalizeYAML rewrites map[any]any nodes that older YAML producers emit so
// values stay addressable by string keys.
func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for k, v := range typed {
			typed[k] = normalizeYAML(v)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case []any:
		for i, v := range typed {
			typed[i] = normalizeYAML(v)
		}
		return typed
	default:
		return typed
	}
}
