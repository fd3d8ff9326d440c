package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Rule names used as keys in validation messages.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleType      = "type"
	RuleMinItems  = "minItems"
	RuleMaxItems  = "maxItems"
)

// Rules is the sparse set of constraints attached to a field. Nil pointers and
// empty strings mean the schema did not declare the rule.
type Rules struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Enum      *Enum    `json:"enum,omitempty"`
	Format    string   `json:"format,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`
}

// IsZero reports whether no rule is set.
func (r Rules) IsZero() bool {
	return r.MinLength == nil && r.MaxLength == nil && r.Min == nil && r.Max == nil &&
		r.Pattern == "" && r.Enum == nil && r.Format == "" &&
		r.MinItems == nil && r.MaxItems == nil
}

// EnumOption is a labelled enum value.
type EnumOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Enum holds either plain values or labelled options, never both.
type Enum struct {
	Values  []any
	Options []EnumOption
}

// Labelled reports whether the enum carries display names.
func (e Enum) Labelled() bool {
	return e.Options != nil
}

// Len returns the number of allowed values.
func (e Enum) Len() int {
	if e.Labelled() {
		return len(e.Options)
	}
	return len(e.Values)
}

// Entries returns every value as an option; plain values are labelled with
// their string form.
func (e Enum) Entries() []EnumOption {
	if e.Labelled() {
		return append([]EnumOption(nil), e.Options...)
	}
	out := make([]EnumOption, len(e.Values))
	for i, v := range e.Values {
		out[i] = EnumOption{Value: v, Label: fmt.Sprint(v)}
	}
	return out
}

// MarshalJSON emits either the raw values or the {value,label} pairs.
func (e Enum) MarshalJSON() ([]byte, error) {
	if e.Labelled() {
		return json.Marshal(e.Options)
	}
	if e.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.Values)
}

// UnmarshalJSON treats a list made only of objects with a "value" key as
// labelled options.
func (e *Enum) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: enum: %w", err)
	}
	labelled := len(raw) > 0
	for _, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			labelled = false
			break
		}
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return fmt.Errorf("model: enum: %w", err)
		}
		if _, ok := keys["value"]; !ok {
			labelled = false
			break
		}
	}
	if labelled {
		var options []EnumOption
		if err := json.Unmarshal(data, &options); err != nil {
			return fmt.Errorf("model: enum: %w", err)
		}
		*e = Enum{Options: options}
		return nil
	}
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("model: enum: %w", err)
	}
	*e = Enum{Values: values}
	return nil
}

// ItemSchema describes one array element: a single simple field or the
// properties of an object-shaped element.
type ItemSchema struct {
	Field      *Field
	Properties []Field
}

// IsObject reports whether elements are objects.
func (s ItemSchema) IsObject() bool {
	return s.Field == nil
}

// MarshalJSON emits the single field or the property list.
func (s ItemSchema) MarshalJSON() ([]byte, error) {
	if s.Field != nil {
		return json.Marshal(s.Field)
	}
	if s.Properties == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Properties)
}

// UnmarshalJSON accepts either shape.
func (s *ItemSchema) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var props []Field
		if err := json.Unmarshal(trimmed, &props); err != nil {
			return fmt.Errorf("model: itemSchema: %w", err)
		}
		*s = ItemSchema{Properties: props}
		return nil
	}
	var field Field
	if err := json.Unmarshal(trimmed, &field); err != nil {
		return fmt.Errorf("model: itemSchema: %w", err)
	}
	*s = ItemSchema{Field: &field}
	return nil
}
