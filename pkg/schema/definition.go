package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Definition is a single node of the declarative form schema. The root of a
// form is a Definition with Type "object" and declared Properties. Keyword
// fields use pointers so a zero threshold is distinguishable from an unset one.
type Definition struct {
	Schema      string   `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Required    []string `json:"required,omitempty" yaml:"required,omitempty"`

	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string   `json:"format,omitempty" yaml:"format,omitempty"`
	Enum      []any    `json:"enum,omitempty" yaml:"enum,omitempty"`
	// EnumNames is the legacy top-level spelling of ui:options.enumNames.
	EnumNames []string `json:"enumNames,omitempty" yaml:"enumNames,omitempty"`
	MinItems  *int     `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	Properties Properties  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      *Definition `json:"items,omitempty" yaml:"items,omitempty"`

	UIHints `yaml:",inline"`
}

// UIHints groups the presentation keywords carried under the "ui:" prefix.
// They never influence validation except for ValidationMessages.
type UIHints struct {
	Widget             string            `json:"ui:widget,omitempty" yaml:"ui:widget,omitempty"`
	ValidationMessages map[string]string `json:"ui:validationMessages,omitempty" yaml:"ui:validationMessages,omitempty"`
	Placeholder        string            `json:"ui:placeholder,omitempty" yaml:"ui:placeholder,omitempty"`
	Help               string            `json:"ui:help,omitempty" yaml:"ui:help,omitempty"`
	Order              []string          `json:"ui:order,omitempty" yaml:"ui:order,omitempty"`
	Disabled           bool              `json:"ui:disabled,omitempty" yaml:"ui:disabled,omitempty"`
	Readonly           bool              `json:"ui:readonly,omitempty" yaml:"ui:readonly,omitempty"`
	Options            map[string]any    `json:"ui:options,omitempty" yaml:"ui:options,omitempty"`
	EmptyValue         any               `json:"ui:emptyValue,omitempty" yaml:"ui:emptyValue,omitempty"`
	FieldLayout        *FieldLayout      `json:"ui:fieldLayout,omitempty" yaml:"ui:fieldLayout,omitempty"`
	Layout             *LayoutConfig     `json:"ui:layout,omitempty" yaml:"ui:layout,omitempty"`
	Groups             []GroupConfig     `json:"ui:groups,omitempty" yaml:"ui:groups,omitempty"`
}

// LayoutKind names the arrangement strategy for an object's fields.
type LayoutKind string

const (
	LayoutDefault LayoutKind = "default"
	LayoutGrid    LayoutKind = "grid"
	LayoutFlex    LayoutKind = "flex"
)

// LayoutConfig arranges the fields of an object or of the form root.
type LayoutConfig struct {
	Type           LayoutKind `json:"type,omitempty" yaml:"type,omitempty"`
	Columns        int        `json:"columns,omitempty" yaml:"columns,omitempty"`
	Gap            Gap        `json:"gap,omitempty" yaml:"gap,omitempty"`
	Direction      string     `json:"direction,omitempty" yaml:"direction,omitempty"`
	Wrap           string     `json:"wrap,omitempty" yaml:"wrap,omitempty"`
	JustifyContent string     `json:"justifyContent,omitempty" yaml:"justifyContent,omitempty"`
	AlignItems     string     `json:"alignItems,omitempty" yaml:"alignItems,omitempty"`
	ClassName      string     `json:"className,omitempty" yaml:"className,omitempty"`
}

// GroupConfig collects fields by id under a titled section.
type GroupConfig struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title,omitempty" yaml:"title,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []string      `json:"fields" yaml:"fields"`
	Layout      *LayoutConfig `json:"layout,omitempty" yaml:"layout,omitempty"`
	ClassName   string        `json:"className,omitempty" yaml:"className,omitempty"`
}

// FieldLayout carries per-field placement hints inside a parent layout.
type FieldLayout struct {
	ClassName string `json:"className,omitempty" yaml:"className,omitempty"`
	ColSpan   int    `json:"colSpan,omitempty" yaml:"colSpan,omitempty"`
}

// Gap is a spacing token. Documents may spell it as a number or a string.
type Gap string

// UnmarshalJSON accepts both numeric and string spellings.
func (g *Gap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*g = Gap(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("schema: gap must be a string or number: %w", err)
	}
	*g = Gap(number.String())
	return nil
}

// GapFromInt is a convenience for programmatic layouts.
func GapFromInt(n int) Gap {
	return Gap(strconv.Itoa(n))
}

// EnumLabels returns the display names paired with Enum, preferring
// ui:options.enumNames over the legacy top-level keyword. ok is false when no
// names were declared.
func (d Definition) EnumLabels() ([]string, bool) {
	if raw, exists := d.Options["enumNames"]; exists {
		switch typed := raw.(type) {
		case []string:
			return typed, true
		case []any:
			out := make([]string, len(typed))
			for i, v := range typed {
				if s, ok := v.(string); ok {
					out[i] = s
				}
			}
			return out, true
		}
	}
	if d.EnumNames != nil {
		return d.EnumNames, true
	}
	return nil, false
}

// IsObject reports whether the node declares an object type.
func (d Definition) IsObject() bool {
	return d.Type == "object"
}

// HasProperties reports whether the node declares at least one property.
func (d Definition) HasProperties() bool {
	return len(d.Properties) > 0
}
