package model

import (
	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// FieldType mirrors the schema `type` keyword.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Known reports whether t is one of the six supported types.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeInteger,
		FieldTypeBoolean, FieldTypeArray, FieldTypeObject:
		return true
	}
	return false
}

// Numeric reports whether t is number or integer.
func (t FieldType) Numeric() bool {
	return t == FieldTypeNumber || t == FieldTypeInteger
}

// ItemID is the synthetic id given to a simple (non-object) array item.
const ItemID = "$item"

// Field is one addressable unit of the tree.
type Field struct {
	Path        fieldpath.Path      `json:"id"`
	Type        FieldType           `json:"type"`
	Label       string              `json:"label"`
	Placeholder string              `json:"placeholder,omitempty"`
	HelpText    string              `json:"helpText,omitempty"`
	Format      string              `json:"format,omitempty"`
	Required    bool                `json:"isRequired"`
	Default     any                 `json:"defaultValue,omitempty"`
	Rules       Rules               `json:"validationRules"`
	Messages    map[string]string   `json:"validationMessages,omitempty"`
	UIHints     UIHints             `json:"uiHints"`
	FieldLayout *schema.FieldLayout `json:"fieldLayout,omitempty"`

	// Properties is populated only for objects that declare properties.
	Properties []Field `json:"properties,omitempty"`
	// Items is populated only for arrays that declare an item definition.
	Items *ItemSchema `json:"itemSchema,omitempty"`

	Layout *schema.LayoutConfig `json:"layout,omitempty"`
	Groups []schema.GroupConfig `json:"groups,omitempty"`
}

// ID returns the dot-joined path used at serialization boundaries.
func (f Field) ID() string {
	return f.Path.String()
}

// Name returns the last path segment, the property key in its parent.
func (f Field) Name() string {
	return f.Path.Last()
}

// HasDefault reports whether the schema declared a non-null default.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// Message returns the custom message registered for rule, if any.
func (f Field) Message(rule string) (string, bool) {
	msg, ok := f.Messages[rule]
	if !ok || msg == "" {
		return "", false
	}
	return msg, true
}

// UIHints are opaque presentation hints passed through to renderers.
type UIHints struct {
	Widget      string         `json:"widget,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`
	Readonly    bool           `json:"readonly,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
	EmptyValue  any            `json:"emptyValue,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
}

// Diagnostic is a non-fatal normalization finding.
type Diagnostic struct {
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Code + ": " + d.Message
	}
	return d.Code + " at " + d.Path + ": " + d.Message
}

// Tree is the normalized output for a whole schema.
type Tree struct {
	Title       string               `json:"title,omitempty"`
	Fields      []Field              `json:"fields"`
	Layout      *schema.LayoutConfig `json:"layout,omitempty"`
	Groups      []schema.GroupConfig `json:"groups,omitempty"`
	Diagnostics []Diagnostic         `json:"diagnostics,omitempty"`
}

// Find searches the tree depth-first for the field with the given id. Array
// item schemas are not searched since their ids are element-relative.
func (t Tree) Find(id string) (Field, bool) {
	return FindField(t.Fields, id)
}

// FindField searches fields and their nested properties for id.
func FindField(fields []Field, id string) (Field, bool) {
	for _, field := range fields {
		if field.ID() == id {
			return field, true
		}
		if found, ok := FindField(field.Properties, id); ok {
			return found, true
		}
	}
	return Field{}, false
}

// Walk visits every field (objects before their properties) until fn returns
// false.
func Walk(fields []Field, fn func(Field) bool) bool {
	for _, field := range fields {
		if !fn(field) {
			return false
		}
		if !Walk(field.Properties, fn) {
			return false
		}
	}
	return true
}
