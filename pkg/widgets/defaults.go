package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
)

// DefaultFor returns the value a freshly drawn control seeds when the snapshot
// holds nothing for field. ok is false when the control should start empty and
// leave the snapshot untouched.
func DefaultFor(field model.Field) (any, bool) {
	if field.HasDefault() {
		return fieldpath.Clone(field.Default), true
	}
	switch Resolve(field) {
	case KindBoolean:
		return false, true
	case KindArray:
		return []any{}, true
	case KindObject:
		return newObject(field.Properties), true
	}
	return nil, false
}

// NewItem builds the element appended when a user adds an entry to an array
// field. Object-shaped items start with each property's default, an empty map
// for nested objects or an empty sequence for nested arrays; other properties
// are left out. Simple items start with their default or nil.
func NewItem(field model.Field) any {
	if field.Items == nil {
		return nil
	}
	if field.Items.IsObject() {
		return newObject(field.Items.Properties)
	}
	if item := field.Items.Field; item != nil && item.HasDefault() {
		return fieldpath.Clone(item.Default)
	}
	return nil
}

func newObject(properties []model.Field) map[string]any {
	out := map[string]any{}
	for _, prop := range properties {
		switch {
		case prop.HasDefault():
			out[prop.Name()] = fieldpath.Clone(prop.Default)
		case prop.Type == model.FieldTypeObject:
			out[prop.Name()] = map[string]any{}
		case prop.Type == model.FieldTypeArray:
			out[prop.Name()] = []any{}
		}
	}
	return out
}

// InputType returns the HTML input type a text control should use.
func InputType(field model.Field) string {
	if field.UIHints.Widget == "password" {
		return "password"
	}
	switch field.Format {
	case "email":
		return "email"
	case "uri":
		return "url"
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	}
	return "text"
}

// FromText converts raw control input into a snapshot value. ok is false when
// the input means "no value" and the field should be left absent.
func FromText(field model.Field, raw string) (any, bool, error) {
	kind := Resolve(field)
	switch kind {
	case KindNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, false, nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, false, fmt.Errorf("widgets: %s: %q is not a number", field.ID(), raw)
		}
		return n, true, nil
	case KindBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "", "false", "off", "0", "no":
			return false, true, nil
		case "true", "on", "1", "yes":
			return true, true, nil
		}
		return nil, false, fmt.Errorf("widgets: %s: %q is not a boolean", field.ID(), raw)
	case KindSelect:
		if raw == "" {
			if empty, ok := field.UIHints.EmptyValue.(string); ok && empty == "" {
				return nil, false, nil
			}
			if field.UIHints.EmptyValue == nil {
				return nil, false, nil
			}
		}
		return optionValue(field, raw), true, nil
	case KindArray, KindObject, KindUnsupported:
		return nil, false, fmt.Errorf("widgets: %s: %s fields do not accept text input", field.ID(), kind)
	}
	if raw == "" {
		return nil, false, nil
	}
	return raw, true, nil
}

// optionValue maps the submitted text back onto the typed enum value so a
// numeric enum does not come back as a string.
func optionValue(field model.Field, raw string) any {
	if field.Rules.Enum == nil {
		return raw
	}
	for _, option := range field.Rules.Enum.Entries() {
		if fmt.Sprint(option.Value) == raw {
			return option.Value
		}
	}
	return raw
}
