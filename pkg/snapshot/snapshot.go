// Package snapshot builds the first data snapshot for a normalized tree.
package snapshot

import (
	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Initialize returns a fresh snapshot for fields. For every field the value is
// taken, in order, from initial at the field's full path, from the field's
// default, or from a structural default (a populated map for objects, an empty
// sequence for arrays). Scalars without a value stay absent.
//
// Values copied from initial or from defaults are deep-cloned so edits to the
// snapshot never reach the caller's data or the tree.
func Initialize(fields []model.Field, initial map[string]any) map[string]any {
	out := map[string]any{}
	for _, field := range fields {
		if value, ok := resolve(field, initial); ok {
			out[field.Name()] = value
		}
	}
	return out
}

func resolve(field model.Field, initial map[string]any) (any, bool) {
	if value, ok := fieldpath.Get(initial, field.Path); ok {
		return fieldpath.Clone(value), true
	}
	if field.HasDefault() {
		return fieldpath.Clone(field.Default), true
	}

	switch field.Type {
	case model.FieldTypeObject:
		nested := map[string]any{}
		for _, child := range field.Properties {
			if value, ok := resolve(child, initial); ok {
				nested[child.Name()] = value
			}
		}
		return nested, true
	case model.FieldTypeArray:
		return []any{}, true
	default:
		return nil, false
	}
}
