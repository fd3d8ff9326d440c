package model

import (
	"maps"
	"slices"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// Clone returns a copy of the tree that shares no mutable storage with t.
func (t Tree) Clone() Tree {
	out := t
	out.Fields = cloneFields(t.Fields)
	out.Layout = cloneLayout(t.Layout)
	out.Groups = cloneGroups(t.Groups)
	out.Diagnostics = slices.Clone(t.Diagnostics)
	return out
}

// Clone returns a deep copy of the field, its properties and item schema.
func (f Field) Clone() Field {
	out := f
	out.Path = slices.Clone(f.Path)
	out.Default = fieldpath.Clone(f.Default)
	out.Rules = f.Rules.clone()
	out.Messages = maps.Clone(f.Messages)
	out.UIHints.Options = cloneOptions(f.UIHints.Options)
	out.UIHints.EmptyValue = fieldpath.Clone(f.UIHints.EmptyValue)
	if f.FieldLayout != nil {
		layout := *f.FieldLayout
		out.FieldLayout = &layout
	}
	out.Properties = cloneFields(f.Properties)
	if f.Items != nil {
		items := ItemSchema{Properties: cloneFields(f.Items.Properties)}
		if f.Items.Field != nil {
			item := f.Items.Field.Clone()
			items.Field = &item
		}
		out.Items = &items
	}
	out.Layout = cloneLayout(f.Layout)
	out.Groups = cloneGroups(f.Groups)
	return out
}

func (r Rules) clone() Rules {
	out := r
	out.MinLength = clonePtr(r.MinLength)
	out.MaxLength = clonePtr(r.MaxLength)
	out.Min = clonePtr(r.Min)
	out.Max = clonePtr(r.Max)
	out.MinItems = clonePtr(r.MinItems)
	out.MaxItems = clonePtr(r.MaxItems)
	if r.Enum != nil {
		enum := Enum{}
		if r.Enum.Values != nil {
			enum.Values = make([]any, len(r.Enum.Values))
			for i, v := range r.Enum.Values {
				enum.Values[i] = fieldpath.Clone(v)
			}
		}
		if r.Enum.Options != nil {
			enum.Options = make([]EnumOption, len(r.Enum.Options))
			for i, opt := range r.Enum.Options {
				enum.Options[i] = EnumOption{Value: fieldpath.Clone(opt.Value), Label: opt.Label}
			}
		}
		out.Enum = &enum
	}
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

func cloneOptions(options map[string]any) map[string]any {
	if options == nil {
		return nil
	}
	return fieldpath.CloneMap(options)
}

func cloneLayout(layout *schema.LayoutConfig) *schema.LayoutConfig {
	if layout == nil {
		return nil
	}
	out := *layout
	return &out
}

func cloneGroups(groups []schema.GroupConfig) []schema.GroupConfig {
	if groups == nil {
		return nil
	}
	out := make([]schema.GroupConfig, len(groups))
	for i, group := range groups {
		group.Fields = slices.Clone(group.Fields)
		group.Layout = cloneLayout(group.Layout)
		out[i] = group
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
