// Package normalize turns a schema.Definition into the renderer-agnostic field
// tree. Normalization never fails: malformed input produces an empty or partial
// tree plus diagnostics.
package normalize

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// Diagnostic codes.
const (
	CodeRootNotObject    = "root-not-object"
	CodeRootNoProperties = "root-no-properties"
	CodeArrayMissingItem = "array-missing-items"
	CodeInvalidPattern   = "invalid-pattern"
	CodeUnknownType      = "unknown-type"
)

// DefaultItemLabel labels simple array items without a title.
const DefaultItemLabel = "Item"

// Option customises normalization.
type Option func(*config)

type config struct {
	itemLabel   string
	checkRegexp bool
}

// WithItemLabel overrides the label given to untitled simple array items.
func WithItemLabel(label string) Option {
	return func(c *config) {
		if label != "" {
			c.itemLabel = label
		}
	}
}

// WithoutPatternCheck skips compiling patterns during normalization.
func WithoutPatternCheck() Option {
	return func(c *config) {
		c.checkRegexp = false
	}
}

type normalizer struct {
	cfg         config
	diagnostics []model.Diagnostic
}

// Normalize builds the field tree for def.
func Normalize(def schema.Definition, opts ...Option) model.Tree {
	cfg := config{itemLabel: DefaultItemLabel, checkRegexp: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	n := &normalizer{cfg: cfg}

	tree := model.Tree{Title: def.Title, Fields: []model.Field{}}
	switch {
	case !def.IsObject():
		n.report(nil, CodeRootNotObject, fmt.Sprintf("root schema type must be \"object\", got %q", def.Type))
	case !def.HasProperties():
		n.report(nil, CodeRootNoProperties, "root schema declares no properties")
	default:
		tree.Fields = n.properties(def, nil)
		tree.Layout = def.Layout
		tree.Groups = def.Groups
	}
	tree.Diagnostics = n.diagnostics
	return tree
}

// Order returns the property names of def in display order: names listed in
// ui:order that exist (first occurrence only), then the remaining properties in
// declaration order.
func Order(def schema.Definition) []string {
	declared := def.Properties.Names()
	if len(def.Order) == 0 {
		return declared
	}
	seen := make(map[string]bool, len(declared))
	out := make([]string, 0, len(declared))
	for _, name := range def.Order {
		if seen[name] || !def.Properties.Has(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range declared {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (n *normalizer) properties(parent schema.Definition, parentPath fieldpath.Path) []model.Field {
	required := make(map[string]bool, len(parent.Required))
	for _, name := range parent.Required {
		required[name] = true
	}

	order := Order(parent)
	fields := make([]model.Field, 0, len(order))
	for _, name := range order {
		prop, _ := parent.Properties.Get(name)
		fields = append(fields, n.field(prop, parentPath.Child(name), name, required[name]))
	}
	return fields
}

func (n *normalizer) field(def schema.Definition, path fieldpath.Path, key string, required bool) model.Field {
	fieldType := model.FieldType(def.Type)
	if !fieldType.Known() {
		n.report(path, CodeUnknownType, fmt.Sprintf("unsupported type %q", def.Type))
	}

	label := def.Title
	if label == "" {
		label = key
	}

	field := model.Field{
		Path:        path,
		Type:        fieldType,
		Label:       label,
		Placeholder: firstNonEmpty(def.Placeholder, def.Description),
		HelpText:    firstNonEmpty(def.Help, def.Description),
		Format:      def.Format,
		Required:    required,
		Default:     def.Default,
		Rules:       n.rules(def, path, fieldType == model.FieldTypeArray),
		Messages:    cloneMessages(def.ValidationMessages),
		UIHints:     hints(def),
		FieldLayout: def.FieldLayout,
	}

	switch fieldType {
	case model.FieldTypeObject:
		field.Layout = def.Layout
		field.Groups = def.Groups
		if def.HasProperties() {
			field.Properties = n.properties(def, path)
		}
	case model.FieldTypeArray:
		field.Items = n.items(def, path)
	}
	return field
}

func (n *normalizer) items(def schema.Definition, path fieldpath.Path) *model.ItemSchema {
	if def.Items == nil {
		n.report(path, CodeArrayMissingItem, "array declares no items definition")
		return nil
	}
	item := *def.Items
	if item.IsObject() && item.HasProperties() {
		return &model.ItemSchema{Properties: n.properties(item, nil)}
	}

	label := item.Title
	if label == "" {
		label = n.cfg.itemLabel
	}
	itemPath := fieldpath.Path{model.ItemID}
	field := model.Field{
		Path:        itemPath,
		Type:        model.FieldType(item.Type),
		Label:       label,
		Placeholder: firstNonEmpty(item.Placeholder, item.Description),
		HelpText:    firstNonEmpty(item.Help, item.Description),
		Format:      item.Format,
		Default:     item.Default,
		Rules:       n.rules(item, path.Child(model.ItemID), true),
		Messages:    cloneMessages(item.ValidationMessages),
		UIHints: model.UIHints{
			Widget:   item.Widget,
			Disabled: item.Disabled,
			Readonly: item.Readonly,
			Options:  item.Options,
		},
	}
	return &model.ItemSchema{Field: &field}
}

func (n *normalizer) rules(def schema.Definition, path fieldpath.Path, withItems bool) model.Rules {
	rules := model.Rules{
		MinLength: def.MinLength,
		MaxLength: def.MaxLength,
		Min:       def.Minimum,
		Max:       def.Maximum,
		Pattern:   def.Pattern,
		Format:    def.Format,
	}
	if withItems {
		rules.MinItems = def.MinItems
		rules.MaxItems = def.MaxItems
	}
	if def.Enum != nil {
		rules.Enum = enumFor(def)
	}
	if def.Pattern != "" && n.cfg.checkRegexp {
		if _, err := regexp.Compile(def.Pattern); err != nil {
			n.report(path, CodeInvalidPattern, err.Error())
		}
	}
	return rules
}

// enumFor zips values with their display names. Values are authoritative:
// extra names are ignored and missing names fall back to the value's string
// form.
func enumFor(def schema.Definition) *model.Enum {
	names, ok := def.EnumLabels()
	if !ok {
		return &model.Enum{Values: append([]any{}, def.Enum...)}
	}
	options := make([]model.EnumOption, len(def.Enum))
	for i, value := range def.Enum {
		label := ""
		if i < len(names) {
			label = names[i]
		}
		if label == "" {
			label = fmt.Sprint(value)
		}
		options[i] = model.EnumOption{Value: value, Label: label}
	}
	return &model.Enum{Options: options}
}

func hints(def schema.Definition) model.UIHints {
	return model.UIHints{
		Widget:      def.Widget,
		Disabled:    def.Disabled,
		Readonly:    def.Readonly,
		Options:     def.Options,
		EmptyValue:  def.EmptyValue,
		Placeholder: def.Placeholder,
	}
}

func (n *normalizer) report(path fieldpath.Path, code, message string) {
	n.diagnostics = append(n.diagnostics, model.Diagnostic{
		Path:    path.String(),
		Code:    code,
		Message: message,
	})
}

func cloneMessages(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
