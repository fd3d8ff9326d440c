package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formschema/pkg/schema"
)

const (
	uiExtensionPrefix  = "x-ui-"
	enumNamesExtension = "x-enum-names"
	uiKeywordPrefix    = "ui:"
	objectType         = "object"
)

// Convert maps a resolved kin-openapi schema onto a Definition. Object
// properties come out sorted by name since the parsed document no longer
// knows their declaration order; x-ui-order restores a custom order. allOf
// members are merged into the result. A schema that refers back to one of its
// ancestors is cut off as an object without properties.
func Convert(ref *openapi3.SchemaRef) schema.Definition {
	return convert(ref, map[*openapi3.Schema]bool{})
}

func convert(ref *openapi3.SchemaRef, ancestors map[*openapi3.Schema]bool) schema.Definition {
	if ref == nil || ref.Value == nil {
		return schema.Definition{}
	}
	src := ref.Value
	if ancestors[src] {
		return schema.Definition{Type: objectType, Title: src.Title, Description: src.Description}
	}
	ancestors[src] = true
	defer delete(ancestors, src)

	def := schema.Definition{
		Type:        schemaType(src.Type),
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Format:      src.Format,
		Pattern:     src.Pattern,
	}
	if len(src.Required) > 0 {
		def.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		def.Enum = append([]any(nil), src.Enum...)
	}
	if src.Min != nil {
		value := *src.Min
		def.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		def.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		def.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		def.MaxLength = &value
	}
	if src.MinItems != 0 {
		value := int(src.MinItems)
		def.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		def.MaxItems = &value
	}
	if src.Items != nil {
		items := convert(src.Items, ancestors)
		def.Items = &items
	}
	def.Properties = convertProperties(src.Properties, ancestors)

	for _, member := range src.AllOf {
		mergeAllOf(&def, convert(member, ancestors))
	}
	if def.Type == "" && len(def.Properties) > 0 {
		def.Type = objectType
	}
	applyExtensions(&def, src.Extensions)
	return def
}

func convertProperties(props openapi3.Schemas, ancestors map[*openapi3.Schema]bool) schema.Properties {
	if len(props) == 0 {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(schema.Properties, 0, len(names))
	for _, name := range names {
		out = append(out, schema.Property{Name: name, Schema: convert(props[name], ancestors)})
	}
	return out
}

// mergeAllOf folds an allOf member into def. Keywords already set on def win.
func mergeAllOf(def *schema.Definition, member schema.Definition) {
	if def.Type == "" {
		def.Type = member.Type
	}
	if def.Title == "" {
		def.Title = member.Title
	}
	if def.Description == "" {
		def.Description = member.Description
	}
	for _, name := range member.Required {
		if !contains(def.Required, name) {
			def.Required = append(def.Required, name)
		}
	}
	for _, prop := range member.Properties {
		if !def.Properties.Has(prop.Name) {
			def.Properties = append(def.Properties, prop)
		}
	}
	if len(member.Order) > 0 && len(def.Order) == 0 {
		def.Order = member.Order
	}
}

// applyExtensions copies x-ui-<name> extensions onto the matching ui:<name>
// keyword by routing them through the keyword JSON encoding, and picks up
// x-enum-names. Malformed extension values are ignored one by one.
func applyExtensions(def *schema.Definition, extensions map[string]any) {
	for key, value := range extensions {
		switch {
		case key == enumNamesExtension:
			def.EnumNames = stringList(value)
		case strings.HasPrefix(key, uiExtensionPrefix):
			keyword := uiKeywordPrefix + strings.TrimPrefix(key, uiExtensionPrefix)
			payload, err := json.Marshal(map[string]any{keyword: value})
			if err != nil {
				continue
			}
			var hints schema.UIHints
			if err := json.Unmarshal(payload, &hints); err != nil {
				continue
			}
			mergeHints(&def.UIHints, hints)
		}
	}
}

func mergeHints(dst *schema.UIHints, src schema.UIHints) {
	if src.Widget != "" {
		dst.Widget = src.Widget
	}
	if src.ValidationMessages != nil {
		dst.ValidationMessages = src.ValidationMessages
	}
	if src.Placeholder != "" {
		dst.Placeholder = src.Placeholder
	}
	if src.Help != "" {
		dst.Help = src.Help
	}
	if src.Order != nil {
		dst.Order = src.Order
	}
	dst.Disabled = dst.Disabled || src.Disabled
	dst.Readonly = dst.Readonly || src.Readonly
	if src.Options != nil {
		dst.Options = src.Options
	}
	if src.EmptyValue != nil {
		dst.EmptyValue = src.EmptyValue
	}
	if src.FieldLayout != nil {
		dst.FieldLayout = src.FieldLayout
	}
	if src.Layout != nil {
		dst.Layout = src.Layout
	}
	if src.Groups != nil {
		dst.Groups = src.Groups
	}
}

// schemaType picks the first non-null type. OpenAPI 3.1 documents may list
// several; forms only model one.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func stringList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, len(typed))
		for i, item := range typed {
			if s, ok := item.(string); ok {
				out[i] = s
			} else if item != nil {
				out[i] = fmt.Sprint(item)
			}
		}
		return out
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
