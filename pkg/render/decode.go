package render

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/widgets"
)

// DecodeForm rebuilds a snapshot from an HTML form submission whose control
// names are field ids (array elements use "<id>.<index>" prefixes). Empty
// inputs are left absent, unchecked checkboxes decode to false and every array
// decodes to a sequence, empty when no element was posted. Posted element
// indexes only order the elements: they decode to positions 0..n-1.
func DecodeForm(tree model.Tree, form url.Values) (map[string]any, error) {
	out := map[string]any{}
	var errs []error
	for _, field := range tree.Fields {
		decodeField(out, field, form, &errs)
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("render: decode form: %w", errors.Join(errs...))
	}
	return out, nil
}

func decodeField(out map[string]any, field model.Field, form url.Values, errs *[]error) {
	id := field.ID()
	switch widgets.Resolve(field) {
	case widgets.KindUnsupported:
		return
	case widgets.KindObject:
		for _, child := range field.Properties {
			decodeField(out, child, form, errs)
		}
	case widgets.KindArray:
		if field.Items == nil {
			return
		}
		items := []any{}
		for position, element := range elementForms(form, id) {
			scratch := map[string]any{}
			for _, sub := range elementFields(field, position) {
				decodeField(scratch, sub, element, errs)
			}
			items = append(items, elementValue(field, scratch, position))
		}
		setValue(out, field.Path, items, errs)
	case widgets.KindBoolean:
		if !form.Has(id) {
			setValue(out, field.Path, false, errs)
			return
		}
		decodeScalar(out, field, form.Get(id), errs)
	default:
		if !form.Has(id) {
			return
		}
		decodeScalar(out, field, form.Get(id), errs)
	}
}

func decodeScalar(out map[string]any, field model.Field, raw string, errs *[]error) {
	value, ok, err := widgets.FromText(field, raw)
	if err != nil {
		*errs = append(*errs, err)
		return
	}
	if ok {
		setValue(out, field.Path, value, errs)
	}
}

func setValue(out map[string]any, path fieldpath.Path, value any, errs *[]error) {
	if err := fieldpath.Set(out, path, value); err != nil {
		*errs = append(*errs, err)
	}
}

// elementFields returns the item schema rebased onto the absolute path of one
// element so nested decoding can address it like any other field.
func elementFields(field model.Field, index int) []model.Field {
	base := field.Path.Child(strconv.Itoa(index))
	if field.Items.IsObject() {
		out := make([]model.Field, len(field.Items.Properties))
		for i, prop := range field.Items.Properties {
			out[i] = Rebase(prop, base)
		}
		return out
	}
	item := *field.Items.Field
	item.Path = base
	return []model.Field{item}
}

// elementValue pulls the decoded element back out of the scratch map it was
// decoded into.
func elementValue(field model.Field, scratch map[string]any, index int) any {
	value, ok := fieldpath.Get(scratch, field.Path.Child(strconv.Itoa(index)))
	if !ok {
		if field.Items.IsObject() {
			return map[string]any{}
		}
		return nil
	}
	return value
}

// elementForms groups the controls posted under id by element and renumbers
// them to consecutive positions in ascending order of the posted index, so
// "tags.7" and "tags.30000000" decode as elements 0 and 1. The posted number
// never reaches a write path.
func elementForms(form url.Values, id string) []url.Values {
	prefix := id + fieldpath.Separator
	grouped := map[int]url.Values{}
	var indexes []int
	for key, values := range form {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		head, rest, nested := strings.Cut(strings.TrimPrefix(key, prefix), fieldpath.Separator)
		index, err := strconv.Atoi(head)
		if err != nil || index < 0 {
			continue
		}
		element, ok := grouped[index]
		if !ok {
			element = url.Values{}
			grouped[index] = element
			indexes = append(indexes, index)
		}
		if nested {
			element[rest] = values
		} else {
			element[""] = values
		}
	}
	sort.Ints(indexes)

	out := make([]url.Values, len(indexes))
	for position, index := range indexes {
		base := prefix + strconv.Itoa(position)
		element := url.Values{}
		for rest, values := range grouped[index] {
			if rest == "" {
				element[base] = values
				continue
			}
			element[base+fieldpath.Separator+rest] = values
		}
		out[position] = element
	}
	return out
}

// Rebase prefixes the path of field and all of its descendants with base.
// Array item schemas stay element-relative.
func Rebase(field model.Field, base fieldpath.Path) model.Field {
	field.Path = base.Join(field.Path)
	if len(field.Properties) > 0 {
		props := make([]model.Field, len(field.Properties))
		for i, prop := range field.Properties {
			props[i] = Rebase(prop, base)
		}
		field.Properties = props
	}
	return field
}
