package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formschema/pkg/validation"
)

// Options carry per-request data. Renderers never mutate them.
type Options struct {
	// Values is the current snapshot. Controls are filled from it by field id.
	Values map[string]any
	// Errors is the mapping from the last validation pass. Fields with an error
	// show the message in place of their help text.
	Errors validation.Errors
	// Action and Method describe where an HTML form submits.
	Action string
	Method string
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
	// Hidden fields are emitted before the visible controls.
	Hidden []HiddenField
}

// ErrorFor returns the message recorded for id.
func (o Options) ErrorFor(id string) string {
	return o.Errors.Get(id)
}

// HiddenField is a name/value pair rendered as a hidden input.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden builds a HiddenField, stringifying value.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken builds the hidden field carrying a CSRF token under name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHidden drops unnamed fields, keeps the last value per name and sorts
// by name for deterministic output.
func SortedHidden(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	latest := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		latest[name] = field.Value
	}
	out := make([]HiddenField, 0, len(latest))
	for name, value := range latest {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
