// Package validation checks a data snapshot against a normalized field tree.
// Every field reports at most one message: the first rule that fails.
package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Exclusion drops the error recorded for a field when it returns true.
type Exclusion func(field model.Field, id string) bool

// PhoneFields excludes fields whose id ends in "phone" or whose label mentions
// a phone, case-insensitively. It exists for hosts that validate phone numbers
// elsewhere and is never applied unless passed to WithExclusion.
func PhoneFields(field model.Field, id string) bool {
	return strings.HasSuffix(strings.ToLower(id), "phone") ||
		strings.Contains(strings.ToLower(field.Label), "phone")
}

// Option customises a validation pass.
type Option func(*config)

type config struct {
	exclusions []Exclusion
	messages   MessageFunc
}

// WithExclusion registers a filter applied to every recorded error.
func WithExclusion(exclusion Exclusion) Option {
	return func(c *config) {
		if exclusion != nil {
			c.exclusions = append(c.exclusions, exclusion)
		}
	}
}

// WithMessageFunc replaces the generated fallback messages. Custom messages
// declared on a field still take precedence.
func WithMessageFunc(fn MessageFunc) Option {
	return func(c *config) {
		if fn != nil {
			c.messages = fn
		}
	}
}

type validator struct {
	cfg      config
	errors   Errors
	patterns map[string]*regexp.Regexp
}

// Validate walks fields depth-first and returns a fresh error mapping. Objects
// are entered only when their value is a non-nil map, so children of a missing
// subtree are never reported. Array elements are not checked against the item
// schema; only minItems and maxItems apply to arrays.
func Validate(fields []model.Field, data map[string]any, opts ...Option) Errors {
	cfg := config{messages: DefaultMessage}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	v := &validator{cfg: cfg, errors: Errors{}, patterns: map[string]*regexp.Regexp{}}
	v.walk(fields, data)
	return v.errors
}

// Field validates a single value against field without recursing. It returns
// the message and true when a rule fails.
func Field(field model.Field, value any, opts ...Option) (string, bool) {
	cfg := config{messages: DefaultMessage}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	v := &validator{cfg: cfg, errors: Errors{}, patterns: map[string]*regexp.Regexp{}}
	return v.check(field, value)
}

func (v *validator) walk(fields []model.Field, data map[string]any) {
	for _, field := range fields {
		value, _ := fieldpath.Get(data, field.Path)
		if msg, failed := v.check(field, value); failed {
			v.record(field, msg)
		}
		if field.Type != model.FieldTypeObject || len(field.Properties) == 0 {
			continue
		}
		if nested, ok := value.(map[string]any); ok && nested != nil {
			v.walk(field.Properties, data)
		}
	}
}

func (v *validator) record(field model.Field, msg string) {
	id := field.ID()
	for _, exclude := range v.cfg.exclusions {
		if exclude(field, id) {
			return
		}
	}
	v.errors[id] = msg
}

func (v *validator) check(field model.Field, value any) (string, bool) {
	if isEmpty(value) {
		if field.Required {
			return v.message(field, model.RuleRequired, nil), true
		}
		return "", false
	}

	rules := field.Rules
	if text, ok := asString(value); ok {
		return v.checkText(field, rules, text)
	}
	if number, ok := asNumber(value); ok {
		return v.checkNumber(field, rules, number)
	}
	if length, ok := asSequenceLen(value); ok {
		return v.checkSequence(field, rules, length)
	}
	return "", false
}

func (v *validator) checkText(field model.Field, rules model.Rules, text string) (string, bool) {
	length := utf8.RuneCountInString(text)
	if rules.MinLength != nil && length < *rules.MinLength {
		return v.message(field, model.RuleMinLength, *rules.MinLength), true
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return v.message(field, model.RuleMaxLength, *rules.MaxLength), true
	}
	if rules.Pattern != "" && !v.matches(rules.Pattern, text) {
		return v.message(field, model.RulePattern, nil), true
	}
	return "", false
}

func (v *validator) checkNumber(field model.Field, rules model.Rules, number float64) (string, bool) {
	if rules.Min != nil && number < *rules.Min {
		return v.message(field, model.RuleMin, *rules.Min), true
	}
	if rules.Max != nil && number > *rules.Max {
		return v.message(field, model.RuleMax, *rules.Max), true
	}
	if field.Type == model.FieldTypeInteger && math.Trunc(number) != number {
		return v.message(field, model.RuleType, nil), true
	}
	return "", false
}

func (v *validator) checkSequence(field model.Field, rules model.Rules, length int) (string, bool) {
	if rules.MinItems != nil && length < *rules.MinItems {
		return v.message(field, model.RuleMinItems, *rules.MinItems), true
	}
	if rules.MaxItems != nil && length > *rules.MaxItems {
		return v.message(field, model.RuleMaxItems, *rules.MaxItems), true
	}
	return "", false
}

// matches anchors pattern to the whole input. An uncompilable pattern never
// matches, which fails only the field that declares it.
func (v *validator) matches(pattern, text string) bool {
	re, seen := v.patterns[pattern]
	if !seen {
		compiled, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			compiled = nil
		}
		v.patterns[pattern] = compiled
		re = compiled
	}
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

func asString(value any) (string, bool) {
	if _, ok := value.(json.Number); ok {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func asNumber(value any) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func asSequenceLen(value any) (int, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}
