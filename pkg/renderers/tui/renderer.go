// Package tui collects form values interactively in a terminal. Prompts are
// chosen per field by widget kind and the finished snapshot is validated
// before it is serialized.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/snapshot"
	"github.com/goliatone/go-formschema/pkg/validation"
	"github.com/goliatone/go-formschema/pkg/widgets"
)

const skipOption = "(none)"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	maxAttempts       int
	validation        []validation.Option
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatPrettyText, OutputFormatFormURLEncoded:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field, then validates the snapshot. Failing fields
// are shown with their message and prompted again, up to the configured
// number of rounds; values that still fail yield an error wrapping
// ErrInvalid.
func (r *Renderer) Render(ctx context.Context, tree model.Tree, opts render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := NewState(snapshot.Initialize(tree.Fields, opts.Values), opts.Errors)
	if tree.Title != "" {
		if err := r.info(ctx, tree.Title); err != nil {
			return nil, err
		}
	}
	for _, field := range tree.Fields {
		if err := r.promptField(ctx, field, state); err != nil {
			return nil, err
		}
	}

	for attempt := 0; ; attempt++ {
		errs := validation.Validate(tree.Fields, state.Values(), r.validation...)
		if errs.Empty() {
			break
		}
		if attempt >= r.maxAttempts {
			return nil, fmt.Errorf("%w:\n%s", ErrInvalid, errs)
		}
		state.SetErrors(errs)
		for _, id := range errs.IDs() {
			field, ok := tree.Find(id)
			if !ok {
				continue
			}
			if err := r.promptField(ctx, field, state); err != nil {
				return nil, err
			}
		}
		state.SetErrors(nil)
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *State) error {
	if msg := state.ErrorFor(field.ID()); msg != "" {
		if err := r.errorf(ctx, "%s: %s", displayLabel(field), msg); err != nil {
			return err
		}
	}

	kind := widgets.Resolve(field)
	if kind == widgets.KindArray && field.Items == nil {
		kind = widgets.KindUnsupported
	}
	switch kind {
	case widgets.KindUnsupported:
		return r.info(ctx, "Unsupported field: "+displayLabel(field))
	case widgets.KindObject:
		for _, child := range field.Properties {
			if err := r.promptField(ctx, child, state); err != nil {
				return err
			}
		}
		return nil
	case widgets.KindArray:
		return r.promptArray(ctx, field, state)
	case widgets.KindBoolean:
		return r.promptBoolean(ctx, field, state)
	case widgets.KindSelect:
		return r.promptSelect(ctx, field, state)
	default:
		return r.promptText(ctx, field, kind, state)
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, kind widgets.Kind, state *State) error {
	label := displayLabel(field)
	help := field.HelpText
	current, _ := state.Get(field.Path)
	defaultVal := formatValue(current)

	for {
		var (
			response string
			err      error
		)
		switch kind {
		case widgets.KindPassword:
			response, err = r.driver.Password(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		case widgets.KindTextarea:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultVal, Help: help})
		default:
			response, err = r.driver.Input(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		}
		if err != nil {
			return err
		}

		value, ok, err := widgets.FromText(field, response)
		if err != nil {
			if err := r.errorf(ctx, "Invalid %s: %q", label, response); err != nil {
				return err
			}
			continue
		}
		if !ok {
			return state.Clear(field.Path)
		}
		return state.Set(field.Path, value)
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, field model.Field, state *State) error {
	current, _ := state.Get(field.Path)
	defaultVal, _ := current.(bool)
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: defaultVal,
		Help:    field.HelpText,
	})
	if err != nil {
		return err
	}
	return state.Set(field.Path, resp)
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, state *State) error {
	var entries []model.EnumOption
	if field.Rules.Enum != nil {
		entries = field.Rules.Enum.Entries()
	}
	if len(entries) == 0 {
		return r.promptText(ctx, field, widgets.KindText, state)
	}

	offset := 0
	var options []string
	if !field.Required {
		options = append(options, skipOption)
		offset = 1
	}
	defaultIdx := -1
	current, present := state.Get(field.Path)
	for i, entry := range entries {
		options = append(options, entry.Label)
		if present && current != nil && fmt.Sprint(entry.Value) == fmt.Sprint(current) {
			defaultIdx = i + offset
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.HelpText,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			if err := r.errorf(ctx, "Invalid %s selection", displayLabel(field)); err != nil {
				return err
			}
			continue
		}
		if idx < offset {
			return state.Clear(field.Path)
		}
		return state.Set(field.Path, fieldpath.Clone(entries[idx-offset].Value))
	}
}

// promptArray revisits existing elements, then offers to append new ones
// until the user declines or maxItems is reached.
func (r *Renderer) promptArray(ctx context.Context, field model.Field, state *State) error {
	current, _ := state.Get(field.Path)
	items, _ := current.([]any)
	if items == nil {
		items = []any{}
		if err := state.Set(field.Path, items); err != nil {
			return err
		}
	}
	for index := range items {
		if err := r.promptElement(ctx, field, index, state); err != nil {
			return err
		}
	}

	label := "item"
	if !field.Items.IsObject() && field.Items.Field.Label != "" {
		label = field.Items.Field.Label
	}
	for count := len(items); ; count++ {
		if limit := field.Rules.MaxItems; limit != nil && count >= *limit {
			return nil
		}
		add, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s to %s?", label, displayLabel(field)),
			Default: false,
		})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		if err := state.Set(field.Path.Child(strconv.Itoa(count)), widgets.NewItem(field)); err != nil {
			return err
		}
		if err := r.promptElement(ctx, field, count, state); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptElement(ctx context.Context, field model.Field, index int, state *State) error {
	base := field.Path.Child(strconv.Itoa(index))
	if !field.Items.IsObject() {
		item := *field.Items.Field
		item.Path = base
		return r.promptField(ctx, item, state)
	}
	if current, _ := state.Get(base); current == nil {
		if err := state.Set(base, map[string]any{}); err != nil {
			return err
		}
	}
	for _, prop := range field.Items.Properties {
		if err := r.promptField(ctx, render.Rebase(prop, base), state); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		payload, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return payload, nil
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	walkLeaves(nil, values, func(p fieldpath.Path, v any) {
		flattened.Add(p.String(), formatValue(v))
	})
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	walkLeaves(nil, values, func(p fieldpath.Path, v any) {
		fmt.Fprintf(&b, "%s=%s\n", p, formatValue(v))
	})
	return b.String()
}

// walkLeaves visits scalar leaves in key order; sequence elements are
// addressed by index like field ids.
func walkLeaves(prefix fieldpath.Path, value any, fn func(fieldpath.Path, any)) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			walkLeaves(prefix.Child(key), v[key], fn)
		}
	case []any:
		for idx, item := range v {
			walkLeaves(prefix.Child(strconv.Itoa(idx)), item, fn)
		}
	default:
		if len(prefix) > 0 {
			fn(prefix, v)
		}
	}
}
