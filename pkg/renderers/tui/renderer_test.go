package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/normalize"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/testsupport"
	"github.com/goliatone/go-formschema/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	defaults     []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	passPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func treeFrom(t *testing.T, raw string) model.Tree {
	t.Helper()
	def, err := schema.ParseBytes([]byte(raw))
	require.NoError(t, err)
	return normalize.Normalize(def)
}

func TestRender_RegistrationSession(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Jane Doe", "jane@example.com", "30", "Main St", "Paris", "reading", "hiking"},
		textAreas: []string{""},
		confirm:   []bool{true, true, true, false},
		selectIdx: []int{2},
	}
	r, err := New(WithPromptDriver(driver))
	require.NoError(t, err)

	tree := normalize.Normalize(testsupport.RegistrationSchema(t))
	out, err := r.Render(context.Background(), tree, render.Options{})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	want := map[string]any{
		"fullName":  "Jane Doe",
		"email":     "jane@example.com",
		"age":       float64(30),
		"isStudent": true,
		"country":   "Canada",
		"contactDetails": map[string]any{
			"address": map[string]any{"street": "Main St", "city": "Paris"},
		},
		"hobbies": []any{"reading", "hiking"},
	}
	assert.Equal(t, want, got, "collected values")
	assert.Equal(t, []string{"User Registration Form"}, driver.infoMessages)
	assert.Equal(t, "application/json", r.ContentType())
}

func TestRender_RepromptsFailingFields(t *testing.T) {
	tree := treeFrom(t, `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string", "title": "Name", "minLength": 3}}
	}`)
	driver := &stubDriver{inputs: []string{"ab", "abc"}}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	require.NoError(t, err)

	out, err := r.Render(context.Background(), tree, render.Options{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"abc"}`, string(out))
	assert.Equal(t, []string{"! Name: Should be at least 3 characters."}, driver.infoMessages)
	assert.Equal(t, []string{"", "ab"}, driver.defaults)
}

func TestRender_GivesUpAfterMaxAttempts(t *testing.T) {
	tree := treeFrom(t, `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`)
	driver := &stubDriver{inputs: []string{"", ""}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(1))
	require.NoError(t, err)

	_, err = r.Render(context.Background(), tree, render.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "name: This field is required.")
	assert.Equal(t, 2, driver.inputPos)
}

func TestRender_SeedsFromValuesAndShowsServerErrors(t *testing.T) {
	tree := treeFrom(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "title": "Name"},
			"tags": {"type": "array", "title": "Tags"}
		}
	}`)
	driver := &stubDriver{inputs: []string{"zed"}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	require.NoError(t, err)

	out, err := r.Render(context.Background(), tree, render.Options{
		Values: map[string]any{"name": "zoe"},
		Errors: map[string]string{"name": "taken"},
	})
	require.NoError(t, err)
	assert.Equal(t, "name=zed\n", string(out))
	assert.Equal(t, []string{"zoe"}, driver.defaults)
	assert.Equal(t, []string{"Name: taken", "Unsupported field: Tags"}, driver.infoMessages)
	assert.Equal(t, "text/plain; charset=utf-8", r.ContentType())
}

func TestRender_ObjectItemsRespectMaxItems(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ada", "bob", "cy", "core", "lead@example.com"},
		selectIdx: []int{2, 1, 0},
		confirm:   []bool{true, true, true},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	require.NoError(t, err)

	tree := normalize.Normalize(testsupport.TeamSchema(t))
	out, err := r.Render(context.Background(), tree, render.Options{})
	require.NoError(t, err)

	encoded := string(out)
	for _, fragment := range []string{"name=core", "members.0.role=ops", "members.0.handle=ada", "members.1.role=dev", "members.2.handle=cy", "lead.email=lead%40example.com"} {
		assert.True(t, strings.Contains(encoded, fragment), "missing %s in %s", fragment, encoded)
	}
	assert.Equal(t, 3, driver.confirmPos)
}

func TestRender_Abort(t *testing.T) {
	tree := treeFrom(t, `{"type": "object", "properties": {"name": {"type": "string"}}}`)
	r, err := New(WithPromptDriver(&stubDriver{err: ErrAborted}))
	require.NoError(t, err)

	_, err = r.Render(context.Background(), tree, render.Options{})
	assert.ErrorIs(t, err, ErrAborted)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("xml"))
	assert.Error(t, err)
}

func TestRender_ContainerMatcherOnScalarPromptsText(t *testing.T) {
	widgets.Default().Register(widgets.KindArray, 100, func(f model.Field) bool {
		return f.UIHints.Widget == "tui-chips"
	})
	tree := treeFrom(t, `{
		"type": "object",
		"properties": {
			"nickname": {"type": "string", "title": "Nickname", "ui:widget": "tui-chips"},
			"tags": {"type": "array", "title": "Tags", "ui:widget": "tui-chips"}
		}
	}`)
	driver := &stubDriver{inputs: []string{"zed"}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	require.NoError(t, err)

	out, err := r.Render(context.Background(), tree, render.Options{})
	require.NoError(t, err)
	assert.Equal(t, "nickname=zed\n", string(out))
	assert.Equal(t, []string{"Unsupported field: Tags"}, driver.infoMessages)
}
