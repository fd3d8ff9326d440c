// Package html renders a normalized tree as a server-side HTML form using the
// pongo2 template bundle in templates/.
package html

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/render"
	rendertemplate "github.com/goliatone/go-formschema/pkg/render/template"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/snapshot"
	"github.com/goliatone/go-formschema/pkg/widgets"
)

const (
	defaultSubmitLabel = "Submit"
	defaultSelectLabel = "Select an option"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.Renderer
	formID           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFormID fixes the id attribute of the rendered form. Without it every
// render gets a random id.
func WithFormID(id string) Option {
	return func(cfg *config) {
		cfg.formID = strings.TrimSpace(id)
	}
}

type Renderer struct {
	templates rendertemplate.Renderer
	formID    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := rendertemplate.New(
			rendertemplate.WithFS(cfg.templateFS),
			rendertemplate.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, formID: cfg.formID}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the whole form. When options carry no values the controls are
// seeded from a fresh snapshot so defaults show up on first paint.
func (r *Renderer) Render(ctx context.Context, tree model.Tree, options render.Options) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	values := options.Values
	if values == nil {
		values = snapshot.Initialize(tree.Fields, nil)
	}
	p := &pass{templates: r.templates, values: values, options: options}

	body, err := p.scope(tree.Fields, "", tree.Layout, tree.Groups)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	formID := r.formID
	if formID == "" {
		formID = "formschema-" + uuid.NewString()
	}
	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}
	submit := options.SubmitLabel
	if submit == "" {
		submit = defaultSubmitLabel
	}
	hidden := make([]map[string]string, 0, len(options.Hidden))
	for _, field := range render.SortedHidden(options.Hidden) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	out, err := r.templates.RenderTemplate("form", map[string]any{
		"form_id":       formID,
		"method":        method,
		"action":        options.Action,
		"title":         tree.Title,
		"hidden_fields": hidden,
		"body":          body,
		"submit_label":  submit,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(out), nil
}

// pass holds the per-render state threaded through the recursive helpers.
type pass struct {
	templates rendertemplate.Renderer
	values    map[string]any
	options   render.Options
}

func (p *pass) scope(fields []model.Field, base string, layout *schema.LayoutConfig, groups []schema.GroupConfig) (string, error) {
	var b strings.Builder
	if len(groups) == 0 {
		if err := p.fields(&b, fields); err != nil {
			return "", err
		}
		return p.container(containerClass(layout), b.String())
	}

	plan := planGroups(fields, base, groups)
	for _, group := range plan.groups {
		var children strings.Builder
		if err := p.fields(&children, group.fields); err != nil {
			return "", err
		}
		out, err := p.templates.RenderTemplate("group", map[string]any{
			"class":           groupFieldsetClass(group.config),
			"group_id":        group.config.ID,
			"title":           group.config.Title,
			"description":     group.config.Description,
			"container_class": containerClass(group.config.Layout),
			"children":        children.String(),
		})
		if err != nil {
			return "", fmt.Errorf("render group %q: %w", group.config.ID, err)
		}
		b.WriteString(out)
	}
	if err := p.fields(&b, plan.leftover); err != nil {
		return "", err
	}
	return p.container(containerClass(layout), b.String())
}

func (p *pass) container(class, children string) (string, error) {
	out, err := p.templates.RenderTemplate("container", map[string]any{
		"class":    class,
		"children": children,
	})
	if err != nil {
		return "", fmt.Errorf("render container: %w", err)
	}
	return out, nil
}

func (p *pass) fields(b *strings.Builder, fields []model.Field) error {
	for _, field := range fields {
		out, err := p.field(field)
		if err != nil {
			return err
		}
		b.WriteString(out)
	}
	return nil
}

func (p *pass) field(field model.Field) (string, error) {
	kind := widgets.Resolve(field)
	if kind == widgets.KindArray && field.Items == nil {
		kind = widgets.KindUnsupported
	}
	var (
		name string
		data map[string]any
		err  error
	)
	switch kind {
	case widgets.KindUnsupported:
		name = "unsupported"
		data = map[string]any{"id": field.ID(), "label": label(field)}
	case widgets.KindObject:
		name = "object"
		data, err = p.objectData(field)
	case widgets.KindArray:
		name = "array"
		data, err = p.arrayData(field)
	default:
		name = "field"
		data = p.controlData(field, kind)
	}
	if err != nil {
		return "", err
	}
	out, err := p.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("render field %q: %w", field.ID(), err)
	}
	return out, nil
}

func (p *pass) objectData(field model.Field) (map[string]any, error) {
	children, err := p.scope(field.Properties, field.ID(), field.Layout, field.Groups)
	if err != nil {
		return nil, err
	}
	data := p.common(field)
	data["children"] = children
	return data, nil
}

func (p *pass) arrayData(field model.Field) (map[string]any, error) {
	current, _ := fieldpath.Get(p.values, field.Path)
	elements, _ := current.([]any)

	items := make([]map[string]any, 0, len(elements))
	for index := range elements {
		base := field.Path.Child(strconv.Itoa(index))
		var (
			html string
			err  error
		)
		if field.Items.IsObject() {
			props := make([]model.Field, len(field.Items.Properties))
			for i, prop := range field.Items.Properties {
				props[i] = render.Rebase(prop, base)
			}
			html, err = p.scope(props, base.String(), nil, nil)
		} else {
			item := *field.Items.Field
			item.Path = base
			html, err = p.field(item)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"index":  index,
			"target": base.String(),
			"html":   html,
		})
	}

	template, err := json.Marshal(widgets.NewItem(field))
	if err != nil {
		return nil, fmt.Errorf("encode item template for %q: %w", field.ID(), err)
	}
	addLabel := "Item"
	if !field.Items.IsObject() && field.Items.Field.Label != "" {
		addLabel = field.Items.Field.Label
	}

	data := p.common(field)
	data["items"] = items
	data["item_template"] = string(template)
	data["add_label"] = addLabel
	return data, nil
}

func (p *pass) controlData(field model.Field, kind widgets.Kind) map[string]any {
	value, present := fieldpath.Get(p.values, field.Path)
	present = present && value != nil

	data := p.common(field)
	data["kind"] = string(kind)
	data["name"] = field.ID()
	data["placeholder"] = placeholder(field)
	data["has_value"] = present
	data["value"] = ""
	if present {
		data["value"] = formatValue(value)
	}
	data["attrs"] = attributes(field, kind)
	data["flags"] = flags(field, kind)

	switch kind {
	case widgets.KindNumber:
		data["input_type"] = "number"
	case widgets.KindPassword:
		data["input_type"] = "password"
	case widgets.KindBoolean:
		checked, _ := value.(bool)
		data["checked"] = checked
	case widgets.KindSelect:
		emptyLabel := placeholder(field)
		if emptyLabel == "" {
			emptyLabel = defaultSelectLabel
		}
		data["show_empty"] = true
		data["empty_value"] = ""
		data["empty_label"] = emptyLabel
		data["options"] = selectOptions(field, value, present)
	default:
		data["input_type"] = widgets.InputType(field)
	}
	return data
}

func (p *pass) common(field model.Field) map[string]any {
	return map[string]any{
		"id":            field.ID(),
		"label":         label(field),
		"required":      field.Required,
		"wrapper_class": wrapperClass(field),
		"help":          sanitizeHelp(field.HelpText),
		"error":         p.options.ErrorFor(field.ID()),
	}
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name()
}

func placeholder(field model.Field) string {
	if field.Placeholder != "" {
		return field.Placeholder
	}
	return field.UIHints.Placeholder
}

func attributes(field model.Field, kind widgets.Kind) []map[string]string {
	var attrs []map[string]string
	add := func(name, value string) {
		attrs = append(attrs, map[string]string{"name": name, "value": value})
	}
	rules := field.Rules
	switch kind {
	case widgets.KindText, widgets.KindPassword, widgets.KindTextarea:
		if rules.MinLength != nil {
			add("minlength", strconv.Itoa(*rules.MinLength))
		}
		if rules.MaxLength != nil {
			add("maxlength", strconv.Itoa(*rules.MaxLength))
		}
		if rules.Pattern != "" && kind != widgets.KindTextarea {
			add("pattern", rules.Pattern)
		}
	case widgets.KindNumber:
		if rules.Min != nil {
			add("min", formatValue(*rules.Min))
		}
		if rules.Max != nil {
			add("max", formatValue(*rules.Max))
		}
		if field.Type == model.FieldTypeInteger {
			add("step", "1")
		} else {
			add("step", "any")
		}
	}
	return attrs
}

func flags(field model.Field, kind widgets.Kind) []string {
	var out []string
	if field.Required && kind != widgets.KindBoolean {
		out = append(out, "required")
	}
	if field.UIHints.Disabled {
		out = append(out, "disabled")
	}
	if field.UIHints.Readonly {
		out = append(out, "readonly")
	}
	return out
}

func selectOptions(field model.Field, value any, present bool) []map[string]any {
	if field.Rules.Enum == nil {
		return nil
	}
	current := ""
	if present {
		current = formatValue(value)
	}
	entries := field.Rules.Enum.Entries()
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		option := formatValue(entry.Value)
		out = append(out, map[string]any{
			"value":    option,
			"label":    entry.Label,
			"selected": present && option == current,
		})
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(value)
}
