package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/normalize"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

func TestResolveRegistrationFields(t *testing.T) {
	tree := normalize.Normalize(testsupport.RegistrationSchema(t))

	got := map[string]Kind{}
	for _, field := range tree.Fields {
		got[field.ID()] = Resolve(field)
	}
	want := map[string]Kind{
		"fullName":       KindText,
		"email":          KindText,
		"age":            KindNumber,
		"bio":            KindTextarea,
		"isStudent":      KindBoolean,
		"country":        KindSelect,
		"contactDetails": KindObject,
		"hobbies":        KindArray,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		field model.Field
		want  Kind
	}{
		{"unknown widget falls back to type", model.Field{Type: model.FieldTypeString, UIHints: model.UIHints{Widget: "email"}}, KindText},
		{"password widget", model.Field{Type: model.FieldTypeString, UIHints: model.UIHints{Widget: "password"}}, KindPassword},
		{"enum without widget", model.Field{Type: model.FieldTypeInteger, Rules: model.Rules{Enum: &model.Enum{Values: []any{1.0}}}}, KindSelect},
		{"explicit widget beats enum matcher", model.Field{Type: model.FieldTypeString, UIHints: model.UIHints{Widget: "textarea"}, Rules: model.Rules{Enum: &model.Enum{Values: []any{"a"}}}}, KindTextarea},
		{"scalar widget on array ignored", model.Field{Type: model.FieldTypeArray, Items: &model.ItemSchema{}, UIHints: model.UIHints{Widget: "select"}}, KindArray},
		{"array without items", model.Field{Type: model.FieldTypeArray}, KindUnsupported},
		{"object without properties", model.Field{Type: model.FieldTypeObject}, KindUnsupported},
		{"unknown type", model.Field{Type: "file"}, KindUnsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.field); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRegistryCustomBindingsAndPriority(t *testing.T) {
	reg := NewRegistry()
	reg.Bind("markdown", KindTextarea)
	reg.Register(KindPassword, 100, func(f model.Field) bool { return f.Format == "secret" })
	reg.Register(KindTextarea, 100, func(f model.Field) bool { return f.Format == "secret" })

	if got := reg.Resolve(model.Field{Type: model.FieldTypeString, UIHints: model.UIHints{Widget: "markdown"}}); got != KindTextarea {
		t.Fatalf("expected bound widget, got %q", got)
	}
	if got := reg.Resolve(model.Field{Type: model.FieldTypeString, Format: "secret"}); got != KindPassword {
		t.Fatalf("expected first registered matcher at equal priority, got %q", got)
	}

	reg.Bind("bogus", Kind("nope"))
	if got := reg.Resolve(model.Field{Type: model.FieldTypeString, UIHints: model.UIHints{Widget: "bogus"}}); got != KindText {
		t.Fatalf("invalid kinds must not bind, got %q", got)
	}
}

func TestRegistryMatchersRespectFieldShape(t *testing.T) {
	reg := NewRegistry()
	chips := func(f model.Field) bool { return f.UIHints.Widget == "chips" }
	reg.Register(KindArray, 100, chips)
	reg.Register(KindObject, 90, chips)

	scalar := model.Field{Type: model.FieldTypeString, UIHints: model.UIHints{Widget: "chips"}}
	if got := reg.Resolve(scalar); got != KindText {
		t.Fatalf("container matcher must not claim a scalar field, got %q", got)
	}

	reg.Register(KindTextarea, 80, chips)
	if got := reg.Resolve(scalar); got != KindTextarea {
		t.Fatalf("expected first compatible matcher, got %q", got)
	}

	list := model.Field{
		Type:    model.FieldTypeArray,
		UIHints: model.UIHints{Widget: "chips"},
		Items:   &model.ItemSchema{Field: &model.Field{Type: model.FieldTypeString}},
	}
	if got := reg.Resolve(list); got != KindArray {
		t.Fatalf("expected array matcher to apply to arrays, got %q", got)
	}
}

func TestDefaultFor(t *testing.T) {
	object := model.Field{
		Path: fieldpath.Path{"meta"},
		Type: model.FieldTypeObject,
		Properties: []model.Field{
			{Path: fieldpath.Path{"meta", "tags"}, Type: model.FieldTypeArray, Items: &model.ItemSchema{}},
			{Path: fieldpath.Path{"meta", "note"}, Type: model.FieldTypeString},
		},
	}
	cases := []struct {
		name   string
		field  model.Field
		want   any
		wantOK bool
	}{
		{"declared default", model.Field{Type: model.FieldTypeString, Default: "x"}, "x", true},
		{"boolean", model.Field{Type: model.FieldTypeBoolean}, false, true},
		{"array", model.Field{Type: model.FieldTypeArray, Items: &model.ItemSchema{}}, []any{}, true},
		{"object", object, map[string]any{"tags": []any{}}, true},
		{"text", model.Field{Type: model.FieldTypeString}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DefaultFor(tc.field)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("default mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewItem(t *testing.T) {
	tree := normalize.Normalize(testsupport.TeamSchema(t))
	members, ok := tree.Find("members")
	if !ok {
		t.Fatalf("members field missing")
	}
	if diff := cmp.Diff(map[string]any{"role": "dev"}, NewItem(members)); diff != "" {
		t.Fatalf("object item mismatch (-want +got):\n%s", diff)
	}

	simple := model.Field{Type: model.FieldTypeArray, Items: &model.ItemSchema{Field: &model.Field{Type: model.FieldTypeString, Default: "n/a"}}}
	if got := NewItem(simple); got != "n/a" {
		t.Fatalf("expected item default, got %#v", got)
	}
	simple.Items.Field.Default = nil
	if got := NewItem(simple); got != nil {
		t.Fatalf("expected nil item, got %#v", got)
	}
}

func TestFromText(t *testing.T) {
	number := model.Field{Path: fieldpath.Path{"age"}, Type: model.FieldTypeInteger}
	if v, ok, err := FromText(number, " 42 "); err != nil || !ok || v != 42.0 {
		t.Fatalf("unexpected number parse: %v %v %v", v, ok, err)
	}
	if _, ok, err := FromText(number, ""); err != nil || ok {
		t.Fatalf("empty number must be absent")
	}
	if _, _, err := FromText(number, "abc"); err == nil {
		t.Fatalf("expected parse error")
	}

	sel := model.Field{
		Path:    fieldpath.Path{"size"},
		Type:    model.FieldTypeInteger,
		Rules:   model.Rules{Enum: &model.Enum{Values: []any{1.0, 2.0}}},
		UIHints: model.UIHints{EmptyValue: ""},
	}
	if v, ok, _ := FromText(sel, "2"); !ok || v != 2.0 {
		t.Fatalf("expected typed enum value, got %#v", v)
	}
	if _, ok, _ := FromText(sel, ""); ok {
		t.Fatalf("empty selection must be absent")
	}

	flag := model.Field{Path: fieldpath.Path{"on"}, Type: model.FieldTypeBoolean}
	if v, _, _ := FromText(flag, "on"); v != true {
		t.Fatalf("expected true, got %#v", v)
	}

	text := model.Field{Path: fieldpath.Path{"name"}, Type: model.FieldTypeString}
	if _, ok, _ := FromText(text, ""); ok {
		t.Fatalf("empty text must be absent")
	}
	if InputType(model.Field{Format: "date-time"}) != "datetime-local" {
		t.Fatalf("unexpected input type")
	}
}
