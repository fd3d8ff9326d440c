package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

func ids(fields []model.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.ID()
	}
	return out
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeRegistrationSchema(t *testing.T) {
	tree := Normalize(testsupport.RegistrationSchema(t))

	if len(tree.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", tree.Diagnostics)
	}
	if tree.Title != "User Registration Form" {
		t.Fatalf("unexpected title %q", tree.Title)
	}
	wantIDs := []string{"fullName", "email", "age", "bio", "isStudent", "country", "contactDetails", "hobbies"}
	if diff := cmp.Diff(wantIDs, ids(tree.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	fullName := tree.Fields[0]
	if !fullName.Required || fullName.Placeholder != "John Doe" || fullName.HelpText != "Please enter your full name." {
		t.Fatalf("unexpected fullName: %+v", fullName)
	}
	if diff := cmp.Diff(model.Rules{MinLength: intPtr(3)}, fullName.Rules); diff != "" {
		t.Fatalf("fullName rules mismatch (-want +got):\n%s", diff)
	}

	age := tree.Fields[2]
	wantAge := model.Rules{Min: floatPtr(18), Max: floatPtr(99)}
	if diff := cmp.Diff(wantAge, age.Rules); diff != "" {
		t.Fatalf("age rules mismatch (-want +got):\n%s", diff)
	}
	if age.Type != model.FieldTypeInteger {
		t.Fatalf("expected integer type, got %q", age.Type)
	}

	bio := tree.Fields[3]
	if bio.Required || bio.UIHints.Widget != "textarea" {
		t.Fatalf("unexpected bio: %+v", bio)
	}

	isStudent := tree.Fields[4]
	if isStudent.Default != false || !isStudent.HasDefault() {
		t.Fatalf("expected default false, got %#v", isStudent.Default)
	}
	if isStudent.Label != "Are you currently a student?" {
		t.Fatalf("unexpected label %q", isStudent.Label)
	}

	country := tree.Fields[5]
	wantEnum := &model.Enum{Options: []model.EnumOption{
		{Value: "USA", Label: "United States"},
		{Value: "Canada", Label: "Canada"},
		{Value: "UK", Label: "United Kingdom"},
		{Value: "Australia", Label: "Australia"},
		{Value: "Other", Label: "Other"},
	}}
	if diff := cmp.Diff(wantEnum, country.Rules.Enum); diff != "" {
		t.Fatalf("country enum mismatch (-want +got):\n%s", diff)
	}
	if country.UIHints.EmptyValue != "" || country.UIHints.Placeholder != "Select your country" {
		t.Fatalf("unexpected country hints: %+v", country.UIHints)
	}

	contact := tree.Fields[6]
	if diff := cmp.Diff([]string{"contactDetails.address"}, ids(contact.Properties)); diff != "" {
		t.Fatalf("contact properties mismatch (-want +got):\n%s", diff)
	}
	address := contact.Properties[0]
	if diff := cmp.Diff([]string{"contactDetails.address.street", "contactDetails.address.city"}, ids(address.Properties)); diff != "" {
		t.Fatalf("address properties mismatch (-want +got):\n%s", diff)
	}

	hobbies := tree.Fields[7]
	if hobbies.Items == nil || hobbies.Items.IsObject() {
		t.Fatalf("expected simple item schema, got %+v", hobbies.Items)
	}
	item := hobbies.Items.Field
	if item.ID() != model.ItemID || item.Label != "Hobby" || item.Required {
		t.Fatalf("unexpected item: %+v", item)
	}
	if diff := cmp.Diff(model.Rules{MinLength: intPtr(2)}, item.Rules); diff != "" {
		t.Fatalf("item rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Rules{MinItems: intPtr(1)}, hobbies.Rules); diff != "" {
		t.Fatalf("hobbies rules mismatch (-want +got):\n%s", diff)
	}
	if hobbies.Messages["minItems"] != "Please list at least one hobby." {
		t.Fatalf("unexpected messages: %v", hobbies.Messages)
	}
}

func TestNormalizeTeamSchema(t *testing.T) {
	tree := Normalize(testsupport.TeamSchema(t))

	if diff := cmp.Diff([]string{"members", "name", "lead"}, ids(tree.Fields)); diff != "" {
		t.Fatalf("ui:order mismatch (-want +got):\n%s", diff)
	}
	wantLayout := &schema.LayoutConfig{Type: schema.LayoutGrid, Columns: 2, Gap: "6"}
	if diff := cmp.Diff(wantLayout, tree.Layout); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	if len(tree.Groups) != 2 || tree.Groups[0].ID != "basics" {
		t.Fatalf("unexpected groups: %+v", tree.Groups)
	}

	members := tree.Fields[0]
	if members.Items == nil || !members.Items.IsObject() {
		t.Fatalf("expected object item schema, got %+v", members.Items)
	}
	if diff := cmp.Diff([]string{"role", "handle"}, ids(members.Items.Properties)); diff != "" {
		t.Fatalf("item ids mismatch (-want +got):\n%s", diff)
	}
	handle := members.Items.Properties[1]
	if !handle.Required {
		t.Fatalf("expected handle to be required within the item")
	}
	role := members.Items.Properties[0]
	wantRole := &model.Enum{Options: []model.EnumOption{
		{Value: "dev", Label: "Developer"},
		{Value: "ops", Label: "ops"},
	}}
	if diff := cmp.Diff(wantRole, role.Rules.Enum); diff != "" {
		t.Fatalf("role enum mismatch (-want +got):\n%s", diff)
	}

	lead := tree.Fields[2]
	if lead.Required {
		t.Fatalf("lead is not listed in the root required list")
	}
	email, ok := tree.Find("lead.email")
	if !ok || !email.Required || email.UIHints.Widget != "email" {
		t.Fatalf("unexpected lead.email: %+v", email)
	}

	name := tree.Fields[1]
	if name.HelpText != "Lowercase letters, digits and dashes." || name.Placeholder != "" {
		t.Fatalf("unexpected name texts: %+v", name)
	}
	if name.Label != "Team name" {
		t.Fatalf("unexpected name label %q", name.Label)
	}
}

func TestOrderExplicitThenDeclared(t *testing.T) {
	def := schema.Definition{
		Type: "object",
		Properties: schema.Properties{
			{Name: "a", Schema: schema.Definition{Type: "string"}},
			{Name: "b", Schema: schema.Definition{Type: "string"}},
			{Name: "c", Schema: schema.Definition{Type: "string"}},
		},
	}
	def.Order = []string{"b", "ghost", "b"}

	tree := Normalize(def)
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids(tree.Fields)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumWithoutNamesPassesThrough(t *testing.T) {
	def := schema.Definition{Type: "object", Properties: schema.Properties{
		{Name: "size", Schema: schema.Definition{Type: "integer", Enum: []any{1.0, 2.0}}},
	}}
	tree := Normalize(def)
	want := &model.Enum{Values: []any{1.0, 2.0}}
	if diff := cmp.Diff(want, tree.Fields[0].Rules.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumExtraNamesIgnored(t *testing.T) {
	def := schema.Definition{Type: "object", Properties: schema.Properties{
		{Name: "x", Schema: schema.Definition{Type: "string", Enum: []any{"a"}, EnumNames: []string{"A", "B"}}},
	}}
	tree := Normalize(def)
	want := &model.Enum{Options: []model.EnumOption{{Value: "a", Label: "A"}}}
	if diff := cmp.Diff(want, tree.Fields[0].Rules.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestSimpleItemEnumIsZipped(t *testing.T) {
	def := schema.Definition{Type: "object", Properties: schema.Properties{
		{Name: "sizes", Schema: schema.Definition{
			Type:  "array",
			Items: &schema.Definition{Type: "string", Enum: []any{"s", "m"}, EnumNames: []string{"Small", "Medium"}},
		}},
	}}
	tree := Normalize(def)

	items := tree.Fields[0].Items
	if items == nil || items.Field == nil {
		t.Fatalf("expected a simple item schema, got %+v", items)
	}
	want := &model.Enum{Options: []model.EnumOption{{Value: "s", Label: "Small"}, {Value: "m", Label: "Medium"}}}
	if diff := cmp.Diff(want, items.Field.Rules.Enum); diff != "" {
		t.Fatalf("item enum mismatch (-want +got):\n%s", diff)
	}
}

func TestMalformedRoot(t *testing.T) {
	cases := map[string]struct {
		def  schema.Definition
		code string
	}{
		"not object":    {def: schema.Definition{Type: "array"}, code: CodeRootNotObject},
		"no properties": {def: schema.Definition{Type: "object"}, code: CodeRootNoProperties},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tree := Normalize(tc.def)
			if tree.Fields == nil || len(tree.Fields) != 0 {
				t.Fatalf("expected empty, non-nil fields, got %#v", tree.Fields)
			}
			if len(tree.Diagnostics) != 1 || tree.Diagnostics[0].Code != tc.code {
				t.Fatalf("unexpected diagnostics: %v", tree.Diagnostics)
			}
		})
	}
}

func TestDiagnosticsForPartialProblems(t *testing.T) {
	def := schema.Definition{Type: "object", Properties: schema.Properties{
		{Name: "tags", Schema: schema.Definition{Type: "array"}},
		{Name: "code", Schema: schema.Definition{Type: "string", Pattern: "([a-z"}},
		{Name: "blob", Schema: schema.Definition{Type: "file"}},
	}}

	tree := Normalize(def)
	if len(tree.Fields) != 3 {
		t.Fatalf("expected every field to survive, got %d", len(tree.Fields))
	}
	if tree.Fields[0].Items != nil {
		t.Fatalf("array without items must not get an item schema")
	}
	var codes []string
	for _, d := range tree.Diagnostics {
		codes = append(codes, d.Code+"@"+d.Path)
	}
	want := []string{
		CodeArrayMissingItem + "@tags",
		CodeInvalidPattern + "@code",
		CodeUnknownType + "@blob",
	}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectWithoutPropertiesHasNoChildren(t *testing.T) {
	def := schema.Definition{Type: "object", Properties: schema.Properties{
		{Name: "meta", Schema: schema.Definition{Type: "object"}},
	}}
	tree := Normalize(def)
	if tree.Fields[0].Properties != nil {
		t.Fatalf("expected nil properties, got %+v", tree.Fields[0].Properties)
	}
	if !tree.Fields[0].Path.Equal(fieldpath.Path{"meta"}) {
		t.Fatalf("unexpected path %v", tree.Fields[0].Path)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	def := testsupport.TeamSchema(t)
	first := Normalize(def)
	second := Normalize(def)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("normalization not deterministic (-first +second):\n%s", diff)
	}
}

func TestTeamTreeGolden(t *testing.T) {
	tree := Normalize(testsupport.TeamSchema(t))
	testsupport.CompareJSON(t, "testdata/team_tree.json", tree)
}
