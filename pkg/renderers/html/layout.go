package html

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/schema"
)

const (
	defaultContainerClass = "space-y-4"
	defaultGap            = "4"
	groupClass            = "mb-6 p-4 border border-gray-200 rounded-md"
)

// containerClass maps a layout onto utility classes. A nil or default layout
// stacks children vertically.
func containerClass(layout *schema.LayoutConfig) string {
	if layout == nil {
		return defaultContainerClass
	}
	gap := string(layout.Gap)
	if gap == "" {
		gap = defaultGap
	}

	var classes []string
	switch layout.Type {
	case schema.LayoutGrid:
		classes = append(classes, "grid")
		if layout.Columns > 0 {
			classes = append(classes, fmt.Sprintf("grid-cols-%d", layout.Columns))
		}
		classes = append(classes, "gap-"+gap)
	case schema.LayoutFlex:
		direction := layout.Direction
		if direction == "" {
			direction = "col"
		}
		wrap := layout.Wrap
		if wrap == "" {
			wrap = "wrap"
		}
		classes = append(classes, "flex", "flex-"+direction, "flex-"+wrap, "gap-"+gap)
		if layout.JustifyContent != "" {
			classes = append(classes, "justify-"+layout.JustifyContent)
		}
		if layout.AlignItems != "" {
			classes = append(classes, "items-"+layout.AlignItems)
		}
	default:
		classes = append(classes, defaultContainerClass)
	}
	if layout.ClassName != "" {
		classes = append(classes, layout.ClassName)
	}
	return strings.Join(classes, " ")
}

// wrapperClass applies a field's placement hints inside its parent layout.
func wrapperClass(field model.Field) string {
	if field.FieldLayout == nil {
		return ""
	}
	var classes []string
	if field.FieldLayout.ColSpan > 0 {
		classes = append(classes, fmt.Sprintf("col-span-%d", field.FieldLayout.ColSpan))
	}
	if field.FieldLayout.ClassName != "" {
		classes = append(classes, field.FieldLayout.ClassName)
	}
	return strings.Join(classes, " ")
}

func groupFieldsetClass(group schema.GroupConfig) string {
	if group.ClassName == "" {
		return groupClass
	}
	return groupClass + " " + group.ClassName
}

// groupPlan is the arrangement of one scope (the root or an object) that
// declares groups.
type groupPlan struct {
	groups   []plannedGroup
	leftover []model.Field
}

type plannedGroup struct {
	config schema.GroupConfig
	fields []model.Field
}

// planGroups resolves group field ids against scope (ids may point anywhere
// below it and may be written relative to base). Scope fields that are not
// grouped themselves and have no grouped descendant are returned as leftovers
// so nothing silently disappears.
func planGroups(scope []model.Field, base string, groups []schema.GroupConfig) groupPlan {
	grouped := map[string]bool{}
	var plan groupPlan
	for _, group := range groups {
		planned := plannedGroup{config: group}
		for _, id := range group.Fields {
			field, ok := lookup(scope, base, strings.TrimSpace(id))
			if !ok {
				continue
			}
			planned.fields = append(planned.fields, field)
			grouped[field.ID()] = true
		}
		plan.groups = append(plan.groups, planned)
	}

	for _, field := range scope {
		covered := false
		model.Walk([]model.Field{field}, func(f model.Field) bool {
			if grouped[f.ID()] {
				covered = true
				return false
			}
			return true
		})
		if !covered {
			plan.leftover = append(plan.leftover, field)
		}
	}
	return plan
}

func lookup(scope []model.Field, base, id string) (model.Field, bool) {
	if id == "" {
		return model.Field{}, false
	}
	if field, ok := model.FindField(scope, id); ok {
		return field, true
	}
	if base != "" {
		return model.FindField(scope, base+"."+id)
	}
	return model.Field{}, false
}
