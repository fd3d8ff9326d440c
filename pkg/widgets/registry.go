package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formschema/pkg/model"
)

// Matcher decides whether a kind should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	kind     Kind
	priority int
	match    Matcher
	order    int
}

// Registry resolves fields to kinds. An explicit widget tag that is bound wins,
// then matchers by descending priority (ties by registration order), then the
// type tag. Unknown tags on both sides fall through to KindUnsupported.
type Registry struct {
	mu    sync.RWMutex
	tags  map[string]Kind
	rules []rule
}

// NewRegistry returns a registry with the built-in tag table and matchers.
func NewRegistry() *Registry {
	reg := &Registry{tags: map[string]Kind{}}
	reg.registerBuiltins()
	return reg
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry used by Resolve.
func Default() *Registry {
	return defaultRegistry
}

// Resolve dispatches field through the default registry.
func Resolve(field model.Field) Kind {
	return defaultRegistry.Resolve(field)
}

// Bind maps a widget or type tag onto kind. Later bindings replace earlier ones.
func (r *Registry) Bind(tag string, kind Kind) {
	if r == nil || !kind.Valid() {
		return
	}
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tags == nil {
		r.tags = map[string]Kind{}
	}
	r.tags[trimmed] = kind
}

// Register adds a matcher for kind. Higher priority values take precedence.
func (r *Registry) Register(kind Kind, priority int, matcher Matcher) {
	if r == nil || matcher == nil || !kind.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     kind,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the kind for field. It never fails: fields no control can
// handle resolve to KindUnsupported.
func (r *Registry) Resolve(field model.Field) Kind {
	if r == nil {
		return KindUnsupported
	}
	switch field.Type {
	case model.FieldTypeObject:
		if len(field.Properties) > 0 {
			return KindObject
		}
	case model.FieldTypeArray:
		if field.Items == nil {
			return KindUnsupported
		}
	}

	r.mu.RLock()
	widgetKind, widgetBound := r.tags[strings.TrimSpace(field.UIHints.Widget)]
	typeKind, typeBound := r.tags[string(field.Type)]
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	if field.UIHints.Widget != "" && widgetBound && compatible(widgetKind, field) {
		return widgetKind
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) && compatible(entry.kind, field) {
			return entry.kind
		}
	}

	if typeBound {
		return typeKind
	}
	return KindUnsupported
}

// compatible rejects widget tags and matcher results that would hand a container to a scalar
// control or the reverse.
func compatible(kind Kind, field model.Field) bool {
	switch field.Type {
	case model.FieldTypeArray:
		return kind == KindArray
	case model.FieldTypeObject:
		return kind == KindObject
	}
	return kind.Scalar()
}

func (r *Registry) registerBuiltins() {
	r.Bind(string(model.FieldTypeString), KindText)
	r.Bind(string(model.FieldTypeNumber), KindNumber)
	r.Bind(string(model.FieldTypeInteger), KindNumber)
	r.Bind(string(model.FieldTypeBoolean), KindBoolean)
	r.Bind(string(model.FieldTypeArray), KindArray)

	r.Bind("text", KindText)
	r.Bind("textarea", KindTextarea)
	r.Bind("password", KindPassword)
	r.Bind("select", KindSelect)
	r.Bind("number", KindNumber)
	r.Bind("checkbox", KindBoolean)

	r.Register(KindSelect, 70, func(field model.Field) bool {
		if field.Type == model.FieldTypeArray || field.Type == model.FieldTypeObject {
			return false
		}
		return field.Rules.Enum != nil && field.Rules.Enum.Len() > 0
	})
}
