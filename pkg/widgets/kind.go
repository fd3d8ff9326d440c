// Package widgets maps normalized fields onto a closed set of control kinds.
// Renderers implement one control per Kind and dispatch exactly once per field
// through Resolve; anything that cannot be drawn resolves to KindUnsupported so
// renderers show an explicit placeholder instead of skipping the field.
package widgets

// Kind identifies a control family.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindPassword    Kind = "password"
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindSelect      Kind = "select"
	KindArray       Kind = "array"
	KindObject      Kind = "object"
	KindUnsupported Kind = "unsupported"
)

// Kinds lists every kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindText, KindTextarea, KindPassword, KindNumber, KindBoolean,
		KindSelect, KindArray, KindObject, KindUnsupported,
	}
}

// Valid reports whether k belongs to the closed set.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Scalar reports whether the kind edits a single leaf value.
func (k Kind) Scalar() bool {
	switch k {
	case KindArray, KindObject, KindUnsupported:
		return false
	}
	return true
}
