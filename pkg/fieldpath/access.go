package fieldpath

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned when Set receives a path without segments.
	ErrEmptyPath = errors.New("fieldpath: path is empty")
	// ErrNilContainer is returned when Set receives a nil root map.
	ErrNilContainer = errors.New("fieldpath: container is nil")
	// ErrNotIndex is returned when a non-integer segment addresses a sequence.
	ErrNotIndex = errors.New("fieldpath: segment is not a sequence index")
	// ErrIndexRange is returned when Set would grow a sequence past MaxIndex.
	ErrIndexRange = errors.New("fieldpath: sequence index out of range")
)

// MaxIndex is the largest sequence index Set will pad up to.
const MaxIndex = 1<<16 - 1

// Get walks container along p. It reports ok=false as soon as a segment is
// missing or the current node cannot be traversed; it never panics.
func Get(container any, p Path) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	current := container
	for _, segment := range p {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := index(segment)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Lookup is Get for a dot-delimited path.
func Lookup(container any, raw string) (any, bool) {
	return Get(container, Parse(raw))
}

// Set writes value at p inside root, creating intermediate containers on the
// way. A missing or non-traversable intermediate node becomes a []any when the
// following segment is an integer literal and a map[string]any otherwise.
// Sequences grow with nil padding up to MaxIndex; a larger index fails with
// ErrIndexRange and leaves the sequence untouched. root is mutated in place.
func Set(root map[string]any, p Path, value any) error {
	if root == nil {
		return ErrNilContainer
	}
	if len(p) == 0 {
		return ErrEmptyPath
	}
	_, err := assign(root, p, 0, value)
	return err
}

// Assign is Set for a dot-delimited path.
func Assign(root map[string]any, raw string, value any) error {
	return Set(root, Parse(raw), value)
}

// assign writes value into node at p[i:] and returns the possibly replaced
// node so parents can store grown sequences.
func assign(node any, p Path, i int, value any) (any, error) {
	segment := p[i]
	last := i == len(p)-1

	switch typed := node.(type) {
	case map[string]any:
		if last {
			typed[segment] = value
			return typed, nil
		}
		child, err := assign(containerFor(typed[segment], p[i+1]), p, i+1, value)
		if err != nil {
			return nil, err
		}
		typed[segment] = child
		return typed, nil
	case []any:
		idx, ok := index(segment)
		if !ok {
			return nil, fmt.Errorf("%w: %q at %s", ErrNotIndex, segment, p[:i+1])
		}
		if idx > MaxIndex {
			return nil, fmt.Errorf("%w: %d at %s", ErrIndexRange, idx, p[:i+1])
		}
		for len(typed) <= idx {
			typed = append(typed, nil)
		}
		if last {
			typed[idx] = value
			return typed, nil
		}
		child, err := assign(containerFor(typed[idx], p[i+1]), p, i+1, value)
		if err != nil {
			return nil, err
		}
		typed[idx] = child
		return typed, nil
	default:
		return nil, fmt.Errorf("fieldpath: cannot traverse %T at %s", node, p[:i])
	}
}

// containerFor keeps existing containers and otherwise picks a fresh one based
// on the shape of the next segment.
func containerFor(existing any, next string) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	}
	if _, ok := index(next); ok {
		return []any{}
	}
	return map[string]any{}
}

// Clone deep-copies nested maps and sequences. Scalars are returned as is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = Clone(v)
		}
		return out
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = Clone(v)
		}
		return out
	default:
		return typed
	}
}

// CloneMap deep-copies a snapshot, returning an empty map for nil input.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	return Clone(src).(map[string]any)
}
