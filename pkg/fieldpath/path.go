// Package fieldpath addresses values inside nested map[string]any / []any
// containers. Paths are kept as segment lists and only joined with dots when
// they cross a serialization boundary (field ids, error keys).
package fieldpath

import (
	"strconv"
	"strings"
)

// Separator joins path segments in their textual form.
const Separator = "."

// Path is an ordered list of segments. Numeric segments index sequences.
type Path []string

// Parse splits a dot-delimited path. The empty string yields a nil Path.
func Parse(raw string) Path {
	if raw == "" {
		return nil
	}
	return Path(strings.Split(raw, Separator))
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Child returns a new path with segment appended. The receiver is never
// modified so sibling paths do not share a backing array.
func (p Path) Child(segment string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// Join appends every segment of other to p.
func (p Path) Join(other Path) Path {
	out := make(Path, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

// Last returns the final segment or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Equal reports whether both paths hold the same segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	*p = Parse(string(text))
	return nil
}

// index reports whether segment is a non-negative integer literal.
func index(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return n, true
}
