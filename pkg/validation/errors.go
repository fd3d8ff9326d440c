package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors maps a field id to the single message of its first failing rule.
// Only failing fields appear.
type Errors map[string]string

// Has reports whether id failed.
func (e Errors) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Get returns the message recorded for id.
func (e Errors) Get(id string) string {
	return e[id]
}

// Empty reports whether validation passed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// IDs returns the failing field ids in lexical order.
func (e Errors) IDs() []string {
	out := make([]string, 0, len(e))
	for id := range e {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Messages converts the mapping into the multi-message shape renderers accept.
func (e Errors) Messages() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for id, msg := range e {
		out[id] = []string{msg}
	}
	return out
}

// String renders "id: message" lines in id order.
func (e Errors) String() string {
	var b strings.Builder
	for i, id := range e.IDs() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", id, e[id])
	}
	return b.String()
}
