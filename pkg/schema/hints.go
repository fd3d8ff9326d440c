package schema

import (
	"sort"
	"strings"
)

// UIPrefix marks presentation keywords in a definition.
const UIPrefix = "ui:"

var uiHintKeys = map[string]struct{}{
	"widget":             {},
	"validationMessages": {},
	"placeholder":        {},
	"help":               {},
	"order":              {},
	"disabled":           {},
	"readonly":           {},
	"options":            {},
	"emptyValue":         {},
	"fieldLayout":        {},
	"layout":             {},
	"groups":             {},
}

// IsUIHintKey reports whether key (with or without the "ui:" prefix) is a
// presentation keyword UIHints decodes.
func IsUIHintKey(key string) bool {
	_, ok := uiHintKeys[strings.TrimPrefix(key, UIPrefix)]
	return ok
}

// UIHintKeys lists the supported keys without prefix, sorted.
func UIHintKeys() []string {
	out := make([]string, 0, len(uiHintKeys))
	for key := range uiHintKeys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
