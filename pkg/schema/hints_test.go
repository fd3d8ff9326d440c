package schema

import (
	"reflect"
	"strings"
	"testing"
)

func TestUIHintKeysMatchStructTags(t *testing.T) {
	typ := reflect.TypeOf(UIHints{})
	if typ.NumField() != len(UIHintKeys()) {
		t.Fatalf("UIHints has %d fields, key table has %d", typ.NumField(), len(UIHintKeys()))
	}
	for i := 0; i < typ.NumField(); i++ {
		tag, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if !IsUIHintKey(tag) {
			t.Fatalf("json tag %q missing from key table", tag)
		}
	}
}

func TestIsUIHintKey(t *testing.T) {
	for _, key := range []string{"widget", "ui:widget", "ui:groups"} {
		if !IsUIHintKey(key) {
			t.Fatalf("expected %q to be supported", key)
		}
	}
	for _, key := range []string{"", "ui:", "ui:colour", "title"} {
		if IsUIHintKey(key) {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}
