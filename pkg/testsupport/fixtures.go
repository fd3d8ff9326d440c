// Package testsupport bundles the sample schemas used across package tests
// and the golden-file helpers that keep snapshot diffs reviewable.
package testsupport

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/schema"
)

//go:embed testdata/*
var fixtures embed.FS

// Fixture returns the raw bytes of an embedded fixture.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()

	data, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// FS exposes the embedded fixtures so loader tests can exercise fs.FS sources.
func FS() embed.FS {
	return fixtures
}

// Definition parses an embedded fixture into a schema definition.
func Definition(t testing.TB, name string) schema.Definition {
	t.Helper()

	def, err := schema.ParseBytes(Fixture(t, name))
	if err != nil {
		t.Fatalf("parse fixture %s: %v", name, err)
	}
	return def
}

// RegistrationSchema is the user registration sample: required scalars,
// custom messages, an enum with labels, nested objects and a string array.
func RegistrationSchema(t testing.TB) schema.Definition {
	t.Helper()
	return Definition(t, "registration.json")
}

// RegistrationValues are the initial values paired with RegistrationSchema.
func RegistrationValues(t testing.TB) map[string]any {
	t.Helper()

	values, err := schema.ParseValues(Fixture(t, "registration_values.json"))
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	return values
}

// TeamSchema is a YAML sample with ordering, layout, groups and object items.
func TeamSchema(t testing.TB) schema.Definition {
	t.Helper()
	return Definition(t, "team.yaml")
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set and
// reports whether it did so.
func WriteGolden(t testing.TB, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	return WriteMaybeGolden(t, path, append(payload, '\n'))
}

// WriteMaybeGolden updates a golden file with raw bytes when UPDATE_GOLDENS is
// set. Returns true if the golden was written.
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareJSON marshals got and diffs it against the JSON stored at path, after
// decoding both into generic values so formatting does not matter.
func CompareJSON(t testing.TB, path string, got any) {
	t.Helper()

	if WriteGolden(t, path, got) {
		return
	}
	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var want, have any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(payload, &have); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}
