package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formschema/pkg/normalize"
	"github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/schema"
)

const extensionPrefix = "x-ui-"

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint form schemas and OpenAPI documents for unsupported UI keys and normalization problems.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{
			"pkg/testsupport/testdata/registration.json",
			"pkg/testsupport/testdata/team.yaml",
		}
	}

	violations, err := lintPaths(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		report(os.Stderr, violations)
		os.Exit(1)
	}
}

func lintPaths(ctx context.Context, paths []string) ([]violation, error) {
	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("lint %s: %w", path, err)
		}
		violations = append(violations, linted...)
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	return violations, nil
}

func report(w io.Writer, violations []violation) {
	for _, v := range violations {
		fmt.Fprintf(w, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
}

func lintFile(ctx context.Context, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	tree, err := schema.ParseValues(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if openapi.Detect(raw) {
		result := lintKeys(path, nil, tree, extensionPrefix)
		diags, err := lintOperations(ctx, path, raw)
		if err != nil {
			return nil, err
		}
		return append(result, diags...), nil
	}

	result := lintKeys(path, nil, tree, schema.UIPrefix)
	def, err := schema.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return append(result, diagnostics(path, []string{"schema"}, def)...), nil
}

func lintOperations(ctx context.Context, path string, raw []byte) ([]violation, error) {
	doc, err := openapi.Load(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	var result []violation
	for _, op := range openapi.Operations(doc) {
		def, err := openapi.DefinitionForOperation(doc, op.ID)
		if errors.Is(err, openapi.ErrNoRequestBody) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.ID, err)
		}
		result = append(result, diagnostics(path, []string{"operation", op.ID}, def)...)
	}
	return result, nil
}

func diagnostics(file string, base []string, def schema.Definition) []violation {
	var result []violation
	for _, diag := range normalize.Normalize(def).Diagnostics {
		location := base
		if diag.Path != "" {
			location = appendPath(base, diag.Path)
		}
		result = append(result, violation{
			file:     file,
			location: formatLocation(location),
			message:  diag.Code + ": " + diag.Message,
		})
	}
	return result
}

// lintKeys walks a decoded document and reports keys carrying prefix that
// UIHints does not understand.
func lintKeys(file string, path []string, node any, prefix string) []violation {
	var result []violation
	switch typed := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if strings.HasPrefix(key, prefix) {
				result = append(result, validateHint(file, path, strings.TrimPrefix(key, prefix))...)
			}
			result = append(result, lintKeys(file, appendPath(path, key), typed[key], prefix)...)
		}
	case []any:
		for i, item := range typed {
			result = append(result, lintKeys(file, appendPath(path, fmt.Sprint(i)), item, prefix)...)
		}
	}
	return result
}

func validateHint(file string, path []string, key string) []violation {
	if key == "" {
		return []violation{{
			file:     file,
			location: formatLocation(path),
			message:  "UI key is empty",
		}}
	}
	if !schema.IsUIHintKey(key) {
		return []violation{{
			file:     file,
			location: formatLocation(path),
			message:  fmt.Sprintf("unsupported UI key %q (supported: %s)", key, strings.Join(schema.UIHintKeys(), ", ")),
		}}
	}
	return nil
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	next = append(next, segment)
	return next
}

func formatLocation(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	return strings.Join(path, " > ")
}
