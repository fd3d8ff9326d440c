package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formschema/pkg/schema"
)

var (
	// ErrOperationNotFound is returned when no operation matches the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation carries no usable
	// request body schema.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
	// ErrComponentNotFound is returned when a named component schema is missing.
	ErrComponentNotFound = errors.New("openapi: component schema not found")
)

// preferredMediaTypes are tried in order before any other request body
// content.
var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Option configures document loading.
type Option func(*config)

type config struct {
	externalRefs bool
	validate     bool
}

// WithExternalRefs allows $refs that point outside the document.
func WithExternalRefs(enabled bool) Option {
	return func(cfg *config) {
		cfg.externalRefs = enabled
	}
}

// WithValidation runs kin-openapi's document validation after loading.
func WithValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.validate = enabled
	}
}

// Operation summarizes one operation of a document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Load parses and resolves an OpenAPI document.
func Load(ctx context.Context, raw []byte, options ...Option) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = cfg.externalRefs

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}

// Operations lists the operations of doc sorted by id. Operations without an
// operationId are keyed "<method>:<path>".
func Operations(doc *openapi3.T) []Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	var out []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out = append(out, Operation{
				ID:      operationID(method, path, op),
				Method:  method,
				Path:    path,
				Summary: op.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FromOperation loads raw and converts the request body schema of the
// operation identified by operationID.
func FromOperation(ctx context.Context, raw []byte, operationID string, options ...Option) (schema.Definition, error) {
	doc, err := Load(ctx, raw, options...)
	if err != nil {
		return schema.Definition{}, err
	}
	return DefinitionForOperation(doc, operationID)
}

// DefinitionForOperation converts the request body of one operation. The
// operation summary becomes the form title when the schema has none.
func DefinitionForOperation(doc *openapi3.T, id string) (schema.Definition, error) {
	op, ok := findOperation(doc, strings.TrimSpace(id))
	if !ok {
		return schema.Definition{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
	}
	ref := requestSchema(op.RequestBody)
	if ref == nil || ref.Value == nil {
		return schema.Definition{}, fmt.Errorf("%w: %q", ErrNoRequestBody, id)
	}
	def := Convert(ref)
	if def.Title == "" {
		def.Title = op.Summary
	}
	return def, nil
}

// FromComponent loads raw and converts components.schemas[name].
func FromComponent(ctx context.Context, raw []byte, name string, options ...Option) (schema.Definition, error) {
	doc, err := Load(ctx, raw, options...)
	if err != nil {
		return schema.Definition{}, err
	}
	if doc.Components == nil {
		return schema.Definition{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return schema.Definition{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	def := Convert(ref)
	if def.Title == "" {
		def.Title = name
	}
	return def, nil
}

// Detect reports whether raw looks like an OpenAPI or Swagger document.
func Detect(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			_, openapi := payload["openapi"]
			_, swagger := payload["swagger"]
			return openapi || swagger
		}
	}
	for _, line := range strings.Split(string(trimmed), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "openapi:") || strings.HasPrefix(line, "swagger:") {
			return true
		}
	}
	return false
}

func findOperation(doc *openapi3.T, id string) (*openapi3.Operation, bool) {
	if doc == nil || doc.Paths == nil || id == "" {
		return nil, false
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && operationID(method, path, op) == id {
				return op, true
			}
		}
	}
	return nil, false
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return mt.Schema
		}
	}
	types := make([]string, 0, len(content))
	for mediaType := range content {
		types = append(types, mediaType)
	}
	sort.Strings(types)
	for _, mediaType := range types {
		if mt := content[mediaType]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}
