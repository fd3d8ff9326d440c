// Package formschema turns a declarative form schema into a normalized field
// tree, seeds and edits data snapshots against it, validates them and gates
// submission on the result.
package formschema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/normalize"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/snapshot"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("formschema: snapshot failed validation")

// ValidationError carries the error mapping that blocked a submission.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("formschema: %d invalid field(s):\n%s", len(e.Errors), e.Errors)
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// SubmitFunc receives a validated copy of the snapshot.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// Option configures a Form.
type Option func(*Form)

// WithLogger routes normalization diagnostics and blocked submissions to
// logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithNormalizeOptions forwards options to normalize.Normalize.
func WithNormalizeOptions(opts ...normalize.Option) Option {
	return func(f *Form) {
		f.normalize = append(f.normalize, opts...)
	}
}

// WithValidationOptions forwards options to every validation pass.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(f *Form) {
		f.validation = append(f.validation, opts...)
	}
}

// Form is a normalized schema plus the operations a host runs against its
// snapshots. A Form is immutable after construction and safe for concurrent
// use; snapshots are owned by the caller.
type Form struct {
	def        schema.Definition
	tree       model.Tree
	logger     *slog.Logger
	normalize  []normalize.Option
	validation []validation.Option
}

// New normalizes def. Normalization never fails; diagnostics are logged at
// WARN and remain available on Tree().Diagnostics.
func New(def schema.Definition, opts ...Option) *Form {
	f := &Form{def: def, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.tree = normalize.Normalize(def, f.normalize...)
	for _, diag := range f.tree.Diagnostics {
		f.logger.Warn("formschema: schema diagnostic",
			"code", diag.Code,
			"path", diag.Path,
			"message", diag.Message,
		)
	}
	return f
}

// Load fetches src through loader, parses it and builds a Form.
func Load(ctx context.Context, loader schema.Loader, src schema.Source, opts ...Option) (*Form, error) {
	if loader == nil {
		return nil, errors.New("formschema: loader is required")
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("formschema: load %s: %w", src, err)
	}
	def, err := schema.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("formschema: parse %s: %w", src, err)
	}
	return New(def, opts...), nil
}

// Definition returns the schema the form was built from.
func (f *Form) Definition() schema.Definition {
	return f.def
}

// Tree returns a deep copy of the normalized field tree. Mutating it leaves
// the form untouched.
func (f *Form) Tree() model.Tree {
	return f.tree.Clone()
}

// Initialize builds the first snapshot from initial, field defaults and
// structural defaults.
func (f *Form) Initialize(initial map[string]any) map[string]any {
	return snapshot.Initialize(f.tree.Fields, initial)
}

// Set returns a copy of current with value written at the dot-joined id.
// current itself is left untouched.
func (f *Form) Set(current map[string]any, id string, value any) (map[string]any, error) {
	next := fieldpath.CloneMap(current)
	if err := fieldpath.Assign(next, id, fieldpath.Clone(value)); err != nil {
		return nil, fmt.Errorf("formschema: set %q: %w", id, err)
	}
	return next, nil
}

// Validate runs every rule against values.
func (f *Form) Validate(values map[string]any) validation.Errors {
	return validation.Validate(f.tree.Fields, values, f.validation...)
}

// Submit validates values and hands a copy to fn only when nothing failed.
// A failed pass returns a *ValidationError and fn is not called.
func (f *Form) Submit(ctx context.Context, values map[string]any, fn SubmitFunc) error {
	if fn == nil {
		return errors.New("formschema: submit handler is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if errs := f.Validate(values); !errs.Empty() {
		f.logger.Info("formschema: submission blocked", "fields", errs.IDs())
		return &ValidationError{Errors: errs}
	}
	return fn(ctx, fieldpath.CloneMap(values))
}

// Render draws the form with r. Options without Values render the initial
// snapshot.
func (f *Form) Render(ctx context.Context, r render.Renderer, opts render.Options) ([]byte, error) {
	if r == nil {
		return nil, errors.New("formschema: renderer is required")
	}
	if opts.Values == nil {
		opts.Values = f.Initialize(nil)
	}
	out, err := r.Render(ctx, f.tree, opts)
	if err != nil {
		return nil, fmt.Errorf("formschema: render %s: %w", r.Name(), err)
	}
	return out, nil
}
