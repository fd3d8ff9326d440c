package tui

import (
	"github.com/goliatone/go-formschema/pkg/fieldpath"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// State tracks the snapshot being edited and the errors to surface next to
// each field. Values are addressed by field path.
type State struct {
	values map[string]any
	errors validation.Errors
}

// NewState takes ownership of values and copies errs.
func NewState(values map[string]any, errs validation.Errors) *State {
	if values == nil {
		values = map[string]any{}
	}
	copied := make(validation.Errors, len(errs))
	for id, msg := range errs {
		copied[id] = msg
	}
	return &State{values: values, errors: copied}
}

// Values returns the current snapshot (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// ErrorFor returns the pending message for id, if any.
func (s *State) ErrorFor(id string) string {
	if s == nil {
		return ""
	}
	return s.errors.Get(id)
}

// SetErrors replaces the pending messages.
func (s *State) SetErrors(errs validation.Errors) {
	s.errors = errs
}

// Get resolves p in the snapshot.
func (s *State) Get(p fieldpath.Path) (any, bool) {
	if s == nil {
		return nil, false
	}
	return fieldpath.Get(s.values, p)
}

// Set writes value at p, creating intermediate containers.
func (s *State) Set(p fieldpath.Path, value any) error {
	return fieldpath.Set(s.values, p, value)
}

// Clear resets an existing value to nil so it reads as empty. Absent values
// stay absent.
func (s *State) Clear(p fieldpath.Path) error {
	if _, ok := s.Get(p); !ok {
		return nil
	}
	return s.Set(p, nil)
}
