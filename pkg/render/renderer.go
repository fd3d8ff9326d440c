// Package render defines the contract shared by the form renderers and a
// name-keyed registry for selecting one at runtime.
package render

import (
	"context"

	"github.com/goliatone/go-formschema/pkg/model"
)

// Renderer converts a normalized tree plus the current snapshot into a byte
// representation (HTML markup, JSON, an interactive session transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree model.Tree, options Options) ([]byte, error)
}
