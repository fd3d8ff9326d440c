package formschema

import (
	internalLoader "github.com/goliatone/go-formschema/internal/loader"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
