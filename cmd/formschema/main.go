package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/goliatone/go-formschema"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/renderers/tui"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// errValidation marks runs that finished but produced an invalid snapshot.
var errValidation = errors.New("validation failed")

type config struct {
	schema    string
	operation string
	component string
	values    string
	data      string
	renderer  string
	output    string
	format    string
	action    string
	timeout   time.Duration
}

func main() {
	var cfg config
	flag.StringVar(&cfg.schema, "schema", "", "form schema (JSON/YAML) or OpenAPI document, path or URL")
	flag.StringVar(&cfg.operation, "operation", "", "OpenAPI operation whose request body becomes the form")
	flag.StringVar(&cfg.component, "component", "", "OpenAPI component schema to use instead of an operation")
	flag.StringVar(&cfg.values, "values", "", "initial values file (JSON/YAML)")
	flag.StringVar(&cfg.data, "data", "", "snapshot file to validate; skips rendering")
	flag.StringVar(&cfg.renderer, "renderer", "json", "renderer to use: json, html or tui")
	flag.StringVar(&cfg.output, "output", "", "output file (stdout if empty)")
	flag.StringVar(&cfg.format, "format", string(tui.OutputFormatJSON), "tui output format: json, form or pretty")
	flag.StringVar(&cfg.action, "action", "", "html form action")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "timeout for schemas fetched over HTTP")
	flag.Parse()

	if cfg.schema == "" {
		flag.Usage()
		os.Exit(2)
	}

	out, err := run(context.Background(), cfg, os.Stderr)
	if err != nil {
		if errors.Is(err, errValidation) {
			os.Exit(1)
		}
		log.Fatalf("formschema: %v", err)
	}
	if out == nil {
		return
	}

	if cfg.output != "" {
		if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Form written to %s\n", cfg.output)
		return
	}
	fmt.Println(string(out))
}

// run loads the form and either validates cfg.data or renders. Diagnostics
// and validation messages go to stderr.
func run(ctx context.Context, cfg config, stderr io.Writer) ([]byte, error) {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	def, err := loadDefinition(ctx, cfg)
	if err != nil {
		return nil, err
	}
	form := formschema.New(def, formschema.WithLogger(logger))

	if cfg.data != "" {
		data, err := readValues(cfg.data)
		if err != nil {
			return nil, err
		}
		if errs := form.Validate(data); !errs.Empty() {
			fmt.Fprintln(stderr, errs)
			return nil, fmt.Errorf("%w: %d field(s)", errValidation, len(errs))
		}
		return nil, nil
	}

	initial, err := readValues(cfg.values)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(tui.OutputFormat(cfg.format))
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(cfg.renderer)
	if err != nil {
		return nil, err
	}

	out, err := form.Render(ctx, renderer, render.Options{
		Values: form.Initialize(initial),
		Action: cfg.action,
	})
	if errors.Is(err, tui.ErrInvalid) {
		fmt.Fprintln(stderr, err)
		return nil, errValidation
	}
	return out, err
}

func loadDefinition(ctx context.Context, cfg config) (schema.Definition, error) {
	src, err := schema.ParseSource(cfg.schema)
	if err != nil {
		return schema.Definition{}, err
	}
	loader := formschema.NewLoader(schema.WithHTTPFallback(cfg.timeout))
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return schema.Definition{}, err
	}

	raw := doc.Raw()
	switch {
	case cfg.operation != "":
		return openapi.FromOperation(ctx, raw, cfg.operation)
	case cfg.component != "":
		return openapi.FromComponent(ctx, raw, cfg.component)
	case openapi.Detect(raw):
		return schema.Definition{}, fmt.Errorf("%s is an OpenAPI document; pass -operation or -component (operations: %s)", src, listOperations(ctx, raw))
	}
	return schema.Parse(doc)
}

func listOperations(ctx context.Context, raw []byte) string {
	doc, err := openapi.Load(ctx, raw)
	if err != nil {
		return "unavailable"
	}
	var ids []string
	for _, op := range openapi.Operations(doc) {
		ids = append(ids, op.ID)
	}
	return fmt.Sprint(ids)
}

func readValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	return schema.ParseValues(raw)
}

func newRegistry(format tui.OutputFormat) (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	tuiRenderer, err := tui.New(tui.WithOutputFormat(format))
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(treeRenderer{}, htmlRenderer, tuiRenderer)
}

// treeRenderer dumps the normalized tree.
type treeRenderer struct{}

func (treeRenderer) Name() string        { return "json" }
func (treeRenderer) ContentType() string { return "application/json" }

func (treeRenderer) Render(ctx context.Context, tree model.Tree, _ render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}
