package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

const payload = `{"type":"object","properties":{"name":{"type":"string"}}}`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	doc, err := New(schema.LoaderOptions{}).Load(context.Background(), schema.SourceFromFile(path))
	require.NoError(t, err)
	assert.Equal(t, payload, string(doc.Raw()))
	assert.Equal(t, path, doc.Location())

	_, err = New(schema.LoaderOptions{}).Load(context.Background(), schema.SourceFromFile(filepath.Join(t.TempDir(), "missing.json")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFS(t *testing.T) {
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(testsupport.FS())))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("testdata/team.yaml"))
	require.NoError(t, err)

	def, err := schema.Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "Team", def.Title)

	_, err = New(schema.LoaderOptions{}).Load(context.Background(), schema.SourceFromFS("testdata/team.yaml"))
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	src, err := schema.SourceFromURL(server.URL + "/form.json")
	require.NoError(t, err)

	_, err = New(schema.LoaderOptions{}).Load(context.Background(), src)
	assert.ErrorIs(t, err, ErrHTTPDisabled)

	l := New(schema.NewLoaderOptions(schema.WithHTTPFallback(time.Second)))
	doc, err := l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, payload, string(doc.Raw()))

	missing, err := schema.SourceFromURL(server.URL + "/missing")
	require.NoError(t, err)
	_, err = l.Load(context.Background(), missing)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestLoadCustomClientIsCopied(t *testing.T) {
	client := &http.Client{}
	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(client), schema.WithHTTPFallback(time.Second)))
	assert.Equal(t, time.Duration(0), client.Timeout)
	assert.Equal(t, time.Second, l.http.Timeout)
}

func TestLoadRejectsEmptyAndCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := New(schema.LoaderOptions{}).Load(context.Background(), schema.SourceFromFile(path))
	assert.ErrorIs(t, err, schema.ErrEmptyDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(schema.LoaderOptions{}).Load(ctx, schema.SourceFromFile(path))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = New(schema.LoaderOptions{}).Load(context.Background(), schema.Source{})
	assert.Error(t, err)
}
