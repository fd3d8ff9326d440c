package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind enumerates where a schema document can be read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies the origin of a schema document so loaders can fetch it
// without callers caring about the transport.
type Source struct {
	kind     SourceKind
	location string
}

// Kind returns the loader modality.
func (s Source) Kind() SourceKind { return s.kind }

// Location returns the path or URL.
func (s Source) Location() string { return s.location }

// IsZero reports whether the source was never initialised.
func (s Source) IsZero() bool { return s.kind == "" }

func (s Source) String() string {
	if s.IsZero() {
		return "<none>"
	}
	return string(s.kind) + ":" + s.location
}

// SourceFromFile points at a file on disk.
func SourceFromFile(path string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS points at an entry inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return Source{kind: SourceKindFS, location: name}
}

// SourceFromURL validates raw and returns a URL source.
func SourceFromURL(raw string) (Source, error) {
	if raw == "" {
		return Source{}, fmt.Errorf("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return Source{}, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return Source{kind: SourceKindURL, location: raw}, nil
}

// ParseSource guesses the kind from a command-line style location: http(s)
// URLs become URL sources, everything else a file.
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Source{}, fmt.Errorf("schema: location is required")
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(location)
	}
	return SourceFromFile(location), nil
}
