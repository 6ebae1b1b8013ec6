// Package schema resolves the GraphQL schema once, before any linting starts.
package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bennypowers.dev/gqlint/internal/log"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// DefaultFetchTimeout bounds each remote schema request
const DefaultFetchTimeout = 30 * time.Second

// maxRemoteSchemaSize caps how much of a remote response is read
const maxRemoteSchemaSize = 16 << 20

// Loader resolves schema sources into a single schema
type Loader struct {
	// Root is the directory relative paths and globs are resolved against
	Root string
	// Client fetches http(s) sources; defaults to a client with DefaultFetchTimeout
	Client *http.Client
}

// Load resolves specs relative to root with a default Loader
func Load(ctx context.Context, root string, specs []string) (*ast.Schema, error) {
	return (&Loader{Root: root}).Load(ctx, specs)
}

// Load reads every source named by specs and builds one schema from them.
// Sources are SDL or introspection query results in JSON.
//
// No specs means no schema is configured: the result is nil with no error, and
// linting falls back to syntax checks. Any failure is an *UnavailableError.
func (l *Loader) Load(ctx context.Context, specs []string) (*ast.Schema, error) {
	if len(specs) == 0 {
		log.Debug("No schema configured, validation disabled")
		return nil, nil
	}

	var sources []*ast.Source
	for _, spec := range specs {
		found, err := l.resolve(ctx, spec)
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}

	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, NewUnavailableError(strings.Join(specs, ", "), "invalid schema", err)
	}

	log.Info("Loaded schema from %d source(s), %d types", len(sources), len(s.Types))
	return s, nil
}

func (l *Loader) resolve(ctx context.Context, spec string) ([]*ast.Source, error) {
	if IsRemote(spec) {
		src, err := l.fetch(ctx, spec)
		if err != nil {
			return nil, err
		}
		return []*ast.Source{src}, nil
	}

	pattern := spec
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(l.Root, pattern)
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, NewUnavailableError(spec, "bad glob pattern", err)
	}
	if len(paths) == 0 {
		return nil, NewUnavailableError(spec, "no matching files", nil)
	}

	sources := make([]*ast.Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // G304: schema paths come from the user's config
		if err != nil {
			return nil, NewUnavailableError(path, "unreadable file", err)
		}
		src, err := newSource(path, data)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// newSource wraps SDL as is and converts an introspection result to SDL
func newSource(name string, data []byte) (*ast.Source, error) {
	if !isIntrospection(data) {
		return &ast.Source{Name: name, Input: string(data)}, nil
	}
	sdl, err := introspectionToSDL(data)
	if err != nil {
		return nil, NewUnavailableError(name, "invalid introspection result", err)
	}
	log.Debug("Converted introspection result from %s to SDL", name)
	return &ast.Source{Name: name, Input: sdl}, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (*ast.Source, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewUnavailableError(url, "bad request", err)
	}
	req.Header.Set("Accept", "application/graphql, application/json, text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return nil, NewUnavailableError(url, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewUnavailableError(url, fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSchemaSize))
	if err != nil {
		return nil, NewUnavailableError(url, "reading response failed", err)
	}

	log.Debug("Fetched schema from %s (%d bytes)", url, len(body))
	return newSource(url, body)
}

// IsRemote reports whether spec is fetched over http(s)
func IsRemote(spec string) bool {
	return strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://")
}
