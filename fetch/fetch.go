// Package fetch retrieves schema documents by URI.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/reoring/jsonschema2avro/diag"
)

// ErrUnsupportedScheme is wrapped when a URI scheme has no fetcher.
var ErrUnsupportedScheme = errors.New("unsupported uri scheme")

// Fetcher returns the text of the document at an absolute URI. Failures are
// reported as *diag.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

// Func adapts a function to Fetcher.
type Func func(ctx context.Context, uri string) (string, error)

func (f Func) Fetch(ctx context.Context, uri string) (string, error) { return f(ctx, uri) }

// File reads local files. It accepts file:// URIs and plain paths.
type File struct{}

func (File) Fetch(_ context.Context, uri string) (string, error) {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		p = u.Path
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", &diag.FetchError{URI: uri, Err: err}
	}
	return string(b), nil
}

// HTTP fetches http and https URIs.
type HTTP struct {
	r *resty.Client
}

// NewHTTP returns an HTTP fetcher whose requests time out after timeout. A
// zero timeout disables the client-side limit.
func NewHTTP(timeout time.Duration) *HTTP {
	r := resty.New().SetHeader("Accept", "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.5")
	if timeout > 0 {
		r.SetTimeout(timeout)
	}
	return &HTTP{r: r}
}

func (h *HTTP) Fetch(ctx context.Context, uri string) (string, error) {
	got, err := h.r.NewRequest().WithContext(ctx).Get(uri)
	if err != nil {
		return "", &diag.FetchError{URI: uri, Err: err}
	} else if !got.IsSuccess() {
		return "", &diag.FetchError{URI: uri, Err: fmt.Errorf("GET %s: %s", got.Request.URL, got.Status())}
	}
	return got.String(), nil
}

// Close releases the underlying client.
func (h *HTTP) Close() error { return h.r.Close() }

// Mux dispatches on the URI scheme.
type Mux struct {
	HTTP Fetcher
	File Fetcher
}

// Default returns a Mux over File and an HTTP fetcher with a 30s timeout.
func Default() *Mux {
	return &Mux{HTTP: NewHTTP(30 * time.Second), File: File{}}
}

func (m *Mux) Fetch(ctx context.Context, uri string) (string, error) {
	scheme := ""
	if u, err := url.Parse(uri); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}
	switch scheme {
	case "http", "https":
		if m.HTTP != nil {
			return m.HTTP.Fetch(ctx, uri)
		}
	case "file", "":
		if m.File != nil {
			return m.File.Fetch(ctx, uri)
		}
	}
	return "", &diag.FetchError{URI: uri, Err: fmt.Errorf("%w %q", ErrUnsupportedScheme, scheme)}
}

// Close closes the HTTP fetcher when it supports closing.
func (m *Mux) Close() error {
	if c, ok := m.HTTP.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
