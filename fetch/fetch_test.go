package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonschema2avro/diag"
	"github.com/reoring/jsonschema2avro/fetch"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "s.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"type":"string"}`), 0o644))

	got, err := fetch.File{}.Fetch(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, `{"type":"string"}`, got)

	got, err = fetch.File{}.Fetch(context.Background(), "file://"+p)
	require.NoError(t, err)
	require.Equal(t, `{"type":"string"}`, got)

	_, err = fetch.File{}.Fetch(context.Background(), filepath.Join(dir, "missing.json"))
	var fe *diag.FetchError
	require.True(t, errors.As(err, &fe))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.json" {
			_, _ = w.Write([]byte(`{"title":"remote"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	h := fetch.NewHTTP(5 * time.Second)
	defer h.Close()

	got, err := h.Fetch(context.Background(), srv.URL+"/ok.json")
	require.NoError(t, err)
	require.Equal(t, `{"title":"remote"}`, got)

	_, err = h.Fetch(context.Background(), srv.URL+"/missing.json")
	var fe *diag.FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, srv.URL+"/missing.json", fe.URI)
}

func TestMux(t *testing.T) {
	var seen []string
	rec := fetch.Func(func(_ context.Context, uri string) (string, error) {
		seen = append(seen, uri)
		return "{}", nil
	})
	m := &fetch.Mux{HTTP: rec, File: rec}

	for _, uri := range []string{"https://example.com/a.json", "file:///tmp/b.json", "c.json"} {
		_, err := m.Fetch(context.Background(), uri)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"https://example.com/a.json", "file:///tmp/b.json", "c.json"}, seen)

	_, err := m.Fetch(context.Background(), "ftp://example.com/x.json")
	require.ErrorIs(t, err, fetch.ErrUnsupportedScheme)
	require.NoError(t, m.Close())
}
