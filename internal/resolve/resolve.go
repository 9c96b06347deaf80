// Package resolve looks up $ref targets in the current document or in
// fetched documents, caching fetched documents by absolute URI.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reoring/jsonschema2avro/diag"
	"github.com/reoring/jsonschema2avro/fetch"
	"github.com/reoring/jsonschema2avro/jsonschema"
)

// DefaultCacheSize bounds the number of fetched documents kept in memory.
const DefaultCacheSize = 256

// ErrNoFetcher is wrapped when a remote reference is resolved by a Resolver
// that was built without a fetcher.
var ErrNoFetcher = errors.New("no fetcher configured for remote references")

// Target is a resolved reference.
type Target struct {
	Node    *jsonschema.Node // the referenced schema
	Doc     *jsonschema.Node // the document owning Node
	URI     string           // absolute URI of Doc without fragment; "" for the current document
	Pointer string           // JSON Pointer of Node inside Doc
}

// Resolver resolves references. It is not safe for concurrent use.
type Resolver struct {
	fetcher fetch.Fetcher
	docs    *lru.Cache[string, *jsonschema.Node]
}

// New returns a Resolver fetching through f. A non-positive size selects
// DefaultCacheSize.
func New(f fetch.Fetcher, size int) (*Resolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	docs, err := lru.New[string, *jsonschema.Node](size)
	if err != nil {
		return nil, err
	}
	return &Resolver{fetcher: f, docs: docs}, nil
}

// IsLocal reports whether ref only carries a fragment.
func IsLocal(ref string) bool { return strings.HasPrefix(ref, "#") }

// Split separates a reference into document part and fragment.
func Split(ref string) (doc, fragment string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i], ref[i:]
	}
	return ref, ""
}

// Resolve resolves ref found in doc, whose location is baseURI. Local
// fragments never cause I/O. Remote documents are fetched once per absolute
// URI. Failures are *diag.UnresolvedReferenceError.
func (r *Resolver) Resolve(ctx context.Context, ref, baseURI string, doc *jsonschema.Node) (*Target, error) {
	docPart, fragment := Split(ref)
	ptr := jsonschema.NormalizeFragment(fragment)
	fail := func(err error) (*Target, error) {
		return nil, &diag.UnresolvedReferenceError{Ref: ref, BaseURI: baseURI, Err: err}
	}

	owner, ownerURI := doc, ""
	if docPart != "" {
		abs, err := Join(baseURI, docPart)
		if err != nil {
			return fail(err)
		}
		if baseDoc, _ := Split(baseURI); abs != baseDoc {
			if owner, err = r.Document(ctx, abs); err != nil {
				return fail(err)
			}
			ownerURI = abs
		}
	}
	node, err := owner.Pointer(ptr)
	if err != nil {
		return fail(err)
	}
	return &Target{Node: node, Doc: owner, URI: ownerURI, Pointer: ptr}, nil
}

// Document returns the parsed document at an absolute URI, fetching it on
// first use.
func (r *Resolver) Document(ctx context.Context, uri string) (*jsonschema.Node, error) {
	if d, ok := r.docs.Get(uri); ok {
		return d, nil
	}
	if r.fetcher == nil {
		return nil, ErrNoFetcher
	}
	text, err := r.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	d, err := jsonschema.Decode([]byte(text), uri)
	if err != nil {
		return nil, &diag.ParseError{Source: uri, Err: err}
	}
	r.docs.Add(uri, d)
	return d, nil
}

// Join resolves ref against base. Both may be URIs or local file paths.
func Join(base, ref string) (string, error) {
	ru, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse reference %q: %w", ref, err)
	}
	if ru.IsAbs() || base == "" {
		return ref, nil
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Scheme == "" {
		if filepath.IsAbs(ref) {
			return ref, nil
		}
		return filepath.Join(filepath.Dir(base), filepath.FromSlash(ref)), nil
	}
	out := bu.ResolveReference(ru)
	out.Fragment = ""
	return out.String(), nil
}
