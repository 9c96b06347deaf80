package diag

import (
	"fmt"
	"strings"
)

// ParseError reports an input document that could not be read or decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnresolvedReferenceError reports a $ref whose target does not exist or whose
// scheme is not supported.
type UnresolvedReferenceError struct {
	Ref     string
	BaseURI string
	Pointer string // location of the $ref in the referring document
	Err     error
}

func (e *UnresolvedReferenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unresolved reference %q", e.Ref)
	if e.Pointer != "" {
		fmt.Fprintf(&b, " at %s", e.Pointer)
	}
	if e.BaseURI != "" {
		fmt.Fprintf(&b, " (base %s)", e.BaseURI)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UnresolvedReferenceError) Unwrap() error { return e.Err }

// FetchError reports a failed retrieval of a schema document.
type FetchError struct {
	URI string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports a failed write of an output file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DependencyCycleError lists named types whose dependencies could not be
// ordered or inlined. They are omitted from the output.
type DependencyCycleError struct {
	Names []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("unresolved dependency cycle between %s", strings.Join(e.Names, ", "))
}
