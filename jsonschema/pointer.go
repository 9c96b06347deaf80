package jsonschema

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrPointerNotFound is wrapped by Pointer when a token does not resolve.
var ErrPointerNotFound = errors.New("json pointer target not found")

// EscapePointerToken escapes '~' and '/' in a reference token.
func EscapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// UnescapePointerToken reverses EscapePointerToken.
func UnescapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// JoinPointer appends one reference token to a JSON Pointer.
func JoinPointer(ptr, token string) string {
	return ptr + "/" + EscapePointerToken(token)
}

// NormalizeFragment turns a URI fragment into a JSON Pointer. The leading
// '#' is optional, percent-escapes are decoded and a missing leading slash is
// inserted, so "#definitions/x" reads as "/definitions/x".
func NormalizeFragment(fragment string) string {
	f := strings.TrimPrefix(fragment, "#")
	if u, err := url.PathUnescape(f); err == nil {
		f = u
	}
	if f != "" && !strings.HasPrefix(f, "/") {
		f = "/" + f
	}
	return f
}

// Pointer resolves an RFC 6901 JSON Pointer against n. The empty pointer is
// the node itself.
func (n *Node) Pointer(ptr string) (*Node, error) {
	if ptr == "" {
		return n, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, fmt.Errorf("%w: %q does not start with '/'", ErrPointerNotFound, ptr)
	}
	cur := n
	for _, raw := range strings.Split(ptr[1:], "/") {
		tok := UnescapePointerToken(raw)
		switch cur.Kind() {
		case KindObject:
			if !cur.Has(tok) {
				return nil, fmt.Errorf("%w: %q (no member %q)", ErrPointerNotFound, ptr, tok)
			}
			cur = cur.Get(tok)
		case KindArray:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= cur.Len() {
				return nil, fmt.Errorf("%w: %q (bad index %q)", ErrPointerNotFound, ptr, tok)
			}
			cur = cur.items[i]
		default:
			return nil, fmt.Errorf("%w: %q (cannot descend into %s)", ErrPointerNotFound, ptr, cur.Kind())
		}
	}
	return cur, nil
}
