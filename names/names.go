// Package names turns arbitrary strings into valid Avro identifiers and
// namespaces.
//
// All functions are pure and total: they never fail, and applying them to
// their own output is a no-op.
package names

import (
	"net/url"
	"path"
	"strings"
)

// ToAvroName replaces every character outside [A-Za-z0-9_] with '_' and
// prefixes '_' when the result is empty or does not start with a letter or
// underscore.
func ToAvroName(s string) string {
	b := make([]byte, 0, len(s)+1)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isNameChar(c) {
			b = append(b, c)
		} else {
			b = append(b, '_')
		}
	}
	if len(b) == 0 || !isNameStart(b[0]) {
		b = append([]byte{'_'}, b...)
	}
	return string(b)
}

// ToAvroNamespace is ToAvroName applied to every dot-separated segment. The
// empty string is the null namespace and is returned unchanged.
func ToAvroNamespace(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = ToAvroName(p)
	}
	return strings.Join(parts, ".")
}

// Qualify joins namespace and name with a dot, or returns name when the
// namespace is empty.
func Qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// ComposeNamespace drops empty parts, normalizes each remaining part and
// joins them with dots.
func ComposeNamespace(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, ToAvroNamespace(p))
	}
	return strings.Join(out, ".")
}

// NamespaceFromID derives a reverse-DNS style namespace from a schema $id.
// "https://example.com/schemas/person-v1.json" becomes
// "com.example.person_v1.schemas".
func NamespaceFromID(id string) string {
	u, err := url.Parse(id)
	if err != nil {
		return ""
	}
	var parts []string
	if host := u.Hostname(); host != "" {
		hs := strings.Split(host, ".")
		for i := len(hs) - 1; i >= 0; i-- {
			parts = append(parts, hs[i])
		}
	}
	p := strings.Trim(u.Path, "/")
	if p == "" && u.Opaque != "" {
		p = u.Opaque
	}
	if p != "" {
		segs := strings.Split(p, "/")
		for i := len(segs) - 1; i >= 0; i-- {
			seg := segs[i]
			if i == len(segs)-1 {
				seg = strings.TrimSuffix(seg, path.Ext(seg))
			}
			parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
		}
	}
	return ComposeNamespace(parts...)
}

// WithAltName normalizes s and also returns the original when it had to
// change.
func WithAltName(s string) (name string, alt string, changed bool) {
	name = ToAvroName(s)
	if name != s {
		return name, s, true
	}
	return name, "", false
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
