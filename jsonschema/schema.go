package jsonschema

// JSON Schema keywords read by the converter.
const (
	KeyRef                  = "$ref"
	KeyID                   = "$id"
	KeyDefs                 = "$defs"
	KeyDefinitions          = "definitions"
	KeyType                 = "type"
	KeyProperties           = "properties"
	KeyPatternProperties    = "patternProperties"
	KeyAdditionalProperties = "additionalProperties"
	KeyRequired             = "required"
	KeyItems                = "items"
	KeyEnum                 = "enum"
	KeyConst                = "const"
	KeyAllOf                = "allOf"
	KeyOneOf                = "oneOf"
	KeyAnyOf                = "anyOf"
	KeyFormat               = "format"
	KeyTitle                = "title"
	KeyDescription          = "description"
	KeyDefault              = "default"
)

// Str returns the string member key, or "" when it is absent or not a
// string.
func (n *Node) Str(key string) string {
	v := n.Get(key)
	if !v.IsString() {
		return ""
	}
	return v.s
}

// Types returns the "type" keyword as a list: a string becomes a one-element
// list and non-string entries are skipped.
func (n *Node) Types() []string {
	v := n.Get(KeyType)
	switch v.Kind() {
	case KindString:
		return []string{v.s}
	case KindArray:
		out := make([]string, 0, v.Len())
		for _, it := range v.items {
			if it.IsString() {
				out = append(out, it.s)
			}
		}
		return out
	}
	return nil
}

// Required returns the set of names listed under "required".
func (n *Node) Required() map[string]bool {
	out := map[string]bool{}
	for _, it := range n.Get(KeyRequired).Items() {
		if it.IsString() {
			out[it.s] = true
		}
	}
	return out
}

// Definitions calls fn for every entry of "$defs" followed by every entry of
// "definitions". The pointer passed to fn addresses the definition.
func (n *Node) Definitions(fn func(ptr, name string, def *Node)) {
	for _, key := range []string{KeyDefs, KeyDefinitions} {
		n.Get(key).Range(func(name string, def *Node) bool {
			fn(JoinPointer(JoinPointer("", key), name), name, def)
			return true
		})
	}
}

// HasDefinitions reports whether "$defs" or "definitions" holds at least one
// entry.
func (n *Node) HasDefinitions() bool {
	return n.Get(KeyDefs).Len() > 0 || n.Get(KeyDefinitions).Len() > 0
}
