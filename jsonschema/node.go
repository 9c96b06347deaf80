// Package jsonschema holds the order-preserving JSON value tree that schema
// documents are decoded into, plus helpers for the JSON Schema keywords the
// converter understands.
package jsonschema

import (
	"slices"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON shape of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Node is one JSON value. Objects keep their key order. Numbers keep their
// literal text. A nil *Node reads as an absent value: accessors on nil return
// zero values.
type Node struct {
	kind  Kind
	b     bool
	s     string
	items []*Node
	props *orderedmap.OrderedMap[string, *Node]
}

// Null returns a JSON null.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Node { return &Node{kind: KindBool, b: b} }

// Number returns a JSON number holding the given literal.
func Number(lit string) *Node { return &Node{kind: KindNumber, s: lit} }

// Int returns a JSON number for i.
func Int(i int64) *Node { return Number(strconv.FormatInt(i, 10)) }

// String returns a JSON string.
func String(s string) *Node { return &Node{kind: KindString, s: s} }

// Array returns a JSON array holding items.
func Array(items ...*Node) *Node {
	return &Node{kind: KindArray, items: append([]*Node{}, items...)}
}

// StringArray returns a JSON array of strings.
func StringArray(ss ...string) *Node {
	n := &Node{kind: KindArray, items: make([]*Node, 0, len(ss))}
	for _, s := range ss {
		n.items = append(n.items, String(s))
	}
	return n
}

// Object returns an empty JSON object.
func Object() *Node {
	return &Node{kind: KindObject, props: orderedmap.New[string, *Node]()}
}

// Kind reports the JSON shape. A nil node is KindNull.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsObject() bool { return n != nil && n.kind == KindObject }
func (n *Node) IsArray() bool  { return n != nil && n.kind == KindArray }
func (n *Node) IsString() bool { return n != nil && n.kind == KindString }
func (n *Node) IsBool() bool   { return n != nil && n.kind == KindBool }
func (n *Node) IsNumber() bool { return n != nil && n.kind == KindNumber }
func (n *Node) IsNull() bool   { return n != nil && n.kind == KindNull }

// IsScalar reports string, number, boolean and null values.
func (n *Node) IsScalar() bool {
	return n != nil && n.kind != KindArray && n.kind != KindObject
}

// Text returns the string value or the number literal.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case KindString, KindNumber:
		return n.s
	case KindBool:
		return strconv.FormatBool(n.b)
	case KindNull:
		return "null"
	}
	return ""
}

// BoolValue returns the boolean value and whether the node is a boolean.
func (n *Node) BoolValue() (bool, bool) {
	if n == nil || n.kind != KindBool {
		return false, false
	}
	return n.b, true
}

// Items returns the elements of an array. The slice must not be modified.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindArray {
		return nil
	}
	return n.items
}

// Append adds values to an array node.
func (n *Node) Append(vs ...*Node) {
	if n == nil || n.kind != KindArray {
		return
	}
	n.items = append(n.items, vs...)
}

// Len returns the number of array items or object members.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindArray:
		return len(n.items)
	case KindObject:
		return n.props.Len()
	}
	return 0
}

// Get returns the member named key, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	v, _ := n.props.Get(key)
	return v
}

// Has reports whether an object has the member key.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindObject {
		return false
	}
	_, ok := n.props.Get(key)
	return ok
}

// Set adds or replaces a member. Replacing keeps the original position.
func (n *Node) Set(key string, v *Node) *Node {
	if n != nil && n.kind == KindObject {
		n.props.Set(key, v)
	}
	return n
}

// Delete removes a member.
func (n *Node) Delete(key string) {
	if n != nil && n.kind == KindObject {
		n.props.Delete(key)
	}
}

// Keys returns object member names in document order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, n.props.Len())
	for pair := n.props.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for each object member in document order until fn returns
// false.
func (n *Node) Range(fn func(key string, v *Node) bool) {
	if n == nil || n.kind != KindObject {
		return
	}
	for pair := n.props.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindArray:
		out := &Node{kind: KindArray, items: make([]*Node, len(n.items))}
		for i, it := range n.items {
			out.items[i] = it.Clone()
		}
		return out
	case KindObject:
		out := Object()
		for pair := n.props.Oldest(); pair != nil; pair = pair.Next() {
			out.props.Set(pair.Key, pair.Value.Clone())
		}
		return out
	}
	c := *n
	return &c
}

// Without returns a shallow copy of an object with the given keys removed.
func (n *Node) Without(keys ...string) *Node {
	if n == nil || n.kind != KindObject {
		return n
	}
	out := Object()
	for pair := n.props.Oldest(); pair != nil; pair = pair.Next() {
		if slices.Contains(keys, pair.Key) {
			continue
		}
		out.props.Set(pair.Key, pair.Value)
	}
	return out
}

// Equal reports structural equality. Object member order is ignored and
// numbers compare by value.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == o.b
	case KindString:
		return n.s == o.s
	case KindNumber:
		if n.s == o.s {
			return true
		}
		a, err1 := strconv.ParseFloat(n.s, 64)
		b, err2 := strconv.ParseFloat(o.s, 64)
		return err1 == nil && err2 == nil && a == b
	case KindArray:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if n.props.Len() != o.props.Len() {
			return false
		}
		for pair := n.props.Oldest(); pair != nil; pair = pair.Next() {
			ov, ok := o.props.Get(pair.Key)
			if !ok || !pair.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether an array holds a value equal to v.
func (n *Node) Contains(v *Node) bool {
	for _, it := range n.Items() {
		if it.Equal(v) {
			return true
		}
	}
	return false
}
