package jsonschema

import (
	"bytes"
	"sort"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the node in document order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Canonical encodes the node compactly with object keys sorted, so that
// structurally equal trees encode to identical bytes.
func (n *Node) Canonical() []byte {
	var buf bytes.Buffer
	// Strings are the only values that go through the encoder, and encoding a
	// Go string cannot fail.
	_ = n.encode(&buf, true)
	return buf.Bytes()
}

func (n *Node) encode(buf *bytes.Buffer, sorted bool) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if n.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(n.s)
	case KindString:
		return writeString(buf, n.s)
	case KindArray:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf, sorted); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		keys := n.Keys()
		if sorted {
			sort.Strings(keys)
		}
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := n.Get(k).encode(buf, sorted); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
