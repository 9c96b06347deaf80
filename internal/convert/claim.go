package convert

import (
	"fmt"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/diag"
)

// claim reserves the full name of a named type built below the top-level
// namespace. When a different type already holds that name, t takes the
// first free "<Name>_<k>" and a warning is recorded. Equal types share the
// name. Top-level names belong to definitions and the root, and are checked
// by register instead.
func (c *Converter) claim(t avro.Named, ptr string) {
	if t.TypeNamespace() == c.opts.Namespace {
		return
	}
	base, full := t.TypeName(), t.FullName()
	for k := 2; ; k++ {
		prev, ok := c.shapes[t.FullName()]
		if !ok {
			c.shapes[t.FullName()] = t
			break
		}
		if avro.Equal(prev, t) {
			break
		}
		rename(t, fmt.Sprintf("%s_%d", base, k))
	}
	if t.FullName() != full {
		c.diag.Warnf(ptr, diag.CodeDuplicateDefinition, "type %q already has a different shape; renamed to %q", full, t.FullName())
	}
}

// rename changes the local name of t. References inside a record to its old
// name follow the rename.
func rename(t avro.Named, name string) {
	old := t.FullName()
	switch n := t.(type) {
	case *avro.Record:
		n.Name = name
		retarget(n, old, n.FullName())
	case *avro.Enum:
		n.Name = name
	case *avro.Fixed:
		n.Name = name
	}
}

func retarget(s avro.Schema, from, to string) {
	if r, ok := s.(*avro.Record); ok && r.AdditionalProperties != nil {
		retarget(r.AdditionalProperties, from, to)
	}
	for i, ch := range avro.Children(s) {
		if r, ok := ch.(*avro.Ref); ok {
			if r.Name == from {
				avro.SetChild(s, i, &avro.Ref{Name: to})
			}
			continue
		}
		retarget(ch, from, to)
	}
}
