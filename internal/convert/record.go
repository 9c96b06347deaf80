package convert

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reoring/jsonschema2avro/avro"
	"github.com/reoring/jsonschema2avro/jsonschema"
	"github.com/reoring/jsonschema2avro/names"
)

// convertRecord converts an object schema with properties into a record.
// Nested named types live in "<namespace>.<Record>_types". A record that is
// already being built further up the stack is referenced by name instead of
// being expanded again.
func (c *Converter) convertRecord(n *jsonschema.Node, s site) (result, error) {
	name := s.field
	if name == "" {
		name = n.Str(jsonschema.KeyTitle)
	}
	rec := &avro.Record{
		Name:      names.ToAvroName(name),
		Namespace: s.ns,
		Fields:    []*avro.Field{},
	}
	full := rec.FullName()
	if c.onStack(full) {
		return result{Type: &avro.Ref{Name: full}}, nil
	}
	c.push(full)
	defer c.pop()

	var deps []string
	inner := s
	inner.record = rec.Name
	inner.ns = names.ComposeNamespace(s.ns, rec.Name+"_types")

	required := n.Required()
	var err error
	n.Get(jsonschema.KeyProperties).Range(func(key string, prop *jsonschema.Node) bool {
		var f *avro.Field
		var d []string
		f, d, err = c.convertField(key, prop, required[key], inner.child(key, jsonschema.JoinPointer(s.ptr+"/properties", key)))
		if err != nil {
			return false
		}
		rec.Fields = append(rec.Fields, f)
		deps = addDeps(deps, d...)
		return true
	})
	if err != nil {
		return result{}, err
	}

	var notes []string
	if d := n.Str(jsonschema.KeyDescription); d != "" {
		notes = append(notes, d)
	}
	if pp := n.Get(jsonschema.KeyPatternProperties); pp.Len() > 0 {
		notes = append(notes, fmt.Sprintf("Pattern properties: %s", strings.Join(pp.Keys(), ", ")))
	}
	ap := n.Get(jsonschema.KeyAdditionalProperties)
	if b, ok := ap.BoolValue(); ok && b {
		rec.AdditionalProperties = &avro.Map{Values: avro.Prim(avro.String)}
	} else if ap.IsObject() {
		r, err := c.convertType(ap, inner.child(rec.Name+"_extensions", s.ptr+"/additionalProperties"))
		if err != nil {
			return result{}, err
		}
		rec.AdditionalProperties = &avro.Map{Values: r.Type}
	}
	if rec.AdditionalProperties != nil {
		notes = append(notes, "Additional properties allowed")
	}
	rec.Doc = strings.Join(notes, "; ")

	c.claim(rec, s.ptr)
	return result{Type: rec, Deps: withoutDep(deps, full)}, nil
}

// convertField converts one property. Optional properties become nullable.
func (c *Converter) convertField(key string, prop *jsonschema.Node, required bool, s site) (*avro.Field, []string, error) {
	name, alt, _ := names.WithAltName(key)
	s.field = name
	r, err := c.convertType(prop, s)
	if err != nil {
		return nil, nil, err
	}
	f := &avro.Field{
		Name:    name,
		AltName: alt,
		Doc:     prop.Str(jsonschema.KeyDescription),
		Const:   prop.Get(jsonschema.KeyConst).Clone(),
	}
	def := prop.Get(jsonschema.KeyDefault)
	typ := r.Type
	if !required {
		typ = nullable(typ, def != nil && !def.IsNull())
	}
	f.Type = typ
	if def.IsScalar() && defaultFits(typ, def) {
		f.Default = def.Clone()
	}
	return f, r.Deps, nil
}

// nullable makes t accept null. Null leads the union unless a non-null
// default is present, in which case it goes last so the default matches the
// first branch. A union that already holds null keeps its order unless the
// default requires the move.
func nullable(t avro.Schema, nonNullDefault bool) avro.Schema {
	if avro.IsNull(t) {
		return t
	}
	var rest []avro.Schema
	if u, ok := t.(*avro.Union); ok {
		if avro.HasNull(u) && !nonNullDefault {
			return u
		}
		for _, alt := range u.Types {
			if !avro.IsNull(alt) {
				rest = append(rest, alt)
			}
		}
	} else {
		rest = []avro.Schema{t}
	}
	types := append([]avro.Schema{avro.Prim(avro.Null)}, rest...)
	if nonNullDefault {
		types = append(rest, avro.Prim(avro.Null))
	}
	flat, _ := FlattenUnion(types)
	return &avro.Union{Types: flat}
}

// defaultFits reports whether the scalar default d is valid for the first
// branch of t.
func defaultFits(t avro.Schema, d *jsonschema.Node) bool {
	if u, ok := t.(*avro.Union); ok {
		if len(u.Types) == 0 {
			return false
		}
		t = u.Types[0]
	}
	switch x := t.(type) {
	case *avro.Primitive:
		switch x.Name {
		case avro.Null:
			return d.IsNull()
		case avro.Boolean:
			return d.IsBool()
		case avro.String, avro.Bytes:
			return d.IsString() && x.LogicalType == ""
		case avro.Int, avro.Long:
			return d.IsNumber() && x.LogicalType == "" && !strings.ContainsAny(d.Text(), ".eE")
		case avro.Float, avro.Double:
			return d.IsNumber()
		}
	case *avro.Enum:
		return d.IsString() && slices.Contains(x.Symbols, d.Text())
	}
	return false
}

func withoutDep(deps []string, name string) []string {
	out := deps[:0:0]
	for _, d := range deps {
		if d != name {
			out = append(out, d)
		}
	}
	return out
}
