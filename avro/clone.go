package avro

import "slices"

// Clone returns a deep copy of s.
func Clone(s Schema) Schema {
	switch t := s.(type) {
	case *Primitive:
		c := *t
		return &c
	case *Record:
		c := &Record{
			Name:         t.Name,
			Namespace:    t.Namespace,
			Doc:          t.Doc,
			Fields:       make([]*Field, len(t.Fields)),
			Dependencies: slices.Clone(t.Dependencies),
		}
		for i, f := range t.Fields {
			c.Fields[i] = CloneField(f)
		}
		if t.AdditionalProperties != nil {
			c.AdditionalProperties = Clone(t.AdditionalProperties)
		}
		return c
	case *Enum:
		return &Enum{
			Name:         t.Name,
			Namespace:    t.Namespace,
			Doc:          t.Doc,
			Symbols:      slices.Clone(t.Symbols),
			Dependencies: slices.Clone(t.Dependencies),
		}
	case *Fixed:
		c := *t
		return &c
	case *Array:
		return &Array{Items: Clone(t.Items)}
	case *Map:
		return &Map{Values: Clone(t.Values)}
	case *Union:
		c := &Union{Types: make([]Schema, len(t.Types))}
		for i, alt := range t.Types {
			c.Types[i] = Clone(alt)
		}
		return c
	case *Ref:
		c := *t
		return &c
	case *Raw:
		return &Raw{Value: t.Value.Clone()}
	}
	return s
}

// CloneField returns a deep copy of f.
func CloneField(f *Field) *Field {
	c := *f
	c.Type = Clone(f.Type)
	c.Default = f.Default.Clone()
	c.Const = f.Const.Clone()
	return &c
}

// Children returns the nested type positions of s in document order: field
// types of a record, array items, map values and union alternatives. The
// AdditionalProperties extension of a record is not a type position.
func Children(s Schema) []Schema {
	switch t := s.(type) {
	case *Record:
		out := make([]Schema, 0, len(t.Fields))
		for _, f := range t.Fields {
			out = append(out, f.Type)
		}
		return out
	case *Array:
		return []Schema{t.Items}
	case *Map:
		return []Schema{t.Values}
	case *Union:
		return t.Types
	}
	return nil
}

// SetChild replaces the i-th position returned by Children.
func SetChild(s Schema, i int, child Schema) {
	switch t := s.(type) {
	case *Record:
		t.Fields[i].Type = child
	case *Array:
		t.Items = child
	case *Map:
		t.Values = child
	case *Union:
		t.Types[i] = child
	}
}

// StripDependencies clears the dependency lists of every named type in s.
func StripDependencies(s Schema) {
	if d, ok := s.(Dependent); ok {
		d.SetDeps(nil)
	}
	if r, ok := s.(*Record); ok && r.AdditionalProperties != nil {
		StripDependencies(r.AdditionalProperties)
	}
	for _, c := range Children(s) {
		StripDependencies(c)
	}
}
